package canopy

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// DistanceProvider measures how far apart two records are. Observe is called
// with every record the clusterer trains on so that providers which
// normalize attribute ranges can adapt. Distance must be safe to call
// concurrently as long as Observe is not running.
type DistanceProvider interface {
	Distance(a, b Record) float64
	Observe(r Record)
}

// DistanceMetric folds per-attribute differences into a single non-negative
// distance.
type DistanceMetric interface {
	Distance(diffs []float64) float64
}

// DistanceFunc adapts a plain function into a DistanceMetric.
type DistanceFunc func(diffs []float64) float64

func (f DistanceFunc) Distance(diffs []float64) float64 { return f(diffs) }

// EuclideanMetric computes the Euclidean (L2) norm of the differences.
type EuclideanMetric struct{}

func (EuclideanMetric) Distance(diffs []float64) float64 {
	return floats.Norm(diffs, 2)
}

// ManhattanMetric computes the Manhattan (L1 / city-block) norm.
type ManhattanMetric struct{}

func (ManhattanMetric) Distance(diffs []float64) float64 {
	return floats.Norm(diffs, 1)
}

// ChebyshevMetric computes the Chebyshev (L-infinity) norm.
type ChebyshevMetric struct{}

func (ChebyshevMetric) Distance(diffs []float64) float64 {
	return floats.Norm(diffs, math.Inf(1))
}

// MinkowskiMetric computes the Minkowski norm parameterized by P.
// P must be >= 1. Panics if P < 1.
type MinkowskiMetric struct {
	P float64
}

func (m MinkowskiMetric) Distance(diffs []float64) float64 {
	if m.P < 1 {
		panic("MinkowskiMetric: P must be >= 1")
	}
	return floats.Norm(diffs, m.P)
}

// DistanceOption configures a NormalizedDistance.
type DistanceOption func(*NormalizedDistance)

// WithoutNormalization makes numeric differences use raw attribute units
// instead of the observed [min, max] range.
func WithoutNormalization() DistanceOption {
	return func(d *NormalizedDistance) {
		d.normalize = false
	}
}

// NormalizedDistance is the default DistanceProvider. Numeric differences are
// scaled by the range observed so far, categorical attributes differ by 0 or
// 1, and the resulting per-attribute differences are folded by a
// DistanceMetric.
//
// A missing numeric value is treated as being as far as possible from the
// other side: 1-v when the present value normalizes to v < 0.5, v otherwise.
// Two missing numeric values, or a missing categorical on either side, count
// as the maximum difference.
type NormalizedDistance struct {
	schema    *Schema
	metric    DistanceMetric
	normalize bool
	min       []float64
	max       []float64
}

// NewNormalizedDistance returns a provider over schema folding differences
// with metric. A nil metric means EuclideanMetric.
func NewNormalizedDistance(schema *Schema, metric DistanceMetric, opts ...DistanceOption) *NormalizedDistance {
	if metric == nil {
		metric = EuclideanMetric{}
	}
	d := &NormalizedDistance{
		schema:    schema,
		metric:    metric,
		normalize: true,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.Reset()
	return d
}

// Reset forgets every observed range.
func (d *NormalizedDistance) Reset() {
	n := d.schema.NumAttributes()
	d.min = make([]float64, n)
	d.max = make([]float64, n)
	for i := range n {
		d.min[i] = math.NaN()
		d.max[i] = math.NaN()
	}
}

// Observe widens the numeric ranges to include r.
func (d *NormalizedDistance) Observe(r Record) {
	for i, a := range d.schema.Attributes {
		if !a.IsNumeric() || i >= len(r) || IsMissing(r[i]) {
			continue
		}
		v := r[i]
		if math.IsNaN(d.min[i]) {
			d.min[i], d.max[i] = v, v
			continue
		}
		d.min[i] = math.Min(d.min[i], v)
		d.max[i] = math.Max(d.max[i], v)
	}
}

// Range returns the observed [min, max] of numeric attribute i. Both are NaN
// before any value has been observed.
func (d *NormalizedDistance) Range(i int) (lo, hi float64) {
	return d.min[i], d.max[i]
}

// Distance implements DistanceProvider.
func (d *NormalizedDistance) Distance(a, b Record) float64 {
	diffs := make([]float64, len(d.schema.Attributes))
	for i, attr := range d.schema.Attributes {
		if attr.IsCategorical() {
			diffs[i] = categoricalDifference(a[i], b[i])
			continue
		}
		diffs[i] = d.numericDifference(i, a[i], b[i])
	}
	return d.metric.Distance(diffs)
}

func categoricalDifference(x, y float64) float64 {
	if IsMissing(x) || IsMissing(y) || int(x) != int(y) {
		return 1
	}
	return 0
}

func (d *NormalizedDistance) numericDifference(i int, x, y float64) float64 {
	xMissing, yMissing := IsMissing(x), IsMissing(y)
	if !xMissing && !yMissing {
		if d.normalize {
			return d.norm(i, x) - d.norm(i, y)
		}
		return x - y
	}

	lo, hi := d.knownRange(i)
	if xMissing && yMissing {
		if d.normalize {
			return 1
		}
		return hi - lo
	}

	present := x
	if xMissing {
		present = y
	}
	if d.normalize {
		v := d.norm(i, present)
		if v < 0.5 {
			return 1 - v
		}
		return v
	}
	return math.Max(hi-present, present-lo)
}

func (d *NormalizedDistance) norm(i int, v float64) float64 {
	lo, hi := d.min[i], d.max[i]
	if math.IsNaN(lo) || hi == lo {
		return 0
	}
	return (v - lo) / (hi - lo)
}

func (d *NormalizedDistance) knownRange(i int) (lo, hi float64) {
	lo, hi = d.min[i], d.max[i]
	if math.IsNaN(lo) {
		return 0, 0
	}
	return lo, hi
}
