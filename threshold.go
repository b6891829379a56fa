package canopy

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

const (
	// DefaultT2 is the inner radius used when the heuristic cannot run or
	// produces zero.
	DefaultT2 = 1.0

	// categoricalSpread is what each categorical attribute contributes to the
	// T2 heuristic.
	categoricalSpread = 0.25

	// minHeuristicObservations is the number of non-missing values a numeric
	// attribute needs before it contributes to the T2 heuristic.
	minHeuristicObservations = 3
)

// EstimateT2 derives an inner radius from attribute dispersion. Each numeric
// attribute contributes 0.5*stddev/range (skipped with fewer than three
// non-missing values or a zero range), each categorical attribute
// contributes 0.25, and the sum is square-rooted. Returns DefaultT2 when the
// sum is zero.
//
// The result depends on record order only through floating point summation,
// so a fixed order yields a bit-for-bit identical value.
func EstimateT2(schema *Schema, records []Record) float64 {
	var sum float64
	values := make([]float64, 0, len(records))

	for i, a := range schema.Attributes {
		if a.IsCategorical() {
			sum += categoricalSpread
			continue
		}

		values = values[:0]
		for _, r := range records {
			if !IsMissing(r[i]) {
				values = append(values, r[i])
			}
		}
		if len(values) < minHeuristicObservations {
			continue
		}

		lo, hi := values[0], values[0]
		for _, v := range values[1:] {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
		if hi-lo <= 0 {
			continue
		}

		stdDev := stat.StdDev(values, nil)
		if math.IsNaN(stdDev) {
			continue
		}
		sum += 0.5 * stdDev / (hi - lo)
	}

	t2 := math.Sqrt(sum)
	if t2 > 0 {
		return t2
	}
	return DefaultT2
}

// resolveT1 turns the configured T1 into an absolute radius: positive values
// are taken as is, negative values multiply t2.
func resolveT1(userT1, t2 float64) float64 {
	if userT1 > 0 {
		return userT1
	}
	return math.Abs(userT1) * t2
}

// resolveThresholds computes the (T1, T2) pair for a batch of records. An
// empty batch with a heuristic T2 falls back to DefaultT2 and reports it via
// logger.
func resolveThresholds(cfg Config, schema *Schema, records []Record, logger *Logger) (t1, t2 float64, err error) {
	heuristic := cfg.T2 < 0
	t2 = cfg.T2
	if heuristic {
		if len(records) == 0 {
			t2 = DefaultT2
			logger.LogDefaultT2(t2)
		} else {
			t2 = EstimateT2(schema, records)
		}
	}

	t1 = resolveT1(cfg.T1, t2)
	if t1 < t2 {
		return 0, 0, &ThresholdError{T1: t1, T2: t2}
	}
	logger.LogThresholds(t1, t2, heuristic)
	return t1, t2, nil
}
