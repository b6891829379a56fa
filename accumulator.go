package canopy

import "gonum.org/v1/gonum/floats"

// accumulator holds the running sufficient statistics of a canopy that is
// still absorbing records. Distances are always measured against founder,
// which is kept verbatim until finalize.
type accumulator struct {
	founder Record
	density float64

	// sums[i] and seen[i] are only meaningful for numeric attributes;
	// seen[i] stays false until the first non-missing value arrives.
	sums    []float64
	seen    []bool
	missing []float64

	// freqs[i] is the frequency table of categorical attribute i, with one
	// extra trailing bucket counting missing values.
	freqs [][]float64
}

func newAccumulator(schema *Schema, founder Record) *accumulator {
	n := schema.NumAttributes()
	acc := &accumulator{
		founder: founder,
		sums:    make([]float64, n),
		seen:    make([]bool, n),
		missing: make([]float64, n),
		freqs:   make([][]float64, n),
	}
	for i, a := range schema.Attributes {
		if a.IsCategorical() {
			acc.freqs[i] = make([]float64, len(a.Values)+1)
		}
	}
	acc.absorb(schema, founder)
	return acc
}

// absorb folds r into the running statistics.
func (acc *accumulator) absorb(schema *Schema, r Record) {
	acc.density++
	for i, a := range schema.Attributes {
		v := r[i]
		if a.IsNumeric() {
			if IsMissing(v) {
				acc.missing[i]++
				continue
			}
			acc.sums[i] += v
			acc.seen[i] = true
			continue
		}
		table := acc.freqs[i]
		if IsMissing(v) {
			table[len(table)-1]++
		} else {
			table[int(v)]++
		}
	}
}

// centroid materializes the representative record: numeric means over the
// non-missing observations and categorical modes. An attribute is missing in
// the centroid when every observation of it was missing, or when the missing
// bucket is the mode.
func (acc *accumulator) centroid(schema *Schema) Record {
	center := make(Record, schema.NumAttributes())
	for i, a := range schema.Attributes {
		if a.IsNumeric() {
			if acc.missing[i] == acc.density || !acc.seen[i] {
				center[i] = Missing()
				continue
			}
			center[i] = acc.sums[i] / (acc.density - acc.missing[i])
			continue
		}
		table := acc.freqs[i]
		mode := floats.MaxIdx(table)
		if mode == len(table)-1 {
			center[i] = Missing()
			continue
		}
		center[i] = float64(mode)
	}
	return center
}
