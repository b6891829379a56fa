package canopy

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// MissingValueResolver returns a copy of a record with its missing values
// filled in. Implementations must not modify the input and must be safe for
// concurrent use.
type MissingValueResolver interface {
	Resolve(r Record) Record
}

// MeanModeImputer replaces missing numeric values with the training mean and
// missing categorical values with the training mode. Attributes that were
// never observed stay missing.
type MeanModeImputer struct {
	fill Record
}

// NewMeanModeImputer computes per-attribute means and modes over records.
// Categorical mode ties resolve to the lowest category index.
func NewMeanModeImputer(schema *Schema, records []Record) *MeanModeImputer {
	fill := make(Record, schema.NumAttributes())
	values := make([]float64, 0, len(records))

	for i, a := range schema.Attributes {
		if a.IsNumeric() {
			values = values[:0]
			for _, r := range records {
				if !IsMissing(r[i]) {
					values = append(values, r[i])
				}
			}
			if len(values) == 0 {
				fill[i] = Missing()
				continue
			}
			fill[i] = stat.Mean(values, nil)
			continue
		}

		counts := make([]float64, len(a.Values))
		observed := false
		for _, r := range records {
			if !IsMissing(r[i]) {
				counts[int(r[i])]++
				observed = true
			}
		}
		if !observed {
			fill[i] = Missing()
			continue
		}
		fill[i] = float64(floats.MaxIdx(counts))
	}
	return &MeanModeImputer{fill: fill}
}

// Resolve implements MissingValueResolver.
func (m *MeanModeImputer) Resolve(r Record) Record {
	out := r.Clone()
	for i, v := range out {
		if IsMissing(v) && i < len(m.fill) {
			out[i] = m.fill[i]
		}
	}
	return out
}

// Fill returns the replacement value per attribute.
func (m *MeanModeImputer) Fill() Record { return m.fill.Clone() }
