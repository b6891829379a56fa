package canopy

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// numericSchema returns a schema of dims numeric attributes x0, x1, ...
func numericSchema(t testing.TB, dims int) *Schema {
	t.Helper()
	attrs := make([]Attribute, dims)
	for i := range attrs {
		attrs[i] = NumericAttribute("x" + string(rune('0'+i)))
	}
	s, err := NewSchema(attrs...)
	require.NoError(t, err)
	return s
}

// rawConfig returns a quiet, single-worker config with explicit radii and a
// distance measured in raw attribute units.
func rawConfig(schema *Schema, t2, t1 float64) Config {
	cfg := DefaultConfig()
	cfg.T2 = t2
	cfg.T1 = t1
	cfg.Distance = NewNormalizedDistance(schema, nil, WithoutNormalization())
	cfg.Logger = NoopLogger()
	cfg.Workers = 1
	return cfg
}

// streamed builds a clusterer and feeds records through Update in order.
func streamed(t testing.TB, schema *Schema, cfg Config, records ...Record) *Clusterer {
	t.Helper()
	c, err := New(schema, cfg)
	require.NoError(t, err)
	for _, r := range records {
		require.NoError(t, c.Update(r))
	}
	return c
}

// points converts scalars into one-attribute records.
func points(values ...float64) []Record {
	out := make([]Record, len(values))
	for i, v := range values {
		out[i] = Record{v}
	}
	return out
}

func generateRecords(n, dims int, seed int64) []Record {
	rng := rand.New(rand.NewSource(seed))
	data := make([]Record, n)
	for i := range data {
		data[i] = make(Record, dims)
		for j := range data[i] {
			data[i][j] = rng.Float64() * 100
		}
	}
	return data
}
