package canopy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccumulator_NumericMean(t *testing.T) {
	s := numericSchema(t, 2)
	acc := newAccumulator(s, Record{1, 10})
	acc.absorb(s, Record{3, 20})
	acc.absorb(s, Record{5, Missing()})

	assert.Equal(t, 3.0, acc.density)
	assert.Equal(t, []float64{0, 1}, acc.missing)

	c := acc.centroid(s)
	assert.InDelta(t, 3.0, c[0], floatTol)
	assert.InDelta(t, 15.0, c[1], floatTol)
}

func TestAccumulator_AllMissingNumeric(t *testing.T) {
	s := numericSchema(t, 2)
	acc := newAccumulator(s, Record{Missing(), 1})
	acc.absorb(s, Record{Missing(), 2})

	c := acc.centroid(s)
	assert.True(t, IsMissing(c[0]))
	assert.Equal(t, acc.density, acc.missing[0])
	assert.False(t, acc.seen[0])
	assert.InDelta(t, 1.5, c[1], floatTol)
}

func TestAccumulator_CategoricalMode(t *testing.T) {
	s := mixedSchema(t)
	acc := newAccumulator(s, Record{1, 2})
	acc.absorb(s, Record{2, 0})
	acc.absorb(s, Record{3, 2})

	assert.Equal(t, []float64{1, 0, 2, 0}, acc.freqs[1])
	assert.Equal(t, 2.0, acc.centroid(s)[1])
}

func TestAccumulator_CategoricalTieKeepsLowestIndex(t *testing.T) {
	s := mixedSchema(t)
	acc := newAccumulator(s, Record{1, 2})
	acc.absorb(s, Record{1, 1})

	assert.Equal(t, 1.0, acc.centroid(s)[1])
}

func TestAccumulator_MissingBucketMode(t *testing.T) {
	s := mixedSchema(t)
	acc := newAccumulator(s, Record{1, Missing()})
	acc.absorb(s, Record{1, Missing()})
	acc.absorb(s, Record{1, 0})

	assert.Equal(t, 2.0, acc.freqs[1][3])
	assert.True(t, IsMissing(acc.centroid(s)[1]))
}

func TestAccumulator_FounderKeptVerbatim(t *testing.T) {
	s := numericSchema(t, 1)
	founder := Record{1}
	acc := newAccumulator(s, founder)
	acc.absorb(s, Record{9})
	assert.Equal(t, Record{1}, acc.founder)
	assert.InDelta(t, 5.0, acc.centroid(s)[0], floatTol)
}
