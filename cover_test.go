package canopy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func coverFixture(t *testing.T) *Cover {
	t.Helper()
	s := numericSchema(t, 1)
	// centers 0.25 and 10.25
	c := streamed(t, s, rawConfig(s, 1, 1.5), points(0, 0.5, 10, 10.5)...)
	c.Finalize()

	cv, err := c.Cover(points(0, 0.5, 10, 10.5, 5))
	require.NoError(t, err)
	return cv
}

func TestCover_Members(t *testing.T) {
	cv := coverFixture(t)

	assert.Equal(t, 5, cv.NumRecords())
	assert.Equal(t, 2, cv.NumCanopies())
	assert.Equal(t, []uint32{0, 1, 4}, cv.Members(0))
	assert.Equal(t, []uint32{2, 3}, cv.Members(1))
	assert.Equal(t, 3, cv.Size(0))
	assert.Equal(t, 2, cv.Size(1))
	assert.Equal(t, []int{0}, cv.Membership(4).Indices())
}

func TestCover_Neighbors(t *testing.T) {
	cv := coverFixture(t)

	nb, err := cv.Neighbors(0)
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 4}, nb.ToArray())

	nb, err = cv.Neighbors(3)
	require.NoError(t, err)
	assert.Equal(t, []uint32{2}, nb.ToArray())

	_, err = cv.Neighbors(5)
	assert.Error(t, err)
	_, err = cv.Neighbors(-1)
	assert.Error(t, err)
}

func TestCover_CandidatePairs(t *testing.T) {
	// {0,1,4} gives 3 pairs, {2,3} gives 1
	assert.Equal(t, uint64(4), coverFixture(t).CandidatePairs())
}

func TestCover_OverlappingCanopiesCountPairsOnce(t *testing.T) {
	s := numericSchema(t, 1)
	c := streamed(t, s, rawConfig(s, 1, 3), points(0, 2)...)
	c.Finalize()

	cv, err := c.Cover(points(0, 1, 2))
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 1, 2}, cv.Members(0))
	assert.Equal(t, []uint32{0, 1, 2}, cv.Members(1))
	assert.Equal(t, uint64(3), cv.CandidatePairs())
}

func TestCover_NoCanopies(t *testing.T) {
	s := numericSchema(t, 1)
	c, err := New(s, rawConfig(s, 1, 2))
	require.NoError(t, err)

	_, err = c.Cover(points(1))
	assert.ErrorIs(t, err, ErrNoCanopies)
}
