package canopy

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// centers returns the records distances are currently measured against:
// centroids after Finalize, founding records before.
func (c *Clusterer) centers() []Record {
	if c.finalized {
		return c.result.Centers()
	}
	out := make([]Record, len(c.building))
	for i, acc := range c.building {
		out[i] = acc.founder
	}
	return out
}

// AssignMembership returns the canopies whose current center is closer than
// T1 to r. When none is, the single nearest canopy is returned instead, so
// the membership always has at least one bit set. Distance ties for the
// nearest canopy resolve to the lowest index.
func (c *Clusterer) AssignMembership(r Record) (Membership, error) {
	if err := c.schema.Validate(r); err != nil {
		return Membership{}, err
	}
	centers := c.centers()
	if len(centers) == 0 {
		return Membership{}, ErrNoCanopies
	}
	return assignMembership(c.dist, c.resolve(r), centers, c.t1), nil
}

func assignMembership(dist DistanceProvider, r Record, centers []Record, t1 float64) Membership {
	m := NewMembership(len(centers))

	nearest := 0
	minDist := math.Inf(1)
	found := false
	for i, center := range centers {
		d := dist.Distance(r, center)
		if d < minDist {
			minDist = d
			nearest = i
		}
		if d < t1 {
			m.Set(i)
			found = true
		}
	}

	if !found {
		m.Set(nearest)
	}
	return m
}

// SoftAssignment returns a probability per canopy proportional to
// 1/(1+distance) to its current center. The entries are non-negative and sum
// to 1.
func (c *Clusterer) SoftAssignment(r Record) ([]float64, error) {
	if err := c.schema.Validate(r); err != nil {
		return nil, err
	}
	centers := c.centers()
	if len(centers) == 0 {
		return nil, ErrNoCanopies
	}

	r = c.resolve(r)
	weights := make([]float64, len(centers))
	for i, center := range centers {
		weights[i] = 1.0 / (1.0 + c.dist.Distance(r, center))
	}

	sum := floats.Sum(weights)
	if sum <= 0 || math.IsNaN(sum) || math.IsInf(sum, 0) {
		// Degenerate distances: fall back to a uniform distribution.
		for i := range weights {
			weights[i] = 1.0 / float64(len(weights))
		}
		return weights, nil
	}
	floats.Scale(1/sum, weights)
	return weights, nil
}

// Predict returns the index of the canopy with the highest soft assignment,
// which is the nearest canopy. Ties resolve to the lowest index.
func (c *Clusterer) Predict(r Record) (int, error) {
	probs, err := c.SoftAssignment(r)
	if err != nil {
		return -1, err
	}
	return floats.MaxIdx(probs), nil
}
