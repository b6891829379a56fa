package canopy

import (
	"encoding/binary"
	"math"
	"sort"
)

// Finalize turns the accumulated canopies into final cluster centers:
//
//  1. centroids are materialized and each canopy's weight becomes its density;
//  2. with NumClusters < 0 the natural canopy count stands;
//  3. with more canopies than requested, the densest are kept (ties keep the
//     earlier-created canopy) in descending density order;
//  4. with fewer canopies than requested and a retained training batch, random
//     distinct training records are appended until the count is reached or the
//     batch runs out;
//  5. memberships are computed against the final set and the running
//     statistics and training batch are released.
//
// Finalize on a clusterer without canopies returns an empty result and leaves
// the clusterer open for updates. Calling Finalize again returns the same
// result.
func (c *Clusterer) Finalize() *Result {
	if c.finalized {
		return c.result
	}
	if len(c.building) == 0 {
		return &Result{Schema: c.schema, T1: c.t1, T2: c.t2}
	}

	natural := len(c.building)
	canopies := make([]Canopy, natural)
	for i, acc := range c.building {
		canopies[i] = Canopy{
			Center:  acc.centroid(c.schema),
			Density: acc.density,
		}
	}

	requested := c.cfg.NumClusters
	switch {
	case requested < 0:
	case len(canopies) > requested:
		canopies = pruneByDensity(canopies, requested)
	case len(canopies) < requested && len(c.training) > 0:
		canopies = c.pad(canopies, requested)
	}

	centers := make([]Record, len(canopies))
	for i := range canopies {
		centers[i] = canopies[i].Center
	}
	queries := make([]Record, len(centers))
	for i, center := range centers {
		queries[i] = c.resolve(center)
	}
	memberships := assignParallel(c.dist, queries, centers, c.t1, c.cfg.Workers)
	for i := range canopies {
		canopies[i].Membership = memberships[i]
	}

	c.result = &Result{
		Schema:   c.schema,
		Canopies: canopies,
		T1:       c.t1,
		T2:       c.t2,
	}
	c.finalized = true
	c.building = nil
	c.training = nil

	c.logger.LogFinalize(natural, len(canopies), requested)
	return c.result
}

// pruneByDensity keeps the n densest canopies. The sort is stable so that
// among equal densities the earlier-created canopy ranks first.
func pruneByDensity(canopies []Canopy, n int) []Canopy {
	order := make([]int, len(canopies))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return canopies[order[a]].Density > canopies[order[b]].Density
	})

	kept := make([]Canopy, n)
	for i := range n {
		kept[i] = canopies[order[i]]
	}
	return kept
}

// pad appends training records drawn without replacement until requested
// canopies exist or the training batch is exhausted. Records whose attribute
// vector equals an existing center or an earlier pick are skipped.
func (c *Clusterer) pad(canopies []Canopy, requested int) []Canopy {
	rng := newRand(c.cfg.Seed)

	seen := make(map[string]struct{}, requested)
	for _, cp := range canopies {
		seen[recordKey(cp.Center)] = struct{}{}
	}

	pool := make([]int, len(c.training))
	for i := range pool {
		pool[i] = i
	}

	for j := len(pool) - 1; j >= 0 && len(canopies) < requested; j-- {
		k := rng.Intn(j + 1)
		candidate := c.training[pool[k]]
		key := recordKey(candidate)
		if _, dup := seen[key]; !dup {
			canopies = append(canopies, Canopy{Center: candidate.Clone(), Density: 1})
			seen[key] = struct{}{}
		}
		pool[j], pool[k] = pool[k], pool[j]
	}
	return canopies
}

// recordKey encodes the full attribute vector of r for duplicate detection.
// All NaNs share one encoding and negative zero equals zero.
func recordKey(r Record) string {
	buf := make([]byte, 8*len(r))
	for i, v := range r {
		switch {
		case math.IsNaN(v):
			v = math.NaN()
		case v == 0:
			v = 0
		}
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}
	return string(buf)
}
