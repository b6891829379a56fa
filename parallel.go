package canopy

import (
	"fmt"

	"golang.org/x/sync/errgroup"
)

// assignParallel computes the T1 membership of every record against centers
// using up to numWorkers goroutines. Each worker handles a contiguous range of
// records and writes only its own slots, so no synchronization is needed for
// the results. With numWorkers <= 1 it runs sequentially.
//
// The result is identical to calling assignMembership for each record in order.
func assignParallel(dist DistanceProvider, records, centers []Record, t1 float64, numWorkers int) []Membership {
	n := len(records)
	result := make([]Membership, n)
	if n == 0 {
		return result
	}

	if numWorkers <= 1 || n == 1 {
		for i, r := range records {
			result[i] = assignMembership(dist, r, centers, t1)
		}
		return result
	}

	rowsPerWorker := (n + numWorkers - 1) / numWorkers

	var g errgroup.Group
	g.SetLimit(numWorkers)
	for start := 0; start < n; start += rowsPerWorker {
		end := min(start+rowsPerWorker, n)
		g.Go(func() error {
			for i := start; i < end; i++ {
				result[i] = assignMembership(dist, records[i], centers, t1)
			}
			return nil
		})
	}
	_ = g.Wait()

	return result
}

// AssignAll returns the membership of every record, computed over
// Config.Workers goroutines. Records are validated up front; nothing is
// computed if any record is invalid.
func (c *Clusterer) AssignAll(records []Record) ([]Membership, error) {
	centers := c.centers()
	if len(centers) == 0 {
		return nil, ErrNoCanopies
	}

	resolved := make([]Record, len(records))
	for i, r := range records {
		if err := c.schema.Validate(r); err != nil {
			return nil, fmt.Errorf("canopy: record %d: %w", i, err)
		}
		resolved[i] = c.resolve(r)
	}

	return assignParallel(c.dist, resolved, centers, c.t1, c.cfg.Workers), nil
}
