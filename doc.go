// Package canopy implements Canopy clustering (McCallum, Nigam and Ungar,
// "Efficient Clustering of High Dimensional Data Sets with Application to
// Reference Matching", KDD 2000).
//
// Canopy clustering needs a single pass over the data. Each record is compared
// with the canopies found so far: if it is closer than the inner radius T2 to
// one of them it is absorbed into the first such canopy, otherwise it founds a
// new canopy. The outer radius T1 >= T2 decides membership for reporting, so a
// record or canopy may belong to several overlapping canopies at once.
// Records may mix numeric and categorical attributes; centroids are numeric
// means and categorical modes.
//
// Basic usage:
//
//	schema, _ := canopy.NewSchema(
//		canopy.NumericAttribute("x"),
//		canopy.NumericAttribute("y"),
//	)
//	cfg := canopy.DefaultConfig()
//	cfg.NumClusters = 3
//	result, err := canopy.Cluster(schema, records, cfg)
//	// result.Canopies[i].Center is a cluster center
//	// result.Canopies[i].Density is the number of records it absorbed
//	// result.Canopies[i].Membership lists the canopies it overlaps
//
// Incremental training:
//
//	c, err := canopy.New(schema, cfg)
//	for _, r := range stream {
//		if err := c.Update(r); err != nil { ... }
//	}
//	result := c.Finalize()
//
// # Thresholds
//
// A negative T2 derives the inner radius from attribute standard deviations,
// which needs a batch; streaming falls back to DefaultT2 and logs a warning.
// A negative T1 is a multiplier of T2. T1 must not resolve below T2.
//
// # Cluster count
//
// With NumClusters > 0 the densest canopies are kept when there are too many,
// and random distinct training records are added when there are too few (batch
// training only).
package canopy
