package canopy

// Homogeneity returns the mean distance between distinct ordered pairs of
// records. Lower values mean a tighter group. Returns 0 for fewer than two
// records.
func Homogeneity(records []Record, d DistanceProvider) float64 {
	n := len(records)
	if n < 2 {
		return 0
	}
	var total float64
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			// d(i,j) and d(j,i) both count towards the n*(n-1) ordered pairs.
			total += d.Distance(records[i], records[j]) + d.Distance(records[j], records[i])
		}
	}
	return total / float64(n*(n-1))
}

// CentroidHomogeneity returns the mean distance from each record to
// centroid. Returns 0 for an empty slice.
func CentroidHomogeneity(records []Record, centroid Record, d DistanceProvider) float64 {
	if len(records) == 0 {
		return 0
	}
	var total float64
	for _, r := range records {
		total += d.Distance(r, centroid)
	}
	return total / float64(len(records))
}

// CanopyQuality summarizes how tightly the records assigned to one canopy
// group together.
type CanopyQuality struct {
	Canopy int
	Size   int

	// Pairwise is the Homogeneity of the assigned records.
	Pairwise float64

	// ToCenter is the CentroidHomogeneity of the assigned records against
	// the canopy center.
	ToCenter float64
}

// Evaluate hard-assigns every record to its nearest canopy and reports the
// homogeneity of each canopy, in canopy order. Canopies that receive no
// records have Size 0 and zero scores.
func (c *Clusterer) Evaluate(records []Record) ([]CanopyQuality, error) {
	centers := c.centers()
	if len(centers) == 0 {
		return nil, ErrNoCanopies
	}

	assigned := make([][]Record, len(centers))
	for _, r := range records {
		idx, err := c.Predict(r)
		if err != nil {
			return nil, err
		}
		assigned[idx] = append(assigned[idx], c.resolve(r))
	}

	out := make([]CanopyQuality, len(centers))
	for i, group := range assigned {
		out[i] = CanopyQuality{
			Canopy:   i,
			Size:     len(group),
			Pairwise: Homogeneity(group, c.dist),
			ToCenter: CentroidHomogeneity(group, centers[i], c.dist),
		}
	}
	return out, nil
}
