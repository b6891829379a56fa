package canopy

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
)

// Cover indexes a batch of records by the canopies they belong to. It answers
// the question canopies exist for: which records are close enough to be
// worth comparing with an expensive measure.
type Cover struct {
	memberships []Membership
	members     []*roaring.Bitmap
}

// Cover assigns every record to its canopies (see AssignMembership) and
// builds per-canopy posting lists of record indices.
func (c *Clusterer) Cover(records []Record) (*Cover, error) {
	memberships, err := c.AssignAll(records)
	if err != nil {
		return nil, err
	}
	return newCover(memberships, c.NumCanopies()), nil
}

func newCover(memberships []Membership, numCanopies int) *Cover {
	members := make([]*roaring.Bitmap, numCanopies)
	for i := range members {
		members[i] = roaring.New()
	}
	for rec, m := range memberships {
		for _, idx := range m.Indices() {
			members[idx].Add(uint32(rec))
		}
	}
	for _, b := range members {
		b.RunOptimize()
	}
	return &Cover{memberships: memberships, members: members}
}

// NumRecords returns the number of indexed records.
func (cv *Cover) NumRecords() int { return len(cv.memberships) }

// NumCanopies returns the number of canopies the records were assigned to.
func (cv *Cover) NumCanopies() int { return len(cv.members) }

// Membership returns the canopies of record i.
func (cv *Cover) Membership(i int) Membership { return cv.memberships[i] }

// Members returns the ascending indices of the records in canopy i.
func (cv *Cover) Members(i int) []uint32 {
	return cv.members[i].ToArray()
}

// Size returns the number of records in canopy i.
func (cv *Cover) Size(i int) int {
	return int(cv.members[i].GetCardinality())
}

// Neighbors returns the records that share at least one canopy with record
// i, excluding i itself.
func (cv *Cover) Neighbors(i int) (*roaring.Bitmap, error) {
	if i < 0 || i >= len(cv.memberships) {
		return nil, fmt.Errorf("canopy: record %d out of range [0, %d)", i, len(cv.memberships))
	}
	idx := cv.memberships[i].Indices()
	lists := make([]*roaring.Bitmap, len(idx))
	for j, canopy := range idx {
		lists[j] = cv.members[canopy]
	}
	out := roaring.FastOr(lists...)
	out.Remove(uint32(i))
	return out, nil
}

// CandidatePairs returns the number of distinct unordered record pairs that
// share a canopy.
func (cv *Cover) CandidatePairs() uint64 {
	var total uint64
	for i := range cv.memberships {
		nb, _ := cv.Neighbors(i)
		total += nb.GetCardinality()
	}
	return total / 2
}
