package canopy

// disjointSets tracks which canopies have been merged into the same overlap
// group. Roots point at themselves; sizes are only meaningful at roots.
type disjointSets struct {
	parent []int
	size   []int
}

func newDisjointSets(n int) *disjointSets {
	ds := &disjointSets{parent: make([]int, n), size: make([]int, n)}
	for i := range ds.parent {
		ds.parent[i] = i
		ds.size[i] = 1
	}
	return ds
}

// find returns the representative of x, halving the path as it walks.
func (ds *disjointSets) find(x int) int {
	for ds.parent[x] != x {
		ds.parent[x] = ds.parent[ds.parent[x]]
		x = ds.parent[x]
	}
	return x
}

// union joins the groups of a and b, hanging the smaller under the larger,
// and returns the surviving representative.
func (ds *disjointSets) union(a, b int) int {
	ra, rb := ds.find(a), ds.find(b)
	if ra == rb {
		return ra
	}
	if ds.size[ra] < ds.size[rb] {
		ra, rb = rb, ra
	}
	ds.parent[rb] = ra
	ds.size[ra] += ds.size[rb]
	return ra
}

// Groups partitions the canopies of a result into overlap groups: two
// canopies land in the same group when their memberships intersect, directly
// or through a chain of intersecting canopies. Groups are ordered by their
// lowest canopy index and list canopy indices in ascending order.
func Groups(r *Result) ([][]int, error) {
	n := len(r.Canopies)
	ds := newDisjointSets(n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			ok, err := Intersects(r.Canopies[i].Membership, r.Canopies[j].Membership)
			if err != nil {
				return nil, err
			}
			if ok {
				ds.union(i, j)
			}
		}
	}

	slot := make(map[int]int, n)
	var groups [][]int
	for i := 0; i < n; i++ {
		root := ds.find(i)
		g, ok := slot[root]
		if !ok {
			g = len(groups)
			slot[root] = g
			groups = append(groups, nil)
		}
		groups[g] = append(groups[g], i)
	}
	return groups, nil
}
