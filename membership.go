package canopy

import (
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

const blockBits = 64

// Membership is the set of canopies a record or canopy falls within T1 of.
// It is a fixed number of 64-bit blocks wide; bit i stands for canopy i.
// The zero value is an empty, zero-length membership.
type Membership struct {
	bits   *bitset.BitSet
	blocks int
}

// NewMembership returns an empty membership sized for numCanopies canopies:
// numCanopies/64 + 1 blocks.
func NewMembership(numCanopies int) Membership {
	return newMembershipBlocks(numCanopies/blockBits + 1)
}

func newMembershipBlocks(blocks int) Membership {
	return Membership{
		bits:   bitset.New(uint(blocks * blockBits)),
		blocks: blocks,
	}
}

// MembershipFromWords builds a membership from raw 64-bit blocks. The words
// are copied.
func MembershipFromWords(words []uint64) Membership {
	if len(words) == 0 {
		return Membership{}
	}
	buf := make([]uint64, len(words))
	copy(buf, words)
	return Membership{bits: bitset.From(buf), blocks: len(words)}
}

// Blocks returns the number of 64-bit blocks.
func (m Membership) Blocks() int { return m.blocks }

// Set marks canopy i as a member. Panics if i is outside the membership width.
func (m Membership) Set(i int) {
	if i < 0 || i >= m.blocks*blockBits {
		panic("canopy: membership index " + strconv.Itoa(i) + " out of range")
	}
	m.bits.Set(uint(i))
}

// Has reports whether canopy i is a member.
func (m Membership) Has(i int) bool {
	if m.bits == nil || i < 0 || i >= m.blocks*blockBits {
		return false
	}
	return m.bits.Test(uint(i))
}

// Count returns the number of member canopies.
func (m Membership) Count() int {
	if m.bits == nil {
		return 0
	}
	return int(m.bits.Count())
}

// Indices decodes the membership into ascending canopy indices.
func (m Membership) Indices() []int {
	if m.bits == nil {
		return nil
	}
	out := make([]int, 0, m.bits.Count())
	for i, ok := m.bits.NextSet(0); ok; i, ok = m.bits.NextSet(i + 1) {
		out = append(out, int(i))
	}
	return out
}

// Words returns a copy of the underlying 64-bit blocks.
func (m Membership) Words() []uint64 {
	out := make([]uint64, m.blocks)
	if m.bits != nil {
		copy(out, m.bits.Words())
	}
	return out
}

// String renders the membership as "<i,j,...>".
func (m Membership) String() string {
	var sb strings.Builder
	sb.WriteByte('<')
	for n, i := range m.Indices() {
		if n > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(i))
	}
	sb.WriteByte('>')
	return sb.String()
}

// Intersects reports whether a and b share at least one canopy. It returns a
// *BlockMismatchError when the block lengths differ, and false when either
// membership is zero-length.
func Intersects(a, b Membership) (bool, error) {
	if a.blocks != b.blocks {
		return false, &BlockMismatchError{First: a.blocks, Second: b.blocks}
	}
	if a.blocks == 0 || b.blocks == 0 {
		return false, nil
	}
	return a.bits.IntersectionCardinality(b.bits) > 0, nil
}
