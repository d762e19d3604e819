package rtree

import "fmt"

// Quadrants are numbered 2*u + v, where u is 1 when a point lies in the upper
// half of the first active axis and v likewise for the second. So 0 is
// lower-lower, 1 lower-upper, 2 upper-lower and 3 upper-upper.
const numQuadrants = 4

// CurveTable describes one orientation of a space-filling curve.
type CurveTable struct {
	// Rank[q] is the position at which quadrant q is visited.
	Rank [numQuadrants]uint8
	// Next[q] is the index of the table used to order points inside quadrant q.
	Next [numQuadrants]int
}

// quadrantAt returns the quadrant visited at position r.
func (t *CurveTable) quadrantAt(r int) int {
	for q := 0; q < numQuadrants; q++ {
		if int(t.Rank[q]) == r {
			return q
		}
	}
	invariantPanic("curve table has no quadrant of rank %d", r)
	return -1
}

// Curve is a recursive quadrant-visiting order. Z-order reuses one table at
// every level; curves like Hilbert's switch tables so that consecutive
// quadrants stay adjacent across their shared boundary.
type Curve struct {
	Name   string
	Tables []CurveTable
	Start  int
}

// Validate checks that every table ranks each quadrant exactly once and only
// refers to tables that exist.
func (c Curve) Validate() error {
	if len(c.Tables) == 0 {
		return fmt.Errorf("%w: curve %q has no tables", ErrInvalidArgument, c.Name)
	}
	if c.Start < 0 || c.Start >= len(c.Tables) {
		return fmt.Errorf("%w: curve %q start table %d out of range", ErrInvalidArgument, c.Name, c.Start)
	}
	for i, t := range c.Tables {
		var seen [numQuadrants]bool
		for q := 0; q < numQuadrants; q++ {
			r := t.Rank[q]
			if int(r) >= numQuadrants || seen[r] {
				return fmt.Errorf("%w: curve %q table %d ranks are not a permutation", ErrInvalidArgument, c.Name, i)
			}
			seen[r] = true
			if t.Next[q] < 0 || t.Next[q] >= len(c.Tables) {
				return fmt.Errorf("%w: curve %q table %d refers to table %d", ErrInvalidArgument, c.Name, i, t.Next[q])
			}
		}
	}
	return nil
}

// ZOrder returns the Morton curve: lower-lower, lower-upper, upper-lower,
// upper-upper at every level.
func ZOrder() Curve {
	return Curve{
		Name: "zorder",
		Tables: []CurveTable{
			{Rank: [numQuadrants]uint8{0, 1, 2, 3}, Next: [numQuadrants]int{0, 0, 0, 0}},
		},
	}
}

// Hilbert returns the Hilbert curve. Its four tables are the orientations
// identity, transpose, anti-transpose and half-turn, which compose like XOR.
func Hilbert() Curve {
	// Canonical visiting order and the orientation applied to each sub-curve.
	base := [numQuadrants][2]int{{0, 0}, {0, 1}, {1, 1}, {1, 0}}
	child := [numQuadrants]int{1, 0, 0, 2}

	tables := make([]CurveTable, 4)
	for g := range tables {
		for r, c := range base {
			u, v := orient(g, c[0], c[1])
			q := 2*u + v
			tables[g].Rank[q] = uint8(r)
			tables[g].Next[q] = g ^ child[r]
		}
	}
	return Curve{Name: "hilbert", Tables: tables}
}

func orient(g, u, v int) (int, int) {
	switch g {
	case 0:
		return u, v
	case 1:
		return v, u
	case 2:
		return 1 - v, 1 - u
	default:
		return 1 - u, 1 - v
	}
}
