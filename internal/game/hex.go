package game

import (
	"fmt"
	"math"
)

// Hex addresses one cell in offset coordinates: pointy-top hexes with odd rows
// shifted half a cell right ("odd-r" layout). X is the column, Y the row.
type Hex struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (h Hex) String() string {
	return fmt.Sprintf("(%d,%d)", h.X, h.Y)
}

// cube is the redundant three-axis hex coordinate; x+y+z == 0 always holds.
type cube struct {
	x, y, z int
}

func offsetToCube(h Hex) cube {
	q := h.X - (h.Y-(h.Y&1))/2
	return cube{x: q, y: -q - h.Y, z: h.Y}
}

func cubeToOffset(c cube) Hex {
	return Hex{X: c.x + (c.z-(c.z&1))/2, Y: c.z}
}

// Distance returns the hex distance between two cells: the Chebyshev metric in
// cube space, i.e. the number of single-cell steps separating them.
func Distance(a, b Hex) int {
	ca := offsetToCube(a)
	cb := offsetToCube(b)
	return max(abs(ca.x-cb.x), abs(ca.y-cb.y), abs(ca.z-cb.z))
}

// Neighbor deltas depend on row parity in odd-r layout. Both tables are spelled
// out in full; mixing them up warps the grid topology without any loud failure.
var (
	hexDeltasOdd  = [6]Hex{{1, 0}, {1, -1}, {0, -1}, {-1, 0}, {0, 1}, {1, 1}}
	hexDeltasEven = [6]Hex{{1, 0}, {0, -1}, {-1, -1}, {-1, 0}, {-1, 1}, {0, 1}}
)

// Neighbors returns the six cells adjacent to h, unfiltered. Callers are
// responsible for bounds checks.
func Neighbors(h Hex) [6]Hex {
	deltas := &hexDeltasEven
	if h.Y&1 == 1 {
		deltas = &hexDeltasOdd
	}
	var out [6]Hex
	for i, d := range deltas {
		out[i] = Hex{X: h.X + d.X, Y: h.Y + d.Y}
	}
	return out
}

// LineStep returns the next cell on the straight hex line from one cell toward
// another: the cube interpolation at t=1/N (N = distance) rounded back onto the
// lattice. ok is false when from == to.
func LineStep(from, to Hex) (next Hex, ok bool) {
	n := Distance(from, to)
	if n == 0 {
		return Hex{}, false
	}
	a := offsetToCube(from)
	b := offsetToCube(to)
	t := 1.0 / float64(n)
	fx := float64(a.x) + (float64(b.x)-float64(a.x))*t
	fy := float64(a.y) + (float64(b.y)-float64(a.y))*t
	fz := float64(a.z) + (float64(b.z)-float64(a.z))*t
	return cubeToOffset(roundCube(fx, fy, fz)), true
}

// roundCube snaps interpolated cube coordinates to the nearest lattice cell,
// re-deriving the axis with the largest rounding error so x+y+z stays 0.
func roundCube(fx, fy, fz float64) cube {
	rx := math.Round(fx)
	ry := math.Round(fy)
	rz := math.Round(fz)
	dx := math.Abs(rx - fx)
	dy := math.Abs(ry - fy)
	dz := math.Abs(rz - fz)
	switch {
	case dx > dy && dx > dz:
		rx = -ry - rz
	case dy > dz:
		ry = -rx - rz
	default:
		rz = -rx - ry
	}
	return cube{x: int(rx), y: int(ry), z: int(rz)}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
