package game

// addDisc adds every in-bounds cell within hex distance r of center to set.
// The ±r offset box is a sufficient scan window: no cell outside it can be
// within hex distance r.
func addDisc(set map[Hex]struct{}, tm *TerrainMap, center Hex, r int) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			c := Hex{X: center.X + dx, Y: center.Y + dy}
			if !tm.InBounds(c) {
				continue
			}
			if Distance(center, c) <= r {
				set[c] = struct{}{}
			}
		}
	}
}

// Disc returns the in-bounds cells within hex distance r of center.
func Disc(tm *TerrainMap, center Hex, r int) []Hex {
	set := make(map[Hex]struct{})
	addDisc(set, tm, center, r)
	out := make([]Hex, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sortHexes(out)
	return out
}

// RebuildVisibleSet recomputes f's visible-cell set from scratch: a vision
// disc around every active unit's current position, plus a disc around every
// cell the unit swept through while moving this turn. The accumulated sweeps
// are consumed.
//
// The old set is discarded wholesale. Visibility is a pure function of this
// turn's positions and movement; patching last turn's set would let vision
// linger where nothing can still see.
func RebuildVisibleSet(tm *TerrainMap, f *Force) {
	vis := make(map[Hex]struct{})

	addDisc(vis, tm, f.Carrier.Pos, f.Carrier.Vision)
	for _, s := range f.Squadrons {
		if srt, ok := s.Sortie(); ok {
			addDisc(vis, tm, srt.Pos, s.Vision)
		}
	}
	for _, sw := range f.sweeps {
		for _, c := range sw.cells {
			addDisc(vis, tm, c, sw.radius)
		}
	}
	f.sweeps = nil

	f.Visible = vis
}

// VisibleCells returns the visible set as a row-major sorted slice, for
// stable payloads and stable test output.
func (f *Force) VisibleCells() []Hex {
	out := make([]Hex, 0, len(f.Visible))
	for c := range f.Visible {
		out = append(out, c)
	}
	sortHexes(out)
	return out
}

// CanSee reports whether c is inside f's current visible set.
func (f *Force) CanSee(c Hex) bool {
	_, ok := f.Visible[c]
	return ok
}

func sortHexes(cells []Hex) {
	// Small sets; insertion sort keeps this allocation-free.
	for i := 1; i < len(cells); i++ {
		for j := i; j > 0 && hexLess(cells[j], cells[j-1]); j-- {
			cells[j], cells[j-1] = cells[j-1], cells[j]
		}
	}
}

func hexLess(a, b Hex) bool {
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.X < b.X
}
