package game

import "sort"

// MoveRequest describes one multi-step advance toward a target cell.
type MoveRequest struct {
	From     Hex
	To       Hex
	MaxSteps int

	// StopRange stops the advance once the remaining distance is <= this.
	// 0 means "reach the target exactly"; 1 is used to close to strike range.
	StopRange int

	// PassIslands permits island cells (aircraft). Ships leave it false.
	PassIslands bool

	// AvoidOccupied skips cells for which Occupied reports true. The predicate
	// must not report the mover's own current cell.
	AvoidOccupied bool
	Occupied      func(Hex) bool

	// TrackPath records every cell entered, for path-sweep visibility.
	TrackPath bool
}

// MoveResult reports where the mover ended up.
type MoveResult struct {
	Pos     Hex
	Steps   int
	Path    []Hex // cells entered, in order; nil unless TrackPath
	Arrived bool  // final distance to target <= StopRange
}

// StepTowards advances up to MaxSteps single-cell moves from From toward To.
//
// Each step considers the ideal straight-line cell first, then all six
// neighbors ordered by distance-to-target with ties broken toward the ideal
// cell, and takes the first legal cell that strictly reduces the distance.
// When no candidate improves, the ideal cell is taken anyway if legal (the
// escape valve that keeps units from freezing against obstacles); when even
// that is blocked the advance ends and the remaining steps are forfeited.
func StepTowards(tm *TerrainMap, req MoveRequest) MoveResult {
	cur := req.From
	res := MoveResult{Pos: cur}
	if req.MaxSteps <= 0 || req.From == req.To {
		res.Arrived = Distance(cur, req.To) <= req.StopRange
		return res
	}

	for step := 0; step < req.MaxSteps; step++ {
		d := Distance(cur, req.To)
		if d <= req.StopRange {
			break
		}
		ideal, _ := LineStep(cur, req.To) // d > 0 here, so a step always exists

		next := cur
		found := false
		for _, c := range candidateCells(cur, ideal, req.To) {
			if !cellLegal(tm, req, c) {
				continue
			}
			if Distance(c, req.To) >= d {
				continue
			}
			next = c
			found = true
			break
		}
		if !found && cellLegal(tm, req, ideal) {
			next = ideal
			found = true
		}
		if !found {
			break
		}

		cur = next
		res.Steps++
		if req.TrackPath {
			res.Path = append(res.Path, cur)
		}
	}

	res.Pos = cur
	res.Arrived = Distance(cur, req.To) <= req.StopRange
	return res
}

// candidateCells orders the cells reachable in one step: the ideal line cell,
// then the six neighbors by (distance to target, closeness to ideal).
func candidateCells(cur, ideal, target Hex) []Hex {
	nbs := Neighbors(cur)
	sorted := nbs[:]
	sort.SliceStable(sorted, func(i, j int) bool {
		di := Distance(sorted[i], target)
		dj := Distance(sorted[j], target)
		if di != dj {
			return di < dj
		}
		return Distance(sorted[i], ideal) < Distance(sorted[j], ideal)
	})
	out := make([]Hex, 0, 7)
	out = append(out, ideal)
	for _, n := range sorted {
		if n != ideal {
			out = append(out, n)
		}
	}
	return out
}

func cellLegal(tm *TerrainMap, req MoveRequest, c Hex) bool {
	if !tm.InBounds(c) {
		return false
	}
	if !req.PassIslands && tm.At(c) == TileIsland {
		return false
	}
	if req.AvoidOccupied && req.Occupied != nil && req.Occupied(c) {
		return false
	}
	return true
}
