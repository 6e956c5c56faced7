package game

import (
	"math/rand"
	"testing"
)

func TestStepTowards_StraightLineOpenSea(t *testing.T) {
	tm := NewTerrainMap(20, 20)
	res := StepTowards(tm, MoveRequest{
		From:     Hex{X: 3, Y: 3},
		To:       Hex{X: 9, Y: 3},
		MaxSteps: 6,
	})
	if res.Pos != (Hex{X: 9, Y: 3}) {
		t.Fatalf("ended at %v, want (9,3)", res.Pos)
	}
	if res.Steps != 6 {
		t.Fatalf("took %d steps, want 6", res.Steps)
	}
	if !res.Arrived {
		t.Fatal("should report arrival")
	}
}

func TestStepTowards_StopsAtStopRange(t *testing.T) {
	tm := NewTerrainMap(20, 20)
	res := StepTowards(tm, MoveRequest{
		From:      Hex{X: 2, Y: 5},
		To:        Hex{X: 10, Y: 5},
		MaxSteps:  20,
		StopRange: 1,
	})
	if d := Distance(res.Pos, Hex{X: 10, Y: 5}); d != 1 {
		t.Fatalf("stopped at distance %d, want 1 (pos %v)", d, res.Pos)
	}
	if !res.Arrived {
		t.Fatal("should report arrival at stop range")
	}
}

func TestStepTowards_NoOps(t *testing.T) {
	tm := NewTerrainMap(10, 10)
	start := Hex{X: 4, Y: 4}
	if res := StepTowards(tm, MoveRequest{From: start, To: Hex{X: 8, Y: 4}, MaxSteps: 0}); res.Pos != start || res.Steps != 0 {
		t.Fatalf("zero-step request moved: %+v", res)
	}
	res := StepTowards(tm, MoveRequest{From: start, To: start, MaxSteps: 5})
	if res.Pos != start || res.Steps != 0 || !res.Arrived {
		t.Fatalf("self-target request misbehaved: %+v", res)
	}
}

func TestStepTowards_SidestepsBlockedLineCell(t *testing.T) {
	// Target off-axis so a neighbor still strictly improves when the ideal
	// line cell (3,2) is land: the mover detours through (2,3).
	tm := ParseTerrain([]string{
		"........",
		"........",
		"...#....",
		"........",
		"........",
	})
	res := StepTowards(tm, MoveRequest{
		From:      Hex{X: 2, Y: 2},
		To:        Hex{X: 6, Y: 4},
		MaxSteps:  10,
		TrackPath: true,
	})
	if res.Pos != (Hex{X: 6, Y: 4}) {
		t.Fatalf("never reached target, ended at %v", res.Pos)
	}
	if len(res.Path) == 0 || res.Path[0] != (Hex{X: 2, Y: 3}) {
		t.Fatalf("expected sidestep to (2,3) first, path %v", res.Path)
	}
	for _, c := range res.Path {
		if tm.At(c) == TileIsland {
			t.Fatalf("sea unit entered island cell %v", c)
		}
	}
}

func TestStepTowards_WallOnAxisStallsAndForfeits(t *testing.T) {
	// A full-height ridge squarely across the line: no neighbor strictly
	// improves, the fallback cell is land, so the advance ends two cells in
	// and the remaining steps are forfeited.
	tm := ParseTerrain([]string{
		"....#.....",
		"....#.....",
		"....#.....",
		"....#.....",
		"....#.....",
	})
	res := StepTowards(tm, MoveRequest{
		From:     Hex{X: 1, Y: 2},
		To:       Hex{X: 8, Y: 2},
		MaxSteps: 10,
	})
	if res.Pos != (Hex{X: 3, Y: 2}) {
		t.Fatalf("expected stall at (3,2), ended at %v", res.Pos)
	}
	if res.Steps != 2 {
		t.Fatalf("took %d steps before stalling, want 2", res.Steps)
	}
	if res.Arrived {
		t.Fatal("stalled mover cannot have arrived")
	}
}

func TestStepTowards_AircraftOverflyIslands(t *testing.T) {
	tm := ParseTerrain([]string{
		"....#.....",
		"....#.....",
		"....#.....",
		"....#.....",
		"....#.....",
	})
	res := StepTowards(tm, MoveRequest{
		From:        Hex{X: 1, Y: 2},
		To:          Hex{X: 8, Y: 2},
		MaxSteps:    7,
		PassIslands: true,
	})
	if res.Pos != (Hex{X: 8, Y: 2}) {
		t.Fatalf("aircraft should fly straight over the ridge, ended at %v", res.Pos)
	}
	if res.Steps != 7 {
		t.Fatalf("took %d steps, want 7", res.Steps)
	}
}

func TestStepTowards_AvoidsOccupiedCells(t *testing.T) {
	tm := NewTerrainMap(12, 12)
	blocked := map[Hex]bool{{X: 3, Y: 2}: true}
	res := StepTowards(tm, MoveRequest{
		From:          Hex{X: 2, Y: 2},
		To:            Hex{X: 6, Y: 4},
		MaxSteps:      10,
		AvoidOccupied: true,
		Occupied:      func(h Hex) bool { return blocked[h] },
		TrackPath:     true,
	})
	for _, c := range res.Path {
		if blocked[c] {
			t.Fatalf("mover entered occupied cell %v", c)
		}
	}
	if res.Pos != (Hex{X: 6, Y: 4}) {
		t.Fatalf("should route around the blocker, ended at %v", res.Pos)
	}
}

func TestStepTowards_OccupiedWallOnAxisStalls(t *testing.T) {
	tm := NewTerrainMap(12, 12)
	blocked := map[Hex]bool{}
	for y := 0; y < 12; y++ {
		blocked[Hex{X: 5, Y: y}] = true
	}
	res := StepTowards(tm, MoveRequest{
		From:          Hex{X: 2, Y: 6},
		To:            Hex{X: 9, Y: 6},
		MaxSteps:      10,
		AvoidOccupied: true,
		Occupied:      func(h Hex) bool { return blocked[h] },
	})
	if res.Pos != (Hex{X: 4, Y: 6}) {
		t.Fatalf("expected stall at (4,6) before the picket line, ended at %v", res.Pos)
	}
	if res.Arrived {
		t.Fatal("stalled mover cannot have arrived")
	}
}

func TestStepTowards_ForfeitsStepsWhenBoxedIn(t *testing.T) {
	// Mover pinned in a one-cell pocket.
	tm := ParseTerrain([]string{
		"#####",
		"#.###",
		"#####",
	})
	res := StepTowards(tm, MoveRequest{
		From:     Hex{X: 1, Y: 1},
		To:       Hex{X: 4, Y: 1},
		MaxSteps: 10,
	})
	if res.Pos != (Hex{X: 1, Y: 1}) || res.Steps != 0 {
		t.Fatalf("boxed-in mover should stay put, got %+v", res)
	}
	if res.Arrived {
		t.Fatal("boxed-in mover cannot have arrived")
	}
}

func TestStepTowards_NeverLeavesGridOrTerrain(t *testing.T) {
	tm := ParseTerrain([]string{
		"........",
		".##.....",
		".##..#..",
		".....#..",
		"...#....",
		"........",
	})
	rng := rand.New(rand.NewSource(21)) // #nosec G404 -- test sampling
	for i := 0; i < 400; i++ {
		from := Hex{X: rng.Intn(8), Y: rng.Intn(6)}
		if !tm.IsSea(from) {
			continue
		}
		to := Hex{X: rng.Intn(8), Y: rng.Intn(6)}
		res := StepTowards(tm, MoveRequest{
			From:      from,
			To:        to,
			MaxSteps:  1 + rng.Intn(6),
			TrackPath: true,
		})
		if !tm.InBounds(res.Pos) {
			t.Fatalf("mover exited the grid: %v -> %v ended at %v", from, to, res.Pos)
		}
		if tm.At(res.Pos) == TileIsland {
			t.Fatalf("sea mover ended on island: %v -> %v ended at %v", from, to, res.Pos)
		}
		for _, c := range res.Path {
			if !tm.InBounds(c) || tm.At(c) == TileIsland {
				t.Fatalf("sea mover swept illegal cell %v en route %v -> %v", c, from, to)
			}
		}
	}
}
