package game

import "math/rand"

// GenerateMap builds a battle map: a w×h sea sheet with randomly grown island
// blobs, carved afterwards so that every sea cell stays reachable from every
// other and both carrier anchorages sit in open water. Deterministic per seed.
func GenerateMap(bal Balance, seed int64) *TerrainMap {
	rng := rand.New(rand.NewSource(seed)) // #nosec G404 -- deterministic map layout, not crypto
	tm := NewTerrainMap(bal.MapWidth, bal.MapHeight)

	for i := 0; i < bal.IslandBlobs; i++ {
		growBlob(tm, rng)
	}

	spawnA, spawnB := DefaultSpawns(tm.Width, tm.Height)
	clearAnchorage(tm, spawnA)
	clearAnchorage(tm, spawnB)
	carveConnected(tm, spawnA)
	return tm
}

// growBlob drops an island seed away from the map edge and random-walks it
// outward for a handful of cells.
func growBlob(tm *TerrainMap, rng *rand.Rand) {
	if tm.Width < 4 || tm.Height < 4 {
		return
	}
	cur := Hex{X: 1 + rng.Intn(tm.Width-2), Y: 1 + rng.Intn(tm.Height-2)}
	size := 3 + rng.Intn(6)
	for i := 0; i < size; i++ {
		tm.SetTile(cur, TileIsland)
		nbs := Neighbors(cur)
		next := nbs[rng.Intn(len(nbs))]
		if !tm.InBounds(next) {
			continue
		}
		cur = next
	}
}

// clearAnchorage opens the carrier spawn cell and its whole neighbor ring so
// a launch always has somewhere to put a squadron on turn one.
func clearAnchorage(tm *TerrainMap, spawn Hex) {
	tm.SetTile(spawn, TileSea)
	for _, n := range Neighbors(spawn) {
		if tm.InBounds(n) {
			tm.SetTile(n, TileSea)
		}
	}
}

// carveConnected repairs sea connectivity: every sea cell not reachable from
// root gets a channel carved along the hex line back to the root. Blob edges
// are what get cut, so the repair reads as natural straits. Loops until one
// flood fill covers all sea.
func carveConnected(tm *TerrainMap, root Hex) {
	for {
		reached := floodSea(tm, root)
		cut := false
		for y := 0; y < tm.Height && !cut; y++ {
			for x := 0; x < tm.Width && !cut; x++ {
				c := Hex{X: x, Y: y}
				if !tm.IsSea(c) {
					continue
				}
				if _, ok := reached[c]; ok {
					continue
				}
				carveChannel(tm, c, root)
				cut = true
			}
		}
		if !cut {
			return
		}
	}
}

// carveChannel turns every cell on the hex line from c to root into sea.
func carveChannel(tm *TerrainMap, c, root Hex) {
	cur := c
	for cur != root {
		next, ok := LineStep(cur, root)
		if !ok {
			return
		}
		tm.SetTile(next, TileSea)
		cur = next
	}
}

// floodSea returns the set of sea cells reachable from root by sea.
func floodSea(tm *TerrainMap, root Hex) map[Hex]struct{} {
	reached := make(map[Hex]struct{})
	if !tm.IsSea(root) {
		return reached
	}
	queue := []Hex{root}
	reached[root] = struct{}{}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range Neighbors(cur) {
			if _, ok := reached[n]; ok {
				continue
			}
			if !tm.IsSea(n) {
				continue
			}
			reached[n] = struct{}{}
			queue = append(queue, n)
		}
	}
	return reached
}

// SeaConnected reports whether all sea cells form a single component.
func SeaConnected(tm *TerrainMap) bool {
	var root Hex
	found := false
	for y := 0; y < tm.Height && !found; y++ {
		for x := 0; x < tm.Width && !found; x++ {
			if tm.IsSea(Hex{X: x, Y: y}) {
				root = Hex{X: x, Y: y}
				found = true
			}
		}
	}
	if !found {
		return false
	}
	return len(floodSea(tm, root)) == tm.CountSea()
}
