package game

// TileKind identifies the surface of one map cell.
type TileKind uint8

const (
	TileSea    TileKind = iota // open water, navigable and spawnable
	TileIsland                 // land; blocks ships, aircraft overfly it
	tileKindCount              // sentinel
)

func (k TileKind) String() string {
	switch k {
	case TileSea:
		return "sea"
	case TileIsland:
		return "island"
	default:
		return "unknown"
	}
}

// TerrainMap is the battle grid, immutable once a battle starts. Tiles are
// stored row-major: index = y*Width + x.
type TerrainMap struct {
	Width  int
	Height int
	tiles  []TileKind
}

// NewTerrainMap returns an all-sea map of the given dimensions.
func NewTerrainMap(w, h int) *TerrainMap {
	return &TerrainMap{Width: w, Height: h, tiles: make([]TileKind, w*h)}
}

// InBounds reports whether h lies on the map.
func (tm *TerrainMap) InBounds(h Hex) bool {
	return h.X >= 0 && h.X < tm.Width && h.Y >= 0 && h.Y < tm.Height
}

// At returns the tile at h. Out-of-bounds cells read as island: impassable to
// everything that checks terrain alone.
func (tm *TerrainMap) At(h Hex) TileKind {
	if !tm.InBounds(h) {
		return TileIsland
	}
	return tm.tiles[h.Y*tm.Width+h.X]
}

// IsSea reports whether h is an in-bounds sea cell.
func (tm *TerrainMap) IsSea(h Hex) bool {
	return tm.InBounds(h) && tm.tiles[h.Y*tm.Width+h.X] == TileSea
}

// SetTile sets the tile at h. Used by map generation and test setup only;
// terrain never changes during a battle.
func (tm *TerrainMap) SetTile(h Hex, k TileKind) {
	if !tm.InBounds(h) {
		return
	}
	tm.tiles[h.Y*tm.Width+h.X] = k
}

// CountSea returns the number of sea cells.
func (tm *TerrainMap) CountSea() int {
	n := 0
	for _, t := range tm.tiles {
		if t == TileSea {
			n++
		}
	}
	return n
}

// SeaNeighbors returns the adjacent in-bounds sea cells of h, in neighbor-table
// order.
func (tm *TerrainMap) SeaNeighbors(h Hex) []Hex {
	out := make([]Hex, 0, 6)
	for _, n := range Neighbors(h) {
		if tm.IsSea(n) {
			out = append(out, n)
		}
	}
	return out
}

// ParseTerrain builds a map from rows of '.' (sea) and '#' (island). All rows
// must share one width. Test scaffolding.
func ParseTerrain(rows []string) *TerrainMap {
	h := len(rows)
	if h == 0 {
		return NewTerrainMap(0, 0)
	}
	w := len(rows[0])
	tm := NewTerrainMap(w, h)
	for y, row := range rows {
		for x, c := range row {
			if c == '#' {
				tm.SetTile(Hex{X: x, Y: y}, TileIsland)
			}
		}
	}
	return tm
}
