package game

import (
	"fmt"
	"math/rand"
)

// Difficulty sets how aggressively a CPU commander fights.
type Difficulty int

const (
	DifficultyEasy Difficulty = iota
	DifficultyNormal
	DifficultyHard
)

func (d Difficulty) String() string {
	switch d {
	case DifficultyEasy:
		return "easy"
	case DifficultyNormal:
		return "normal"
	case DifficultyHard:
		return "hard"
	default:
		return "unknown"
	}
}

// ParseDifficulty parses a difficulty name.
func ParseDifficulty(s string) (Difficulty, error) {
	switch s {
	case "easy":
		return DifficultyEasy, nil
	case "normal", "":
		return DifficultyNormal, nil
	case "hard":
		return DifficultyHard, nil
	default:
		return DifficultyNormal, fmt.Errorf("unknown difficulty %q", s)
	}
}

// launchCadence is the minimum number of turns between launch orders.
func (d Difficulty) launchCadence() int {
	switch d {
	case DifficultyEasy:
		return 4
	case DifficultyHard:
		return 2
	default:
		return 3
	}
}

// Commander plans one side's orders each turn. It works from the same
// SideView a remote player receives — terrain is public, but enemy positions
// come only through visibility and intel, so the CPU cannot cheat the fog.
// Deterministic given its seed.
type Commander struct {
	side Side
	diff Difficulty
	rng  *rand.Rand

	patrolIdx  int
	lastLaunch int // turn of the last launch order; 0 = never
}

// NewCommander creates a commander for side with its own seeded RNG.
func NewCommander(side Side, diff Difficulty, seed int64) *Commander {
	return &Commander{
		side: side,
		diff: diff,
		rng:  rand.New(rand.NewSource(seed)), // #nosec G404 -- deterministic planning, not crypto
	}
}

// Side returns the side this commander plays.
func (c *Commander) Side() Side { return c.side }

// Plan produces the orders for the turn v describes. The returned orders
// always pass SubmitOrders validation against the same state.
func (c *Commander) Plan(tm *TerrainMap, v SideView, bal Balance) Orders {
	o := Orders{Turn: v.Turn}

	carrierIntel := findCarrierIntel(v.Intel)
	if carrierIntel != nil {
		if c.canLaunch(v) && c.cadenceReady(v.Turn) {
			t := clampToRange(v.Carrier.Pos, carrierIntel.Pos, bal.OperationalRange)
			o.LaunchTarget = &t
			c.lastLaunch = v.Turn
		}
		if carrierIntel.Fresh {
			o.CarrierTarget = c.evade(tm, v.Carrier.Pos, carrierIntel.Pos)
		}
		return o
	}

	// No picture of the enemy: sweep the patrol circuit and keep the carrier
	// drifting so its own vision footprint moves.
	if c.canLaunch(v) && c.cadenceReady(v.Turn) {
		wp := c.nextPatrolWaypoint(tm)
		t := clampToRange(v.Carrier.Pos, wp, bal.OperationalRange)
		o.LaunchTarget = &t
		c.lastLaunch = v.Turn
	}
	if v.Carrier.Target == nil {
		o.CarrierTarget = c.drift(tm, v.Carrier.Pos)
	}
	return o
}

// findCarrierIntel picks the enemy carrier's intel entry: the only kind that
// carries an hp reading.
func findCarrierIntel(intel []IntelView) *IntelView {
	for i := range intel {
		if intel[i].HP != nil {
			return &intel[i]
		}
	}
	return nil
}

// cadenceReady gates launches to the difficulty spacing. A commander that has
// never launched is always ready.
func (c *Commander) cadenceReady(turn int) bool {
	return c.lastLaunch == 0 || turn-c.lastLaunch >= c.diff.launchCadence()
}

func (c *Commander) canLaunch(v SideView) bool {
	for _, sq := range v.Squadrons {
		if sq.Phase == "base" && sq.HP > 0 {
			return true
		}
	}
	return false
}

// nextPatrolWaypoint rotates through the corner-and-center search pattern.
func (c *Commander) nextPatrolWaypoint(tm *TerrainMap) Hex {
	w, h := tm.Width, tm.Height
	waypoints := [5]Hex{
		{X: 4, Y: 4},
		{X: w - 5, Y: 4},
		{X: 4, Y: h - 5},
		{X: w - 5, Y: h - 5},
		{X: w / 2, Y: h / 2},
	}
	wp := waypoints[c.patrolIdx%len(waypoints)]
	c.patrolIdx++
	return wp
}

// evade steers the carrier to open the range from threat: sample nearby sea
// cells, score by distance gained plus a little jitter, and half the time
// hold station when nothing actually improves.
func (c *Commander) evade(tm *TerrainMap, pos, threat Hex) *Hex {
	base := Distance(pos, threat)
	var best *Hex
	bestScore := 0.0
	for i := 0; i < 12; i++ {
		cand := Hex{
			X: pos.X + c.rng.Intn(9) - 4,
			Y: pos.Y + c.rng.Intn(9) - 4,
		}
		if cand == pos || !tm.IsSea(cand) {
			continue
		}
		score := float64(Distance(cand, threat)-base) + c.rng.Float64()*0.5
		if score > bestScore {
			cc := cand
			best, bestScore = &cc, score
		}
	}
	if best == nil && c.rng.Float64() < 0.5 {
		return nil // hold
	}
	return best
}

// drift picks a random nearby sea cell to keep the vision footprint moving.
func (c *Commander) drift(tm *TerrainMap, pos Hex) *Hex {
	for i := 0; i < 8; i++ {
		cand := Hex{
			X: pos.X + c.rng.Intn(7) - 3,
			Y: pos.Y + c.rng.Intn(7) - 3,
		}
		if cand != pos && tm.IsSea(cand) {
			return &cand
		}
	}
	return nil
}

// clampToRange walks from origin along the hex line toward want, stopping at
// the operational-range boundary. The commander trims its own plans; the
// kernel would reject an over-range launch outright.
func clampToRange(origin, want Hex, maxRange int) Hex {
	if Distance(origin, want) <= maxRange {
		return want
	}
	cur := origin
	for i := 0; i < maxRange; i++ {
		next, ok := LineStep(cur, want)
		if !ok {
			break
		}
		cur = next
	}
	return cur
}
