package game

import "fmt"

// Side distinguishes the two fleets.
type Side int

const (
	SideA Side = iota
	SideB
)

func (s Side) String() string {
	if s == SideA {
		return "A"
	}
	return "B"
}

// Label returns the lowercase wire/log form of the side.
func (s Side) Label() string {
	if s == SideA {
		return "a"
	}
	return "b"
}

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == SideA {
		return SideB
	}
	return SideA
}

// SquadronPhase is the lifecycle state of an aircraft squadron.
type SquadronPhase int

const (
	PhaseBase      SquadronPhase = iota // aboard the carrier, launchable
	PhaseOutbound                       // flying toward the ordered destination
	PhaseEngaging                       // enemy carrier acquired, closing in
	PhaseReturning                      // flying home to land
	PhaseLost                           // shot down; terminal
)

func (p SquadronPhase) String() string {
	switch p {
	case PhaseBase:
		return "base"
	case PhaseOutbound:
		return "outbound"
	case PhaseEngaging:
		return "engaging"
	case PhaseReturning:
		return "returning"
	case PhaseLost:
		return "lost"
	default:
		return "unknown"
	}
}

// Deployed reports whether the phase carries a sortie payload.
func (p SquadronPhase) Deployed() bool {
	return p == PhaseOutbound || p == PhaseEngaging || p == PhaseReturning
}

// Carrier is one side's capital ship.
type Carrier struct {
	ID   string
	Side Side

	Pos    Hex
	HP     int
	MaxHP  int
	Speed  int
	Vision int
	Hangar int

	// MoveTarget is the standing movement order; nil when holding station.
	MoveTarget *Hex
}

// Sortie is the in-flight payload of a squadron: it exists exactly while the
// squadron is outbound, engaging, or returning. Keeping position and target
// here, rather than as optional fields on Squadron, makes "base squadrons have
// no position" a structural fact instead of a convention.
type Sortie struct {
	Pos    Hex
	Target Hex
}

// Squadron is a fuel-limited strike wing. Phase transitions go through the
// methods below so the sortie payload and phase can never disagree.
type Squadron struct {
	ID   string
	Side Side

	HP     int
	MaxHP  int
	Speed  int
	Vision int

	phase  SquadronPhase
	sortie *Sortie
}

// Phase returns the current lifecycle phase.
func (s *Squadron) Phase() SquadronPhase { return s.phase }

// Deployed reports whether the squadron is in flight.
func (s *Squadron) Deployed() bool { return s.phase.Deployed() }

// Sortie returns the in-flight payload, or ok=false for base/lost squadrons.
func (s *Squadron) Sortie() (*Sortie, bool) {
	if s.sortie == nil {
		return nil, false
	}
	return s.sortie, true
}

// Launch puts a base squadron in the air at spawn, headed for target.
func (s *Squadron) Launch(spawn, target Hex) {
	s.phase = PhaseOutbound
	s.sortie = &Sortie{Pos: spawn, Target: target}
}

// Engage marks an outbound squadron as having acquired the enemy carrier.
func (s *Squadron) Engage() {
	s.phase = PhaseEngaging
}

// TurnHome sends a deployed squadron back toward its carrier.
func (s *Squadron) TurnHome() {
	s.phase = PhaseReturning
}

// Land recovers a returning squadron: phase base, payload gone, hp kept.
func (s *Squadron) Land() {
	s.phase = PhaseBase
	s.sortie = nil
}

// Destroy removes a squadron permanently.
func (s *Squadron) Destroy() {
	s.phase = PhaseLost
	s.sortie = nil
}

// Force is one side's complete order of battle plus its private picture of the
// battlefield: the visible-cell set and the intel memory about the enemy.
type Force struct {
	Side      Side
	Carrier   *Carrier
	Squadrons []*Squadron

	// Visible is rebuilt from scratch every turn; Intel decays per turn.
	Visible map[Hex]struct{}
	Intel   map[string]*IntelEntry

	// sweeps accumulates this turn's movement trails until the visibility
	// rebuild consumes them.
	sweeps []sweep
}

type sweep struct {
	cells  []Hex
	radius int
}

// NewForce assembles one side's starting units at the given anchorage.
func NewForce(side Side, spawn Hex, bal Balance) *Force {
	f := &Force{
		Side: side,
		Carrier: &Carrier{
			ID:     side.String() + "C1",
			Side:   side,
			Pos:    spawn,
			HP:     bal.CarrierHP,
			MaxHP:  bal.CarrierHP,
			Speed:  bal.CarrierSpeed,
			Vision: bal.CarrierVision,
			Hangar: bal.HangarCapacity,
		},
		Visible: make(map[Hex]struct{}),
		Intel:   make(map[string]*IntelEntry),
	}
	for i := 0; i < bal.HangarCapacity; i++ {
		f.Squadrons = append(f.Squadrons, &Squadron{
			ID:     fmt.Sprintf("%sSQ%d", side.String(), i+1),
			Side:   side,
			HP:     bal.SquadronHP,
			MaxHP:  bal.SquadronHP,
			Speed:  bal.SquadronSpeed,
			Vision: bal.SquadronVision,
			phase:  PhaseBase,
		})
	}
	return f
}

// FreeSquadron returns the first launchable squadron (base, hp > 0), or nil.
func (f *Force) FreeSquadron() *Squadron {
	for _, s := range f.Squadrons {
		if s.phase == PhaseBase && s.HP > 0 {
			return s
		}
	}
	return nil
}

// DeployedCount returns how many squadrons are currently in flight.
func (f *Force) DeployedCount() int {
	n := 0
	for _, s := range f.Squadrons {
		if s.Deployed() {
			n++
		}
	}
	return n
}

// SquadronByID looks a squadron up by id.
func (f *Force) SquadronByID(id string) *Squadron {
	for _, s := range f.Squadrons {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// addSweep records a movement trail for this turn's visibility rebuild.
func (f *Force) addSweep(cells []Hex, radius int) {
	if len(cells) == 0 {
		return
	}
	f.sweeps = append(f.sweeps, sweep{cells: cells, radius: radius})
}
