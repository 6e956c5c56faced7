package game

// TestBattle is a headless battle harness used by tests and the batch report
// tool. It assembles a battle from options, begins it, and offers
// turn-driving helpers on top of the real kernel — there is no separate test
// kernel to drift out of sync.
type TestBattle struct {
	Battle  *Battle
	Terrain *TerrainMap

	bal     Balance
	seed    int64
	rows    []string
	w, h    int
	spawnA  Hex
	spawnB  Hex
}

// battleOptionKind controls the pass in which an option is applied.
type battleOptionKind int

const (
	optInfra battleOptionKind = iota // terrain, seed, balance, spawns — applied first
	optUnit                          // unit state tweaks — applied after the battle exists
)

// BattleOption is a builder function applied to a TestBattle during
// construction.
type BattleOption struct {
	kind battleOptionKind
	fn   func(*TestBattle)
}

// WithOpenSea sets an all-sea map of the given dimensions.
func WithOpenSea(w, h int) BattleOption {
	return BattleOption{optInfra, func(tb *TestBattle) {
		tb.rows = nil
		tb.w, tb.h = w, h
	}}
}

// WithTerrainRows sets the map from '.'/'#' rows (see ParseTerrain).
func WithTerrainRows(rows ...string) BattleOption {
	return BattleOption{optInfra, func(tb *TestBattle) {
		tb.rows = rows
	}}
}

// WithGeneratedMap sets a procedurally generated map from the balance
// constants and the given seed.
func WithGeneratedMap(seed int64) BattleOption {
	return BattleOption{optInfra, func(tb *TestBattle) {
		tb.rows = nil
		tb.w, tb.h = 0, 0
		tb.Terrain = GenerateMap(tb.bal, seed)
		tb.spawnA, tb.spawnB = DefaultSpawns(tb.Terrain.Width, tb.Terrain.Height)
	}}
}

// WithSeed sets the combat RNG seed for deterministic runs.
func WithSeed(seed int64) BattleOption {
	return BattleOption{optInfra, func(tb *TestBattle) {
		tb.seed = seed
	}}
}

// WithBalance overrides the tuning constants. Apply before WithGeneratedMap.
func WithBalance(bal Balance) BattleOption {
	return BattleOption{optInfra, func(tb *TestBattle) {
		tb.bal = bal
	}}
}

// WithCarriers places the two carriers explicitly.
func WithCarriers(a, b Hex) BattleOption {
	return BattleOption{optInfra, func(tb *TestBattle) {
		tb.spawnA, tb.spawnB = a, b
	}}
}

// WithCarrierHP sets one carrier's starting hp.
func WithCarrierHP(s Side, hp int) BattleOption {
	return BattleOption{optUnit, func(tb *TestBattle) {
		tb.Battle.Force(s).Carrier.HP = hp
	}}
}

// WithSquadronHP sets one squadron's hp by index.
func WithSquadronHP(s Side, idx, hp int) BattleOption {
	return BattleOption{optUnit, func(tb *TestBattle) {
		tb.Battle.Force(s).Squadrons[idx].HP = hp
	}}
}

// WithDeployedSquadron puts a squadron in the air mid-mission: launched at
// pos toward target, then advanced to the given phase.
func WithDeployedSquadron(s Side, idx int, pos, target Hex, phase SquadronPhase) BattleOption {
	return BattleOption{optUnit, func(tb *TestBattle) {
		sq := tb.Battle.Force(s).Squadrons[idx]
		sq.Launch(pos, target)
		switch phase {
		case PhaseEngaging:
			sq.Engage()
		case PhaseReturning:
			sq.TurnHome()
		}
	}}
}

// NewTestBattle constructs a battle from the options in two ordered passes
// (infrastructure, then unit tweaks) and begins it.
func NewTestBattle(opts ...BattleOption) *TestBattle {
	tb := &TestBattle{
		bal:  DefaultBalance(),
		seed: 1,
		w:    20,
		h:    20,
	}
	tb.spawnA, tb.spawnB = Hex{X: 3, Y: 3}, Hex{X: 16, Y: 16}
	for _, o := range opts {
		if o.kind == optInfra {
			o.fn(tb)
		}
	}

	if tb.Terrain == nil {
		if tb.rows != nil {
			tb.Terrain = ParseTerrain(tb.rows)
		} else {
			tb.Terrain = NewTerrainMap(tb.w, tb.h)
		}
	}
	tb.Battle = NewBattleAt(tb.Terrain, tb.bal, tb.seed, tb.spawnA, tb.spawnB)

	for _, o := range opts {
		if o.kind == optUnit {
			o.fn(tb)
		}
	}
	tb.Battle.Begin()
	return tb
}

// Force returns one side's force.
func (tb *TestBattle) Force(s Side) *Force { return tb.Battle.Force(s) }

// Log returns the battle log.
func (tb *TestBattle) Log() *BattleLog { return tb.Battle.Log }

// RunTurn submits both sides' orders for the current turn and resolves it.
// The Turn binding is filled in automatically.
func (tb *TestBattle) RunTurn(a, b Orders) error {
	a.Turn = tb.Battle.Turn
	b.Turn = tb.Battle.Turn
	if err := tb.Battle.SubmitOrders(SideA, a); err != nil {
		return err
	}
	if err := tb.Battle.SubmitOrders(SideB, b); err != nil {
		return err
	}
	return tb.Battle.ResolveTurn()
}

// HoldTurn resolves one turn with empty orders on both sides.
func (tb *TestBattle) HoldTurn() error {
	return tb.RunTurn(Orders{}, Orders{})
}

// RunUntil resolves hold-order turns until pred is true, the battle ends, or
// maxTurns turns have passed. Returns whether pred was satisfied.
func (tb *TestBattle) RunUntil(pred func(*Battle) bool, maxTurns int) (bool, error) {
	for i := 0; i < maxTurns; i++ {
		if pred(tb.Battle) {
			return true, nil
		}
		if tb.Battle.Status != StatusActive {
			return pred(tb.Battle), nil
		}
		if err := tb.HoldTurn(); err != nil {
			return false, err
		}
	}
	return pred(tb.Battle), nil
}

// RunCommanders plays the battle out between two CPU commanders for up to
// maxTurns turns. The report tool's core loop; tests use it for full-game
// scenarios.
func (tb *TestBattle) RunCommanders(ca, cb *Commander, maxTurns int) error {
	for i := 0; i < maxTurns && tb.Battle.Status == StatusActive; i++ {
		oa := ca.Plan(tb.Terrain, tb.Battle.View(SideA), tb.bal)
		ob := cb.Plan(tb.Terrain, tb.Battle.View(SideB), tb.bal)
		if err := tb.Battle.SubmitOrders(SideA, oa); err != nil {
			return err
		}
		if err := tb.Battle.SubmitOrders(SideB, ob); err != nil {
			return err
		}
		if err := tb.Battle.ResolveTurn(); err != nil {
			return err
		}
	}
	return nil
}
