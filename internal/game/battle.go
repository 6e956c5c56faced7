package game

import "fmt"

// Battle is one match's complete authoritative state. It is the only writer
// of that state: orders come in through SubmitOrders, turns advance through
// ResolveTurn, and everything else reads. The kernel is synchronous and
// single-threaded; callers that share a Battle across goroutines own the
// locking (see internal/server).
type Battle struct {
	Terrain *TerrainMap
	Forces  [2]*Force

	// Turn is the number the currently accepted orders target, starting at 1.
	Turn    int
	Status  MatchStatus
	Outcome *OutcomeReason

	Log *BattleLog

	// InvariantHook is called when movement resolves onto an illegal cell,
	// which correct candidate filtering makes unreachable. The move is
	// refused either way; tests install a hook that fails the test.
	InvariantHook func(error)

	bal     Balance
	combat  *CombatResolver
	pending [2]*Orders
}

// NewBattle creates a battle on tm with carriers at the default mirrored
// anchorages. The seed fixes every combat roll; identical inputs replay
// identically.
func NewBattle(tm *TerrainMap, bal Balance, seed int64) *Battle {
	a, b := DefaultSpawns(tm.Width, tm.Height)
	return NewBattleAt(tm, bal, seed, a, b)
}

// NewBattleAt creates a battle with explicit carrier anchorages. Test and
// harness entry point; NewBattle is the production path.
func NewBattleAt(tm *TerrainMap, bal Balance, seed int64, spawnA, spawnB Hex) *Battle {
	return &Battle{
		Terrain: tm,
		Forces: [2]*Force{
			NewForce(SideA, spawnA, bal),
			NewForce(SideB, spawnB, bal),
		},
		Status: StatusWaiting,
		Log:    NewBattleLog(),
		bal:    bal,
		combat: NewCombatResolver(seed, bal),
	}
}

// Balance returns the tuning constants the battle was built with.
func (b *Battle) Balance() Balance { return b.bal }

// Force returns one side's order of battle.
func (b *Battle) Force(s Side) *Force { return b.Forces[s] }

// Begin activates a waiting battle: turn 1 opens for orders and both sides
// get their initial picture of the board.
func (b *Battle) Begin() {
	if b.Status != StatusWaiting {
		return
	}
	b.Status = StatusActive
	b.Turn = 1
	for _, s := range []Side{SideA, SideB} {
		RebuildVisibleSet(b.Terrain, b.Forces[s])
		b.noteContacts(s, UpdateIntel(b.Forces[s], b.Forces[s.Opponent()], b.bal))
	}
	b.Log.AddShared(0, "--", "--", "match", "begin", "battle active", 0)
}

// SubmitOrders validates and stages one side's orders for the current turn.
// Rejections mutate nothing and are resubmittable; a ConflictError means the
// orders targeted a turn that already resolved (or has not opened yet).
func (b *Battle) SubmitOrders(side Side, o Orders) error {
	if b.Status != StatusActive {
		return validationf("battle is %s, not accepting orders", b.Status)
	}
	if o.Turn != b.Turn {
		return &ConflictError{Got: o.Turn, Want: b.Turn}
	}
	if b.pending[side] != nil {
		return validationf("orders already staged for turn %d", b.Turn)
	}

	f := b.Forces[side]
	if t := o.CarrierTarget; t != nil {
		if !b.Terrain.InBounds(*t) {
			return validationf("carrier destination %v is off the map", *t)
		}
		if !b.Terrain.IsSea(*t) {
			return validationf("carrier destination %v is not sea", *t)
		}
	}
	if t := o.LaunchTarget; t != nil {
		if !b.Terrain.InBounds(*t) {
			return validationf("launch destination %v is off the map", *t)
		}
		if f.FreeSquadron() == nil {
			return validationf("no squadron available to launch")
		}
		if d := Distance(f.Carrier.Pos, *t); d > b.bal.OperationalRange {
			return validationf("launch destination %v at distance %d exceeds operational range %d",
				*t, d, b.bal.OperationalRange)
		}
	}

	staged := o
	b.pending[side] = &staged
	b.Log.Add(b.Turn, f.Carrier.ID, side.Label(), "order", "staged",
		describeOrders(o), 0)
	return nil
}

// OrdersStaged reports whether side has orders staged for the current turn.
func (b *Battle) OrdersStaged(side Side) bool {
	return b.pending[side] != nil
}

// Ready reports whether both sides' orders are in and the turn can resolve.
func (b *Battle) Ready() bool {
	return b.Status == StatusActive && b.pending[SideA] != nil && b.pending[SideB] != nil
}

// ResolveTurn resolves the current turn. It refuses to run until both sides'
// orders are staged; the timeout path is ForceResolve.
func (b *Battle) ResolveTurn() error {
	if b.Status != StatusActive {
		return validationf("battle is %s, nothing to resolve", b.Status)
	}
	if !b.Ready() {
		return validationf("turn %d is waiting for orders", b.Turn)
	}
	b.resolve()
	return nil
}

// ForceResolve fills empty orders in for any side that has not submitted and
// resolves the turn. The liveness valve for the per-turn timeout policy.
func (b *Battle) ForceResolve() {
	if b.Status != StatusActive {
		return
	}
	for _, s := range []Side{SideA, SideB} {
		if b.pending[s] == nil {
			b.pending[s] = &Orders{Turn: b.Turn}
			b.Log.Add(b.Turn, b.Forces[s].Carrier.ID, s.Label(), "order", "defaulted",
				"empty orders substituted", 0)
		}
	}
	b.resolve()
}

// Forfeit ends an active battle immediately in the opponent's favor.
func (b *Battle) Forfeit(leaver Side) {
	if b.Status != StatusActive {
		return
	}
	o := ForfeitOutcome(b.Turn, b.Forces[SideA], b.Forces[SideB], leaver)
	b.Outcome = &o
	b.Status = StatusOver
	b.Log.AddShared(b.Turn, "--", "--", "match", "over", o.String(), 0)
}

// resolve runs the fixed turn pipeline: carrier movement, launches, squadron
// steps with combat, per-side visibility and intel, end conditions. Side A
// always processes before side B, and squadrons within a side in id order;
// the AA snapshot in the strike phase keeps the ordering from leaking into
// damage numbers.
func (b *Battle) resolve() {
	turn := b.Turn

	for _, s := range []Side{SideA, SideB} {
		b.moveCarrier(turn, s)
	}
	for _, s := range []Side{SideA, SideB} {
		b.applyLaunch(turn, s, b.pending[s].LaunchTarget)
	}

	aaSnapshot := [2]int{b.Forces[SideA].Carrier.HP, b.Forces[SideB].Carrier.HP}
	for _, s := range []Side{SideA, SideB} {
		for _, sq := range b.Forces[s].Squadrons {
			b.stepSquadron(turn, s, sq, &aaSnapshot)
		}
	}

	for _, s := range []Side{SideA, SideB} {
		RebuildVisibleSet(b.Terrain, b.Forces[s])
		b.noteContacts(s, UpdateIntel(b.Forces[s], b.Forces[s.Opponent()], b.bal))
	}

	if o, over := DetermineOutcome(turn, b.Forces[SideA], b.Forces[SideB], b.bal); over {
		b.Outcome = &o
		b.Status = StatusOver
		b.Log.AddShared(turn, "--", "--", "match", "over", o.String(), 0)
	}

	b.Log.AddShared(turn, "--", "--", "turn", "resolved",
		fmt.Sprintf("hp A=%d B=%d", b.Forces[SideA].Carrier.HP, b.Forces[SideB].Carrier.HP), 0)
	b.Turn++
	b.pending = [2]*Orders{}
}

// moveCarrier advances one carrier toward its standing move target, sea-only,
// up to its speed. A fresh CarrierTarget in this turn's orders replaces the
// standing one first.
func (b *Battle) moveCarrier(turn int, s Side) {
	f := b.Forces[s]
	c := f.Carrier
	if o := b.pending[s]; o.CarrierTarget != nil {
		t := *o.CarrierTarget
		c.MoveTarget = &t
	}
	if c.MoveTarget == nil {
		return
	}

	res := StepTowards(b.Terrain, MoveRequest{
		From:          c.Pos,
		To:            *c.MoveTarget,
		MaxSteps:      c.Speed,
		AvoidOccupied: true,
		Occupied:      b.occupiedExcept(c.ID),
		TrackPath:     true,
	})
	if !b.Terrain.IsSea(res.Pos) {
		b.invariant(fmt.Sprintf("carrier %s move resolved onto non-sea cell %v", c.ID, res.Pos))
		return
	}
	if res.Steps > 0 {
		b.Log.Add(turn, c.ID, s.Label(), "move", "carrier",
			fmt.Sprintf("%v -> %v", c.Pos, res.Pos), float64(res.Steps))
		f.addSweep(res.Path, c.Vision)
		c.Pos = res.Pos
	}
	if res.Arrived {
		c.MoveTarget = nil
		b.Log.Add(turn, c.ID, s.Label(), "move", "carrier_arrived", c.Pos.String(), 0)
	}
}

// applyLaunch spawns a queued launch. Range was validated at submission; the
// spawn cell is re-checked here because the carrier has moved since. A launch
// with no free spawn cell fails alone — the rest of the turn is unaffected.
func (b *Battle) applyLaunch(turn int, s Side, target *Hex) {
	if target == nil {
		return
	}
	f := b.Forces[s]
	sq := f.FreeSquadron()
	if sq == nil {
		b.Log.Add(turn, f.Carrier.ID, s.Label(), "launch", "failed", "no squadron available", 0)
		return
	}

	spawn, ok := b.launchSpawnCell(f.Carrier, *target)
	if !ok {
		b.Log.Add(turn, f.Carrier.ID, s.Label(), "launch", "failed", "no free spawn cell", 0)
		return
	}
	sq.Launch(spawn, *target)
	f.addSweep([]Hex{spawn}, sq.Vision)
	b.Log.Add(turn, sq.ID, s.Label(), "launch", "airborne",
		fmt.Sprintf("spawned %v, destination %v", spawn, *target), 0)
}

// launchSpawnCell picks the free sea cell adjacent to the carrier that is
// farthest from the destination, so the squadron starts its run on heading.
func (b *Battle) launchSpawnCell(c *Carrier, target Hex) (Hex, bool) {
	occupied := b.occupiedExcept("")
	best := Hex{}
	bestDist := -1
	for _, n := range Neighbors(c.Pos) {
		if !b.Terrain.IsSea(n) || occupied(n) {
			continue
		}
		if d := Distance(n, target); d > bestDist {
			best, bestDist = n, d
		}
	}
	return best, bestDist >= 0
}

// stepSquadron advances one deployed squadron a single lifecycle step.
func (b *Battle) stepSquadron(turn int, s Side, sq *Squadron, aaSnapshot *[2]int) {
	srt, ok := sq.Sortie()
	if !ok {
		return
	}
	me := b.Forces[s]
	enemy := b.Forces[s.Opponent()]

	switch sq.Phase() {
	case PhaseOutbound:
		if Distance(srt.Pos, enemy.Carrier.Pos) <= sq.Vision {
			b.flySquadron(turn, s, sq, enemy.Carrier.Pos, 1)
			if Distance(srt.Pos, enemy.Carrier.Pos) <= 1 {
				b.resolveStrike(turn, s, sq, enemy, aaSnapshot)
			} else {
				sq.Engage()
				b.Log.Add(turn, sq.ID, s.Label(), "contact", "carrier_sighted",
					fmt.Sprintf("%s at %v", enemy.Carrier.ID, enemy.Carrier.Pos), 0)
			}
			return
		}
		res := b.flySquadron(turn, s, sq, srt.Target, 0)
		if res.Arrived {
			sq.TurnHome()
			b.Log.Add(turn, sq.ID, s.Label(), "contact", "none_at_destination",
				fmt.Sprintf("%v empty, returning", srt.Target), 0)
		}

	case PhaseEngaging:
		b.flySquadron(turn, s, sq, enemy.Carrier.Pos, 1)
		if Distance(srt.Pos, enemy.Carrier.Pos) <= 1 {
			b.resolveStrike(turn, s, sq, enemy, aaSnapshot)
		}

	case PhaseReturning:
		b.flySquadron(turn, s, sq, me.Carrier.Pos, 1)
		if Distance(srt.Pos, me.Carrier.Pos) <= 1 {
			sq.Land()
			b.Log.Add(turn, sq.ID, s.Label(), "recover", "landed",
				fmt.Sprintf("aboard %s, hp %d/%d", me.Carrier.ID, sq.HP, sq.MaxHP), 0)
		}
	}
}

// flySquadron moves a deployed squadron toward target, overflying islands,
// and records its sweep for path-sweep visibility.
func (b *Battle) flySquadron(turn int, s Side, sq *Squadron, target Hex, stopRange int) MoveResult {
	srt, _ := sq.Sortie()
	res := StepTowards(b.Terrain, MoveRequest{
		From:          srt.Pos,
		To:            target,
		MaxSteps:      sq.Speed,
		StopRange:     stopRange,
		PassIslands:   true,
		AvoidOccupied: true,
		Occupied:      b.occupiedExcept(sq.ID),
		TrackPath:     true,
	})
	if !b.Terrain.InBounds(res.Pos) {
		b.invariant(fmt.Sprintf("squadron %s move resolved off-map at %v", sq.ID, res.Pos))
		return MoveResult{Pos: srt.Pos}
	}
	if res.Steps > 0 {
		b.Log.Add(turn, sq.ID, s.Label(), "move", "squadron",
			fmt.Sprintf("%v -> %v", srt.Pos, res.Pos), float64(res.Steps))
		b.Forces[s].addSweep(res.Path, sq.Vision)
		srt.Pos = res.Pos
	}
	return res
}

// resolveStrike runs a range-1 engagement and the resulting transitions.
func (b *Battle) resolveStrike(turn int, s Side, sq *Squadron, enemy *Force, aaSnapshot *[2]int) {
	ex := b.combat.ResolveStrike(sq, enemy.Carrier, aaSnapshot[enemy.Side])
	b.Log.AddShared(turn, sq.ID, s.Label(), "combat", "strike",
		fmt.Sprintf("hit %s for %d, hp now %d", enemy.Carrier.ID, ex.StrikeDamage, enemy.Carrier.HP),
		float64(ex.StrikeDamage))
	b.Log.AddShared(turn, enemy.Carrier.ID, enemy.Side.Label(), "combat", "aa",
		fmt.Sprintf("hit %s for %d, hp now %d", sq.ID, ex.AADamage, sq.HP),
		float64(ex.AADamage))

	if ex.CarrierSunk {
		b.Log.AddShared(turn, enemy.Carrier.ID, enemy.Side.Label(), "combat", "sunk",
			enemy.Carrier.ID+" is sinking", 0)
	}
	if ex.SquadronDown {
		sq.Destroy()
		enemy.DropIntel(sq.ID)
		b.Log.AddShared(turn, sq.ID, s.Label(), "combat", "shot_down",
			sq.ID+" destroyed by AA", 0)
	} else {
		sq.TurnHome()
	}
}

// occupiedExcept builds the occupancy predicate over every active unit except
// the mover itself.
func (b *Battle) occupiedExcept(moverID string) func(Hex) bool {
	return func(h Hex) bool {
		for _, f := range b.Forces {
			if f.Carrier.ID != moverID && f.Carrier.Pos == h {
				return true
			}
			for _, sq := range f.Squadrons {
				if sq.ID == moverID {
					continue
				}
				if srt, ok := sq.Sortie(); ok && srt.Pos == h {
					return true
				}
			}
		}
		return false
	}
}

func (b *Battle) noteContacts(s Side, ids []string) {
	for _, id := range ids {
		e := b.Forces[s].Intel[id]
		if e == nil {
			continue
		}
		b.Log.Add(b.Turn, id, s.Label(), "contact", "sighted",
			fmt.Sprintf("at %v", e.Pos), 0)
	}
}

func (b *Battle) invariant(detail string) {
	err := &InvariantError{Detail: detail}
	b.Log.Add(b.Turn, "--", "--", "match", "invariant", err.Error(), 0)
	if b.InvariantHook != nil {
		b.InvariantHook(err)
	}
}

func describeOrders(o Orders) string {
	switch {
	case o.CarrierTarget != nil && o.LaunchTarget != nil:
		return fmt.Sprintf("move %v, launch %v", *o.CarrierTarget, *o.LaunchTarget)
	case o.CarrierTarget != nil:
		return fmt.Sprintf("move %v", *o.CarrierTarget)
	case o.LaunchTarget != nil:
		return fmt.Sprintf("launch %v", *o.LaunchTarget)
	default:
		return "hold"
	}
}
