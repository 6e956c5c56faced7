package game

import (
	"errors"
	"testing"
)

func hexPtr(x, y int) *Hex {
	return &Hex{X: x, Y: y}
}

func TestSubmitOrders_RejectsBeforeBegin(t *testing.T) {
	tm := NewTerrainMap(20, 20)
	b := NewBattle(tm, DefaultBalance(), 1)
	err := b.SubmitOrders(SideA, Orders{Turn: 1})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("waiting battle accepted orders: %v", err)
	}
}

func TestSubmitOrders_TurnBinding(t *testing.T) {
	tb := NewTestBattle(WithOpenSea(20, 20))
	b := tb.Battle

	var ce *ConflictError
	if err := b.SubmitOrders(SideA, Orders{Turn: 0}); !errors.As(err, &ce) {
		t.Fatalf("stale turn accepted: %v", err)
	}
	if err := b.SubmitOrders(SideA, Orders{Turn: 2}); !errors.As(err, &ce) {
		t.Fatalf("future turn accepted: %v", err)
	}
	if ce.Want != 1 {
		t.Fatalf("conflict names turn %d as current, want 1", ce.Want)
	}
	if err := b.SubmitOrders(SideA, Orders{Turn: 1}); err != nil {
		t.Fatalf("current turn rejected: %v", err)
	}
}

func TestSubmitOrders_DuplicateStagingRejected(t *testing.T) {
	tb := NewTestBattle(WithOpenSea(20, 20))
	if err := tb.Battle.SubmitOrders(SideA, Orders{Turn: 1}); err != nil {
		t.Fatalf("first submission rejected: %v", err)
	}
	var ve *ValidationError
	if err := tb.Battle.SubmitOrders(SideA, Orders{Turn: 1}); !errors.As(err, &ve) {
		t.Fatalf("second submission for the same turn accepted: %v", err)
	}
}

func TestSubmitOrders_CarrierDestinationValidation(t *testing.T) {
	tb := NewTestBattle(WithTerrainRows(
		"....................",
		"....................",
		"....................",
		"..........#.........",
		"....................",
		"....................",
		"....................",
		"....................",
		"....................",
		"....................",
	), WithCarriers(Hex{X: 3, Y: 3}, Hex{X: 16, Y: 6}))

	var ve *ValidationError
	if err := tb.Battle.SubmitOrders(SideA, Orders{Turn: 1, CarrierTarget: hexPtr(40, 3)}); !errors.As(err, &ve) {
		t.Fatalf("off-grid destination accepted: %v", err)
	}
	if err := tb.Battle.SubmitOrders(SideA, Orders{Turn: 1, CarrierTarget: hexPtr(10, 3)}); !errors.As(err, &ve) {
		t.Fatalf("island destination accepted: %v", err)
	}
	if err := tb.Battle.SubmitOrders(SideA, Orders{Turn: 1, CarrierTarget: hexPtr(8, 3)}); err != nil {
		t.Fatalf("legal destination rejected: %v", err)
	}
}

func TestSubmitOrders_LaunchValidation(t *testing.T) {
	bal := DefaultBalance()
	tb := NewTestBattle(WithOpenSea(30, 30), WithCarriers(Hex{X: 3, Y: 3}, Hex{X: 26, Y: 26}))
	b := tb.Battle

	var ve *ValidationError
	far := Hex{X: 3 + bal.OperationalRange + 1, Y: 3}
	if err := b.SubmitOrders(SideA, Orders{Turn: 1, LaunchTarget: &far}); !errors.As(err, &ve) {
		t.Fatalf("out-of-range launch accepted: %v", err)
	}
	edge := Hex{X: 3 + bal.OperationalRange, Y: 3}
	if err := b.SubmitOrders(SideA, Orders{Turn: 1, LaunchTarget: &edge}); err != nil {
		t.Fatalf("launch at exactly operational range rejected: %v", err)
	}
}

func TestSubmitOrders_LaunchNeedsFreeSquadron(t *testing.T) {
	tb := NewTestBattle(WithOpenSea(20, 20),
		WithDeployedSquadron(SideA, 0, Hex{X: 6, Y: 6}, Hex{X: 10, Y: 10}, PhaseOutbound),
		WithDeployedSquadron(SideA, 1, Hex{X: 7, Y: 7}, Hex{X: 10, Y: 10}, PhaseOutbound),
	)
	var ve *ValidationError
	if err := tb.Battle.SubmitOrders(SideA, Orders{Turn: 1, LaunchTarget: hexPtr(10, 10)}); !errors.As(err, &ve) {
		t.Fatalf("launch with an empty hangar accepted: %v", err)
	}
}

func TestResolveTurn_RequiresBothSides(t *testing.T) {
	tb := NewTestBattle(WithOpenSea(20, 20))
	b := tb.Battle
	if err := b.ResolveTurn(); err == nil {
		t.Fatal("resolved with no orders staged")
	}
	if err := b.SubmitOrders(SideA, Orders{Turn: 1}); err != nil {
		t.Fatal(err)
	}
	if err := b.ResolveTurn(); err == nil {
		t.Fatal("resolved with only one side's orders")
	}
	if err := b.SubmitOrders(SideB, Orders{Turn: 1}); err != nil {
		t.Fatal(err)
	}
	if !b.Ready() {
		t.Fatal("both orders staged, battle not ready")
	}
	if err := b.ResolveTurn(); err != nil {
		t.Fatalf("complete pair failed to resolve: %v", err)
	}
	if b.Turn != 2 {
		t.Fatalf("turn counter %d after one resolution, want 2", b.Turn)
	}
}

func TestForceResolve_FillsMissingOrders(t *testing.T) {
	tb := NewTestBattle(WithOpenSea(20, 20))
	b := tb.Battle
	if err := b.SubmitOrders(SideA, Orders{Turn: 1, CarrierTarget: hexPtr(5, 3)}); err != nil {
		t.Fatal(err)
	}
	b.ForceResolve()
	if b.Turn != 2 {
		t.Fatal("timeout path did not resolve the turn")
	}
	if !b.Log.HasEntry("order", "defaulted", "") {
		t.Fatal("defaulted orders not logged")
	}
}

func TestRejectedOrderMutatesNothing(t *testing.T) {
	tb := NewTestBattle(WithOpenSea(20, 20))
	b := tb.Battle
	before := b.Force(SideA).Carrier.Pos
	_ = b.SubmitOrders(SideA, Orders{Turn: 1, CarrierTarget: hexPtr(40, 40)})
	if b.Force(SideA).Carrier.Pos != before {
		t.Fatal("rejected order moved the carrier")
	}
	if b.OrdersStaged(SideA) {
		t.Fatal("rejected order was staged")
	}
	// The side can immediately resubmit a corrected order.
	if err := b.SubmitOrders(SideA, Orders{Turn: 1, CarrierTarget: hexPtr(6, 3)}); err != nil {
		t.Fatalf("resubmission after rejection failed: %v", err)
	}
}

func TestLaunch_SpawnsOnFarSideTowardTarget(t *testing.T) {
	tb := NewTestBattle(WithOpenSea(20, 20), WithCarriers(Hex{X: 10, Y: 10}, Hex{X: 3, Y: 16}))
	if err := tb.RunTurn(Orders{LaunchTarget: hexPtr(18, 10)}, Orders{}); err != nil {
		t.Fatal(err)
	}
	sq := tb.Force(SideA).Squadrons[0]
	if !sq.Deployed() {
		t.Fatalf("squadron phase %s after launch, want deployed", sq.Phase())
	}
	srt, _ := sq.Sortie()
	// The three west-side neighbors tie for farthest; neighbor-table order
	// makes (9,9) the pick.
	if srt.Pos != (Hex{X: 9, Y: 9}) {
		t.Fatalf("spawned at %v, want the far-side cell (9,9)", srt.Pos)
	}
	if d := Distance(srt.Pos, Hex{X: 18, Y: 10}); d != 9 {
		t.Fatalf("spawn cell at distance %d from target, want the far side at 9", d)
	}
	if srt.Target != (Hex{X: 18, Y: 10}) {
		t.Fatalf("sortie target %v, want (18,10)", srt.Target)
	}
}

func TestLaunch_FailsWithoutFreeSpawnCell(t *testing.T) {
	// Carrier in a one-cell pocket: every neighbor is land.
	tb := NewTestBattle(WithTerrainRows(
		"#####...............",
		"#.###...............",
		"#####...............",
		"....................",
		"....................",
	), WithCarriers(Hex{X: 1, Y: 1}, Hex{X: 15, Y: 3}))
	if err := tb.RunTurn(Orders{LaunchTarget: hexPtr(10, 1)}, Orders{}); err != nil {
		t.Fatal(err)
	}
	sq := tb.Force(SideA).Squadrons[0]
	if sq.Phase() != PhaseBase {
		t.Fatalf("squadron phase %s, want base after a failed launch", sq.Phase())
	}
	if !tb.Log().HasEntry("launch", "failed", "no free spawn cell") {
		t.Fatal("failed launch not logged")
	}
	if tb.Battle.Status != StatusActive {
		t.Fatal("a failed launch must not derail the match")
	}
}

func TestCarrierMovement_StandingOrderPersists(t *testing.T) {
	tb := NewTestBattle(WithOpenSea(20, 20), WithCarriers(Hex{X: 3, Y: 3}, Hex{X: 16, Y: 16}))
	if err := tb.RunTurn(Orders{CarrierTarget: hexPtr(9, 3)}, Orders{}); err != nil {
		t.Fatal(err)
	}
	c := tb.Force(SideA).Carrier
	if c.Pos != (Hex{X: 5, Y: 3}) {
		t.Fatalf("after one turn at speed 2, carrier at %v, want (5,3)", c.Pos)
	}
	if c.MoveTarget == nil {
		t.Fatal("standing order cleared before arrival")
	}
	// No new order: the standing target keeps pulling.
	if err := tb.HoldTurn(); err != nil {
		t.Fatal(err)
	}
	if c.Pos != (Hex{X: 7, Y: 3}) {
		t.Fatalf("standing order did not persist, carrier at %v", c.Pos)
	}
}

func TestForfeit_EndsMatchForOpponent(t *testing.T) {
	tb := NewTestBattle(WithOpenSea(20, 20))
	tb.Battle.Forfeit(SideA)
	if tb.Battle.Status != StatusOver {
		t.Fatal("forfeit left the battle active")
	}
	if tb.Battle.Outcome.Result != ResultSideB || tb.Battle.Outcome.Description != "forfeit" {
		t.Fatalf("outcome %+v, want side B win by forfeit", tb.Battle.Outcome)
	}
	// Nothing resolves after the end.
	if err := tb.Battle.SubmitOrders(SideB, Orders{Turn: tb.Battle.Turn}); err == nil {
		t.Fatal("finished battle accepted orders")
	}
}

func TestHangarInvariant_DeployedNeverExceedsCapacity(t *testing.T) {
	tb := NewTestBattle(WithOpenSea(30, 30), WithCarriers(Hex{X: 5, Y: 15}, Hex{X: 24, Y: 15}))
	bal := tb.Battle.Balance()
	for i := 0; i < 12; i++ {
		if tb.Battle.Status != StatusActive {
			break
		}
		// Launch orders reject once a hangar empties; whatever staged,
		// the turn still resolves.
		o := Orders{Turn: tb.Battle.Turn, LaunchTarget: hexPtr(15, 15)}
		_ = tb.Battle.SubmitOrders(SideA, o)
		_ = tb.Battle.SubmitOrders(SideB, o)
		tb.Battle.ForceResolve()
		for _, s := range []Side{SideA, SideB} {
			if n := tb.Force(s).DeployedCount(); n > bal.HangarCapacity {
				t.Fatalf("side %s has %d squadrons deployed, capacity %d", s, n, bal.HangarCapacity)
			}
		}
	}
}

func TestResolve_DeterministicAcrossIdenticalRuns(t *testing.T) {
	play := func() (string, [2]int) {
		tb := NewTestBattle(WithOpenSea(20, 20), WithSeed(99),
			WithCarriers(Hex{X: 3, Y: 10}, Hex{X: 16, Y: 10}))
		for i := 0; i < 15 && tb.Battle.Status == StatusActive; i++ {
			// Launches reject once hangars empty; the turn resolves with
			// whatever staged.
			turn := tb.Battle.Turn
			_ = tb.Battle.SubmitOrders(SideA,
				Orders{Turn: turn, CarrierTarget: hexPtr(10, 8), LaunchTarget: hexPtr(16, 10)})
			_ = tb.Battle.SubmitOrders(SideB,
				Orders{Turn: turn, CarrierTarget: hexPtr(10, 12), LaunchTarget: hexPtr(3, 10)})
			tb.Battle.ForceResolve()
		}
		return tb.Log().Format(), [2]int{
			tb.Force(SideA).Carrier.HP,
			tb.Force(SideB).Carrier.HP,
		}
	}
	log1, hp1 := play()
	log2, hp2 := play()
	if log1 != log2 {
		t.Fatal("identical seeds and orders produced different logs")
	}
	if hp1 != hp2 {
		t.Fatalf("identical runs diverged: hp %v vs %v", hp1, hp2)
	}
}
