package game

import "testing"

func TestDamageRoll_WithinVarianceBand(t *testing.T) {
	bal := DefaultBalance()
	cr := NewCombatResolver(7, bal)
	lo, hi := 20, 30 // 25 ± round(25×0.20)
	seenLo, seenHi := false, false
	for i := 0; i < 2000; i++ {
		d := cr.damageRoll(bal.AttackBase)
		if d < lo || d > hi {
			t.Fatalf("roll %d outside [%d,%d]", d, lo, hi)
		}
		if d == lo {
			seenLo = true
		}
		if d == hi {
			seenHi = true
		}
	}
	if !seenLo || !seenHi {
		t.Fatalf("variance band endpoints never rolled (lo=%v hi=%v); bounds are inclusive", seenLo, seenHi)
	}
}

func TestScaledDamage_BoundsAndZeroHP(t *testing.T) {
	bal := DefaultBalance()
	cr := NewCombatResolver(3, bal)
	sq := &Squadron{ID: "ASQ1", HP: 40, MaxHP: 40}

	for i := 0; i < 500; i++ {
		d := cr.ScaledDamage(sq, bal.AttackBase)
		if d < 0 || d > 30 { // round(1.2×25)
			t.Fatalf("scaled damage %d outside [0,30]", d)
		}
	}

	sq.HP = 0
	for i := 0; i < 100; i++ {
		if d := cr.ScaledDamage(sq, bal.AttackBase); d != 0 {
			t.Fatalf("dead attacker dealt %d damage", d)
		}
	}
}

func TestScaledDamage_HalvedAtHalfHP(t *testing.T) {
	bal := DefaultBalance()
	cr := NewCombatResolver(9, bal)
	sq := &Squadron{ID: "ASQ1", HP: 20, MaxHP: 40}
	for i := 0; i < 500; i++ {
		if d := cr.ScaledDamage(sq, bal.AttackBase); d > 15 {
			t.Fatalf("half-strength attacker dealt %d, cap is 15", d)
		}
	}
}

func TestScaledAA_UsesSnapshotNotCurrentHP(t *testing.T) {
	bal := DefaultBalance()
	cr := NewCombatResolver(5, bal)
	c := &Carrier{ID: "BC1", HP: 1, MaxHP: 100}

	// The snapshot says full strength; the current hp of 1 must not matter.
	for i := 0; i < 200; i++ {
		if d := cr.ScaledAA(c, 100, bal.AABase); d < 16 { // min roll at full scale
			t.Fatalf("AA from full-hp snapshot rolled %d, below the minimum band", d)
		}
	}
	for i := 0; i < 100; i++ {
		if d := cr.ScaledAA(c, 0, bal.AABase); d != 0 {
			t.Fatalf("AA from zero-hp snapshot dealt %d", d)
		}
	}
}

func TestResolveStrike_FloorsAndTransitionsFlags(t *testing.T) {
	bal := DefaultBalance()
	cr := NewCombatResolver(11, bal)
	sq := &Squadron{ID: "ASQ1", HP: 5, MaxHP: 40}
	c := &Carrier{ID: "BC1", HP: 4, MaxHP: 100}

	ex := cr.ResolveStrike(sq, c, c.HP)
	if c.HP < 0 || sq.HP < 0 {
		t.Fatalf("hp went negative: carrier %d squadron %d", c.HP, sq.HP)
	}
	if (c.HP == 0) != ex.CarrierSunk {
		t.Fatalf("CarrierSunk flag %v disagrees with hp %d", ex.CarrierSunk, c.HP)
	}
	if (sq.HP == 0) != ex.SquadronDown {
		t.Fatalf("SquadronDown flag %v disagrees with hp %d", ex.SquadronDown, sq.HP)
	}
}

func TestResolveStrike_DeterministicPerSeed(t *testing.T) {
	bal := DefaultBalance()
	run := func() []Exchange {
		cr := NewCombatResolver(42, bal)
		var out []Exchange
		sq := &Squadron{ID: "ASQ1", HP: 40, MaxHP: 40}
		c := &Carrier{ID: "BC1", HP: 100, MaxHP: 100}
		for i := 0; i < 6; i++ {
			out = append(out, cr.ResolveStrike(sq, c, c.HP))
		}
		return out
	}
	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("exchange %d differs across identical seeds: %+v vs %+v", i, a[i], b[i])
		}
	}
}
