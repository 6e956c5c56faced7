package game

import "testing"

func TestCollectStats_EmptyLog(t *testing.T) {
	st := CollectStats(NewBattleLog())
	if st != (BattleStats{}) {
		t.Fatalf("stats from empty log: %+v", st)
	}
}

func TestCollectStats_MinesTheRightCategories(t *testing.T) {
	log := NewBattleLog()
	log.Add(1, "AC1", "a", "launch", "airborne", "ASQ1", 0)
	log.AddShared(2, "ASQ1", "a", "combat", "strike", "BC1", 24)
	log.AddShared(2, "ASQ1", "a", "combat", "aa", "ASQ1", 18)
	log.Add(2, "AC1", "a", "contact", "sighted", "BC1", 0)
	log.Add(3, "BC1", "b", "launch", "airborne", "BSQ1", 0)
	log.AddShared(4, "BSQ1", "b", "combat", "strike", "AC1", 21)
	log.AddShared(4, "BSQ1", "b", "combat", "shot_down", "BSQ1", 0)
	log.Add(5, "ASQ1", "a", "recover", "landed", "", 0)
	for turn := 1; turn <= 5; turn++ {
		log.Add(turn, "--", "--", "turn", "resolved", "", 0)
	}

	st := CollectStats(log)
	if st.TurnsResolved != 5 {
		t.Fatalf("TurnsResolved = %d, want 5", st.TurnsResolved)
	}
	if st.A.Sorties != 1 || st.B.Sorties != 1 {
		t.Fatalf("sorties A=%d B=%d, want 1/1", st.A.Sorties, st.B.Sorties)
	}
	if st.A.Strikes != 1 || st.A.DamageDealt != 24 {
		t.Fatalf("A strikes=%d dealt=%d, want 1/24", st.A.Strikes, st.A.DamageDealt)
	}
	if st.B.DamageTaken != 24 {
		t.Fatalf("B DamageTaken = %d, want 24", st.B.DamageTaken)
	}
	if st.A.DamageTaken != 21 {
		t.Fatalf("A DamageTaken = %d, want 21", st.A.DamageTaken)
	}
	if st.B.SquadronsLost != 1 {
		t.Fatalf("B SquadronsLost = %d, want 1", st.B.SquadronsLost)
	}
	if st.A.Recoveries != 1 {
		t.Fatalf("A Recoveries = %d, want 1", st.A.Recoveries)
	}
	if st.A.FirstContactTurn != 2 {
		t.Fatalf("A FirstContactTurn = %d, want 2", st.A.FirstContactTurn)
	}
	if st.A.FirstStrikeTurn != 2 || st.B.FirstStrikeTurn != 4 {
		t.Fatalf("first strikes A=%d B=%d, want 2/4", st.A.FirstStrikeTurn, st.B.FirstStrikeTurn)
	}
}

func TestCollectStats_FirstTurnsStickAtEarliest(t *testing.T) {
	log := NewBattleLog()
	log.Add(3, "ASQ1", "a", "contact", "carrier_sighted", "BC1", 0)
	log.Add(7, "ASQ1", "a", "contact", "sighted", "BSQ1", 0)
	st := CollectStats(log)
	if st.A.FirstContactTurn != 3 {
		t.Fatalf("FirstContactTurn = %d, want the earliest sighting", st.A.FirstContactTurn)
	}
}

func TestCollectStats_MatchesLiveBattle(t *testing.T) {
	tb := NewTestBattle(WithOpenSea(20, 20), WithSeed(5),
		WithCarriers(Hex{X: 3, Y: 3}, Hex{X: 4, Y: 3}))
	if err := tb.RunTurn(Orders{LaunchTarget: hexPtr(4, 3)}, Orders{}); err != nil {
		t.Fatal(err)
	}

	st := CollectStats(tb.Log())
	if st.A.Sorties != 1 {
		t.Fatalf("A sorties = %d after one launch", st.A.Sorties)
	}
	if st.A.Strikes != 1 {
		t.Fatalf("A strikes = %d after a point-blank launch", st.A.Strikes)
	}
	dealt := tb.Force(SideB).Carrier.MaxHP - tb.Force(SideB).Carrier.HP
	if st.A.DamageDealt != dealt {
		t.Fatalf("DamageDealt %d disagrees with the carrier's missing hp %d", st.A.DamageDealt, dealt)
	}
}
