package game

import "testing"

func TestParseDifficulty(t *testing.T) {
	cases := []struct {
		in      string
		want    Difficulty
		wantErr bool
	}{
		{"easy", DifficultyEasy, false},
		{"normal", DifficultyNormal, false},
		{"", DifficultyNormal, false},
		{"hard", DifficultyHard, false},
		{"nightmare", DifficultyNormal, true},
	}
	for _, c := range cases {
		got, err := ParseDifficulty(c.in)
		if (err != nil) != c.wantErr {
			t.Fatalf("ParseDifficulty(%q) err=%v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("ParseDifficulty(%q) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestCommander_PlansAlwaysValidate(t *testing.T) {
	// The Plan contract: whatever state the match is in, the returned orders
	// pass SubmitOrders against that same state. Exercise it over full games
	// on generated maps at every difficulty.
	for _, diff := range []Difficulty{DifficultyEasy, DifficultyNormal, DifficultyHard} {
		for _, seed := range []int64{1, 8, 21} {
			tb := NewTestBattle(WithGeneratedMap(seed), WithSeed(seed))
			bal := tb.Battle.Balance()
			ca := NewCommander(SideA, diff, seed+100)
			cb := NewCommander(SideB, diff, seed+200)

			for i := 0; i < bal.MaxTurns+1 && tb.Battle.Status == StatusActive; i++ {
				for _, c := range []*Commander{ca, cb} {
					o := c.Plan(tb.Terrain, tb.Battle.View(c.Side()), bal)
					if err := tb.Battle.SubmitOrders(c.Side(), o); err != nil {
						t.Fatalf("%s seed %d turn %d side %s: plan rejected: %v",
							diff, seed, tb.Battle.Turn, c.Side(), err)
					}
				}
				if err := tb.Battle.ResolveTurn(); err != nil {
					t.Fatalf("%s seed %d: %v", diff, seed, err)
				}
			}
		}
	}
}

func TestCommander_DeterministicPerSeed(t *testing.T) {
	run := func() string {
		tb := NewTestBattle(WithGeneratedMap(9), WithSeed(9))
		ca := NewCommander(SideA, DifficultyNormal, 31)
		cb := NewCommander(SideB, DifficultyNormal, 32)
		if err := tb.RunCommanders(ca, cb, tb.Battle.Balance().MaxTurns+1); err != nil {
			t.Fatal(err)
		}
		return tb.Log().Format()
	}
	if a, b := run(), run(); a != b {
		t.Fatal("identical seeds produced diverging battles")
	}
}

func TestCommander_CadenceLimitsLaunches(t *testing.T) {
	// A lone hard commander on open water with no opposition input: launches
	// must be spaced by at least the difficulty cadence.
	tb := NewTestBattle(WithOpenSea(30, 30), WithCarriers(Hex{X: 3, Y: 15}, Hex{X: 26, Y: 15}))
	bal := tb.Battle.Balance()
	c := NewCommander(SideA, DifficultyHard, 7)

	for i := 0; i < 12 && tb.Battle.Status == StatusActive; i++ {
		o := c.Plan(tb.Terrain, tb.Battle.View(SideA), bal)
		if err := tb.Battle.SubmitOrders(SideA, o); err != nil {
			t.Fatalf("turn %d: %v", tb.Battle.Turn, err)
		}
		tb.Battle.ForceResolve()
	}

	var launchTurns []int
	for _, e := range tb.Log().Filter("launch", "airborne") {
		if e.Side == "a" {
			launchTurns = append(launchTurns, e.Turn)
		}
	}
	if len(launchTurns) == 0 {
		t.Fatal("commander never launched a patrol")
	}
	for i := 1; i < len(launchTurns); i++ {
		if gap := launchTurns[i] - launchTurns[i-1]; gap < DifficultyHard.launchCadence() {
			t.Fatalf("launches on turns %d and %d, below the hard cadence", launchTurns[i-1], launchTurns[i])
		}
	}
}

func TestCommander_StrikesAtSightedCarrier(t *testing.T) {
	// Plant fresh carrier intel directly and confirm the next plan launches
	// at (or along the line toward) the contact.
	tb := NewTestBattle(WithOpenSea(30, 30), WithCarriers(Hex{X: 3, Y: 15}, Hex{X: 12, Y: 15}))
	bal := tb.Battle.Balance()
	f := tb.Force(SideA)
	f.Intel["BC1"] = &IntelEntry{Pos: Hex{X: 12, Y: 15}, HP: 100, HasHP: true, TTL: bal.IntelTTL}

	c := NewCommander(SideA, DifficultyNormal, 3)
	o := c.Plan(tb.Terrain, tb.Battle.View(SideA), bal)
	if o.LaunchTarget == nil {
		t.Fatal("commander sat on fresh carrier intel without launching")
	}
	if *o.LaunchTarget != (Hex{X: 12, Y: 15}) {
		t.Fatalf("launch target %v, want the contact at (12,15)", *o.LaunchTarget)
	}
	if err := tb.Battle.SubmitOrders(SideA, o); err != nil {
		t.Fatalf("strike plan rejected: %v", err)
	}
}

func TestClampToRange(t *testing.T) {
	origin := Hex{X: 3, Y: 15}
	near := Hex{X: 10, Y: 15}
	if got := clampToRange(origin, near, 22); got != near {
		t.Fatalf("in-range target moved to %v", got)
	}
	far := Hex{X: 29, Y: 15}
	got := clampToRange(origin, far, 10)
	if d := Distance(origin, got); d > 10 {
		t.Fatalf("clamped target %v is %d out, beyond the limit", got, d)
	}
	if Distance(got, far) >= Distance(origin, far) {
		t.Fatalf("clamp made no progress toward %v", far)
	}
}
