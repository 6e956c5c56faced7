package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/Garsondee/Flattop/internal/game"
)

type runStats struct {
	runIndex int
	seed     int64
	mapSeed  int64

	outcome     string
	reason      string
	endTurn     int
	finalHPA    int
	finalHPB    int
	invariants  int
	battleStats game.BattleStats
}

func main() {
	var runs int
	var turns int
	var seedBase int64
	var seedStep int64
	var mapSeed int64
	var diffA string
	var diffB string

	flag.IntVar(&runs, "runs", 5, "number of headless battle runs")
	flag.IntVar(&turns, "turns", 30, "turn limit per run")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.Int64Var(&mapSeed, "map-seed", 0, "fixed map seed for all runs (0 = map follows the run seed)")
	flag.StringVar(&diffA, "difficulty-a", "normal", "side A commander difficulty (easy|normal|hard)")
	flag.StringVar(&diffB, "difficulty-b", "normal", "side B commander difficulty (easy|normal|hard)")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if turns <= 0 {
		fmt.Println("error: -turns must be > 0")
		return
	}
	da, err := game.ParseDifficulty(diffA)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	db, err := game.ParseDifficulty(diffB)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}

	fmt.Printf("=== Headless Battle Report ===\n")
	fmt.Printf("runs=%d turns=%d seed_base=%d seed_step=%d map_seed=%d a=%s b=%s\n\n",
		runs, turns, seedBase, seedStep, mapSeed, da, db)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		ms := mapSeed
		if ms == 0 {
			ms = seed
		}
		stats := runDuel(i+1, seed, ms, turns, da, db)
		all = append(all, stats)
		printRun(stats)
	}

	printAggregate(all)
}

func runDuel(runIndex int, seed, mapSeed int64, turns int, da, db game.Difficulty) runStats {
	bal := game.DefaultBalance()
	bal.MaxTurns = turns

	tb := game.NewTestBattle(
		game.WithBalance(bal),
		game.WithGeneratedMap(mapSeed),
		game.WithSeed(seed),
	)
	ca := game.NewCommander(game.SideA, da, seed*2+1)
	cb := game.NewCommander(game.SideB, db, seed*2+2)
	if err := tb.RunCommanders(ca, cb, turns+1); err != nil {
		fmt.Printf("run %d aborted: %v\n", runIndex, err)
	}

	b := tb.Battle
	rs := runStats{
		runIndex:    runIndex,
		seed:        seed,
		mapSeed:     mapSeed,
		finalHPA:    b.Force(game.SideA).Carrier.HP,
		finalHPB:    b.Force(game.SideB).Carrier.HP,
		invariants:  b.Log.CountCategory("match", "invariant"),
		battleStats: game.CollectStats(b.Log),
	}
	if b.Outcome != nil {
		rs.outcome = b.Outcome.Result.String()
		rs.reason = b.Outcome.Description
		rs.endTurn = b.Outcome.Turn
	}
	return rs
}

func printRun(rs runStats) {
	st := rs.battleStats
	fmt.Printf("--- Run %d (seed=%d map_seed=%d) ---\n", rs.runIndex, rs.seed, rs.mapSeed)
	fmt.Printf("outcome: %s (%s) end_turn=%d hp_a=%d hp_b=%d\n",
		rs.outcome, rs.reason, rs.endTurn, rs.finalHPA, rs.finalHPB)
	fmt.Printf("phase_markers: first_contact_a=%s first_contact_b=%s first_strike_a=%s first_strike_b=%s\n",
		turnString(st.A.FirstContactTurn), turnString(st.B.FirstContactTurn),
		turnString(st.A.FirstStrikeTurn), turnString(st.B.FirstStrikeTurn))
	fmt.Printf("side_a: sorties=%d strikes=%d dealt=%d taken=%d lost=%d recovered=%d\n",
		st.A.Sorties, st.A.Strikes, st.A.DamageDealt, st.A.DamageTaken, st.A.SquadronsLost, st.A.Recoveries)
	fmt.Printf("side_b: sorties=%d strikes=%d dealt=%d taken=%d lost=%d recovered=%d\n",
		st.B.Sorties, st.B.Strikes, st.B.DamageDealt, st.B.DamageTaken, st.B.SquadronsLost, st.B.Recoveries)
	if rs.invariants > 0 {
		fmt.Printf("invariant_events=%d\n", rs.invariants)
	}
	fmt.Println()
}

func printAggregate(all []runStats) {
	tally := map[string]int{}
	totalTurns := 0
	totalSorties := 0
	totalStrikes := 0
	totalDamage := 0
	totalLost := 0
	totalInvariants := 0
	contactTurns := make([]int, 0, len(all)*2)
	strikeTurns := make([]int, 0, len(all)*2)

	for _, rs := range all {
		tally[rs.outcome]++
		totalTurns += rs.battleStats.TurnsResolved
		totalSorties += rs.battleStats.A.Sorties + rs.battleStats.B.Sorties
		totalStrikes += rs.battleStats.A.Strikes + rs.battleStats.B.Strikes
		totalDamage += rs.battleStats.A.DamageDealt + rs.battleStats.B.DamageDealt
		totalLost += rs.battleStats.A.SquadronsLost + rs.battleStats.B.SquadronsLost
		totalInvariants += rs.invariants
		for _, t := range []int{rs.battleStats.A.FirstContactTurn, rs.battleStats.B.FirstContactTurn} {
			if t > 0 {
				contactTurns = append(contactTurns, t)
			}
		}
		for _, t := range []int{rs.battleStats.A.FirstStrikeTurn, rs.battleStats.B.FirstStrikeTurn} {
			if t > 0 {
				strikeTurns = append(strikeTurns, t)
			}
		}
	}

	fmt.Println("=== Aggregate ===")
	fmt.Printf("runs=%d\n", len(all))
	fmt.Printf("outcomes: %s\n", formatTally(tally))
	fmt.Printf("avg_per_run: turns=%.1f sorties=%.1f strikes=%.1f damage=%.1f squadrons_lost=%.1f\n",
		avg(totalTurns, len(all)), avg(totalSorties, len(all)), avg(totalStrikes, len(all)),
		avg(totalDamage, len(all)), avg(totalLost, len(all)))
	fmt.Printf("phase_marker_avg_turns: first_contact=%s first_strike=%s\n",
		avgTurnString(contactTurns), avgTurnString(strikeTurns))
	fmt.Printf("invariant_events_total=%d\n", totalInvariants)
}

// formatTally renders outcome counts in a stable order.
func formatTally(tally map[string]int) string {
	order := []string{"side_a_victory", "side_b_victory", "draw", "none"}
	parts := make([]string, 0, len(order))
	for _, k := range order {
		if n := tally[k]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", k, n))
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, " ")
}

func turnString(t int) string {
	if t <= 0 {
		return "n/a"
	}
	return fmt.Sprintf("%d", t)
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTurnString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}
