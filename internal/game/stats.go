package game

// SideStats aggregates one side's battle record, mined from the log.
type SideStats struct {
	Sorties       int // launches that got airborne
	Strikes       int // attack runs delivered
	DamageDealt   int // total strike damage on the enemy carrier
	DamageTaken   int // total strike damage received
	SquadronsLost int
	Recoveries    int // squadrons landed back aboard

	FirstContactTurn int // 0 = never
	FirstStrikeTurn  int // 0 = never
}

// BattleStats is the per-side rollup plus the shared match facts.
type BattleStats struct {
	A, B          SideStats
	TurnsResolved int
}

// CollectStats mines a finished (or in-progress) battle log. Everything here
// is derived; the log stays the single source of truth.
func CollectStats(log *BattleLog) BattleStats {
	var st BattleStats
	for _, e := range log.Entries() {
		side := sideStatsFor(&st, e.Side)
		switch {
		case e.Category == "turn" && e.Key == "resolved":
			st.TurnsResolved++
		case e.Category == "launch" && e.Key == "airborne":
			side.Sorties++
		case e.Category == "contact" && (e.Key == "sighted" || e.Key == "carrier_sighted"):
			if side.FirstContactTurn == 0 {
				side.FirstContactTurn = e.Turn
			}
		case e.Category == "combat" && e.Key == "strike":
			side.Strikes++
			side.DamageDealt += int(e.NumVal)
			if other := otherSideStats(&st, e.Side); other != nil {
				other.DamageTaken += int(e.NumVal)
			}
			if side.FirstStrikeTurn == 0 {
				side.FirstStrikeTurn = e.Turn
			}
		case e.Category == "combat" && e.Key == "shot_down":
			side.SquadronsLost++
		case e.Category == "recover" && e.Key == "landed":
			side.Recoveries++
		}
	}
	return st
}

func sideStatsFor(st *BattleStats, label string) *SideStats {
	switch label {
	case "a":
		return &st.A
	case "b":
		return &st.B
	default:
		return &SideStats{} // global entries aggregate nowhere
	}
}

func otherSideStats(st *BattleStats, label string) *SideStats {
	switch label {
	case "a":
		return &st.B
	case "b":
		return &st.A
	default:
		return nil
	}
}
