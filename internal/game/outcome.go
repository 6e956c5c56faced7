package game

import "fmt"

// MatchStatus is the battle lifecycle state.
type MatchStatus int

const (
	StatusWaiting MatchStatus = iota // created, not yet begun
	StatusActive                     // turns resolving
	StatusOver                       // terminal
)

func (s MatchStatus) String() string {
	switch s {
	case StatusWaiting:
		return "waiting"
	case StatusActive:
		return "active"
	case StatusOver:
		return "over"
	default:
		return "unknown"
	}
}

// MatchResult names the winner, if any.
type MatchResult int

const (
	ResultNone MatchResult = iota
	ResultSideA
	ResultSideB
	ResultDraw
)

func (r MatchResult) String() string {
	switch r {
	case ResultSideA:
		return "side_a_victory"
	case ResultSideB:
		return "side_b_victory"
	case ResultDraw:
		return "draw"
	default:
		return "none"
	}
}

// WinnerResult returns the result value for a win by the given side.
func WinnerResult(s Side) MatchResult {
	if s == SideA {
		return ResultSideA
	}
	return ResultSideB
}

// For translates the result into one side's perspective: "win", "lose",
// "draw", or "" while the match is undecided.
func (r MatchResult) For(s Side) string {
	switch r {
	case ResultDraw:
		return "draw"
	case ResultNone:
		return ""
	}
	if r == WinnerResult(s) {
		return "win"
	}
	return "lose"
}

// OutcomeReason records why a finished match ended, with the closing hp
// totals for the report tooling.
type OutcomeReason struct {
	Result      MatchResult
	Turn        int
	AHP         int
	BHP         int
	Description string // snake_case, e.g. "carrier_sunk", "turn_limit_hp_advantage"
}

func (o OutcomeReason) String() string {
	return fmt.Sprintf("%s (%s, turn %d, hp A=%d B=%d)",
		o.Result, o.Description, o.Turn, o.AHP, o.BHP)
}

// DetermineOutcome evaluates the end conditions after one resolved turn.
// ok is false while the match continues. Carrier destruction ends the match
// immediately; otherwise the turn limit decides on remaining hp.
func DetermineOutcome(turn int, a, b *Force, bal Balance) (OutcomeReason, bool) {
	o := OutcomeReason{Turn: turn, AHP: a.Carrier.HP, BHP: b.Carrier.HP}

	switch {
	case a.Carrier.HP <= 0 && b.Carrier.HP <= 0:
		o.Result = ResultDraw
		o.Description = "mutual_destruction"
		return o, true
	case a.Carrier.HP <= 0:
		o.Result = ResultSideB
		o.Description = "carrier_sunk"
		return o, true
	case b.Carrier.HP <= 0:
		o.Result = ResultSideA
		o.Description = "carrier_sunk"
		return o, true
	}

	if turn < bal.MaxTurns {
		return OutcomeReason{}, false
	}
	switch {
	case a.Carrier.HP > b.Carrier.HP:
		o.Result = ResultSideA
		o.Description = "turn_limit_hp_advantage"
	case b.Carrier.HP > a.Carrier.HP:
		o.Result = ResultSideB
		o.Description = "turn_limit_hp_advantage"
	default:
		o.Result = ResultDraw
		o.Description = "turn_limit_draw"
	}
	return o, true
}

// ForfeitOutcome builds the outcome for a side abandoning the match.
func ForfeitOutcome(turn int, a, b *Force, leaver Side) OutcomeReason {
	return OutcomeReason{
		Result:      WinnerResult(leaver.Opponent()),
		Turn:        turn,
		AHP:         a.Carrier.HP,
		BHP:         b.Carrier.HP,
		Description: "forfeit",
	}
}
