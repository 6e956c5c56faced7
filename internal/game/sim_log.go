package game

import (
	"fmt"
	"strings"
)

// BattleLogEntry is one recorded event during a battle.
type BattleLogEntry struct {
	Turn     int
	Unit     string  // unit id e.g. "ASQ1", "BC1", or "--" for global events
	Side     string  // "a", "b", or "--"
	Category string  // order, move, launch, contact, combat, recover, turn, match
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks

	// Shared marks events both sides directly experience (combat exchanges,
	// match boundaries); per-side log slices include them regardless of Side.
	Shared bool
}

// String formats the entry as a fixed-width log line.
//
//	[T=004] ASQ1 combat    strike           hit BC1 for 23
func (e BattleLogEntry) String() string {
	return fmt.Sprintf("[T=%03d] %-5s %-9s %-16s %s",
		e.Turn, e.Unit, e.Category, e.Key, e.Value)
}

// BattleLog collects structured events during a battle. It is the kernel's
// only output channel besides state itself: tests, the report tool, and the
// per-side views all mine it. Unbounded and machine-readable.
type BattleLog struct {
	entries []BattleLogEntry
}

// NewBattleLog creates an empty BattleLog.
func NewBattleLog() *BattleLog {
	return &BattleLog{}
}

// Add records a new entry.
func (bl *BattleLog) Add(turn int, unit, side, category, key, value string, numVal float64) {
	bl.entries = append(bl.entries, BattleLogEntry{
		Turn:     turn,
		Unit:     unit,
		Side:     side,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// AddShared records an entry visible to both sides' log slices.
func (bl *BattleLog) AddShared(turn int, unit, side, category, key, value string, numVal float64) {
	bl.entries = append(bl.entries, BattleLogEntry{
		Turn:     turn,
		Unit:     unit,
		Side:     side,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
		Shared:   true,
	})
}

// Entries returns all recorded entries.
func (bl *BattleLog) Entries() []BattleLogEntry {
	return bl.entries
}

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (bl *BattleLog) Filter(category, key string) []BattleLogEntry {
	var out []BattleLogEntry
	for _, e := range bl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterUnit returns entries for a specific unit id.
func (bl *BattleLog) FilterUnit(id string) []BattleLogEntry {
	var out []BattleLogEntry
	for _, e := range bl.entries {
		if e.Unit == id {
			out = append(out, e)
		}
	}
	return out
}

// FilterTurnRange returns entries within [fromTurn, toTurn] inclusive.
func (bl *BattleLog) FilterTurnRange(fromTurn, toTurn int) []BattleLogEntry {
	var out []BattleLogEntry
	for _, e := range bl.entries {
		if e.Turn >= fromTurn && e.Turn <= toTurn {
			out = append(out, e)
		}
	}
	return out
}

// SideSlice returns the entries a given side is entitled to read: its own
// events, global events, and shared combat/match events.
func (bl *BattleLog) SideSlice(side Side) []BattleLogEntry {
	label := side.Label()
	var out []BattleLogEntry
	for _, e := range bl.entries {
		if e.Side == label || e.Side == "--" || e.Shared {
			out = append(out, e)
		}
	}
	return out
}

// CountCategory returns how many entries match the given category and key.
func (bl *BattleLog) CountCategory(category, key string) int {
	return len(bl.Filter(category, key))
}

// LastOf returns the most recent entry matching category+key, or false if none.
func (bl *BattleLog) LastOf(category, key string) (BattleLogEntry, bool) {
	entries := bl.Filter(category, key)
	if len(entries) == 0 {
		return BattleLogEntry{}, false
	}
	return entries[len(entries)-1], true
}

// HasEntry returns true if at least one entry matches category, key, and
// value substring.
func (bl *BattleLog) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range bl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		if valueSubstr != "" && !strings.Contains(e.Value, valueSubstr) {
			continue
		}
		return true
	}
	return false
}

// Format returns the full log as a single string for t.Log output.
func (bl *BattleLog) Format() string {
	var sb strings.Builder
	for _, e := range bl.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// FormatRange returns a log string filtered to a turn range.
func (bl *BattleLog) FormatRange(fromTurn, toTurn int) string {
	var sb strings.Builder
	for _, e := range bl.FilterTurnRange(fromTurn, toTurn) {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
