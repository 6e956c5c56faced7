package game

import "fmt"

// Orders is one side's complete instruction set for a single turn. Both
// fields are optional; an empty Orders is the legal "hold everything" order
// the timeout policy submits for an absent player.
type Orders struct {
	// Turn binds the orders to the turn they target. Stale or future turns
	// are rejected, never silently applied to whatever turn is current.
	Turn int `json:"turn"`

	CarrierTarget *Hex `json:"carrier_target,omitempty"`
	LaunchTarget  *Hex `json:"launch_target,omitempty"`
}

// ValidationError rejects one malformed or currently-impossible order. The
// submitting side may correct and resubmit; nothing was mutated.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid order: " + e.Reason
}

func validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// ConflictError rejects orders bound to a turn that is not the current one —
// typically a transport retry arriving after the turn already resolved.
type ConflictError struct {
	Got  int // turn the orders targeted
	Want int // turn currently accepting orders
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("orders target turn %d but turn %d is current", e.Got, e.Want)
}

// InvariantError reports a state the candidate filtering should have made
// unreachable, such as a move resolving onto an illegal cell. Tests fail loud
// on it; production paths refuse the move and log it.
type InvariantError struct {
	Detail string
}

func (e *InvariantError) Error() string {
	return "invariant violated: " + e.Detail
}
