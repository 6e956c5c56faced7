package server

import (
	"errors"

	"github.com/Garsondee/Flattop/internal/game"
)

// Bot drives one seat of a session with a CPU commander. It lives on the
// session's broadcast signal: every state change wakes it, it plans from the
// same SideView a remote player would get, and it submits through the same
// session path. No fog bypass, no kernel shortcuts.
type Bot struct {
	session *Session
	side    game.Side
	cmd     *game.Commander

	wake chan struct{}
	stop chan struct{}
}

func newBot(s *Session, side game.Side, diff game.Difficulty, seed int64) *Bot {
	return &Bot{
		session: s,
		side:    side,
		cmd:     game.NewCommander(side, diff, seed),
		wake:    make(chan struct{}, 1),
		stop:    make(chan struct{}),
	}
}

// notify wakes the bot without blocking; a pending wake coalesces.
func (b *Bot) notify() {
	select {
	case b.wake <- struct{}{}:
	default:
	}
}

// halt stops the run loop. Idempotency is the session shutdown's problem;
// it calls halt once.
func (b *Bot) halt() {
	close(b.stop)
}

// Run is the bot's goroutine body.
func (b *Bot) Run() {
	for {
		select {
		case <-b.stop:
			return
		case <-b.wake:
			b.playTurn()
		}
	}
}

// playTurn plans and submits orders for the current turn, once.
func (b *Bot) playTurn() {
	s := b.session

	s.mu.Lock()
	if s.battle.Status != game.StatusActive || s.battle.OrdersStaged(b.side) {
		s.mu.Unlock()
		return
	}
	tm := s.battle.Terrain
	bal := s.battle.Balance()
	view := s.battle.View(b.side)
	s.mu.Unlock()

	o := b.cmd.Plan(tm, view, bal)
	if err := s.submitSide(b.side, o); err != nil {
		// A ConflictError just means the turn moved under us; the next wake
		// replans. Anything else is a commander bug worth hearing about.
		var conflict *game.ConflictError
		if !errors.As(err, &conflict) {
			Log.Errorw("bot orders rejected", "match", s.ID, "side", b.side.Label(), "err", err)
		}
	}
}
