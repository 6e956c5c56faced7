package server

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Garsondee/Flattop/internal/game"
)

// ErrBadToken rejects a request whose token matches no seat in the session.
var ErrBadToken = errors.New("unknown seat token")

// ErrMatchFull rejects a join when both seats are taken.
var ErrMatchFull = errors.New("match is full")

// seat is one side's player binding. A seat exists from join until the session
// dies; the client pointer tracks the live socket, nil while disconnected.
type seat struct {
	taken  bool
	name   string
	token  string
	isBot  bool
	client *client
}

// Session owns one battle. Every mutation of the battle goes through the
// session mutex; the kernel itself is single-threaded by contract. Sessions
// are created by the Arena and removed by it when they go idle.
type Session struct {
	ID   string
	Seed int64

	mu      sync.Mutex
	battle  *game.Battle
	seats   [2]seat
	bot     *Bot
	metrics *Metrics
	timeout time.Duration
	timer   *time.Timer
	onIdle  func(id string) // arena removal callback, called outside the lock
}

// JoinInfo is what a player needs to take their seat: which side they play
// and the token that authenticates every later request.
type JoinInfo struct {
	MatchID string    `json:"match_id"`
	Side    game.Side `json:"-"`
	You     string    `json:"side"`
	Token   string    `json:"token"`
	Turn    int       `json:"turn"`
}

func newSession(id string, seed int64, cfg Config, m *Metrics, onIdle func(string)) *Session {
	tm := game.GenerateMap(cfg.Balance, seed)
	return &Session{
		ID:      id,
		Seed:    seed,
		battle:  game.NewBattle(tm, cfg.Balance, seed),
		metrics: m,
		timeout: cfg.TurnTimeout(),
		onIdle:  onIdle,
	}
}

// Join seats a named player on the first open side. When the second seat
// fills, the battle begins and both seats get their opening state.
func (s *Session) Join(name string) (JoinInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, side := range []game.Side{game.SideA, game.SideB} {
		if s.seats[side].taken {
			continue
		}
		s.seats[side] = seat{taken: true, name: name, token: uuid.NewString()}
		info := JoinInfo{
			MatchID: s.ID,
			Side:    side,
			You:     side.Label(),
			Token:   s.seats[side].token,
		}
		s.beginIfSeatedLocked()
		info.Turn = s.battle.Turn
		Log.Infow("player joined", "match", s.ID, "side", side.Label(), "name", name)
		return info, nil
	}
	return JoinInfo{}, ErrMatchFull
}

// SeatBot fills side B with an in-process commander and begins the battle.
// Solo-match path; call right after the creating player joins.
func (s *Session) SeatBot(diff game.Difficulty) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seats[game.SideB].taken {
		return
	}
	s.seats[game.SideB] = seat{taken: true, name: "cpu-" + diff.String(), isBot: true}
	s.bot = newBot(s, game.SideB, diff, s.Seed+1)
	go s.bot.Run()
	s.beginIfSeatedLocked()
	Log.Infow("bot seated", "match", s.ID, "difficulty", diff.String())
}

func (s *Session) beginIfSeatedLocked() {
	if s.battle.Status != game.StatusWaiting {
		return
	}
	if !s.seats[game.SideA].taken || !s.seats[game.SideB].taken {
		return
	}
	s.battle.Begin()
	s.broadcastLocked()
}

// Authenticate resolves a seat token to its side.
func (s *Session) Authenticate(token string) (game.Side, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sideForTokenLocked(token)
}

func (s *Session) sideForTokenLocked(token string) (game.Side, bool) {
	if token == "" {
		return 0, false
	}
	for _, side := range []game.Side{game.SideA, game.SideB} {
		if s.seats[side].taken && s.seats[side].token == token {
			return side, true
		}
	}
	return 0, false
}

// SubmitOrders stages one seat's orders. When the stage completes the pair,
// the turn resolves and every seat receives the new state.
func (s *Session) SubmitOrders(token string, o game.Orders) error {
	s.mu.Lock()
	side, ok := s.sideForTokenLocked(token)
	if !ok {
		s.mu.Unlock()
		s.metrics.IncOrdersRejected()
		return ErrBadToken
	}
	err := s.submitSideLocked(side, o)
	s.mu.Unlock()
	return err
}

// submitSide is the bot's entry: it is already trusted for its side.
func (s *Session) submitSide(side game.Side, o game.Orders) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitSideLocked(side, o)
}

func (s *Session) submitSideLocked(side game.Side, o game.Orders) error {
	if err := s.battle.SubmitOrders(side, o); err != nil {
		s.metrics.IncOrdersRejected()
		return err
	}
	if s.battle.Ready() {
		s.resolveLocked(false)
		return nil
	}
	s.armTimeoutLocked()
	return nil
}

// resolveLocked advances the turn and fans the results out.
func (s *Session) resolveLocked(forced bool) {
	if forced {
		s.battle.ForceResolve()
	} else if err := s.battle.ResolveTurn(); err != nil {
		return
	}
	s.metrics.IncTurnsResolved()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.battle.Status == game.StatusOver {
		s.metrics.IncMatchesEnded()
		Log.Infow("match over", "match", s.ID, "outcome", s.battle.Outcome.String())
	}
	s.broadcastLocked()
}

// armTimeoutLocked starts the force-resolve clock when the first side of a
// turn stages. The captured turn number keeps a late fire from touching a
// turn that already resolved.
func (s *Session) armTimeoutLocked() {
	if s.timeout <= 0 || s.timer != nil {
		return
	}
	turn := s.battle.Turn
	s.timer = time.AfterFunc(s.timeout, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.timer = nil
		if s.battle.Status != game.StatusActive || s.battle.Turn != turn {
			return
		}
		Log.Warnw("turn timeout, force-resolving", "match", s.ID, "turn", turn)
		s.resolveLocked(true)
	})
}

// View returns the per-side snapshot the token is entitled to.
func (s *Session) View(token string) (game.SideView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	side, ok := s.sideForTokenLocked(token)
	if !ok {
		return game.SideView{}, ErrBadToken
	}
	return s.battle.View(side), nil
}

// Status returns the battle lifecycle state.
func (s *Session) Status() game.MatchStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.battle.Status
}

// Joinable reports whether a seat is still open.
func (s *Session) Joinable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.seats[game.SideA].taken || !s.seats[game.SideB].taken
}

// attach binds a live socket to its seat and sends the current state.
func (s *Session) attach(c *client) {
	s.mu.Lock()
	old := s.seats[c.side].client
	s.seats[c.side].client = c
	c.sendState(s.battle.View(c.side))
	s.mu.Unlock()
	if old != nil {
		old.close() // one socket per seat; the newer connection wins
	}
}

// detach drops a dead socket. A mid-match disconnect forfeits; the opponent
// should not be held hostage by a vanished player.
func (s *Session) detach(c *client) {
	s.mu.Lock()
	if s.seats[c.side].client != c {
		s.mu.Unlock()
		return
	}
	s.seats[c.side].client = nil
	if s.battle.Status == game.StatusActive {
		Log.Infow("seat disconnected mid-match, forfeiting", "match", s.ID, "side", c.side.Label())
		s.battle.Forfeit(c.side)
		s.metrics.IncMatchesEnded()
		s.broadcastLocked()
	}
	idle := s.idleLocked()
	s.mu.Unlock()
	if idle && s.onIdle != nil {
		s.onIdle(s.ID)
	}
}

// Leave is the polite counterpart of a disconnect: the same forfeit, taken
// deliberately through the protocol.
func (s *Session) Leave(token string) error {
	s.mu.Lock()
	side, ok := s.sideForTokenLocked(token)
	if !ok {
		s.mu.Unlock()
		return ErrBadToken
	}
	if s.battle.Status == game.StatusActive {
		s.battle.Forfeit(side)
		s.metrics.IncMatchesEnded()
		s.broadcastLocked()
	}
	idle := s.idleLocked()
	s.mu.Unlock()
	if idle && s.onIdle != nil {
		s.onIdle(s.ID)
	}
	return nil
}

func (s *Session) idleLocked() bool {
	if s.battle.Status == game.StatusActive || s.battle.Status == game.StatusWaiting {
		return false
	}
	return s.seats[game.SideA].client == nil && s.seats[game.SideB].client == nil
}

// broadcastLocked pushes each seat its own view and wakes the bot.
func (s *Session) broadcastLocked() {
	for _, side := range []game.Side{game.SideA, game.SideB} {
		if c := s.seats[side].client; c != nil {
			c.sendState(s.battle.View(side))
		}
	}
	if s.bot != nil {
		s.bot.notify()
	}
}

// shutdown stops the bot and closes any live sockets. Arena removal path.
func (s *Session) shutdown() {
	s.mu.Lock()
	bot := s.bot
	var clients []*client
	for _, side := range []game.Side{game.SideA, game.SideB} {
		if c := s.seats[side].client; c != nil {
			clients = append(clients, c)
			s.seats[side].client = nil
		}
	}
	s.mu.Unlock()
	if bot != nil {
		bot.halt()
	}
	for _, c := range clients {
		c.close()
	}
}
