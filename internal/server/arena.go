package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNoSuchMatch rejects a reference to a match id the arena does not hold.
var ErrNoSuchMatch = errors.New("no such match")

// Arena is the keyed registry of live sessions. Sessions enter through
// CreateMatch and leave through Remove once idle; everything in between goes
// through Get. The arena lock covers the map only — battle state is the
// session's own business.
type Arena struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	cfg     Config
	metrics *Metrics
	lobby   *Lobby
}

// MatchInfo is one lobby/API listing row.
type MatchInfo struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	Joinable bool   `json:"joinable"`
}

// NewArena creates an empty arena. lobby may be nil (tests, report tool).
func NewArena(cfg Config, m *Metrics, lobby *Lobby) *Arena {
	return &Arena{
		sessions: make(map[string]*Session),
		cfg:      cfg,
		metrics:  m,
		lobby:    lobby,
	}
}

// CreateMatch builds a session on a freshly generated map and seats the
// creator on side A. vsBot also fills side B with the configured CPU
// commander, so the battle begins immediately. seed 0 means "pick one".
func (a *Arena) CreateMatch(name string, vsBot bool, seed int64) (JoinInfo, error) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	id := uuid.NewString()
	s := newSession(id, seed, a.cfg, a.metrics, a.Remove)

	a.mu.Lock()
	a.sessions[id] = s
	a.mu.Unlock()
	a.metrics.IncMatchesCreated()

	info, err := s.Join(name)
	if err != nil {
		a.Remove(id)
		return JoinInfo{}, err
	}
	if vsBot {
		s.SeatBot(a.cfg.Difficulty())
	}
	Log.Infow("match created", "match", id, "seed", seed, "vs_bot", vsBot)
	a.announce()
	return info, nil
}

// Join seats a named player in an existing match.
func (a *Arena) Join(matchID, name string) (JoinInfo, error) {
	s, ok := a.Get(matchID)
	if !ok {
		return JoinInfo{}, ErrNoSuchMatch
	}
	info, err := s.Join(name)
	if err != nil {
		return JoinInfo{}, err
	}
	a.announce()
	return info, nil
}

// Get looks a session up by id.
func (a *Arena) Get(id string) (*Session, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	s, ok := a.sessions[id]
	return s, ok
}

// Remove drops a session from the registry and shuts it down.
func (a *Arena) Remove(id string) {
	a.mu.Lock()
	s, ok := a.sessions[id]
	delete(a.sessions, id)
	a.mu.Unlock()
	if ok {
		s.shutdown()
		Log.Infow("match removed", "match", id)
		a.announce()
	}
}

// List returns the current listings, joinable matches first by construction
// of the lobby's interest — but unsorted; the client sorts.
func (a *Arena) List() []MatchInfo {
	a.mu.RLock()
	sessions := make([]*Session, 0, len(a.sessions))
	for _, s := range a.sessions {
		sessions = append(sessions, s)
	}
	a.mu.RUnlock()

	out := make([]MatchInfo, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, MatchInfo{
			ID:       s.ID,
			Status:   s.Status().String(),
			Joinable: s.Joinable(),
		})
	}
	return out
}

// Len returns the number of live sessions.
func (a *Arena) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.sessions)
}

func (a *Arena) announce() {
	if a.lobby != nil {
		a.lobby.Announce(a.List())
	}
}

// --- HTTP API ---

type createRequest struct {
	Name  string `json:"name"`
	VsBot bool   `json:"vs_bot"`
	Seed  int64  `json:"seed"`
}

type joinRequest struct {
	MatchID string `json:"match_id"`
	Name    string `json:"name"`
}

// HandleMatches serves GET /api/matches (listing) and POST /api/matches
// (create; responds with the creator's JoinInfo).
func (a *Arena) HandleMatches(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, a.List())
	case http.MethodPost:
		var req createRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request body", http.StatusBadRequest)
			return
		}
		if req.Name == "" {
			http.Error(w, "name is required", http.StatusBadRequest)
			return
		}
		info, err := a.CreateMatch(req.Name, req.VsBot, req.Seed)
		if err != nil {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		writeJSON(w, http.StatusCreated, info)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleJoin serves POST /api/matches/join.
func (a *Arena) HandleJoin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req joinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request body", http.StatusBadRequest)
		return
	}
	if req.MatchID == "" || req.Name == "" {
		http.Error(w, "match_id and name are required", http.StatusBadRequest)
		return
	}
	info, err := a.Join(req.MatchID, req.Name)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, info)
	case err == ErrNoSuchMatch:
		http.Error(w, err.Error(), http.StatusNotFound)
	case err == ErrMatchFull:
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// HandleMetricsz serves the counters snapshot.
func (a *Arena) HandleMetricsz(w http.ResponseWriter, r *http.Request) {
	snap := a.metrics.Snapshot()
	snap["live_matches"] = int64(a.Len())
	writeJSON(w, http.StatusOK, snap)
}

// HandleHealthz is the liveness probe.
func HandleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
