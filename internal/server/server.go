// Package server exposes battles over HTTP and streams their events over
// websockets. Every battle is guarded by its own mutex; the combat core
// itself is single-threaded.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"squadtactics/internal/combat"
	"squadtactics/internal/config"
	"squadtactics/internal/grid"
	"squadtactics/internal/logging"
	"squadtactics/internal/session"
	"squadtactics/internal/util"
)

// Match is one live battle plus its event subscribers.
type Match struct {
	ID     string
	Seed   int64
	mu     sync.Mutex
	battle *combat.Battle
	events *hub
}

type Server struct {
	Store session.Store[*Match]
	// Encounter returns a fresh encounter for every new battle.
	Encounter func() *config.Encounter
	// Pace is the delay between enemy steps when a whole enemy phase is run.
	Pace   time.Duration
	Logger *zap.Logger
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

func (s *Server) Routes() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/api/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/battles").Subrouter()
	api.HandleFunc("", s.handleCreate).Methods(http.MethodPost)
	api.HandleFunc("/{id}", s.handleState).Methods(http.MethodGet)
	api.HandleFunc("/{id}", s.handleDelete).Methods(http.MethodDelete)
	api.HandleFunc("/{id}/select", s.command(selectCmd)).Methods(http.MethodPost)
	api.HandleFunc("/{id}/move", s.command(moveCmd)).Methods(http.MethodPost)
	api.HandleFunc("/{id}/attack", s.command(attackCmd)).Methods(http.MethodPost)
	api.HandleFunc("/{id}/ability", s.command(abilityCmd)).Methods(http.MethodPost)
	api.HandleFunc("/{id}/end-turn", s.command(endTurnCmd)).Methods(http.MethodPost)
	api.HandleFunc("/{id}/enemy-step", s.command(enemyStepCmd)).Methods(http.MethodPost)
	api.HandleFunc("/{id}/enemy-phase", s.handleEnemyPhase).Methods(http.MethodPost)
	api.HandleFunc("/{id}/events", s.handleEvents).Methods(http.MethodGet)
	return r
}

func (s *Server) log() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

type createRequest struct {
	Seed int64 `json:"seed"`
}

type createResponse struct {
	ID       string          `json:"id"`
	Seed     int64           `json:"seed"`
	Warnings []string        `json:"warnings,omitempty"`
	State    combat.Snapshot `json:"state"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Seed == 0 {
		req.Seed = time.Now().UnixNano()
	}
	enc := config.Default()
	if s.Encounter != nil {
		enc = s.Encounter()
	}

	m := &Match{ID: s.Store.NewID(), Seed: req.Seed, events: newHub()}
	b, warnings := combat.NewBattle(combat.Setup{
		Encounter: enc,
		Rng:       util.Seed(req.Seed).Rand(),
		Emit:      m.events.broadcast,
		Logger:    s.log().With(zap.String("battle", m.ID)),
	})
	m.battle = b
	logging.Warnings(s.log(), warnings)

	if err := s.Store.Put(r.Context(), m.ID, m); err != nil {
		if errors.Is(err, session.ErrFull) {
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.log().Info("battle started", zap.String("battle", m.ID), zap.Int64("seed", req.Seed))

	m.mu.Lock()
	state := b.Snapshot()
	m.mu.Unlock()
	writeJSON(w, http.StatusCreated, createResponse{ID: m.ID, Seed: m.Seed, Warnings: warnings, State: state})
}

func (s *Server) match(w http.ResponseWriter, r *http.Request) (*Match, bool) {
	id := mux.Vars(r)["id"]
	m, ok, err := s.Store.Get(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	if !ok {
		writeError(w, http.StatusNotFound, "unknown battle "+id)
		return nil, false
	}
	return m, true
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	m, ok := s.match(w, r)
	if !ok {
		return
	}
	m.mu.Lock()
	state := m.battle.Snapshot()
	m.mu.Unlock()
	writeJSON(w, http.StatusOK, state)
}

// handleDelete aborts a battle. Any enemy phase in progress stops before
// its next unit.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	m, ok := s.match(w, r)
	if !ok {
		return
	}
	if err := s.Store.Delete(r.Context(), m.ID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	m.events.closeAll()
	s.log().Info("battle aborted", zap.String("battle", m.ID))
	w.WriteHeader(http.StatusNoContent)
}

// commandRequest carries the fields of every command; each uses its own.
type commandRequest struct {
	Unit    string `json:"unit"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Target  string `json:"target"`
	Ability string `json:"ability"`
}

type commandResponse struct {
	combat.Result
	State combat.Snapshot `json:"state"`
}

type commandFunc func(b *combat.Battle, req commandRequest) combat.Result

func selectCmd(b *combat.Battle, req commandRequest) combat.Result { return b.SelectUnit(req.Unit) }
func moveCmd(b *combat.Battle, req commandRequest) combat.Result {
	return b.MoveSelectedTo(grid.Coord{X: req.X, Y: req.Y})
}
func attackCmd(b *combat.Battle, req commandRequest) combat.Result { return b.Attack(req.Target) }
func abilityCmd(b *combat.Battle, req commandRequest) combat.Result {
	return b.UseAbility(req.Ability, req.Target)
}
func endTurnCmd(b *combat.Battle, _ commandRequest) combat.Result   { return b.EndTurn() }
func enemyStepCmd(b *combat.Battle, _ commandRequest) combat.Result { return b.StepEnemy() }

// command wraps a battle command. Rule failures are still 200: the result
// says ok=false and why.
func (s *Server) command(fn commandFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, ok := s.match(w, r)
		if !ok {
			return
		}
		var req commandRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		m.mu.Lock()
		res := fn(m.battle, req)
		state := m.battle.Snapshot()
		m.mu.Unlock()
		writeJSON(w, http.StatusOK, commandResponse{Result: res, State: state})
	}
}

type enemyPhaseResponse struct {
	OK      bool                 `json:"ok"`
	Message string               `json:"message,omitempty"`
	Actions []combat.EnemyAction `json:"actions"`
	State   combat.Snapshot      `json:"state"`
}

// handleEnemyPhase steps the enemy side to the end of its phase, waiting
// Pace between units. The lock is released between steps so state queries
// and the event stream stay live.
func (s *Server) handleEnemyPhase(w http.ResponseWriter, r *http.Request) {
	m, ok := s.match(w, r)
	if !ok {
		return
	}
	resp := enemyPhaseResponse{OK: true, Actions: []combat.EnemyAction{}}
	for i := 0; ; i++ {
		if i > 0 && s.Pace > 0 {
			if err := sleep(r.Context(), s.Pace); err != nil {
				return
			}
		}
		if _, live, _ := s.Store.Get(context.WithoutCancel(r.Context()), m.ID); !live {
			resp.OK, resp.Message = false, "battle aborted"
			break
		}
		m.mu.Lock()
		if m.battle.Phase() != combat.PhaseEnemy || m.battle.Outcome() != combat.OutcomeOngoing {
			m.mu.Unlock()
			if i == 0 {
				resp.OK, resp.Message = false, "Not the enemy phase."
			}
			break
		}
		res := m.battle.StepEnemy()
		m.mu.Unlock()
		if !res.OK {
			resp.OK, resp.Message = false, res.Message
			break
		}
		if res.Enemy != nil {
			resp.Actions = append(resp.Actions, *res.Enemy)
		}
	}
	m.mu.Lock()
	resp.State = m.battle.Snapshot()
	m.mu.Unlock()
	writeJSON(w, http.StatusOK, resp)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type wsMsg struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// handleEvents upgrades to a websocket, sends the current state and then
// every event of the battle until either side goes away.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	m, ok := s.match(w, r)
	if !ok {
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log().Warn("ws upgrade failed", zap.String("battle", m.ID), zap.Error(err))
		return
	}
	defer conn.Close()

	ch := m.events.subscribe()
	defer m.events.unsubscribe(ch)

	m.mu.Lock()
	state := m.battle.Snapshot()
	m.mu.Unlock()
	if err := conn.WriteJSON(wsMsg{Type: "state", Data: state}); err != nil {
		return
	}

	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case ev, open := <-ch:
			if !open {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "battle closed"))
				return
			}
			if err := conn.WriteJSON(wsMsg{Type: "event", Data: ev}); err != nil {
				s.log().Debug("ws write failed", zap.String("battle", m.ID), zap.Error(err))
				return
			}
		case <-gone:
			return
		case <-r.Context().Done():
			return
		}
	}
}

// decodeBody reads an optional JSON body. An empty body, whatever its
// declared length, leaves v untouched.
func decodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error":   http.StatusText(code),
		"message": msg,
		"status":  code,
	})
}
