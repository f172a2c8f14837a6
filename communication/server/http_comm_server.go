package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"ctf/agent"
	"ctf/communication"
	"ctf/experiments/metrics"
	"ctf/game"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

const (
	// MaxRequestBytes bounds the body of a move request.
	MaxRequestBytes = 1 << 20
	// MaxBoards is how many layouts keep their agent. The oldest is dropped
	// first.
	MaxBoards = 16
)

// AgentFactory builds the agent playing on a layout.
type AgentFactory func(layout *game.Layout) agent.Agent

type board struct {
	layout *game.Layout
	agent  agent.Agent
}

// AgentServer serves moves over HTTP, with one agent per layout it is asked
// about. Calls into agents are serialized since a search keeps per-call
// state.
type AgentServer struct {
	newAgent AgentFactory
	agentMu  sync.Mutex

	boards   map[string]board // by layout text
	order    []string
	boardsMu sync.Mutex
}

func NewAgentServer(newAgent AgentFactory) *AgentServer {
	if newAgent == nil {
		panic("Must specify an agent factory")
	}
	return &AgentServer{
		newAgent: newAgent,
		boards:   map[string]board{},
	}
}

// Handler returns the router of the agent API.
func (s *AgentServer) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pong"))
	})
	r.Post(communication.FindMovePath, s.handleFindMove)
	return r
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *AgentServer) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}

	errs := make(chan error, 1)
	go func() {
		log.Info().Msgf("agent server listening on %s", addr)
		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return fmt.Errorf("agent server stopped: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to shut down agent server: %w", err)
	}
	log.Info().Msg("agent server shut down")
	return nil
}

func (s *AgentServer) handleFindMove(w http.ResponseWriter, r *http.Request) {
	var req communication.FindMoveRequest
	body := http.MaxBytesReader(w, r.Body, MaxRequestBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		http.Error(w, "bad request: "+err.Error(), http.StatusBadRequest)
		return
	}

	b, err := s.board(req.Layout)
	if err != nil {
		http.Error(w, "bad layout: "+err.Error(), http.StatusBadRequest)
		return
	}
	state, err := game.FromSnapshot(b.layout, req.State)
	if err != nil {
		http.Error(w, "bad state: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Agent < 0 || req.Agent >= state.NumAgents() {
		http.Error(w, fmt.Sprintf("bad request: agent %d out of range", req.Agent), http.StatusBadRequest)
		return
	}

	action, metric := s.findMove(b.agent, state, req.Agent)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(communication.FindMoveResponse{Action: action, Metric: metric}); err != nil {
		log.Error().Err(err).Msg("failed to encode move")
	}
}

func (s *AgentServer) findMove(a agent.Agent, state game.State, index int) (game.Action, metrics.SearchMetric) {
	s.agentMu.Lock()
	defer s.agentMu.Unlock()
	return a.FindMove(state, index)
}

// board returns the parsed layout and its agent, building both on first use.
func (s *AgentServer) board(text string) (board, error) {
	s.boardsMu.Lock()
	defer s.boardsMu.Unlock()
	if b, ok := s.boards[text]; ok {
		return b, nil
	}

	l, err := game.ParseLayout(text)
	if err != nil {
		return board{}, err
	}
	b := board{layout: l, agent: s.newAgent(l)}
	if len(s.order) >= MaxBoards {
		delete(s.boards, s.order[0])
		s.order = s.order[1:]
	}
	s.boards[text] = b
	s.order = append(s.order, text)
	return b, nil
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("handled request")
	})
}
