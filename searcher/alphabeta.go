package searcher

import (
	"fmt"
	"math"
	"time"

	"ctf/experiments/metrics"
	"ctf/game"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/exp/slices"
)

const DefaultDepth = 2

type Option func(ab *AlphaBeta)

// AlphaBeta searches the full agent rotation to a fixed number of rounds,
// maximizing over the deciding team's moves and minimizing over the
// opponents'.
type AlphaBeta struct {
	evaluate Evaluate
	depth    int
	pruning  bool
	rng      *rand.Rand
	metrics  metrics.Collector
	logger   zerolog.Logger
	trace    func(node int, alpha, beta float64) // observes bounds, tests only
}

var _ Searcher = (*AlphaBeta)(nil)

// WithDepth sets the number of full rotations searched after the root move.
func WithDepth(depth int) Option {
	return func(ab *AlphaBeta) {
		if depth < 0 {
			panic(fmt.Sprintf("search depth must not be negative, got %d", depth))
		}
		ab.depth = depth
	}
}

func WithRand(rng *rand.Rand) Option {
	return func(ab *AlphaBeta) {
		if rng != nil {
			ab.rng = rng
		}
	}
}

func WithSeed(seed uint64) Option {
	return func(ab *AlphaBeta) {
		ab.rng = rand.New(rand.NewSource(seed))
	}
}

// WithoutPruning turns the search into plain minimax over the same rotation.
func WithoutPruning() Option {
	return func(ab *AlphaBeta) {
		ab.pruning = false
	}
}

func WithMetrics() Option {
	return func(ab *AlphaBeta) {
		ab.metrics = metrics.NewCollector()
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(ab *AlphaBeta) {
		ab.logger = logger
	}
}

func NewAlphaBeta(evaluate Evaluate, options ...Option) *AlphaBeta {
	if evaluate == nil {
		panic("Must specify an evaluation function")
	}
	ab := &AlphaBeta{ // Default values
		evaluate: evaluate,
		depth:    DefaultDepth,
		pruning:  true,
		rng:      rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
		metrics:  metrics.NewDummyCollector(),
		logger:   log.Logger,
	}
	for _, option := range options {
		option(ab)
	}
	return ab
}

func (ab *AlphaBeta) FindNextMove(state game.State, agent int) game.Action {
	move, _ := ab.Search(state, agent)
	return move
}

// Search picks a move for agent at the configured depth and reports search
// metrics (zero unless WithMetrics is set).
func (ab *AlphaBeta) Search(state game.State, agent int) (game.Action, metrics.SearchMetric) {
	return ab.ChooseMove(state, agent, ab.depth)
}

// ChooseMove returns agent's best move other than Stop. The first move with
// the highest backed-up value wins; a uniformly random move is kept only if
// every move is valued at Loss.
func (ab *AlphaBeta) ChooseMove(state game.State, agent, depth int) (game.Action, metrics.SearchMetric) {
	numAgents := state.NumAgents()
	if numAgents < 2 {
		panic(fmt.Sprintf("search needs at least 2 agents, got %d", numAgents))
	}
	if agent < 0 || agent >= numAgents {
		panic(fmt.Sprintf("agent index %d out of range [0, %d)", agent, numAgents))
	}
	if depth < 0 {
		panic(fmt.Sprintf("search depth must not be negative, got %d", depth))
	}

	actions := slices.DeleteFunc(slices.Clone(state.LegalActions(agent)), func(a game.Action) bool {
		return a == game.Stop
	})
	if len(actions) == 0 {
		panic(fmt.Sprintf("agent %d has no legal move other than %s", agent, game.Stop))
	}

	ab.metrics.Start(depth, ab.pruning)
	s := &search{
		self:      agent,
		numAgents: numAgents,
		evaluate:  ab.evaluate,
		pruning:   ab.pruning,
		metrics:   ab.metrics,
		trace:     ab.trace,
	}

	bestMove := actions[ab.rng.Intn(len(actions))]
	bestScore := Loss
	alpha, beta := Loss, math.Inf(1)
	root := turn{
		agent:      agent,
		depth:      depth,
		maximizing: isTeammate(state, agent, (agent+1)%numAgents),
	}
	s.metrics.AddNode()
	for _, action := range actions {
		score := s.value(state.Play(agent, action), root, alpha, beta)
		if score > bestScore {
			bestScore = score
			bestMove = action
		}
		if s.pruning {
			alpha = max(alpha, bestScore)
		}
	}

	metric := ab.metrics.Complete(bestScore)
	ab.logger.Debug().
		Int("agent", agent).
		Str("move", string(bestMove)).
		Float64("score", bestScore).
		Int("nodes", metric.Nodes).
		Msg("chose move")
	return bestMove, metric
}

// search is the state of one ChooseMove call.
type search struct {
	self      int
	numAgents int
	evaluate  Evaluate
	pruning   bool
	metrics   metrics.Collector
	trace     func(node int, alpha, beta float64)
	nodes     int
}

func (s *search) leaf(state game.State) float64 {
	s.metrics.AddEvaluation()
	return s.evaluate(state, s.self)
}

// value backs up the utility of state, in which t.agent has just moved.
func (s *search) value(state game.State, t turn, alpha, beta float64) float64 {
	var ok bool
	for {
		if t.depth == 0 || state.IsOver() {
			return s.leaf(state)
		}
		t, ok = t.advance(s.numAgents, s.self)
		if !ok {
			return s.leaf(state)
		}
		if state.Agent(t.agent).Known {
			break
		}
		// an absent agent passes without branching
	}

	actions := state.LegalActions(t.agent)
	if len(actions) == 0 {
		return s.leaf(state)
	}

	s.metrics.AddNode()
	node := s.nodes
	s.nodes++
	s.observe(node, alpha, beta)

	child := turn{
		agent:      t.agent,
		depth:      t.depth,
		maximizing: isTeammate(state, s.self, (t.agent+1)%s.numAgents),
	}

	if t.maximizing {
		best := math.Inf(-1)
		for _, action := range actions {
			best = max(best, s.value(state.Play(t.agent, action), child, alpha, beta))
			if !s.pruning {
				continue
			}
			alpha = max(alpha, best)
			s.observe(node, alpha, beta)
			if beta <= alpha {
				s.metrics.AddCutoff()
				break
			}
		}
		return best
	}

	best := math.Inf(1)
	for _, action := range actions {
		best = min(best, s.value(state.Play(t.agent, action), child, alpha, beta))
		if !s.pruning {
			continue
		}
		beta = min(beta, best)
		s.observe(node, alpha, beta)
		if beta <= alpha {
			s.metrics.AddCutoff()
			break
		}
	}
	return best
}

func (s *search) observe(node int, alpha, beta float64) {
	if s.trace != nil {
		s.trace(node, alpha, beta)
	}
}
