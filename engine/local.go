package engine

import (
	"context"
	"fmt"
	"time"

	"ctf/agent"
	"ctf/experiments/metrics"
	"ctf/game"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

type Option func(e *LocalEngine)

func WithMaxMoves(moves int) Option {
	return func(e *LocalEngine) {
		if moves <= 0 {
			panic(fmt.Sprintf("max moves must be positive, got %d", moves))
		}
		e.maxMoves = moves
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(e *LocalEngine) {
		e.logger = logger
	}
}

// LocalEngine runs a game in process. Agents move in index order and each
// one only sees its own observation of the state.
type LocalEngine struct {
	State    *game.GameState
	Agents   []agent.Agent
	maxMoves int
	logger   zerolog.Logger
}

var _ Engine = (*LocalEngine)(nil)

func NewLocalEngine(layout *game.Layout, rules game.Rules, agents []agent.Agent, options ...Option) *LocalEngine {
	if len(agents) != layout.NumAgents() {
		panic(fmt.Sprintf("layout has %d agents, got %d", layout.NumAgents(), len(agents)))
	}
	e := &LocalEngine{
		State:    game.NewGameState(layout, rules),
		Agents:   agents,
		maxMoves: MaxMoves,
		logger:   log.Logger,
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// Run executes the game loop until the game is over. It stops early with the
// context's error if ctx is done between two moves.
func (e *LocalEngine) Run(ctx context.Context) (game.Team, metrics.GameMetric, []metrics.MoveMetric, error) {
	start := time.Now()
	numAgents := e.State.NumAgents()
	var moveMetrics []metrics.MoveMetric

	e.logger.Debug().Msgf("starting game with %d agents", numAgents)

	step := 0
	for !e.State.IsOver() && step < e.maxMoves {
		if err := ctx.Err(); err != nil {
			return game.NoTeam, metrics.GameMetric{}, moveMetrics, err
		}

		index := step % numAgents
		move, metric := e.Agents[index].FindMove(e.State.Observe(index), index)
		move = e.validate(index, move)
		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         step + 1,
			Agent:        index,
			Action:       string(move),
			SearchMetric: metric,
		})

		e.State = e.State.Play(index, move).(*game.GameState)
		step++
	}

	end := time.Now()
	winner := e.State.Winner()
	gameMetric := metrics.GameMetric{
		Winner:     winner.String(),
		Score:      e.State.Score(),
		StartTime:  start,
		EndTime:    end,
		Duration:   end.Sub(start),
		TotalMoves: step,
	}
	e.logger.Debug().Msgf("game over after %d moves, score %d", step, e.State.Score())
	return winner, gameMetric, moveMetrics, nil
}

// validate replaces an illegal action with the first legal move other than
// Stop, or Stop if the agent cannot move.
func (e *LocalEngine) validate(index int, move game.Action) game.Action {
	legal := e.State.LegalActions(index)
	if slices.Contains(legal, move) {
		return move
	}
	fallback := game.Stop
	for _, action := range legal {
		if action != game.Stop {
			fallback = action
			break
		}
	}
	e.logger.Warn().Msgf("agent %d returned illegal action %q, playing %s instead", index, move, fallback)
	return fallback
}
