package experiments

import (
	"context"
	"fmt"
	"path/filepath"

	"ctf/agent"
	"ctf/engine"
	"ctf/experiments/metrics"
	"ctf/game"
	"ctf/searcher"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"
)

const (
	KindAlphaBeta = "alphabeta"
	KindRandom    = "random"
)

// MatchUp pairs two agent configs. The first plays red in even games and
// blue in odd games.
type MatchUp [2]metrics.AgentConfig

// Experiment plays a number of games for each match-up and stores the
// results as CSV files in a fresh run directory.
type Experiment struct {
	Name      string
	Layout    *game.Layout
	Rules     game.Rules
	Weights   searcher.Weights
	MatchUps  []MatchUp
	Games     int // per match-up
	Parallel  int // games played at once
	Seed      uint64
	OutputDir string
}

// Run plays all games and returns the directory the results were written to.
func (x Experiment) Run(ctx context.Context) (string, error) {
	if len(x.MatchUps) == 0 {
		return "", fmt.Errorf("experiment %s has no match-ups", x.Name)
	}
	if x.Games <= 0 || x.Parallel <= 0 {
		return "", fmt.Errorf("experiment %s needs positive games and parallelism, got %d and %d", x.Name, x.Games, x.Parallel)
	}
	for _, matchUp := range x.MatchUps {
		for _, config := range matchUp {
			if err := validate(config); err != nil {
				return "", err
			}
		}
	}

	total := len(x.MatchUps) * x.Games
	gameRecords := make([]metrics.GameRecord, total)
	moveRecords := make([][]metrics.MoveRecord, total)
	evaluator := searcher.NewEvaluator(x.Layout, x.Weights)

	log.Info().Msgf("starting %s experiment with %d games...", x.Name, total)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(x.Parallel)
	for mi, matchUp := range x.MatchUps {
		for i := 0; i < x.Games; i++ {
			id := mi*x.Games + i
			red, blue := matchUp[0], matchUp[1]
			if i%2 == 1 {
				red, blue = blue, red
			}

			g.Go(func() error {
				winner, gameMetric, moveMetrics, err := x.runGame(ctx, evaluator, id, red, blue)
				if err != nil {
					return fmt.Errorf("matchup %d game %d: %w", mi+1, i+1, err)
				}

				gameRecords[id] = metrics.GameRecord{
					ID:         id + 1,
					MatchUp:    mi,
					Red:        red.ID,
					Blue:       blue.ID,
					GameMetric: gameMetric,
				}
				records := make([]metrics.MoveRecord, len(moveMetrics))
				for j, mm := range moveMetrics {
					records[j] = metrics.MoveRecord{Game: id + 1, MoveMetric: mm}
				}
				moveRecords[id] = records

				log.Info().Msgf("completed matchup %d of %d game %d of %d with winner: %s", mi+1, len(x.MatchUps), i+1, x.Games, winnerName(winner))
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	log.Info().Msgf("completed %s experiment", x.Name)

	writer, err := metrics.NewWriter(filepath.Join(x.OutputDir, x.Name, uuid.NewString()))
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := writer.WriteAgentConfigs(x.configs()); err != nil {
		return "", fmt.Errorf("failed to store agent configs: %w", err)
	}
	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return "", fmt.Errorf("failed to write game records: %w", err)
	}
	var moves []metrics.MoveRecord
	for _, records := range moveRecords {
		moves = append(moves, records...)
	}
	if err := writer.WriteMoveRecords(moves); err != nil {
		return "", fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msgf("stored results in %s", writer.Dir())
	return writer.Dir(), nil
}

// runGame plays one game with red's config on even indices and blue's on odd
// ones. Agent seeds are derived from the game id so runs are reproducible.
func (x Experiment) runGame(ctx context.Context, evaluator *searcher.Evaluator, id int, red, blue metrics.AgentConfig) (game.Team, metrics.GameMetric, []metrics.MoveMetric, error) {
	numAgents := x.Layout.NumAgents()
	agents := make([]agent.Agent, numAgents)
	for i := range agents {
		config := red
		if game.TeamOf(i) == game.Blue {
			config = blue
		}
		a, err := NewAgent(config, evaluator, x.Seed+uint64(id*numAgents+i))
		if err != nil {
			return game.NoTeam, metrics.GameMetric{}, nil, err
		}
		agents[i] = a
	}

	e := engine.NewLocalEngine(x.Layout, x.Rules, agents)
	return e.Run(ctx)
}

// configs lists the distinct agent configs of all match-ups by ID.
func (x Experiment) configs() []metrics.AgentConfig {
	var configs []metrics.AgentConfig
	for _, matchUp := range x.MatchUps {
		for _, config := range matchUp {
			if !slices.Contains(configs, config) {
				configs = append(configs, config)
			}
		}
	}
	slices.SortStableFunc(configs, func(a, b metrics.AgentConfig) int { return a.ID - b.ID })
	return configs
}

func validate(config metrics.AgentConfig) error {
	switch config.Kind {
	case KindRandom:
		return nil
	case KindAlphaBeta:
		if config.Depth < 0 {
			return fmt.Errorf("agent %d has negative depth %d", config.ID, config.Depth)
		}
		return nil
	default:
		return fmt.Errorf("agent %d has unknown kind %q", config.ID, config.Kind)
	}
}

// NewAgent builds the agent described by config. Search agents score
// positions with evaluator.
func NewAgent(config metrics.AgentConfig, evaluator *searcher.Evaluator, seed uint64) (agent.Agent, error) {
	if err := validate(config); err != nil {
		return nil, err
	}
	switch config.Kind {
	case KindRandom:
		return agent.NewRandomAgent(rand.New(rand.NewSource(seed))), nil
	default:
		options := []searcher.Option{
			searcher.WithDepth(config.Depth),
			searcher.WithSeed(seed),
			searcher.WithMetrics(),
		}
		if !config.Pruning {
			options = append(options, searcher.WithoutPruning())
		}
		return agent.NewSearchAgent(searcher.NewAlphaBeta(evaluator.Evaluate, options...)), nil
	}
}

func winnerName(team game.Team) string {
	if team == game.NoTeam {
		return "tie"
	}
	return team.String()
}
