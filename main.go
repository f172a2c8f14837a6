package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"ctf/agent"
	"ctf/communication/server"
	"ctf/config"
	"ctf/engine"
	"ctf/experiments"
	"ctf/experiments/metrics"
	"ctf/game"
	"ctf/searcher"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const usage = `usage: ctf [-config file] [-log-level level] <command> [flags]

commands:
  match       play one game and print the result
  experiment  run a depth or pruning experiment and store the results as CSV
  serve       serve the alpha-beta agent over HTTP
`

func main() {
	configPath := flag.String("config", "", "YAML config file")
	logLevel := flag.String("log-level", "", "log level (overrides the config)")
	flag.Usage = func() { fmt.Fprint(flag.CommandLine.Output(), usage) }
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	setupLogging(cfg.Log.Level)

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch command, args := flag.Arg(0), flag.Args()[1:]; command {
	case "match":
		err = runMatch(ctx, cfg, args)
	case "experiment":
		err = runExperiment(ctx, cfg, args)
	case "serve":
		err = runServe(ctx, cfg, args)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("command failed")
	}
}

func setupLogging(level string) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		log.Warn().Msgf("unknown log level %q, using info", level)
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
}

func runMatch(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("match", flag.ExitOnError)
	red := fs.String("red", experiments.KindAlphaBeta, "red agent kind (alphabeta or random)")
	blue := fs.String("blue", experiments.KindRandom, "blue agent kind (alphabeta or random)")
	remote := fs.String("remote", "", "comma-separated agent server URLs, one per agent index")
	fs.Parse(args)

	layout, err := cfg.LoadLayout()
	if err != nil {
		return err
	}

	var e *engine.LocalEngine
	if *remote != "" {
		e = engine.NewRemoteEngine(layout, cfg.Rules, strings.Split(*remote, ","), nil)
	} else {
		evaluator := searcher.NewEvaluator(layout, cfg.Weights)
		seed := seedOf(cfg)
		agents := make([]agent.Agent, layout.NumAgents())
		for i := range agents {
			kind := *red
			if game.TeamOf(i) == game.Blue {
				kind = *blue
			}
			agentConfig := metrics.AgentConfig{ID: i, Kind: kind, Depth: cfg.Search.Depth, Pruning: cfg.Search.Pruning}
			if agents[i], err = experiments.NewAgent(agentConfig, evaluator, seed+uint64(i)); err != nil {
				return err
			}
		}
		e = engine.NewLocalEngine(layout, cfg.Rules, agents)
	}

	log.Info().Msgf("starting match on a %dx%d layout with %d agents", layout.Width(), layout.Height(), layout.NumAgents())
	winner, gameMetric, _, err := e.Run(ctx)
	if err != nil {
		return err
	}
	if winner == game.NoTeam {
		log.Info().Msgf("game tied after %d moves", gameMetric.TotalMoves)
		return nil
	}
	log.Info().Msgf("%s won by %d after %d moves in %s", winner, abs(gameMetric.Score), gameMetric.TotalMoves, gameMetric.Duration)
	return nil
}

func runExperiment(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("experiment", flag.ExitOnError)
	kind := fs.String("kind", "depth", "experiment to run (depth or pruning)")
	fs.Parse(args)

	layout, err := cfg.LoadLayout()
	if err != nil {
		return err
	}

	var matchUps []experiments.MatchUp
	switch *kind {
	case "depth":
		matchUps = experiments.DepthMatchUps(cfg.Experiment.Depths)
	case "pruning":
		matchUps = experiments.PruningMatchUps(cfg.Experiment.Depths)
	default:
		return fmt.Errorf("unknown experiment %q", *kind)
	}

	x := experiments.Experiment{
		Name:      *kind,
		Layout:    layout,
		Rules:     cfg.Rules,
		Weights:   cfg.Weights,
		MatchUps:  matchUps,
		Games:     cfg.Experiment.Games,
		Parallel:  cfg.Experiment.Parallel,
		Seed:      seedOf(cfg),
		OutputDir: cfg.Experiment.OutputDir,
	}
	_, err = x.Run(ctx)
	return err
}

func runServe(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", ":8080", "listen address")
	fs.Parse(args)

	seed := seedOf(cfg)
	newAgent := func(layout *game.Layout) agent.Agent {
		log.Info().Msgf("building agent for a %dx%d layout", layout.Width(), layout.Height())
		evaluator := searcher.NewEvaluator(layout, cfg.Weights)
		options := []searcher.Option{searcher.WithDepth(cfg.Search.Depth), searcher.WithSeed(seed)}
		if !cfg.Search.Pruning {
			options = append(options, searcher.WithoutPruning())
		}
		return agent.NewSearchAgent(searcher.NewAlphaBeta(evaluator.Evaluate, options...))
	}
	return server.NewAgentServer(newAgent).ListenAndServe(ctx, *addr)
}

func seedOf(cfg config.Config) uint64 {
	if cfg.Search.Seed != 0 {
		return cfg.Search.Seed
	}
	return uint64(time.Now().UnixNano())
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
