package config

import (
	"errors"
	"fmt"
	"os"

	"ctf/game"
	"ctf/searcher"

	"gopkg.in/yaml.v3"
)

type Search struct {
	Depth   int    `yaml:"depth"`
	Seed    uint64 `yaml:"seed"` // 0 seeds from the clock
	Pruning bool   `yaml:"pruning"`
}

type Experiment struct {
	Games     int    `yaml:"games"` // per match-up
	Parallel  int    `yaml:"parallel"`
	OutputDir string `yaml:"output_dir"`
	Depths    []int  `yaml:"depths"`
}

type Log struct {
	Level string `yaml:"level"`
}

// Config is the settings file of the ctf binary. Fields missing from the file
// keep their defaults.
type Config struct {
	Layout     string           `yaml:"layout"` // path to a layout file, empty for the built-in map
	Search     Search           `yaml:"search"`
	Weights    searcher.Weights `yaml:"weights"`
	Rules      game.Rules       `yaml:"rules"`
	Experiment Experiment       `yaml:"experiment"`
	Log        Log              `yaml:"log"`
}

func Default() Config {
	return Config{
		Search: Search{
			Depth:   searcher.DefaultDepth,
			Pruning: true,
		},
		Weights: searcher.DefaultWeights(),
		Rules:   game.NewStandardRules(),
		Experiment: Experiment{
			Games:     10,
			Parallel:  4,
			OutputDir: "results",
			Depths:    []int{1, 2},
		},
		Log: Log{Level: "info"},
	}
}

// Load reads the YAML file at path over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Search.Depth < 0 {
		errs = append(errs, fmt.Errorf("search depth must not be negative, got %d", c.Search.Depth))
	}
	if c.Rules.TimeLimit <= 0 {
		errs = append(errs, fmt.Errorf("time limit must be positive, got %d", c.Rules.TimeLimit))
	}
	if c.Experiment.Games <= 0 {
		errs = append(errs, fmt.Errorf("games must be positive, got %d", c.Experiment.Games))
	}
	if c.Experiment.Parallel <= 0 {
		errs = append(errs, fmt.Errorf("parallel must be positive, got %d", c.Experiment.Parallel))
	}
	for _, depth := range c.Experiment.Depths {
		if depth < 0 {
			errs = append(errs, fmt.Errorf("experiment depth must not be negative, got %d", depth))
		}
	}
	return errors.Join(errs...)
}

// LoadLayout returns the configured layout, or the built-in one.
func (c Config) LoadLayout() (*game.Layout, error) {
	if c.Layout == "" {
		return game.ParseLayout(game.DefaultLayout)
	}
	data, err := os.ReadFile(c.Layout)
	if err != nil {
		return nil, fmt.Errorf("failed to read layout: %w", err)
	}
	layout, err := game.ParseLayout(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout %s: %w", c.Layout, err)
	}
	return layout, nil
}
