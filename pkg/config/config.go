// Package config holds the trainer's file locations and quiz defaults.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Environment variables read by FromEnv.
const (
	EnvRegistry   = "RANGE_TRAINER_REGISTRY"
	EnvHistory    = "RANGE_TRAINER_HISTORY"
	EnvQuizConfig = "RANGE_TRAINER_QUIZ_CONFIG"
	EnvSeed       = "RANGE_TRAINER_SEED"
)

// Config is the trainer configuration.
type Config struct {
	RegistryPath   string // JSON list of range dicts
	HistoryPath    string // SQLite quiz history; empty disables history
	QuizConfigPath string // YAML quiz tables; empty uses the built-in tables
	Seed           int64  // 0 seeds from the clock
	MarginalOnly   bool   // quiz only boundary hands
	RandomizePath  bool   // quiz a random situation each hand
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		RegistryPath: filepath.Join("range_dicts", "range_dict_list.json"),
		HistoryPath:  filepath.Join("range_dicts", "history.db"),
		MarginalOnly: true,
	}
}

// FromEnv returns Default with environment overrides applied.
func FromEnv() (Config, error) {
	return fromLookup(Default(), os.LookupEnv)
}

func fromLookup(cfg Config, lookup func(string) (string, bool)) (Config, error) {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		return strings.TrimSpace(v), ok
	}
	if v, ok := get(EnvRegistry); ok && v != "" {
		cfg.RegistryPath = v
	}
	if v, ok := get(EnvHistory); ok {
		cfg.HistoryPath = v
	}
	if v, ok := get(EnvQuizConfig); ok {
		cfg.QuizConfigPath = v
	}
	if v, ok := get(EnvSeed); ok && v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvSeed, err)
		}
		cfg.Seed = seed
	}
	return cfg, nil
}

// RegisterFlags binds flags for every field, using the current values as
// defaults.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.RegistryPath, "registry", c.RegistryPath, "range dict registry file")
	fs.StringVar(&c.HistoryPath, "history", c.HistoryPath, "quiz history database (empty to disable)")
	fs.StringVar(&c.QuizConfigPath, "quiz-config", c.QuizConfigPath, "YAML quiz tables (empty for built-in 6-max tables)")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "random seed (0 = time-based)")
	fs.BoolVar(&c.MarginalOnly, "marginal", c.MarginalOnly, "quiz only marginal hands")
	fs.BoolVar(&c.RandomizePath, "randomize", c.RandomizePath, "quiz a random situation for each hand")
}

// Validate checks the configuration.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.RegistryPath) == "" {
		errs = append(errs, errors.New("registry path is empty"))
	}
	if c.Seed < 0 {
		errs = append(errs, fmt.Errorf("seed must be non-negative, got %d", c.Seed))
	}
	if c.HistoryPath != "" && c.HistoryPath == c.RegistryPath {
		errs = append(errs, errors.New("history and registry paths must differ"))
	}
	return errors.Join(errs...)
}
