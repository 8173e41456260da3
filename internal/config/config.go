// Cadenza - Conversational Playlist Recommendation Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadenza

package config

import (
	"fmt"

	"github.com/tomtom215/cadenza/internal/validation"
)

// Config is the root configuration for the evaluator.
type Config struct {
	Logging LoggingConfig `koanf:"logging"`
	Paths   PathsConfig   `koanf:"paths"`
	Scoring ScoringConfig `koanf:"scoring"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	// Level is the minimum log level.
	Level string `koanf:"level" validate:"oneof=trace debug info warn warning error fatal panic disabled"`

	// Format is json or console.
	Format string `koanf:"format" validate:"oneof=json console"`

	// Caller includes caller file and line in log output.
	Caller bool `koanf:"caller"`
}

// PathsConfig holds default input file locations. The CLI flags override
// these per invocation.
type PathsConfig struct {
	// GoldData is the default gold dialog dataset (JSONL, one conversation
	// per line).
	GoldData string `koanf:"gold_data" validate:"required"`

	// Tracks is an optional global track-metadata file (JSONL, one track per
	// line) overlaying the per-conversation track maps. Empty disables the
	// overlay.
	Tracks string `koanf:"tracks"`

	// Output is the default report location for single runs.
	Output string `koanf:"output" validate:"required"`
}

// ScoringConfig controls the metric computation.
type ScoringConfig struct {
	// Metrics lists the metric families to compute. Each is evaluated at
	// every k in KValues.
	Metrics []string `koanf:"metrics" validate:"required,min=1,dive,oneof=hit map mrr precision recall"`

	// KValues are the ranking cutoffs, strictly increasing.
	KValues []int `koanf:"k_values" validate:"required,min=1,ascending,dive,gt=0"`

	// Target selects the gold relevance source: "liked" scores each turn
	// against its own liked_results; "goal_playlist" scores every turn
	// against the conversation's goal playlist with cumulative seed-track
	// filtering.
	Target string `koanf:"target" validate:"oneof=liked goal_playlist"`

	// NumSeedTracks is how many liked tracks from each earlier turn are
	// treated as already-known (and filtered from predictions and gold) in
	// goal_playlist mode.
	NumSeedTracks int `koanf:"num_seed_tracks" validate:"min=0"`

	// MaxTurns bounds the per-turn-index averages in the corpus summary.
	MaxTurns int `koanf:"max_turns" validate:"min=1"`
}

// defaultConfig returns a Config with all default values. These match the
// published reference settings for the benchmark.
func defaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Caller: false,
		},
		Paths: PathsConfig{
			GoldData: "data/dialogs.test.jsonl",
			Tracks:   "",
			Output:   "eval_results.csv",
		},
		Scoring: ScoringConfig{
			Metrics:       []string{"hit", "map", "mrr", "precision", "recall"},
			KValues:       []int{1, 5, 10, 20, 100},
			Target:        "liked",
			NumSeedTracks: 3,
			MaxTurns:      10,
		},
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
