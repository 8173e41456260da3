// Cadenza - Conversational Playlist Recommendation Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadenza

// Package config provides layered configuration for the evaluator using Koanf v2.
//
// Configuration is loaded from three sources, highest priority last:
//
//  1. Built-in defaults (defaultConfig)
//  2. Optional YAML config file (eval.yaml, or the path in CONFIG_PATH)
//  3. Environment variables with the EVAL_ prefix
//
// Environment variable names map to config paths by section:
//
//	EVAL_LOGGING_LEVEL       -> logging.level
//	EVAL_SCORING_K_VALUES    -> scoring.k_values
//	EVAL_PATHS_GOLD_DATA     -> paths.gold_data
//
// Slice-valued settings (scoring.metrics, scoring.k_values) accept
// comma-separated strings from the environment:
//
//	EVAL_SCORING_METRICS=hit,mrr,recall
//	EVAL_SCORING_K_VALUES=1,5,10
//
// The loaded configuration is validated with go-playground/validator before
// use; an invalid configuration aborts the run before any input file is read.
package config
