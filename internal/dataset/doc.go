// Cadenza - Conversational Playlist Recommendation Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadenza

// Package dataset defines the conversational recommendation data model and
// JSONL loaders for gold dialogs, track metadata, and model predictions.
//
// # File Formats
//
// The gold dataset is JSONL with one conversation per line:
//
//	{"id": "...", "turns": [...], "tracks": {...}, "goal_playlist": [...]}
//
// Model output is JSONL with one prediction per line, identifying a turn by
// docid and carrying a ranked neighbor list:
//
//	{"docid": "<conversation_id>:<turn_index>", "neighbor": [{"docid": "<track_id>"}, ...]}
//
// An optional global track-metadata file is JSONL with one track per line;
// its entries overlay and augment the per-conversation track maps.
//
// # Errors
//
// Loaders fail fast with *ParseError (malformed line, with file and line
// number) so that a truncated or corrupted input never produces a partial
// score. Align fails with *AlignmentError when a prediction's docid does not
// resolve to a known conversation and turn.
//
// Gold data is immutable after load; predictions are read once and consumed
// turn by turn during scoring.
package dataset
