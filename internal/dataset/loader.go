// Cadenza - Conversational Playlist Recommendation Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadenza

package dataset

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cadenza/internal/logging"
)

// scanner buffer sizing: a single conversation line carries its full track
// metadata map and can run to several megabytes.
const (
	scanInitialBuffer = 1 << 20  // 1MB
	scanMaxBuffer     = 64 << 20 // 64MB
)

// forEachLine streams the non-blank lines of a JSONL file, reporting the
// 1-based line number. The callback's error is wrapped in a *ParseError.
func forEachLine(path string, fn func(line []byte) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, scanInitialBuffer), scanMaxBuffer)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		if err := fn(line); err != nil {
			return &ParseError{File: path, Line: lineNo, Err: err}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return nil
}

// LoadConversations parses a gold dialog file (one conversation per line)
// into a map keyed by conversation id. A repeated conversation id is an
// error: gold data must identify each conversation exactly once.
func LoadConversations(path string) (map[ConversationID]*Conversation, error) {
	conversations := make(map[ConversationID]*Conversation)

	err := forEachLine(path, func(line []byte) error {
		conv := &Conversation{}
		if err := json.Unmarshal(line, conv); err != nil {
			return err
		}
		if conv.ID == "" {
			return fmt.Errorf("conversation missing id")
		}
		if _, ok := conversations[conv.ID]; ok {
			return fmt.Errorf("duplicate conversation id %q", conv.ID)
		}
		if conv.Tracks == nil {
			conv.Tracks = make(map[TrackID]Track)
		}
		conversations[conv.ID] = conv
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.Debug().
		Str("file", path).
		Int("conversations", len(conversations)).
		Msg("Loaded gold data")

	return conversations, nil
}

// LoadTracks parses a global track-metadata file (one track per line) into a
// map keyed by track id.
func LoadTracks(path string) (map[TrackID]Track, error) {
	tracks := make(map[TrackID]Track)

	err := forEachLine(path, func(line []byte) error {
		var track Track
		if err := json.Unmarshal(line, &track); err != nil {
			return err
		}
		if track.ID == "" {
			return fmt.Errorf("track missing track_ids")
		}
		tracks[track.ID] = track
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.Debug().
		Str("file", path).
		Int("tracks", len(tracks)).
		Msg("Loaded track metadata")

	return tracks, nil
}

// ApplyTrackOverlay fills gaps in the per-conversation track maps from a
// global metadata map. Conversation-local metadata wins; the overlay only
// adds tracks a conversation references but does not carry itself.
func ApplyTrackOverlay(conversations map[ConversationID]*Conversation, overlay map[TrackID]Track) {
	if len(overlay) == 0 {
		return
	}
	added := 0
	for _, conv := range conversations {
		for _, id := range conv.referencedTracks() {
			if _, ok := conv.Tracks[id]; ok {
				continue
			}
			if track, ok := overlay[id]; ok {
				conv.Tracks[id] = track
				added++
			}
		}
	}
	logging.Debug().Int("added", added).Msg("Applied track metadata overlay")
}

// referencedTracks returns every track id the conversation mentions in
// search results, feedback, or its goal playlist. Order is not significant.
func (c *Conversation) referencedTracks() []TrackID {
	var ids []TrackID
	for _, turn := range c.Turns {
		for _, results := range turn.SearchResults {
			ids = append(ids, results...)
		}
		ids = append(ids, turn.LikedResults...)
		ids = append(ids, turn.DislikedResults...)
	}
	ids = append(ids, c.GoalPlaylist...)
	return ids
}

// LoadPredictions parses a model-output file (one prediction per line) into
// a map keyed by docid. Neighbor order is preserved as given; the last record
// wins if a docid repeats, matching the reference implementation.
func LoadPredictions(path string) (map[string]Prediction, error) {
	predictions := make(map[string]Prediction)

	err := forEachLine(path, func(line []byte) error {
		var pred Prediction
		if err := json.Unmarshal(line, &pred); err != nil {
			return err
		}
		if pred.Docid == "" {
			return fmt.Errorf("prediction missing docid")
		}
		predictions[pred.Docid] = pred
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.Debug().
		Str("file", path).
		Int("predictions", len(predictions)).
		Msg("Loaded model output")

	return predictions, nil
}

// Align verifies that every prediction docid resolves to a known conversation
// and an in-range turn index. It returns the first *AlignmentError found, or
// nil when all predictions align.
func Align(predictions map[string]Prediction, conversations map[ConversationID]*Conversation) error {
	for docid := range predictions {
		parsed, err := ParseDocid(docid)
		if err != nil {
			return &AlignmentError{Docid: docid, Reason: err.Error()}
		}
		conv, ok := conversations[parsed.Conversation]
		if !ok {
			return &AlignmentError{
				Docid:  docid,
				Reason: fmt.Sprintf("unknown conversation %q", parsed.Conversation),
			}
		}
		if parsed.Turn >= len(conv.Turns) {
			return &AlignmentError{
				Docid: docid,
				Reason: fmt.Sprintf("turn index %d out of range (conversation has %d turns)",
					parsed.Turn, len(conv.Turns)),
			}
		}
	}
	return nil
}
