// Cadenza - Conversational Playlist Recommendation Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadenza

package dataset

import (
	"fmt"
	"strconv"
	"strings"
)

// ConversationID identifies a recorded conversation.
type ConversationID string

// TrackID identifies a single track (one encoding/release of a song).
type TrackID string

// ClusterID identifies a group of near-duplicate tracks. Tracks sharing a
// cluster id are interchangeable for scoring purposes.
type ClusterID string

// Track holds the metadata for one track. Field names follow the published
// dataset schema.
type Track struct {
	ID           TrackID   `json:"track_ids"`
	Title        string    `json:"track_titles"`
	Artists      []string  `json:"track_artists"`
	ReleaseTitle string    `json:"track_release_titles"`
	CanonicalID  TrackID   `json:"track_canonical_ids"`
	ClusterID    ClusterID `json:"track_cluster_ids"`
}

// Turn is one exchange in a conversation: the user utterance, the wizard's
// reply, any searches issued, and the user's feedback on retrieved tracks.
// SearchResults is positionally aligned with SearchQueries.
type Turn struct {
	UserQuery       string      `json:"user_query"`
	SystemResponse  string      `json:"system_response"`
	SearchQueries   []string    `json:"search_queries"`
	SearchResults   [][]TrackID `json:"search_results"`
	LikedResults    []TrackID   `json:"liked_results"`
	DislikedResults []TrackID   `json:"disliked_results"`
}

// Conversation is one recorded dialog with its track metadata and the goal
// playlist (the tracks the user ultimately wanted).
type Conversation struct {
	ID           ConversationID    `json:"id"`
	Turns        []Turn            `json:"turns"`
	Tracks       map[TrackID]Track `json:"tracks"`
	GoalPlaylist []TrackID         `json:"goal_playlist"`
}

// Neighbor is one entry of a ranked retrieval list.
type Neighbor struct {
	Docid    TrackID `json:"docid"`
	Distance float64 `json:"distance,omitempty"`
}

// Prediction is one model-output record: a ranked neighbor list for the turn
// identified by Docid ("<conversation_id>:<turn_index>").
type Prediction struct {
	Docid    string     `json:"docid"`
	Neighbor []Neighbor `json:"neighbor"`
}

// TrackIDs returns the predicted track ids in rank order.
func (p Prediction) TrackIDs() []TrackID {
	ids := make([]TrackID, len(p.Neighbor))
	for i, n := range p.Neighbor {
		ids[i] = n.Docid
	}
	return ids
}

// Docid pairs a conversation id with a turn index.
type Docid struct {
	Conversation ConversationID
	Turn         int
}

// String formats the docid in its wire form.
func (d Docid) String() string {
	return fmt.Sprintf("%s:%d", d.Conversation, d.Turn)
}

// ParseDocid splits a docid of the form "<conversation_id>:<turn_index>".
// The split is on the first colon, so conversation ids may not contain one.
func ParseDocid(s string) (Docid, error) {
	conv, turn, found := strings.Cut(s, ":")
	if !found || conv == "" {
		return Docid{}, fmt.Errorf("docid %q: want \"<conversation_id>:<turn_index>\"", s)
	}
	idx, err := strconv.Atoi(turn)
	if err != nil {
		return Docid{}, fmt.Errorf("docid %q: turn index: %w", s, err)
	}
	if idx < 0 {
		return Docid{}, fmt.Errorf("docid %q: turn index must be non-negative", s)
	}
	return Docid{Conversation: ConversationID(conv), Turn: idx}, nil
}
