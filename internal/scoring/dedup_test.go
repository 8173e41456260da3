// Cadenza - Conversational Playlist Recommendation Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadenza

package scoring

import (
	"reflect"
	"testing"

	"github.com/tomtom215/cadenza/internal/dataset"
)

// testTracks builds a metadata map from track id -> cluster id pairs.
func testTracks(clusters map[dataset.TrackID]dataset.ClusterID) map[dataset.TrackID]dataset.Track {
	tracks := make(map[dataset.TrackID]dataset.Track, len(clusters))
	for id, cluster := range clusters {
		tracks[id] = dataset.Track{ID: id, ClusterID: cluster}
	}
	return tracks
}

func TestClusterIDs(t *testing.T) {
	tracks := testTracks(map[dataset.TrackID]dataset.ClusterID{
		"a":  "clA",
		"a2": "clA", // near-duplicate of a
		"b":  "clB",
		"c":  "clC",
	})

	tests := []struct {
		name  string
		input []dataset.TrackID
		want  []dataset.ClusterID
	}{
		{
			name:  "no duplicates",
			input: []dataset.TrackID{"a", "b", "c"},
			want:  []dataset.ClusterID{"clA", "clB", "clC"},
		},
		{
			name:  "duplicate cluster dropped, first occurrence kept",
			input: []dataset.TrackID{"a", "b", "a2"},
			want:  []dataset.ClusterID{"clA", "clB"},
		},
		{
			name:  "same track repeated",
			input: []dataset.TrackID{"b", "b", "b"},
			want:  []dataset.ClusterID{"clB"},
		},
		{
			name:  "unknown track becomes singleton cluster",
			input: []dataset.TrackID{"a", "mystery"},
			want:  []dataset.ClusterID{"clA", "mystery"},
		},
		{
			name:  "empty input",
			input: nil,
			want:  []dataset.ClusterID{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClusterIDs(tt.input, tracks)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ClusterIDs(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestClusterIDs_Idempotent(t *testing.T) {
	tracks := testTracks(map[dataset.TrackID]dataset.ClusterID{
		"a":  "clA",
		"a2": "clA",
		"b":  "clB",
	})

	once := ClusterIDs([]dataset.TrackID{"a", "b", "a2"}, tracks)

	// Re-deduplicating the cluster list: cluster ids are unknown track ids,
	// so each maps to itself.
	asTracks := make([]dataset.TrackID, len(once))
	for i, cluster := range once {
		asTracks[i] = dataset.TrackID(cluster)
	}
	twice := ClusterIDs(asTracks, tracks)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("deduplication not idempotent: %v != %v", once, twice)
	}
}

func TestClusterIDs_UnclusteredTrack(t *testing.T) {
	// A track present in metadata but with no cluster assignment falls back
	// to a singleton cluster.
	tracks := map[dataset.TrackID]dataset.Track{
		"x": {ID: "x", Title: "Unclustered"},
	}

	got := ClusterIDs([]dataset.TrackID{"x", "x"}, tracks)
	want := []dataset.ClusterID{"x"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ClusterIDs = %v, want %v", got, want)
	}
}
