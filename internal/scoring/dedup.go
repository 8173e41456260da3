// Cadenza - Conversational Playlist Recommendation Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadenza

package scoring

import (
	"github.com/tomtom215/cadenza/internal/dataset"
)

// ClusterIDs collapses a ranked list of track ids into their cluster ids,
// preserving first-occurrence order and dropping any track whose cluster has
// already appeared. A track absent from the metadata map (or with no cluster
// assignment) is treated as its own singleton cluster, keyed by its track id.
//
// The operation is idempotent: applying it to an already-deduplicated
// cluster list returns the same list.
func ClusterIDs(trackIDs []dataset.TrackID, tracks map[dataset.TrackID]dataset.Track) []dataset.ClusterID {
	clusterIDs := make([]dataset.ClusterID, 0, len(trackIDs))

	seen := make(map[dataset.ClusterID]struct{}, len(trackIDs))
	for _, trackID := range trackIDs {
		clusterID := clusterFor(trackID, tracks)
		if _, ok := seen[clusterID]; ok {
			continue
		}
		seen[clusterID] = struct{}{}
		clusterIDs = append(clusterIDs, clusterID)
	}

	return clusterIDs
}

// clusterFor resolves one track id to its cluster id, falling back to a
// singleton cluster for unknown or unclustered tracks.
func clusterFor(trackID dataset.TrackID, tracks map[dataset.TrackID]dataset.Track) dataset.ClusterID {
	track, ok := tracks[trackID]
	if !ok || track.ClusterID == "" {
		return dataset.ClusterID(trackID)
	}
	return track.ClusterID
}
