// Cadenza - Conversational Playlist Recommendation Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadenza

package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeFile writes content to a file under a test temp dir and returns its path.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

const goldLine = `{"id": "c1", "turns": [{"user_query": "something upbeat", "system_response": "how about these", "search_queries": ["upbeat pop"], "search_results": [["t1", "t2"]], "liked_results": ["t1"], "disliked_results": ["t2"]}], "tracks": {"t1": {"track_ids": "t1", "track_titles": "Song A", "track_artists": ["Artist A"], "track_cluster_ids": "cl1", "track_canonical_ids": "t1"}, "t2": {"track_ids": "t2", "track_titles": "Song B", "track_artists": ["Artist B"], "track_cluster_ids": "cl2", "track_canonical_ids": "t2"}}, "goal_playlist": ["t1"]}`

func TestLoadConversations(t *testing.T) {
	path := writeFile(t, "gold.jsonl", goldLine+"\n")

	convs, err := LoadConversations(path)
	if err != nil {
		t.Fatalf("LoadConversations() error: %v", err)
	}

	conv, ok := convs["c1"]
	if !ok {
		t.Fatalf("conversation c1 not loaded; got %d conversations", len(convs))
	}
	if len(conv.Turns) != 1 {
		t.Fatalf("len(Turns) = %d, want 1", len(conv.Turns))
	}

	turn := conv.Turns[0]
	if turn.UserQuery != "something upbeat" {
		t.Errorf("UserQuery = %q", turn.UserQuery)
	}
	if len(turn.SearchResults) != 1 || len(turn.SearchResults[0]) != 2 {
		t.Errorf("SearchResults = %v, want one list of two tracks", turn.SearchResults)
	}
	if track, ok := conv.Tracks["t1"]; !ok || track.ClusterID != "cl1" {
		t.Errorf("Tracks[t1] = %+v, want cluster cl1", track)
	}
	if len(conv.GoalPlaylist) != 1 || conv.GoalPlaylist[0] != "t1" {
		t.Errorf("GoalPlaylist = %v, want [t1]", conv.GoalPlaylist)
	}
}

func TestLoadConversations_Errors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantLine int
	}{
		{"malformed json", goldLine + "\n{not json}\n", 2},
		{"missing id", `{"turns": []}` + "\n", 1},
		{"duplicate id", goldLine + "\n" + goldLine + "\n", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "gold.jsonl", tt.content)

			_, err := LoadConversations(path)
			if err == nil {
				t.Fatal("expected error, got nil")
			}

			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected *ParseError, got %T: %v", err, err)
			}
			if parseErr.Line != tt.wantLine {
				t.Errorf("ParseError.Line = %d, want %d", parseErr.Line, tt.wantLine)
			}
			if parseErr.File != path {
				t.Errorf("ParseError.File = %q, want %q", parseErr.File, path)
			}
			if !strings.Contains(parseErr.Error(), path) {
				t.Errorf("error message should name the file: %v", parseErr)
			}
		})
	}
}

func TestLoadConversations_SkipsBlankLines(t *testing.T) {
	path := writeFile(t, "gold.jsonl", "\n"+goldLine+"\n\n")

	convs, err := LoadConversations(path)
	if err != nil {
		t.Fatalf("LoadConversations() error: %v", err)
	}
	if len(convs) != 1 {
		t.Errorf("len(convs) = %d, want 1", len(convs))
	}
}

func TestLoadConversations_MissingFile(t *testing.T) {
	_, err := LoadConversations(filepath.Join(t.TempDir(), "absent.jsonl"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadTracks(t *testing.T) {
	content := `{"track_ids": "t9", "track_titles": "Song X", "track_artists": ["A", "B"], "track_release_titles": "Album X", "track_cluster_ids": "cl9", "track_canonical_ids": "t9"}` + "\n"
	path := writeFile(t, "tracks.jsonl", content)

	tracks, err := LoadTracks(path)
	if err != nil {
		t.Fatalf("LoadTracks() error: %v", err)
	}

	track, ok := tracks["t9"]
	if !ok {
		t.Fatal("track t9 not loaded")
	}
	if track.Title != "Song X" || track.ClusterID != "cl9" {
		t.Errorf("track = %+v", track)
	}
	if len(track.Artists) != 2 {
		t.Errorf("Artists = %v, want 2 entries", track.Artists)
	}
}

func TestApplyTrackOverlay(t *testing.T) {
	conv := &Conversation{
		ID: "c1",
		Turns: []Turn{{
			LikedResults: []TrackID{"t1", "t2"},
		}},
		Tracks: map[TrackID]Track{
			"t1": {ID: "t1", ClusterID: "local"},
		},
	}
	convs := map[ConversationID]*Conversation{"c1": conv}

	overlay := map[TrackID]Track{
		"t1": {ID: "t1", ClusterID: "global"}, // must not clobber local entry
		"t2": {ID: "t2", ClusterID: "cl2"},
		"t3": {ID: "t3", ClusterID: "cl3"}, // unreferenced, must not be copied
	}

	ApplyTrackOverlay(convs, overlay)

	if conv.Tracks["t1"].ClusterID != "local" {
		t.Errorf("overlay clobbered local metadata: %+v", conv.Tracks["t1"])
	}
	if conv.Tracks["t2"].ClusterID != "cl2" {
		t.Errorf("overlay did not fill t2: %+v", conv.Tracks["t2"])
	}
	if _, ok := conv.Tracks["t3"]; ok {
		t.Error("overlay copied unreferenced track t3")
	}
}

func TestLoadPredictions(t *testing.T) {
	content := `{"docid": "c1:0", "neighbor": [{"docid": "t3"}, {"docid": "t1", "distance": 0.5}]}` + "\n" +
		`{"docid": "c1:1", "neighbor": []}` + "\n"
	path := writeFile(t, "preds.jsonl", content)

	preds, err := LoadPredictions(path)
	if err != nil {
		t.Fatalf("LoadPredictions() error: %v", err)
	}
	if len(preds) != 2 {
		t.Fatalf("len(preds) = %d, want 2", len(preds))
	}

	got := preds["c1:0"].TrackIDs()
	want := []TrackID{"t3", "t1"}
	if len(got) != len(want) {
		t.Fatalf("TrackIDs() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("TrackIDs()[%d] = %q, want %q (rank order must be preserved)", i, got[i], want[i])
		}
	}
}

func TestLoadPredictions_LastRecordWins(t *testing.T) {
	content := `{"docid": "c1:0", "neighbor": [{"docid": "old"}]}` + "\n" +
		`{"docid": "c1:0", "neighbor": [{"docid": "new"}]}` + "\n"
	path := writeFile(t, "preds.jsonl", content)

	preds, err := LoadPredictions(path)
	if err != nil {
		t.Fatalf("LoadPredictions() error: %v", err)
	}
	if ids := preds["c1:0"].TrackIDs(); len(ids) != 1 || ids[0] != "new" {
		t.Errorf("TrackIDs() = %v, want [new]", ids)
	}
}

func TestParseDocid(t *testing.T) {
	tests := []struct {
		input    string
		wantConv ConversationID
		wantTurn int
		wantErr  bool
	}{
		{"c1:0", "c1", 0, false},
		{"conversation-42:17", "conversation-42", 17, false},
		{"c1:", "", 0, true},
		{":3", "", 0, true},
		{"c1", "", 0, true},
		{"c1:abc", "", 0, true},
		{"c1:-1", "", 0, true},
		{"", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			docid, err := ParseDocid(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseDocid(%q) expected error, got %+v", tt.input, docid)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDocid(%q) error: %v", tt.input, err)
			}
			if docid.Conversation != tt.wantConv || docid.Turn != tt.wantTurn {
				t.Errorf("ParseDocid(%q) = %+v, want {%s %d}", tt.input, docid, tt.wantConv, tt.wantTurn)
			}
		})
	}
}

func TestDocidRoundTrip(t *testing.T) {
	d := Docid{Conversation: "c7", Turn: 3}
	parsed, err := ParseDocid(d.String())
	if err != nil {
		t.Fatalf("round trip error: %v", err)
	}
	if parsed != d {
		t.Errorf("round trip = %+v, want %+v", parsed, d)
	}
}

func TestAlign(t *testing.T) {
	convs := map[ConversationID]*Conversation{
		"c1": {ID: "c1", Turns: make([]Turn, 2)},
	}

	tests := []struct {
		name    string
		docid   string
		wantErr bool
	}{
		{"valid first turn", "c1:0", false},
		{"valid last turn", "c1:1", false},
		{"turn out of range", "c1:2", true},
		{"unknown conversation", "c2:0", true},
		{"unparseable docid", "c1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			preds := map[string]Prediction{tt.docid: {Docid: tt.docid}}

			err := Align(preds, convs)
			if tt.wantErr {
				var alignErr *AlignmentError
				if !errors.As(err, &alignErr) {
					t.Fatalf("expected *AlignmentError, got %T: %v", err, err)
				}
				if alignErr.Docid != tt.docid {
					t.Errorf("AlignmentError.Docid = %q, want %q", alignErr.Docid, tt.docid)
				}
				return
			}
			if err != nil {
				t.Errorf("Align() error: %v", err)
			}
		})
	}
}

func FuzzParseDocid(f *testing.F) {
	f.Add("c1:0")
	f.Add("conversation:10")
	f.Add(":-1")
	f.Add("a:b:c")

	f.Fuzz(func(t *testing.T, s string) {
		docid, err := ParseDocid(s)
		if err != nil {
			return
		}
		// Parsed docids must survive a format/parse round trip.
		reparsed, err := ParseDocid(docid.String())
		if err != nil {
			t.Fatalf("round trip of %q failed: %v", s, err)
		}
		if reparsed.Turn != docid.Turn {
			t.Fatalf("round trip turn mismatch: %d != %d", reparsed.Turn, docid.Turn)
		}
	})
}
