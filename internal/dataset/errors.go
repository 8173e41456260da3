// Cadenza - Conversational Playlist Recommendation Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadenza

package dataset

import "fmt"

// ParseError reports a malformed line in an input file. The run aborts on a
// ParseError: scoring a partially loaded file would silently misreport
// coverage.
type ParseError struct {
	File string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// AlignmentError reports a prediction docid that does not resolve to a known
// conversation and turn. The run aborts: partial scoring against the wrong
// gold turns would be misleading.
type AlignmentError struct {
	Docid  string
	Reason string
}

func (e *AlignmentError) Error() string {
	return fmt.Sprintf("prediction %q: %s", e.Docid, e.Reason)
}
