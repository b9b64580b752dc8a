// Package session holds per-user query and navigation state.
//
// The corpus and its derived caches are shared read-only across sessions;
// everything in this package is strictly per session and never shared.
package session

import (
	"time"

	"github.com/kansouapp/kansou-server/internal/domain"
	"github.com/kansouapp/kansou-server/internal/errors"
	"github.com/kansouapp/kansou-server/internal/rank"
)

// State is the navigation state of one session.
type State string

// Navigation states. A session starts in StateSearch; there is no terminal
// state, the loop runs as long as the session lives.
const (
	StateSearch  State = "search"
	StateResults State = "results"
	StateDetail  State = "detail"
)

// Query is the filter set of the last submitted search.
type Query struct {
	Word       string                `json:"word"`
	Genres     []string              `json:"genres,omitempty"`
	AxisRanges map[string]rank.Range `json:"axis_ranges,omitempty"`
}

// Session is one user's transient interaction state.
// Mutated only through Manager methods, which hold the manager lock.
type Session struct {
	ID       string             `json:"id"`
	State    State              `json:"state"`
	Query    Query              `json:"query"`
	Results  []domain.SearchHit `json:"results,omitempty"`
	Selected int                `json:"selected"` // index into Results, -1 when nothing selected
	LastSeen time.Time          `json:"last_seen"`
}

// SetResults records a completed search and moves to the results view.
// Any previous result list and selection are discarded: a new search
// supersedes them.
func (s *Session) SetResults(q Query, hits []domain.SearchHit) {
	s.Query = q
	s.Results = hits
	s.Selected = -1
	s.State = StateResults
}

// Select moves to the detail view for one result row and returns the corpus
// index of the selected book. Selecting outside the current result list is
// the stale-state case and yields an invalid-selection error.
func (s *Session) Select(resultIndex int) (int, error) {
	if s.State != StateResults {
		return 0, errors.InvalidSelection("no active result list, run a search first")
	}
	if resultIndex < 0 || resultIndex >= len(s.Results) {
		return 0, errors.InvalidSelection("selection is outside the current result list")
	}
	s.Selected = resultIndex
	s.State = StateDetail
	return s.Results[resultIndex].BookIndex, nil
}

// Back performs the state-machine back transition:
// Detail returns to Results, Results returns to Search (clearing results).
func (s *Session) Back() State {
	switch s.State {
	case StateDetail:
		s.Selected = -1
		s.State = StateResults
	case StateResults:
		s.Results = nil
		s.Selected = -1
		s.Query = Query{}
		s.State = StateSearch
	}
	return s.State
}
