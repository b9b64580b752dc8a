package session

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kansouapp/kansou-server/internal/domain"
	"github.com/kansouapp/kansou-server/internal/errors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testHits() []domain.SearchHit {
	return []domain.SearchHit{
		{BookIndex: 4, Title: "A", Count: 3, Rank: 1},
		{BookIndex: 9, Title: "B", Count: 1, Rank: 2},
	}
}

func TestSession_SetResults(t *testing.T) {
	s := &Session{State: StateSearch, Selected: -1}

	s.SetResults(Query{Word: "怖い"}, testHits())

	assert.Equal(t, StateResults, s.State)
	assert.Equal(t, "怖い", s.Query.Word)
	assert.Len(t, s.Results, 2)
	assert.Equal(t, -1, s.Selected)
}

func TestSession_Select(t *testing.T) {
	s := &Session{State: StateSearch, Selected: -1}

	// Selecting before any search is the stale-state case.
	_, err := s.Select(0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidSelection))

	s.SetResults(Query{Word: "怖い"}, testHits())

	bookIndex, err := s.Select(1)
	require.NoError(t, err)
	assert.Equal(t, 9, bookIndex)
	assert.Equal(t, StateDetail, s.State)
	assert.Equal(t, 1, s.Selected)
}

func TestSession_SelectOutOfRange(t *testing.T) {
	s := &Session{State: StateSearch, Selected: -1}
	s.SetResults(Query{Word: "怖い"}, testHits())

	for _, idx := range []int{-1, 2, 100} {
		_, err := s.Select(idx)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrInvalidSelection))
	}
	// A failed selection leaves the state where it was.
	assert.Equal(t, StateResults, s.State)
}

func TestSession_Back(t *testing.T) {
	s := &Session{State: StateSearch, Selected: -1}
	s.SetResults(Query{Word: "怖い"}, testHits())
	_, err := s.Select(0)
	require.NoError(t, err)

	// Detail -> Results keeps the result list.
	assert.Equal(t, StateResults, s.Back())
	assert.Len(t, s.Results, 2)
	assert.Equal(t, -1, s.Selected)

	// Results -> Search clears everything.
	assert.Equal(t, StateSearch, s.Back())
	assert.Empty(t, s.Results)
	assert.Empty(t, s.Query.Word)

	// Back at the search screen stays put.
	assert.Equal(t, StateSearch, s.Back())
}

func TestSession_NewSearchDiscardsOldResults(t *testing.T) {
	s := &Session{State: StateSearch, Selected: -1}
	s.SetResults(Query{Word: "怖い"}, testHits())
	_, err := s.Select(0)
	require.NoError(t, err)

	s.SetResults(Query{Word: "暗い"}, []domain.SearchHit{{BookIndex: 7, Count: 1, Rank: 1}})

	assert.Equal(t, StateResults, s.State)
	assert.Equal(t, -1, s.Selected)
	require.Len(t, s.Results, 1)
	assert.Equal(t, 7, s.Results[0].BookIndex)
}

func TestManager_CreateAndGet(t *testing.T) {
	m := NewManager(time.Hour, testLogger())
	defer m.Stop()

	s := m.Create()
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, StateSearch, s.State)

	got, err := m.Get(s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)

	_, err = m.Get("sess-unknown")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestManager_Flow(t *testing.T) {
	m := NewManager(time.Hour, testLogger())
	defer m.Stop()

	s := m.Create()
	require.NoError(t, m.SetResults(s.ID, Query{Word: "怖い"}, testHits()))

	bookIndex, err := m.Select(s.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, bookIndex)

	state, err := m.Back(s.ID)
	require.NoError(t, err)
	assert.Equal(t, StateResults, state)

	got, err := m.Get(s.ID)
	require.NoError(t, err)
	assert.Equal(t, StateResults, got.State)
	assert.Len(t, got.Results, 2)
}

func TestManager_Sweep(t *testing.T) {
	m := NewManager(10*time.Millisecond, testLogger())
	defer m.Stop()

	s := m.Create()

	// Force the idle clock past the TTL and sweep directly.
	m.mu.Lock()
	m.sessions[s.ID].LastSeen = time.Now().Add(-time.Minute)
	m.mu.Unlock()
	m.sweep()

	_, err := m.Get(s.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}
