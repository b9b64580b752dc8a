package api

import (
	"encoding/json/v2"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kansouapp/kansou-server/internal/corpus"
	"github.com/kansouapp/kansou-server/internal/domain"
	"github.com/kansouapp/kansou-server/internal/extract"
	"github.com/kansouapp/kansou-server/internal/rank"
	"github.com/kansouapp/kansou-server/internal/service"
	"github.com/kansouapp/kansou-server/internal/session"
	"github.com/kansouapp/kansou-server/internal/store"
	"github.com/kansouapp/kansou-server/internal/suggest"
	"github.com/kansouapp/kansou-server/internal/summary"
	"github.com/kansouapp/kansou-server/internal/tokenize"
)

// adjectiveTokenizer treats every whitespace-separated word as an adjective
// so corpus reviews can spell out their word lists directly.
type adjectiveTokenizer struct{}

func (adjectiveTokenizer) Tokenize(text string) []tokenize.Token {
	var out []tokenize.Token
	for _, f := range strings.Fields(text) {
		out = append(out, tokenize.Token{Surface: f, Base: f, POS: []string{"形容詞", "自立"}})
	}
	return out
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	c := &corpus.Corpus{
		Books: []domain.Book{
			{Index: 0, Title: "夜の本", Author: "山田", Review: "怖い 怖い 暗い", Genres: []string{"ホラー"}, Scores: map[string]int{"grotesque": 4}},
			{Index: 1, Title: "光の本", Author: "佐藤", Review: "怖い", Genres: []string{"SF"}, Scores: map[string]int{"grotesque": 1}},
		},
		Axes:   domain.BaseAxes,
		Genres: []string{"SF", "ホラー"},
	}

	e := extract.New(adjectiveTokenizer{}, extract.Policy{}, log)
	engine := rank.New(c, e)
	summarizer := summary.New(c, e)

	index, err := suggest.NewIndex(suggest.BuildVocabulary(c, e), log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	st, err := store.New(t.TempDir(), log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	sessions := session.NewManager(time.Hour, log)
	t.Cleanup(sessions.Stop)

	searchService := service.NewSearchService(engine, sessions, log)
	bookService := service.NewBookService(c, summarizer, log)
	suggestService := service.NewSuggestService(index, log)
	metadataService := service.NewMetadataService(nil, st, time.Hour, log)

	return NewServer(searchService, bookService, suggestService, metadataService, sessions, log)
}

// do executes a request against the server.
func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

// decode unpacks a success envelope's data payload.
func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var envelope struct {
		Success bool `json:"success"`
		Data    T    `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	return envelope.Data
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	data := decode[map[string]string](t, rec)
	assert.Equal(t, "healthy", data["status"])
}

func TestCorpusSummaryAndGenres(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/api/v1/corpus", "")
	require.Equal(t, http.StatusOK, rec.Code)

	summary := decode[service.CorpusSummary](t, rec)
	assert.Equal(t, 2, summary.Books)
	assert.Len(t, summary.Axes, 6)
	assert.Equal(t, []string{"SF", "ホラー"}, summary.Genres)

	rec = do(t, srv, http.MethodGet, "/api/v1/genres", "")
	require.Equal(t, http.StatusOK, rec.Code)

	genres := decode[struct {
		Genres []string `json:"genres"`
	}](t, rec)
	assert.Equal(t, []string{"SF", "ホラー"}, genres.Genres)
}

func TestSessionFlow(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/v1/sessions", "")
	require.Equal(t, http.StatusCreated, rec.Code)

	sess := decode[session.Session](t, rec)
	require.NotEmpty(t, sess.ID)
	assert.Equal(t, session.StateSearch, sess.State)

	base := "/api/v1/sessions/" + sess.ID

	// Search ranks both books, highest count first.
	rec = do(t, srv, http.MethodPost, base+"/search", `{"word":"怖い"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	result := decode[service.SearchResult](t, rec)
	assert.True(t, result.Performed)
	require.Len(t, result.Hits, 2)
	assert.Equal(t, 0, result.Hits[0].BookIndex)
	assert.Equal(t, 2, result.Hits[0].Count)
	assert.Equal(t, 1, result.Hits[0].Rank)

	// The recorded results are retrievable.
	rec = do(t, srv, http.MethodGet, base+"/results", "")
	require.Equal(t, http.StatusOK, rec.Code)
	results := decode[struct {
		State   string             `json:"state"`
		Results []domain.SearchHit `json:"results"`
	}](t, rec)
	assert.Equal(t, "results", results.State)
	assert.Len(t, results.Results, 2)

	// Selecting a result row moves to detail and returns the book view.
	rec = do(t, srv, http.MethodPost, base+"/select", `{"result_index":0}`)
	require.Equal(t, http.StatusOK, rec.Code)

	detail := decode[service.BookDetail](t, rec)
	assert.Equal(t, "夜の本", detail.Book.Title)
	assert.Len(t, detail.Axes, 6)
	require.NotEmpty(t, detail.TopWords)
	assert.Equal(t, "怖い", detail.TopWords[0].Word)

	// Back returns to results, then to the search screen.
	rec = do(t, srv, http.MethodPost, base+"/back", "")
	require.Equal(t, http.StatusOK, rec.Code)
	back := decode[map[string]string](t, rec)
	assert.Equal(t, "results", back["state"])

	rec = do(t, srv, http.MethodPost, base+"/back", "")
	require.Equal(t, http.StatusOK, rec.Code)
	back = decode[map[string]string](t, rec)
	assert.Equal(t, "search", back["state"])
}

func TestSearch_EmptyWordNotPerformed(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/v1/sessions", "")
	sess := decode[session.Session](t, rec)

	rec = do(t, srv, http.MethodPost, "/api/v1/sessions/"+sess.ID+"/search", `{"word":"  "}`)
	require.Equal(t, http.StatusOK, rec.Code)

	result := decode[service.SearchResult](t, rec)
	assert.False(t, result.Performed)
	assert.Empty(t, result.Hits)

	// The session stays on the search screen.
	got, err := srv.sessions.Get(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, session.StateSearch, got.State)
}

func TestSearch_GenreFilter(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/v1/sessions", "")
	sess := decode[session.Session](t, rec)

	rec = do(t, srv, http.MethodPost, "/api/v1/sessions/"+sess.ID+"/search", `{"word":"怖い","genres":["SF"]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	result := decode[service.SearchResult](t, rec)
	require.Len(t, result.Hits, 1)
	assert.Equal(t, 1, result.Hits[0].BookIndex)
}

func TestSelect_StaleIndex(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/v1/sessions", "")
	sess := decode[session.Session](t, rec)
	base := "/api/v1/sessions/" + sess.ID

	// Selecting before any search ran.
	rec = do(t, srv, http.MethodPost, base+"/select", `{"result_index":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	do(t, srv, http.MethodPost, base+"/search", `{"word":"怖い"}`)

	// Selecting outside the current result list.
	rec = do(t, srv, http.MethodPost, base+"/select", `{"result_index":5}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSession_NotFound(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/v1/sessions/sess-missing/search", `{"word":"怖い"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/v1/sessions/sess-missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBookDetail(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/api/v1/books/1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	detail := decode[service.BookDetail](t, rec)
	assert.Equal(t, "光の本", detail.Book.Title)

	rec = do(t, srv, http.MethodGet, "/api/v1/books/99", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/v1/books/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBookMetadata_PlaceholderWithoutISBN(t *testing.T) {
	srv := newTestServer(t)

	// The corpus book has no ISBN and no client is configured; the endpoint
	// still answers 200 with an in-band unavailable result.
	rec := do(t, srv, http.MethodGet, "/api/v1/books/0/metadata", "")
	require.Equal(t, http.StatusOK, rec.Code)

	md := decode[domain.BookMetadata](t, rec)
	assert.False(t, md.Available)
	assert.NotEmpty(t, md.Reason)
}

func TestSuggest(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/api/v1/suggest?q=%E6%80%96", "")
	require.Equal(t, http.StatusOK, rec.Code)

	data := decode[struct {
		Suggestions []domain.WordCount `json:"suggestions"`
	}](t, rec)
	require.Len(t, data.Suggestions, 1)
	assert.Equal(t, "怖い", data.Suggestions[0].Word)
	assert.Equal(t, 3, data.Suggestions[0].Count)

	rec = do(t, srv, http.MethodGet, "/api/v1/suggest", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/v1/suggest?q=x&limit=0", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
