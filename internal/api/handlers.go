package api

import (
	"encoding/json/v2"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kansouapp/kansou-server/internal/http/response"
	"github.com/kansouapp/kansou-server/internal/service"
)

// handleCorpusSummary returns corpus-level facts for the search screen.
func (s *Server) handleCorpusSummary(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, s.bookService.Summary(), s.logger)
}

// handleListGenres returns the distinct genre tags found in the corpus.
func (s *Server) handleListGenres(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]any{
		"genres": s.bookService.Summary().Genres,
	}, s.logger)
}

// handleSuggest returns autocomplete candidates for a word prefix.
func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("q")
	if prefix == "" {
		response.BadRequest(w, "query parameter 'q' is required", s.logger)
		return
	}

	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 50 {
			response.BadRequest(w, "limit must be between 1 and 50", s.logger)
			return
		}
		limit = n
	}

	words, err := s.suggestService.Suggest(r.Context(), prefix, limit)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, map[string]any{
		"suggestions": words,
	}, s.logger)
}

// handleCreateSession opens a new navigation session in the search state.
func (s *Server) handleCreateSession(w http.ResponseWriter, _ *http.Request) {
	sess := s.sessions.Create()
	response.Created(w, sess, s.logger)
}

// handleGetSession returns the current session snapshot (state, query, results).
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, sess, s.logger)
}

// handleGetResults returns the last search outcome recorded on the session.
func (s *Server) handleGetResults(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, map[string]any{
		"state":   sess.State,
		"query":   sess.Query,
		"results": sess.Results,
	}, s.logger)
}

// handleSearch runs a search for a session and records the outcome.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req service.SearchRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid request body", s.logger)
		return
	}

	result, err := s.searchService.Run(chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, result, s.logger)
}

type selectRequest struct {
	ResultIndex int `json:"result_index"`
}

// handleSelect picks a result row and moves the session to the detail view.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid request body", s.logger)
		return
	}

	bookIndex, err := s.sessions.Select(chi.URLParam(r, "id"), req.ResultIndex)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	detail, err := s.bookService.Detail(bookIndex)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, detail, s.logger)
}

// handleBack performs the back transition and reports the resulting state.
func (s *Server) handleBack(w http.ResponseWriter, r *http.Request) {
	state, err := s.sessions.Back(chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, map[string]string{
		"state": string(state),
	}, s.logger)
}

// handleGetBookDetail returns one book with its radar and bar-chart data.
func (s *Server) handleGetBookDetail(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		response.BadRequest(w, "book index must be an integer", s.logger)
		return
	}

	detail, err := s.bookService.Detail(index)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, detail, s.logger)
}

// handleGetBookMetadata returns supplementary metadata for a book. The
// response is always 200: unavailable metadata is reported in-band with
// available=false and a reason.
func (s *Server) handleGetBookMetadata(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		response.BadRequest(w, "book index must be an integer", s.logger)
		return
	}

	book, err := s.bookService.Get(index)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	md := s.metadataService.ForBook(r.Context(), book)
	response.Success(w, md, s.logger)
}
