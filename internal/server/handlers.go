package server

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"uttale/internal/audio"
	"uttale/internal/captions"
	"uttale/internal/logging"
	"uttale/internal/services"
)

const defaultSearchLimit = 100

func (s *Server) handleScopes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	q := r.URL.Query().Get("q")
	limit := parseLimit(r.URL.Query().Get("limit"))

	payload := ScopesResponse{Q: q, Limit: limit, Results: []string{}}
	scopes, err := s.store.SearchScopes(r.Context(), q, limit)
	if err != nil {
		// Scope listing is best-effort: an empty result beats a hard error.
		s.logger.Warn("scope search failed", logging.Error(err))
		s.writeJSON(w, http.StatusOK, payload)
		return
	}
	if scopes != nil {
		payload.Results = scopes
	}
	payload.ResultsCount = len(payload.Results)
	s.writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	query := r.URL.Query()
	q := query.Get("q")
	if strings.TrimSpace(q) == "" {
		s.writeError(w, http.StatusBadRequest, "q is required")
		return
	}
	scope := query.Get("scope")
	limit := parseLimit(query.Get("limit"))

	records, err := s.store.SearchText(r.Context(), q, scope, limit)
	if err != nil {
		wrapped := services.Wrap(services.ErrStoreQuery, "server", "search", "search query failed", err)
		s.logger.Error("text search failed", logging.Error(wrapped))
		s.writeError(w, http.StatusInternalServerError, "search query failed")
		return
	}

	payload := SearchResponse{Q: q, Scope: scope, Limit: limit, Results: records}
	if payload.Results == nil {
		payload.Results = []captions.Record{}
	}
	payload.ResultsCount = len(records)
	s.writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleAudio(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	query := r.URL.Query()
	req := audio.Request{
		Filename:    query.Get("filename"),
		Start:       query.Get("start"),
		End:         query.Get("end"),
		RangeHeader: r.Header.Get("Range"),
	}
	if strings.TrimSpace(req.Filename) == "" {
		s.writeError(w, http.StatusBadRequest, "filename is required")
		return
	}

	segment, err := s.extractor.Extract(r.Context(), req)
	if err != nil {
		s.writeError(w, services.HTTPStatus(err), publicMessage(err))
		return
	}

	for key, value := range segment.Headers {
		w.Header().Set(key, value)
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	status := http.StatusOK
	if segment.Partial {
		status = http.StatusPartialContent
	}
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := w.Write(segment.Data); err != nil {
		s.logger.Debug("audio response write failed", logging.Error(err))
	}
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	query := r.URL.Query()
	req := audio.Request{
		Filename: query.Get("filename"),
		Start:    query.Get("start"),
		End:      query.Get("end"),
	}
	if strings.TrimSpace(req.Filename) == "" {
		s.writeError(w, http.StatusBadRequest, "filename is required")
		return
	}

	if err := s.extractor.Play(r.Context(), req); err != nil {
		s.writeError(w, services.HTTPStatus(err), publicMessage(err))
		return
	}

	s.writeJSON(w, http.StatusOK, PlayResponse{
		Filename: req.Filename,
		Start:    req.Start,
		End:      req.End,
		Status:   "playing",
	})
}

func (s *Server) handleReindex(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	go func() {
		if _, err := s.coordinator.Run(context.Background()); err != nil {
			s.logger.Error("background reindex failed", logging.Error(err))
		}
	}()
	s.writeJSON(w, http.StatusOK, ReindexResponse{Status: "Reindexing started in background"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	lines, scopes, err := s.store.Counts(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "status query failed")
		return
	}
	s.writeJSON(w, http.StatusOK, StatusResponse{Lines: lines, Scopes: scopes})
}

func parseLimit(value string) int {
	limit, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || limit <= 0 {
		return defaultSearchLimit
	}
	return limit
}

// publicMessage strips the taxonomy/context prefix so responses carry the
// specific reason without internal component paths.
func publicMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if idx := strings.LastIndex(msg, ": "); idx >= 0 {
		return msg[idx+2:]
	}
	return msg
}
