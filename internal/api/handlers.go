package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/TimelordUK/logpage/internal/logerr"
	"github.com/TimelordUK/logpage/internal/pager"
)

// handleListFiles lists the servable file ids.
func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"files": s.reader.Files()})
}

// handleGetPage returns a page of lines by page number or line offset.
func (s *Server) handleGetPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	fileID := q.Get("file_id")
	if fileID == "" {
		jsonError(w, "file_id query parameter is required", http.StatusBadRequest)
		return
	}

	opts := []pager.PageOption{}
	for _, p := range []struct {
		name string
		opt  func(int) pager.PageOption
	}{
		{"limit", pager.WithLimit},
		{"offset", pager.WithOffset},
		{"page_number", pager.WithPageNumber},
	} {
		n, ok, err := intParam(r, p.name)
		if err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		if ok {
			opts = append(opts, p.opt(n))
		}
	}

	page, err := s.reader.Page(fileID, opts...)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// handleSearch finds the first page containing query.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	fileID, query, pageSize, ok := s.searchParams(w, r)
	if !ok {
		return
	}

	res, err := s.reader.SearchFirst(fileID, query, pageSize)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleSearchNext finds the next page with a match, starting at page_number.
func (s *Server) handleSearchNext(w http.ResponseWriter, r *http.Request) {
	fileID, query, pageSize, ok := s.searchParams(w, r)
	if !ok {
		return
	}

	pageNumber, present, err := intParam(r, "page_number")
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !present {
		jsonError(w, "page_number query parameter is required", http.StatusBadRequest)
		return
	}

	res, err := s.reader.SearchFromPage(fileID, query, pageNumber, pageSize)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) searchParams(w http.ResponseWriter, r *http.Request) (fileID, query string, pageSize int, ok bool) {
	q := r.URL.Query()
	fileID = q.Get("file_id")
	query = q.Get("query")
	if fileID == "" || query == "" {
		jsonError(w, "file_id and query parameters are required", http.StatusBadRequest)
		return "", "", 0, false
	}

	pageSize, present, err := intParam(r, "page_size")
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return "", "", 0, false
	}
	if !present {
		pageSize = s.cfg.Search.PageSize
	}
	return fileID, query, pageSize, true
}

// intParam parses an optional integer query parameter.
func intParam(r *http.Request, name string) (int, bool, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false, fmt.Errorf("%s must be an integer, got %q", name, v)
	}
	return n, true, nil
}

// writeError maps a pager error to a status code.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, logerr.ErrNotFound), errors.Is(err, logerr.ErrNoMatch):
		status = http.StatusNotFound
	case errors.Is(err, logerr.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, logerr.ErrOutOfRange):
		status = http.StatusRequestedRangeNotSatisfiable
	default:
		s.log.Error("request failed", "error", err)
	}

	writeJSON(w, status, map[string]string{
		"error": err.Error(),
		"kind":  logerr.Kind(err),
	})
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{
		"error": msg,
		"kind":  "invalid_argument",
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
