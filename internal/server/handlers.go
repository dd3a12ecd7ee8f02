package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/nao1215/wordcrawl/internal/model"
	"github.com/nao1215/wordcrawl/internal/pipeline"
)

const (
	msgMissingArticle = "Article title is required"
	msgMissingTitle   = "Please provide a 'title' query parameter"
	msgUnavailable    = "Service Unavailable"
	msgInternalError  = "Internal Server Error"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleWordFrequency serves POST /.
func (s *Server) handleWordFrequency(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxRequestBytes)

	var req model.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload: "+err.Error())
		return
	}

	s.run(w, r, s.filtered, req)
}

// handleWordCount serves GET /?title=...&depth=...
func (s *Server) handleWordCount(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	title := query.Get("title")
	if title == "" {
		writeError(w, http.StatusBadRequest, msgMissingTitle)
		return
	}

	req := model.Request{Article: title}
	if raw := query.Get("depth"); raw != "" {
		depth, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, model.ErrInvalidDepth.Error())
			return
		}
		req.Depth = &depth
	}

	s.run(w, r, s.unfiltered, req)
}

// run executes p for req and writes the response envelope.
func (s *Server) run(w http.ResponseWriter, r *http.Request, p *pipeline.Pipeline, req model.Request) {
	ctx := r.Context()
	if s.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.requestTimeout)
		defer cancel()
	}

	report, err := pipeline.Run(ctx, p, req)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, report.Response())
	case errors.Is(err, model.ErrMissingArticle):
		writeError(w, http.StatusBadRequest, msgMissingArticle)
	case model.IsInvalidInput(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case r.Context().Err() != nil:
		// The client is gone; nobody reads the response.
		s.logger.Info("client went away", "article", req.Article, "visited", len(report.Visited))
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		s.logger.Warn("request cut short", "article", req.Article, "visited", len(report.Visited), "error", err)
		writeError(w, http.StatusServiceUnavailable, msgUnavailable)
	default:
		s.logger.Error("request failed", "article", req.Article, "error", err)
		writeError(w, http.StatusInternalServerError, msgInternalError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v) //nolint:errchkjson // nothing to do once headers are sent
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, model.ErrorResponse{Error: message})
}
