package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"codeberg.org/snonux/phrasememo/internal"
	"codeberg.org/snonux/phrasememo/internal/engine"
)

// maxBodySize bounds a request body
const maxBodySize = 1 << 20

// Request is the body accepted by the endpoint. The first non-nil of Text,
// Approve and MarkIncorrect selects the action.
type Request struct {
	Text          *string `json:"text,omitempty"`
	Approve       *string `json:"approve,omitempty"`
	MarkIncorrect *string `json:"mark_incorrect,omitempty"`

	// Cache disables cache reads and writes when false
	Cache *bool `json:"cache,omitempty"`
}

// TranslateResponse answers a text request; Error is null on success
type TranslateResponse struct {
	Translate *string  `json:"translate"`
	Approved  bool     `json:"approved"`
	Info      any      `json:"info,omitempty"`
	Prompt    []string `json:"prompt,omitempty"`
	Error     *string  `json:"error"`
}

// SuccessResponse answers approve and mark_incorrect requests
type SuccessResponse struct {
	Error   *string `json:"error"`
	Success bool    `json:"success"`
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	logger := s.logger.With("request_id", RequestID(r.Context()))

	var req Request
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondJSON(w, logger, http.StatusBadRequest, TranslateResponse{Error: errorString(err)})
		return
	}

	switch {
	case req.Text != nil:
		s.translate(w, r, logger, req)
	case req.Approve != nil:
		ok, err := s.engine.Approve(r.Context(), *req.Approve)
		s.respondSuccess(w, logger, ok, err)
	case req.MarkIncorrect != nil:
		ok, err := s.engine.MarkIncorrect(r.Context(), *req.MarkIncorrect)
		s.respondSuccess(w, logger, ok, err)
	default:
		respondJSON(w, logger, http.StatusBadRequest, TranslateResponse{Error: errorString(engine.ErrInputMissing)})
	}
}

func (s *Server) translate(w http.ResponseWriter, r *http.Request, logger *slog.Logger, req Request) {
	opts := engine.DefaultOptions
	if req.Cache != nil {
		opts.UseCache = *req.Cache
	}

	res, err := s.engine.Translate(r.Context(), *req.Text, opts)
	if err != nil {
		logger.Warn("translation failed", "text", *req.Text, "error", err)
		respondJSON(w, logger, statusFor(err), TranslateResponse{Prompt: res.Prompt, Error: errorString(err)})
		return
	}

	respondJSON(w, logger, http.StatusOK, TranslateResponse{
		Translate: &res.Translation,
		Approved:  res.Approved,
		Info:      res.Info,
		Prompt:    res.Prompt,
	})
}

func (s *Server) respondSuccess(w http.ResponseWriter, logger *slog.Logger, ok bool, err error) {
	if err != nil {
		respondJSON(w, logger, statusFor(err), SuccessResponse{Error: errorString(err)})
		return
	}
	respondJSON(w, logger, http.StatusOK, SuccessResponse{Success: ok})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, s.logger, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": internal.Version,
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, engine.ErrInputMissing):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrTransport):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func errorString(err error) *string {
	msg := err.Error()
	return &msg
}

func respondJSON(w http.ResponseWriter, logger *slog.Logger, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(body); err != nil {
		logger.Error("failed to write response", "error", err)
	}
}
