package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/sessionstack/pkg/httpserver"
	"github.com/dmitrymomot/sessionstack/pkg/logger"
	"github.com/dmitrymomot/sessionstack/pkg/requestid"
	"github.com/dmitrymomot/sessionstack/pkg/session"
)

type sessionResponse struct {
	ID     string `json:"id"`
	Depth  int    `json:"depth"`
	Popped string `json:"popped,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func newRouter(manager *session.Manager, log *slog.Logger, checks ...httpserver.Check) http.Handler {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", httpserver.LivenessHandler())
	r.Get("/readyz", httpserver.ReadinessHandler(log, checks...))

	h := &handlers{log: log}
	r.Route("/session", func(r chi.Router) {
		r.Use(manager.Middleware)
		r.Get("/", h.current)
		r.Delete("/", h.resetStack)
		r.Post("/reset", h.resetCurrent)
		r.Post("/frames", h.push)
		r.Delete("/frames", h.pop)
	})

	return r
}

type handlers struct {
	log *slog.Logger
}

func (h *handlers) current(w http.ResponseWriter, r *http.Request) {
	sess := session.MustFromContext(r.Context())
	h.respond(w, r, http.StatusOK, view(sess))
}

func (h *handlers) push(w http.ResponseWriter, r *http.Request) {
	sess := session.MustFromContext(r.Context())
	if _, err := sess.Push(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusCreated, view(sess))
}

func (h *handlers) pop(w http.ResponseWriter, r *http.Request) {
	sess := session.MustFromContext(r.Context())
	popped, err := sess.Pop(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	resp := view(sess)
	resp.Popped = popped.String()
	h.respond(w, r, http.StatusOK, resp)
}

func (h *handlers) resetCurrent(w http.ResponseWriter, r *http.Request) {
	sess := session.MustFromContext(r.Context())
	if err := sess.ResetCurrent(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, view(sess))
}

func (h *handlers) resetStack(w http.ResponseWriter, r *http.Request) {
	sess := session.MustFromContext(r.Context())
	if err := sess.ResetStack(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, view(sess))
}

func view(sess *session.Session) sessionResponse {
	return sessionResponse{ID: sess.ID().String(), Depth: sess.Depth()}
}

func (h *handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, session.ErrEmptyStack):
		status = http.StatusConflict
	case errors.Is(err, session.ErrCollisionExhausted):
		status = http.StatusServiceUnavailable
	}
	if status >= http.StatusInternalServerError {
		h.log.ErrorContext(r.Context(), "session operation failed",
			slog.String("path", r.URL.Path),
			logger.Error(err),
		)
	}
	h.respond(w, r, status, errorResponse{Error: http.StatusText(status)})
}

func (h *handlers) respond(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.log.ErrorContext(r.Context(), "failed to write response", logger.Error(err))
	}
}
