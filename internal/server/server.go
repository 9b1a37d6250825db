// Package server exposes the service over HTTP: the public read API for the
// latest fixture snapshot and reference data, and the session-gated trigger
// that starts a scrape run.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"

	"github.com/tbraun/spielplan/internal/auth"
	"github.com/tbraun/spielplan/internal/ingest"
	"github.com/tbraun/spielplan/internal/logger"
	"github.com/tbraun/spielplan/internal/refdata"
	"github.com/tbraun/spielplan/internal/session"
	"github.com/tbraun/spielplan/internal/snapshot"
)

// Server wires the HTTP routes to the pipeline, the snapshot store and the
// session gate
type Server struct {
	runner       *ingest.Runner
	store        *snapshot.Store
	sessions     *session.Store
	refdata      *refdata.Data
	passwordHash string
	sessionTTL   time.Duration
	runTimeout   time.Duration

	// at most one run in flight; concurrent triggers are rejected, not queued
	running atomic.Bool
}

// New creates a Server
func New(runner *ingest.Runner, store *snapshot.Store, sessions *session.Store, ref *refdata.Data, passwordHash string, sessionTTL, runTimeout time.Duration) *Server {
	return &Server{
		runner:       runner,
		store:        store,
		sessions:     sessions,
		refdata:      ref,
		passwordHash: passwordHash,
		sessionTTL:   sessionTTL,
		runTimeout:   runTimeout,
	}
}

// Router builds the route table
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/spielplan", s.handleSpielplan).Methods(http.MethodGet)
	r.HandleFunc("/api/clubs", s.handleClubs).Methods(http.MethodGet)
	r.HandleFunc("/api/venues", s.handleVenues).Methods(http.MethodGet)
	r.HandleFunc("/api/metrics", s.handleMetrics).Methods(http.MethodGet)

	r.HandleFunc("/api/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/api/logout", s.handleLogout).Methods(http.MethodPost)
	r.Handle("/api/scrape", s.sessions.Require(http.HandlerFunc(s.handleScrape))).Methods(http.MethodPost)

	return r
}

// handleSpielplan serves the latest snapshot
func (s *Server) handleSpielplan(w http.ResponseWriter, r *http.Request) {
	allowCORS(w)

	snap, err := s.store.Load()
	if err != nil {
		if errors.Is(err, snapshot.ErrNotGenerated) {
			writeError(w, http.StatusServiceUnavailable, "not_generated", "no scrape run has completed yet")
			return
		}
		logger.Error("loading snapshot failed", nil, err)
		writeError(w, http.StatusInternalServerError, "internal", "loading snapshot failed")
		return
	}

	writeJSON(w, http.StatusOK, snap)
}

// handleScrape triggers one ingestion run. Runs are mutually exclusive; a
// trigger while one is in flight gets a 409.
func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	if !s.running.CompareAndSwap(false, true) {
		writeError(w, http.StatusConflict, "run_in_flight", "a scrape run is already in progress")
		return
	}
	defer s.running.Store(false)

	ctx, cancel := context.WithTimeout(r.Context(), s.runTimeout)
	defer cancel()

	summary, err := s.runner.Run(ctx)
	if err != nil {
		code := ingest.ErrorCode(err)
		logger.Error("scrape run failed", logger.Fields{"code": code}, err)
		writeError(w, statusForCode(code), code, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"summary": summary,
	})
}

// handleLogin validates the admin password and issues a session cookie
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	if s.passwordHash == "" || !auth.VerifyPassword(body.Password, s.passwordHash) {
		writeError(w, http.StatusUnauthorized, "unauthorized", "invalid credentials")
		return
	}

	token, err := s.sessions.Create()
	if err != nil {
		logger.Error("creating session failed", nil, err)
		writeError(w, http.StatusInternalServerError, "internal", "creating session failed")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleLogout tears down the session behind the cookie, if any
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(session.CookieName); err == nil {
		if err := s.sessions.Delete(cookie.Value); err != nil {
			logger.Error("deleting session failed", nil, err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleClubs(w http.ResponseWriter, r *http.Request) {
	allowCORS(w)
	writeJSON(w, http.StatusOK, s.refdata.Clubs)
}

func (s *Server) handleVenues(w http.ResponseWriter, r *http.Request) {
	allowCORS(w)
	writeJSON(w, http.StatusOK, s.refdata.Venues)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, logger.MetricsSnapshot())
}

// statusForCode maps run failure codes to HTTP status codes
func statusForCode(code string) int {
	switch code {
	case "fetch_transport", "fetch_status":
		return http.StatusBadGateway
	case "fetch_timeout":
		return http.StatusGatewayTimeout
	case "empty_listing":
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func allowCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("encoding response failed", nil, err)
	}
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	writeJSON(w, status, map[string]string{
		"error":  code,
		"detail": detail,
	})
}
