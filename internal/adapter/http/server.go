// Package http exposes the JSON API for sessions alongside the operational
// health, readiness, and metrics endpoints.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/locale-scout/internal/domain"
	"github.com/couchcryptid/locale-scout/internal/resolve"
	"github.com/couchcryptid/locale-scout/internal/session"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Resolver walks the tiered location-resolution chain for a session.
type Resolver interface {
	ResolveImage(ctx context.Context, image []byte) resolve.Result
	ResolveManual(text string) (domain.ResolvedLocation, error)
}

// Conversationalist drives the chat side of a locked session.
type Conversationalist interface {
	Initialize(ctx context.Context, sess *domain.Session) error
	AnswerFreeText(ctx context.Context, sess *domain.Session, text string) error
	AnswerQuestion(ctx context.Context, sess *domain.Session, question string) error
}

// SessionStore creates and looks up live sessions.
type SessionStore interface {
	Create() *domain.Session
	Get(id string) (*domain.Session, error)
}

// DialectMatcher picks a regional dialect sample for a resolved location.
type DialectMatcher interface {
	Match(displayName string) string
}

// Server exposes the session API plus /healthz, /readyz, and /metrics.
type Server struct {
	httpServer *http.Server
	sessions   SessionStore
	resolver   Resolver
	chat       Conversationalist
	dialects   DialectMatcher
	maxUpload  int64
	logger     *slog.Logger

	// sessionMu serializes requests per session ID: a Session is owned by one
	// request flow at a time, so concurrent posts to the same session queue up
	// instead of racing on the transcript.
	sessionMu sync.Map // session ID → *sync.Mutex
}

// NewServer wires the API routes onto a configured http.Server.
func NewServer(addr string, sessions SessionStore, resolver Resolver, chat Conversationalist, dialects DialectMatcher, ready ReadinessChecker, maxUpload int64, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		sessions:  sessions,
		resolver:  resolver,
		chat:      chat,
		dialects:  dialects,
		maxUpload: maxUpload,
		logger:    logger,
	}

	mux.HandleFunc("POST /v1/sessions", s.handleCreateSession)
	mux.HandleFunc("GET /v1/sessions/{id}", s.handleGetSession)
	mux.HandleFunc("POST /v1/sessions/{id}/photo", s.handlePhoto)
	mux.HandleFunc("POST /v1/sessions/{id}/location", s.handleManualLocation)
	mux.HandleFunc("POST /v1/sessions/{id}/messages", s.handleMessage)

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, _ *http.Request) {
	sess := s.sessions.Create()
	writeJSON(w, http.StatusCreated, sessionView(sess, ""))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	defer s.lockSession(r.PathValue("id"))()

	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sessionView(sess, ""))
}

// handlePhoto runs the uploaded image through the resolution tiers. A session
// that stays unresolved is reported as manual_pending so the client can offer
// the manual-entry fallback; that is a normal outcome, not an error status.
func (s *Server) handlePhoto(w http.ResponseWriter, r *http.Request) {
	defer s.lockSession(r.PathValue("id"))()

	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	if sess.Locked() {
		writeError(w, http.StatusConflict, "location already locked for this session")
		return
	}

	image, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxUpload))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "image exceeds the upload limit")
		return
	}
	if len(image) == 0 {
		writeError(w, http.StatusBadRequest, "empty image upload")
		return
	}

	result := s.resolver.ResolveImage(r.Context(), image)
	if !result.Resolved {
		view := sessionView(sess, "")
		view.State = string(result.State)
		writeJSON(w, http.StatusOK, view)
		return
	}

	s.lockAndIntroduce(w, r, sess, result.Location)
}

func (s *Server) handleManualLocation(w http.ResponseWriter, r *http.Request) {
	defer s.lockSession(r.PathValue("id"))()

	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	if sess.Locked() {
		writeError(w, http.StatusConflict, "location already locked for this session")
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	loc, err := s.resolver.ResolveManual(req.Text)
	if err != nil {
		writeError(w, http.StatusBadRequest, "a non-empty location is required")
		return
	}

	s.lockAndIntroduce(w, r, sess, loc)
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	defer s.lockSession(r.PathValue("id"))()

	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}

	var req struct {
		Text      string `json:"text"`
		Suggested bool   `json:"suggested"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		writeError(w, http.StatusBadRequest, "a non-empty text field is required")
		return
	}

	var err error
	if req.Suggested {
		err = s.chat.AnswerQuestion(r.Context(), sess, req.Text)
	} else {
		err = s.chat.AnswerFreeText(r.Context(), sess, req.Text)
	}
	if errors.Is(err, domain.ErrNoLocationResolved) {
		writeError(w, http.StatusConflict, "session has no locked location yet")
		return
	}
	if err != nil {
		s.logger.Error("answer failed", "session_id", sess.ID, "error", err)
		writeJSON(w, http.StatusBadGateway, sessionView(sess, transientErrorText))
		return
	}

	writeJSON(w, http.StatusOK, sessionView(sess, ""))
}

// lockAndIntroduce locks the resolved location into the session, attaches the
// matching dialect sample, and seeds the conversation. The lock survives an
// introduction failure; the client retries by sending a message.
func (s *Server) lockAndIntroduce(w http.ResponseWriter, r *http.Request, sess *domain.Session, loc domain.ResolvedLocation) {
	sample := s.dialects.Match(loc.DisplayName)
	if err := sess.Lock(loc, sample); err != nil {
		writeError(w, http.StatusConflict, "location already locked for this session")
		return
	}

	if err := s.chat.Initialize(r.Context(), sess); err != nil {
		s.logger.Error("conversation initialization failed", "session_id", sess.ID, "error", err)
		writeJSON(w, http.StatusBadGateway, sessionView(sess, transientErrorText))
		return
	}

	writeJSON(w, http.StatusOK, sessionView(sess, ""))
}

// lockSession acquires the per-session mutex for the given ID and returns the
// unlock function. Unknown IDs still lock briefly; the entry is dropped when
// the session itself is gone.
func (s *Server) lockSession(id string) func() {
	v, _ := s.sessionMu.LoadOrStore(id, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*domain.Session, bool) {
	sess, err := s.sessions.Get(r.PathValue("id"))
	if errors.Is(err, session.ErrNotFound) {
		s.sessionMu.Delete(r.PathValue("id"))
		writeError(w, http.StatusNotFound, "unknown session")
		return nil, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "session lookup failed")
		return nil, false
	}
	return sess, true
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
