// Package server provides the HTTP server and handlers.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/bryan-buckman/jobdesk/internal/auth"
	"github.com/bryan-buckman/jobdesk/internal/catalog"
	"github.com/bryan-buckman/jobdesk/internal/database"
	"github.com/bryan-buckman/jobdesk/internal/errors"
	"github.com/bryan-buckman/jobdesk/internal/model"
	"github.com/bryan-buckman/jobdesk/internal/pages"
	"github.com/bryan-buckman/jobdesk/internal/simulate"
	"github.com/bryan-buckman/jobdesk/internal/state"
)

// maxUploadBytes bounds a multipart upload held in memory.
const maxUploadBytes = 32 << 20

// Server is the main HTTP server.
type Server struct {
	db       database.Store
	store    *state.Store
	session  *pages.Session
	fetcher  *catalog.Fetcher
	provider auth.Provider
	logger   *zap.Logger
	router   chi.Router
}

// New creates a new server.
func New(db database.Store, store *state.Store, session *pages.Session, fetcher *catalog.Fetcher, provider auth.Provider, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		db:       db,
		store:    store,
		session:  session,
		fetcher:  fetcher,
		provider: provider,
		logger:   logger.Named("http"),
	}
	s.setupRoutes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	r.Get("/health", s.handleHealth)
	r.Get(auth.SignInPath, s.handleSignIn)

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(s.provider, s.signIn))

		// Pages.
		r.Get("/", s.handleHome)
		r.Get("/jobs/{jobID}", s.handleJobDetail)
		r.Get("/profile", s.handleProfile)
		r.Get("/my-jobs", s.handleMyJobs)
		r.Get("/calendar", s.handleCalendar)
		r.Get("/companies", s.handleCompanies)
		r.Get("/tracker", s.handleTracker)
		r.Get("/messages", s.handleMessages)
		r.Get("/notifications", s.handleNotifications)
		r.Get("/documents", s.handleDocuments)
		r.Get("/documents/{docID}/view", s.handleDocumentView)
		r.Get("/documents/{docID}/download", s.handleDocumentDownload)

		// API.
		r.Route("/api", func(r chi.Router) {
			r.Post("/filter", s.handleSetFilter)
			r.Delete("/filter", s.handleClearFilters)
			r.Post("/jobs/{jobID}/save", s.handleSaveJob)
			r.Delete("/jobs/{jobID}/save", s.handleUnsaveJob)
			r.Post("/jobs/{jobID}/apply", s.handleApply)
			r.Delete("/jobs/{jobID}/apply", s.handleWithdraw)
			r.Post("/jobs/{jobID}/status", s.handleApplicationStatus)

			r.Post("/interviews/{interviewID}/reschedule", s.handleReschedule)
			r.Get("/interviews/{interviewID}/join", s.handleJoinCall)
			r.Get("/interviews/{interviewID}/directions", s.handleDirections)
			r.Post("/offers/{offerID}/{decision}", s.handleOffer)

			r.Post("/conversations/{convID}/select", s.handleSelectConversation)
			r.Post("/conversations/{convID}/star", s.handleStarConversation)
			r.Post("/messages", s.handleSendMessage)

			r.Post("/notifications/read-all", s.handleMarkAllRead)
			r.Post("/notifications/{notifID}/read", s.handleMarkRead)
			r.Post("/notifications/{notifID}/favorite", s.handleToggleFavorite)
			r.Delete("/notifications/{notifID}", s.handleDeleteNotification)
			r.Delete("/notifications", s.handleClearNotifications)

			r.Post("/calendar/navigate", s.handleCalendarNavigate)
			r.Post("/calendar/today", s.handleCalendarToday)
			r.Post("/calendar/select", s.handleCalendarSelect)
			r.Post("/calendar/events", s.handleAddEvent)

			r.Post("/tracker", s.handleSaveApplication)
			r.Put("/tracker/{appID}", s.handleSaveApplication)
			r.Delete("/tracker/{appID}", s.handleDeleteApplication)
			r.Post("/tracker/{appID}/advance", s.handleAdvanceApplication)

			r.Post("/documents", s.handleUpload)
			r.Delete("/documents/{docID}", s.handleDeleteDocument)

			r.Get("/settings", s.handleGetSettings)
			r.Post("/settings", s.handleSaveSettings)
			r.Get("/sources", s.handleSources)
			r.Delete("/sources/{sourceID}", s.handleDeleteSource)
			r.Post("/import-opml", s.handleImportOPML)
			r.Get("/export-opml", s.handleExportOPML)
			r.Post("/refresh", s.handleRefresh)
		})
	})

	s.router = r
}

func (s *Server) signIn(p model.Profile) {
	if err := s.session.SignIn(p); err != nil {
		s.logger.Warn("record identity", zap.Error(err))
	}
}

// requestLogger logs one line per request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			s.logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())))
		}()
		next.ServeHTTP(ww, r)
	})
}

// --- Helpers ---

// pageResponse wraps a page view model with the shell and visible toasts.
type pageResponse struct {
	Page   any              `json:"page"`
	Shell  pages.ShellView  `json:"shell"`
	Toasts []simulate.Toast `json:"toasts"`
}

func (s *Server) writePage(w http.ResponseWriter, page any, toasts []simulate.Toast) {
	if toasts == nil {
		toasts = []simulate.Toast{}
	}
	s.writeJSON(w, http.StatusOK, pageResponse{Page: page, Shell: s.session.Shell(), Toasts: toasts})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("encode response", zap.Error(err))
	}
}

// writeError maps domain errors to status codes. Validation keeps the
// submitted form on the client, so it only carries the message.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.TypeOf(err) {
	case errors.ErrTypeValidation:
		status = http.StatusUnprocessableEntity
	case errors.ErrTypeNotFound:
		status = http.StatusNotFound
	case errors.ErrTypeActionFailed:
		status = http.StatusConflict
	default:
		s.logger.Error("request failed", zap.Error(err))
	}
	s.writeJSON(w, status, map[string]string{
		"error":   string(errors.TypeOf(err)),
		"message": errors.MessageOf(err),
	})
}

// decode reads a JSON body into v, reporting malformed input as a
// validation error.
func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Validation("invalid request body")
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"backend": s.db.DatabaseType(),
	})
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.provider.Identify(r); ok {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	s.writeJSON(w, http.StatusUnauthorized, map[string]string{
		"error":   "UNAUTHENTICATED",
		"message": "sign in through the identity provider",
	})
}
