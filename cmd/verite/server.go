// cmd/verite/server.go
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// Server owns the HTTP surface of the application
type Server struct {
	cfg        *Config
	store      Store
	analysis   *AnalysisService
	hub        *Hub
	router     *mux.Router
	httpServer *http.Server
	startTime  time.Time
}

// NewServer wires the router and middleware
func NewServer(cfg *Config, store Store, analysis *AnalysisService, hub *Hub) *Server {
	s := &Server{
		cfg:       cfg,
		store:     store,
		analysis:  analysis,
		hub:       hub,
		startTime: time.Now(),
	}

	r := mux.NewRouter()
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)

	api := r.PathPrefix("/api").Subrouter()

	// Public routes
	api.HandleFunc("/factchecks", s.handleListFactChecks).Methods("GET")
	api.HandleFunc("/submit-claim", s.handleSubmitClaim).Methods("POST")
	api.HandleFunc("/positive-content", s.handleListPositiveContent).Methods("GET")
	api.HandleFunc("/healthcheck", s.handleHealthCheck).Methods("GET")
	api.HandleFunc("/ws", s.hub.HandleWS)

	// Admin routes
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(s.adminOnly)
	admin.HandleFunc("/submissions", s.handleAdminListSubmissions).Methods("GET")
	admin.HandleFunc("/submissions/{id:[0-9]+}", s.handleAdminGetSubmission).Methods("GET")
	admin.HandleFunc("/submissions/{id:[0-9]+}", s.handleAdminUpdateSubmission).Methods("PUT")
	admin.HandleFunc("/submissions/{id:[0-9]+}/create-factcheck", s.handleCreateFactCheckFromSubmission).Methods("POST")
	admin.HandleFunc("/factchecks", s.handleAdminListFactChecks).Methods("GET")
	admin.HandleFunc("/factchecks", s.handleAdminCreateFactCheck).Methods("POST")
	admin.HandleFunc("/factchecks/{id:[0-9]+}", s.handleAdminGetFactCheck).Methods("GET")
	admin.HandleFunc("/factchecks/{id:[0-9]+}", s.handleAdminUpdateFactCheck).Methods("PUT")
	admin.HandleFunc("/factchecks/{id:[0-9]+}", s.handleAdminDeleteFactCheck).Methods("DELETE")
	admin.HandleFunc("/positive-content", s.handleAdminListPositiveContent).Methods("GET")
	admin.HandleFunc("/positive-content", s.handleAdminCreatePositiveContent).Methods("POST")
	admin.HandleFunc("/positive-content/{id:[0-9]+}", s.handleAdminGetPositiveContent).Methods("GET")
	admin.HandleFunc("/positive-content/{id:[0-9]+}", s.handleAdminUpdatePositiveContent).Methods("PUT")
	admin.HandleFunc("/positive-content/{id:[0-9]+}", s.handleAdminDeletePositiveContent).Methods("DELETE")

	// AI routes, admin-gated like the review endpoints
	ai := api.PathPrefix("/ai").Subrouter()
	ai.Use(s.adminOnly)
	ai.HandleFunc("/process-submission/{id:[0-9]+}", s.handleProcessSubmission).Methods("POST")
	ai.HandleFunc("/analysis/{id:[0-9]+}", s.handleGetAnalysis).Methods("GET")

	s.router = r
	s.httpServer = &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      http.MaxBytesHandler(r, MaxPayloadSize),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
	return s
}

// Router exposes the handler tree, mostly for tests
func (s *Server) Router() http.Handler {
	return s.router
}

// Start blocks serving HTTP until the listener fails or is shut down
func (s *Server) Start() error {
	Logger().Info("Starting HTTP server on %s", s.cfg.ListenAddr)
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Middleware

func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, requestID)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		Logger().Debug("%s %s (%s)", r.Method, r.URL.Path, time.Since(start))
	})
}

// adminOnly gates a subrouter behind the configured admin bearer token.
// With no token configured every admin request is rejected.
func (s *Server) adminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.AdminToken == "" || r.Header.Get("Authorization") != "Bearer "+s.cfg.AdminToken {
			respondWithError(w, http.StatusUnauthorized, ErrMsgAuthFailed)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Response helpers

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Failed to marshal JSON response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
