// cmd/verite/handlers.go
package main

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

// handleListFactChecks returns all published fact-checks, newest first
func (s *Server) handleListFactChecks(w http.ResponseWriter, r *http.Request) {
	fcs, err := s.store.FactChecks(r.Context())
	if err != nil {
		Logger().Error("Failed to list fact-checks: %v", err)
		respondWithError(w, http.StatusInternalServerError, ErrMsgInternal)
		return
	}
	respondWithJSON(w, http.StatusOK, fcs)
}

// submitClaimRequest is the payload accepted from users
type submitClaimRequest struct {
	SubmitterName  string `json:"submitter_name"`
	SubmitterEmail string `json:"submitter_email"`
	ClaimText      string `json:"claim_text"`
	Context        string `json:"context"`
	URLSubmitted   string `json:"url_submitted"`
}

// handleSubmitClaim accepts a new claim or URL for fact-checking
func (s *Server) handleSubmitClaim(w http.ResponseWriter, r *http.Request) {
	var req submitClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidJSON)
		return
	}
	defer r.Body.Close()

	if strings.TrimSpace(req.ClaimText) == "" && strings.TrimSpace(req.URLSubmitted) == "" {
		respondWithError(w, http.StatusBadRequest, "Either claim_text or url_submitted is required")
		return
	}

	sub := &Submission{
		SubmitterName:  strings.TrimSpace(req.SubmitterName),
		SubmitterEmail: strings.TrimSpace(req.SubmitterEmail),
		ClaimText:      strings.TrimSpace(req.ClaimText),
		Context:        strings.TrimSpace(req.Context),
		URLSubmitted:   strings.TrimSpace(req.URLSubmitted),
		Status:         StatusNew,
	}
	if err := s.store.CreateSubmission(r.Context(), sub); err != nil {
		Logger().Error("Failed to store submission: %v", err)
		respondWithError(w, http.StatusInternalServerError, ErrMsgInternal)
		return
	}

	s.hub.Broadcast("submission_created", sub)
	respondWithJSON(w, http.StatusCreated, sub)
}

// handleListPositiveContent returns published positive stories
func (s *Server) handleListPositiveContent(w http.ResponseWriter, r *http.Request) {
	pcs, err := s.store.PositiveContents(r.Context(), true)
	if err != nil {
		Logger().Error("Failed to list positive content: %v", err)
		respondWithError(w, http.StatusInternalServerError, ErrMsgInternal)
		return
	}
	respondWithJSON(w, http.StatusOK, pcs)
}

// handleHealthCheck provides a simple liveness endpoint
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.cfg.Version,
		"uptime":  time.Since(s.startTime).String(),
	})
}
