// cmd/verite/admin_handlers.go
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

// Submissions

func (s *Server) handleAdminListSubmissions(w http.ResponseWriter, r *http.Request) {
	subs, err := s.store.Submissions(r.Context())
	if err != nil {
		Logger().Error("Failed to list submissions: %v", err)
		respondWithError(w, http.StatusInternalServerError, ErrMsgInternal)
		return
	}
	respondWithJSON(w, http.StatusOK, subs)
}

func (s *Server) handleAdminGetSubmission(w http.ResponseWriter, r *http.Request) {
	sub, err := s.store.SubmissionByID(r.Context(), pathID(r))
	if errors.Is(err, ErrNotFound) {
		respondWithError(w, http.StatusNotFound, ErrMsgSubmissionNotFound)
		return
	}
	if err != nil {
		Logger().Error("Failed to fetch submission: %v", err)
		respondWithError(w, http.StatusInternalServerError, ErrMsgInternal)
		return
	}
	respondWithJSON(w, http.StatusOK, sub)
}

func (s *Server) handleAdminUpdateSubmission(w http.ResponseWriter, r *http.Request) {
	sub, err := s.store.SubmissionByID(r.Context(), pathID(r))
	if errors.Is(err, ErrNotFound) {
		respondWithError(w, http.StatusNotFound, ErrMsgSubmissionNotFound)
		return
	}
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrMsgInternal)
		return
	}

	var updated Submission
	if err := json.NewDecoder(r.Body).Decode(&updated); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidJSON)
		return
	}
	defer r.Body.Close()

	if updated.Status != "" && !ValidStatus(updated.Status) {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("invalid status %q", updated.Status))
		return
	}

	// Identity and submission time are immutable
	updated.ID = sub.ID
	updated.DateSubmitted = sub.DateSubmitted
	if updated.Status == "" {
		updated.Status = sub.Status
	}

	if err := s.store.UpdateSubmission(r.Context(), &updated); err != nil {
		Logger().Error("Failed to update submission: %v", err)
		respondWithError(w, http.StatusInternalServerError, ErrMsgInternal)
		return
	}
	respondWithJSON(w, http.StatusOK, updated)
}

// createFactCheckRequest is the admin payload for publishing a verdict
type createFactCheckRequest struct {
	Title        string `json:"title"`
	SubmissionID *int64 `json:"submission_id"`
	URLSubmitted string `json:"url_submitted"`
	Verdict      string `json:"verdict"`
	Summary      string `json:"summary"`
}

// handleCreateFactCheckFromSubmission publishes a fact-check built from a
// submission and flips the submission to completed.
func (s *Server) handleCreateFactCheckFromSubmission(w http.ResponseWriter, r *http.Request) {
	sub, err := s.store.SubmissionByID(r.Context(), pathID(r))
	if errors.Is(err, ErrNotFound) {
		respondWithError(w, http.StatusNotFound, ErrMsgSubmissionNotFound)
		return
	}
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrMsgInternal)
		return
	}

	var req createFactCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidJSON)
		return
	}
	defer r.Body.Close()

	if !ValidFactCheckVerdict(req.Verdict) {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("invalid verdict %q", req.Verdict))
		return
	}

	title := req.Title
	if title == "" {
		if sub.ClaimText != "" {
			excerpt := sub.ClaimText
			if len(excerpt) > 50 {
				excerpt = excerpt[:50]
			}
			title = fmt.Sprintf("Fact-Check: %s...", excerpt)
		} else {
			title = "Fact-Check"
		}
	}

	fc := &FactCheck{
		Title:        title,
		SubmissionID: &sub.ID,
		URLSubmitted: sub.URLSubmitted,
		Verdict:      req.Verdict,
		Summary:      req.Summary,
	}
	if err := s.store.CreateFactCheck(r.Context(), fc); err != nil {
		Logger().Error("Failed to store fact-check: %v", err)
		respondWithError(w, http.StatusInternalServerError, ErrMsgInternal)
		return
	}

	sub.Status = StatusCompleted
	sub.UserNotified = false // reset so the next notification run picks it up
	if err := s.store.UpdateSubmission(r.Context(), sub); err != nil {
		Logger().Error("Failed to update submission after fact-check: %v", err)
	}

	s.hub.Broadcast("factcheck_created", fc)

	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"message":    "Fact-check created successfully",
		"factcheck":  fc,
		"submission": sub,
	})
}

// Fact-checks

func (s *Server) handleAdminListFactChecks(w http.ResponseWriter, r *http.Request) {
	s.handleListFactChecks(w, r)
}

func (s *Server) handleAdminCreateFactCheck(w http.ResponseWriter, r *http.Request) {
	var req createFactCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidJSON)
		return
	}
	defer r.Body.Close()

	if req.Title == "" {
		respondWithError(w, http.StatusBadRequest, "title is required")
		return
	}
	if !ValidFactCheckVerdict(req.Verdict) {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("invalid verdict %q", req.Verdict))
		return
	}

	fc := &FactCheck{
		Title:        req.Title,
		SubmissionID: req.SubmissionID,
		URLSubmitted: req.URLSubmitted,
		Verdict:      req.Verdict,
		Summary:      req.Summary,
	}
	if err := s.store.CreateFactCheck(r.Context(), fc); err != nil {
		Logger().Error("Failed to store fact-check: %v", err)
		respondWithError(w, http.StatusInternalServerError, ErrMsgInternal)
		return
	}

	s.hub.Broadcast("factcheck_created", fc)
	respondWithJSON(w, http.StatusCreated, fc)
}

func (s *Server) handleAdminGetFactCheck(w http.ResponseWriter, r *http.Request) {
	fc, err := s.store.FactCheckByID(r.Context(), pathID(r))
	if errors.Is(err, ErrNotFound) {
		respondWithError(w, http.StatusNotFound, ErrMsgNotFound)
		return
	}
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrMsgInternal)
		return
	}
	respondWithJSON(w, http.StatusOK, fc)
}

func (s *Server) handleAdminUpdateFactCheck(w http.ResponseWriter, r *http.Request) {
	fc, err := s.store.FactCheckByID(r.Context(), pathID(r))
	if errors.Is(err, ErrNotFound) {
		respondWithError(w, http.StatusNotFound, ErrMsgNotFound)
		return
	}
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrMsgInternal)
		return
	}

	var req createFactCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidJSON)
		return
	}
	defer r.Body.Close()

	if req.Title != "" {
		fc.Title = req.Title
	}
	if req.Verdict != "" {
		if !ValidFactCheckVerdict(req.Verdict) {
			respondWithError(w, http.StatusBadRequest, fmt.Sprintf("invalid verdict %q", req.Verdict))
			return
		}
		fc.Verdict = req.Verdict
	}
	if req.Summary != "" {
		fc.Summary = req.Summary
	}
	if req.URLSubmitted != "" {
		fc.URLSubmitted = req.URLSubmitted
	}

	if err := s.store.UpdateFactCheck(r.Context(), fc); err != nil {
		Logger().Error("Failed to update fact-check: %v", err)
		respondWithError(w, http.StatusInternalServerError, ErrMsgInternal)
		return
	}
	respondWithJSON(w, http.StatusOK, fc)
}

func (s *Server) handleAdminDeleteFactCheck(w http.ResponseWriter, r *http.Request) {
	err := s.store.DeleteFactCheck(r.Context(), pathID(r))
	if errors.Is(err, ErrNotFound) {
		respondWithError(w, http.StatusNotFound, ErrMsgNotFound)
		return
	}
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrMsgInternal)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Fact-check deleted successfully"})
}

// Positive content

func (s *Server) handleAdminListPositiveContent(w http.ResponseWriter, r *http.Request) {
	pcs, err := s.store.PositiveContents(r.Context(), false)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrMsgInternal)
		return
	}
	respondWithJSON(w, http.StatusOK, pcs)
}

func (s *Server) handleAdminCreatePositiveContent(w http.ResponseWriter, r *http.Request) {
	var pc PositiveContent
	if err := json.NewDecoder(r.Body).Decode(&pc); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidJSON)
		return
	}
	defer r.Body.Close()

	if pc.Title == "" {
		respondWithError(w, http.StatusBadRequest, "title is required")
		return
	}
	if !ValidContentType(pc.ContentType) {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("invalid content_type %q", pc.ContentType))
		return
	}

	if err := s.store.CreatePositiveContent(r.Context(), &pc); err != nil {
		Logger().Error("Failed to store positive content: %v", err)
		respondWithError(w, http.StatusInternalServerError, ErrMsgInternal)
		return
	}
	respondWithJSON(w, http.StatusCreated, pc)
}

func (s *Server) handleAdminGetPositiveContent(w http.ResponseWriter, r *http.Request) {
	pc, err := s.store.PositiveContentByID(r.Context(), pathID(r))
	if errors.Is(err, ErrNotFound) {
		respondWithError(w, http.StatusNotFound, ErrMsgNotFound)
		return
	}
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrMsgInternal)
		return
	}
	respondWithJSON(w, http.StatusOK, pc)
}

func (s *Server) handleAdminUpdatePositiveContent(w http.ResponseWriter, r *http.Request) {
	pc, err := s.store.PositiveContentByID(r.Context(), pathID(r))
	if errors.Is(err, ErrNotFound) {
		respondWithError(w, http.StatusNotFound, ErrMsgNotFound)
		return
	}
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrMsgInternal)
		return
	}

	var updated PositiveContent
	if err := json.NewDecoder(r.Body).Decode(&updated); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidJSON)
		return
	}
	defer r.Body.Close()

	if updated.ContentType != "" && !ValidContentType(updated.ContentType) {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("invalid content_type %q", updated.ContentType))
		return
	}

	updated.ID = pc.ID
	if updated.Title == "" {
		updated.Title = pc.Title
	}
	if updated.ContentType == "" {
		updated.ContentType = pc.ContentType
	}

	if err := s.store.UpdatePositiveContent(r.Context(), &updated); err != nil {
		Logger().Error("Failed to update positive content: %v", err)
		respondWithError(w, http.StatusInternalServerError, ErrMsgInternal)
		return
	}
	respondWithJSON(w, http.StatusOK, updated)
}

func (s *Server) handleAdminDeletePositiveContent(w http.ResponseWriter, r *http.Request) {
	err := s.store.DeletePositiveContent(r.Context(), pathID(r))
	if errors.Is(err, ErrNotFound) {
		respondWithError(w, http.StatusNotFound, ErrMsgNotFound)
		return
	}
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrMsgInternal)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Positive content deleted successfully"})
}
