// cmd/verite/analysis_handlers.go
package main

import (
	"errors"
	"net/http"
)

// handleProcessSubmission triggers record-or-fetch AI analysis for a
// submission. Returns 200 with the serialized analysis both when a fresh
// analysis was produced and when an earlier one already existed.
func (s *Server) handleProcessSubmission(w http.ResponseWriter, r *http.Request) {
	analysis, existing, err := s.analysis.ProcessSubmission(r.Context(), pathID(r))
	if err != nil {
		s.respondAnalysisError(w, err)
		return
	}

	if existing {
		Logger().Debug("Returning existing analysis %d for submission %d", analysis.ID, analysis.SubmissionID)
	}
	respondWithJSON(w, http.StatusOK, analysis)
}

// handleGetAnalysis returns the most recent stored analysis for a submission
func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)

	analysis, err := s.analysis.LatestAnalysis(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Missing submission and missing analysis both map to 404 but
			// with distinguishable messages.
			if _, subErr := s.store.SubmissionByID(r.Context(), id); errors.Is(subErr, ErrNotFound) {
				respondWithError(w, http.StatusNotFound, ErrMsgSubmissionNotFound)
			} else {
				respondWithError(w, http.StatusNotFound, ErrMsgNoAnalysis)
			}
			return
		}
		Logger().Error("Failed to fetch analysis: %v", err)
		respondWithError(w, http.StatusInternalServerError, ErrMsgInternal)
		return
	}
	respondWithJSON(w, http.StatusOK, analysis)
}

// respondAnalysisError maps analysis flow failures onto HTTP statuses
func (s *Server) respondAnalysisError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) {
		respondWithError(w, http.StatusNotFound, ErrMsgSubmissionNotFound)
		return
	}

	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Status > 0 {
		Logger().Error("AI analysis failed: %v", err)
		respondWithError(w, appErr.Status, appErr.Message)
		return
	}

	Logger().Error("AI analysis failed: %v", err)
	respondWithError(w, http.StatusInternalServerError, ErrMsgInternal)
}
