// cmd/verite/analysis.go
package main

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// AnalysisService coordinates record-or-fetch AI analysis for submissions.
// A per-submission lock closes the race between the existence check and the
// insert, so at most one analysis is persisted per submission through this
// path even under concurrent requests.
type AnalysisService struct {
	store     Store
	analyzer  *Analyzer
	extractor *URLExtractor
	hub       *Hub

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// NewAnalysisService wires the analysis flow together. extractor and hub are
// optional.
func NewAnalysisService(store Store, analyzer *Analyzer, extractor *URLExtractor, hub *Hub) *AnalysisService {
	return &AnalysisService{
		store:     store,
		analyzer:  analyzer,
		extractor: extractor,
		hub:       hub,
		locks:     make(map[int64]*sync.Mutex),
	}
}

func (s *AnalysisService) submissionLock(id int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[id] = lock
	}
	return lock
}

// ProcessSubmission runs the record-or-fetch operation. The second return
// value is true when a previously stored analysis was returned unchanged.
// Provider failures propagate as AppErrors with nothing persisted.
func (s *AnalysisService) ProcessSubmission(ctx context.Context, submissionID int64) (*AIAnalysis, bool, error) {
	sub, err := s.store.SubmissionByID(ctx, submissionID)
	if err != nil {
		return nil, false, err
	}

	lock := s.submissionLock(submissionID)
	lock.Lock()
	defer lock.Unlock()

	existing, err := s.store.LatestAnalysis(ctx, submissionID)
	if err == nil {
		return existing, true, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	claimText := s.claimText(ctx, sub)

	Logger().Info("Starting AI analysis for submission %d", submissionID)

	outcome, err := s.analyzer.Analyze(ctx, claimText, sub.Context)
	if err != nil {
		return nil, false, err
	}

	analysis := &AIAnalysis{
		SubmissionID:     sub.ID,
		ClaimExtracted:   claimText,
		ConfidenceScore:  outcome.ConfidenceScore,
		SuggestedVerdict: outcome.SuggestedVerdict,
		EvidenceSources:  outcome.Evidence,
		SimilarClaims:    outcome.SimilarClaims,
		ProcessingTime:   outcome.ProcessingTime,
		AIModelUsed:      outcome.Model,
	}
	if err := s.store.CreateAnalysis(ctx, analysis); err != nil {
		return nil, false, err
	}
	analysis.ClaimText = sub.ClaimText

	Logger().Info("AI analysis for submission %d completed in %.2fs with confidence %.2f",
		submissionID, outcome.ProcessingTime, outcome.ConfidenceScore)

	if s.hub != nil {
		s.hub.Broadcast("analysis_completed", analysis)
	}

	return analysis, false, nil
}

// LatestAnalysis returns the most recent stored analysis for a submission.
// Distinguishes a missing submission from a submission with no analysis.
func (s *AnalysisService) LatestAnalysis(ctx context.Context, submissionID int64) (*AIAnalysis, error) {
	if _, err := s.store.SubmissionByID(ctx, submissionID); err != nil {
		return nil, err
	}
	return s.store.LatestAnalysis(ctx, submissionID)
}

// claimText resolves the text put in front of the model. Submissions that
// carry only a URL get their claim extracted from the page when the
// extractor is available.
func (s *AnalysisService) claimText(ctx context.Context, sub *Submission) string {
	if strings.TrimSpace(sub.ClaimText) != "" {
		return sub.ClaimText
	}
	if sub.URLSubmitted != "" && s.extractor != nil {
		extracted, err := s.extractor.ExtractClaim(ctx, sub.URLSubmitted)
		if err != nil {
			Logger().Warning("Claim extraction failed for %s: %v", sub.URLSubmitted, err)
		} else if extracted != "" {
			return extracted
		}
	}
	return sub.URLSubmitted
}
