// cmd/verite/store.go
package main

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned by store lookups when no record matches
var ErrNotFound = errors.New("record not found")

// Store is the persistence boundary for all models
type Store interface {
	CreateSubmission(ctx context.Context, sub *Submission) error
	SubmissionByID(ctx context.Context, id int64) (*Submission, error)
	Submissions(ctx context.Context) ([]Submission, error)
	UpdateSubmission(ctx context.Context, sub *Submission) error

	CreateFactCheck(ctx context.Context, fc *FactCheck) error
	FactCheckByID(ctx context.Context, id int64) (*FactCheck, error)
	FactChecks(ctx context.Context) ([]FactCheck, error)
	UpdateFactCheck(ctx context.Context, fc *FactCheck) error
	DeleteFactCheck(ctx context.Context, id int64) error

	CreatePositiveContent(ctx context.Context, pc *PositiveContent) error
	PositiveContentByID(ctx context.Context, id int64) (*PositiveContent, error)
	PositiveContents(ctx context.Context, publishedOnly bool) ([]PositiveContent, error)
	UpdatePositiveContent(ctx context.Context, pc *PositiveContent) error
	DeletePositiveContent(ctx context.Context, id int64) error

	CreateAnalysis(ctx context.Context, a *AIAnalysis) error
	LatestAnalysis(ctx context.Context, submissionID int64) (*AIAnalysis, error)
	DeleteAnalysesBefore(ctx context.Context, cutoff time.Time) (int64, error)

	Close() error
}

// SQLStore implements Store on top of Postgres
type SQLStore struct {
	db *sqlx.DB
}

// NewSQLStore wraps an open database handle
func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func queryCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, defaultQueryTimeout)
}

// Submissions

func (s *SQLStore) CreateSubmission(ctx context.Context, sub *Submission) error {
	ctx, cancel := queryCtx(ctx)
	defer cancel()

	if sub.Status == "" {
		sub.Status = StatusNew
	}

	query := `
		INSERT INTO submissions (
			submitter_name, submitter_email, claim_text, context,
			url_submitted, status, user_notified
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, date_submitted
	`
	row := s.db.QueryRowxContext(ctx, query,
		sub.SubmitterName, sub.SubmitterEmail, sub.ClaimText, sub.Context,
		sub.URLSubmitted, sub.Status, sub.UserNotified,
	)
	if err := row.Scan(&sub.ID, &sub.DateSubmitted); err != nil {
		return NewStoreError(ErrStoreQuery, "failed to store submission", err)
	}
	return nil
}

func (s *SQLStore) SubmissionByID(ctx context.Context, id int64) (*Submission, error) {
	ctx, cancel := queryCtx(ctx)
	defer cancel()

	var sub Submission
	err := s.db.GetContext(ctx, &sub, `SELECT * FROM submissions WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, NewStoreError(ErrStoreQuery, "failed to fetch submission", err)
	}
	return &sub, nil
}

func (s *SQLStore) Submissions(ctx context.Context) ([]Submission, error) {
	ctx, cancel := queryCtx(ctx)
	defer cancel()

	var subs []Submission
	err := s.db.SelectContext(ctx, &subs, `SELECT * FROM submissions ORDER BY date_submitted DESC`)
	if err != nil {
		return nil, NewStoreError(ErrStoreQuery, "failed to list submissions", err)
	}
	return subs, nil
}

func (s *SQLStore) UpdateSubmission(ctx context.Context, sub *Submission) error {
	ctx, cancel := queryCtx(ctx)
	defer cancel()

	query := `
		UPDATE submissions SET
			submitter_name = $1, submitter_email = $2, claim_text = $3,
			context = $4, url_submitted = $5, status = $6, user_notified = $7
		WHERE id = $8
	`
	res, err := s.db.ExecContext(ctx, query,
		sub.SubmitterName, sub.SubmitterEmail, sub.ClaimText,
		sub.Context, sub.URLSubmitted, sub.Status, sub.UserNotified, sub.ID,
	)
	if err != nil {
		return NewStoreError(ErrStoreQuery, "failed to update submission", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Fact-checks

func (s *SQLStore) CreateFactCheck(ctx context.Context, fc *FactCheck) error {
	ctx, cancel := queryCtx(ctx)
	defer cancel()

	query := `
		INSERT INTO fact_checks (title, submission_id, url_submitted, verdict, summary)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, date_created, date_updated
	`
	row := s.db.QueryRowxContext(ctx, query,
		fc.Title, fc.SubmissionID, fc.URLSubmitted, fc.Verdict, fc.Summary,
	)
	if err := row.Scan(&fc.ID, &fc.DateCreated, &fc.DateUpdated); err != nil {
		return NewStoreError(ErrStoreQuery, "failed to store fact-check", err)
	}
	return nil
}

func (s *SQLStore) FactCheckByID(ctx context.Context, id int64) (*FactCheck, error) {
	ctx, cancel := queryCtx(ctx)
	defer cancel()

	var fc FactCheck
	err := s.db.GetContext(ctx, &fc, `SELECT * FROM fact_checks WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, NewStoreError(ErrStoreQuery, "failed to fetch fact-check", err)
	}
	return &fc, nil
}

func (s *SQLStore) FactChecks(ctx context.Context) ([]FactCheck, error) {
	ctx, cancel := queryCtx(ctx)
	defer cancel()

	var fcs []FactCheck
	err := s.db.SelectContext(ctx, &fcs, `SELECT * FROM fact_checks ORDER BY date_created DESC`)
	if err != nil {
		return nil, NewStoreError(ErrStoreQuery, "failed to list fact-checks", err)
	}
	return fcs, nil
}

func (s *SQLStore) UpdateFactCheck(ctx context.Context, fc *FactCheck) error {
	ctx, cancel := queryCtx(ctx)
	defer cancel()

	query := `
		UPDATE fact_checks SET
			title = $1, submission_id = $2, url_submitted = $3,
			verdict = $4, summary = $5, date_updated = CURRENT_TIMESTAMP
		WHERE id = $6
		RETURNING date_updated
	`
	row := s.db.QueryRowxContext(ctx, query,
		fc.Title, fc.SubmissionID, fc.URLSubmitted, fc.Verdict, fc.Summary, fc.ID,
	)
	if err := row.Scan(&fc.DateUpdated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return NewStoreError(ErrStoreQuery, "failed to update fact-check", err)
	}
	return nil
}

func (s *SQLStore) DeleteFactCheck(ctx context.Context, id int64) error {
	ctx, cancel := queryCtx(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `DELETE FROM fact_checks WHERE id = $1`, id)
	if err != nil {
		return NewStoreError(ErrStoreQuery, "failed to delete fact-check", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Positive content

func (s *SQLStore) CreatePositiveContent(ctx context.Context, pc *PositiveContent) error {
	ctx, cancel := queryCtx(ctx)
	defer cancel()

	query := `
		INSERT INTO positive_content (title, content_type, description, image_url, source_url, is_published)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, date_created, date_updated
	`
	row := s.db.QueryRowxContext(ctx, query,
		pc.Title, pc.ContentType, pc.Description, pc.ImageURL, pc.SourceURL, pc.IsPublished,
	)
	if err := row.Scan(&pc.ID, &pc.DateCreated, &pc.DateUpdated); err != nil {
		return NewStoreError(ErrStoreQuery, "failed to store positive content", err)
	}
	return nil
}

func (s *SQLStore) PositiveContentByID(ctx context.Context, id int64) (*PositiveContent, error) {
	ctx, cancel := queryCtx(ctx)
	defer cancel()

	var pc PositiveContent
	err := s.db.GetContext(ctx, &pc, `SELECT * FROM positive_content WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, NewStoreError(ErrStoreQuery, "failed to fetch positive content", err)
	}
	return &pc, nil
}

func (s *SQLStore) PositiveContents(ctx context.Context, publishedOnly bool) ([]PositiveContent, error) {
	ctx, cancel := queryCtx(ctx)
	defer cancel()

	query := `SELECT * FROM positive_content ORDER BY date_created DESC`
	if publishedOnly {
		query = `SELECT * FROM positive_content WHERE is_published ORDER BY date_created DESC`
	}

	var pcs []PositiveContent
	if err := s.db.SelectContext(ctx, &pcs, query); err != nil {
		return nil, NewStoreError(ErrStoreQuery, "failed to list positive content", err)
	}
	return pcs, nil
}

func (s *SQLStore) UpdatePositiveContent(ctx context.Context, pc *PositiveContent) error {
	ctx, cancel := queryCtx(ctx)
	defer cancel()

	query := `
		UPDATE positive_content SET
			title = $1, content_type = $2, description = $3,
			image_url = $4, source_url = $5, is_published = $6,
			date_updated = CURRENT_TIMESTAMP
		WHERE id = $7
		RETURNING date_updated
	`
	row := s.db.QueryRowxContext(ctx, query,
		pc.Title, pc.ContentType, pc.Description,
		pc.ImageURL, pc.SourceURL, pc.IsPublished, pc.ID,
	)
	if err := row.Scan(&pc.DateUpdated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return NewStoreError(ErrStoreQuery, "failed to update positive content", err)
	}
	return nil
}

func (s *SQLStore) DeletePositiveContent(ctx context.Context, id int64) error {
	ctx, cancel := queryCtx(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `DELETE FROM positive_content WHERE id = $1`, id)
	if err != nil {
		return NewStoreError(ErrStoreQuery, "failed to delete positive content", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// AI analyses

func (s *SQLStore) CreateAnalysis(ctx context.Context, a *AIAnalysis) error {
	ctx, cancel := queryCtx(ctx)
	defer cancel()

	query := `
		INSERT INTO ai_analyses (
			submission_id, claim_extracted, confidence_score, suggested_verdict,
			evidence_sources, similar_claims, processing_time, ai_model_used
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`
	row := s.db.QueryRowxContext(ctx, query,
		a.SubmissionID, a.ClaimExtracted, a.ConfidenceScore, a.SuggestedVerdict,
		a.EvidenceSources, a.SimilarClaims, a.ProcessingTime, a.AIModelUsed,
	)
	if err := row.Scan(&a.ID, &a.CreatedAt); err != nil {
		return NewStoreError(ErrStoreQuery, "failed to store AI analysis", err)
	}
	return nil
}

func (s *SQLStore) LatestAnalysis(ctx context.Context, submissionID int64) (*AIAnalysis, error) {
	ctx, cancel := queryCtx(ctx)
	defer cancel()

	query := `
		SELECT a.id, a.submission_id, s.claim_text, a.claim_extracted,
		       a.confidence_score, a.suggested_verdict, a.evidence_sources,
		       a.similar_claims, a.processing_time, a.ai_model_used, a.created_at
		FROM ai_analyses a
		JOIN submissions s ON s.id = a.submission_id
		WHERE a.submission_id = $1
		ORDER BY a.created_at DESC, a.id DESC
		LIMIT 1
	`
	var a AIAnalysis
	err := s.db.GetContext(ctx, &a, query, submissionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, NewStoreError(ErrStoreQuery, "failed to fetch AI analysis", err)
	}
	return &a, nil
}

func (s *SQLStore) DeleteAnalysesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx, cancel := queryCtx(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `DELETE FROM ai_analyses WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, NewStoreError(ErrStoreQuery, "failed to delete old analyses", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
