// cmd/verite/models.go
package main

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// StringList is a []string stored as a JSON column
type StringList []string

// Value implements driver.Valuer
func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		s = StringList{}
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner
func (s *StringList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*s = StringList{}
		return nil
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}
}

// Submission is a user-submitted claim or URL awaiting review
type Submission struct {
	ID             int64     `db:"id" json:"id"`
	SubmitterName  string    `db:"submitter_name" json:"submitter_name"`
	SubmitterEmail string    `db:"submitter_email" json:"submitter_email"`
	ClaimText      string    `db:"claim_text" json:"claim_text"`
	Context        string    `db:"context" json:"context"`
	URLSubmitted   string    `db:"url_submitted" json:"url_submitted"`
	Status         string    `db:"status" json:"status"`
	UserNotified   bool      `db:"user_notified" json:"user_notified"`
	DateSubmitted  time.Time `db:"date_submitted" json:"date_submitted"`
}

// ValidStatus reports whether the submission status is one of the known values
func ValidStatus(status string) bool {
	switch status {
	case StatusNew, StatusInReview, StatusCompleted:
		return true
	}
	return false
}

// FactCheck is a published editorial verdict, optionally tied to a submission
type FactCheck struct {
	ID           int64     `db:"id" json:"id"`
	Title        string    `db:"title" json:"title"`
	SubmissionID *int64    `db:"submission_id" json:"submission_id"`
	URLSubmitted string    `db:"url_submitted" json:"url_submitted"`
	Verdict      string    `db:"verdict" json:"verdict"`
	Summary      string    `db:"summary" json:"summary"`
	DateCreated  time.Time `db:"date_created" json:"date_created"`
	DateUpdated  time.Time `db:"date_updated" json:"date_updated"`
}

// ValidFactCheckVerdict reports whether the verdict is one of the editorial choices
func ValidFactCheckVerdict(verdict string) bool {
	for _, v := range FactCheckVerdicts {
		if v == verdict {
			return true
		}
	}
	return false
}

// PositiveContent is a published good-news story
type PositiveContent struct {
	ID          int64     `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	ContentType string    `db:"content_type" json:"content_type"`
	Description string    `db:"description" json:"description"`
	ImageURL    string    `db:"image_url" json:"image_url"`
	SourceURL   string    `db:"source_url" json:"source_url"`
	IsPublished bool      `db:"is_published" json:"is_published"`
	DateCreated time.Time `db:"date_created" json:"date_created"`
	DateUpdated time.Time `db:"date_updated" json:"date_updated"`
}

// ValidContentType reports whether the content type is one of the known categories
func ValidContentType(contentType string) bool {
	for _, t := range ContentTypes {
		if t == contentType {
			return true
		}
	}
	return false
}

// AIAnalysis is a stored model-suggested verdict for one submission. Records
// are created once and never updated. ClaimText is joined in from the owning
// submission at read time.
type AIAnalysis struct {
	ID               int64      `db:"id" json:"id"`
	SubmissionID     int64      `db:"submission_id" json:"submission_id"`
	ClaimText        string     `db:"claim_text" json:"claim_text"`
	ClaimExtracted   string     `db:"claim_extracted" json:"claim_extracted"`
	ConfidenceScore  float64    `db:"confidence_score" json:"confidence_score"`
	SuggestedVerdict string     `db:"suggested_verdict" json:"suggested_verdict"`
	EvidenceSources  StringList `db:"evidence_sources" json:"evidence_sources"`
	SimilarClaims    StringList `db:"similar_claims" json:"similar_claims"`
	ProcessingTime   float64    `db:"processing_time" json:"processing_time"`
	AIModelUsed      string     `db:"ai_model_used" json:"ai_model_used"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
}

// ValidVerdict reports whether the verdict is one the AI module may suggest
func ValidVerdict(verdict string) bool {
	switch verdict {
	case VerdictTrue, VerdictFalse, VerdictMisleading, VerdictUnverifiable:
		return true
	}
	return false
}
