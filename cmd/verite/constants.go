// cmd/verite/constants.go
package main

import "time"

// Application constants
const (
	AppName    = "Verite"
	AppVersion = "1.0.0"
)

// Default file locations
const (
	DefaultConfigPath = "config.yml"
	DefaultFeedsPath  = "feeds.yml"
	DefaultLogPath    = "logs/verite.log"
)

// AI analysis defaults
const (
	DefaultAIModel       = "gpt-4o"
	DefaultAITimeout     = 30 * time.Second
	DefaultAIMaxTokens   = 1000
	DefaultAITemperature = 0.1

	// Fallback analysis used when the model reply cannot be parsed
	FallbackConfidence   = 0.5
	FallbackEvidenceNote = "Could not parse AI response properly"

	// Substituted into the prompt when a submission carries no context
	ContextPlaceholder = "No additional context provided"
)

// Suggested verdicts an AI analysis may carry
const (
	VerdictTrue         = "true"
	VerdictFalse        = "false"
	VerdictMisleading   = "misleading"
	VerdictUnverifiable = "unverifiable"
)

// Submission lifecycle statuses
const (
	StatusNew       = "new"
	StatusInReview  = "in_review"
	StatusCompleted = "completed"
)

// Editorial verdicts for published fact-checks
var FactCheckVerdicts = []string{
	"True",
	"Mostly True",
	"Mixture",
	"Mostly False",
	"False",
	"Unverifiable",
}

// Positive content categories
var ContentTypes = []string{
	"culture",
	"innovation",
	"community",
	"nature",
	"achievement",
}

// HTTP settings
const (
	DefaultListenAddr   = ":8080"
	MaxPayloadSize      = 1024 * 1024 // 1MB
	ShutdownGracePeriod = 10 * time.Second
	HeaderRequestID     = "X-Request-ID"
)

// Database settings
const (
	defaultQueryTimeout = 10 * time.Second
	maxOpenConns        = 25
	maxIdleConns        = 5
	connMaxLifetime     = 5 * time.Minute
)

// Feed ingestion settings
const (
	DefaultFeedCron        = "*/30 * * * *"
	DefaultMaxPostsPerFeed = 5
	feedSeenTTL            = 72 * time.Hour
)

// URL extraction settings
const (
	extractTimeout  = 15 * time.Second
	extractCacheTTL = 6 * time.Hour
	maxClaimLength  = 500
)

// Error messages surfaced to API clients
const (
	ErrMsgSubmissionNotFound = "Submission not found"
	ErrMsgNoAnalysis         = "No AI analysis found for this submission"
	ErrMsgAITimeout          = "AI service timeout"
	ErrMsgAIQuota            = "AI service quota exceeded. Please check your OpenAI billing."
	ErrMsgAIModel            = "AI model not available. Please check your OpenAI account settings."
	ErrMsgAIError            = "AI service error"
	ErrMsgAIRateLimit        = "AI analysis rate limit exceeded, try again shortly"
	ErrMsgInvalidJSON        = "Invalid request payload"
	ErrMsgNotFound           = "resource not found"
	ErrMsgInternal           = "internal server error"
	ErrMsgAuthFailed         = "authentication failed"
)
