// cmd/verite/analyzer.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

// AnalyzerConfig carries everything the provider client needs. The client is
// constructed explicitly and passed around; there is no package-level instance.
type AnalyzerConfig struct {
	APIKey            string
	BaseURL           string
	Model             string
	Temperature       float32
	MaxTokens         int
	Timeout           time.Duration
	RequestsPerMinute int // 0 disables the outbound limiter
}

// Analyzer calls the external model provider to suggest a verdict for a claim
type Analyzer struct {
	client  *openai.Client
	cfg     AnalyzerConfig
	limiter *rate.Limiter
}

// AnalysisOutcome is the validated-or-fallback result of one provider call
type AnalysisOutcome struct {
	ConfidenceScore  float64
	SuggestedVerdict string
	Evidence         []string
	SimilarClaims    []string
	ProcessingTime   float64
	Model            string
}

// NewAnalyzer creates an analyzer from explicit configuration
func NewAnalyzer(cfg AnalyzerConfig) *Analyzer {
	if cfg.Model == "" {
		cfg.Model = DefaultAIModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultAITimeout
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultAIMaxTokens
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = DefaultAITemperature
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), cfg.RequestsPerMinute)
	}

	return &Analyzer{
		client:  openai.NewClientWithConfig(clientConfig),
		cfg:     cfg,
		limiter: limiter,
	}
}

// Model returns the configured model identifier
func (a *Analyzer) Model() string {
	return a.cfg.Model
}

// Analyze builds the fact-check prompt, invokes the provider with a bounded
// timeout, and returns either the validated structured result or the fixed
// fallback. Provider and transport failures are returned as AppErrors; a
// malformed reply is absorbed by the fallback and is not an error.
func (a *Analyzer) Analyze(ctx context.Context, claimText, claimContext string) (*AnalysisOutcome, error) {
	if a.limiter != nil && !a.limiter.Allow() {
		return nil, NewAIError(ErrAIRateLimit, ErrMsgAIRateLimit, http.StatusTooManyRequests, nil)
	}

	prompt := BuildFactCheckPrompt(claimText, claimContext)

	callCtx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()

	start := time.Now()
	resp, err := a.client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
		Model: a.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: a.cfg.Temperature,
		MaxTokens:   a.cfg.MaxTokens,
	})
	elapsed := time.Since(start).Seconds()

	if err != nil {
		return nil, classifyProviderError(err)
	}

	var reply string
	if len(resp.Choices) > 0 {
		reply = resp.Choices[0].Message.Content
	}

	outcome := &AnalysisOutcome{
		ProcessingTime: elapsed,
		Model:          a.cfg.Model,
	}

	payload, ok := decodeAnalysisReply(reply)
	if !ok {
		Logger().Error("Failed to parse AI response, using fallback")
		outcome.ConfidenceScore = FallbackConfidence
		outcome.SuggestedVerdict = VerdictUnverifiable
		outcome.Evidence = []string{FallbackEvidenceNote}
		outcome.SimilarClaims = []string{}
		return outcome, nil
	}

	outcome.ConfidenceScore = payload.ConfidenceScore
	outcome.SuggestedVerdict = payload.SuggestedVerdict
	outcome.Evidence = payload.Evidence
	outcome.SimilarClaims = payload.SimilarClaims
	return outcome, nil
}

// BuildFactCheckPrompt embeds the claim and its context into the instruction
// sent to the model. An empty context is replaced with a fixed placeholder.
func BuildFactCheckPrompt(claimText, claimContext string) string {
	if strings.TrimSpace(claimContext) == "" {
		claimContext = ContextPlaceholder
	}

	return fmt.Sprintf(`As a fact-checking assistant for Ayiti Verite, analyze this claim about Haiti:

CLAIM: %q

CONTEXT: %s

Please provide a JSON response with this exact structure:
{
    "confidence_score": 0.85,
    "suggested_verdict": "true",
    "evidence": [
        "Source or reasoning 1",
        "Source or reasoning 2"
    ],
    "similar_claims": [
        "Brief description of similar claim 1",
        "Brief description of similar claim 2"
    ]
}

"confidence_score" is a number between 0 and 1. "suggested_verdict" is one of:
"true", "false", "misleading", "unverifiable".

Focus on Haitian context and available evidence. If uncertain, use "unverifiable".`, claimText, claimContext)
}

// analysisPayload is the shape the model is instructed to reply with
type analysisPayload struct {
	ConfidenceScore  float64  `json:"confidence_score"`
	SuggestedVerdict string   `json:"suggested_verdict"`
	Evidence         []string `json:"evidence"`
	SimilarClaims    []string `json:"similar_claims"`
}

// decodeAnalysisReply extracts and validates the JSON object embedded in a
// free-form model reply. Returns false for anything that fails extraction,
// decoding, or validation.
func decodeAnalysisReply(reply string) (*analysisPayload, bool) {
	raw, ok := extractJSONObject(reply)
	if !ok {
		return nil, false
	}

	var generic interface{}
	if err := json.Unmarshal([]byte(raw), &generic); err != nil {
		return nil, false
	}
	if !validateAnalysisPayload(generic) {
		return nil, false
	}

	var payload analysisPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, false
	}
	if payload.Evidence == nil {
		payload.Evidence = []string{}
	}
	if payload.SimilarClaims == nil {
		payload.SimilarClaims = []string{}
	}
	return &payload, true
}

// extractJSONObject returns the substring between the first '{' and the last
// '}' of the reply, inclusive. The model tends to wrap its JSON answer in
// prose, so this deliberately ignores everything around the outermost braces.
func extractJSONObject(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

// validateAnalysisPayload checks an arbitrary decoded value against the
// required analysis shape. Always returns a bare boolean; never panics.
func validateAnalysisPayload(v interface{}) bool {
	data, ok := v.(map[string]interface{})
	if !ok {
		return false
	}

	for _, field := range []string{"confidence_score", "suggested_verdict", "evidence", "similar_claims"} {
		if _, exists := data[field]; !exists {
			return false
		}
	}

	verdict, ok := data["suggested_verdict"].(string)
	if !ok || !ValidVerdict(verdict) {
		return false
	}

	confidence, ok := data["confidence_score"].(float64)
	if !ok || confidence < 0 || confidence > 1 {
		return false
	}

	if _, ok := data["evidence"].([]interface{}); !ok {
		return false
	}
	if _, ok := data["similar_claims"].([]interface{}); !ok {
		return false
	}

	return true
}

// classifyProviderError maps a provider call failure onto the error taxonomy.
// Structured API error codes are preferred; message substrings remain as a
// fallback for providers that fill in only the message.
func classifyProviderError(err error) *AppError {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return NewAIError(ErrAITimeout, ErrMsgAITimeout, http.StatusGatewayTimeout, err)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		code, _ := apiErr.Code.(string)

		switch {
		case code == "insufficient_quota" || apiErr.Type == "insufficient_quota" ||
			strings.Contains(apiErr.Message, "insufficient_quota"):
			return NewAIError(ErrAIQuota, ErrMsgAIQuota, http.StatusPaymentRequired, err)
		case code == "model_not_found" || strings.Contains(apiErr.Message, "model_not_found"):
			return NewAIError(ErrAIModel, ErrMsgAIModel, http.StatusServiceUnavailable, err)
		}
		return NewAIError(ErrAIService, ErrMsgAIError, http.StatusServiceUnavailable, err)
	}

	// Last-resort substring classification on the raw error text
	msg := err.Error()
	switch {
	case strings.Contains(msg, "insufficient_quota"):
		return NewAIError(ErrAIQuota, ErrMsgAIQuota, http.StatusPaymentRequired, err)
	case strings.Contains(msg, "model_not_found"):
		return NewAIError(ErrAIModel, ErrMsgAIModel, http.StatusServiceUnavailable, err)
	}
	return NewAIError(ErrAIService, ErrMsgAIError, http.StatusServiceUnavailable, err)
}
