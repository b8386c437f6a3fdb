// cmd/verite/analyzer_test.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// newMockProvider returns an httptest server that answers chat-completion
// requests with the given assistant reply.
func newMockProvider(t *testing.T, reply string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		resp := map[string]interface{}{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"model":   "gpt-4o",
			"choices": []map[string]interface{}{
				{
					"index": 0,
					"message": map[string]interface{}{
						"role":    "assistant",
						"content": reply,
					},
					"finish_reason": "stop",
				},
			},
			"usage": map[string]interface{}{"total_tokens": 42},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func testAnalyzer(baseURL string, timeout time.Duration) *Analyzer {
	return NewAnalyzer(AnalyzerConfig{
		APIKey:  "test-key",
		BaseURL: baseURL,
		Model:   "gpt-4o",
		Timeout: timeout,
	})
}

func TestValidateAnalysisPayload(t *testing.T) {
	wellFormed := func(mutate func(map[string]interface{})) map[string]interface{} {
		m := map[string]interface{}{
			"confidence_score":  0.85,
			"suggested_verdict": "true",
			"evidence":          []interface{}{"source 1"},
			"similar_claims":    []interface{}{},
		}
		if mutate != nil {
			mutate(m)
		}
		return m
	}

	tests := []struct {
		name  string
		input interface{}
		want  bool
	}{
		{"well-formed", wellFormed(nil), true},
		{"not a mapping", []interface{}{"confidence_score"}, false},
		{"scalar", "true", false},
		{"nil", nil, false},
		{"missing confidence_score", wellFormed(func(m map[string]interface{}) {
			delete(m, "confidence_score")
		}), false},
		{"missing suggested_verdict", wellFormed(func(m map[string]interface{}) {
			delete(m, "suggested_verdict")
		}), false},
		{"missing evidence", wellFormed(func(m map[string]interface{}) {
			delete(m, "evidence")
		}), false},
		{"missing similar_claims", wellFormed(func(m map[string]interface{}) {
			delete(m, "similar_claims")
		}), false},
		{"unknown verdict", wellFormed(func(m map[string]interface{}) {
			m["suggested_verdict"] = "probably"
		}), false},
		{"non-string verdict", wellFormed(func(m map[string]interface{}) {
			m["suggested_verdict"] = 1
		}), false},
		{"confidence below range", wellFormed(func(m map[string]interface{}) {
			m["confidence_score"] = -0.01
		}), false},
		{"confidence above range", wellFormed(func(m map[string]interface{}) {
			m["confidence_score"] = 1.01
		}), false},
		{"non-numeric confidence", wellFormed(func(m map[string]interface{}) {
			m["confidence_score"] = "high"
		}), false},
		{"confidence zero", wellFormed(func(m map[string]interface{}) {
			m["confidence_score"] = 0.0
		}), true},
		{"confidence one", wellFormed(func(m map[string]interface{}) {
			m["confidence_score"] = 1.0
		}), true},
		{"confidence mid", wellFormed(func(m map[string]interface{}) {
			m["confidence_score"] = 0.37
		}), true},
		{"evidence not a sequence", wellFormed(func(m map[string]interface{}) {
			m["evidence"] = "source 1"
		}), false},
		{"similar_claims not a sequence", wellFormed(func(m map[string]interface{}) {
			m["similar_claims"] = map[string]interface{}{}
		}), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, validateAnalysisPayload(tt.input))
		})
	}
}

func TestExtractJSONObject(t *testing.T) {
	raw, ok := extractJSONObject(`Sure! Here is my answer: {"confidence_score": 0.9} Hope that helps!`)
	require.True(t, ok)
	require.Equal(t, `{"confidence_score": 0.9}`, raw)

	_, ok = extractJSONObject("no json here at all")
	require.False(t, ok)

	_, ok = extractJSONObject("} reversed {")
	require.False(t, ok)

	raw, ok = extractJSONObject(`{"a": {"b": 1}} trailing`)
	require.True(t, ok)
	require.Equal(t, `{"a": {"b": 1}}`, raw)
}

func TestAnalyzeExtractsFromNoisyReply(t *testing.T) {
	reply := `Sure! Here is my answer: {"confidence_score": 0.9, "suggested_verdict": "true", "evidence": ["x"], "similar_claims": []} Hope that helps!`
	server := newMockProvider(t, reply)
	defer server.Close()

	a := testAnalyzer(server.URL, 5*time.Second)
	outcome, err := a.Analyze(context.Background(), "the sky is blue", "")
	require.NoError(t, err)

	require.Equal(t, 0.9, outcome.ConfidenceScore)
	require.Equal(t, VerdictTrue, outcome.SuggestedVerdict)
	require.Equal(t, []string{"x"}, outcome.Evidence)
	require.Empty(t, outcome.SimilarClaims)
	require.Equal(t, "gpt-4o", outcome.Model)
	require.GreaterOrEqual(t, outcome.ProcessingTime, 0.0)
}

func TestAnalyzeFallbackOnGarbageReply(t *testing.T) {
	for _, reply := range []string{
		"I cannot answer that question.",
		"here is something {not valid json} indeed",
		`{"confidence_score": "high", "suggested_verdict": "true", "evidence": [], "similar_claims": []}`,
	} {
		server := newMockProvider(t, reply)

		a := testAnalyzer(server.URL, 5*time.Second)
		outcome, err := a.Analyze(context.Background(), "claim", "context")
		require.NoError(t, err)

		require.Equal(t, FallbackConfidence, outcome.ConfidenceScore)
		require.Equal(t, VerdictUnverifiable, outcome.SuggestedVerdict)
		require.Equal(t, []string{FallbackEvidenceNote}, outcome.Evidence)
		require.Empty(t, outcome.SimilarClaims)

		server.Close()
	}
}

func TestAnalyzeTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	a := testAnalyzer(server.URL, 50*time.Millisecond)
	_, err := a.Analyze(context.Background(), "claim", "")
	require.Error(t, err)

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, ErrAITimeout, appErr.Code)
	require.Equal(t, http.StatusGatewayTimeout, appErr.Status)
}

func TestAnalyzeQuotaError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error": {"message": "You exceeded your current quota.", "type": "insufficient_quota", "code": "insufficient_quota"}}`)
	}))
	defer server.Close()

	a := testAnalyzer(server.URL, 5*time.Second)
	_, err := a.Analyze(context.Background(), "claim", "")
	require.Error(t, err)

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, ErrAIQuota, appErr.Code)
	require.Equal(t, http.StatusPaymentRequired, appErr.Status)
}

func TestAnalyzeModelNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error": {"message": "The model does not exist.", "type": "invalid_request_error", "code": "model_not_found"}}`)
	}))
	defer server.Close()

	a := testAnalyzer(server.URL, 5*time.Second)
	_, err := a.Analyze(context.Background(), "claim", "")
	require.Error(t, err)

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, ErrAIModel, appErr.Code)
	require.Equal(t, http.StatusServiceUnavailable, appErr.Status)
}

func TestAnalyzeGenericProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error": {"message": "The server had an error.", "type": "server_error"}}`)
	}))
	defer server.Close()

	a := testAnalyzer(server.URL, 5*time.Second)
	_, err := a.Analyze(context.Background(), "claim", "")
	require.Error(t, err)

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, ErrAIService, appErr.Code)
	require.Equal(t, http.StatusServiceUnavailable, appErr.Status)
}

func TestBuildFactCheckPromptContextPlaceholder(t *testing.T) {
	prompt := BuildFactCheckPrompt("some claim", "")
	require.Contains(t, prompt, ContextPlaceholder)
	require.Contains(t, prompt, "some claim")

	prompt = BuildFactCheckPrompt("some claim", "extra detail")
	require.Contains(t, prompt, "extra detail")
	require.NotContains(t, prompt, ContextPlaceholder)
}
