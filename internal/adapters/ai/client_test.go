package ai_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/tradeagent/internal/adapters/ai"
	"github.com/alejandrodnm/tradeagent/internal/domain"
)

// completionServer returns the given content as the model's answer.
func completionServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role string `json:"role"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)

		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestAnalyze_ParsesDecisions(t *testing.T) {
	srv := completionServer(t, `{
		"decisions": [
			{"action": "BUY", "market_id": "m1", "market_name": "Will X?", "position": "YES", "amount_eth": 0.1, "reasoning": "momentum", "confidence": 0.8},
			{"action": "hold", "market_id": "m2", "position": "no", "confidence": 1.7}
		],
		"commentary": "calm day",
		"risk_assessment": "low"
	}`)
	defer srv.Close()

	c := ai.NewClient(srv.URL, "test-key", "gpt-4o-mini")
	report, err := c.Analyze(context.Background(), domain.AdvisorRequest{PortfolioValue: 1.0})

	require.NoError(t, err)
	require.Len(t, report.Decisions, 2)
	assert.Equal(t, "calm day", report.Commentary)
	assert.Equal(t, "low", report.RiskAssessment)

	d := report.Decisions[0]
	assert.Equal(t, domain.ActionBuy, d.Action)
	assert.Equal(t, "m1", d.MarketID)
	assert.Equal(t, domain.PositionYes, d.Position)
	assert.Equal(t, 0.1, d.AmountEth)
	assert.Equal(t, 0.8, d.Confidence)

	// actions and positions are canonicalized, confidence clamped
	d = report.Decisions[1]
	assert.Equal(t, domain.ActionHold, d.Action)
	assert.Equal(t, domain.PositionNo, d.Position)
	assert.Equal(t, 1.0, d.Confidence)
}

func TestAnalyze_StripsMarkdownFences(t *testing.T) {
	srv := completionServer(t, "Here you go:\n```json\n{\"decisions\": [], \"commentary\": \"quiet\"}\n```")
	defer srv.Close()

	c := ai.NewClient(srv.URL, "test-key", "gpt-4o-mini")
	report, err := c.Analyze(context.Background(), domain.AdvisorRequest{})

	require.NoError(t, err)
	assert.Empty(t, report.Decisions)
	assert.Equal(t, "quiet", report.Commentary)
}

func TestAnalyze_UnknownActionIsAnError(t *testing.T) {
	srv := completionServer(t, `{"decisions": [{"action": "YOLO", "market_id": "m1"}]}`)
	defer srv.Close()

	c := ai.NewClient(srv.URL, "test-key", "gpt-4o-mini")
	_, err := c.Analyze(context.Background(), domain.AdvisorRequest{})
	assert.Error(t, err)
}

func TestAnalyze_NonJSONOutputIsAnError(t *testing.T) {
	srv := completionServer(t, "I cannot help with that.")
	defer srv.Close()

	c := ai.NewClient(srv.URL, "test-key", "gpt-4o-mini")
	_, err := c.Analyze(context.Background(), domain.AdvisorRequest{})
	assert.Error(t, err)
}

func TestGenerateReply(t *testing.T) {
	srv := completionServer(t, "  Portfolio is up 3% today.  \n")
	defer srv.Close()

	c := ai.NewClient(srv.URL, "test-key", "gpt-4o-mini")
	reply, err := c.GenerateReply(context.Background(), "how are we doing?")

	require.NoError(t, err)
	assert.Equal(t, "Portfolio is up 3% today.", reply)
}

func TestChat_APIErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error": "rate limited"}`)
	}))
	defer srv.Close()

	c := ai.NewClient(srv.URL, "test-key", "gpt-4o-mini")
	_, err := c.GenerateReply(context.Background(), "hi")
	assert.Error(t, err)
}
