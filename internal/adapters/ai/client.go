// Package ai implements ports.Advisor against an OpenAI-compatible chat
// completions endpoint.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/alejandrodnm/tradeagent/internal/domain"
	"golang.org/x/time/rate"
)

const (
	requestTimeout = 60 * time.Second
	// One decision call and a handful of replies per cycle; anything more
	// is a bug upstream.
	requestsPerSec = 1
)

// Client talks to a chat completions API.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
	model   string
	limiter *rate.Limiter
}

// NewClient creates an advisor client.
func NewClient(baseURL, apiKey, model string) *Client {
	return &Client{
		http:    &http.Client{Timeout: requestTimeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		limiter: rate.NewLimiter(requestsPerSec, 3),
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// decisionPayload is the strict JSON shape the model is instructed to
// return from Analyze.
type decisionPayload struct {
	Decisions []struct {
		Action     string  `json:"action"`
		MarketID   string  `json:"market_id"`
		MarketName string  `json:"market_name"`
		Position   string  `json:"position"`
		AmountEth  float64 `json:"amount_eth"`
		Reasoning  string  `json:"reasoning"`
		Confidence float64 `json:"confidence"`
	} `json:"decisions"`
	Commentary              string `json:"commentary"`
	RiskAssessment          string `json:"risk_assessment"`
	PortfolioRecommendation string `json:"portfolio_recommendation"`
}

// Analyze asks the model for this cycle's decisions. Malformed output is
// an error for the caller to log; it never takes the process down.
func (c *Client) Analyze(ctx context.Context, req domain.AdvisorRequest) (*domain.AdvisorReport, error) {
	content, err := c.chat(ctx, decisionSystemPrompt, buildAnalysisPrompt(req))
	if err != nil {
		return nil, fmt.Errorf("ai.Analyze: %w", err)
	}

	var payload decisionPayload
	if err := json.Unmarshal([]byte(extractJSON(content)), &payload); err != nil {
		return nil, fmt.Errorf("ai.Analyze: parse decisions: %w", err)
	}

	report := &domain.AdvisorReport{
		Commentary:              payload.Commentary,
		RiskAssessment:          payload.RiskAssessment,
		PortfolioRecommendation: payload.PortfolioRecommendation,
	}
	for _, d := range payload.Decisions {
		decision, err := normalizeDecision(d.Action, d.MarketID, d.MarketName, d.Position,
			d.AmountEth, d.Reasoning, d.Confidence)
		if err != nil {
			return nil, fmt.Errorf("ai.Analyze: %w", err)
		}
		report.Decisions = append(report.Decisions, decision)
	}
	return report, nil
}

// GenerateReply writes a short answer to a community message.
func (c *Client) GenerateReply(ctx context.Context, text string) (string, error) {
	reply, err := c.chat(ctx, replySystemPrompt, text)
	if err != nil {
		return "", fmt.Errorf("ai.GenerateReply: %w", err)
	}
	return strings.TrimSpace(reply), nil
}

// chat performs one completion round-trip and returns the first choice.
func (c *Client) chat(ctx context.Context, system, user string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, string(raw))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("empty completion")
	}
	return parsed.Choices[0].Message.Content, nil
}

// normalizeDecision validates and canonicalizes one model decision.
func normalizeDecision(action, marketID, marketName, position string, amountEth float64, reasoning string, confidence float64) (domain.Decision, error) {
	act := domain.Action(strings.ToUpper(strings.TrimSpace(action)))
	switch act {
	case domain.ActionBuy, domain.ActionSell, domain.ActionHold:
	default:
		return domain.Decision{}, fmt.Errorf("unknown action %q", action)
	}

	pos := domain.Position(strings.ToUpper(strings.TrimSpace(position)))
	if pos != domain.PositionNo {
		pos = domain.PositionYes
	}

	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	return domain.Decision{
		Action:     act,
		MarketID:   marketID,
		MarketName: marketName,
		Position:   pos,
		AmountEth:  amountEth,
		Reasoning:  reasoning,
		Confidence: confidence,
	}, nil
}

// extractJSON strips markdown fences and any prose around the outermost
// JSON object. Models wrap output in ```json blocks no matter how firmly
// the prompt forbids it.
func extractJSON(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return text
	}
	return text[start : end+1]
}
