package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

const (
	SentimentPositive = "POSITIVE"
	SentimentNegative = "NEGATIVE"
	SentimentNeutral  = "NEUTRAL"
	SentimentUnknown  = "UNKNOWN"

	RecommendationBuy     = "BUY"
	RecommendationSell    = "SELL"
	RecommendationHold    = "HOLD"
	RecommendationUnknown = "UNKNOWN"
)

// Stock is a single stock mentioned by an analyzed article.
type Stock struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// Result is the verdict produced by the analysis service for one article.
type Result struct {
	Sentiment      string
	Recommendation string
	Stocks         []Stock
}

// Unknown is the fallback verdict used whenever analysis cannot be completed.
func Unknown() Result {
	return Result{
		Sentiment:      SentimentUnknown,
		Recommendation: RecommendationUnknown,
		Stocks:         []Stock{},
	}
}

// Client talks to an Ollama-compatible generate endpoint.
type Client struct {
	endpoint   string
	model      string
	httpClient *http.Client
}

func NewClient(endpoint, model string, httpClient *http.Client) *Client {
	return &Client{
		endpoint:   endpoint,
		model:      model,
		httpClient: httpClient,
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

type verdict struct {
	Sentiment      string  `json:"sentiment"`
	Recommendation string  `json:"recommendation"`
	Stocks         []Stock `json:"stocks"`
}

// Analyze sends the article text for analysis and returns the verdict.
// Every failure mode of the external service (transport error, non-success
// status, malformed payload) degrades to the UNKNOWN fallback; enrichment
// failure is never allowed to fail ingestion, so no error is returned and no
// retry is attempted here.
func (c *Client) Analyze(ctx context.Context, text string) Result {
	payload, err := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: buildAnalysisPrompt(text),
		Stream: false,
	})
	if err != nil {
		slog.Error("Failed to marshal analysis request", "error", err)
		return Unknown()
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.endpoint, bytes.NewReader(payload))
	if err != nil {
		slog.Error("Failed to create analysis request", "error", err)
		return Unknown()
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Warn("Analysis request failed", "endpoint", c.endpoint, "error", err)
		return Unknown()
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Warn("Analysis service returned non-success status", "status", resp.StatusCode)
		return Unknown()
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Warn("Failed to read analysis response", "error", err)
		return Unknown()
	}

	var outer generateResponse
	if err := json.Unmarshal(body, &outer); err != nil {
		slog.Warn("Failed to parse analysis response envelope", "error", err, "payload", truncate(string(body), 512))
		return Unknown()
	}

	result, err := parseVerdict(outer.Response)
	if err != nil {
		slog.Warn("Failed to parse analysis verdict", "error", err, "payload", truncate(outer.Response, 512))
		return Unknown()
	}

	return result
}

// parseVerdict decodes the model output, which is itself a JSON-encoded
// string inside the response envelope.
func parseVerdict(response string) (Result, error) {
	var v verdict
	if err := json.Unmarshal([]byte(response), &v); err != nil {
		return Result{}, fmt.Errorf("invalid verdict JSON: %w", err)
	}

	if v.Sentiment == "" || v.Recommendation == "" {
		return Result{}, fmt.Errorf("verdict is missing sentiment or recommendation")
	}

	stocks := v.Stocks
	if stocks == nil {
		stocks = []Stock{}
	}

	return Result{
		Sentiment:      v.Sentiment,
		Recommendation: v.Recommendation,
		Stocks:         stocks,
	}, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
