package enrich

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestAnalyzeSuccess(t *testing.T) {
	verdictJSON := `{"sentiment": "POSITIVE", "recommendation": "BUY", "stocks": [{"name": "Reliance Industries", "code": "RELIANCE"}]}`

	var gotRequest generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &gotRequest); err != nil {
			t.Errorf("Failed to decode request body: %v", err)
		}

		resp, _ := json.Marshal(generateResponse{Response: verdictJSON})
		w.Header().Set("Content-Type", "application/json")
		w.Write(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL, "llama3", server.Client())
	result := client.Analyze(context.Background(), "Reliance posts record profit.")

	if result.Sentiment != SentimentPositive {
		t.Errorf("Expected sentiment POSITIVE, got: %s", result.Sentiment)
	}
	if result.Recommendation != RecommendationBuy {
		t.Errorf("Expected recommendation BUY, got: %s", result.Recommendation)
	}
	if len(result.Stocks) != 1 || result.Stocks[0].Code != "RELIANCE" {
		t.Errorf("Expected one RELIANCE stock, got: %+v", result.Stocks)
	}

	if gotRequest.Model != "llama3" {
		t.Errorf("Expected model 'llama3', got: %s", gotRequest.Model)
	}
	if gotRequest.Stream {
		t.Error("Expected stream to be false")
	}
	if !strings.Contains(gotRequest.Prompt, "Reliance posts record profit.") {
		t.Error("Expected article text to be embedded in the prompt")
	}
	if !strings.Contains(gotRequest.Prompt, "stock market analyst") {
		t.Error("Expected analyst instruction in the prompt")
	}
}

func TestAnalyzeServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, "llama3", server.Client())
	result := client.Analyze(context.Background(), "some article text")

	assertUnknown(t, result)
}

func TestAnalyzeMalformedVerdict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp, _ := json.Marshal(generateResponse{Response: "I think the sentiment is positive but here is no JSON"})
		w.Header().Set("Content-Type", "application/json")
		w.Write(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL, "llama3", server.Client())
	result := client.Analyze(context.Background(), "some article text")

	assertUnknown(t, result)
}

func TestAnalyzeMalformedEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "llama3", server.Client())
	result := client.Analyze(context.Background(), "some article text")

	assertUnknown(t, result)
}

func TestAnalyzeMissingFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp, _ := json.Marshal(generateResponse{Response: `{"stocks": []}`})
		w.Header().Set("Content-Type", "application/json")
		w.Write(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL, "llama3", server.Client())
	result := client.Analyze(context.Background(), "some article text")

	assertUnknown(t, result)
}

func TestAnalyzeUnreachableEndpoint(t *testing.T) {
	client := NewClient("http://127.0.0.1:1/api/generate", "llama3", http.DefaultClient)
	result := client.Analyze(context.Background(), "some article text")

	assertUnknown(t, result)
}

func TestParseVerdictNilStocks(t *testing.T) {
	result, err := parseVerdict(`{"sentiment": "NEUTRAL", "recommendation": "HOLD"}`)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if result.Stocks == nil || len(result.Stocks) != 0 {
		t.Errorf("Expected empty non-nil stocks, got: %+v", result.Stocks)
	}
}

func assertUnknown(t *testing.T, result Result) {
	t.Helper()

	if result.Sentiment != SentimentUnknown {
		t.Errorf("Expected sentiment UNKNOWN, got: %s", result.Sentiment)
	}
	if result.Recommendation != RecommendationUnknown {
		t.Errorf("Expected recommendation UNKNOWN, got: %s", result.Recommendation)
	}
	if len(result.Stocks) != 0 {
		t.Errorf("Expected no stocks, got: %+v", result.Stocks)
	}
}
