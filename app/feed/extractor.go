package feed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// Strategy locates the article body text inside a publisher's HTML page.
// Implementations return an empty string when the expected markup is absent.
type Strategy interface {
	Extract(doc *goquery.Document) string
}

// MoneycontrolStrategy pulls the article body from the content_wrapper
// container. Inline images and hyperlinks are stripped first so captions and
// related-story links do not pollute the prose.
type MoneycontrolStrategy struct{}

func (MoneycontrolStrategy) Extract(doc *goquery.Document) string {
	return containerText(doc, "div.content_wrapper", true)
}

// EconomicTimesStrategy pulls the article body from the artText container.
type EconomicTimesStrategy struct{}

func (EconomicTimesStrategy) Extract(doc *goquery.Document) string {
	return containerText(doc, "div.artText", false)
}

// LivemintStrategy pulls the article body from the mainArea container.
type LivemintStrategy struct{}

func (LivemintStrategy) Extract(doc *goquery.Document) string {
	return containerText(doc, "div.mainArea", true)
}

// GenericStrategy is the catch-all for unknown publishers: readability-based
// extraction over the whole page, falling back to all visible text.
type GenericStrategy struct{}

func (GenericStrategy) Extract(doc *goquery.Document) string {
	if node := doc.Get(0); node != nil {
		if article, err := readability.FromDocument(node, nil); err == nil && article.TextContent != "" {
			return normalizeText(article.TextContent)
		}
	}

	doc.Find("script, style, noscript").Remove()
	return normalizeText(doc.Text())
}

func containerText(doc *goquery.Document, selector string, stripNoise bool) string {
	container := doc.Find(selector)
	if container.Length() == 0 {
		return ""
	}

	if stripNoise {
		container.Find("img, a").Remove()
	}

	return normalizeText(container.Text())
}

func normalizeText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Extractor fetches an article page and dispatches to the extraction
// strategy registered for the link's domain.
type Extractor struct {
	httpClient *http.Client
	userAgent  string
	strategies map[string]Strategy
	fallback   Strategy
}

func NewExtractor(httpClient *http.Client, userAgent string) *Extractor {
	e := &Extractor{
		httpClient: httpClient,
		userAgent:  userAgent,
		strategies: make(map[string]Strategy),
		fallback:   GenericStrategy{},
	}

	e.Register("moneycontrol.com", MoneycontrolStrategy{})
	e.Register("economictimes.indiatimes.com", EconomicTimesStrategy{})
	e.Register("livemint.com", LivemintStrategy{})

	return e
}

// Register adds or replaces the strategy for a domain. Subdomains of a
// registered domain resolve to the same strategy.
func (e *Extractor) Register(domain string, strategy Strategy) {
	e.strategies[strings.ToLower(domain)] = strategy
}

// StrategyFor resolves the strategy for an article link, falling back to the
// generic whole-page strategy for unknown domains.
func (e *Extractor) StrategyFor(link string) Strategy {
	parsed, err := url.Parse(link)
	if err != nil {
		return e.fallback
	}

	host := strings.ToLower(parsed.Hostname())
	for domain, strategy := range e.strategies {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return strategy
		}
	}

	return e.fallback
}

// Run fetches the linked page and extracts its body text. Fetch failures and
// content-shape mismatches yield an empty string, never an error: a missing
// article body must not fail the pipeline.
func (e *Extractor) Run(ctx context.Context, link string) string {
	data, err := e.fetchPage(ctx, link)
	if err != nil {
		slog.Warn("Failed to fetch article page", "url", link, "error", err)
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(data)))
	if err != nil {
		slog.Warn("Failed to parse article HTML", "url", link, "error", err)
		return ""
	}

	text := e.StrategyFor(link).Extract(doc)
	if text == "" {
		slog.Debug("No article body extracted", "url", link)
	}

	return text
}

func (e *Extractor) fetchPage(ctx context.Context, link string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", link, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", e.userAgent)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
