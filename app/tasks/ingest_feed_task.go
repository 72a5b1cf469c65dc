package tasks

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/techunar/stockwire/app/database"
	"github.com/techunar/stockwire/app/feed"
)

// IngestFeedTask runs the full pipeline for one feed: fetch and parse the
// feed, then for each candidate not yet admitted, extract the article body,
// enrich it and persist the record.
type IngestFeedTask struct {
	Task
	FeedConfig  *feed.Config
	httpClient  *http.Client
	parser      *feed.Parser
	extractor   *feed.Extractor
	enricher    Enricher
	articleRepo database.ArticleRepository
	userAgent   string
}

func NewIngestFeedTask(feedName string, feedConfig *feed.Config, httpClient *http.Client, parser *feed.Parser, extractor *feed.Extractor, enricher Enricher, articleRepo database.ArticleRepository, userAgent string) *IngestFeedTask {
	return &IngestFeedTask{
		Task:        NewTask(TaskTypeIngestFeed, feedName),
		FeedConfig:  feedConfig,
		httpClient:  httpClient,
		parser:      parser,
		extractor:   extractor,
		enricher:    enricher,
		articleRepo: articleRepo,
		userAgent:   userAgent,
	}
}

func (t *IngestFeedTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !t.FeedConfig.Settings.Enabled {
		slog.Debug("Feed disabled, skipping", "feed", t.FeedName)
		return nil
	}

	// Feed-level failures are transient source failures: this cycle simply
	// contributes nothing from this feed.
	data, err := t.fetchFeed(ctx, t.FeedConfig.URL)
	if err != nil {
		slog.Warn("Failed to fetch feed", "feed", t.FeedName, "url", t.FeedConfig.URL, "error", err)
		return nil
	}

	candidates, err := t.parser.Run(data)
	if err != nil {
		slog.Warn("Failed to parse feed", "feed", t.FeedName, "url", t.FeedConfig.URL, "error", err)
		return nil
	}

	if max := t.FeedConfig.Settings.MaxItems; max > 0 && len(candidates) > max {
		candidates = candidates[:max]
	}

	addedCount := 0
	existingCount := 0
	failedCount := 0

	for _, candidate := range candidates {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		added, exists, err := t.processCandidate(ctx, candidate)
		switch {
		case err != nil:
			// One bad article never aborts the cycle.
			slog.Error("Failed to process candidate", "feed", t.FeedName, "link", candidate.Link, "error", err)
			failedCount++
		case added:
			addedCount++
		case exists:
			existingCount++
		}
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"feed", t.FeedName,
		"duration", t.GetDuration(),
		"total", len(candidates),
		"added", addedCount,
		"existing", existingCount,
		"failed", failedCount)

	return nil
}

// processCandidate drives one candidate through the admission check,
// extraction, enrichment and persistence stages. Panics from any stage are
// converted into errors so the caller can continue with the next candidate.
func (t *IngestFeedTask) processCandidate(ctx context.Context, candidate feed.Candidate) (added bool, exists bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while processing candidate: %v", r)
		}
	}()

	exists, err = t.articleRepo.Exists(candidate.Link)
	if err != nil {
		return false, false, fmt.Errorf("failed admission check: %w", err)
	}
	if exists {
		slog.Info("Article already exists", "feed", t.FeedName, "title", candidate.Title)
		return false, true, nil
	}

	extractCtx, cancel := context.WithTimeout(ctx, time.Duration(t.FeedConfig.Settings.Timeout)*time.Second)
	bodyText := t.extractor.Run(extractCtx, candidate.Link)
	cancel()

	result := t.enricher.Analyze(ctx, bodyText)

	stocks := make([]database.Stock, 0, len(result.Stocks))
	for _, stock := range result.Stocks {
		stocks = append(stocks, database.Stock{Name: stock.Name, Code: stock.Code})
	}

	inserted, err := t.articleRepo.Insert(database.Article{
		Link:           candidate.Link,
		Title:          candidate.Title,
		Description:    candidate.Description,
		PubDate:        candidate.PublishedAt,
		BodyText:       bodyText,
		Sentiment:      result.Sentiment,
		Recommendation: result.Recommendation,
		Stocks:         stocks,
	})
	if err != nil {
		return false, false, fmt.Errorf("failed to insert article: %w", err)
	}

	if !inserted {
		// Lost the race to a concurrent worker; the uniqueness constraint on
		// link is the final dedup backstop.
		slog.Info("Article already exists", "feed", t.FeedName, "title", candidate.Title)
		return false, true, nil
	}

	slog.Info("Added new article",
		"feed", t.FeedName,
		"title", candidate.Title,
		"stocks", stocks,
		"sentiment", result.Sentiment,
		"recommendation", result.Recommendation)

	return true, false, nil
}

func (t *IngestFeedTask) fetchFeed(ctx context.Context, url string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, time.Duration(t.FeedConfig.Settings.Timeout)*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", t.userAgent)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
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
