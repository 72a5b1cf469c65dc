package feed

import (
	"bytes"
	"fmt"
	"log/slog"
	"time"

	"github.com/mmcdole/gofeed"
)

// pubDateLayout matches the RFC-822-style date strings carried by the
// syndication feeds, e.g. "Mon, 02 Jan 2024 10:15:00 +0530".
const pubDateLayout = "Mon, 02 Jan 2006 15:04:05 -0700"

type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

// Run parses raw feed XML into candidates. Items without a link or with an
// unparseable publication date are skipped individually; a malformed document
// fails the whole feed.
func (p *Parser) Run(data []byte) ([]Candidate, error) {
	parsed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	candidates := make([]Candidate, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item.Link == "" {
			slog.Debug("Skipping feed item without link", "title", item.Title)
			continue
		}

		publishedAt, err := p.resolvePublishedAt(item)
		if err != nil {
			slog.Debug("Skipping feed item with unparseable date", "link", item.Link, "date", item.Published, "error", err)
			continue
		}

		candidates = append(candidates, Candidate{
			Title:       item.Title,
			Description: item.Description,
			Link:        item.Link,
			PublishedAt: publishedAt.UTC(),
		})
	}

	return candidates, nil
}

func (p *Parser) resolvePublishedAt(item *gofeed.Item) (time.Time, error) {
	if item.PublishedParsed != nil {
		return *item.PublishedParsed, nil
	}

	if item.Published == "" {
		return time.Time{}, fmt.Errorf("item has no publication date")
	}

	publishedAt, err := time.Parse(pubDateLayout, item.Published)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse date %q: %w", item.Published, err)
	}

	return publishedAt, nil
}
