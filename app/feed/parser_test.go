package feed

import (
	"testing"
	"time"
)

func TestParseFeed(t *testing.T) {
	rssData := `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Market News</title>
    <link>https://www.moneycontrol.com</link>
    <description>Latest market news</description>
    <item>
      <title>Sensex rallies 500 points</title>
      <link>https://www.moneycontrol.com/news/business/markets/sensex-rallies-1.html</link>
      <description>Benchmark indices closed higher.</description>
      <pubDate>Mon, 02 Jan 2024 10:15:00 +0530</pubDate>
    </item>
    <item>
      <title>RBI holds repo rate</title>
      <link>https://www.moneycontrol.com/news/business/economy/rbi-holds-2.html</link>
      <description>The central bank kept rates unchanged.</description>
      <pubDate>Tue, 03 Jan 2024 09:00:00 +0530</pubDate>
    </item>
  </channel>
</rss>`

	parser := NewParser()
	candidates, err := parser.Run([]byte(rssData))

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(candidates) != 2 {
		t.Fatalf("Expected 2 candidates, got: %d", len(candidates))
	}

	first := candidates[0]
	if first.Title != "Sensex rallies 500 points" {
		t.Errorf("Expected title 'Sensex rallies 500 points', got: %s", first.Title)
	}
	if first.Link != "https://www.moneycontrol.com/news/business/markets/sensex-rallies-1.html" {
		t.Errorf("Unexpected link: %s", first.Link)
	}
	if first.Description != "Benchmark indices closed higher." {
		t.Errorf("Unexpected description: %s", first.Description)
	}
}

func TestParseFeedDateNormalization(t *testing.T) {
	rssData := `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Market News</title>
    <item>
      <title>Timed item</title>
      <link>https://example.com/timed</link>
      <description>d</description>
      <pubDate>Mon, 02 Jan 2024 10:15:00 +0530</pubDate>
    </item>
  </channel>
</rss>`

	parser := NewParser()
	candidates, err := parser.Run([]byte(rssData))

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("Expected 1 candidate, got: %d", len(candidates))
	}

	// +0530 offset collapses to an absolute UTC instant
	want := time.Date(2024, 1, 2, 4, 45, 0, 0, time.UTC)
	if !candidates[0].PublishedAt.Equal(want) {
		t.Errorf("Expected published at %v, got: %v", want, candidates[0].PublishedAt)
	}
	if candidates[0].PublishedAt.Location() != time.UTC {
		t.Errorf("Expected UTC timestamp, got location: %v", candidates[0].PublishedAt.Location())
	}
}

func TestParseFeedSkipsBadItems(t *testing.T) {
	rssData := `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Market News</title>
    <item>
      <title>Good item</title>
      <link>https://example.com/good</link>
      <pubDate>Mon, 02 Jan 2024 10:15:00 +0530</pubDate>
    </item>
    <item>
      <title>Bad date item</title>
      <link>https://example.com/bad-date</link>
      <pubDate>sometime last week</pubDate>
    </item>
    <item>
      <title>No link item</title>
      <pubDate>Tue, 03 Jan 2024 09:00:00 +0530</pubDate>
    </item>
  </channel>
</rss>`

	parser := NewParser()
	candidates, err := parser.Run([]byte(rssData))

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	// A date that fails to parse invalidates that single item only
	if len(candidates) != 1 {
		t.Fatalf("Expected 1 candidate, got: %d", len(candidates))
	}
	if candidates[0].Link != "https://example.com/good" {
		t.Errorf("Expected the good item to survive, got: %s", candidates[0].Link)
	}
}

func TestParseFeedMalformedXML(t *testing.T) {
	parser := NewParser()

	_, err := parser.Run([]byte("this is not XML at all"))
	if err == nil {
		t.Error("Expected error for malformed feed data")
	}
}

func TestResolvePublishedAtFallbackLayout(t *testing.T) {
	parsed, err := time.Parse(pubDateLayout, "Mon, 02 Jan 2024 10:15:00 +0530")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	want := time.Date(2024, 1, 2, 4, 45, 0, 0, time.UTC)
	if !parsed.UTC().Equal(want) {
		t.Errorf("Expected %v, got: %v", want, parsed.UTC())
	}
}
