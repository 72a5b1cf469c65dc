package feed

import (
	"time"
)

// Feed processing types

// Candidate is a feed entry that has not been checked against the store yet.
// It lives for a single ingestion pass: either the link is already known and
// the candidate is dropped, or it is promoted to a stored article.
type Candidate struct {
	Title       string
	Description string
	Link        string
	PublishedAt time.Time // normalized to UTC
}

// Configuration types

type Config struct {
	Name     string         // Derived from filename (without .yml extension)
	URL      string         `yaml:"url"`
	Settings ConfigSettings `yaml:"settings"`
}

type ConfigSettings struct {
	Enabled  bool `yaml:"enabled"`
	MaxItems int  `yaml:"max_items"`
	Timeout  int  `yaml:"timeout"` // seconds
}
