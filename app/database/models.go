package database

import (
	"time"
)

// Stock is a stock mention persisted alongside an article, stored as a JSON
// array in the stocks column.
type Stock struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// Article represents an enriched article record in the database. The link is
// the identity key; a record is written once and never mutated.
type Article struct {
	Link           string
	Title          string
	Description    string
	PubDate        time.Time
	BodyText       string
	Sentiment      string
	Recommendation string
	Stocks         []Stock
	CreatedAt      time.Time
}
