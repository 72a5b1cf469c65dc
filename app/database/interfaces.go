package database

// ArticleRepository is the admission and persistence store keyed by article
// link. Exists is a work-avoidance check only; the uniqueness constraint on
// the link column is the authoritative dedup guarantee, so a concurrent
// second insert for the same link resolves to a no-op rather than an error.
type ArticleRepository interface {
	Exists(link string) (bool, error)
	Insert(article Article) (bool, error)

	GetRecent(limit int) ([]Article, error)
	GetCount() (int, error)
	GetSentimentStats() (map[string]int, error)
}
