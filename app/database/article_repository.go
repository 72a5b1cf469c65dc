package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
)

var _ ArticleRepository = (*articleRepository)(nil)

type articleRepository struct {
	db *DB
}

// NewArticleRepository creates the SQLite-backed article repository.
func NewArticleRepository(db *DB) ArticleRepository {
	return &articleRepository{db: db}
}

// Exists reports whether an article with the given link is already stored.
func (r *articleRepository) Exists(link string) (bool, error) {
	var found string
	err := r.db.QueryRow(`SELECT link FROM articles WHERE link = ? LIMIT 1`, link).Scan(&found)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check article existence: %w", err)
	}

	return true, nil
}

// Insert stores an article, treating a duplicate link as a silent no-op.
// It reports whether a row was actually written.
func (r *articleRepository) Insert(article Article) (bool, error) {
	stocks, err := json.Marshal(article.Stocks)
	if err != nil {
		return false, fmt.Errorf("failed to encode stocks: %w", err)
	}

	res, err := r.db.Exec(`
		INSERT INTO articles (link, title, description, pub_date, article, sentiment, recommendation, stocks)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (link) DO NOTHING
	`, article.Link, article.Title, article.Description, article.PubDate.UTC(),
		article.BodyText, article.Sentiment, article.Recommendation, string(stocks))
	if err != nil {
		return false, fmt.Errorf("failed to insert article: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read insert result: %w", err)
	}

	return affected > 0, nil
}

// GetRecent returns the most recently published articles.
func (r *articleRepository) GetRecent(limit int) ([]Article, error) {
	rows, err := r.db.Query(`
		SELECT link, title, description, pub_date, article, sentiment, recommendation, stocks, created_at
		FROM articles
		ORDER BY pub_date DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent articles: %w", err)
	}
	defer rows.Close()

	var articles []Article
	for rows.Next() {
		var article Article
		var stocks string
		err := rows.Scan(
			&article.Link, &article.Title, &article.Description, &article.PubDate,
			&article.BodyText, &article.Sentiment, &article.Recommendation,
			&stocks, &article.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article row: %w", err)
		}

		if err := json.Unmarshal([]byte(stocks), &article.Stocks); err != nil {
			return nil, fmt.Errorf("failed to decode stocks for %s: %w", article.Link, err)
		}

		articles = append(articles, article)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating article rows: %w", err)
	}

	return articles, nil
}

// GetCount returns the total number of stored articles.
func (r *articleRepository) GetCount() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM articles`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get article count: %w", err)
	}
	return count, nil
}

// GetSentimentStats returns the number of stored articles per sentiment.
func (r *articleRepository) GetSentimentStats() (map[string]int, error) {
	rows, err := r.db.Query(`SELECT sentiment, COUNT(*) FROM articles GROUP BY sentiment`)
	if err != nil {
		return nil, fmt.Errorf("failed to get sentiment stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]int)
	for rows.Next() {
		var sentiment string
		var count int
		if err := rows.Scan(&sentiment, &count); err != nil {
			return nil, fmt.Errorf("failed to scan sentiment row: %w", err)
		}
		stats[sentiment] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sentiment rows: %w", err)
	}

	return stats, nil
}
