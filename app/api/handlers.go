package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/techunar/stockwire/app/database"
	"github.com/techunar/stockwire/app/feed"
)

const defaultArticleLimit = 50

func NewHandler(articleRepo database.ArticleRepository, configCache *feed.ConfigCache, version string) *Handler {
	return &Handler{
		articleRepo: articleRepo,
		configCache: configCache,
		version:     version,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"status":    "ok",
		"version":   h.version,
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if count, err := h.articleRepo.GetCount(); err == nil {
		health["articles"] = count
	} else {
		health["status"] = "degraded"
		slog.Error("Database error", "operation", "get_count", "error", err)
	}

	health["loaded_configurations"] = h.configCache.GetConfigCount()

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	total, err := h.articleRepo.GetCount()
	if err != nil {
		slog.Error("Database error", "operation", "get_count", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	sentiments, err := h.articleRepo.GetSentimentStats()
	if err != nil {
		slog.Error("Database error", "operation", "get_sentiment_stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"articles":   total,
		"sentiments": sentiments,
		"feeds":      h.configCache.GetConfigCount(),
	})
}

func (h *Handler) ListArticles(c *gin.Context) {
	limit := defaultArticleLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		limit = parsed
	}

	articles, err := h.articleRepo.GetRecent(limit)
	if err != nil {
		slog.Error("Database error", "operation", "get_recent", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	out := make([]map[string]interface{}, 0, len(articles))
	for _, article := range articles {
		out = append(out, articleJSON(article))
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"articles": out,
		"total":    len(out),
	})
}

func articleJSON(article database.Article) map[string]interface{} {
	stocks := json.RawMessage("[]")
	if raw, err := json.Marshal(article.Stocks); err == nil {
		stocks = raw
	}

	return map[string]interface{}{
		"link":           article.Link,
		"title":          article.Title,
		"description":    article.Description,
		"pub_date":       article.PubDate.UTC().Format(time.RFC3339),
		"article":        article.BodyText,
		"sentiment":      article.Sentiment,
		"recommendation": article.Recommendation,
		"stocks":         stocks,
	}
}
