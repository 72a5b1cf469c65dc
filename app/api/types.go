package api

import (
	"github.com/techunar/stockwire/app/database"
	"github.com/techunar/stockwire/app/feed"
)

type Handler struct {
	articleRepo database.ArticleRepository
	configCache *feed.ConfigCache
	version     string
}
