package news

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"cardwatch/internal/cache"
	"cardwatch/pkg/models"
)

const cacheKey = "news:all"

type Handler struct {
	Scraper *Scraper
	Cache   cache.Cache
}

func NewHandler(scraper *Scraper, c cache.Cache) *Handler {
	return &Handler{Scraper: scraper, Cache: c}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/news", h.list)
}

func (h *Handler) list(c *gin.Context) {
	ctx := c.Request.Context()

	if payload, ok := h.Cache.Get(ctx, cacheKey); ok {
		var items []models.NewsItem
		if err := json.Unmarshal(payload, &items); err == nil {
			c.JSON(http.StatusOK, gin.H{"news": items, "from_cache": true})
			return
		}
		log.Printf("[news] corrupt cache entry %s", cacheKey)
	}

	items := h.Scraper.ScrapeAll(ctx)
	// empty feeds are not cached so a transient outage retries next request
	if len(items) > 0 {
		if payload, err := json.Marshal(items); err == nil {
			h.Cache.Set(ctx, cacheKey, payload)
		}
	}
	c.JSON(http.StatusOK, gin.H{"news": items, "from_cache": false})
}
