package discovery

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cardwatch/internal/sources"
	"cardwatch/pkg/models"
)

type Handler struct {
	Orchestrator *Orchestrator
}

func NewHandler(o *Orchestrator) *Handler {
	return &Handler{Orchestrator: o}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/discover", h.discover)
}

// discover serves three shapes from one route: ?category= scrapes one
// category, ?source= scrapes every category of one retailer, and no
// parameter returns the static catalog.
func (h *Handler) discover(c *gin.Context) {
	ctx := c.Request.Context()

	if categoryID := c.Query("category"); categoryID != "" {
		// link-only retailers have no adapter, just an outbound search URL
		if link, ok := sources.SearchLinkFor(categoryID); ok {
			c.JSON(http.StatusOK, gin.H{"products": []models.CatalogEntry{}, "search_link": link})
			return
		}
		entries, fromCache := h.Orchestrator.Discover(ctx, categoryID)
		c.JSON(http.StatusOK, gin.H{"products": entries, "from_cache": fromCache})
		return
	}

	if sourceID := c.Query("source"); sourceID != "" {
		entries, fromCache := h.Orchestrator.DiscoverSource(ctx, sourceID)
		c.JSON(http.StatusOK, gin.H{"products": entries, "from_cache": fromCache})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"retailers":  sources.Retailers(),
		"categories": sources.Categories(),
	})
}
