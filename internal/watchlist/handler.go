package watchlist

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cardwatch/internal/notify"
	"cardwatch/internal/push"
)

type Handler struct {
	Service  *Service
	Mailer   *notify.Mailer
	Settings *notify.SettingsRepo
	Hub      *push.Hub
}

func NewHandler(service *Service, mailer *notify.Mailer, settings *notify.SettingsRepo, hub *push.Hub) *Handler {
	return &Handler{Service: service, Mailer: mailer, Settings: settings, Hub: hub}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/watchlist", h.list)
	rg.POST("/watchlist", h.add)
	rg.DELETE("/watchlist/:id", h.remove)
	rg.POST("/watchlist/:id/ack", h.acknowledge)
	rg.POST("/watchlist/refresh", h.refresh)
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.Service.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

type addReq struct {
	URL string `json:"url"`
}

func (h *Handler) add(c *gin.Context) {
	var req addReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}

	item, err := h.Service.AddTracked(c.Request.Context(), req.URL)
	switch {
	case errors.Is(err, ErrUnsupportedURL):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "supported: target.com, bestbuy.com, walmart.com, ebay.com, tcgplayer.com, pokemoncenter.com, samsclub.com, amazon.com",
		})
		return
	case errors.Is(err, ErrLookupFailed):
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not fetch product data from the url"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}

	c.JSON(http.StatusCreated, item)
}

func (h *Handler) remove(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id required"})
		return
	}

	ok, err := h.Service.RemoveTracked(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func (h *Handler) acknowledge(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id required"})
		return
	}

	err := h.Service.AcknowledgeAlert(c.Request.Context(), id)
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "acknowledge failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "acknowledged"})
}

func (h *Handler) refresh(c *gin.Context) {
	result, err := h.Service.RefreshAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "refresh failed"})
		return
	}

	h.dispatch(result)

	c.JSON(http.StatusOK, result)
}

// dispatch hands the cycle outcome to the collaborators fire-and-forget:
// their failures are logged, never retried and never surfaced to the caller.
func (h *Handler) dispatch(result RefreshResult) {
	if h.Hub != nil {
		go func() {
			h.Hub.BroadcastJSON(push.RefreshEvent())
			if len(result.Alerts) > 0 {
				h.Hub.BroadcastJSON(push.RestockEvent(result.Alerts))
			}
		}()
	}

	if len(result.Alerts) == 0 || h.Mailer == nil || h.Settings == nil {
		return
	}
	alerts := result.Alerts
	go func() {
		settings, err := h.Settings.Get(context.Background())
		if err != nil {
			log.Printf("[watchlist] load email settings: %v", err)
			return
		}
		if !settings.Enabled || !settings.Configured() {
			return
		}
		if err := h.Mailer.SendRestock(settings, alerts); err != nil {
			log.Printf("[watchlist] restock email failed: %v", err)
		}
	}()
}
