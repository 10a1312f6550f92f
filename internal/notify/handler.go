package notify

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cardwatch/pkg/models"
)

type Handler struct {
	Repo   *SettingsRepo
	Mailer *Mailer
}

func NewHandler(repo *SettingsRepo, mailer *Mailer) *Handler {
	return &Handler{Repo: repo, Mailer: mailer}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/settings", h.get)
	rg.POST("/settings", h.save)
}

// get never returns the stored password, only whether one exists.
func (h *Handler) get(c *gin.Context) {
	s, err := h.Repo.Get(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"enabled":         s.Enabled,
		"sender_email":    s.SenderEmail,
		"recipient_email": s.RecipientEmail,
		"has_password":    s.SenderPassword != "",
	})
}

type saveReq struct {
	Enabled        *bool   `json:"enabled"`
	SenderEmail    *string `json:"sender_email"`
	SenderPassword string  `json:"sender_password"`
	RecipientEmail *string `json:"recipient_email"`
	TestEmail      bool    `json:"test_email"`
}

// save merges the request over the stored settings. A blank password keeps
// the stored one, so the UI never has to echo it back. With test_email set,
// nothing is stored; the given credentials are tried end to end instead.
func (h *Handler) save(c *gin.Context) {
	var req saveReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	if req.TestEmail {
		settings := models.EmailSettings{
			Enabled:        true,
			SenderPassword: req.SenderPassword,
		}
		if req.SenderEmail != nil {
			settings.SenderEmail = *req.SenderEmail
		}
		if req.RecipientEmail != nil {
			settings.RecipientEmail = *req.RecipientEmail
		}
		if !settings.Configured() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "all email fields are required to send a test"})
			return
		}
		if err := h.Mailer.SendTest(settings); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "test email sent"})
		return
	}

	existing, err := h.Repo.Get(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load failed"})
		return
	}

	settings := existing
	if req.Enabled != nil {
		settings.Enabled = *req.Enabled
	}
	if req.SenderEmail != nil {
		settings.SenderEmail = *req.SenderEmail
	}
	if req.RecipientEmail != nil {
		settings.RecipientEmail = *req.RecipientEmail
	}
	if req.SenderPassword != "" {
		settings.SenderPassword = req.SenderPassword
	}

	if err := h.Repo.Save(c.Request.Context(), settings); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "saved"})
}
