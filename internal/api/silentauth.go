package api

import (
	"net/http"
	"strings"

	"github.com/bobby0007/internal-CRM/internal/audit"
	"github.com/bobby0007/internal-CRM/internal/session"
	"github.com/bobby0007/internal-CRM/internal/upstream"
	"github.com/bobby0007/internal-CRM/pkg/models"

	"github.com/gin-gonic/gin"
)

type SilentAuthHandler struct {
	Upstream *upstream.Client
	Audit    *audit.Recorder
}

func NewSilentAuthHandler(client *upstream.Client, recorder *audit.Recorder) *SilentAuthHandler {
	return &SilentAuthHandler{Upstream: client, Audit: recorder}
}

// Save stores a silent-auth credential set for an application. All fields
// are required; credentials are redacted from the audit trail.
func (h *SilentAuthHandler) Save(c *gin.Context) {
	var cfg models.SilentAuthConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	for field, value := range map[string]string{
		"aid":          cfg.AID,
		"userName":     cfg.UserName,
		"password":     cfg.Password,
		"refreshToken": cfg.RefreshToken,
	} {
		if strings.TrimSpace(value) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": field + " is required"})
			return
		}
	}

	if err := h.Upstream.SaveSilentAuthConfig(c.Request.Context(), cfg); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to save config. Please try again."})
		return
	}

	h.Audit.Record(session.Operator(c), "silentauth.save", cfg.AID, gin.H{"userName": cfg.UserName})
	c.JSON(http.StatusOK, gin.H{"message": "Silent Auth Config saved successfully"})
}
