package api

import (
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/bobby0007/internal-CRM/internal/audit"
	"github.com/bobby0007/internal-CRM/internal/session"
	"github.com/bobby0007/internal-CRM/internal/upstream"
	"github.com/bobby0007/internal-CRM/pkg/models"

	"github.com/gin-gonic/gin"
)

var midPattern = regexp.MustCompile(`^[a-zA-Z0-9]+$`)

type MerchantHandler struct {
	Upstream *upstream.Client
	Audit    *audit.Recorder
}

func NewMerchantHandler(client *upstream.Client, recorder *audit.Recorder) *MerchantHandler {
	return &MerchantHandler{Upstream: client, Audit: recorder}
}

// validMID gates every merchant lookup locally: no request leaves the
// service for an empty or non-alphanumeric MID.
func validMID(mid string) (string, string) {
	mid = strings.TrimSpace(mid)
	if mid == "" {
		return "", "Please enter a valid MID"
	}
	if !midPattern.MatchString(mid) {
		return "", "MID must contain only letters and numbers (no special characters or spaces)"
	}
	return mid, ""
}

type merchantGetRequest struct {
	MID string `json:"mid"`
}

func (h *MerchantHandler) GetDetails(c *gin.Context) {
	var req merchantGetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mid, msg := validMID(req.MID)
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	details, err := h.Upstream.GetMerchantDetails(c.Request.Context(), mid)
	if err != nil {
		if errors.Is(err, upstream.ErrUpstreamStatus) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No merchant found with the provided MID"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch merchant details. Please try again."})
		return
	}

	c.JSON(http.StatusOK, models.Merchant{
		MID:                  mid,
		Name:                 details.OrgName,
		Status:               details.Status,
		InternationalEnabled: details.InternationalEnabled,
		LastUpdated:          time.Now().UTC(),
	})
}

type merchantStatusRequest struct {
	MID    string                `json:"mid"`
	Status models.MerchantStatus `json:"status"`
}

// UpdateStatus changes the merchant lifecycle state. On success the
// requested status is echoed back; the server is not re-read.
func (h *MerchantHandler) UpdateStatus(c *gin.Context) {
	var req merchantStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mid, msg := validMID(req.MID)
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	if !req.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid merchant status"})
		return
	}

	if err := h.Upstream.UpdateMerchantStatus(c.Request.Context(), mid, req.Status); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to update merchant status. Please try again."})
		return
	}

	h.Audit.Record(session.Operator(c), "merchant.status.update", mid, gin.H{"status": req.Status})
	c.JSON(http.StatusOK, gin.H{"mid": mid, "status": req.Status})
}

type internationalRequest struct {
	MID     string `json:"mid"`
	Enabled *bool  `json:"enabled" binding:"required"`
}

// UpdateInternational toggles international transactions for a merchant.
func (h *MerchantHandler) UpdateInternational(c *gin.Context) {
	var req internationalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mid, msg := validMID(req.MID)
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	if err := h.Upstream.UpdateInternationalStatus(c.Request.Context(), mid, *req.Enabled); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to update international status. Please try again."})
		return
	}

	h.Audit.Record(session.Operator(c), "merchant.international.update", mid, gin.H{"enabled": *req.Enabled})
	c.JSON(http.StatusOK, gin.H{"mid": mid, "internationalEnabled": *req.Enabled})
}
