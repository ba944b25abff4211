package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/bobby0007/internal-CRM/internal/audit"
	"github.com/bobby0007/internal-CRM/internal/ratelimit"
	"github.com/bobby0007/internal-CRM/internal/session"
	"github.com/bobby0007/internal-CRM/internal/upstream"
	"github.com/bobby0007/internal-CRM/pkg/models"

	"github.com/gin-gonic/gin"
)

type RateLimitHandler struct {
	Upstream *upstream.Client
	Audit    *audit.Recorder
}

func NewRateLimitHandler(client *upstream.Client, recorder *audit.Recorder) *RateLimitHandler {
	return &RateLimitHandler{Upstream: client, Audit: recorder}
}

type aidRequest struct {
	AID string `json:"aid"`
}

func (h *RateLimitHandler) Get(c *gin.Context) {
	var req aidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	aid := strings.TrimSpace(req.AID)
	if aid == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter a valid App ID"})
		return
	}

	limits, err := h.Upstream.GetRateLimits(c.Request.Context(), aid)
	if err != nil {
		if errors.Is(err, upstream.ErrUpstreamStatus) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No rate limits found for the provided App ID"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch rate limit information. Please try again."})
		return
	}

	for i := range limits {
		if limits[i].RestrictionType == models.RestrictionCountryCode {
			ratelimit.SortCountryCodes(limits[i].CountryCodeLimitList)
		}
	}
	c.JSON(http.StatusOK, limits)
}

type rateLimitUpdateRequest struct {
	AID             string                 `json:"aid"`
	RestrictionType models.RestrictionType `json:"restrictionType"`
	Limit           int                    `json:"limit"`
}

func (h *RateLimitHandler) Update(c *gin.Context) {
	var req rateLimitUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	aid := strings.TrimSpace(req.AID)
	if aid == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter a valid App ID"})
		return
	}
	if !req.RestrictionType.Valid() || req.RestrictionType == models.RestrictionCountryCode {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid restriction type"})
		return
	}
	if req.Limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive number"})
		return
	}

	if err := h.Upstream.UpdateRateLimit(c.Request.Context(), aid, req.RestrictionType, req.Limit); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to update the rate limit. Please try again."})
		return
	}

	h.Audit.Record(session.Operator(c), "ratelimit.update", aid, req)
	c.JSON(http.StatusOK, gin.H{"aid": aid, "restrictionType": req.RestrictionType, "limit": req.Limit})
}

type countryCodeUpsertRequest struct {
	AID         string `json:"aid"`
	CountryCode string `json:"countryCode"`
	Request     int    `json:"request"`
}

// UpsertCountryCode stages a keyed upsert into the COUNTRY_CODE record,
// rewrites the whole list upstream and re-fetches: the server may normalize
// the list, so this view does not trust the local patch.
func (h *RateLimitHandler) UpsertCountryCode(c *gin.Context) {
	var req countryCodeUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	aid := strings.TrimSpace(req.AID)
	if aid == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter a valid App ID"})
		return
	}
	if req.Request <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request limit must be a positive number"})
		return
	}
	code := strings.TrimSpace(req.CountryCode)

	ctx := c.Request.Context()
	limits, err := h.Upstream.GetRateLimits(ctx, aid)
	if err != nil {
		if errors.Is(err, upstream.ErrUpstreamStatus) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No rate limits found for the provided App ID"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch rate limit information. Please try again."})
		return
	}

	record := ratelimit.FindCountryCodeRecord(limits)
	if record == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No country code rate limit configured for the provided App ID"})
		return
	}

	updated := ratelimit.UpsertCountryCode(record.CountryCodeLimitList, code, req.Request)
	if err := h.Upstream.UpdateCountryCodeLimits(ctx, aid, updated); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to update the rate limit. Please try again."})
		return
	}

	h.Audit.Record(session.Operator(c), "ratelimit.countrycode.upsert", aid, req)

	fresh, err := h.Upstream.GetRateLimits(ctx, aid)
	if err != nil {
		// Update landed; report it even though the refresh failed.
		ratelimit.SortCountryCodes(updated)
		c.JSON(http.StatusOK, gin.H{"countryCodeLimitList": updated, "refreshed": false})
		return
	}
	freshRecord := ratelimit.FindCountryCodeRecord(fresh)
	if freshRecord == nil {
		c.JSON(http.StatusOK, gin.H{"countryCodeLimitList": []models.CountryCodeLimit{}, "refreshed": true})
		return
	}
	ratelimit.SortCountryCodes(freshRecord.CountryCodeLimitList)
	c.JSON(http.StatusOK, gin.H{"countryCodeLimitList": freshRecord.CountryCodeLimitList, "refreshed": true})
}
