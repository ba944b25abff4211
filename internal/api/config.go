package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/bobby0007/internal-CRM/internal/audit"
	"github.com/bobby0007/internal-CRM/internal/session"
	"github.com/bobby0007/internal-CRM/internal/upstream"

	"github.com/gin-gonic/gin"
)

type ConfigHandler struct {
	Upstream *upstream.Client
	Audit    *audit.Recorder
}

func NewConfigHandler(client *upstream.Client, recorder *audit.Recorder) *ConfigHandler {
	return &ConfigHandler{Upstream: client, Audit: recorder}
}

func (h *ConfigHandler) Get(c *gin.Context) {
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

	configs, err := h.Upstream.GetMerchantConfigs(c.Request.Context(), aid)
	if err != nil {
		if errors.Is(err, upstream.ErrUpstreamStatus) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No configuration found for the provided App ID"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch configuration. Please try again."})
		return
	}
	c.JSON(http.StatusOK, configs)
}

type configUpdateRequest struct {
	AID    string      `json:"aid"`
	Type   string      `json:"type"`
	Value  interface{} `json:"value"`
	Status string      `json:"status"`
}

// Update writes one config value. Values are stringified and uppercased
// before submission, so booleans travel as TRUE/FALSE.
func (h *ConfigHandler) Update(c *gin.Context) {
	var req configUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	aid := strings.TrimSpace(req.AID)
	if aid == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter a valid App ID"})
		return
	}
	if strings.TrimSpace(req.Type) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "config type is required"})
		return
	}

	value, ok := stringifyValue(req.Value)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "config value must be a string, boolean or number"})
		return
	}
	status := req.Status
	if status == "" {
		status = "ACTIVE"
	}

	if err := h.Upstream.UpdateMerchantConfig(c.Request.Context(), aid, req.Type, value, status); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to update configuration. Please try again."})
		return
	}

	h.Audit.Record(session.Operator(c), "config.update", aid, gin.H{"type": req.Type, "value": value, "status": status})
	c.JSON(http.StatusOK, gin.H{"aid": aid, "type": req.Type, "value": value, "status": status})
}

func stringifyValue(v interface{}) (string, bool) {
	switch value := v.(type) {
	case string:
		return strings.ToUpper(value), true
	case bool:
		if value {
			return "TRUE", true
		}
		return "FALSE", true
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64), true
	case nil:
		return "", false
	default:
		return "", false
	}
}
