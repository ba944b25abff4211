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

type CommunicationsHandler struct {
	Upstream *upstream.Client
	Audit    *audit.Recorder
}

func NewCommunicationsHandler(client *upstream.Client, recorder *audit.Recorder) *CommunicationsHandler {
	return &CommunicationsHandler{Upstream: client, Audit: recorder}
}

// CreateTemplate registers an SMS or WhatsApp communication template.
// Required fields depend on the channel; gatewayName and templateId pass
// through unvalidated. Success returns the server-issued template code.
func (h *CommunicationsHandler) CreateTemplate(c *gin.Context) {
	var tpl models.CommunicationTemplate
	if err := c.ShouldBindJSON(&tpl); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if msg := validateTemplateRequest(tpl); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	code, err := h.Upstream.CreateCommunicationTemplate(c.Request.Context(), tpl)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to create template. Please try again."})
		return
	}

	h.Audit.Record(session.Operator(c), "communications.template.create", tpl.AppID, gin.H{
		"channel":      tpl.Channel,
		"templateType": tpl.TemplateType,
		"templateCode": code,
	})
	c.JSON(http.StatusOK, gin.H{"templateCode": code, "message": "Template created successfully"})
}

func validateTemplateRequest(tpl models.CommunicationTemplate) string {
	required := map[string]string{
		"appId":        tpl.AppID,
		"merchantName": tpl.MerchantName,
		"body":         tpl.Body,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			return field + " is required"
		}
	}

	switch tpl.TemplateType {
	case "SERVICE_IMPLICT", "SERVICE_EXPLICIT", "AUTHENTICATION":
	default:
		return "invalid template type"
	}

	switch tpl.Channel {
	case "SMS":
		if strings.TrimSpace(tpl.PeID) == "" {
			return "peId is required for SMS templates"
		}
		if strings.TrimSpace(tpl.SenderID) == "" {
			return "senderId is required for SMS templates"
		}
	case "WHATSAPP":
		for field, value := range map[string]string{
			"partnerAppId":    tpl.PartnerAppID,
			"partnerAppToken": tpl.PartnerAppToken,
			"whatsappNumber":  tpl.WhatsappNumber,
			"partnerName":     tpl.PartnerName,
		} {
			if strings.TrimSpace(value) == "" {
				return field + " is required for WhatsApp templates"
			}
		}
	default:
		return "channel must be WHATSAPP or SMS"
	}
	return ""
}
