package api

import (
	"net/http"
	"strconv"

	"github.com/bobby0007/internal-CRM/internal/audit"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	Audit *audit.Recorder
}

func NewAuditHandler(recorder *audit.Recorder) *AuditHandler {
	return &AuditHandler{Audit: recorder}
}

// Recent lists the newest mutation records, most recent first.
func (h *AuditHandler) Recent(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	entries, err := h.Audit.Recent(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, entries)
}
