package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/bobby0007/internal-CRM/internal/audit"
	"github.com/bobby0007/internal-CRM/internal/catalog"
	"github.com/bobby0007/internal-CRM/internal/session"
	"github.com/bobby0007/internal-CRM/internal/upstream"
	"github.com/bobby0007/internal-CRM/pkg/models"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	Upstream *upstream.Client
	Drafts   *catalog.DraftStore
	Audit    *audit.Recorder
}

func NewCatalogHandler(client *upstream.Client, drafts *catalog.DraftStore, recorder *audit.Recorder) *CatalogHandler {
	return &CatalogHandler{Upstream: client, Drafts: drafts, Audit: recorder}
}

func validateKey(key catalog.Key) string {
	if strings.TrimSpace(key.AID) == "" {
		return "Please enter an App ID"
	}
	switch key.Channel {
	case "OTP", "PROMOTIONAL", "TRANSACTIONAL":
	default:
		return "invalid channel"
	}
	switch key.CommunicationMode {
	case "SMS", "EMAIL", "WHATSAPP":
	default:
		return "invalid communication mode"
	}
	return ""
}

// Fetch loads the upstream catalog into a fresh draft. An application with
// no catalog yet starts from an empty configuration.
func (h *CatalogHandler) Fetch(c *gin.Context) {
	var key catalog.Key
	if err := c.ShouldBindJSON(&key); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	key.AID = strings.TrimSpace(key.AID)
	if msg := validateKey(key); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	cat, err := h.Upstream.GetTemplateCatalog(c.Request.Context(), key.AID, key.Channel, key.CommunicationMode)
	if err != nil {
		if errors.Is(err, upstream.ErrUpstreamStatus) {
			// No catalog yet; stage an empty one for editing.
			view := h.Drafts.Put(key, models.TemplateCatalog{})
			c.JSON(http.StatusOK, gin.H{"key": key, "catalog": view})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch template configuration. Please try again."})
		return
	}

	view := h.Drafts.Put(key, *cat)
	c.JSON(http.StatusOK, gin.H{"key": key, "catalog": view})
}

// View returns the current draft without touching the upstream.
func (h *CatalogHandler) View(c *gin.Context) {
	key := catalog.Key{
		AID:               strings.TrimSpace(c.Query("aid")),
		Channel:           c.Query("channel"),
		CommunicationMode: c.Query("communicationMode"),
	}
	if msg := validateKey(key); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	view, err := h.Drafts.View(key)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No template catalog fetched for this App ID"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "catalog": view})
}

func (h *CatalogHandler) mutate(c *gin.Context, key catalog.Key, fn func(*catalog.Draft) error) {
	key.AID = strings.TrimSpace(key.AID)
	if msg := validateKey(key); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	view, err := h.Drafts.Mutate(key, fn)
	if err != nil {
		c.JSON(catalogErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "catalog": view})
}

func catalogErrorStatus(err error) int {
	switch {
	case errors.Is(err, catalog.ErrNoDraft):
		return http.StatusNotFound
	case errors.Is(err, catalog.ErrBucketNotFound):
		return http.StatusNotFound
	case errors.Is(err, catalog.ErrBucketExists), errors.Is(err, catalog.ErrDuplicateCode):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

type bucketRequest struct {
	catalog.Key
	CountryCode string `json:"countryCode"`
}

func (h *CatalogHandler) AddBucket(c *gin.Context) {
	var req bucketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(req.CountryCode) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "country code is required"})
		return
	}
	h.mutate(c, req.Key, func(d *catalog.Draft) error {
		return catalog.AddBucket(&d.Catalog, req.CountryCode)
	})
}

type templateRequest struct {
	catalog.Key
	CountryCode  string `json:"countryCode"`
	TemplateCode string `json:"templateCode"`
	TrafficSplit int    `json:"trafficSplit"`
}

func (h *CatalogHandler) AddTemplate(c *gin.Context) {
	var req templateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.mutate(c, req.Key, func(d *catalog.Draft) error {
		return catalog.AddTemplate(&d.Catalog, req.CountryCode, models.TemplateInfo{
			TemplateCode: req.TemplateCode,
			TrafficSplit: req.TrafficSplit,
		})
	})
}

type templateEditRequest struct {
	catalog.Key
	CountryCode  string `json:"countryCode"`
	Index        int    `json:"index"`
	TemplateCode string `json:"templateCode"`
	TrafficSplit int    `json:"trafficSplit"`
}

// EditTemplate rewrites one entry in place. Index addresses the underlying
// storage position reported by the draft view, not the display row.
func (h *CatalogHandler) EditTemplate(c *gin.Context) {
	var req templateEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.mutate(c, req.Key, func(d *catalog.Draft) error {
		return catalog.EditTemplate(&d.Catalog, req.CountryCode, req.Index, models.TemplateInfo{
			TemplateCode: req.TemplateCode,
			TrafficSplit: req.TrafficSplit,
		})
	})
}

type templateDeleteRequest struct {
	catalog.Key
	CountryCode string `json:"countryCode"`
	Index       int    `json:"index"`
}

func (h *CatalogHandler) DeleteTemplate(c *gin.Context) {
	var req templateDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.mutate(c, req.Key, func(d *catalog.Draft) error {
		return catalog.DeleteTemplate(&d.Catalog, req.CountryCode, req.Index)
	})
}

type importRequest struct {
	catalog.Key
	Mapping map[string][]models.TemplateInfo `json:"mapping"`
}

// Import shallow-merges user-supplied buckets into the draft: re-imported
// country codes replace their whole list.
func (h *CatalogHandler) Import(c *gin.Context) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Mapping) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mapping is required"})
		return
	}
	h.mutate(c, req.Key, func(d *catalog.Draft) error {
		catalog.Import(&d.Catalog, req.Mapping)
		return nil
	})
}

type toggleRequest struct {
	catalog.Key
	Field string `json:"field"`
}

// Toggle flips one of the global flags on the draft. Nothing is sent
// upstream until save.
func (h *CatalogHandler) Toggle(c *gin.Context) {
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.mutate(c, req.Key, func(d *catalog.Draft) error {
		switch req.Field {
		case "buttonEnabled":
			d.Catalog.ButtonEnabled = !d.Catalog.ButtonEnabled
		case "loadBalancingEnabled":
			d.Catalog.LoadBalancingEnabled = !d.Catalog.LoadBalancingEnabled
		default:
			return errors.New("unknown toggle field")
		}
		return nil
	})
}

type saveRequest struct {
	catalog.Key
	DefaultTemplateCode string `json:"defaultTemplateCode"`
}

// Save commits the entire draft snapshot in one upstream request, then
// re-fetches to resynchronize. Traffic-split totals are reported but never
// block the save.
func (h *CatalogHandler) Save(c *gin.Context) {
	var req saveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.Key.AID = strings.TrimSpace(req.Key.AID)
	if msg := validateKey(req.Key); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	draft, err := h.Drafts.Snapshot(req.Key)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No template catalog fetched for this App ID"})
		return
	}

	ctx := c.Request.Context()
	update := upstream.CatalogUpdateRequest{
		AID:                 req.Key.AID,
		Channel:             req.Key.Channel,
		CommunicationMode:   req.Key.CommunicationMode,
		DefaultTemplateCode: req.DefaultTemplateCode,
		UpdateDetails:       draft.Catalog,
	}
	if err := h.Upstream.UpdateTemplateCatalog(ctx, update); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to update template configuration. Please try again."})
		return
	}

	h.Audit.Record(session.Operator(c), "catalog.save", req.Key.AID, gin.H{
		"channel":             req.Key.Channel,
		"communicationMode":   req.Key.CommunicationMode,
		"defaultTemplateCode": req.DefaultTemplateCode,
		"buckets":             len(draft.Catalog.LoadBalanceTemplates),
	})

	cat, err := h.Upstream.GetTemplateCatalog(ctx, req.Key.AID, req.Key.Channel, req.Key.CommunicationMode)
	if err != nil {
		// Save landed; the draft keeps the committed snapshot.
		view := h.Drafts.Put(req.Key, draft.Catalog)
		c.JSON(http.StatusOK, gin.H{"key": req.Key, "catalog": view, "refreshed": false})
		return
	}
	view := h.Drafts.Put(req.Key, *cat)
	c.JSON(http.StatusOK, gin.H{"key": req.Key, "catalog": view, "refreshed": true})
}
