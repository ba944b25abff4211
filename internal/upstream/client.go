package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bobby0007/internal-CRM/internal/config"
	"github.com/bobby0007/internal-CRM/internal/metrics"
	"github.com/bobby0007/internal-CRM/pkg/models"
)

// Upstream dashboard-backend paths, one per operation.
const (
	pathMerchantGet           = "merchant-details/get"
	pathMerchantUpdate        = "merchant-details/update"
	pathMerchantInternational = "merchant-details/update-international"
	pathRateLimitGet          = "rate-limit/get"
	pathRateLimitUpdate       = "rate-limit/update"
	pathConfigGet             = "merchant-config/get"
	pathConfigUpdate          = "merchant-config/update"
	pathCatalogGet            = "template/catalog/get"
	pathCatalogUpdate         = "template/catalog/update"
	pathPartnerCreate         = "partner/create"
	pathSilentAuthSave        = "silent-auth/save"
)

// ErrUpstreamStatus marks application-level failures: the transport call
// succeeded but the envelope statusCode was not 200.
var ErrUpstreamStatus = errors.New("upstream status error")

// StatusError carries the envelope statusCode and message of an
// application-level failure.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("upstream returned statusCode %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("upstream returned statusCode %d", e.StatusCode)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrUpstreamStatus
}

// envelope is the fixed response shape of the dashboard backend.
type envelope struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message,omitempty"`
}

// Client issues calls against the internal dashboard backend. Every call is
// a JSON POST to a fixed host with a static token header. There is no retry
// or caching; failures surface to the caller.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

func NewClient(cfg *config.Config, m *metrics.Metrics, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.UpstreamBaseURL, "/"),
		token:      cfg.UpstreamToken,
		httpClient: &http.Client{Timeout: time.Duration(cfg.HTTPTimeoutSeconds) * time.Second},
		metrics:    m,
		logger:     logger.With("component", "upstream"),
	}
}

// post sends one request and decodes the envelope. When out is non-nil the
// envelope data payload is unmarshalled into it.
func (c *Client) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("token", c.token)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(path, "transport_error", start)
		return fmt.Errorf("upstream request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.observe(path, "read_error", start)
		return fmt.Errorf("read upstream response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.observe(path, strconv.Itoa(resp.StatusCode), start)
		c.logger.Warn("upstream transport failure", "path", path, "status", resp.Status)
		return fmt.Errorf("upstream request failed: %s", resp.Status)
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		c.observe(path, "decode_error", start)
		return fmt.Errorf("decode upstream response: %w", err)
	}

	if env.StatusCode != http.StatusOK {
		c.observe(path, strconv.Itoa(env.StatusCode), start)
		return &StatusError{StatusCode: env.StatusCode, Message: env.Message}
	}

	c.observe(path, "200", start)

	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode upstream data: %w", err)
		}
	}
	return nil
}

func (c *Client) observe(path, status string, start time.Time) {
	if c.metrics == nil {
		return
	}
	c.metrics.UpstreamRequests.WithLabelValues(path, status).Inc()
	c.metrics.UpstreamLatency.WithLabelValues(path, status).Observe(time.Since(start).Seconds())
}

// --- Merchant operations ---

func (c *Client) GetMerchantDetails(ctx context.Context, mid string) (*models.MerchantDetails, error) {
	var details models.MerchantDetails
	err := c.post(ctx, pathMerchantGet, map[string]string{"mid": mid}, &details)
	if err != nil {
		return nil, err
	}
	return &details, nil
}

func (c *Client) UpdateMerchantStatus(ctx context.Context, mid string, status models.MerchantStatus) error {
	return c.post(ctx, pathMerchantUpdate, map[string]string{"mid": mid, "status": string(status)}, nil)
}

// UpdateInternationalStatus maps the boolean toggle onto the backend's
// ACTIVE/INACTIVE status convention.
func (c *Client) UpdateInternationalStatus(ctx context.Context, mid string, enabled bool) error {
	status := "INACTIVE"
	if enabled {
		status = "ACTIVE"
	}
	return c.post(ctx, pathMerchantInternational, map[string]string{"mid": mid, "status": status}, nil)
}

// --- Rate limit operations ---

func (c *Client) GetRateLimits(ctx context.Context, aid string) ([]models.RateLimit, error) {
	var limits []models.RateLimit
	if err := c.post(ctx, pathRateLimitGet, map[string]string{"aid": aid}, &limits); err != nil {
		return nil, err
	}
	return limits, nil
}

func (c *Client) UpdateRateLimit(ctx context.Context, aid string, restrictionType models.RestrictionType, limit int) error {
	body := map[string]interface{}{
		"aid":             aid,
		"restrictionType": restrictionType,
		"limit":           limit,
	}
	return c.post(ctx, pathRateLimitUpdate, body, nil)
}

// UpdateCountryCodeLimits rewrites the entire country-code list of the
// COUNTRY_CODE rate limit record.
func (c *Client) UpdateCountryCodeLimits(ctx context.Context, aid string, list []models.CountryCodeLimit) error {
	body := map[string]interface{}{
		"aid":                  aid,
		"restrictionType":      models.RestrictionCountryCode,
		"countryCodeLimitList": list,
	}
	return c.post(ctx, pathRateLimitUpdate, body, nil)
}

// --- Merchant config operations ---

func (c *Client) GetMerchantConfigs(ctx context.Context, aid string) ([]models.MerchantConfig, error) {
	var configs []models.MerchantConfig
	if err := c.post(ctx, pathConfigGet, map[string]string{"aid": aid}, &configs); err != nil {
		return nil, err
	}
	return configs, nil
}

func (c *Client) UpdateMerchantConfig(ctx context.Context, aid, configType, value, status string) error {
	body := map[string]string{
		"aid":    aid,
		"type":   configType,
		"value":  value,
		"status": status,
	}
	return c.post(ctx, pathConfigUpdate, body, nil)
}

// --- Template catalog operations ---

func (c *Client) GetTemplateCatalog(ctx context.Context, aid, channel, communicationMode string) (*models.TemplateCatalog, error) {
	body := map[string]string{
		"aid":               aid,
		"channel":           channel,
		"communicationMode": communicationMode,
	}
	var catalog models.TemplateCatalog
	if err := c.post(ctx, pathCatalogGet, body, &catalog); err != nil {
		return nil, err
	}
	return &catalog, nil
}

// CatalogUpdateRequest commits a full catalog snapshot in one request.
type CatalogUpdateRequest struct {
	AID                 string                 `json:"aid"`
	Channel             string                 `json:"channel"`
	CommunicationMode   string                 `json:"communicationMode"`
	DefaultTemplateCode string                 `json:"defaultTemplateCode"`
	UpdateDetails       models.TemplateCatalog `json:"updateDetails"`
}

func (c *Client) UpdateTemplateCatalog(ctx context.Context, req CatalogUpdateRequest) error {
	return c.post(ctx, pathCatalogUpdate, req, nil)
}

// --- Communications ---

// CreateCommunicationTemplate registers a template and returns the
// server-issued template code.
func (c *Client) CreateCommunicationTemplate(ctx context.Context, tpl models.CommunicationTemplate) (string, error) {
	var data struct {
		TemplateCode string `json:"templateCode"`
		Message      string `json:"message,omitempty"`
	}
	if err := c.post(ctx, pathPartnerCreate, tpl, &data); err != nil {
		return "", err
	}
	return data.TemplateCode, nil
}

// --- Silent auth ---

func (c *Client) SaveSilentAuthConfig(ctx context.Context, cfg models.SilentAuthConfig) error {
	return c.post(ctx, pathSilentAuthSave, cfg, nil)
}
