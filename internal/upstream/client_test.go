package upstream

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bobby0007/internal-CRM/internal/config"
	"github.com/bobby0007/internal-CRM/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := &config.Config{
		UpstreamBaseURL:    srv.URL + "/",
		UpstreamToken:      "test-token",
		HTTPTimeoutSeconds: 5,
	}
	return NewClient(cfg, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestGetMerchantDetailsDecodesEnvelope(t *testing.T) {
	var gotPath, gotToken string
	var gotBody map[string]string

	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotToken = r.Header.Get("token")
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"statusCode": 200,
			"data": map[string]interface{}{
				"orgName":              "Acme",
				"status":               "ACTIVE",
				"internationalEnabled": false,
			},
		})
	})

	details, err := client.GetMerchantDetails(context.Background(), "MID123")
	require.NoError(t, err)
	assert.Equal(t, "/merchant-details/get", gotPath)
	assert.Equal(t, "test-token", gotToken)
	assert.Equal(t, map[string]string{"mid": "MID123"}, gotBody)
	assert.Equal(t, "Acme", details.OrgName)
	assert.Equal(t, models.StatusActive, details.Status)
	assert.False(t, details.InternationalEnabled)
}

func TestEnvelopeStatusErrorIsApplicationLevel(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"statusCode": 404,
			"message":    "merchant not found",
		})
	})

	_, err := client.GetMerchantDetails(context.Background(), "MID999")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstreamStatus)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, 404, statusErr.StatusCode)
	assert.Equal(t, "merchant not found", statusErr.Message)
}

func TestTransportFailureIsNotStatusError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.GetRateLimits(context.Background(), "APP1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUpstreamStatus)
	assert.Contains(t, err.Error(), "upstream request failed")
}

func TestUpdateInternationalStatusMapsBoolean(t *testing.T) {
	var gotBody map[string]string
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]interface{}{"statusCode": 200})
	})

	require.NoError(t, client.UpdateInternationalStatus(context.Background(), "MID123", true))
	assert.Equal(t, "ACTIVE", gotBody["status"])

	require.NoError(t, client.UpdateInternationalStatus(context.Background(), "MID123", false))
	assert.Equal(t, "INACTIVE", gotBody["status"])
}

func TestUpdateCountryCodeLimitsSendsWholeList(t *testing.T) {
	var gotBody struct {
		AID                  string                    `json:"aid"`
		RestrictionType      string                    `json:"restrictionType"`
		CountryCodeLimitList []models.CountryCodeLimit `json:"countryCodeLimitList"`
	}
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]interface{}{"statusCode": 200})
	})

	list := []models.CountryCodeLimit{
		{CountryCode: "91", Request: 100, Value: 15, Unit: models.UnitMinutes},
		{CountryCode: "default", Request: 10, Value: 15, Unit: models.UnitMinutes},
	}
	require.NoError(t, client.UpdateCountryCodeLimits(context.Background(), "APP1", list))
	assert.Equal(t, "APP1", gotBody.AID)
	assert.Equal(t, "COUNTRY_CODE", gotBody.RestrictionType)
	assert.Len(t, gotBody.CountryCodeLimitList, 2)
}

func TestCreateCommunicationTemplateReturnsCode(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/partner/create", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"statusCode": 200,
			"data":       map[string]string{"templateCode": "TPL-42"},
		})
	})

	code, err := client.CreateCommunicationTemplate(context.Background(), models.CommunicationTemplate{AppID: "APP1"})
	require.NoError(t, err)
	assert.Equal(t, "TPL-42", code)
}

func TestNullDataIsSkipped(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"statusCode": 200,
			"data":       nil,
		})
	})

	limits, err := client.GetRateLimits(context.Background(), "APP1")
	require.NoError(t, err)
	assert.Empty(t, limits)
}
