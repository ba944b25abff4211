package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/bobby0007/internal-CRM/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rateLimitRouter(f *fakeUpstream) *gin.Engine {
	h := NewRateLimitHandler(f.client, nil)
	r := gin.New()
	r.POST("/rate-limit/get", h.Get)
	r.POST("/rate-limit/update", h.Update)
	r.POST("/rate-limit/country-code", h.UpsertCountryCode)
	return r
}

func TestGetRateLimitsSortsCountryCodes(t *testing.T) {
	f := newFakeUpstream(t)
	f.on("/rate-limit/get", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, 200, []map[string]interface{}{
			{"id": 1, "restrictionType": "IP", "limits": map[string]interface{}{"request": 100, "value": 15, "unit": "MINUTES"}},
			{"id": 2, "restrictionType": "COUNTRY_CODE", "countryCodeLimitList": []map[string]interface{}{
				{"countryCode": "default", "request": 10, "value": 15, "unit": "MINUTES"},
				{"countryCode": "91", "request": 100, "value": 15, "unit": "MINUTES"},
				{"countryCode": "1", "request": 50, "value": 15, "unit": "MINUTES"},
			}},
		}, "")
	})

	w := doJSON(t, rateLimitRouter(f), http.MethodPost, "/rate-limit/get", gin.H{"aid": "APP1"})
	assert.Equal(t, http.StatusOK, w.Code)

	var limits []models.RateLimit
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &limits))
	require.Len(t, limits, 2)

	list := limits[1].CountryCodeLimitList
	require.Len(t, list, 3)
	assert.Equal(t, "1", list[0].CountryCode)
	assert.Equal(t, "91", list[1].CountryCode)
	assert.Equal(t, "default", list[2].CountryCode)
}

func TestUpdateRejectsCountryCodeType(t *testing.T) {
	f := newFakeUpstream(t)
	w := doJSON(t, rateLimitRouter(f), http.MethodPost, "/rate-limit/update", gin.H{
		"aid":             "APP1",
		"restrictionType": "COUNTRY_CODE",
		"limit":           100,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, f.callCount())
}

func TestUpdateRejectsNonPositiveLimit(t *testing.T) {
	f := newFakeUpstream(t)
	w := doJSON(t, rateLimitRouter(f), http.MethodPost, "/rate-limit/update", gin.H{
		"aid":             "APP1",
		"restrictionType": "IP",
		"limit":           0,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, f.callCount())
}

func TestUpdateForwardsRateLimit(t *testing.T) {
	f := newFakeUpstream(t)
	var gotBody map[string]interface{}
	f.on("/rate-limit/update", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		writeEnvelope(w, 200, nil, "")
	})

	w := doJSON(t, rateLimitRouter(f), http.MethodPost, "/rate-limit/update", gin.H{
		"aid":             "APP1",
		"restrictionType": "USER_ID",
		"limit":           25,
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "USER_ID", gotBody["restrictionType"])
	assert.Equal(t, float64(25), gotBody["limit"])
}

func TestUpsertCountryCodeRewritesAndRefreshes(t *testing.T) {
	f := newFakeUpstream(t)

	fetches := 0
	f.on("/rate-limit/get", func(w http.ResponseWriter, r *http.Request) {
		fetches++
		list := []map[string]interface{}{
			{"countryCode": "91", "request": 100, "value": 15, "unit": "MINUTES"},
			{"countryCode": "default", "request": 10, "value": 15, "unit": "MINUTES"},
		}
		if fetches > 1 {
			// Post-update state as the backend normalized it.
			list = append(list, map[string]interface{}{
				"countryCode": "44", "request": 20, "value": 15, "unit": "MINUTES",
			})
		}
		writeEnvelope(w, 200, []map[string]interface{}{
			{"id": 2, "restrictionType": "COUNTRY_CODE", "countryCodeLimitList": list},
		}, "")
	})

	var updateBody struct {
		AID                  string                    `json:"aid"`
		RestrictionType      string                    `json:"restrictionType"`
		CountryCodeLimitList []models.CountryCodeLimit `json:"countryCodeLimitList"`
	}
	f.on("/rate-limit/update", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&updateBody)
		writeEnvelope(w, 200, nil, "")
	})

	w := doJSON(t, rateLimitRouter(f), http.MethodPost, "/rate-limit/country-code", gin.H{
		"aid":         "APP1",
		"countryCode": "44",
		"request":     20,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	// The whole list travelled upstream, with the new code appended and the
	// window copied from the first entry.
	require.Len(t, updateBody.CountryCodeLimitList, 3)
	added := updateBody.CountryCodeLimitList[2]
	assert.Equal(t, "44", added.CountryCode)
	assert.Equal(t, 20, added.Request)
	assert.Equal(t, 15, added.Value)
	assert.Equal(t, models.UnitMinutes, added.Unit)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["refreshed"])
	list, ok := body["countryCodeLimitList"].([]interface{})
	require.True(t, ok)
	assert.Len(t, list, 3)
	first := list[0].(map[string]interface{})
	assert.Equal(t, "44", first["countryCode"])
	assert.Equal(t, 2, fetches)
}

func TestUpsertCountryCodeNoRecord(t *testing.T) {
	f := newFakeUpstream(t)
	f.on("/rate-limit/get", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, 200, []map[string]interface{}{
			{"id": 1, "restrictionType": "IP"},
		}, "")
	})

	w := doJSON(t, rateLimitRouter(f), http.MethodPost, "/rate-limit/country-code", gin.H{
		"aid":         "APP1",
		"countryCode": "44",
		"request":     20,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpsertCountryCodeExistingCodeReplacesRequest(t *testing.T) {
	f := newFakeUpstream(t)
	f.on("/rate-limit/get", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, 200, []map[string]interface{}{
			{"id": 2, "restrictionType": "COUNTRY_CODE", "countryCodeLimitList": []map[string]interface{}{
				{"countryCode": "91", "request": 100, "value": 15, "unit": "MINUTES"},
			}},
		}, "")
	})

	var updateBody struct {
		CountryCodeLimitList []models.CountryCodeLimit `json:"countryCodeLimitList"`
	}
	f.on("/rate-limit/update", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&updateBody)
		writeEnvelope(w, 200, nil, "")
	})

	w := doJSON(t, rateLimitRouter(f), http.MethodPost, "/rate-limit/country-code", gin.H{
		"aid":         "APP1",
		"countryCode": "91",
		"request":     42,
	})
	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, updateBody.CountryCodeLimitList, 1)
	assert.Equal(t, 42, updateBody.CountryCodeLimitList[0].Request)
	assert.Equal(t, 15, updateBody.CountryCodeLimitList[0].Value)
}
