package ratelimit

import (
	"sort"

	"github.com/bobby0007/internal-CRM/pkg/models"
)

// Window applied to the first country-code entry when the list is empty and
// there is no existing window to copy.
const (
	DefaultWindowValue = 1
	DefaultWindowUnit  = models.UnitDay
)

// IsDefaultCode reports whether a country code is the fallback entry.
func IsDefaultCode(code string) bool {
	return code == "" || code == "default"
}

// UpsertCountryCode replaces the request count of an existing entry, or
// appends a new one. A new entry inherits the window (value, unit) of the
// first existing entry so the list stays consistent; on an empty list the
// fixed default window applies.
func UpsertCountryCode(list []models.CountryCodeLimit, code string, request int) []models.CountryCodeLimit {
	for i := range list {
		if list[i].CountryCode == code {
			list[i].Request = request
			return list
		}
	}

	entry := models.CountryCodeLimit{
		CountryCode: code,
		Request:     request,
		Value:       DefaultWindowValue,
		Unit:        DefaultWindowUnit,
	}
	if len(list) > 0 {
		entry.Value = list[0].Value
		entry.Unit = list[0].Unit
	}
	return append(list, entry)
}

// SortCountryCodes orders entries lexicographically with the default entry
// pinned last.
func SortCountryCodes(list []models.CountryCodeLimit) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if IsDefaultCode(a.CountryCode) {
			return false
		}
		if IsDefaultCode(b.CountryCode) {
			return true
		}
		return a.CountryCode < b.CountryCode
	})
}

// FindCountryCodeRecord returns the COUNTRY_CODE rate limit of a set, if
// present.
func FindCountryCodeRecord(limits []models.RateLimit) *models.RateLimit {
	for i := range limits {
		if limits[i].RestrictionType == models.RestrictionCountryCode {
			return &limits[i]
		}
	}
	return nil
}
