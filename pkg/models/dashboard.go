package models

import "time"

// MerchantStatus is the lifecycle state of a merchant account.
type MerchantStatus string

const (
	StatusActive    MerchantStatus = "ACTIVE"
	StatusBlocked   MerchantStatus = "BLOCKED"
	StatusPending   MerchantStatus = "PENDING"
	StatusHardBlock MerchantStatus = "HARD_BLOCK"
	StatusSoftBlock MerchantStatus = "SOFT_BLOCK"
)

func (s MerchantStatus) Valid() bool {
	switch s {
	case StatusActive, StatusBlocked, StatusPending, StatusHardBlock, StatusSoftBlock:
		return true
	}
	return false
}

// Merchant is the record shown on the merchant status page.
type Merchant struct {
	MID                  string         `json:"mid"`
	Name                 string         `json:"name"`
	Status               MerchantStatus `json:"status"`
	InternationalEnabled bool           `json:"internationalEnabled"`
	LastUpdated          time.Time      `json:"lastUpdated"`
}

// MerchantDetails is the upstream data payload for merchant-details/get.
type MerchantDetails struct {
	OrgName              string         `json:"orgName"`
	Status               MerchantStatus `json:"status"`
	InternationalEnabled bool           `json:"internationalEnabled"`
}

type TimeUnit string

const (
	UnitMinutes TimeUnit = "MINUTES"
	UnitHour    TimeUnit = "HOUR"
	UnitDay     TimeUnit = "DAY"
)

// RestrictionType is the dimension a rate limit is enforced along.
type RestrictionType string

const (
	RestrictionState       RestrictionType = "STATE"
	RestrictionAppID       RestrictionType = "APP_ID"
	RestrictionIP          RestrictionType = "IP"
	RestrictionUserID      RestrictionType = "USER_ID"
	RestrictionCountryCode RestrictionType = "COUNTRY_CODE"
)

func (r RestrictionType) Valid() bool {
	switch r {
	case RestrictionState, RestrictionAppID, RestrictionIP, RestrictionUserID, RestrictionCountryCode:
		return true
	}
	return false
}

// Limits is the request budget for a single restriction.
type Limits struct {
	Request int      `json:"request"`
	Value   int      `json:"value"`
	Unit    TimeUnit `json:"unit"`
}

// CountryCodeLimit is one entry of a COUNTRY_CODE rate limit. An empty or
// literal "default" country code is the fallback entry.
type CountryCodeLimit struct {
	CountryCode string   `json:"countryCode"`
	Request     int      `json:"request"`
	Value       int      `json:"value"`
	Unit        TimeUnit `json:"unit"`
}

// RateLimit is one restriction record of an application. COUNTRY_CODE
// records carry CountryCodeLimitList instead of a single Limits.
type RateLimit struct {
	ID                   int                `json:"id"`
	RestrictionType      RestrictionType    `json:"restrictionType"`
	Status               string             `json:"status"`
	Limits               *Limits            `json:"limits,omitempty"`
	CountryCodeLimitList []CountryCodeLimit `json:"countryCodeLimitList,omitempty"`
}

// MerchantConfig is one feature flag of an application. Value is a string
// ("TRUE"/"FALSE" for booleans) and may be null upstream.
type MerchantConfig struct {
	Type       string  `json:"type"`
	Value      *string `json:"value"`
	Status     string  `json:"status"`
	InputValue string  `json:"inputValue"`
}

// TemplateInfo is a template code with its share of traffic inside a
// load-balancing bucket.
type TemplateInfo struct {
	TemplateCode string `json:"templateCode"`
	TrafficSplit int    `json:"trafficSplit"`
}

// TemplateCatalog is the routing configuration for outbound message
// templates: per-country-code template lists plus two global switches.
type TemplateCatalog struct {
	ButtonEnabled        bool                      `json:"buttonEnabled"`
	LoadBalancingEnabled bool                      `json:"loadBalancingEnabled"`
	LoadBalanceTemplates map[string][]TemplateInfo `json:"loadBalanceTemplates"`
}

// CommunicationTemplate is the write-only template registration request.
// Channel-specific fields are validated by the handler before submission.
type CommunicationTemplate struct {
	AppID        string `json:"appId"`
	MerchantName string `json:"merchantName"`
	Channel      string `json:"channel"`
	Body         string `json:"body"`
	TemplateType string `json:"templateType"`

	// SMS
	PeID     string `json:"peId,omitempty"`
	SenderID string `json:"senderId,omitempty"`

	// WhatsApp
	PartnerAppID    string `json:"partnerAppId,omitempty"`
	PartnerAppToken string `json:"partnerAppToken,omitempty"`
	WhatsappNumber  string `json:"whatsappNumber,omitempty"`
	PartnerName     string `json:"partnerName,omitempty"`

	// Optional passthrough
	GatewayName string `json:"gatewayName,omitempty"`
	TemplateID  string `json:"templateId,omitempty"`
}

// SilentAuthConfig is a stored credential set for the backend's secondary
// authentication flow.
type SilentAuthConfig struct {
	AID          string `json:"aid"`
	UserName     string `json:"userName"`
	Password     string `json:"password"`
	RefreshToken string `json:"refreshToken"`
}

// OtplessIdentity is one verified identity reported by the login widget.
type OtplessIdentity struct {
	IdentityType  string `json:"identityType"`
	IdentityValue string `json:"identityValue"`
	Channel       string `json:"channel"`
	Verified      bool   `json:"verified"`
}

// OtplessUser is the payload the identity widget posts after completion.
type OtplessUser struct {
	Status     string            `json:"status"`
	Token      string            `json:"token"`
	Message    string            `json:"message,omitempty"`
	UserID     string            `json:"userId,omitempty"`
	Identities []OtplessIdentity `json:"identities"`
}
