package catalog

import (
	"errors"
	"sort"
	"strings"

	"github.com/bobby0007/internal-CRM/pkg/models"
)

var (
	ErrBucketExists         = errors.New("country code already configured")
	ErrBucketNotFound       = errors.New("country code not configured")
	ErrDuplicateCode        = errors.New("template code already exists")
	ErrIndexOutOfRange      = errors.New("template index out of range")
	ErrEmptyTemplateCode    = errors.New("template code is required")
	ErrInvalidTrafficSplit  = errors.New("traffic split must be between 0 and 100")
)

// AddBucket creates an empty template list for a country code.
func AddBucket(cat *models.TemplateCatalog, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return ErrBucketNotFound
	}
	if cat.LoadBalanceTemplates == nil {
		cat.LoadBalanceTemplates = map[string][]models.TemplateInfo{}
	}
	if _, ok := cat.LoadBalanceTemplates[code]; ok {
		return ErrBucketExists
	}
	cat.LoadBalanceTemplates[code] = []models.TemplateInfo{}
	return nil
}

// AddTemplate appends a template to a bucket, rejecting duplicate codes
// within that bucket. The bucket is created when absent.
func AddTemplate(cat *models.TemplateCatalog, code string, tpl models.TemplateInfo) error {
	tpl.TemplateCode = strings.TrimSpace(tpl.TemplateCode)
	if err := validateTemplate(tpl); err != nil {
		return err
	}
	if cat.LoadBalanceTemplates == nil {
		cat.LoadBalanceTemplates = map[string][]models.TemplateInfo{}
	}
	templates := cat.LoadBalanceTemplates[code]
	for _, t := range templates {
		if t.TemplateCode == tpl.TemplateCode {
			return ErrDuplicateCode
		}
	}
	cat.LoadBalanceTemplates[code] = append(templates, tpl)
	return nil
}

// EditTemplate rewrites the entry at the given storage index. The new code
// must not collide with any other entry in the same bucket.
func EditTemplate(cat *models.TemplateCatalog, code string, index int, tpl models.TemplateInfo) error {
	tpl.TemplateCode = strings.TrimSpace(tpl.TemplateCode)
	if err := validateTemplate(tpl); err != nil {
		return err
	}
	templates, ok := cat.LoadBalanceTemplates[code]
	if !ok {
		return ErrBucketNotFound
	}
	if index < 0 || index >= len(templates) {
		return ErrIndexOutOfRange
	}
	for i, t := range templates {
		if i != index && t.TemplateCode == tpl.TemplateCode {
			return ErrDuplicateCode
		}
	}
	templates[index] = tpl
	return nil
}

// DeleteTemplate removes the entry at the given storage index.
func DeleteTemplate(cat *models.TemplateCatalog, code string, index int) error {
	templates, ok := cat.LoadBalanceTemplates[code]
	if !ok {
		return ErrBucketNotFound
	}
	if index < 0 || index >= len(templates) {
		return ErrIndexOutOfRange
	}
	cat.LoadBalanceTemplates[code] = append(templates[:index], templates[index+1:]...)
	return nil
}

// Import shallow-merges a mapping into the catalog: a re-imported country
// code replaces its entire list, other buckets are untouched.
func Import(cat *models.TemplateCatalog, mapping map[string][]models.TemplateInfo) {
	if cat.LoadBalanceTemplates == nil {
		cat.LoadBalanceTemplates = map[string][]models.TemplateInfo{}
	}
	for code, templates := range mapping {
		cat.LoadBalanceTemplates[code] = templates
	}
}

// SplitTotal sums the traffic splits of a bucket.
func SplitTotal(templates []models.TemplateInfo) int {
	total := 0
	for _, t := range templates {
		total += t.TrafficSplit
	}
	return total
}

func validateTemplate(tpl models.TemplateInfo) error {
	if strings.TrimSpace(tpl.TemplateCode) == "" {
		return ErrEmptyTemplateCode
	}
	if tpl.TrafficSplit < 0 || tpl.TrafficSplit > 100 {
		return ErrInvalidTrafficSplit
	}
	return nil
}

// Entry is a template together with its storage index, so a sorted display
// position can still address the right underlying slot.
type Entry struct {
	models.TemplateInfo
	Index int `json:"index"`
}

// BucketView is one country-code bucket prepared for display: entries
// sorted by descending traffic split, plus the advisory split total. Valid
// is purely informational; nothing blocks on it.
type BucketView struct {
	CountryCode string  `json:"countryCode"`
	Templates   []Entry `json:"templates"`
	Total       int     `json:"total"`
	Valid       bool    `json:"valid"`
}

// View is the whole catalog prepared for display.
type View struct {
	ButtonEnabled        bool         `json:"buttonEnabled"`
	LoadBalancingEnabled bool         `json:"loadBalancingEnabled"`
	Buckets              []BucketView `json:"buckets"`
}

// BuildView renders a catalog: buckets in lexicographic order with
// "default" pinned last, entries by descending split carrying their storage
// index.
func BuildView(cat models.TemplateCatalog) View {
	view := View{
		ButtonEnabled:        cat.ButtonEnabled,
		LoadBalancingEnabled: cat.LoadBalancingEnabled,
		Buckets:              []BucketView{},
	}

	codes := make([]string, 0, len(cat.LoadBalanceTemplates))
	for code := range cat.LoadBalanceTemplates {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool {
		if codes[i] == "default" {
			return false
		}
		if codes[j] == "default" {
			return true
		}
		return codes[i] < codes[j]
	})

	for _, code := range codes {
		templates := cat.LoadBalanceTemplates[code]
		entries := make([]Entry, 0, len(templates))
		for i, t := range templates {
			entries = append(entries, Entry{TemplateInfo: t, Index: i})
		}
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].TrafficSplit > entries[j].TrafficSplit
		})
		total := SplitTotal(templates)
		view.Buckets = append(view.Buckets, BucketView{
			CountryCode: code,
			Templates:   entries,
			Total:       total,
			Valid:       total == 100,
		})
	}
	return view
}
