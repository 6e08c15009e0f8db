package model

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/osgb-lab/riskcatalog/pkg/domain/types"
)

// riskNoPattern is the business key format: "<categoryCode>.<sequence>".
var riskNoPattern = regexp.MustCompile(`^\d+\.\d+$`)

// CatalogItem is the canonical unit of the risk catalog: one hazard, its
// cause and its mitigation, keyed by RiskNo. RiskNo is globally unique and
// immutable once assigned; two items with the same RiskNo in different
// stores are the same logical item regardless of other field differences.
type CatalogItem struct {
	RiskNo       string           `json:"riskNo"`
	CategoryCode string           `json:"categoryCode"`
	MainCategory string           `json:"mainCategory"`
	SubCategory  string           `json:"subCategory"`
	Source       string           `json:"source"`
	Hazard       string           `json:"hazard"`
	Risk         string           `json:"risk"`
	Affected     string           `json:"affected"`
	Responsible  string           `json:"responsible"`
	Measures     string           `json:"measures"`
	P            float64          `json:"p"`
	F            float64          `json:"f"`
	S            float64          `json:"s"`
	P2           float64          `json:"p2"`
	F2           float64          `json:"f2"`
	S2           float64          `json:"s2"`
	SectorTags   []types.SectorTag `json:"sectorTags"`
}

// ValidRiskNo reports whether s matches the "<digits>.<digits>" key format
func ValidRiskNo(s string) bool {
	return riskNoPattern.MatchString(s)
}

// Normalize applies field defaults in place: factor fields default to 1 and
// a nil tag set becomes empty. Applied at every write boundary so downstream
// components never special-case missing fields.
func (c *CatalogItem) Normalize() {
	for _, f := range []*float64{&c.P, &c.F, &c.S, &c.P2, &c.F2, &c.S2} {
		if *f == 0 {
			*f = 1
		}
	}
	if c.SectorTags == nil {
		c.SectorTags = []types.SectorTag{}
	}
}

// Score returns the risk score before mitigation (probability x frequency x
// severity, Fine-Kinney style).
func (c *CatalogItem) Score() float64 {
	return c.P * c.F * c.S
}

// Score2 returns the residual risk score after mitigation.
func (c *CatalogItem) Score2() float64 {
	return c.P2 * c.F2 * c.S2
}

// HasSectorTag reports whether the item carries the given tag
func (c *CatalogItem) HasSectorTag(tag types.SectorTag) bool {
	for _, t := range c.SectorTags {
		if t == tag {
			return true
		}
	}
	return false
}

// CatalogItemFromLoose builds a strict CatalogItem from a loosely-typed
// store payload where fields may arrive as string or number, present or
// absent. Loosely-typed data never escapes a store boundary.
func CatalogItemFromLoose(raw map[string]any) CatalogItem {
	item := CatalogItem{
		RiskNo:       looseString(raw, "riskNo", "risk_no"),
		CategoryCode: looseString(raw, "categoryCode", "category_code"),
		MainCategory: looseString(raw, "mainCategory", "main_category"),
		SubCategory:  looseString(raw, "subCategory", "sub_category"),
		Source:       looseString(raw, "source"),
		Hazard:       looseString(raw, "hazard"),
		Risk:         looseString(raw, "risk"),
		Affected:     looseString(raw, "affected"),
		Responsible:  looseString(raw, "responsible"),
		Measures:     looseString(raw, "measures"),
		P:            looseFloat(raw, "p"),
		F:            looseFloat(raw, "f"),
		S:            looseFloat(raw, "s"),
		P2:           looseFloat(raw, "p2"),
		F2:           looseFloat(raw, "f2"),
		S2:           looseFloat(raw, "s2"),
	}

	rawTags := raw["sectorTags"]
	if rawTags == nil {
		rawTags = raw["sector_tags"]
	}
	switch tags := rawTags.(type) {
	case []string:
		for _, t := range tags {
			item.SectorTags = append(item.SectorTags, types.NewSectorTag(t))
		}
	case []any:
		for _, t := range tags {
			if s, ok := t.(string); ok {
				item.SectorTags = append(item.SectorTags, types.NewSectorTag(s))
			}
		}
	case string:
		for _, t := range strings.Split(tags, ",") {
			if t = strings.TrimSpace(t); t != "" {
				item.SectorTags = append(item.SectorTags, types.NewSectorTag(t))
			}
		}
	}

	item.Normalize()
	return item
}

func looseString(raw map[string]any, keys ...string) string {
	for _, key := range keys {
		switch v := raw[key].(type) {
		case string:
			return strings.TrimSpace(v)
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case int64:
			return strconv.FormatInt(v, 10)
		case int:
			return strconv.Itoa(v)
		}
	}
	return ""
}

// looseFloat returns 1 for missing or non-numeric values, matching the
// factor-field default.
func looseFloat(raw map[string]any, key string) float64 {
	switch v := raw[key].(type) {
	case float64:
		if v != 0 {
			return v
		}
	case int64:
		if v != 0 {
			return float64(v)
		}
	case int:
		if v != 0 {
			return float64(v)
		}
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil && f != 0 {
			return f
		}
	}
	return 1
}
