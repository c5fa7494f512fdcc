package pricing

import (
	"strings"

	"github.com/google/uuid"
	"github.com/petshop/backend/internal/domain/reseller"
	"github.com/petshop/backend/internal/domain/shared/valueobject"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

// Viewer is the pricing context of one storefront request
type Viewer struct {
	TenantID         uuid.UUID
	UserID           *uuid.UUID
	IsReseller       bool
	ResellerCategory *reseller.ResellerCategory
	Currency         valueobject.Currency
	// CurrencySource explains how Currency was chosen: reseller_category,
	// requested, geo or default.
	CurrencySource string
}

// ResellerCategoryID returns the category id of a reseller viewer
func (v *Viewer) ResellerCategoryID() *uuid.UUID {
	if v == nil || v.ResellerCategory == nil {
		return nil
	}
	id := v.ResellerCategory.ID
	return &id
}

// ViewerInput is what the HTTP layer knows about the requester
type ViewerInput struct {
	TenantID           uuid.UUID
	UserID             *uuid.UUID
	Role               string
	ResellerCategoryID *uuid.UUID
	Country            string // ISO 3166 alpha-2 from the geo header
	RequestedCurrency  string // explicit ?currency= choice
}

// Currency sources reported on Viewer
const (
	CurrencySourceResellerCategory = "reseller_category"
	CurrencySourceRequested        = "requested"
	CurrencySourceGeo              = "geo"
	CurrencySourceDefault          = "default"
)

// CurrencySelector picks a storefront currency among the supported ones
type CurrencySelector struct {
	defaultCurrency valueobject.Currency
	supported       map[valueobject.Currency]bool
}

// NewCurrencySelector creates a selector. Unknown codes are ignored; the
// default currency is always supported.
func NewCurrencySelector(defaultCode string, supported []string) *CurrencySelector {
	def, err := valueobject.ParseCurrency(defaultCode)
	if err != nil {
		def = valueobject.DefaultCurrency
	}
	s := &CurrencySelector{
		defaultCurrency: def,
		supported:       map[valueobject.Currency]bool{def: true},
	}
	for _, code := range supported {
		if c, err := valueobject.ParseCurrency(code); err == nil {
			s.supported[c] = true
		}
	}
	return s
}

// Default returns the fallback currency
func (s *CurrencySelector) Default() valueobject.Currency {
	return s.defaultCurrency
}

// IsSupported reports whether c can be used on the storefront
func (s *CurrencySelector) IsSupported(c valueobject.Currency) bool {
	return s.supported[c]
}

// Requested returns the requested currency if it is supported
func (s *CurrencySelector) Requested(code string) (valueobject.Currency, bool) {
	if strings.TrimSpace(code) == "" {
		return "", false
	}
	c, err := valueobject.ParseCurrency(code)
	if err != nil || !s.supported[c] {
		return "", false
	}
	return c, true
}

// FromCountry maps an ISO country code to its supported local currency
func (s *CurrencySelector) FromCountry(country string) (valueobject.Currency, bool) {
	country = strings.TrimSpace(country)
	// Cloudflare sends XX for unknown and T1 for Tor
	if country == "" || strings.EqualFold(country, "XX") || strings.EqualFold(country, "T1") {
		return "", false
	}
	region, err := language.ParseRegion(country)
	if err != nil {
		return "", false
	}
	unit, ok := currency.FromRegion(region)
	if !ok {
		return "", false
	}
	c := valueobject.Currency(unit.String())
	if !s.supported[c] {
		return "", false
	}
	return c, true
}
