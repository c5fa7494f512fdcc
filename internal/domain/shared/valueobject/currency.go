package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Currency represents a currency code (ISO 4217)
type Currency string

const (
	IDR Currency = "IDR" // Indonesian Rupiah (default)
	USD Currency = "USD"
	SGD Currency = "SGD"
	MYR Currency = "MYR"
	JPY Currency = "JPY"
)

// DefaultCurrency is the storefront currency when nothing else decides it
const DefaultCurrency = IDR

// scaleOverrides pins scales that differ from the CLDR standard digits.
// Rupiah prices are quoted in whole units although ISO 4217 lists two.
var scaleOverrides = map[Currency]int32{
	IDR: 0,
}

// fallbackScale applies to codes x/text does not know
const fallbackScale int32 = 2

// ParseCurrency normalizes and validates an ISO 4217 code
func ParseCurrency(code string) (Currency, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return "", errors.New("currency cannot be empty")
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return "", fmt.Errorf("invalid currency code %q: %w", code, err)
	}
	return Currency(unit.String()), nil
}

// String returns the currency code
func (c Currency) String() string {
	return string(c)
}

// Scale returns the number of minor-unit digits used when rounding: the
// CLDR standard digits of the currency unless overridden.
func (c Currency) Scale() int32 {
	if scale, ok := scaleOverrides[c]; ok {
		return scale
	}
	unit, err := currency.ParseISO(string(c))
	if err != nil {
		return fallbackScale
	}
	scale, _ := currency.Standard.Rounding(unit)
	return int32(scale)
}

// Round rounds amount half-up to the currency's scale
func (c Currency) Round(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(c.Scale())
}

// ApplyPercentOff returns amount reduced by pct percent, rounded to the
// currency scale.
func (c Currency) ApplyPercentOff(amount, pct decimal.Decimal) decimal.Decimal {
	factor := decimal.NewFromInt(100).Sub(pct).Div(decimal.NewFromInt(100))
	return c.Round(amount.Mul(factor))
}

// CurrencyPrices maps a currency code to an amount. A missing key means the
// value is not defined in that currency.
type CurrencyPrices map[Currency]decimal.Decimal

// Get returns the amount for c and whether it is defined
func (p CurrencyPrices) Get(c Currency) (decimal.Decimal, bool) {
	if p == nil {
		return decimal.Zero, false
	}
	v, ok := p[c]
	return v, ok
}

// Has reports whether an amount is defined for c
func (p CurrencyPrices) Has(c Currency) bool {
	_, ok := p.Get(c)
	return ok
}

// Currencies returns the defined currency codes in sorted order
func (p CurrencyPrices) Currencies() []Currency {
	out := make([]Currency, 0, len(p))
	for c := range p {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Clone returns an independent copy
func (p CurrencyPrices) Clone() CurrencyPrices {
	if p == nil {
		return nil
	}
	out := make(CurrencyPrices, len(p))
	for c, v := range p {
		out[c] = v
	}
	return out
}

// ValidateNonNegative rejects negative amounts and malformed codes
func (p CurrencyPrices) ValidateNonNegative() error {
	for _, c := range p.Currencies() {
		if _, err := ParseCurrency(string(c)); err != nil {
			return err
		}
		if p[c].IsNegative() {
			return fmt.Errorf("amount for %s cannot be negative", c)
		}
	}
	return nil
}

// ValidatePercentages checks every entry is within [0, 100]
func (p CurrencyPrices) ValidatePercentages() error {
	hundred := decimal.NewFromInt(100)
	for _, c := range p.Currencies() {
		v := p[c]
		if v.IsNegative() || v.GreaterThan(hundred) {
			return fmt.Errorf("percentage for %s must be between 0 and 100, got %s", c, v.String())
		}
	}
	return nil
}

// MarshalJSON encodes amounts as strings so precision survives the trip
func (p CurrencyPrices) MarshalJSON() ([]byte, error) {
	raw := make(map[string]string, len(p))
	for c, v := range p {
		raw[string(c)] = v.String()
	}
	return json.Marshal(raw)
}

// UnmarshalJSON accepts both numeric and string amounts
func (p *CurrencyPrices) UnmarshalJSON(data []byte) error {
	var raw map[string]decimal.Decimal
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(CurrencyPrices, len(raw))
	for code, v := range raw {
		out[Currency(strings.ToUpper(code))] = v
	}
	*p = out
	return nil
}

// Value implements driver.Valuer for jsonb columns
func (p CurrencyPrices) Value() (driver.Value, error) {
	if p == nil {
		return "{}", nil
	}
	b, err := p.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for jsonb columns
func (p *CurrencyPrices) Scan(value interface{}) error {
	if value == nil {
		*p = CurrencyPrices{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into CurrencyPrices", value)
	}
	return p.UnmarshalJSON(data)
}
