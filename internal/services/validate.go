package services

import (
	"encoding/json"
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/opencart/opencart-gobackend/internal/apperrors"
	"github.com/opencart/opencart-gobackend/internal/banks"
)

const (
	maxAmountChars    = 32
	maxAmountExponent = 18
)

var (
	mobilePattern = regexp.MustCompile(`^254[17]\d{8}$`)
	maxAmount     = decimal.NewFromInt(math.MaxInt64)
)

var supportedCurrencies = map[string]bool{
	"KES": true,
	"USD": true,
	"EUR": true,
	"GBP": true,
	"NGN": true,
	"INR": true,
	"ZAR": true,
}

type field struct {
	name  string
	value string
}

// requireFields fails on the first blank field, in the order given.
func requireFields(fields ...field) error {
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return apperrors.Invalid(f.name, "is required")
		}
	}
	return nil
}

func requireAmount(raw json.RawMessage) error {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" || s == `""` {
		return apperrors.Invalid("amount", "is required")
	}
	return nil
}

// ParseAmount accepts a JSON number or numeric string and returns it in whole
// provider units. Zero, negative, fractional and non-numeric values are rejected.
func ParseAmount(raw json.RawMessage) (int64, error) {
	if err := requireAmount(raw); err != nil {
		return 0, err
	}
	s := strings.TrimSpace(strings.Trim(strings.TrimSpace(string(raw)), `"`))
	if len(s) > maxAmountChars {
		return 0, apperrors.Invalid("amount", "is too large")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, apperrors.Invalid("amount", "must be numeric")
	}
	if !d.IsPositive() {
		return 0, apperrors.Invalid("amount", "must be greater than zero")
	}
	// Comparing or rescaling materializes 10^|exp|; bound it first.
	if d.Exponent() > maxAmountExponent {
		return 0, apperrors.Invalid("amount", "is too large")
	}
	if d.Exponent() < -maxAmountExponent {
		return 0, apperrors.Invalid("amount", "must be a whole number")
	}
	if !d.IsInteger() {
		return 0, apperrors.Invalid("amount", "must be a whole number")
	}
	if d.GreaterThan(maxAmount) {
		return 0, apperrors.Invalid("amount", "is too large")
	}
	return d.IntPart(), nil
}

// NormalizePhone returns a Kenyan mobile number as 2547XXXXXXXX or
// 2541XXXXXXXX. Spaces, dashes and a leading plus are ignored; local
// (07.., 01..) and bare nine-digit forms are expanded.
func NormalizePhone(phone string) (string, error) {
	p := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(strings.TrimSpace(phone))
	p = strings.TrimPrefix(p, "+")

	switch {
	case strings.HasPrefix(p, "0") && len(p) == 10:
		p = "254" + p[1:]
	case len(p) == 9 && (p[0] == '7' || p[0] == '1'):
		p = "254" + p
	}

	if !mobilePattern.MatchString(p) {
		return "", apperrors.Invalid("phone", "must be a Kenyan mobile number such as 0712345678 or 254712345678")
	}
	return p, nil
}

// ResolveBank looks code up in the bank registry.
func ResolveBank(code string) (banks.Bank, error) {
	b, ok := banks.Lookup(code)
	if !ok {
		return banks.Bank{}, apperrors.Invalid("bankCode", "unknown bank code "+strings.TrimSpace(code))
	}
	return b, nil
}

// NormalizeCurrency upper-cases code and checks it against the supported set.
func NormalizeCurrency(code string) (string, error) {
	c := strings.ToUpper(strings.TrimSpace(code))
	if !supportedCurrencies[c] {
		return "", apperrors.Invalid("currency", "unsupported currency "+code)
	}
	return c, nil
}
