package token

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/nvidaurre/swaprouter/internal/apperror"
)

// ToBaseUnits converts a human-readable decimal string to a base-unit
// integer string for the given precision. The fractional part is padded or
// truncated to exactly decimals digits; no floating point is involved
// anywhere in the path.
func ToBaseUnits(amount string, decimals int) (string, error) {
	whole, frac, err := splitDecimal(amount)
	if err != nil {
		return "", err
	}

	if len(frac) > decimals {
		frac = frac[:decimals]
	} else {
		frac = frac + strings.Repeat("0", decimals-len(frac))
	}

	raw, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return "", apperror.Validation(apperror.CodeInvalidAmountFormat, amount)
	}
	return raw.String(), nil
}

// FromBaseUnits converts a base-unit integer string to a whole-number
// decimal string by integer division. Truncation is acceptable here: the
// result is for display, not accounting.
func FromBaseUnits(amount string, decimals int) (string, error) {
	raw, ok := new(big.Int).SetString(amount, 10)
	if !ok || strings.ContainsAny(amount, ".-+") {
		return "", apperror.Validation(apperror.CodeInvalidAmountFormat, amount)
	}

	divisor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	return new(big.Int).Quo(raw, divisor).String(), nil
}

// FormatBaseUnits renders a base-unit integer string as a full-precision
// decimal string for display. Boundary use only.
func FormatBaseUnits(amount string, decimals int) (string, error) {
	raw, ok := new(big.Int).SetString(amount, 10)
	if !ok {
		return "", apperror.Validation(apperror.CodeInvalidAmountFormat, amount)
	}
	return decimal.NewFromBigInt(raw, -int32(decimals)).String(), nil
}

// splitDecimal validates amount and returns its integer and fractional
// parts. Accepts digits and at most one decimal point.
func splitDecimal(amount string) (whole, frac string, err error) {
	if amount == "" {
		return "", "", apperror.Validation(apperror.CodeInvalidAmountFormat, "empty amount")
	}

	parts := strings.Split(amount, ".")
	if len(parts) > 2 {
		return "", "", apperror.Validation(apperror.CodeInvalidAmountFormat, amount)
	}

	whole = parts[0]
	if len(parts) == 2 {
		frac = parts[1]
	}
	if whole == "" && frac == "" {
		return "", "", apperror.Validation(apperror.CodeInvalidAmountFormat, amount)
	}
	if whole == "" {
		whole = "0"
	}

	for _, r := range whole + frac {
		if r < '0' || r > '9' {
			return "", "", apperror.Validation(apperror.CodeInvalidAmountFormat, amount)
		}
	}
	return whole, frac, nil
}
