package validate

import (
	"regexp"
	"strings"

	"github.com/Klingon-tech/klingnet-wallet/config"
	"github.com/shopspring/decimal"
)

// plainDecimal accepts digits with at most one '.', e.g. "10", "1.5", ".5", "2.".
// Signs, exponents and digit separators are rejected.
var plainDecimal = regexp.MustCompile(`^(?:[0-9]+(?:\.[0-9]*)?|\.[0-9]+)$`)

// ValidateAmount checks a user-entered amount in coins.
// Rules, first match wins: empty, not a plain decimal, more than
// config.Decimals fractional digits, not greater than zero.
// It never reports InsufficientBalance.
func ValidateAmount(amount string) *AmountErrors {
	s := strings.TrimSpace(amount)
	if s == "" {
		return NewAmountErrors(AmountRequired)
	}
	if !plainDecimal.MatchString(s) {
		return NewAmountErrors(InvalidAmount)
	}
	if i := strings.IndexByte(s, '.'); i >= 0 && len(s)-i-1 > config.Decimals {
		return NewAmountErrors(TooManyDecimalPlaces)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return NewAmountErrors(InvalidAmount)
	}
	if !d.IsPositive() {
		return NewAmountErrors(PositiveAmount)
	}
	return nil
}
