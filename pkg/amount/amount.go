// Package amount converts between display amounts and integer base units.
//
// All arithmetic is exact decimal arithmetic; floating point is never used.
package amount

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/Klingon-tech/klingnet-wallet/config"
	"github.com/shopspring/decimal"
)

// ErrEmpty is returned when converting an empty amount string.
var ErrEmpty = errors.New("empty amount")

// ToBaseUnits converts a decimal amount in coins to base units
// (amount * 10^Decimals). Digits beyond the ledger precision are truncated
// toward zero.
func ToBaseUnits(amount string) (*big.Int, error) {
	s := strings.TrimSpace(amount)
	if s == "" {
		return nil, ErrEmpty
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	return d.Shift(config.Decimals).Truncate(0).BigInt(), nil
}

// FromBaseUnits returns the base-unit count as a decimal.
func FromBaseUnits(units uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(units), 0)
}

// FromBigInt returns the base-unit count as a decimal.
func FromBigInt(units *big.Int) decimal.Decimal {
	return decimal.NewFromBigInt(units, 0)
}

// ToCoins converts base units to a coin-denominated decimal.
func ToCoins(units decimal.Decimal) decimal.Decimal {
	return units.Shift(-config.Decimals)
}

// Format renders base units as a coin amount with full ledger precision,
// e.g. 1500000 -> "1.500000".
func Format(units decimal.Decimal) string {
	return ToCoins(units).StringFixed(config.Decimals)
}
