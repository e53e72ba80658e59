package wallet

import (
	"github.com/Klingon-tech/klingnet-wallet/pkg/amount"
	"github.com/Klingon-tech/klingnet-wallet/pkg/types"
	"github.com/shopspring/decimal"
)

// UTXO represents an unspent output owned by the wallet.
type UTXO struct {
	Outpoint types.Outpoint `json:"outpoint"`
	Address  types.Address  `json:"address"`
	Amount   uint64         `json:"amount"`
}

// SumAmounts returns the total amount of the given UTXOs in base units.
// The sum is exact and cannot overflow.
func SumAmounts(utxos []UTXO) decimal.Decimal {
	total := decimal.Zero
	for _, u := range utxos {
		total = total.Add(amount.FromBaseUnits(u.Amount))
	}
	return total
}
