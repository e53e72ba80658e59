package history

import (
	"github.com/Klingon-tech/klingnet-wallet/pkg/amount"
	"github.com/shopspring/decimal"
)

// TransactionInfo is a Transaction seen from the wallet's point of view.
// Amounts are in base units.
type TransactionInfo struct {
	ID     string
	Status Status

	Direction Direction

	// BruttoAmount is own outputs minus own inputs. Negative when the
	// wallet lost value, fee included.
	BruttoAmount decimal.Decimal

	// Fee is set only when the wallet funded every input.
	Fee decimal.NullDecimal

	// Amount is BruttoAmount with the fee added back when known.
	Amount decimal.Decimal

	Confirmations  int
	AssuranceLevel AssuranceLevel
	SubmittedAt    int64 // Unix seconds, zero when unknown.
}

// ProcessTransaction classifies tx against ownAddresses. confirmations is
// the node's confirmation count for tx, zero when unknown.
func ProcessTransaction(tx Transaction, ownAddresses []string, confirmations int) TransactionInfo {
	own := make(map[string]struct{}, len(ownAddresses))
	for _, a := range ownAddresses {
		own[a] = struct{}{}
	}

	totalIn, ownIn, ownInputs := sumEntries(tx.Inputs, own)
	totalOut, ownOut, ownOutputs := sumEntries(tx.Outputs, own)

	info := TransactionInfo{
		ID:             tx.ID,
		Status:         tx.Status,
		BruttoAmount:   ownOut.Sub(ownIn),
		Confirmations:  confirmations,
		AssuranceLevel: Assurance(tx.Status, confirmations),
	}
	if !tx.SubmittedAt.IsZero() {
		info.SubmittedAt = tx.SubmittedAt.Unix()
	}

	allInputsOwn := len(tx.Inputs) > 0 && ownInputs == len(tx.Inputs)
	switch {
	case allInputsOwn && ownOutputs == len(tx.Outputs):
		info.Direction = DirectionSelf
	case allInputsOwn:
		info.Direction = DirectionSent
	case ownInputs == 0:
		info.Direction = DirectionReceived
	default:
		info.Direction = DirectionMulti
	}

	info.Amount = info.BruttoAmount
	if allInputsOwn {
		fee := totalIn.Sub(totalOut)
		info.Fee = decimal.NewNullDecimal(fee)
		info.Amount = info.BruttoAmount.Add(fee)
	}
	return info
}

// Assurance maps a status and confirmation count to an assurance level.
func Assurance(status Status, confirmations int) AssuranceLevel {
	switch status {
	case StatusPending:
		return AssurancePending
	case StatusFailed:
		return AssuranceFailed
	}
	switch {
	case confirmations >= HighConfirmations:
		return AssuranceHigh
	case confirmations >= MediumConfirmations:
		return AssuranceMedium
	default:
		return AssuranceLow
	}
}

// sumEntries returns the total of entries, the total of those paying an own
// address, and how many do.
func sumEntries(entries []Entry, own map[string]struct{}) (total, ownTotal decimal.Decimal, ownCount int) {
	total, ownTotal = decimal.Zero, decimal.Zero
	for _, e := range entries {
		v := amount.FromBaseUnits(e.Amount)
		total = total.Add(v)
		if _, ok := own[e.Address]; ok {
			ownTotal = ownTotal.Add(v)
			ownCount++
		}
	}
	return total, ownTotal, ownCount
}
