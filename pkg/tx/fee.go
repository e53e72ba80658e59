package tx

import "github.com/Klingon-tech/klingnet-wallet/pkg/types"

// Serialized sizes shared by SigningBytes and the fee estimate.
const (
	txOverhead = 4 + 4 + 4 + 8         // version + inputCount + outputCount + locktime
	perInput   = types.HashSize + 4    // txID + index
	perOutput  = 8 + types.AddressSize // value + address
)

// EstimateTxFee returns the minimum fee for a transaction with the given
// number of inputs and outputs at the given fee rate (base units per byte).
//
// The estimate matches the SigningBytes layout exactly:
//
//	version(4) + inputCount(4) + inputs(36*n) + outputCount(4) + outputs(28*n) + locktime(8)
func EstimateTxFee(numInputs, numOutputs int, feeRate uint64) uint64 {
	size := txOverhead + perInput*numInputs + perOutput*numOutputs
	return uint64(size) * feeRate
}

// RequiredFee returns the exact minimum fee for a fully built transaction
// at the given fee rate.
func RequiredFee(transaction *Transaction, feeRate uint64) uint64 {
	return uint64(len(transaction.SigningBytes())) * feeRate
}
