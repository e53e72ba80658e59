// Package history turns raw node transactions into wallet-relative display
// info: direction, brutto amount, fee and assurance level.
package history

import "time"

// Status is the node-reported state of a transaction.
type Status string

const (
	StatusSuccessful Status = "SUCCESSFUL"
	StatusPending    Status = "PENDING"
	StatusFailed     Status = "FAILED"
)

// Direction is how a transaction moves value relative to the wallet.
type Direction string

const (
	DirectionSent     Direction = "SENT"
	DirectionReceived Direction = "RECEIVED"
	DirectionSelf     Direction = "SELF"  // Every input and output is ours.
	DirectionMulti    Direction = "MULTI" // Some, not all, inputs are ours.
)

// AssuranceLevel grades confidence in a transaction by confirmation count.
type AssuranceLevel string

const (
	AssurancePending AssuranceLevel = "PENDING"
	AssuranceFailed  AssuranceLevel = "FAILED"
	AssuranceLow     AssuranceLevel = "LOW"
	AssuranceMedium  AssuranceLevel = "MEDIUM"
	AssuranceHigh    AssuranceLevel = "HIGH"
)

// Confirmation thresholds for MEDIUM and HIGH assurance.
const (
	MediumConfirmations = 3
	HighConfirmations   = 9
)

// Entry is one input or output of a raw transaction.
type Entry struct {
	Address string `json:"address"`
	Amount  uint64 `json:"amount"`
}

// Transaction is a transaction as returned by wallet_getAddressHistory.
type Transaction struct {
	ID          string    `json:"id"`
	Status      Status    `json:"status"`
	Inputs      []Entry   `json:"inputs"`
	Outputs     []Entry   `json:"outputs"`
	SubmittedAt time.Time `json:"submittedAt"`
}
