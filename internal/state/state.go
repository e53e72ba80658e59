// Package state holds the process-wide wallet state and the store that
// publishes snapshots of it.
package state

import (
	"github.com/Klingon-tech/klingnet-wallet/internal/history"
	"github.com/Klingon-tech/klingnet-wallet/internal/wallet"
)

// State is an immutable snapshot. Slices and maps inside it are never
// mutated in place; the Store replaces them on update, so selectors can
// key memoization on their identity.
type State struct {
	Wallet    Wallet
	Balance   Balance
	TxHistory TxHistory
	IsOnline  bool
}

// Wallet describes the open wallet and its known history.
type Wallet struct {
	Name          string
	IsInitialized bool

	Transactions       map[string]history.Transaction
	InternalAddresses  []string
	ExternalAddresses  []string
	ConfirmationCounts map[string]int

	NumReceiveAddresses          int
	CanGenerateNewReceiveAddress bool
	IsUsedAddressIndex           map[string]bool
}

// Balance is the UTXO fetch state. UTXOs is nil until the first fetch
// completes.
type Balance struct {
	IsFetching        bool
	LastFetchingError error
	UTXOs             []wallet.UTXO
}

// TxHistory is the history sync state.
type TxHistory struct {
	IsSynchronizing bool
	LastSyncError   error
}

// AllAddresses returns internal then external addresses in a new slice.
func (w Wallet) AllAddresses() []string {
	all := make([]string, 0, len(w.InternalAddresses)+len(w.ExternalAddresses))
	all = append(all, w.InternalAddresses...)
	return append(all, w.ExternalAddresses...)
}
