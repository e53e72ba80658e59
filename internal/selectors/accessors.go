package selectors

import (
	"github.com/Klingon-tech/klingnet-wallet/internal/state"
	"github.com/Klingon-tech/klingnet-wallet/internal/wallet"
)

// Plain accessors. They read a single field and need no memoization.

func IsOnline(s state.State) bool               { return s.IsOnline }
func IsSynchronizingHistory(s state.State) bool { return s.TxHistory.IsSynchronizing }
func LastHistorySyncError(s state.State) error  { return s.TxHistory.LastSyncError }
func WalletIsInitialized(s state.State) bool    { return s.Wallet.IsInitialized }
func WalletName(s state.State) string           { return s.Wallet.Name }
func IsFetchingUTXOs(s state.State) bool        { return s.Balance.IsFetching }
func LastUTXOsFetchError(s state.State) error   { return s.Balance.LastFetchingError }
func UTXOs(s state.State) []wallet.UTXO         { return s.Balance.UTXOs }

func CanGenerateNewReceiveAddress(s state.State) bool {
	return s.Wallet.CanGenerateNewReceiveAddress
}

func IsUsedAddressIndex(s state.State) map[string]bool {
	return s.Wallet.IsUsedAddressIndex
}
