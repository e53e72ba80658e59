package state

import (
	"errors"
	"testing"

	"github.com/Klingon-tech/klingnet-wallet/internal/history"
	"github.com/Klingon-tech/klingnet-wallet/internal/wallet"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newTestStore() *Store {
	nop := zerolog.Nop()
	return NewStore(StoreConfig{Logger: &nop})
}

func pending(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

func TestStore_UTXOFetchLifecycle(t *testing.T) {
	s := newTestStore()
	require.Nil(t, s.Snapshot().Balance.UTXOs)

	require.True(t, s.StartUTXOFetch())
	require.False(t, s.StartUTXOFetch(), "second start while fetching")
	require.True(t, s.Snapshot().Balance.IsFetching)

	utxos := []wallet.UTXO{{Amount: 5}, {Amount: 7}}
	s.SetUTXOs(utxos)
	snap := s.Snapshot()
	require.False(t, snap.Balance.IsFetching)
	require.Len(t, snap.Balance.UTXOs, 2)

	utxos[0].Amount = 99
	require.Equal(t, uint64(5), s.Snapshot().Balance.UTXOs[0].Amount, "snapshot must not alias caller slice")

	require.True(t, s.StartUTXOFetch())
	fetchErr := errors.New("node down")
	s.SetUTXOFetchError(fetchErr)
	snap = s.Snapshot()
	require.False(t, snap.Balance.IsFetching)
	require.ErrorIs(t, snap.Balance.LastFetchingError, fetchErr)
	require.Len(t, snap.Balance.UTXOs, 2, "failed fetch keeps previous UTXOs")

	s.SetUTXOs(nil)
	require.NotNil(t, s.Snapshot().Balance.UTXOs, "completed fetch is never nil")
	require.NoError(t, s.Snapshot().Balance.LastFetchingError)
}

func TestStore_SetUTXOsReplacesSlice(t *testing.T) {
	s := newTestStore()
	s.SetUTXOs([]wallet.UTXO{{Amount: 1}})
	first := s.Snapshot().Balance.UTXOs
	s.SetUTXOs([]wallet.UTXO{{Amount: 1}})
	second := s.Snapshot().Balance.UTXOs
	require.NotSame(t, &first[0], &second[0])
	require.Equal(t, uint64(1), first[0].Amount)
}

func TestStore_History(t *testing.T) {
	s := newTestStore()
	require.True(t, s.StartHistorySync())
	require.False(t, s.StartHistorySync())

	s.SetHistory([]history.Transaction{{ID: "a", Status: history.StatusPending}}, map[string]int{"a": 0})
	s.SetHistory([]history.Transaction{{ID: "a", Status: history.StatusSuccessful}, {ID: "b"}}, map[string]int{"a": 4})

	snap := s.Snapshot()
	require.False(t, snap.TxHistory.IsSynchronizing)
	require.Len(t, snap.Wallet.Transactions, 2)
	require.Equal(t, history.StatusSuccessful, snap.Wallet.Transactions["a"].Status)
	require.Equal(t, 4, snap.Wallet.ConfirmationCounts["a"])

	require.True(t, s.StartHistorySync())
	s.SetHistorySyncError(errors.New("timeout"))
	snap = s.Snapshot()
	require.False(t, snap.TxHistory.IsSynchronizing)
	require.EqualError(t, snap.TxHistory.LastSyncError, "timeout")
}

func TestStore_Subscribe(t *testing.T) {
	s := newTestStore()
	ch, unsubscribe := s.Subscribe()

	// Several changes coalesce into a single pending signal.
	s.SetOnline(true)
	s.SetAddresses([]string{"in"}, []string{"ex1", "ex2"})
	require.True(t, pending(ch))
	require.False(t, pending(ch))

	// No change, no signal.
	s.StartUTXOFetch()
	require.True(t, pending(ch))
	s.StartUTXOFetch()
	require.False(t, pending(ch))

	snap := s.Snapshot()
	require.True(t, snap.IsOnline)
	require.Equal(t, []string{"in", "ex1", "ex2"}, snap.Wallet.AllAddresses())

	unsubscribe()
	unsubscribe()
	_, open := <-ch
	require.False(t, open)
	s.SetOnline(false) // must not panic on the closed channel
}

func TestStore_SetWallet(t *testing.T) {
	s := newTestStore()
	s.SetWallet(Wallet{Name: "Main", IsInitialized: true, NumReceiveAddresses: 1})
	snap := s.Snapshot()
	require.Equal(t, "Main", snap.Wallet.Name)
	require.True(t, snap.Wallet.IsInitialized)
}
