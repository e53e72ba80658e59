package state

import (
	"sync"

	"github.com/Klingon-tech/klingnet-wallet/internal/history"
	klog "github.com/Klingon-tech/klingnet-wallet/internal/log"
	"github.com/Klingon-tech/klingnet-wallet/internal/wallet"
	"github.com/rs/zerolog"
)

// Store owns the current State. Every setter publishes a new snapshot and
// signals subscribers.
type Store struct {
	mu     sync.RWMutex
	state  State
	subs   map[int]chan struct{}
	nextID int
	logger zerolog.Logger
}

// StoreConfig configures a Store.
type StoreConfig struct {
	Initial State
	Logger  *zerolog.Logger // Nil uses the store component logger.
}

// NewStore creates a store holding cfg.Initial.
func NewStore(cfg StoreConfig) *Store {
	s := &Store{
		state:  cfg.Initial,
		subs:   make(map[int]chan struct{}),
		logger: klog.Store,
	}
	if cfg.Logger != nil {
		s.logger = *cfg.Logger
	}
	return s
}

// Snapshot returns the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe returns a channel that receives a value after each change and
// a function that unsubscribes and closes it. Notifications coalesce: a
// slow reader sees one pending signal however many changes happened, and
// should read Snapshot for the latest state.
func (s *Store) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
			close(ch)
		})
	}
}

// update applies fn under the write lock and notifies subscribers when
// fn reports a change.
func (s *Store) update(what string, fn func(st *State) bool) {
	s.mu.Lock()
	if !fn(&s.state) {
		s.mu.Unlock()
		return
	}
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	n := len(s.subs)
	logger := s.logger
	s.mu.Unlock()

	logger.Debug().Str("change", what).Int("subscribers", n).Msg("State updated")
}

// StartUTXOFetch marks a UTXO fetch in flight. It returns false, changing
// nothing, when one already is.
func (s *Store) StartUTXOFetch() bool {
	started := false
	s.update("utxo_fetch_start", func(st *State) bool {
		if st.Balance.IsFetching {
			return false
		}
		st.Balance.IsFetching = true
		started = true
		return true
	})
	return started
}

// SetUTXOs publishes a completed fetch. The slice is copied so callers
// cannot mutate the published snapshot.
func (s *Store) SetUTXOs(utxos []wallet.UTXO) {
	cp := make([]wallet.UTXO, len(utxos))
	copy(cp, utxos)
	s.update("utxos", func(st *State) bool {
		st.Balance = Balance{UTXOs: cp}
		return true
	})
}

// SetUTXOFetchError publishes a failed fetch. Previously fetched UTXOs
// are kept.
func (s *Store) SetUTXOFetchError(err error) {
	s.update("utxo_fetch_error", func(st *State) bool {
		st.Balance.IsFetching = false
		st.Balance.LastFetchingError = err
		return true
	})
}

// StartHistorySync marks a history sync in flight. It returns false when
// one already is.
func (s *Store) StartHistorySync() bool {
	started := false
	s.update("history_sync_start", func(st *State) bool {
		if st.TxHistory.IsSynchronizing {
			return false
		}
		st.TxHistory.IsSynchronizing = true
		started = true
		return true
	})
	return started
}

// SetHistory publishes a completed sync. Existing transactions are merged
// with txs, later entries replacing earlier ones by ID.
func (s *Store) SetHistory(txs []history.Transaction, confirmations map[string]int) {
	s.update("history", func(st *State) bool {
		merged := make(map[string]history.Transaction, len(st.Wallet.Transactions)+len(txs))
		for id, tx := range st.Wallet.Transactions {
			merged[id] = tx
		}
		for _, tx := range txs {
			merged[tx.ID] = tx
		}
		counts := make(map[string]int, len(confirmations))
		for id, n := range confirmations {
			counts[id] = n
		}
		st.Wallet.Transactions = merged
		st.Wallet.ConfirmationCounts = counts
		st.TxHistory = TxHistory{}
		return true
	})
}

// SetHistorySyncError publishes a failed sync.
func (s *Store) SetHistorySyncError(err error) {
	s.update("history_sync_error", func(st *State) bool {
		st.TxHistory.IsSynchronizing = false
		st.TxHistory.LastSyncError = err
		return true
	})
}

// SetAddresses replaces the wallet address lists.
func (s *Store) SetAddresses(internal, external []string) {
	in := append([]string(nil), internal...)
	ex := append([]string(nil), external...)
	s.update("addresses", func(st *State) bool {
		st.Wallet.InternalAddresses = in
		st.Wallet.ExternalAddresses = ex
		return true
	})
}

// SetOnline records network reachability.
func (s *Store) SetOnline(online bool) {
	s.update("online", func(st *State) bool {
		st.IsOnline = online
		return true
	})
}

// SetWallet replaces the wallet slice wholesale.
func (s *Store) SetWallet(w Wallet) {
	s.update("wallet", func(st *State) bool {
		st.Wallet = w
		return true
	})
}
