package walletsync

import (
	"context"
	"time"

	"github.com/Klingon-tech/klingnet-wallet/internal/history"
	"github.com/Klingon-tech/klingnet-wallet/internal/metrics"
	"github.com/Klingon-tech/klingnet-wallet/internal/state"
	"github.com/rs/zerolog"
)

// historyParam is the wallet_getAddressHistory request.
type historyParam struct {
	Addresses []string `json:"addresses"`
}

// historyResult is the wallet_getAddressHistory result.
type historyResult struct {
	Transactions  []history.Transaction `json:"transactions"`
	Confirmations map[string]int        `json:"confirmations"`
}

// HistorySyncer refreshes the store's transaction history.
type HistorySyncer struct {
	rpc    Caller
	store  *state.Store
	logger zerolog.Logger
}

// NewHistorySyncer creates a syncer publishing to cfg.Store.
// cfg.Concurrency is unused: history is one request.
func NewHistorySyncer(cfg Config) *HistorySyncer {
	return &HistorySyncer{rpc: cfg.RPC, store: cfg.Store, logger: cfg.logger()}
}

// Sync fetches history for every wallet address in one request. It returns
// nil without doing anything when a sync is already in flight.
func (h *HistorySyncer) Sync(ctx context.Context) error {
	if !h.store.StartHistorySync() {
		h.logger.Debug().Msg("History sync already in progress")
		return nil
	}

	start := time.Now()
	addresses := h.store.Snapshot().Wallet.AllAddresses()
	var result historyResult
	err := h.rpc.Call(ctx, MethodAddressHistory, historyParam{Addresses: addresses}, &result)
	metrics.ObserveFetch(metrics.FetchHistory, start, err)
	if err != nil {
		h.logger.Warn().Err(err).Msg("History sync failed")
		h.store.SetHistorySyncError(err)
		return err
	}

	h.store.SetHistory(result.Transactions, result.Confirmations)
	h.logger.Info().
		Int("transactions", len(result.Transactions)).
		Dur("elapsed", time.Since(start)).
		Msg("History synchronized")
	return nil
}
