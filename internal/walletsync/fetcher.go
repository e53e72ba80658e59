// Package walletsync populates the state store from a node: UTXOs per
// wallet address and the wallet's transaction history.
package walletsync

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	klog "github.com/Klingon-tech/klingnet-wallet/internal/log"
	"github.com/Klingon-tech/klingnet-wallet/internal/metrics"
	"github.com/Klingon-tech/klingnet-wallet/internal/state"
	"github.com/Klingon-tech/klingnet-wallet/internal/wallet"
	"github.com/Klingon-tech/klingnet-wallet/pkg/types"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// RPC method names.
const (
	MethodUTXOsByAddress = "utxo_getByAddress"
	MethodAddressHistory = "wallet_getAddressHistory"
)

// DefaultConcurrency bounds parallel per-address UTXO requests.
const DefaultConcurrency = 8

// Caller performs one JSON-RPC call. *rpcclient.Client satisfies it.
type Caller interface {
	Call(ctx context.Context, method string, params, result interface{}) error
}

// addressParam is the utxo_getByAddress request.
type addressParam struct {
	Address string `json:"address"`
}

// nodeUTXO is one entry of a utxo_getByAddress result. Only the fields the
// wallet uses are decoded.
type nodeUTXO struct {
	Outpoint types.Outpoint  `json:"outpoint"`
	Value    uint64          `json:"value"`
	Token    json.RawMessage `json:"token,omitempty"`
}

// utxoListResult is the utxo_getByAddress result.
type utxoListResult struct {
	Address string     `json:"address"`
	UTXOs   []nodeUTXO `json:"utxos"`
}

// UTXOFetcher refreshes the store's UTXO set.
type UTXOFetcher struct {
	rpc         Caller
	store       *state.Store
	concurrency int
	logger      zerolog.Logger
}

// Config configures the fetchers of this package.
type Config struct {
	RPC         Caller
	Store       *state.Store
	Concurrency int             // Parallel UTXO requests; zero uses DefaultConcurrency.
	Logger      *zerolog.Logger // Nil uses the sync component logger.
}

func (c Config) logger() zerolog.Logger {
	if c.Logger != nil {
		return *c.Logger
	}
	return klog.Sync
}

// NewUTXOFetcher creates a fetcher publishing to cfg.Store.
func NewUTXOFetcher(cfg Config) *UTXOFetcher {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &UTXOFetcher{
		rpc:         cfg.RPC,
		store:       cfg.Store,
		concurrency: concurrency,
		logger:      cfg.logger(),
	}
}

// Fetch queries UTXOs for every wallet address and publishes the combined
// set, or the first error. It returns nil without doing anything when a
// fetch is already in flight.
func (f *UTXOFetcher) Fetch(ctx context.Context) error {
	if !f.store.StartUTXOFetch() {
		f.logger.Debug().Msg("UTXO fetch already in progress")
		return nil
	}

	start := time.Now()
	addresses := f.store.Snapshot().Wallet.AllAddresses()
	utxos, err := f.fetchAll(ctx, addresses)
	metrics.ObserveFetch(metrics.FetchUTXOs, start, err)
	if err != nil {
		f.logger.Warn().Err(err).Int("addresses", len(addresses)).Msg("UTXO fetch failed")
		f.store.SetUTXOFetchError(err)
		return err
	}

	f.store.SetUTXOs(utxos)
	f.logger.Info().
		Int("addresses", len(addresses)).
		Int("utxos", len(utxos)).
		Str("balance", wallet.SumAmounts(utxos).String()).
		Dur("elapsed", time.Since(start)).
		Msg("UTXOs fetched")
	return nil
}

func (f *UTXOFetcher) fetchAll(ctx context.Context, addresses []string) ([]wallet.UTXO, error) {
	results := make([][]wallet.UTXO, len(addresses))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)
	for i, addr := range addresses {
		i, addr := i, addr
		g.Go(func() error {
			utxos, err := f.fetchAddress(gctx, addr)
			if err != nil {
				return fmt.Errorf("fetch utxos for %s: %w", addr, err)
			}
			results[i] = utxos
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Preserve address order so repeated fetches are deterministic.
	all := make([]wallet.UTXO, 0)
	for _, r := range results {
		all = append(all, r...)
	}
	return all, nil
}

func (f *UTXOFetcher) fetchAddress(ctx context.Context, address string) ([]wallet.UTXO, error) {
	owner, err := types.ParseAddress(address)
	if err != nil {
		return nil, fmt.Errorf("parse address: %w", err)
	}

	var result utxoListResult
	if err := f.rpc.Call(ctx, MethodUTXOsByAddress, addressParam{Address: address}, &result); err != nil {
		return nil, err
	}

	utxos := make([]wallet.UTXO, 0, len(result.UTXOs))
	for _, u := range result.UTXOs {
		// Token outputs are not spendable as native coin.
		if len(u.Token) > 0 && string(u.Token) != "null" {
			continue
		}
		utxos = append(utxos, wallet.UTXO{
			Outpoint: u.Outpoint,
			Address:  owner,
			Amount:   u.Value,
		})
	}
	return utxos, nil
}
