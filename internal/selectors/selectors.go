// Package selectors derives balances, address indices and transaction info
// from state snapshots. Every selector is a pure function of the snapshot;
// the memoized ones recompute only when an input changes identity.
package selectors

import (
	"github.com/Klingon-tech/klingnet-wallet/internal/history"
	klog "github.com/Klingon-tech/klingnet-wallet/internal/log"
	"github.com/Klingon-tech/klingnet-wallet/internal/state"
	"github.com/Klingon-tech/klingnet-wallet/internal/wallet"
	"github.com/shopspring/decimal"
)

// Selectors holds the memoization caches for one consumer. Instances are
// safe for concurrent use.
type Selectors struct {
	transactionsInfo Memo[map[string]history.TransactionInfo]
	internalIndex    Memo[map[string]int]
	externalIndex    Memo[map[string]int]
	available        Memo[decimal.Decimal]
	pending          Memo[decimal.NullDecimal]
	pendingOutgoing  Memo[bool]
	receiveAddresses Memo[[]string]
}

// New returns a Selectors with empty caches.
func New() *Selectors {
	return &Selectors{}
}

// TransactionsInfo maps each transaction ID to its wallet-relative info.
func (sel *Selectors) TransactionsInfo(s state.State) map[string]history.TransactionInfo {
	w := s.Wallet
	return sel.transactionsInfo.Do(func() map[string]history.TransactionInfo {
		own := w.AllAddresses()
		klog.Selectors.Debug().Int("transactions", len(w.Transactions)).Int("addresses", len(own)).Msg("Processing transactions")
		out := make(map[string]history.TransactionInfo, len(w.Transactions))
		for id, tx := range w.Transactions {
			out[id] = history.ProcessTransaction(tx, own, w.ConfirmationCounts[tx.ID])
		}
		return out
	}, w.Transactions, w.InternalAddresses, w.ExternalAddresses, w.ConfirmationCounts)
}

// InternalAddressIndex maps each internal address to its position.
func (sel *Selectors) InternalAddressIndex(s state.State) map[string]int {
	addrs := s.Wallet.InternalAddresses
	return sel.internalIndex.Do(func() map[string]int { return indexOf(addrs) }, addrs)
}

// ExternalAddressIndex maps each external address to its position.
func (sel *Selectors) ExternalAddressIndex(s state.State) map[string]int {
	addrs := s.Wallet.ExternalAddresses
	return sel.externalIndex.Do(func() map[string]int { return indexOf(addrs) }, addrs)
}

// AvailableAmount sums the brutto amounts of successful transactions.
func (sel *Selectors) AvailableAmount(s state.State) decimal.Decimal {
	infos := sel.TransactionsInfo(s)
	return sel.available.Do(func() decimal.Decimal {
		total := decimal.Zero
		for _, info := range infos {
			if info.Status == history.StatusSuccessful {
				total = total.Add(info.BruttoAmount)
			}
		}
		return total
	}, infos)
}

// AmountPending sums the brutto amounts of pending transactions. The
// result is invalid, not zero, when nothing is pending.
func (sel *Selectors) AmountPending(s state.State) decimal.NullDecimal {
	infos := sel.TransactionsInfo(s)
	return sel.pending.Do(func() decimal.NullDecimal {
		var total decimal.NullDecimal
		for _, info := range infos {
			if info.Status != history.StatusPending {
				continue
			}
			if !total.Valid {
				total = decimal.NewNullDecimal(decimal.Zero)
			}
			total.Decimal = total.Decimal.Add(info.BruttoAmount)
		}
		return total
	}, infos)
}

// HasPendingOutgoingTransaction reports whether any pending transaction
// was not purely received.
func (sel *Selectors) HasPendingOutgoingTransaction(s state.State) bool {
	infos := sel.TransactionsInfo(s)
	return sel.pendingOutgoing.Do(func() bool {
		for _, info := range infos {
			if info.Status == history.StatusPending && info.Direction != history.DirectionReceived {
				return true
			}
		}
		return false
	}, infos)
}

// ReceiveAddresses returns the first NumReceiveAddresses external addresses.
func (sel *Selectors) ReceiveAddresses(s state.State) []string {
	addrs, count := s.Wallet.ExternalAddresses, s.Wallet.NumReceiveAddresses
	return sel.receiveAddresses.Do(func() []string {
		n := min(max(count, 0), len(addrs))
		return append([]string(nil), addrs[:n]...)
	}, addrs, count)
}

// UTXOBalance sums UTXO amounts. The result is invalid while a fetch is in
// flight or before the first fetch completes.
func UTXOBalance(s state.State) decimal.NullDecimal {
	if s.Balance.IsFetching || s.Balance.UTXOs == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(wallet.SumAmounts(s.Balance.UTXOs))
}

func indexOf(addrs []string) map[string]int {
	idx := make(map[string]int, len(addrs))
	for i, a := range addrs {
		idx[a] = i
	}
	return idx
}
