package wallet

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
)

// Coin selection errors. ErrNoUTXOs wraps ErrInsufficientFunds: an empty
// wallet cannot cover any amount.
var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNoUTXOs           = fmt.Errorf("%w: no UTXOs available", ErrInsufficientFunds)
)

// CoinSelection holds the result of coin selection.
type CoinSelection struct {
	Inputs []UTXO // Selected UTXOs to spend.
	Total  uint64 // Sum of selected input values.
	Change uint64 // Change = Total - target.
}

// SelectCoins chooses UTXOs to fund a transaction of the given target amount.
// It tries two strategies:
//  1. Single UTXO: finds the smallest single UTXO that covers the target (minimizes inputs).
//  2. Largest-first accumulation: greedily adds the largest UTXOs until the target is met.
//
// Returns the strategy that produces the least change (waste).
// The input slice is never reordered.
func SelectCoins(utxos []UTXO, target uint64) (*CoinSelection, error) {
	if len(utxos) == 0 {
		return nil, ErrNoUTXOs
	}
	if target == 0 {
		return nil, fmt.Errorf("target must be positive")
	}

	// Filter out zero-value UTXOs and sort by value ascending.
	candidates := make([]UTXO, 0, len(utxos))
	for _, u := range utxos {
		if u.Amount > 0 {
			candidates = append(candidates, u)
		}
	}
	if len(candidates) == 0 {
		return nil, ErrNoUTXOs
	}

	// Equal amounts fall back to outpoint order so selection does not
	// depend on the order the node listed them in.
	slices.SortFunc(candidates, func(a, b UTXO) int {
		if c := cmp.Compare(a.Amount, b.Amount); c != 0 {
			return c
		}
		return a.Outpoint.Compare(b.Outpoint)
	})

	// Strategy 1: Single UTXO, smallest one that covers the target.
	var single *CoinSelection
	for _, u := range candidates {
		if u.Amount >= target {
			single = &CoinSelection{
				Inputs: []UTXO{u},
				Total:  u.Amount,
				Change: u.Amount - target,
			}
			break // Sorted ascending, first match is smallest.
		}
	}

	// Strategy 2: Largest-first accumulation.
	var accum *CoinSelection
	var selected []UTXO
	var total uint64
	for i := len(candidates) - 1; i >= 0; i-- {
		v := candidates[i].Amount
		if total+v < total {
			// Overflow means the target is certainly covered.
			total = ^uint64(0)
		} else {
			total += v
		}
		selected = append(selected, candidates[i])
		if total >= target {
			accum = &CoinSelection{
				Inputs: selected,
				Total:  total,
				Change: total - target,
			}
			break
		}
	}

	switch {
	case single != nil && accum != nil:
		// Prefer whichever produces less change (less waste).
		if single.Change <= accum.Change {
			return single, nil
		}
		return accum, nil
	case single != nil:
		return single, nil
	case accum != nil:
		return accum, nil
	default:
		return nil, fmt.Errorf("%w: have %d, need %d", ErrInsufficientFunds, total, target)
	}
}
