package send

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/Klingon-tech/klingnet-wallet/config"
	klog "github.com/Klingon-tech/klingnet-wallet/internal/log"
	"github.com/Klingon-tech/klingnet-wallet/internal/metrics"
	"github.com/Klingon-tech/klingnet-wallet/internal/state"
	"github.com/Klingon-tech/klingnet-wallet/internal/wallet"
	"github.com/Klingon-tech/klingnet-wallet/pkg/amount"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Form errors.
var (
	ErrStale              = errors.New("form changed during validation")
	ErrBalanceUnavailable = errors.New("balance not available")
)

// Fetcher refreshes the wallet UTXOs. Results reach the form through
// SetUTXOs, not through the return value.
type Fetcher interface {
	Fetch(ctx context.Context) error
}

// ConfirmParams is what the confirmation step needs to show and submit a
// send. Amount and BalanceAfterTx are in base units.
type ConfirmParams struct {
	Address         string
	Amount          *big.Int
	TransactionData *wallet.TransactionData
	BalanceAfterTx  decimal.Decimal
}

// FormConfig configures a Form.
type FormConfig struct {
	Validator *Validator
	Preparer  TransactionPreparer
	Fetcher   Fetcher // Optional, used by Focus.
	Logger    *zerolog.Logger
}

// Form is the send form state. Every edit starts a validation run tagged
// with a sequence number; a run's result is applied only if no newer edit
// happened meanwhile. Validation itself runs without holding the lock, so
// edits may come from any goroutine.
type Form struct {
	validator *Validator
	preparer  TransactionPreparer
	fetcher   Fetcher
	logger    zerolog.Logger

	mu         sync.Mutex
	seq        uint64 // Bumped on every run.
	settled    uint64 // Seq of the last run that finished, applied or not.
	dirty      bool   // The latest run failed, errs may lag the inputs.
	address    string
	amount     string
	errs       Errors
	utxos      []wallet.UTXO
	isFetching bool
	fetchErr   error
}

// NewForm creates an empty form.
func NewForm(cfg FormConfig) *Form {
	f := &Form{
		validator: cfg.Validator,
		preparer:  cfg.Preparer,
		fetcher:   cfg.Fetcher,
		logger:    klog.Send,
		errs:      InitialErrors(),
	}
	if cfg.Logger != nil {
		f.logger = *cfg.Logger
	}
	return f
}

// run is a snapshot of the inputs one validation run works on.
type run struct {
	seq     uint64
	utxos   []wallet.UTXO
	address string
	amount  string
	current Errors
	// full is set when an earlier run is still in flight or failed. Its
	// result never lands, so this run must validate every field.
	full bool
}

// begin records an edit and snapshots the inputs. Callers hold f.mu.
func (f *Form) begin() run {
	r := run{
		utxos:   f.utxos,
		address: strings.TrimSpace(f.address),
		amount:  f.amount,
		current: f.errs,
		full:    f.settled != f.seq || f.dirty,
	}
	f.seq++
	r.seq = f.seq
	return r
}

// commit applies errs if r is still the latest run and returns the
// form's errors afterwards.
func (f *Form) commit(r run, errs Errors, err error) (Errors, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r.seq > f.settled {
		f.settled = r.seq
	}
	if err != nil {
		if r.seq == f.seq {
			f.dirty = true
		}
		return f.errs, err
	}
	if r.seq != f.seq {
		metrics.StaleResults.Inc()
		f.logger.Debug().Uint64("seq", r.seq).Uint64("latest", f.seq).Msg("Discarding stale validation result")
		return f.errs, ErrStale
	}
	f.errs = errs
	f.dirty = false
	return f.errs, nil
}

// SetAddress records a new recipient address and re-validates. It returns
// ErrStale when a newer edit superseded this one.
func (f *Form) SetAddress(ctx context.Context, address string) (Errors, error) {
	f.mu.Lock()
	f.address = address
	r := f.begin()
	f.mu.Unlock()

	var errs Errors
	var err error
	if r.full {
		errs, err = f.validator.Validate(ctx, r.utxos, r.address, r.amount)
	} else {
		errs, err = f.validator.AddressChanged(ctx, r.utxos, r.address, r.amount, r.current)
	}
	return f.commit(r, errs, err)
}

// SetAmount records a new amount and re-validates. It returns ErrStale
// when a newer edit superseded this one.
func (f *Form) SetAmount(ctx context.Context, amt string) (Errors, error) {
	f.mu.Lock()
	f.amount = amt
	r := f.begin()
	f.mu.Unlock()

	var errs Errors
	var err error
	if r.full {
		errs, err = f.validator.Validate(ctx, r.utxos, r.address, r.amount)
	} else {
		errs, err = f.validator.AmountChanged(ctx, r.utxos, r.amount, r.address, r.current)
	}
	return f.commit(r, errs, err)
}

// SetUTXOs installs a new UTXO snapshot. The form re-validates only when
// utxos is non-nil, a different slice than before, and both fields have
// been filled in.
func (f *Form) SetUTXOs(ctx context.Context, utxos []wallet.UTXO) (Errors, error) {
	f.mu.Lock()
	changed := !sameSlice(f.utxos, utxos)
	f.utxos = utxos
	if utxos == nil || !changed || f.address == "" || f.amount == "" {
		errs := f.errs
		f.mu.Unlock()
		return errs, nil
	}
	r := f.begin()
	f.mu.Unlock()

	errs, err := f.validator.Validate(ctx, r.utxos, r.address, r.amount)
	return f.commit(r, errs, err)
}

// SetFetchState records whether a UTXO fetch is in flight and the last
// fetch error.
func (f *Form) SetFetchState(isFetching bool, fetchErr error) {
	f.mu.Lock()
	f.isFetching = isFetching
	f.fetchErr = fetchErr
	f.mu.Unlock()
}

// Sync applies the balance slice of a store snapshot.
func (f *Form) Sync(ctx context.Context, s state.State) (Errors, error) {
	f.SetFetchState(s.Balance.IsFetching, s.Balance.LastFetchingError)
	return f.SetUTXOs(ctx, s.Balance.UTXOs)
}

// Focus starts a UTXO refresh unless one is already running.
func (f *Form) Focus(ctx context.Context) error {
	f.mu.Lock()
	fetching := f.isFetching
	f.mu.Unlock()
	if fetching || f.fetcher == nil {
		return nil
	}
	return f.fetcher.Fetch(ctx)
}

// Prefill seeds the form from the debug settings when enabled.
func (f *Form) Prefill(ctx context.Context, cfg config.DebugConfig) error {
	if !cfg.PrefillForms {
		return nil
	}
	if _, err := f.SetAddress(ctx, cfg.SendAddress); err != nil {
		return fmt.Errorf("prefill address: %w", err)
	}
	if _, err := f.SetAmount(ctx, cfg.SendAmount); err != nil {
		return fmt.Errorf("prefill amount: %w", err)
	}
	return nil
}

// Confirm re-validates the whole form and, when it is valid and UTXOs are
// known, builds the transaction. It returns nil params with the committed
// errors when the form is invalid. available is the current UTXO balance
// in base units.
func (f *Form) Confirm(ctx context.Context, available decimal.NullDecimal) (*ConfirmParams, Errors, error) {
	f.mu.Lock()
	r := f.begin()
	r.full = true
	f.mu.Unlock()

	errs, err := f.validator.Validate(ctx, r.utxos, r.address, r.amount)
	errs, err = f.commit(r, errs, err)
	if err != nil {
		return nil, errs, err
	}
	if !errs.Valid() || r.utxos == nil {
		return nil, errs, nil
	}
	if !available.Valid {
		return nil, errs, ErrBalanceUnavailable
	}

	units, err := amount.ToBaseUnits(r.amount)
	if err != nil {
		return nil, errs, fmt.Errorf("convert amount: %w", err)
	}
	data, err := f.preparer.PrepareTransaction(ctx, r.utxos, r.address, units)
	if err != nil {
		return nil, errs, fmt.Errorf("prepare transaction: %w", err)
	}

	balanceAfter := available.Decimal.
		Sub(amount.FromBigInt(units)).
		Sub(amount.FromBaseUnits(data.Fee))

	f.logger.Info().
		Str("to", r.address).
		Str("amount", amount.Format(amount.FromBigInt(units))).
		Str("fee", amount.Format(amount.FromBaseUnits(data.Fee))).
		Msg("Send confirmed")

	return &ConfirmParams{
		Address:         r.address,
		Amount:          units,
		TransactionData: data,
		BalanceAfterTx:  balanceAfter,
	}, errs, nil
}

// Errors returns the committed validation errors.
func (f *Form) Errors() Errors {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errs
}

// Address returns the current address input.
func (f *Form) Address() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.address
}

// Amount returns the current amount input.
func (f *Form) Amount() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.amount
}

// CanSubmit reports whether the continue action is enabled: no fetch in
// flight, no fetch error and no field errors.
func (f *Form) CanSubmit() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.isFetching && f.fetchErr == nil && f.errs.Valid()
}

// sameSlice reports whether a and b are the same slice value: same
// backing array, same length, same nil-ness.
func sameSlice(a, b []wallet.UTXO) bool {
	if (a == nil) != (b == nil) || len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	return &a[0] == &b[0]
}
