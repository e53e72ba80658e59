// Package send implements the send form: combined address/amount/fee
// validation and the form state that applies results last-write-wins.
package send

import (
	"context"
	"errors"
	"math/big"

	klog "github.com/Klingon-tech/klingnet-wallet/internal/log"
	"github.com/Klingon-tech/klingnet-wallet/internal/metrics"
	"github.com/Klingon-tech/klingnet-wallet/internal/validate"
	"github.com/Klingon-tech/klingnet-wallet/internal/wallet"
	"github.com/Klingon-tech/klingnet-wallet/pkg/amount"
	"github.com/rs/zerolog"
)

// TransactionPreparer builds a candidate transaction spending utxos.
// Insufficient funds must be reported with an error wrapping
// wallet.ErrInsufficientFunds.
type TransactionPreparer interface {
	PrepareTransaction(ctx context.Context, utxos []wallet.UTXO, address string, amount *big.Int) (*wallet.TransactionData, error)
}

// FeeEstimator detects amounts the wallet cannot cover once fees are
// included, by asking a TransactionPreparer to build the transaction.
type FeeEstimator struct {
	preparer TransactionPreparer
	logger   zerolog.Logger
}

// FeeEstimatorConfig configures a FeeEstimator.
type FeeEstimatorConfig struct {
	Preparer TransactionPreparer
	Logger   *zerolog.Logger // Nil uses the send component logger.
}

// NewFeeEstimator creates a fee estimator backed by cfg.Preparer.
func NewFeeEstimator(cfg FeeEstimatorConfig) *FeeEstimator {
	e := &FeeEstimator{preparer: cfg.Preparer, logger: klog.Send}
	if cfg.Logger != nil {
		e.logger = *cfg.Logger
	}
	return e
}

// ValidateFee returns InsufficientBalance when utxos cannot pay amount
// plus fee to address, and nil when they can or when utxos is nil (not
// fetched yet).
//
// Preparer failures other than insufficient funds are logged and treated
// as valid, so a backend problem never blocks the form. The error return
// is non-nil only when ctx is done.
func (e *FeeEstimator) ValidateFee(ctx context.Context, utxos []wallet.UTXO, address, amt string) (*validate.AmountErrors, error) {
	if utxos == nil {
		metrics.FeeChecks.WithLabelValues(metrics.FeeSkipped).Inc()
		return nil, nil
	}

	units, err := amount.ToBaseUnits(amt)
	if err != nil {
		e.fail(err)
		return nil, nil
	}

	_, err = e.preparer.PrepareTransaction(ctx, utxos, address, units)
	switch {
	case err == nil:
		metrics.FeeChecks.WithLabelValues(metrics.FeeOK).Inc()
		return nil, nil
	case errors.Is(err, wallet.ErrInsufficientFunds):
		metrics.FeeChecks.WithLabelValues(metrics.FeeInsufficient).Inc()
		return validate.NewAmountErrors(validate.InsufficientBalance), nil
	case ctx.Err() != nil:
		metrics.FeeChecks.WithLabelValues(metrics.FeeCanceled).Inc()
		return nil, ctx.Err()
	default:
		e.fail(err)
		return nil, nil
	}
}

func (e *FeeEstimator) fail(err error) {
	metrics.FeeChecks.WithLabelValues(metrics.FeeFailed).Inc()
	e.logger.Error().Err(err).Msg("Failed while preparing transaction")
}
