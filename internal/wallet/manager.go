package wallet

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/Klingon-tech/klingnet-wallet/config"
	klog "github.com/Klingon-tech/klingnet-wallet/internal/log"
	"github.com/Klingon-tech/klingnet-wallet/pkg/tx"
	"github.com/Klingon-tech/klingnet-wallet/pkg/types"
	"github.com/rs/zerolog"
)

// Manager errors.
var (
	ErrInvalidRecipient = errors.New("invalid recipient address")
	ErrInvalidAmount    = errors.New("amount must be positive")
)

// maxFeeIterations bounds the select/re-estimate loop. Each pass can only
// add inputs, so it settles quickly in practice.
const maxFeeIterations = 8

// TransactionData is a speculative, unsigned send built from the wallet's
// current UTXOs. It is never persisted or broadcast.
type TransactionData struct {
	Tx     *tx.Transaction
	ID     types.Hash
	Inputs []UTXO
	To     types.Address
	Amount uint64
	Fee    uint64
	Change uint64
}

// ManagerConfig configures a Manager.
type ManagerConfig struct {
	FeeRate       uint64        // Base units per byte; zero uses config.DefaultFeeRate.
	ChangeAddress types.Address // Zero = address of the first selected input.
	Logger        *zerolog.Logger
}

// Manager prepares candidate transactions. It holds no keys.
type Manager struct {
	feeRate    uint64
	changeAddr types.Address
	logger     zerolog.Logger
}

// NewManager creates a transaction manager.
func NewManager(cfg ManagerConfig) *Manager {
	m := &Manager{
		feeRate:    cfg.FeeRate,
		changeAddr: cfg.ChangeAddress,
		logger:     klog.Wallet,
	}
	if m.feeRate == 0 {
		m.feeRate = config.DefaultFeeRate
	}
	if cfg.Logger != nil {
		m.logger = *cfg.Logger
	}
	return m
}

// NewManagerFromConfig creates a Manager using the send settings of cfg.
func NewManagerFromConfig(cfg *config.Config) (*Manager, error) {
	mc := ManagerConfig{FeeRate: cfg.Send.FeeRate}
	if cfg.Send.ChangeAddress != "" {
		addr, err := types.ParseAddress(cfg.Send.ChangeAddress)
		if err != nil {
			return nil, fmt.Errorf("change address: %w", err)
		}
		mc.ChangeAddress = addr
	}
	return NewManager(mc), nil
}

// FeeRate returns the fee rate in base units per byte.
func (m *Manager) FeeRate() uint64 {
	return m.feeRate
}

// PrepareTransaction selects inputs from utxos to pay amount base units to
// address and builds the unsigned transaction, including a change output
// when the selection leaves a remainder.
//
// Returns an error wrapping ErrInsufficientFunds when the UTXOs cannot
// cover amount plus fee.
func (m *Manager) PrepareTransaction(ctx context.Context, utxos []UTXO, address string, amount *big.Int) (*TransactionData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	to, err := types.ParseAddress(address)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecipient, err)
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}
	if !amount.IsUint64() {
		// More than the ledger can ever hold.
		return nil, fmt.Errorf("%w: amount %s exceeds supply", ErrInsufficientFunds, amount)
	}
	value := amount.Uint64()

	// Fee estimation with iterative coin selection.
	fee := tx.EstimateTxFee(1, 2, m.feeRate) // 1 input, 2 outputs (recipient + change)
	var selection *CoinSelection
	for i := 0; i < maxFeeIterations; i++ {
		target := value + fee
		if target < value {
			return nil, fmt.Errorf("%w: amount plus fee overflows", ErrInsufficientFunds)
		}
		selection, err = SelectCoins(utxos, target)
		if err != nil {
			return nil, fmt.Errorf("coin selection: %w", err)
		}
		// Recalculate fee with actual input count.
		fee = tx.EstimateTxFee(len(selection.Inputs), 2, m.feeRate)
		if selection.Total >= value+fee {
			break
		}
	}
	if selection.Total < value+fee {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrInsufficientFunds, selection.Total, value+fee)
	}
	change := selection.Total - value - fee

	builder := tx.NewBuilder()
	for _, input := range selection.Inputs {
		builder.AddInput(input.Outpoint)
	}
	changeAddr := m.changeAddr
	if changeAddr.IsZero() {
		changeAddr = selection.Inputs[0].Address
	}
	transaction := builder.AddOutput(value, to).AddChange(change, changeAddr).Build()
	if err := transaction.Validate(); err != nil {
		return nil, fmt.Errorf("build transaction: %w", err)
	}

	data := &TransactionData{
		Tx:     transaction,
		ID:     transaction.Hash(),
		Inputs: selection.Inputs,
		To:     to,
		Amount: value,
		Fee:    fee,
		Change: change,
	}
	m.logger.Debug().
		Str("txid", data.ID.String()).
		Int("inputs", len(data.Inputs)).
		Uint64("amount", value).
		Uint64("fee", fee).
		Uint64("change", change).
		Msg("Prepared transaction")
	return data, nil
}
