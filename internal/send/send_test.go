package send

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"testing"

	"github.com/Klingon-tech/klingnet-wallet/config"
	"github.com/Klingon-tech/klingnet-wallet/internal/validate"
	"github.com/Klingon-tech/klingnet-wallet/internal/wallet"
	"github.com/Klingon-tech/klingnet-wallet/pkg/crypto"
	"github.com/Klingon-tech/klingnet-wallet/pkg/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const coin = config.Coin

var validAddress = mustEncode(crypto.AddressFromPubKey([]byte("send recipient")))

func mustEncode(a types.Address) string {
	s, err := types.EncodeAddress(types.MainnetHRP, a)
	if err != nil {
		panic(err)
	}
	return s
}

// fakePreparer succeeds when utxos cover amount plus fee.
type fakePreparer struct {
	mu    sync.Mutex
	calls int
	fee   uint64
	err   error
}

func (p *fakePreparer) PrepareTransaction(ctx context.Context, utxos []wallet.UTXO, address string, amt *big.Int) (*wallet.TransactionData, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	total := wallet.SumAmounts(utxos).BigInt()
	need := new(big.Int).Add(amt, new(big.Int).SetUint64(p.fee))
	if total.Cmp(need) < 0 {
		return nil, fmt.Errorf("%w: have %s, need %s", wallet.ErrInsufficientFunds, total, need)
	}
	return &wallet.TransactionData{Amount: amt.Uint64(), Fee: p.fee}, nil
}

func (p *fakePreparer) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func utxosOf(amounts ...uint64) []wallet.UTXO {
	out := make([]wallet.UTXO, len(amounts))
	for i, a := range amounts {
		out[i] = wallet.UTXO{Outpoint: types.Outpoint{TxID: types.Hash{byte(i + 1)}}, Amount: a}
	}
	return out
}

func nopLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

func newValidator(p TransactionPreparer) *Validator {
	fees := NewFeeEstimator(FeeEstimatorConfig{Preparer: p, Logger: nopLogger()})
	return NewValidator(validate.NewValidator(config.Mainnet, nil), fees)
}

func TestValidateFee_NilUTXOs(t *testing.T) {
	p := &fakePreparer{err: errors.New("must not be called")}
	fees := NewFeeEstimator(FeeEstimatorConfig{Preparer: p, Logger: nopLogger()})

	for _, amt := range []string{"", "abc", "50", "999999999"} {
		got, err := fees.ValidateFee(context.Background(), nil, validAddress, amt)
		require.NoError(t, err)
		require.Nil(t, got)
	}
	require.Zero(t, p.Calls())
}

func TestValidateFee_Sufficiency(t *testing.T) {
	utxos := utxosOf(60*coin, 40*coin) // 100 coins.
	ctx := context.Background()

	enough := NewFeeEstimator(FeeEstimatorConfig{Preparer: &fakePreparer{fee: 1 * coin}, Logger: nopLogger()})
	got, err := enough.ValidateFee(ctx, utxos, validAddress, "50")
	require.NoError(t, err)
	require.Nil(t, got)

	short := NewFeeEstimator(FeeEstimatorConfig{Preparer: &fakePreparer{err: fmt.Errorf("coin selection: %w", wallet.ErrInsufficientFunds)}, Logger: nopLogger()})
	got, err = short.ValidateFee(ctx, utxos, validAddress, "50")
	require.NoError(t, err)
	require.True(t, got.Is(validate.InsufficientBalance))

	got, err = enough.ValidateFee(ctx, utxos, validAddress, "99.5")
	require.NoError(t, err)
	require.True(t, got.Is(validate.InsufficientBalance), "amount plus fee exceeds balance")
}

func TestValidateFee_EmptyUTXOsAreInsufficient(t *testing.T) {
	m := wallet.NewManager(wallet.ManagerConfig{FeeRate: 1, Logger: nopLogger()})
	fees := NewFeeEstimator(FeeEstimatorConfig{Preparer: m, Logger: nopLogger()})
	got, err := fees.ValidateFee(context.Background(), []wallet.UTXO{}, validAddress, "1")
	require.NoError(t, err)
	require.True(t, got.Is(validate.InsufficientBalance))
}

func TestValidateFee_OtherErrorsFailOpen(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	fees := NewFeeEstimator(FeeEstimatorConfig{Preparer: &fakePreparer{err: errors.New("backend exploded")}, Logger: &logger})

	got, err := fees.ValidateFee(context.Background(), utxosOf(100*coin), validAddress, "50")
	require.NoError(t, err)
	require.Nil(t, got)
	require.Contains(t, buf.String(), "Failed while preparing transaction")
	require.Contains(t, buf.String(), "backend exploded")
}

func TestValidateFee_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fees := NewFeeEstimator(FeeEstimatorConfig{Preparer: &fakePreparer{err: context.Canceled}, Logger: nopLogger()})
	_, err := fees.ValidateFee(ctx, utxosOf(1), validAddress, "1")
	require.ErrorIs(t, err, context.Canceled)
}

func TestShouldValidateFee(t *testing.T) {
	utxos := utxosOf(1)
	insufficient := validate.NewAmountErrors(validate.InsufficientBalance)
	invalid := validate.NewAmountErrors(validate.InvalidAmount)
	badAddr := validate.NewAddressErrors(validate.InvalidAddress)

	require.True(t, ShouldValidateFee(utxos, nil, nil))
	require.True(t, ShouldValidateFee(utxos, nil, insufficient))
	require.True(t, ShouldValidateFee([]wallet.UTXO{}, nil, nil))
	require.False(t, ShouldValidateFee(nil, nil, nil))
	require.False(t, ShouldValidateFee(utxos, badAddr, nil))
	require.False(t, ShouldValidateFee(utxos, nil, invalid))
}

func TestClearFeeErrors(t *testing.T) {
	require.Nil(t, ClearFeeErrors(nil))
	require.Nil(t, ClearFeeErrors(validate.NewAmountErrors(validate.InsufficientBalance)))
	required := validate.NewAmountErrors(validate.AmountRequired)
	require.Same(t, required, ClearFeeErrors(required))
}

func TestValidate_InvalidAddressSkipsFee(t *testing.T) {
	p := &fakePreparer{}
	errs, err := newValidator(p).Validate(context.Background(), utxosOf(100*coin), "nope", "500")
	require.NoError(t, err)
	require.True(t, errs.Address.Is(validate.InvalidAddress))
	require.Nil(t, errs.Amount, "amount reflects only the amount validator")
	require.Zero(t, p.Calls())
}

func TestValidate_InvalidAmountSkipsFee(t *testing.T) {
	p := &fakePreparer{}
	errs, err := newValidator(p).Validate(context.Background(), utxosOf(100*coin), validAddress, "1.0000001")
	require.NoError(t, err)
	require.Nil(t, errs.Address)
	require.True(t, errs.Amount.Is(validate.TooManyDecimalPlaces))
	require.Zero(t, p.Calls())
}

func TestValidate_Combined(t *testing.T) {
	p := &fakePreparer{fee: 1}
	v := newValidator(p)
	ctx := context.Background()

	errs, err := v.Validate(ctx, utxosOf(100*coin), validAddress, "50")
	require.NoError(t, err)
	require.True(t, errs.Valid())
	require.Equal(t, 1, p.Calls())

	errs, err = v.Validate(ctx, utxosOf(10*coin), validAddress, "50")
	require.NoError(t, err)
	require.True(t, errs.Amount.Is(validate.InsufficientBalance))

	errs, err = v.Validate(ctx, nil, validAddress, "50")
	require.NoError(t, err)
	require.True(t, errs.Valid(), "no UTXOs yet, no fee verdict")
}

func TestNarrowHandlersAgreeWithValidate(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name    string
		utxos   []wallet.UTXO
		address string
		amount  string
	}{
		{"valid", utxosOf(100 * coin), validAddress, "50"},
		{"insufficient", utxosOf(10 * coin), validAddress, "50"},
		{"bad address", utxosOf(100 * coin), "bad", "50"},
		{"empty address", utxosOf(100 * coin), "", "50"},
		{"bad amount", utxosOf(100 * coin), validAddress, "x"},
		{"no utxos", nil, validAddress, "50"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := newValidator(&fakePreparer{fee: 1})
			want, err := v.Validate(ctx, tc.utxos, tc.address, tc.amount)
			require.NoError(t, err)

			// Address typed last, amount errors already settled.
			current := Errors{Amount: validate.ValidateAmount(tc.amount)}
			if current.Amount == nil && ShouldValidateFee(tc.utxos, nil, nil) {
				current.Amount, _ = v.fees.ValidateFee(ctx, tc.utxos, validAddress, tc.amount)
			}
			got, err := v.AddressChanged(ctx, tc.utxos, tc.address, tc.amount, current)
			require.NoError(t, err)
			require.Equal(t, want, got, "AddressChanged")

			// Amount typed last, address errors already settled.
			addrErrs, err := validate.NewValidator(config.Mainnet, nil).ValidateAddress(ctx, tc.address)
			require.NoError(t, err)
			got, err = v.AmountChanged(ctx, tc.utxos, tc.amount, tc.address, Errors{Address: addrErrs})
			require.NoError(t, err)
			require.Equal(t, want, got, "AmountChanged")
		})
	}
}

func TestAddressChanged_ClearsFeeErrorWhenIneligible(t *testing.T) {
	p := &fakePreparer{}
	current := Errors{Amount: validate.NewAmountErrors(validate.InsufficientBalance)}
	got, err := newValidator(p).AddressChanged(context.Background(), utxosOf(1), "bad", "50", current)
	require.NoError(t, err)
	require.True(t, got.Address.Is(validate.InvalidAddress))
	require.Nil(t, got.Amount)
	require.Zero(t, p.Calls())
}

func TestAddressChanged_RechecksInsufficientBalance(t *testing.T) {
	p := &fakePreparer{}
	current := Errors{Amount: validate.NewAmountErrors(validate.InsufficientBalance)}
	got, err := newValidator(p).AddressChanged(context.Background(), utxosOf(100*coin), validAddress, "50", current)
	require.NoError(t, err)
	require.True(t, got.Valid())
	require.Equal(t, 1, p.Calls())
}

func TestAmountChanged_KeepsAddressErrors(t *testing.T) {
	p := &fakePreparer{}
	current := Errors{Address: validate.NewAddressErrors(validate.InvalidAddress)}
	got, err := newValidator(p).AmountChanged(context.Background(), utxosOf(100*coin), "50", "bad", current)
	require.NoError(t, err)
	require.Same(t, current.Address, got.Address)
	require.Nil(t, got.Amount)
	require.Zero(t, p.Calls())
}
