package send

import (
	"context"

	"github.com/Klingon-tech/klingnet-wallet/internal/validate"
	"github.com/Klingon-tech/klingnet-wallet/internal/wallet"
)

// Errors is the validation state of the whole form. The form is valid
// when both fields are nil.
type Errors struct {
	Address *validate.AddressErrors `json:"address"`
	Amount  *validate.AmountErrors  `json:"amount"`
}

// Valid reports whether neither field has an error.
func (e Errors) Valid() bool {
	return e.Address == nil && e.Amount == nil
}

// InitialErrors is the state of an untouched form.
func InitialErrors() Errors {
	return Errors{
		Address: validate.NewAddressErrors(validate.AddressRequired),
		Amount:  validate.NewAmountErrors(validate.AmountRequired),
	}
}

// AddressValidator validates a recipient address. *validate.Validator
// satisfies it.
type AddressValidator interface {
	ValidateAddress(ctx context.Context, address string) (*validate.AddressErrors, error)
}

// ShouldValidateFee reports whether the fee check is worth running: UTXOs
// are known, the address is valid and the amount either is valid or only
// failed the previous fee check.
func ShouldValidateFee(utxos []wallet.UTXO, addressErrors *validate.AddressErrors, amountErrors *validate.AmountErrors) bool {
	return utxos != nil &&
		addressErrors == nil &&
		(amountErrors == nil || amountErrors.Is(validate.InsufficientBalance))
}

// ClearFeeErrors drops an InsufficientBalance error and keeps any other.
func ClearFeeErrors(amountErrors *validate.AmountErrors) *validate.AmountErrors {
	if amountErrors.Is(validate.InsufficientBalance) {
		return nil
	}
	return amountErrors
}

// Validator runs the form validation passes.
type Validator struct {
	addresses AddressValidator
	fees      *FeeEstimator
}

// NewValidator creates a form validator.
func NewValidator(addresses AddressValidator, fees *FeeEstimator) *Validator {
	return &Validator{addresses: addresses, fees: fees}
}

// Validate validates both fields and, when eligible, the fee.
func (v *Validator) Validate(ctx context.Context, utxos []wallet.UTXO, address, amount string) (Errors, error) {
	addressErrors, err := v.addresses.ValidateAddress(ctx, address)
	if err != nil {
		return Errors{}, err
	}
	amountErrors := validate.ValidateAmount(amount)

	var feeErrors *validate.AmountErrors
	if ShouldValidateFee(utxos, addressErrors, amountErrors) {
		if feeErrors, err = v.fees.ValidateFee(ctx, utxos, address, amount); err != nil {
			return Errors{}, err
		}
	}

	result := Errors{Address: addressErrors, Amount: amountErrors}
	if result.Amount == nil {
		result.Amount = feeErrors
	}
	return result, nil
}

// AddressChanged re-validates after an address edit. The amount keeps its
// current error, minus any stale fee error, unless the fee check runs.
// Eligibility is judged against the current amount error.
func (v *Validator) AddressChanged(ctx context.Context, utxos []wallet.UTXO, address, amount string, current Errors) (Errors, error) {
	addressErrors, err := v.addresses.ValidateAddress(ctx, address)
	if err != nil {
		return Errors{}, err
	}

	amountErrors := ClearFeeErrors(current.Amount)
	if ShouldValidateFee(utxos, addressErrors, current.Amount) {
		if amountErrors, err = v.fees.ValidateFee(ctx, utxos, address, amount); err != nil {
			return Errors{}, err
		}
	}
	return Errors{Address: addressErrors, Amount: amountErrors}, nil
}

// AmountChanged re-validates after an amount edit. The address error is
// carried over unchanged.
func (v *Validator) AmountChanged(ctx context.Context, utxos []wallet.UTXO, amount, address string, current Errors) (Errors, error) {
	amountErrors := validate.ValidateAmount(amount)
	if ShouldValidateFee(utxos, current.Address, amountErrors) {
		var err error
		if amountErrors, err = v.fees.ValidateFee(ctx, utxos, address, amount); err != nil {
			return Errors{}, err
		}
	}
	return Errors{Address: current.Address, Amount: amountErrors}, nil
}
