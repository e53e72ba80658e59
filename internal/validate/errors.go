// Package validate implements the synchronous and context-aware field
// validators of the send and wallet-creation forms.
//
// Validators return error values, not Go errors: a nil *AmountErrors or
// *AddressErrors means the field is valid, otherwise exactly one Code is set.
package validate

// Code names a violated validation rule.
type Code string

// Amount codes.
const (
	AmountRequired       Code = "AMOUNT_REQUIRED"
	InvalidAmount        Code = "INVALID_AMOUNT"
	TooManyDecimalPlaces Code = "TOO_MANY_DECIMAL_PLACES"
	PositiveAmount       Code = "POSITIVE_AMOUNT"
	InsufficientBalance  Code = "INSUFFICIENT_BALANCE"
)

// Address codes.
const (
	AddressRequired Code = "ADDRESS_REQUIRED"
	InvalidAddress  Code = "INVALID_ADDRESS"
)

// Wallet form codes.
const (
	NameRequired     Code = "NAME_REQUIRED"
	NameTooLong      Code = "NAME_TOO_LONG"
	PasswordTooShort Code = "PASSWORD_TOO_SHORT"
	PasswordMismatch Code = "PASSWORD_MISMATCH"
)

// AmountErrors reports why an amount is not acceptable.
type AmountErrors struct {
	Code Code `json:"code"`
}

// AddressErrors reports why an address is not acceptable.
type AddressErrors struct {
	Code Code `json:"code"`
}

// NewAmountErrors returns an AmountErrors carrying code.
func NewAmountErrors(code Code) *AmountErrors {
	return &AmountErrors{Code: code}
}

// NewAddressErrors returns an AddressErrors carrying code.
func NewAddressErrors(code Code) *AddressErrors {
	return &AddressErrors{Code: code}
}

// Is reports whether e carries code. Safe on a nil receiver.
func (e *AmountErrors) Is(code Code) bool {
	return e != nil && e.Code == code
}

// Is reports whether e carries code. Safe on a nil receiver.
func (e *AddressErrors) Is(code Code) bool {
	return e != nil && e.Code == code
}

func (e *AmountErrors) String() string {
	if e == nil {
		return "<nil>"
	}
	return string(e.Code)
}

func (e *AddressErrors) String() string {
	if e == nil {
		return "<nil>"
	}
	return string(e.Code)
}
