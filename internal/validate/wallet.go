package validate

import (
	"strings"
	"unicode/utf8"
)

// Wallet form limits.
const (
	MaxWalletNameLength = 40
	MinPasswordLength   = 10
)

// FieldErrors reports why a wallet form field is not acceptable.
type FieldErrors struct {
	Code Code `json:"code"`
}

// WalletFormErrors holds per-field results of ValidateWalletForm.
type WalletFormErrors struct {
	Name                 *FieldErrors `json:"name,omitempty"`
	Password             *FieldErrors `json:"password,omitempty"`
	PasswordConfirmation *FieldErrors `json:"passwordConfirmation,omitempty"`
}

// Valid reports whether every field passed.
func (e WalletFormErrors) Valid() bool {
	return e.Name == nil && e.Password == nil && e.PasswordConfirmation == nil
}

// ValidateWalletName requires a non-blank name of at most
// MaxWalletNameLength characters.
func ValidateWalletName(name string) *FieldErrors {
	s := strings.TrimSpace(name)
	if s == "" {
		return &FieldErrors{Code: NameRequired}
	}
	if utf8.RuneCountInString(s) > MaxWalletNameLength {
		return &FieldErrors{Code: NameTooLong}
	}
	return nil
}

// ValidatePassword requires at least MinPasswordLength characters.
func ValidatePassword(password string) *FieldErrors {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return &FieldErrors{Code: PasswordTooShort}
	}
	return nil
}

// ValidatePasswordConfirmation requires confirmation to equal password.
func ValidatePasswordConfirmation(password, confirmation string) *FieldErrors {
	if password != confirmation {
		return &FieldErrors{Code: PasswordMismatch}
	}
	return nil
}

// ValidateWalletForm runs every wallet form validator.
func ValidateWalletForm(name, password, confirmation string) WalletFormErrors {
	return WalletFormErrors{
		Name:                 ValidateWalletName(name),
		Password:             ValidatePassword(password),
		PasswordConfirmation: ValidatePasswordConfirmation(password, confirmation),
	}
}
