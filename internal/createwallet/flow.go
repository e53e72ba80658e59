// Package createwallet drives wallet creation: form validation, the
// mnemonic explanation step and the hand-off to the step that shows it.
package createwallet

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Klingon-tech/klingnet-wallet/internal/validate"
	"github.com/Klingon-tech/klingnet-wallet/internal/wallet"
)

// Flow errors.
var (
	ErrInvalidForm = errors.New("wallet form is invalid")
	ErrNoFormData  = errors.New("wallet form not submitted")
)

// FormData is the submitted wallet form.
type FormData struct {
	Name                 string
	Password             string
	PasswordConfirmation string
}

// MnemonicShowParams is handed to the step that displays the new
// recovery phrase.
type MnemonicShowParams struct {
	Name     string
	Password string
	Mnemonic string
}

// Flow holds create-wallet state between steps.
type Flow struct {
	mu              sync.Mutex
	formData        *FormData
	showExplanation bool
	generate        func() (string, error)
}

// NewFlow creates a flow generating 15-word mnemonics.
func NewFlow() *Flow {
	return &Flow{generate: wallet.GenerateMnemonic}
}

// Submit validates data, stores it and shows the mnemonic explanation.
// On validation failure nothing changes and the field errors are returned
// together with ErrInvalidForm.
func (f *Flow) Submit(data FormData) (validate.WalletFormErrors, error) {
	errs := validate.ValidateWalletForm(data.Name, data.Password, data.PasswordConfirmation)
	if !errs.Valid() {
		return errs, ErrInvalidForm
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.formData = &data
	f.showExplanation = true
	return errs, nil
}

// ExplanationVisible reports whether the mnemonic explanation is shown.
func (f *Flow) ExplanationVisible() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.showExplanation
}

// HideExplanation closes the explanation and keeps the form data.
func (f *Flow) HideExplanation() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.showExplanation = false
}

// Confirm consumes the stored form data and generates the recovery phrase.
func (f *Flow) Confirm() (*MnemonicShowParams, error) {
	f.mu.Lock()
	data := f.formData
	f.formData = nil
	f.showExplanation = false
	f.mu.Unlock()

	if data == nil {
		return nil, ErrNoFormData
	}
	mnemonic, err := f.generate()
	if err != nil {
		return nil, fmt.Errorf("generate mnemonic: %w", err)
	}
	return &MnemonicShowParams{
		Name:     data.Name,
		Password: data.Password,
		Mnemonic: mnemonic,
	}, nil
}
