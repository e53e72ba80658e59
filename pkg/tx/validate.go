package tx

import (
	"errors"
	"fmt"

	"github.com/Klingon-tech/klingnet-wallet/pkg/types"
)

// Transaction validation errors.
var (
	ErrNoInputs        = errors.New("transaction has no inputs")
	ErrNoOutputs       = errors.New("transaction has no outputs")
	ErrDuplicateInput  = errors.New("duplicate input")
	ErrZeroValueOutput = errors.New("output has zero value")
	ErrZeroAddress     = errors.New("output pays the zero address")
)

// Validate performs structural checks that do not need chain state.
func (tx *Transaction) Validate() error {
	if len(tx.Inputs) == 0 {
		return ErrNoInputs
	}
	if len(tx.Outputs) == 0 {
		return ErrNoOutputs
	}

	seen := make(map[types.Outpoint]struct{}, len(tx.Inputs))
	for i, in := range tx.Inputs {
		if _, dup := seen[in.PrevOut]; dup {
			return fmt.Errorf("input %d: %w (%s)", i, ErrDuplicateInput, in.PrevOut)
		}
		seen[in.PrevOut] = struct{}{}
	}

	for i, out := range tx.Outputs {
		if out.Value == 0 {
			return fmt.Errorf("output %d: %w", i, ErrZeroValueOutput)
		}
		if out.Address.IsZero() {
			return fmt.Errorf("output %d: %w", i, ErrZeroAddress)
		}
	}

	if _, err := tx.TotalOutputValue(); err != nil {
		return err
	}
	return nil
}
