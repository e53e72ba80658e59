package validate

import (
	"context"
	"strings"

	"github.com/Klingon-tech/klingnet-wallet/config"
	"github.com/Klingon-tech/klingnet-wallet/pkg/types"
)

// AddressChecker is an optional remote check run after the local format
// and checksum checks pass, e.g. asking a node whether it accepts the address.
type AddressChecker interface {
	CheckAddress(ctx context.Context, addr types.Address) (bool, error)
}

// Validator validates recipient addresses for one network.
type Validator struct {
	hrp     string
	checker AddressChecker
}

// NewValidator creates an address validator for network. checker may be nil.
func NewValidator(network config.NetworkType, checker AddressChecker) *Validator {
	hrp := types.MainnetHRP
	if network == config.Testnet {
		hrp = types.TestnetHRP
	}
	return &Validator{hrp: hrp, checker: checker}
}

// ValidateAddress checks address. The returned error is non-nil only when
// ctx is done; the caller must then ignore the result.
func (v *Validator) ValidateAddress(ctx context.Context, address string) (*AddressErrors, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := strings.TrimSpace(address)
	if s == "" {
		return NewAddressErrors(AddressRequired), nil
	}

	addr, hrp, err := types.DecodeAddress(s)
	if err != nil || addr.IsZero() {
		return NewAddressErrors(InvalidAddress), nil
	}
	// Raw hex carries no network prefix.
	if hrp != "" && hrp != v.hrp {
		return NewAddressErrors(InvalidAddress), nil
	}

	if v.checker == nil {
		return nil, nil
	}
	ok, err := v.checker.CheckAddress(ctx, addr)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return NewAddressErrors(InvalidAddress), nil
	}
	if !ok {
		return NewAddressErrors(InvalidAddress), nil
	}
	return nil, nil
}
