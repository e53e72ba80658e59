package tx

import "github.com/Klingon-tech/klingnet-wallet/pkg/types"

// Builder assembles a candidate transaction from selected inputs and the
// payment outputs.
type Builder struct {
	tx *Transaction
}

// NewBuilder returns a builder for a version 1 transaction.
func NewBuilder() *Builder {
	return &Builder{tx: &Transaction{Version: 1}}
}

// AddInput spends prevOut.
func (b *Builder) AddInput(prevOut types.Outpoint) *Builder {
	b.tx.Inputs = append(b.tx.Inputs, Input{PrevOut: prevOut})
	return b
}

// AddOutput pays value to addr.
func (b *Builder) AddOutput(value uint64, addr types.Address) *Builder {
	b.tx.Outputs = append(b.tx.Outputs, Output{Value: value, Address: addr})
	return b
}

// AddChange returns value to addr. A zero change is dropped so that exact
// spends produce a single output.
func (b *Builder) AddChange(value uint64, addr types.Address) *Builder {
	if value == 0 {
		return b
	}
	return b.AddOutput(value, addr)
}

// Build returns the transaction. It is not validated.
func (b *Builder) Build() *Transaction {
	return b.tx
}
