package types

import (
	"bytes"
	"cmp"
	"fmt"
)

// Outpoint names an output by the ID of its transaction and its position.
type Outpoint struct {
	TxID  Hash   `json:"txid"`
	Index uint32 `json:"index"`
}

// IsZero reports whether o is the zero outpoint.
func (o Outpoint) IsZero() bool {
	return o == Outpoint{}
}

// Compare orders outpoints by transaction ID, then index.
func (o Outpoint) Compare(other Outpoint) int {
	if c := bytes.Compare(o.TxID[:], other.TxID[:]); c != 0 {
		return c
	}
	return cmp.Compare(o.Index, other.Index)
}

func (o Outpoint) String() string {
	return fmt.Sprintf("%s:%d", o.TxID, o.Index)
}
