package types

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestHash_IsZero(t *testing.T) {
	var zero Hash
	if !zero.IsZero() {
		t.Error("zero-value Hash should be zero")
	}
	if (Hash{0x01}).IsZero() {
		t.Error("non-zero Hash should not be zero")
	}
}

func TestHexToHash(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid 64 hex chars", "af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262", false},
		{"all zeros", strings.Repeat("0", 64), false},
		{"too short", "abcd", true},
		{"invalid hex character", strings.Repeat("g", 64), true},
		{"empty string", "", true},
		{"0x prefix", "0x" + strings.Repeat("ab", 32), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := HexToHash(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("HexToHash(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && h.String() != strings.TrimPrefix(tt.input, "0x") {
				t.Errorf("roundtrip: got %s, want %s", h.String(), tt.input)
			}
		})
	}
}

func TestHash_JSON(t *testing.T) {
	h := Hash{0xde, 0xad}
	data, err := json.Marshal(h)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded Hash
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded != h {
		t.Errorf("decoded = %s, want %s", decoded, h)
	}

	var empty Hash
	if err := json.Unmarshal([]byte(`""`), &empty); err != nil || !empty.IsZero() {
		t.Errorf("empty string should decode to zero hash (err=%v)", err)
	}
	if err := json.Unmarshal([]byte(`"abcd"`), &empty); err == nil {
		t.Error("short hex should fail to decode")
	}
}

func TestOutpoint_String(t *testing.T) {
	o := Outpoint{TxID: Hash{0xab}, Index: 3}
	if !strings.HasPrefix(o.String(), "ab") || !strings.HasSuffix(o.String(), ":3") {
		t.Errorf("String() = %s", o.String())
	}
	if !(Outpoint{}).IsZero() {
		t.Error("zero outpoint should be zero")
	}
}

func TestOutpoint_Compare(t *testing.T) {
	a := Outpoint{TxID: Hash{0x01}, Index: 5}
	b := Outpoint{TxID: Hash{0x01}, Index: 6}
	c := Outpoint{TxID: Hash{0x02}, Index: 0}
	if a.Compare(b) >= 0 || b.Compare(c) >= 0 || a.Compare(c) >= 0 {
		t.Errorf("expected a < b < c")
	}
	if c.Compare(a) <= 0 || a.Compare(a) != 0 {
		t.Errorf("Compare is not antisymmetric")
	}
}
