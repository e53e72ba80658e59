package wallet

import (
	"strings"
	"testing"

	"github.com/tyler-smith/go-bip39"
)

const zeroVector = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func TestGenerateMnemonic_RecoveryPhraseShape(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 4; i++ {
		mnemonic, err := GenerateMnemonic()
		if err != nil {
			t.Fatalf("GenerateMnemonic() error: %v", err)
		}
		if n := len(strings.Fields(mnemonic)); n != MnemonicWords {
			t.Fatalf("word count = %d, want %d", n, MnemonicWords)
		}
		entropy, err := bip39.EntropyFromMnemonic(mnemonic)
		if err != nil {
			t.Fatalf("EntropyFromMnemonic: %v", err)
		}
		if len(entropy)*8 != MnemonicEntropyBits {
			t.Errorf("entropy = %d bits, want %d", len(entropy)*8, MnemonicEntropyBits)
		}
		if seen[mnemonic] {
			t.Errorf("duplicate mnemonic generated: %q", mnemonic)
		}
		seen[mnemonic] = true
	}
}

func TestNormalizeMnemonic(t *testing.T) {
	got := NormalizeMnemonic("  Word\tTWO\n three  ")
	if got != "word two three" {
		t.Errorf("NormalizeMnemonic = %q", got)
	}
	if NormalizeMnemonic("") != "" {
		t.Error("empty input should stay empty")
	}
}

func TestValidateMnemonic(t *testing.T) {
	generated, err := GenerateMnemonic()
	if err != nil {
		t.Fatalf("GenerateMnemonic() error: %v", err)
	}
	words := strings.Fields(generated)
	truncated := strings.Join(words[:len(words)-1], " ")

	tests := map[string]struct {
		mnemonic string
		valid    bool
	}{
		"generated":          {generated, true},
		"generated shouting": {strings.ToUpper(generated), true},
		"known vector":       {zeroVector, true},
		"messy whitespace":   {"\t" + strings.ReplaceAll(zeroVector, " ", "   ") + "\n", true},
		"truncated":          {truncated, false},
		"bad checksum":       {strings.TrimSuffix(zeroVector, "about") + "abandon", false},
		"unknown word":       {strings.Replace(zeroVector, "about", "klingon", 1), false},
		"blank":              {"   ", false},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := ValidateMnemonic(tt.mnemonic); got != tt.valid {
				t.Errorf("ValidateMnemonic(%q) = %v, want %v", tt.mnemonic, got, tt.valid)
			}
		})
	}
}
