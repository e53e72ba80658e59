// Package config handles wallet client configuration.
//
// Configuration is split into two categories:
//   - Ledger constants: fixed by the network, shared by every client
//   - Client settings: runtime configuration, can vary per install
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// NetworkType identifies mainnet or testnet.
type NetworkType string

const (
	Mainnet NetworkType = "mainnet"
	Testnet NetworkType = "testnet"
)

// Ledger fixed-point convention. Amounts are entered in coins and
// handled internally as integer base units.
const (
	Decimals  = 6
	Coin      = 1_000_000 // 10^6 base units per coin
	MilliCoin = 1_000     // 10^3
)

// =============================================================================
// Client Configuration (runtime, per-install settings)
// =============================================================================

// Config holds wallet client runtime configuration.
type Config struct {
	// Core
	Network NetworkType `conf:"network"`
	DataDir string      `conf:"datadir"`

	// Node RPC endpoint the fetchers talk to
	RPC RPCConfig

	// Send form
	Send SendConfig

	// Debug helpers for manual testing
	Debug DebugConfig

	// Logging
	Log LogConfig

	// Metrics
	Metrics MetricsConfig
}

// RPCConfig holds node RPC client settings.
type RPCConfig struct {
	Endpoint string        `conf:"rpc.endpoint"`
	Timeout  time.Duration `conf:"rpc.timeout"`
}

// SendConfig holds settings used when preparing candidate transactions.
type SendConfig struct {
	FeeRate       uint64 `conf:"send.feerate"`       // Base units per byte.
	ChangeAddress string `conf:"send.changeaddress"` // Empty = address of the first input.
}

// DebugConfig seeds the send form for manual testing.
type DebugConfig struct {
	PrefillForms bool   `conf:"debug.prefill"`
	SendAddress  string `conf:"debug.address"`
	SendAmount   string `conf:"debug.amount"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `conf:"log.level"`
	File  string `conf:"log.file"`
	JSON  bool   `conf:"log.json"`
}

// MetricsConfig holds prometheus settings.
type MetricsConfig struct {
	Enabled bool   `conf:"metrics.enabled"`
	Addr    string `conf:"metrics.addr"`
}

// =============================================================================
// Directory helpers
// =============================================================================

// DefaultDataDir returns the platform-specific default data directory.
//
//	Linux:   ~/.klingnet-wallet
//	macOS:   ~/Library/Application Support/KlingnetWallet
//	Windows: %APPDATA%\KlingnetWallet
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".klingnet-wallet"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "KlingnetWallet")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, "KlingnetWallet")
		}
		return filepath.Join(home, "AppData", "Roaming", "KlingnetWallet")
	default:
		return filepath.Join(home, ".klingnet-wallet")
	}
}

// ConfigFile returns the config file path.
func (c *Config) ConfigFile() string {
	return filepath.Join(c.DataDir, "wallet.conf")
}
