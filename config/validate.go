package config

import (
	"fmt"
	"net/url"
	"strings"
)

// MaxFeeRate caps the configured fee rate; anything larger is almost
// certainly a unit mistake (coins instead of base units).
const MaxFeeRate uint64 = 10 * MilliCoin

// Validate checks runtime client config for obvious operator mistakes.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if cfg.Network != Mainnet && cfg.Network != Testnet {
		return fmt.Errorf("network must be %q or %q", Mainnet, Testnet)
	}

	endpoint := strings.TrimSpace(cfg.RPC.Endpoint)
	if endpoint == "" {
		return fmt.Errorf("rpc.endpoint is required")
	}
	u, err := url.Parse(endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("rpc.endpoint must be an http(s) URL, got %q", endpoint)
	}
	cfg.RPC.Endpoint = endpoint
	if cfg.RPC.Timeout < 0 {
		return fmt.Errorf("rpc.timeout must not be negative")
	}

	if cfg.Send.FeeRate == 0 {
		return fmt.Errorf("send.feerate must be positive")
	}
	if cfg.Send.FeeRate > MaxFeeRate {
		return fmt.Errorf("send.feerate %d exceeds max %d", cfg.Send.FeeRate, MaxFeeRate)
	}

	switch cfg.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn, or error")
	}

	if cfg.Debug.PrefillForms && (cfg.Debug.SendAddress == "" || cfg.Debug.SendAmount == "") {
		return fmt.Errorf("debug.prefill requires debug.address and debug.amount")
	}

	return nil
}
