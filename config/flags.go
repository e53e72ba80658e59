package config

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"
)

// Flags holds parsed command-line flags.
type Flags struct {
	// Commands
	Help bool

	// Core
	Network string
	DataDir string
	Config  string

	// RPC
	RPCEndpoint string
	RPCTimeout  time.Duration

	// Send
	FeeRate uint64

	// Logging
	LogLevel string
	LogFile  string
	LogJSON  bool

	// Metrics
	Metrics bool

	// Remaining args
	Args []string

	// Explicitly-set bool flags (for true/false overrides).
	SetLogJSON bool
	SetMetrics bool
}

// ParseFlags parses the global command-line flags that precede a subcommand.
// Parsing stops at the first positional argument, which is left in Args.
func ParseFlags(args []string, output io.Writer) (*Flags, error) {
	f := &Flags{}
	fs := flag.NewFlagSet("klingnet-wallet", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.BoolVar(&f.Help, "help", false, "Show help message")
	fs.BoolVar(&f.Help, "h", false, "Show help message (shorthand)")

	// Core
	fs.StringVar(&f.Network, "network", "", "Network type (mainnet or testnet)")
	fs.StringVar(&f.DataDir, "datadir", "", "Data directory path")
	fs.StringVar(&f.Config, "config", "", "Config file path")
	fs.StringVar(&f.Config, "c", "", "Config file path (shorthand)")

	// RPC
	fs.StringVar(&f.RPCEndpoint, "rpc", "", "Node RPC endpoint URL")
	fs.DurationVar(&f.RPCTimeout, "rpc-timeout", 0, "Node RPC HTTP timeout")

	// Send
	fs.Uint64Var(&f.FeeRate, "feerate", 0, "Fee rate in base units per byte")

	// Logging
	fs.StringVar(&f.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&f.LogFile, "log-file", "", "Log file path")
	fs.BoolVar(&f.LogJSON, "log-json", false, "Output logs as JSON")

	// Metrics
	fs.BoolVar(&f.Metrics, "metrics", false, "Serve prometheus metrics")

	fs.Usage = func() {
		fmt.Fprint(output, usageText)
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	f.SetLogJSON = isFlagSet(fs, "log-json")
	f.SetMetrics = isFlagSet(fs, "metrics")
	f.Args = fs.Args()
	return f, nil
}

// ApplyFlags applies command-line flags to a Config struct.
func ApplyFlags(cfg *Config, f *Flags) {
	if f.Network != "" {
		cfg.Network = NetworkType(f.Network)
	}
	if f.DataDir != "" {
		cfg.DataDir = f.DataDir
	}

	if f.RPCEndpoint != "" {
		cfg.RPC.Endpoint = f.RPCEndpoint
	}
	if f.RPCTimeout != 0 {
		cfg.RPC.Timeout = f.RPCTimeout
	}

	if f.FeeRate != 0 {
		cfg.Send.FeeRate = f.FeeRate
	}

	if f.LogLevel != "" {
		cfg.Log.Level = f.LogLevel
	}
	if f.LogFile != "" {
		cfg.Log.File = f.LogFile
	}
	if f.SetLogJSON {
		cfg.Log.JSON = f.LogJSON
	}

	if f.SetMetrics {
		cfg.Metrics.Enabled = f.Metrics
	}
}

// Load builds the effective configuration: network defaults, then the
// config file, then flags. The result is validated.
func Load(f *Flags) (*Config, error) {
	network := Mainnet
	if f.Network != "" {
		network = NetworkType(f.Network)
	}
	cfg := Default(network)
	if f.DataDir != "" {
		cfg.DataDir = f.DataDir
	}

	path := f.Config
	if path == "" {
		path = cfg.ConfigFile()
	}
	values, err := LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config file: %w", err)
	}
	if err := ApplyFileConfig(cfg, values); err != nil {
		return nil, err
	}

	ApplyFlags(cfg, f)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// isFlagSet checks if a flag was explicitly set.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

var usageText = strings.TrimLeft(`
Klingnet Wallet - light wallet client

Usage:
  klingnet-wallet [options] <command> [args]

Commands:
  send-check   Validate a send form against the wallet's UTXOs
  balance      Show available, pending and UTXO balances
  create       Walk through wallet creation and print the mnemonic
  init-config  Write a default config file to <datadir>/wallet.conf

Options:
  --network       Network type: mainnet (default) or testnet
  --datadir       Data directory (default: ~/.klingnet-wallet)
  --config, -c    Config file path (default: <datadir>/wallet.conf)
  --rpc           Node RPC endpoint (mainnet: http://127.0.0.1:8545)
  --rpc-timeout   Node RPC HTTP timeout (default: 10s)
  --feerate       Fee rate in base units per byte (default: 10)
  --log-level     Log level: debug, info (default), warn, error
  --log-file      Also write JSON logs to this file
  --log-json      Output logs as JSON
  --metrics       Serve prometheus metrics on metrics.addr
`, "\n")

// UsageText returns the command-line help text.
func UsageText() string {
	return usageText
}
