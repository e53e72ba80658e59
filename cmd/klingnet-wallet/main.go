// klingnet-wallet is a light wallet client: it checks send forms against a
// node's view of the wallet's UTXOs, shows balances and creates wallets.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/Klingon-tech/klingnet-wallet/config"
	"github.com/Klingon-tech/klingnet-wallet/internal/createwallet"
	klog "github.com/Klingon-tech/klingnet-wallet/internal/log"
	"github.com/Klingon-tech/klingnet-wallet/internal/metrics"
	"github.com/Klingon-tech/klingnet-wallet/internal/rpcclient"
	"github.com/Klingon-tech/klingnet-wallet/internal/selectors"
	"github.com/Klingon-tech/klingnet-wallet/internal/send"
	"github.com/Klingon-tech/klingnet-wallet/internal/state"
	"github.com/Klingon-tech/klingnet-wallet/internal/validate"
	"github.com/Klingon-tech/klingnet-wallet/internal/wallet"
	"github.com/Klingon-tech/klingnet-wallet/internal/walletsync"
	"github.com/Klingon-tech/klingnet-wallet/pkg/amount"
	"github.com/Klingon-tech/klingnet-wallet/pkg/types"
	"github.com/shopspring/decimal"
	"golang.org/x/term"
)

func main() {
	flags, err := config.ParseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}
	if flags.Help || len(flags.Args) == 0 {
		fmt.Fprint(os.Stderr, config.UsageText())
		if flags.Help {
			return
		}
		os.Exit(1)
	}

	cfg, err := config.Load(flags)
	if err != nil {
		fatal("%v", err)
	}
	if err := klog.Init(cfg.Log.Level, cfg.Log.JSON, cfg.Log.File); err != nil {
		fatal("init logger: %v", err)
	}
	if cfg.Network == config.Testnet {
		types.SetAddressHRP(types.TestnetHRP)
	} else {
		types.SetAddressHRP(types.MainnetHRP)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Metrics.Enabled {
		go func() {
			if err := metrics.Serve(ctx, cfg.Metrics.Addr); err != nil {
				klog.Error().Err(err).Str("addr", cfg.Metrics.Addr).Msg("Metrics server stopped")
			}
		}()
	}

	cmd, args := flags.Args[0], flags.Args[1:]
	switch cmd {
	case "send-check":
		cmdSendCheck(ctx, cfg, args)
	case "balance":
		cmdBalance(ctx, cfg, args)
	case "create":
		cmdCreate(args)
	case "init-config":
		cmdInitConfig(cfg, flags.Config)
	case "help":
		fmt.Fprint(os.Stderr, config.UsageText())
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		fmt.Fprint(os.Stderr, config.UsageText())
		os.Exit(1)
	}
}

// walletEnv is the wiring shared by commands that talk to a node.
type walletEnv struct {
	store   *state.Store
	fetcher *walletsync.UTXOFetcher
	history *walletsync.HistorySyncer
}

func newWalletEnv(cfg *config.Config, addresses []string) *walletEnv {
	client := rpcclient.New(rpcclient.Config{Endpoint: cfg.RPC.Endpoint, Timeout: cfg.RPC.Timeout})
	store := state.NewStore(state.StoreConfig{})
	store.SetWallet(state.Wallet{
		Name:                "cli",
		IsInitialized:       true,
		ExternalAddresses:   addresses,
		NumReceiveAddresses: len(addresses),
	})
	return &walletEnv{
		store:   store,
		fetcher: walletsync.NewUTXOFetcher(walletsync.Config{RPC: client, Store: store}),
		history: walletsync.NewHistorySyncer(walletsync.Config{RPC: client, Store: store}),
	}
}

// ── send-check ──────────────────────────────────────────────────────────

func cmdSendCheck(ctx context.Context, cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("send-check", flag.ExitOnError)
	from := fs.String("from", "", "Comma-separated wallet addresses funding the send (required)")
	to := fs.String("to", "", "Recipient address (default: debug.address when debug.prefill is on)")
	amt := fs.String("amount", "", "Amount in KGX (default: debug.amount when debug.prefill is on)")
	fs.Parse(args)

	addresses := splitList(*from)
	if len(addresses) == 0 {
		fatal("Usage: klingnet-wallet send-check --from <addr,...> --to <address> --amount <KGX>")
	}

	env := newWalletEnv(cfg, addresses)
	manager, err := wallet.NewManagerFromConfig(cfg)
	if err != nil {
		fatal("%v", err)
	}
	fees := send.NewFeeEstimator(send.FeeEstimatorConfig{Preparer: manager})
	validator := send.NewValidator(validate.NewValidator(cfg.Network, nil), fees)
	form := send.NewForm(send.FormConfig{
		Validator: validator,
		Preparer:  manager,
		Fetcher:   env.fetcher,
	})

	defer klog.Benchmark("send-check")()

	if err := form.Focus(ctx); err != nil {
		fatal("fetch utxos: %v", err)
	}
	snap := env.store.Snapshot()
	if _, err := form.Sync(ctx, snap); err != nil {
		fatal("validate: %v", err)
	}
	if err := form.Prefill(ctx, cfg.Debug); err != nil {
		fatal("%v", err)
	}
	if *to != "" || !cfg.Debug.PrefillForms {
		if _, err := form.SetAddress(ctx, *to); err != nil {
			fatal("validate address: %v", err)
		}
	}
	if *amt != "" || !cfg.Debug.PrefillForms {
		if _, err := form.SetAmount(ctx, *amt); err != nil {
			fatal("validate amount: %v", err)
		}
	}
	errs := form.Errors()

	balance := selectors.UTXOBalance(snap)
	fmt.Printf("Available: %s KGX\n", formatNull(balance))
	if !form.CanSubmit() {
		printErrors(errs)
		os.Exit(1)
	}

	params, errs, err := form.Confirm(ctx, balance)
	if err != nil {
		fatal("confirm: %v", err)
	}
	if params == nil {
		printErrors(errs)
		os.Exit(1)
	}

	data := params.TransactionData
	fmt.Printf("To:        %s\n", params.Address)
	fmt.Printf("Amount:    %s KGX\n", amount.Format(amount.FromBigInt(params.Amount)))
	fmt.Printf("Fee:       %s KGX\n", amount.Format(amount.FromBaseUnits(data.Fee)))
	fmt.Printf("Change:    %s KGX\n", amount.Format(amount.FromBaseUnits(data.Change)))
	fmt.Printf("Inputs:    %d\n", len(data.Inputs))
	fmt.Printf("Tx ID:     %s\n", data.ID)
	fmt.Printf("After tx:  %s KGX\n", amount.Format(params.BalanceAfterTx))
}

func printErrors(errs send.Errors) {
	if errs.Address != nil {
		fmt.Printf("Address:   %s\n", errs.Address.Code)
	}
	if errs.Amount != nil {
		fmt.Printf("Amount:    %s\n", errs.Amount.Code)
	}
}

// ── balance ─────────────────────────────────────────────────────────────

func cmdBalance(ctx context.Context, cfg *config.Config, args []string) {
	if len(args) < 1 {
		fatal("Usage: klingnet-wallet balance <address>...")
	}

	env := newWalletEnv(cfg, args)
	if err := env.fetcher.Fetch(ctx); err != nil {
		fatal("utxo_getByAddress: %v", err)
	}
	historyErr := env.history.Sync(ctx)

	snap := env.store.Snapshot()
	sel := selectors.New()

	fmt.Printf("Wallet:    %s\n", selectors.WalletName(snap))
	fmt.Printf("UTXOs:     %d\n", len(selectors.UTXOs(snap)))
	fmt.Printf("Spendable: %s KGX\n", formatNull(selectors.UTXOBalance(snap)))
	if historyErr != nil {
		fmt.Printf("History:   unavailable (%v)\n", selectors.LastHistorySyncError(snap))
		return
	}
	fmt.Printf("Confirmed: %s KGX\n", amount.Format(sel.AvailableAmount(snap)))
	fmt.Printf("Pending:   %s KGX\n", formatNull(sel.AmountPending(snap)))
	if sel.HasPendingOutgoingTransaction(snap) {
		fmt.Println("Outgoing transaction pending")
	}
	for _, addr := range sel.ReceiveAddresses(snap) {
		fmt.Printf("Receive:   %s\n", addr)
	}
}

// ── create ──────────────────────────────────────────────────────────────

func cmdCreate(args []string) {
	if len(args) < 1 {
		fatal("Usage: klingnet-wallet create <name>")
	}

	password, err := readPassword("Password: ")
	if err != nil {
		fatal("read password: %v", err)
	}
	confirmation, err := readPassword("Confirm password: ")
	if err != nil {
		fatal("read password: %v", err)
	}

	flow := createwallet.NewFlow()
	errs, err := flow.Submit(createwallet.FormData{
		Name:                 args[0],
		Password:             string(password),
		PasswordConfirmation: string(confirmation),
	})
	if err != nil {
		for field, fe := range map[string]*validate.FieldErrors{
			"Name":         errs.Name,
			"Password":     errs.Password,
			"Confirmation": errs.PasswordConfirmation,
		} {
			if fe != nil {
				fmt.Fprintf(os.Stderr, "%s: %s\n", field, fe.Code)
			}
		}
		os.Exit(1)
	}

	fmt.Println("Next comes your recovery phrase. Anyone who sees it")
	fmt.Println("can spend your funds. Write it down and keep it offline.")
	if !confirm("Show the recovery phrase? [y/N] ") {
		flow.HideExplanation()
		fmt.Println("Cancelled.")
		return
	}

	params, err := flow.Confirm()
	if err != nil {
		fatal("%v", err)
	}
	fmt.Printf("\nWallet:   %s\n", params.Name)
	fmt.Printf("Mnemonic: %s\n", params.Mnemonic)
}

// ── init-config ─────────────────────────────────────────────────────────

func cmdInitConfig(cfg *config.Config, path string) {
	if path == "" {
		path = cfg.ConfigFile()
	}
	if _, err := os.Stat(path); err == nil {
		fatal("config file already exists: %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		fatal("create data dir: %v", err)
	}
	if err := config.WriteDefaultConfig(path, cfg.Network); err != nil {
		fatal("write config: %v", err)
	}
	fmt.Printf("Wrote %s\n", path)
}

// ── Helpers ─────────────────────────────────────────────────────────────

func formatNull(d decimal.NullDecimal) string {
	if !d.Valid {
		return "-"
	}
	return amount.Format(d.Decimal)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func confirm(prompt string) bool {
	fmt.Fprint(os.Stderr, prompt)
	line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func readPassword(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr) // newline after hidden input
	if err != nil {
		return nil, err
	}
	return password, nil
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
