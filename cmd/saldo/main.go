package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"saldo/internal/backend"
	"saldo/internal/cli"
	"saldo/internal/config"
	"saldo/internal/ledger"
	"saldo/internal/log"
)

var version = "dev"

// app carries what PersistentPreRunE resolves for the subcommands.
type app struct {
	backend string
	dbPath  string

	cfg    *config.Config
	logger *log.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "saldo",
		Short: "Personal income and expense ledger",
		Long: `saldo records incomes and expenses, keeps them in a local store and
shows the balance, totals and spending by category.

Run "saldo serve" for the web page or use the subcommands from a terminal.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.init,
	}

	root.PersistentFlags().StringVar(&a.backend, "backend", "", "storage backend ("+fmt.Sprint(backend.GetBackendTypeStrings())+"), overrides DATA_BACKEND")
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "sqlite database path, overrides SQLITE_DB_PATH")

	root.AddCommand(a.serveCmd())
	root.AddCommand(a.incomeCmd())
	root.AddCommand(a.expenseCmd())
	root.AddCommand(a.removeCmd())
	root.AddCommand(a.listCmd())
	root.AddCommand(a.summaryCmd())
	root.AddCommand(categoriesCmd())
	root.AddCommand(versionCmd())
	return root
}

func main() {
	cli.LoadEnvFile()
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}

// overrides applies the persistent flags on top of the environment.
func (a *app) overrides(cfg *config.Config) {
	if a.backend != "" {
		cfg.DataBackend = a.backend
	}
	if a.dbPath != "" {
		cfg.SQLiteDBPath = a.dbPath
	}
}

func (a *app) init(cmd *cobra.Command, _ []string) error {
	cfg, err := cli.LoadConfig(a.overrides)
	if err != nil {
		return err
	}

	logger, err := cli.SetupLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

// openStore loads the ledger from the configured backend. Callers must run
// the returned cleanup.
func (a *app) openStore(ctx context.Context) (*ledger.Store, backend.CleanupFunc, error) {
	store, cleanup, err := cli.OpenLedger(ctx, a.cfg, a.logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open storage: %w", err)
	}
	return store, cleanup, nil
}

func (a *app) closeStore(cleanup backend.CleanupFunc) {
	if err := cleanup(); err != nil {
		a.logger.Warn("Failed to close storage", log.FieldError, err)
	}
}

// noSetup skips config and logging for commands that touch no storage.
func noSetup(*cobra.Command, []string) error { return nil }

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "version",
		Short:             "Print the version",
		Args:              cobra.NoArgs,
		PersistentPreRunE: noSetup,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), "saldo "+version)
			return nil
		},
	}
}
