package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"retail-ledger/internal/config"
	"retail-ledger/internal/database"
	"retail-ledger/internal/logger"
	"retail-ledger/internal/store"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	// Global flags
	configPath string
	verbose    bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "retail-ledger",
	Short: "Retail Master - inventory, sales and profit ledger for a small shop",
	Long: `Retail Master keeps the shop's catalog, stock levels, customers and sales in a
local SQLite database and serves the counter and admin panels over HTTP.

Run "retail-ledger serve" to start the API, or use the other commands for
bills, reports, exports and backups straight from the terminal.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log SQL statements")
}

// ledger is what most commands need: the configuration, a migrated database
// and a store on top of it.
type ledger struct {
	cfg   *config.Config
	log   *slog.Logger
	db    *gorm.DB
	store *store.Store

	logFile io.Closer
}

func openLedger() (*ledger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Database.LogMode = true
	}

	log, closer, err := logger.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	db, err := database.Init(cfg.Database, log)
	if err != nil {
		_ = closer.Close()
		return nil, err
	}
	if err := database.Migrate(db, log); err != nil {
		_ = database.Close(db)
		_ = closer.Close()
		return nil, err
	}

	return &ledger{
		cfg:     cfg,
		log:     log,
		db:      db,
		store:   store.New(db, store.WithLogger(log)),
		logFile: closer,
	}, nil
}

func (l *ledger) Close() error {
	err := database.Close(l.db)
	if cerr := l.logFile.Close(); err == nil {
		err = cerr
	}
	return err
}

// withLedger opens the ledger for the duration of fn.
func withLedger(fn func(l *ledger) error) error {
	l, err := openLedger()
	if err != nil {
		return err
	}
	defer l.Close()
	return fn(l)
}
