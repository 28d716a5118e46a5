package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"retail-ledger/internal/router"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/spf13/cobra"
)

var shutdownTimeout time.Duration

// serveCmd runs the HTTP adapter
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the counter and admin API",
	Long: `Start the HTTP API on the configured address (127.0.0.1:8080 by default).

The server drains in-flight requests on SIGINT/SIGTERM before the database
is closed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	serveCmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 15*time.Second, "Time allowed for in-flight requests on shutdown")
	rootCmd.AddCommand(serveCmd)
}

func runServe() error {
	l, err := openLedger()
	if err != nil {
		return err
	}
	slog.SetDefault(l.log)

	srv := &http.Server{
		Addr:              l.cfg.Addr(),
		Handler:           router.SetupRouter(l.cfg, l.db, l.log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	listenErr := make(chan error, 1)
	go func() {
		l.log.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
	}()

	// One operation so the listener is drained before the database goes away.
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"retail-ledger": func(ctx context.Context) error {
				l.log.Info("graceful shutdown initiated")
				err := srv.Shutdown(ctx)
				return errors.Join(err, l.Close())
			},
		},
	)

	select {
	case err := <-listenErr:
		_ = l.Close()
		return fmt.Errorf("listen on %s: %w", srv.Addr, err)
	case code := <-wait:
		l.log.Info("server stopped", "exit_code", code)
		if code != 0 {
			return fmt.Errorf("shutdown finished with exit code %d", code)
		}
		return nil
	}
}
