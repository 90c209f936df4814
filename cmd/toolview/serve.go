package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/skosovsky/toolview/toolserver"
	"github.com/skosovsky/toolview/toolserver/builtin"
)

type serveFlags struct {
	addr           string
	db             string
	timeout        time.Duration
	maxConcurrency int
	maxRows        int
	cacheSize      int
}

func newServeCmd(logger func() *slog.Logger) *cobra.Command {
	var f serveFlags
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve get_weather, execute_sql and render_chart over HTTP",
		Long: `serve publishes the tool schema document at GET /tools-schema and runs
tools at POST /tools/{name}. execute_sql runs single SELECT or WITH queries
against a read-only SQLite movies database, seeded on first use.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, f, logger())
		},
	}
	cmd.Flags().StringVar(&f.addr, "addr", ":8000", "listen address")
	cmd.Flags().StringVar(&f.db, "db", builtin.MemoryDB, "SQLite database path")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 30*time.Second, "default tool timeout")
	cmd.Flags().IntVar(&f.maxConcurrency, "max-concurrency", 16, "maximum concurrent tool calls (0 = unlimited)")
	cmd.Flags().IntVar(&f.maxRows, "max-rows", 1000, "maximum rows returned by execute_sql")
	cmd.Flags().IntVar(&f.cacheSize, "cache-size", 128, "number of query results kept for render_chart")
	return cmd
}

// app is a ready tool server.
type app struct {
	reg     *toolserver.Registry
	handler http.Handler
	close   func() error
}

func newApp(ctx context.Context, f serveFlags, logger *slog.Logger) (*app, error) {
	db, err := builtin.OpenMovies(ctx, f.db)
	if err != nil {
		return nil, err
	}
	reg := toolserver.NewRegistry(
		toolserver.WithDefaultTimeout(f.timeout),
		toolserver.WithMaxConcurrency(f.maxConcurrency),
		toolserver.WithRecoverPanics(true),
		toolserver.WithLogger(logger),
	)
	err = builtin.Register(reg, db,
		builtin.WithMaxRows(f.maxRows),
		builtin.WithCacheSize(f.cacheSize),
		builtin.WithLogger(logger),
	)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	reg.Use(toolserver.WithLogging(logger), toolserver.WithOutputCheck())
	return &app{reg: reg, handler: toolserver.Handler(reg, logger), close: db.Close}, nil
}

func serve(ctx context.Context, f serveFlags, logger *slog.Logger) error {
	a, err := newApp(ctx, f, logger)
	if err != nil {
		return err
	}
	defer func() { _ = a.close() }()

	ln, err := net.Listen("tcp", f.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", f.addr, err)
	}
	return serveOn(ctx, ln, a, logger)
}

// serveOn serves a on ln until ctx is done, then drains in-flight calls.
// Request contexts do not derive from ctx, so a signal does not cancel them.
func serveOn(ctx context.Context, ln net.Listener, a *app, logger *slog.Logger) error {
	srv := &http.Server{
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	logger.Info("serving tools", "addr", ln.Addr().String(), "tools", a.reg.Names())

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	if err := a.reg.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown registry: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
