package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/hygrotrack/internal/config"
	"github.com/rpggio/hygrotrack/internal/domain/activity"
	"github.com/rpggio/hygrotrack/internal/domain/record"
	"github.com/rpggio/hygrotrack/internal/domain/standard"
	"github.com/rpggio/hygrotrack/internal/mcp"
	"github.com/rpggio/hygrotrack/internal/sqlite"
	"github.com/rpggio/hygrotrack/internal/transport"
)

var version = "dev"

const (
	shutdownTimeout   = 5 * time.Second
	mcpSessionTimeout = 30 * time.Minute
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "hygrotrack: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		return err
	}
	defer a.db.Close()

	if cfg.Transport.Mode == "stdio" {
		return a.serveStdio(ctx)
	}
	return a.serveHTTP(ctx)
}

// newLogger writes to stdout, or stderr in stdio mode where stdout carries
// the protocol. A configured log path replaces both.
func newLogger(cfg config.Config) (*slog.Logger, func(), error) {
	var w io.Writer = os.Stdout
	if cfg.Transport.Mode == "stdio" {
		w = os.Stderr
	}
	closeFn := func() {}
	if cfg.Log.Path != "" {
		f, err := openTailFile(cfg.Log.Path, maxLogBytes, keepLogBytes)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		w = f
		closeFn = func() { _ = f.Close() }
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))
	return logger, closeFn, nil
}

type app struct {
	cfg      config.Config
	logger   *slog.Logger
	db       *sqlite.DB
	apiKeys  *sqlite.APIKeyRepository
	records  *record.Service
	activity *activity.Service
	mcp      *sdkmcp.Server
}

func newApp(cfg config.Config, logger *slog.Logger) (*app, error) {
	standards, err := loadStandards(cfg.Standards.Path)
	if err != nil {
		return nil, fmt.Errorf("loading fabric standards from %s: %w", cfg.Standards.Path, err)
	}
	if err := ensureDBDir(cfg.DB.Path); err != nil {
		return nil, fmt.Errorf("preparing database path: %w", err)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	a := &app{
		cfg:     cfg,
		logger:  logger,
		db:      db,
		apiKeys: sqlite.NewAPIKeyRepository(db),
	}
	a.activity = activity.NewService(sqlite.NewActivityRepository(db), logger)
	a.records = record.NewService(sqlite.NewRecordRepository(db), a.activity, standards, logger)
	a.mcp = mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Records:  a.records,
			Activity: a.activity,
		},
		Resolver:      a.apiKeys,
		AuthEnabled:   cfg.Auth.Enabled,
		TransportMode: cfg.Transport.Mode,
		Version:       version,
		Logger:        logger,
	})
	return a, nil
}

func loadStandards(path string) (*standard.Registry, error) {
	if path == "" {
		return standard.Default(), nil
	}
	return standard.LoadFile(path)
}

// serveStdio blocks until stdin closes or ctx is canceled.
func (a *app) serveStdio(ctx context.Context) error {
	a.logger.Info("starting stdio transport", "auth", "disabled", "version", version)
	err := a.mcp.Run(ctx, &sdkmcp.StdioTransport{})
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio server: %w", err)
	}
	return nil
}

// handler serves the REST API with MCP mounted at /mcp.
func (a *app) handler() http.Handler {
	tenants := transport.StaticTenantMiddleware(mcp.DefaultTenant)
	if a.cfg.Auth.Enabled {
		tenants = transport.AuthMiddleware(a.apiKeys)
	}
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return a.mcp },
		&sdkmcp.StreamableHTTPOptions{SessionTimeout: mcpSessionTimeout},
	)
	return transport.NewServer(transport.Config{
		Services: transport.Services{
			Records:  a.records,
			Activity: a.activity,
		},
		AuthMiddleware: tenants,
		MCPHandler:     mcpHandler,
		CORSOrigins:    a.cfg.Server.CORSOrigins,
		Logger:         a.logger,
	})
}

func (a *app) serveHTTP(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           a.handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		a.logger.Info("server listening", "addr", addr, "auth", a.cfg.Auth.Enabled, "version", version)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	return ensureParentDir(path)
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
