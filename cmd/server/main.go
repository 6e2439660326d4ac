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

	"github.com/gin-gonic/gin"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ganot/fete-till/internal/config"
	"github.com/ganot/fete-till/internal/countlog"
	"github.com/ganot/fete-till/internal/domain/catalog"
	"github.com/ganot/fete-till/internal/httpapi"
	"github.com/ganot/fete-till/internal/mcp"
	"github.com/ganot/fete-till/internal/sqlite"
	"github.com/ganot/fete-till/internal/till"
)

// terminateGrace lets the reply to a terminating closing count reach the client.
const terminateGrace = 250 * time.Millisecond

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	logWriter := io.Writer(os.Stdout)
	if cfg.Transport.Mode == "stdio" {
		logWriter = os.Stderr
	}
	if cfg.Log.Path != "" {
		fileWriter, err := newLogFileWriter(cfg.Log.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			defer fileWriter.Close()
			logWriter = fileWriter
		}
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := run(cfg, logger); err != nil {
		logger.Error("fete-till stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	threshold, err := cfg.Till.Threshold()
	if err != nil {
		return err
	}
	staleAfter, err := cfg.Till.StaleDuration()
	if err != nil {
		return err
	}

	if err := ensureDir(cfg.DB.Path); err != nil {
		return fmt.Errorf("prepare database path: %w", err)
	}
	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	var archive *countlog.Archive
	if cfg.Till.ArchivePath != "" {
		if err := ensureDir(cfg.Till.ArchivePath); err != nil {
			return fmt.Errorf("prepare archive path: %w", err)
		}
		archive, err = countlog.Open(cfg.Till.ArchivePath)
		if err != nil {
			return err
		}
		defer archive.Close()
	}

	tillCfg := till.Config{
		Sessions:   sqlite.NewSessionStore(db),
		Catalog:    sqlite.NewCatalogRepository(db),
		Clients:    sqlite.NewClientRepository(db),
		Sales:      sqlite.NewSaleRepository(db),
		Activity:   sqlite.NewActivityRepository(db),
		Threshold:  threshold,
		StaleAfter: staleAfter,
		Logger:     logger,
	}
	if archive != nil {
		tillCfg.Archive = archive
	}
	register := till.New(tillCfg)

	ctx := context.Background()
	if cfg.Till.MenuPath != "" {
		menu, err := catalog.LoadMenu(cfg.Till.MenuPath)
		if err != nil {
			return err
		}
		if err := register.Catalog.ApplyMenu(ctx, menu); err != nil {
			return fmt.Errorf("apply menu: %w", err)
		}
	}

	res, err := register.Startup(ctx)
	if err != nil {
		return fmt.Errorf("startup: %w", err)
	}
	logger.Info("till ready", "state", res.State, "transport", cfg.Transport.Mode)

	mcpServer := mcp.NewServer(mcp.Config{
		Till:          register,
		TransportMode: cfg.Transport.Mode,
		Logger:        logger,
	})

	if cfg.Transport.Mode == "stdio" {
		return runStdioMode(logger, mcpServer, register)
	}
	return runHTTPMode(logger, cfg.Server, mcpServer, register)
}

func runStdioMode(logger *slog.Logger, mcpServer *sdkmcp.Server, register *till.Till) error {
	logger.Info("starting stdio transport")

	ctx, cancel := shutdownContext(logger, register)
	defer cancel()

	// Run blocks until stdin closes or context is canceled
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio server: %w", err)
	}
	return nil
}

func runHTTPMode(logger *slog.Logger, cfg config.ServerConfig, mcpServer *sdkmcp.Server, register *till.Till) error {
	gin.SetMode(gin.ReleaseMode)
	router := httpapi.NewRouter(httpapi.Config{
		Till:         register,
		MCP:          mcpServer,
		AllowOrigins: cfg.CORSOrigins,
		Logger:       logger,
	})
	server := httpapi.NewServer(fmt.Sprintf("%s:%d", cfg.Host, cfg.Port), router)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", server.Addr())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	ctx, cancel := shutdownContext(logger, register)
	defer cancel()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
	return nil
}

// shutdownContext is canceled on SIGINT/SIGTERM or when a closing count
// asks the till to terminate.
func shutdownContext(logger *slog.Logger, register *till.Till) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(stop)
		select {
		case <-stop:
			logger.Info("shutting down")
		case <-register.Terminated():
			logger.Info("shutting down after closing count")
			time.Sleep(terminateGrace)
		case <-ctx.Done():
			return
		}
		cancel()
	}()
	return ctx, cancel
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

func ensureDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
