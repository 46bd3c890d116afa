// cmd/resolve-server/main.go: HTTP and MCP server for gorecurrence
//
// Usage:
//
//	go run ./cmd/resolve-server -config resolve.yaml -addr :8080
//
// Tool call endpoint:  POST /tool
// Direct resolution:   POST /resolve
// Schema endpoint:     GET  /schema
// Health endpoint:     GET  /health
// Metrics endpoint:    GET  /metrics
// MCP (streamable):    /mcp
//
// With -mcp stdio the server speaks MCP on stdin/stdout instead of HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	recurrence "github.com/njchilds90/gorecurrence"
	"github.com/njchilds90/gorecurrence/internal/config"
	"github.com/njchilds90/gorecurrence/internal/logging"
	"github.com/njchilds90/gorecurrence/internal/mcpserver"
	"github.com/njchilds90/gorecurrence/internal/server"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "resolve-server:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "resolve.yaml", "Path to the YAML config file")
	addr := flag.String("addr", "", "Listen address (overrides config)")
	logLevel := flag.String("log-level", "", "debug, info, warn or error (overrides config)")
	mcpMode := flag.String("mcp", "", "MCP transport: http, stdio or off (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *mcpMode != "" {
		cfg.MCP = *mcpMode
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, _ := logging.ParseLevel(cfg.LogLevel)
	logger := logging.New(level)
	resolver := recurrence.NewResolver(
		recurrence.WithLogger(logger),
		recurrence.WithMaxTerms(cfg.MaxTerms),
		recurrence.WithMaxOrder(cfg.MaxOrder),
	)
	mcpSrv := mcpserver.New(resolver, logger, version)

	if cfg.MCP == config.MCPStdio {
		logger.Info("serving MCP on stdio")
		return mcpSrv.ServeStdio()
	}

	opts := server.Options{MaxBodyBytes: cfg.MaxBodyBytes, Metrics: cfg.Metrics}
	if cfg.MCP == config.MCPHTTP {
		opts.MCP = mcpSrv.HTTPHandler()
	}
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.NewHandler(resolver, logger, opts),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		logger.Info("gorecurrence server listening", "addr", cfg.Addr, "mcp", cfg.MCP, "metrics", cfg.Metrics)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("could not stop server gracefully: %w", err)
	}
	return nil
}

