// Package main provides the entry point for the svl-lsp language server.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/timothyrenner/svl/lsp"
)

var version = "dev"

// LevelTrace is a custom log level below debug for verbose tracing.
const LevelTrace = slog.Level(-8)

// isCleanShutdown checks if an error represents a normal client disconnect.
// LSP clients commonly close stdio on exit, which should not be reported as fatal.
func isCleanShutdown(err error) bool {
	if errors.Is(err, io.EOF) {
		return true
	}
	if errors.Is(err, os.ErrClosed) {
		return true
	}
	errStr := err.Error()
	if strings.Contains(errStr, "broken pipe") || strings.Contains(errStr, "EPIPE") {
		return true
	}
	return false
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "svl-lsp: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("svl-lsp", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		logLevel = fs.String("log-level", "info", "log level: error|warn|info|debug|trace")
		logFile  = fs.String("log-file", "", "log file path (empty to log to stderr)")
		showVer  = fs.Bool("version", false, "print version and exit")
		_        = fs.Bool("stdio", false, "use stdio transport (default, accepted for VS Code compatibility)")
	)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: svl-lsp [options]\n\n")
		fmt.Fprintf(os.Stderr, "SVL Language Server Protocol implementation.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.SetOutput(os.Stderr)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		fs.Usage()
		return fmt.Errorf("parse flags: %w", err)
	}

	if *showVer {
		fmt.Printf("svl-lsp %s\n", version)
		return nil
	}

	logger, cleanup, err := setupLogger(*logLevel, *logFile)
	if err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}
	defer cleanup()

	logger.Info("starting svl-lsp",
		slog.String("version", version),
		slog.String("log_level", *logLevel),
	)

	server := lsp.NewServer(logger)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() { errCh <- server.RunStdio() }()

	logger.Info("running on stdio")

	select {
	case err := <-errCh:
		if err != nil {
			if isCleanShutdown(err) {
				logger.Debug("client closed connection")
			} else {
				return fmt.Errorf("run server: %w", err)
			}
		}
		logger.Info("server shutdown complete")
		return nil
	case sig := <-sigCh:
		logger.Info("received signal, shutting down", slog.String("signal", sig.String()))
		server.Shutdown()
		if err := server.Close(); err != nil {
			logger.Warn("error closing connection", slog.String("error", err.Error()))
		}

		if err := os.Stdin.Close(); err != nil {
			logger.Debug("error closing stdin", slog.String("error", err.Error()))
		}

		select {
		case err := <-errCh:
			if err != nil {
				logger.Debug("RunStdio returned after close", slog.String("error", err.Error()))
			}
		case <-time.After(5 * time.Second):
			logger.Warn("shutdown timed out, forcing exit")
		}

		logger.Info("server shutdown complete")
		return nil
	}
}

func setupLogger(level, logFile string) (*slog.Logger, func(), error) {
	var slogLevel slog.Level
	switch level {
	case "error":
		slogLevel = slog.LevelError
	case "warn":
		slogLevel = slog.LevelWarn
	case "info":
		slogLevel = slog.LevelInfo
	case "debug":
		slogLevel = slog.LevelDebug
	case "trace":
		slogLevel = LevelTrace
	default:
		return nil, nil, fmt.Errorf("invalid log level: %q", level)
	}

	var w io.Writer
	var cleanup func()

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
		cleanup = func() { _ = f.Close() }
	} else {
		w = os.Stderr
		cleanup = func() {}
	}

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     slogLevel,
		AddSource: true,
	})

	return slog.New(handler), cleanup, nil
}
