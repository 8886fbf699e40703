package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/GriffinCanCode/confine/internal/infrastructure/config"
	"github.com/GriffinCanCode/confine/internal/infrastructure/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "confine: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	port := flag.String("port", "", "Server port (overrides PORT)")
	host := flag.String("host", "", "Bind address (overrides HOST)")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error")
	dev := flag.Bool("dev", false, "Development logging")
	roots := flag.String("allowed-roots", "", "Comma-separated roots callers may open")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Flags win over file and environment, but only when given.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			cfg.Server.Port = *port
		case "host":
			cfg.Server.Host = *host
		case "log-level":
			cfg.Logging.Level = *logLevel
		case "dev":
			cfg.Logging.Development = *dev
		case "allowed-roots":
			cfg.Filesystem.AllowedRoots = splitList(*roots)
		}
	})

	srv, err := server.NewServer(cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Run()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errChan:
		return err
	}
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
