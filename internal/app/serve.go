package app

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kgrajski/neurotech-newshound/internal/audit"
	"github.com/kgrajski/neurotech-newshound/internal/cli"
	"github.com/kgrajski/neurotech-newshound/internal/dedup"
	"github.com/kgrajski/neurotech-newshound/internal/httpapi"
	"github.com/kgrajski/neurotech-newshound/internal/sources"
)

func runServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	addr := fs.String("addr", "", "Listen address (overrides HOUND_SERVE_ADDR)")
	readTimeout := fs.Duration("read-timeout", 10*time.Second, "HTTP read timeout")
	writeTimeout := fs.Duration("write-timeout", 30*time.Second, "HTTP write timeout")
	shutdownTimeout := fs.Duration("shutdown-timeout", 10*time.Second, "Graceful shutdown timeout")

	if code := parseExit(fs, args); code >= 0 {
		return code
	}

	cfg, logger, ok := boot(envLoader)
	if !ok {
		return 1
	}

	listenAddr := cfg.ServeAddr
	if *addr != "" {
		listenAddr = *addr
	}

	ledger, err := audit.Open(cfg.ResolvedAuditDBPath())
	if err != nil {
		logger.Warn().Err(err).Msg("audit ledger unavailable, run endpoints disabled")
		ledger = nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		<-sigCh
		cancel()
	}()

	srv := httpapi.NewServer(
		dedup.NewStore(cfg.ResolvedHistoryPath()),
		sources.NewStore(cfg.ResolvedRegistryPath()),
		ledger,
		logger,
		httpapi.Options{
			Addr:            listenAddr,
			ReadTimeout:     *readTimeout,
			WriteTimeout:    *writeTimeout,
			ShutdownTimeout: *shutdownTimeout,
		},
	)

	if err := srv.Start(ctx); err != nil {
		logger.Error().Err(err).Str("addr", listenAddr).Msg("server failed")
		fmt.Fprintf(os.Stderr, "Server failed: %v\n", err)
		return 1
	}
	return 0
}
