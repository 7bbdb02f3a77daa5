package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/OmeoneChain/omeonechain-sub000/pkg/api"
	"github.com/OmeoneChain/omeonechain-sub000/pkg/config"
	"github.com/OmeoneChain/omeonechain-sub000/pkg/event"
	"github.com/OmeoneChain/omeonechain-sub000/pkg/governance"
	"github.com/OmeoneChain/omeonechain-sub000/pkg/governance/executor"
	"github.com/OmeoneChain/omeonechain-sub000/pkg/governance/store"
	"github.com/OmeoneChain/omeonechain-sub000/pkg/governance/validator"
	"github.com/OmeoneChain/omeonechain-sub000/pkg/token"
)

func main() {
	cmd := &cobra.Command{
		Use:   "governd",
		Short: "OmeoneChain governance and staking daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
		SilenceUsage: true,
	}
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(lvl)
	return zapCfg.Build()
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	promRegistry := prometheus.NewRegistry()
	eventBus := event.NewEventBus(promRegistry, logger)
	defer eventBus.Stop()

	memStore := store.NewMemoryStore()
	service := governance.NewService(
		token.NewSystem(),
		memStore,
		memStore,
		executor.New(logger),
		validator.NewDefaultValidator(),
		governance.SystemClock{},
		eventBus,
		logger,
		&governance.Config{
			Admins:        cfg.Admins,
			MinTrustScore: cfg.MinTrustScore,
		},
	)

	server := api.NewServer(service, logger, cfg.ListenAddress, promRegistry)
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}
