package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nvidaurre/swaprouter/business/intent"
	"github.com/nvidaurre/swaprouter/business/portfolio"
	"github.com/nvidaurre/swaprouter/business/router"
	"github.com/nvidaurre/swaprouter/business/signing"
	"github.com/nvidaurre/swaprouter/business/swap"
	"github.com/nvidaurre/swaprouter/internal/config"
	"github.com/nvidaurre/swaprouter/internal/logger"
	"github.com/nvidaurre/swaprouter/internal/monolith"
)

var configPath string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "swaprouter",
		Short:         "Multi-protocol swap quote and order router",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to configuration file")

	root.AddCommand(
		newServeCmd(),
		newQuoteCmd(),
		newRoutesCmd(),
		newStatusCmd(),
		newVersionCmd(),
	)
	return root
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()
	return ctx, cancel
}

// bootstrap loads config, builds the logger, and starts the monolith with
// every business module registered.
func bootstrap(ctx context.Context) (*config.Config, *logger.Logger, *monolith.App, []monolith.Module, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(os.Stderr, logger.ParseLevel(cfg.App.LogLevel), cfg.App.Name, nil)

	mono, err := monolith.New(cfg, log)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("creating application container: %w", err)
	}

	modules := []monolith.Module{
		&swap.Module{},
		&intent.Module{},
		&signing.Module{},   // depends on intent for submission
		&router.Module{},    // depends on swap and intent
		&portfolio.Module{}, // depends on swap for prices
	}
	if err := mono.RegisterModules(modules...); err != nil {
		mono.Close()
		return nil, nil, nil, nil, fmt.Errorf("registering modules: %w", err)
	}
	if err := mono.StartModules(ctx, modules...); err != nil {
		mono.Close()
		return nil, nil, nil, nil, fmt.Errorf("starting modules: %w", err)
	}

	return cfg, log, mono, modules, nil
}
