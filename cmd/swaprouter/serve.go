package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	intentDI "github.com/nvidaurre/swaprouter/business/intent/di"
	portfolioDI "github.com/nvidaurre/swaprouter/business/portfolio/di"
	routerDI "github.com/nvidaurre/swaprouter/business/router/di"
	signingDI "github.com/nvidaurre/swaprouter/business/signing/di"
	swapDI "github.com/nvidaurre/swaprouter/business/swap/di"
	"github.com/nvidaurre/swaprouter/internal/apm"
	"github.com/nvidaurre/swaprouter/internal/gateway"
	"github.com/nvidaurre/swaprouter/internal/health"
	"github.com/nvidaurre/swaprouter/internal/metrics"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP gateway",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()
			return serve(ctx)
		},
	}
}

func serve(ctx context.Context) error {
	cfg, log, mono, _, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer mono.Close()

	// Observability, when enabled
	var traceProvider apm.TraceProvider
	if cfg.Telemetry.Enabled {
		traceProvider, err = apm.NewTraceProvider(cfg.Telemetry.ServiceName,
			apm.WithOTLPGRPC(cfg.Telemetry.OTLPEndpoint, nil))
		if err != nil {
			log.Warn(ctx, "tracing disabled", "error", err)
			traceProvider = apm.NewEmptyTraceProvider()
		}

		if _, err := metrics.NewMetricProvider(
			metrics.WithServiceName(cfg.Telemetry.ServiceName),
			metrics.WithPrometheus(),
		); err != nil {
			log.Warn(ctx, "metrics disabled", "error", err)
		} else {
			port := cfg.Telemetry.PrometheusPort
			if port == 0 {
				port = 9090
			}
			go func() {
				if err := metrics.ServePrometheusMetrics(port); err != nil {
					log.Warn(ctx, "prometheus server stopped", "error", err)
				}
			}()
			log.Info(ctx, "prometheus metrics server started", "port", port)
		}
	} else {
		traceProvider = apm.NewEmptyTraceProvider()
	}
	defer traceProvider.Stop()

	// Health endpoints on a separate port
	healthPort := cfg.Telemetry.HealthPort
	if healthPort == 0 {
		healthPort = 8081
	}
	healthServer := health.NewServer(healthPort, version)
	if err := healthServer.Start(); err != nil {
		log.Warn(ctx, "failed to start health server", "error", err)
	} else {
		log.Info(ctx, "health server started", "port", healthPort)
	}
	defer healthServer.Stop(ctx)

	services := mono.Services()
	gw := gateway.NewServer(cfg.Server, gateway.Services{
		Swap:      swapDI.GetSwapService(services),
		Intent:    intentDI.GetIntentService(services),
		Signing:   signingDI.GetSigningService(services),
		Router:    routerDI.GetRouterService(services),
		Portfolio: portfolioDI.GetPortfolioService(services),
	}, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- gw.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info(ctx, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return gw.Stop(shutdownCtx)
}
