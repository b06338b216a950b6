package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	analyzerservice "github.com/txnlab/schedlab/api/analyzer_service"
	"github.com/txnlab/schedlab/pkg/telemetry"
)

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP analyzer service",
		RunE:  runServe,
	}
	cmd.Flags().String("listen", ":8090", "address for the analyzer HTTP API")
	cmd.Flags().Bool("telemetry", false, "enable OpenTelemetry metrics")
	cmd.Flags().Int("metrics-port", 9100, "port for the Prometheus /metrics endpoint")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	v, err := newViper(cmd)
	if err != nil {
		return err
	}
	log, err := newLogger(v)
	if err != nil {
		return err
	}
	defer log.Sync()

	tel, telShutdown, err := telemetry.New(telemetry.Config{
		Enabled:        v.GetBool("telemetry"),
		ServiceName:    "schedlab",
		PrometheusPort: v.GetInt("metrics-port"),
	})
	if err != nil {
		return err
	}

	svc, err := analyzerservice.New(
		analyzerservice.Config{ListenAddr: v.GetString("listen")},
		log, tel.Meter,
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- svc.ListenAndServe() }()

	select {
	case err = <-errCh:
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err = svc.Shutdown(shutdownCtx)
	}

	if telErr := telShutdown(context.Background()); telErr != nil {
		log.Warn("telemetry shutdown failed", zap.Error(telErr))
	}
	return err
}
