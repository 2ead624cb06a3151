package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"home_bills/internal/handlers"
	"home_bills/internal/logger"
	"home_bills/internal/metrics"
	"home_bills/internal/publisher"
	"home_bills/internal/server"
	"home_bills/internal/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the webhook and the admin API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.Get(cfg.Log.Level, cfg.Log.Encoding)
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b, err := openBackend(ctx, cfg, log)
	if err != nil {
		log.Fatalw("failed to open storage", "err", err)
	}
	defer b.close(log)

	m := metrics.New(prometheus.DefaultRegisterer)

	var pub service.BillPublisher
	if cfg.MQTT.Enabled {
		p, err := publisher.New(cfg.MQTT)
		if err != nil {
			log.Fatalw("failed to connect to mqtt", "broker", cfg.MQTT.Broker, "err", err)
		}
		defer p.Close()
		pub = p
	}

	services, err := service.NewService(b.repos, service.Options{
		Rates:      b.rates,
		Clock:      service.SystemClock,
		Publisher:  pub,
		QueueSize:  cfg.Writeback.QueueSize,
		SigningKey: cfg.Auth.SigningKey,
		TokenTTL:   cfg.Auth.TokenTTL,
		Metrics:    m,
		Log:        log,
	})
	if err != nil {
		log.Fatalw("failed to build services", "err", err)
	}

	go services.Writeback.Run(ctx)

	srv := server.New(cfg.Port, handlers.NewHandler(services, m, log).InitRoutes())
	go func() {
		log.Infow("http_server_started", "addr", srv.Addr())
		if err := srv.Run(); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()

	waitForShutdown(srv, cancel, services.Writeback, log)
	return nil
}

// waitForShutdown stops the HTTP server first so no new bills are queued, then lets the
// write-back worker drain.
func waitForShutdown(srv *server.Server, cancel context.CancelFunc, wb service.Writeback, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}

	cancel()
	wb.Wait()
	log.Infow("writeback_drained")
}
