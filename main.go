package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"invoice-gateway/internal/api"
	"invoice-gateway/internal/config"
	"invoice-gateway/internal/invoice"
	"invoice-gateway/internal/kafka"
	"invoice-gateway/internal/logging"
	"invoice-gateway/internal/metrics"
	"invoice-gateway/internal/transport"
	"invoice-gateway/internal/trigger"
	"invoice-gateway/internal/webhook"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.MustLoadConfig(".")

	logger := logging.GetLogger(cfg.Logs)
	metrics.Setup(cfg.Metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gateway := invoice.NewGateway(transport.NewHTTP(cfg.Greenfield, logger), logger)

	var publisher trigger.Publisher
	if cfg.Kafka.Broker.URL != "" {
		writer := kafka.NewWriter(cfg.Kafka)
		defer writer.Close()
		publisher = kafka.NewPublisher(writer, logger)
	} else {
		logger.Info("Kafka broker not configured, invoice events will not be published")
	}

	trig := trigger.New(gateway, webhook.NewHMACVerifier(cfg.Webhook.Secret), publisher, cfg.Greenfield.ServerURL, logger)
	router := api.SetupRouter(api.NewHandler(gateway, trig, cfg.Greenfield.ServerURL, logger), logger)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Starting invoice gateway", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	logger.Info("Invoice gateway stopped")
}
