package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/LeonardoBeccarini/coffee_forecast/internal/model/messages"
	"github.com/LeonardoBeccarini/coffee_forecast/internal/services/history"
	"github.com/LeonardoBeccarini/coffee_forecast/pkg/dedup"
	"github.com/LeonardoBeccarini/coffee_forecast/pkg/rabbitmq"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Store prediction events in InfluxDB and serve the latest ones",
	RunE:  runHistory,
}

func runHistory(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !cfg.Rabbit.Enabled() {
		return fmt.Errorf("history needs a broker: set RABBITMQ_HOST")
	}
	log := logger.With(zap.String("component", "history"))

	// === InfluxDB ===
	influx := influxdb2.NewClient(cfg.Influx.URL, cfg.Influx.Token)
	defer influx.Close()
	writer := history.NewWriter(influx.WriteAPIBlocking(cfg.Influx.Org, cfg.Influx.Bucket), log)
	store := history.NewInfluxStore(influx.QueryAPI(cfg.Influx.Org), cfg.Influx.Bucket)

	// === MQTT ===
	client, err := rabbitmq.NewRabbitMQConn(ctx, &cfg.Rabbit, log)
	if err != nil {
		return err
	}
	topic := messages.PredictionFilter(cfg.TopicPrefix)
	consumer := rabbitmq.NewConsumer(client, topic, log)
	handler := history.NewHandler(ctx, writer, dedup.New(10*time.Minute, 20000), log)
	svc := history.NewService(consumer, handler, log)

	// === HTTP ===
	mux := history.NewMux(
		history.NewHealth(client, writer, 2*time.Second),
		history.NewLatestHandler(store, log),
	)
	hs := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.HistoryPort),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("http listening", zap.String("addr", hs.Addr))
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", zap.Error(err))
			stop()
		}
	}()

	consumeErr := make(chan error, 1)
	go func() { consumeErr <- svc.Start(ctx) }()

	select {
	case <-ctx.Done():
	case err = <-consumeErr:
		if err != nil {
			log.Error("consumer stopped", zap.Error(err))
		}
	}
	log.Info("shutting down")

	shCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	_ = hs.Shutdown(shCtx)
	return err
}
