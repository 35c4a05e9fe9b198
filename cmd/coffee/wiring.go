package main

import (
	"context"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/LeonardoBeccarini/coffee_forecast/internal/services/exporter"
	"github.com/LeonardoBeccarini/coffee_forecast/internal/services/forecast"
	"github.com/LeonardoBeccarini/coffee_forecast/pkg/rabbitmq"
)

// openExporter grants the configured export directory. Without a usable
// directory every export fails with a permission error.
func openExporter() (*exporter.Exporter, func()) {
	if cfg.ExportDir == "" {
		logger.Warn("no export directory configured")
		return exporter.New(nil, logger), func() {}
	}
	st, err := exporter.OpenDir(cfg.ExportDir)
	if err != nil {
		logger.Warn("export directory unavailable", zap.String("dir", cfg.ExportDir), zap.Error(err))
		return exporter.New(nil, logger), func() {}
	}
	return exporter.New(st, logger), func() { _ = st.Close() }
}

// openNotifier connects to the broker when one is configured.
func openNotifier(ctx context.Context) (forecast.Notifier, mqtt.Client) {
	if !cfg.Rabbit.Enabled() {
		return forecast.NopNotifier{}, nil
	}
	client, err := rabbitmq.NewRabbitMQConn(ctx, &cfg.Rabbit, logger)
	if err != nil {
		logger.Warn("events disabled", zap.Error(err))
		return forecast.NopNotifier{}, nil
	}
	return forecast.NewEventNotifier(rabbitmq.NewPublisher(client), cfg.TopicPrefix, logger), client
}
