package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/LeonardoBeccarini/coffee_forecast/internal/services/forecast"
	"github.com/LeonardoBeccarini/coffee_forecast/internal/services/predictor"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the prediction sessions over HTTP with gRPC health",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := predictor.NewClient(cfg.PredictorConfig(), logger)
	exp, closeExp := openExporter()
	defer closeExp()
	notifier, broker := openNotifier(ctx)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	svc := forecast.NewService(forecast.Options{
		Predictor: client,
		Exporter:  exp,
		Notifier:  notifier,
		Metrics:   forecast.NewMetrics(reg),
		Timeout:   cfg.PredictTimeout(),
		Logger:    logger,
	})

	mux := http.NewServeMux()
	forecast.NewAPI(svc, logger).Register(mux)
	hc := forecast.NewHealth(client, broker)
	hc.Register(mux)
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	hs := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.HTTPPort),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("http listening", zap.String("addr", hs.Addr))
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", zap.Error(err))
			stop()
		}
	}()

	// ---- gRPC health ----
	lis, err := net.Listen("tcp", ":"+strconv.Itoa(cfg.GRPCPort))
	if err != nil {
		return err
	}
	grpcServer := grpc.NewServer()
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthSrv)
	go hc.Sync(ctx, healthSrv, 5*time.Second)
	go func() {
		logger.Info("grpc health listening", zap.String("addr", lis.Addr().String()))
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("grpc serve error", zap.Error(err))
		}
	}()

	// ---- idle sessions ----
	go func() {
		t := time.NewTicker(time.Minute)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				svc.ExpireSessions(cfg.SessionTTL())
			}
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	_ = hs.Shutdown(shCtx)
	grpcServer.GracefulStop()
	return nil
}
