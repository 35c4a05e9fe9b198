package forecast

import (
	"context"
	"net/http"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/sony/gobreaker"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the gRPC health service name of the forecast server.
const ServiceName = "coffee.forecast"

// BreakerStater exposes the prediction client's circuit breaker.
type BreakerStater interface {
	BreakerState() gobreaker.State
}

// Health reports on the prediction breaker and the event broker.
type Health struct {
	breaker BreakerStater
	broker  mqtt.Client // nil when events are disabled
}

func NewHealth(breaker BreakerStater, broker mqtt.Client) *Health {
	return &Health{breaker: breaker, broker: broker}
}

type healthStatus struct {
	Status          string `json:"status"`
	Breaker         string `json:"breaker"`
	BrokerEnabled   bool   `json:"broker_enabled"`
	BrokerConnected bool   `json:"broker_connected"`
}

func (h *Health) status() healthStatus {
	st := healthStatus{Breaker: "closed"}
	if h.breaker != nil {
		st.Breaker = h.breaker.BreakerState().String()
	}
	st.BrokerEnabled = h.broker != nil
	st.BrokerConnected = h.broker != nil && h.broker.IsConnectionOpen()

	switch {
	case st.Breaker == gobreaker.StateOpen.String():
		st.Status = "degraded"
	case st.BrokerEnabled && !st.BrokerConnected:
		st.Status = "degraded"
	default:
		st.Status = "ok"
	}
	return st
}

// Ready is false while the prediction breaker is open.
func (h *Health) Ready() bool {
	return h.breaker == nil || h.breaker.BreakerState() != gobreaker.StateOpen
}

// ServeHealthz always answers 200 with the component status.
func (h *Health) ServeHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.status())
}

// ServeReadyz answers 503 while submissions cannot succeed.
func (h *Health) ServeReadyz(w http.ResponseWriter, _ *http.Request) {
	ready := h.Ready()
	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]bool{"ready": ready})
}

func (h *Health) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.ServeHealthz)
	mux.HandleFunc("GET /readyz", h.ServeReadyz)
}

// Sync mirrors readiness into a gRPC health server every interval until ctx
// is done.
func (h *Health) Sync(ctx context.Context, srv *health.Server, interval time.Duration) {
	set := func() {
		st := healthpb.HealthCheckResponse_SERVING
		if !h.Ready() {
			st = healthpb.HealthCheckResponse_NOT_SERVING
		}
		srv.SetServingStatus(ServiceName, st)
		srv.SetServingStatus("", st)
	}
	set()

	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			srv.Shutdown()
			return
		case <-t.C:
			set()
		}
	}
}
