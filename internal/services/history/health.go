package history

import (
	"encoding/json"
	"net/http"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Health reports broker connectivity and recent write errors.
type Health struct {
	broker   mqtt.Client
	writer   *Writer
	minError time.Duration
}

func NewHealth(broker mqtt.Client, writer *Writer, minOkErrorAge time.Duration) *Health {
	return &Health{broker: broker, writer: writer, minError: minOkErrorAge}
}

type status struct {
	Status          string  `json:"status"`
	MQTTConnected   bool    `json:"mqtt_connected"`
	LastWriteErrorS float64 `json:"last_write_error_age_sec"`
	Written         int64   `json:"written"`
}

func (h *Health) ServeHealthz(w http.ResponseWriter, _ *http.Request) {
	st := status{
		MQTTConnected:   h.broker != nil && h.broker.IsConnectionOpen(),
		LastWriteErrorS: h.writer.LastErrorAge().Seconds(),
		Written:         h.writer.Written(),
	}
	writesOK := h.writer.LastErrorAge() > h.minError
	switch {
	case st.MQTTConnected && writesOK:
		st.Status = "ok"
	case st.MQTTConnected || writesOK:
		st.Status = "degraded"
	default:
		st.Status = "down"
	}
	writeJSON(w, http.StatusOK, st)
}

// ServeReadyz answers 200 only when every dependency is healthy.
func (h *Health) ServeReadyz(w http.ResponseWriter, _ *http.Request) {
	ready := h.broker != nil && h.broker.IsConnectionOpen() && h.writer.LastErrorAge() > h.minError
	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]bool{"ready": ready})
}

// NewMux wires the history routes.
func NewMux(health *Health, latest http.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", health.ServeHealthz)
	mux.HandleFunc("GET /readyz", health.ServeReadyz)
	mux.Handle("GET /predictions/latest", latest)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
