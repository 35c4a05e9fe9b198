package history

import (
	"context"
	"sync"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"go.uber.org/zap"
)

// PointWriter is satisfied by influxdb2's api.WriteAPIBlocking.
type PointWriter interface {
	WritePoint(ctx context.Context, point ...*write.Point) error
}

// Writer wraps a PointWriter and tracks the last write error for /healthz and /readyz.
type Writer struct {
	api    PointWriter
	logger *zap.Logger

	mu      sync.RWMutex
	lastErr time.Time
	written int64
}

func NewWriter(api PointWriter, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{api: api, logger: logger, lastErr: time.Now().Add(-24 * time.Hour)}
}

func (w *Writer) Write(ctx context.Context, p *write.Point) error {
	if err := w.api.WritePoint(ctx, p); err != nil {
		w.mu.Lock()
		w.lastErr = time.Now()
		w.mu.Unlock()
		w.logger.Error("influx write error", zap.Error(err))
		return err
	}
	w.mu.Lock()
	w.written++
	w.mu.Unlock()
	return nil
}

// LastErrorAge is the time since the last failed write.
func (w *Writer) LastErrorAge() time.Duration {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return time.Since(w.lastErr)
}

// Written counts successful writes.
func (w *Writer) Written() int64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.written
}
