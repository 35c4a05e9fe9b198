package exporter

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/LeonardoBeccarini/coffee_forecast/internal/model/entities"
)

// Handle identifies a written export.
type Handle struct {
	Name  string `json:"name"`
	Bytes int    `json:"bytes"`
}

// Exporter turns a prediction into a workbook in a Storage.
type Exporter struct {
	storage Storage
	now     func() time.Time
	logger  *zap.Logger

	mu     sync.Mutex
	lastMs int64
}

// New returns an Exporter. storage may be nil when no location was granted.
func New(storage Storage, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{storage: storage, now: time.Now, logger: logger}
}

// Export writes category, fields and result to a new Prediccion_<millis>.xlsx.
// Nothing is written when result is empty.
func (e *Exporter) Export(ctx context.Context, category entities.Category, fields entities.FieldSet, result entities.PredictionResult) (Handle, error) {
	if len(result) == 0 {
		return Handle{}, ErrNoPredictionAvailable
	}
	if e.storage == nil {
		return Handle{}, ErrPermissionDenied
	}
	if err := ctx.Err(); err != nil {
		return Handle{}, err
	}

	data, err := EncodeWorkbook(BuildRecord(category, fields, result))
	if err != nil {
		e.logger.Error("encode workbook failed", zap.Error(err))
		return Handle{}, ErrWriteFailure
	}

	name := FileName(e.nextMillis())
	if err := e.storage.Create(name, data); err != nil {
		e.logger.Warn("export write failed", zap.String("file", name), zap.Error(err))
		return Handle{}, err
	}
	e.logger.Info("prediction exported", zap.String("file", name), zap.Int("bytes", len(data)))
	return Handle{Name: name, Bytes: len(data)}, nil
}

// List returns the stored exports, newest first.
func (e *Exporter) List() ([]Entry, error) {
	if e.storage == nil {
		return nil, ErrPermissionDenied
	}
	return e.storage.List()
}

// Read returns the decoded rows of a stored export.
func (e *Exporter) Read(name string) (Record, error) {
	data, err := e.ReadRaw(name)
	if err != nil {
		return nil, err
	}
	return DecodeWorkbook(data)
}

// ReadRaw returns the workbook bytes of a stored export.
func (e *Exporter) ReadRaw(name string) ([]byte, error) {
	if e.storage == nil {
		return nil, ErrPermissionDenied
	}
	return e.storage.Read(name)
}

// nextMillis is strictly increasing across calls.
func (e *Exporter) nextMillis() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	ms := e.now().UnixMilli()
	if ms <= e.lastMs {
		ms = e.lastMs + 1
	}
	e.lastMs = ms
	return ms
}
