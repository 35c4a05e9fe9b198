package forecast

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/LeonardoBeccarini/coffee_forecast/internal/model/entities"
	"github.com/LeonardoBeccarini/coffee_forecast/internal/model/messages"
	"github.com/LeonardoBeccarini/coffee_forecast/internal/services/exporter"
	"github.com/LeonardoBeccarini/coffee_forecast/internal/services/predictor"
	"github.com/LeonardoBeccarini/coffee_forecast/internal/services/validator"
)

// Predictor returns a forecast for one set of readings.
type Predictor interface {
	Predict(ctx context.Context, category entities.Category, values entities.Values) (entities.PredictionResult, error)
}

// Exporter writes predictions to workbooks and reads them back.
type Exporter interface {
	Export(ctx context.Context, category entities.Category, fields entities.FieldSet, result entities.PredictionResult) (exporter.Handle, error)
	List() ([]exporter.Entry, error)
	Read(name string) (exporter.Record, error)
	ReadRaw(name string) ([]byte, error)
}

type Options struct {
	Predictor Predictor
	Exporter  Exporter
	Notifier  Notifier
	Metrics   *Metrics
	Timeout   time.Duration
	Logger    *zap.Logger
}

// Service runs the submit and export flows of the prediction sessions.
type Service struct {
	sessions  *Registry
	predictor Predictor
	exporter  Exporter
	notifier  Notifier
	metrics   *Metrics
	timeout   time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

func NewService(opts Options) *Service {
	if opts.Notifier == nil {
		opts.Notifier = NopNotifier{}
	}
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics(nil)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Predictor == nil {
		opts.Predictor = unconfiguredPredictor{}
	}
	if opts.Exporter == nil {
		opts.Exporter = exporter.New(nil, opts.Logger)
	}
	return &Service{
		sessions:  NewRegistry(),
		predictor: opts.Predictor,
		exporter:  opts.Exporter,
		notifier:  opts.Notifier,
		metrics:   opts.Metrics,
		timeout:   opts.Timeout,
		logger:    opts.Logger.With(zap.String("component", "forecast")),
		now:       time.Now,
	}
}

// unconfiguredPredictor stands in when no prediction service is wired.
type unconfiguredPredictor struct{}

func (unconfiguredPredictor) Predict(context.Context, entities.Category, entities.Values) (entities.PredictionResult, error) {
	return nil, fmt.Errorf("%w: no prediction service configured", predictor.ErrConnectionFailure)
}

func (s *Service) NewSession() *Session {
	sess := s.sessions.Create()
	s.metrics.sessions.Set(float64(s.sessions.Len()))
	s.logger.Debug("session opened", zap.String("session", sess.ID))
	return sess
}

func (s *Service) Session(id string) (*Session, error) { return s.sessions.Get(id) }

func (s *Service) CloseSession(id string) error {
	if err := s.sessions.Delete(id); err != nil {
		return err
	}
	s.metrics.sessions.Set(float64(s.sessions.Len()))
	return nil
}

// ExpireSessions drops sessions idle for longer than ttl.
func (s *Service) ExpireSessions(ttl time.Duration) {
	if n := s.sessions.Expire(ttl); n > 0 {
		s.logger.Info("expired idle sessions", zap.Int("count", n))
		s.metrics.sessions.Set(float64(s.sessions.Len()))
	}
}

// Submit runs the pre-submit gate on the session's form and asks the
// prediction service for a forecast. Only one submission per session may be
// outstanding. A successful result replaces the session's stored prediction
// unless the form was reset while the request was in flight.
func (s *Service) Submit(ctx context.Context, sess *Session) (entities.PredictionResult, error) {
	sub, err := sess.begin()
	if err != nil {
		s.metrics.submissions.WithLabelValues(outcomeBusy).Inc()
		return nil, err
	}

	values, err := validator.Check(sub.fields)
	if err != nil {
		sess.finish(sub, nil, time.Time{})
		s.metrics.submissions.WithLabelValues(outcomeInvalid).Inc()
		s.logger.Debug("submission rejected", zap.String("session", sess.ID), zap.Error(err))
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := s.now()
	result, err := s.predictor.Predict(ctx, sub.category, values)
	s.metrics.latency.Observe(time.Since(start).Seconds())
	if err == nil && len(result) == 0 {
		err = predictor.ErrConnectionFailure
	}
	if err != nil {
		sess.finish(sub, nil, time.Time{})
		if errors.Is(err, predictor.ErrServiceError) {
			s.metrics.submissions.WithLabelValues(outcomeService).Inc()
		} else {
			s.metrics.submissions.WithLabelValues(outcomeConnection).Inc()
		}
		s.logger.Warn("submission failed", zap.String("session", sess.ID),
			zap.String("category", string(sub.category)), zap.Error(err))
		return nil, err
	}

	at := s.now()
	if !sess.finish(sub, result, at) {
		s.metrics.submissions.WithLabelValues(outcomeStale).Inc()
		s.logger.Info("form reset during submission, result discarded", zap.String("session", sess.ID))
		return result, nil
	}
	s.metrics.submissions.WithLabelValues(outcomeOK).Inc()
	s.logger.Info("prediction stored", zap.String("session", sess.ID),
		zap.String("category", string(sub.category)), zap.Int("metrics", len(result)))

	s.notifier.PredictionMade(messages.PredictionEvent{
		EventID:   uuid.NewString(),
		SessionID: sess.ID,
		Category:  sub.category,
		Inputs:    sub.fields,
		Metrics:   result.Clone(),
		Timestamp: at.UTC(),
	})
	return result, nil
}

// Export writes the session's current form and stored prediction to a new workbook.
func (s *Service) Export(ctx context.Context, sess *Session) (exporter.Handle, error) {
	snap := sess.Snapshot()
	h, err := s.exporter.Export(ctx, snap.Category, snap.Fields, snap.Prediction)
	if err != nil {
		s.metrics.exports.WithLabelValues(exportOutcome(err)).Inc()
		return exporter.Handle{}, err
	}
	s.metrics.exports.WithLabelValues(outcomeOK).Inc()
	s.notifier.Exported(messages.ExportEvent{
		EventID:   uuid.NewString(),
		SessionID: sess.ID,
		File:      h.Name,
		Bytes:     h.Bytes,
		Timestamp: s.now().UTC(),
	})
	return h, nil
}

func (s *Service) ListExports() ([]exporter.Entry, error) { return s.exporter.List() }

func (s *Service) ReadExport(name string) (exporter.Record, error) { return s.exporter.Read(name) }

func (s *Service) DownloadExport(name string) ([]byte, error) { return s.exporter.ReadRaw(name) }

func exportOutcome(err error) string {
	switch {
	case errors.Is(err, exporter.ErrNoPredictionAvailable):
		return outcomeNoResult
	case errors.Is(err, exporter.ErrPermissionDenied):
		return outcomePermission
	}
	return outcomeWrite
}
