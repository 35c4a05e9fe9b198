package history

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/LeonardoBeccarini/coffee_forecast/internal/model/messages"
	"github.com/LeonardoBeccarini/coffee_forecast/pkg/dedup"
)

var ErrNoMetrics = errors.New("prediction event without metrics")

// Handler turns prediction events into points. QoS 1 redeliveries are
// dropped by event id, or by payload hash when the id is missing.
type Handler struct {
	ctx    context.Context
	writer *Writer
	seen   *dedup.Deduper
	logger *zap.Logger
}

func NewHandler(ctx context.Context, writer *Writer, seen *dedup.Deduper, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{ctx: ctx, writer: writer, seen: seen, logger: logger}
}

// Handle matches rabbitmq.Handler.
func (h *Handler) Handle(topic string, m mqtt.Message) error {
	payload := m.Payload()

	var evt messages.PredictionEvent
	if err := json.Unmarshal(payload, &evt); err != nil {
		// a malformed payload never becomes valid on redelivery
		h.logger.Warn("invalid prediction event", zap.String("topic", topic), zap.Error(err))
		return nil
	}
	if len(evt.Metrics) == 0 {
		return fmt.Errorf("%s: %w", topic, ErrNoMetrics)
	}
	if evt.Category == "" {
		if c, ok := messages.CategoryFromTopic(topic); ok {
			evt.Category = c
		}
	}

	key := evt.EventID
	if key == "" {
		sum := sha256.Sum256(payload)
		key = hex.EncodeToString(sum[:])
	}
	if h.seen != nil && !h.seen.ShouldProcess(key) {
		h.logger.Debug("duplicate prediction event", zap.String("key", key))
		return nil
	}

	if err := h.writer.Write(h.ctx, PredictionToPoint(evt)); err != nil {
		if h.seen != nil {
			h.seen.Forget(key)
		}
		return err
	}
	h.logger.Info("prediction stored",
		zap.String("category", string(evt.Category)),
		zap.String("session", evt.SessionID),
		zap.Int("metrics", len(evt.Metrics)))
	return nil
}
