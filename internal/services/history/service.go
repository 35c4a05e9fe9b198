package history

import (
	"context"

	"go.uber.org/zap"

	"github.com/LeonardoBeccarini/coffee_forecast/pkg/rabbitmq"
)

// Service consumes prediction events and persists them.
type Service struct {
	consumer rabbitmq.IConsumer
	handler  *Handler
	logger   *zap.Logger
}

func NewService(consumer rabbitmq.IConsumer, handler *Handler, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{consumer: consumer, handler: handler, logger: logger}
}

// Start subscribes and blocks until ctx is done.
func (s *Service) Start(ctx context.Context) error {
	s.consumer.SetHandler(s.handler.Handle)
	return s.consumer.ConsumeMessage(ctx)
}
