package forecast

import (
	"go.uber.org/zap"

	"github.com/LeonardoBeccarini/coffee_forecast/internal/model/messages"
	"github.com/LeonardoBeccarini/coffee_forecast/pkg/rabbitmq"
)

// Notifier is told about completed predictions and exports.
type Notifier interface {
	PredictionMade(evt messages.PredictionEvent)
	Exported(evt messages.ExportEvent)
}

// NopNotifier drops every event. Used when no broker is configured.
type NopNotifier struct{}

func (NopNotifier) PredictionMade(messages.PredictionEvent) {}
func (NopNotifier) Exported(messages.ExportEvent)           {}

// EventNotifier publishes events on the MQTT exchange. Publish failures are
// logged and never reach the user.
type EventNotifier struct {
	pub    rabbitmq.IPublisher
	prefix string
	logger *zap.Logger
}

func NewEventNotifier(pub rabbitmq.IPublisher, prefix string, logger *zap.Logger) *EventNotifier {
	if prefix == "" {
		prefix = messages.DefaultTopicPrefix
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventNotifier{pub: pub, prefix: prefix, logger: logger}
}

func (n *EventNotifier) PredictionMade(evt messages.PredictionEvent) {
	topic := messages.PredictionTopic(n.prefix, evt.Category)
	if err := n.pub.Publish(topic, evt); err != nil {
		n.logger.Warn("publish prediction event", zap.String("topic", topic), zap.Error(err))
	}
}

func (n *EventNotifier) Exported(evt messages.ExportEvent) {
	topic := messages.ExportTopic(n.prefix)
	if err := n.pub.Publish(topic, evt); err != nil {
		n.logger.Warn("publish export event", zap.String("topic", topic), zap.Error(err))
	}
}
