package rabbitmq

import (
	"context"
	"strings"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

// Handler processes one message received on topic.
type Handler func(topic string, message mqtt.Message) error

// IConsumer subscribes to a topic filter and dispatches to a handler.
type IConsumer interface {
	ConsumeMessage(ctx context.Context) error
	SetHandler(handler Handler)
}

// Consumer holds the client and topic filter for subscribing
type Consumer struct {
	client  mqtt.Client
	handler Handler
	topic   string
	logger  *zap.Logger
}

func NewConsumer(client mqtt.Client, topic string, logger *zap.Logger) *Consumer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Consumer{client: client, topic: topic, logger: logger}
}

func (c *Consumer) SetHandler(handler Handler) {
	c.handler = handler
}

// QosFor returns 1 for prediction and export events, 0 otherwise.
func QosFor(topic string) byte {
	t := strings.TrimSpace(topic)
	if strings.Contains(t, "/prediction") || strings.HasSuffix(t, "/export") {
		return 1
	}
	return 0
}

// ConsumeMessage subscribes and blocks until ctx is cancelled.
func (c *Consumer) ConsumeMessage(ctx context.Context) error {
	token := c.client.Subscribe(c.topic, QosFor(c.topic), func(_ mqtt.Client, message mqtt.Message) {
		if c.handler == nil {
			c.logger.Warn("no handler set", zap.String("topic", c.topic))
			return
		}
		if err := c.handler(message.Topic(), message); err != nil {
			c.logger.Error("handling message", zap.String("topic", message.Topic()), zap.Error(err))
		}
	})
	if token.Wait() && token.Error() != nil {
		return token.Error()
	}
	c.logger.Info("subscribed", zap.String("topic", c.topic))

	<-ctx.Done()

	c.client.Unsubscribe(c.topic).Wait()
	return nil
}
