package rabbitmq

import (
	"encoding/json"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// IPublisher publishes JSON messages on topics of the shared exchange.
type IPublisher interface {
	Publish(topic string, message any) error
}

// Publisher holds the shared MQTT client
type Publisher struct {
	client mqtt.Client
}

func NewPublisher(client mqtt.Client) *Publisher {
	return &Publisher{client: client}
}

// Publish marshals message to JSON (strings and byte slices are sent as-is)
// and waits for the broker to acknowledge it.
func (p *Publisher) Publish(topic string, message any) error {
	var payload []byte
	switch m := message.(type) {
	case string:
		payload = []byte(m)
	case []byte:
		payload = m
	default:
		b, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("marshal message for %s: %w", topic, err)
		}
		payload = b
	}

	token := p.client.Publish(topic, QosFor(topic), false, payload)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to publish on %s: %w", topic, err)
	}
	return nil
}
