package messages

import (
	"strings"

	"github.com/LeonardoBeccarini/coffee_forecast/internal/model/entities"
)

// DefaultTopicPrefix roots every topic of the forecast exchange.
const DefaultTopicPrefix = "coffee"

// PredictionTopic is <prefix>/prediction/<category>.
func PredictionTopic(prefix string, c entities.Category) string {
	return strings.TrimSuffix(prefix, "/") + "/prediction/" + string(c)
}

// PredictionFilter subscribes to the predictions of every category.
func PredictionFilter(prefix string) string {
	return strings.TrimSuffix(prefix, "/") + "/prediction/#"
}

// ExportTopic is <prefix>/export.
func ExportTopic(prefix string) string {
	return strings.TrimSuffix(prefix, "/") + "/export"
}

// CategoryFromTopic extracts the category of a prediction topic.
func CategoryFromTopic(topic string) (entities.Category, bool) {
	i := strings.LastIndex(topic, "/prediction/")
	if i < 0 {
		return "", false
	}
	c := entities.Category(topic[i+len("/prediction/"):])
	return c, c.Valid()
}
