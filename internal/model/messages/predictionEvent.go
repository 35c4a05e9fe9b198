package messages

import (
	"time"

	"github.com/LeonardoBeccarini/coffee_forecast/internal/model/entities"
)

// PredictionEvent is published by the forecast service after every successful prediction.
type PredictionEvent struct {
	EventID   string                    `json:"event_id"`
	SessionID string                    `json:"session_id"`
	Category  entities.Category         `json:"category"`
	Inputs    entities.FieldSet         `json:"inputs"`
	Metrics   entities.PredictionResult `json:"metrics"`
	Timestamp time.Time                 `json:"timestamp"`
}
