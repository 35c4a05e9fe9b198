package messages

import "time"

// ExportEvent is published once a prediction has been written to a workbook.
type ExportEvent struct {
	EventID   string    `json:"event_id"`
	SessionID string    `json:"session_id"`
	File      string    `json:"file"`  // Prediccion_<millis>.xlsx
	Bytes     int       `json:"bytes"` // size on disk
	Timestamp time.Time `json:"timestamp"`
}
