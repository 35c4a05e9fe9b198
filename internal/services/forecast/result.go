package forecast

import (
	"sync"
	"time"

	"github.com/LeonardoBeccarini/coffee_forecast/internal/model/entities"
)

// ResultHolder keeps the most recent prediction of one session.
// Last write wins.
type ResultHolder struct {
	mu     sync.RWMutex
	result entities.PredictionResult
	at     time.Time
}

func (h *ResultHolder) Store(r entities.PredictionResult, at time.Time) {
	h.mu.Lock()
	h.result = r.Clone()
	h.at = at
	h.mu.Unlock()
}

// Load returns a copy of the stored prediction and when it was received.
func (h *ResultHolder) Load() (entities.PredictionResult, time.Time) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.result.Clone(), h.at
}

func (h *ResultHolder) Clear() {
	h.mu.Lock()
	h.result = nil
	h.at = time.Time{}
	h.mu.Unlock()
}
