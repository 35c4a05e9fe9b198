package forecast

import (
	"sync"
	"time"

	"github.com/LeonardoBeccarini/coffee_forecast/internal/model/entities"
	"github.com/LeonardoBeccarini/coffee_forecast/internal/services/exporter"
	"github.com/LeonardoBeccarini/coffee_forecast/internal/services/validator"
)

// Session owns one prediction form and the result it produced.
type Session struct {
	ID string

	mu       sync.Mutex
	form     *validator.Form
	busy     bool
	gen      uint64 // bumped on Reset; stale submissions are dropped
	lastUsed time.Time

	result ResultHolder
}

// Snapshot is a consistent read of a session.
type Snapshot struct {
	ID          string                    `json:"id"`
	Category    entities.Category         `json:"category"`
	Fields      entities.FieldSet         `json:"fields"`
	Complete    bool                      `json:"complete"`
	Busy        bool                      `json:"busy"`
	Prediction  entities.PredictionResult `json:"-"`
	SubmittedAt time.Time                 `json:"-"`
}

func newSession(id string, now time.Time) *Session {
	return &Session{ID: id, form: validator.NewForm(), lastUsed: now}
}

// Update applies one keystroke. It reports whether the text was accepted and
// the resulting completeness.
func (s *Session) Update(name, text string) (accepted, complete bool, err error) {
	if _, ok := entities.IndexOf(name); !ok {
		return false, false, ErrUnknownField
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	accepted = s.form.Update(name, text)
	return accepted, s.form.Complete(), nil
}

func (s *Session) SetCategory(raw string) error {
	c, err := entities.ParseCategory(raw)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.form.SetCategory(c)
	s.mu.Unlock()
	return nil
}

// Reset clears the form and the cached prediction. A submission still in
// flight will not store its result.
func (s *Session) Reset() {
	s.mu.Lock()
	s.form.Reset()
	s.gen++
	s.result.Clear()
	s.mu.Unlock()
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	snap := Snapshot{
		ID:       s.ID,
		Category: s.form.Category(),
		Fields:   s.form.Fields(),
		Complete: s.form.Complete(),
		Busy:     s.busy,
	}
	snap.Prediction, snap.SubmittedAt = s.result.Load()
	s.mu.Unlock()
	return snap
}

// Result returns the stored prediction, if any.
func (s *Session) Result() entities.PredictionResult {
	r, _ := s.result.Load()
	return r
}

type submission struct {
	gen      uint64
	category entities.Category
	fields   entities.FieldSet
}

func (s *Session) begin() (submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return submission{}, ErrBusy
	}
	s.busy = true
	return submission{gen: s.gen, category: s.form.Category(), fields: s.form.Fields()}, nil
}

// finish clears the busy flag and stores result when the form was not reset
// in the meantime.
func (s *Session) finish(sub submission, result entities.PredictionResult, at time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	if result == nil || sub.gen != s.gen {
		return false
	}
	s.result.Store(result, at)
	return true
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastUsed = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// FormattedPrediction renders each metric with two decimals, as displayed.
func FormattedPrediction(r entities.PredictionResult) []DisplayMetric {
	out := make([]DisplayMetric, 0, len(r))
	for _, m := range r {
		out = append(out, DisplayMetric{Name: m.Name, Value: exporter.FormatValue(m.Value)})
	}
	return out
}

// DisplayMetric is one line of the prediction shown to the user.
type DisplayMetric struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}
