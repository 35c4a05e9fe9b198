package history

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeonardoBeccarini/coffee_forecast/internal/model/entities"
	"github.com/LeonardoBeccarini/coffee_forecast/internal/model/messages"
	"github.com/LeonardoBeccarini/coffee_forecast/pkg/dedup"
)

type fakeMessage struct {
	topic   string
	payload []byte
}

func (m fakeMessage) Duplicate() bool   { return false }
func (m fakeMessage) Qos() byte         { return 1 }
func (m fakeMessage) Retained() bool    { return false }
func (m fakeMessage) Topic() string     { return m.topic }
func (m fakeMessage) MessageID() uint16 { return 1 }
func (m fakeMessage) Payload() []byte   { return m.payload }
func (m fakeMessage) Ack()              {}

type fakePointWriter struct {
	mu     sync.Mutex
	points []*write.Point
	err    error
}

func (f *fakePointWriter) WritePoint(_ context.Context, p ...*write.Point) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.points = append(f.points, p...)
	return nil
}

func sampleEvent(t *testing.T) messages.PredictionEvent {
	t.Helper()
	in := entities.NewFieldSet()
	require.True(t, in.Set(entities.AgeVariable, "120"))
	return messages.PredictionEvent{
		EventID:   "evt-1",
		SessionID: "sess-1",
		Category:  entities.CategorySarchimor,
		Inputs:    in,
		Metrics: entities.PredictionResult{
			{Name: "altura_planta", Value: 12.5},
			{Name: "rendimiento kg/ha", Value: 2100},
		},
		Timestamp: time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func fields(p *write.Point) map[string]interface{} {
	out := map[string]interface{}{}
	for _, f := range p.FieldList() {
		out[f.Key] = f.Value
	}
	return out
}

func TestPredictionToPoint(t *testing.T) {
	p := PredictionToPoint(sampleEvent(t))

	assert.Equal(t, Measurement, p.Name())
	require.Len(t, p.TagList(), 1)
	assert.Equal(t, "category", p.TagList()[0].Key)
	assert.Equal(t, "1", p.TagList()[0].Value)

	f := fields(p)
	assert.Equal(t, 12.5, f["altura_planta"])
	assert.Equal(t, 2100.0, f["rendimiento_kg_ha"])
	assert.Equal(t, "sess-1", f["session_id"])
	assert.Equal(t, 120.0, f["age_days"])
	assert.Equal(t, time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC), p.Time())
}

func TestEntryFromRow(t *testing.T) {
	e := entryFromRow(time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC), map[string]interface{}{
		"_measurement":  Measurement,
		"_start":        time.Now(),
		"result":        "_result",
		"table":         int64(0),
		"category":      "0",
		"session_id":    "s",
		"event_id":      "e",
		"age_days":      90.0,
		"rendimiento":   2000.0,
		"altura_planta": 11.0,
	})
	assert.Equal(t, "2025-05-01T12:00:00Z", e.Time)
	assert.Equal(t, entities.CategoryManabi01, e.Category)
	assert.Equal(t, "s", e.SessionID)
	assert.Equal(t, 90.0, e.AgeDays)
	assert.Equal(t, []entities.Metric{{Name: "altura_planta", Value: 11}, {Name: "rendimiento", Value: 2000}}, e.Metrics)
}

func TestHandlerDeduplicates(t *testing.T) {
	pw := &fakePointWriter{}
	h := NewHandler(context.Background(), NewWriter(pw, nil), dedup.New(time.Minute, 100), nil)

	payload, err := json.Marshal(sampleEvent(t))
	require.NoError(t, err)
	msg := fakeMessage{topic: "coffee/prediction/1", payload: payload}

	require.NoError(t, h.Handle(msg.Topic(), msg))
	require.NoError(t, h.Handle(msg.Topic(), msg))
	assert.Len(t, pw.points, 1)
}

func TestHandlerRetriesAfterWriteFailure(t *testing.T) {
	pw := &fakePointWriter{err: errors.New("influx down")}
	w := NewWriter(pw, nil)
	h := NewHandler(context.Background(), w, dedup.New(time.Minute, 100), nil)

	payload, err := json.Marshal(sampleEvent(t))
	require.NoError(t, err)
	msg := fakeMessage{topic: "coffee/prediction/1", payload: payload}

	require.Error(t, h.Handle(msg.Topic(), msg))
	assert.Less(t, w.LastErrorAge(), time.Minute)

	pw.mu.Lock()
	pw.err = nil
	pw.mu.Unlock()
	require.NoError(t, h.Handle(msg.Topic(), msg))
	assert.Len(t, pw.points, 1)
	assert.EqualValues(t, 1, w.Written())
}

func TestHandlerInputs(t *testing.T) {
	pw := &fakePointWriter{}
	h := NewHandler(context.Background(), NewWriter(pw, nil), nil, nil)

	t.Run("malformed payload is dropped", func(t *testing.T) {
		assert.NoError(t, h.Handle("coffee/prediction/0", fakeMessage{topic: "coffee/prediction/0", payload: []byte("{")}))
	})

	t.Run("no metrics", func(t *testing.T) {
		err := h.Handle("coffee/prediction/0", fakeMessage{topic: "coffee/prediction/0", payload: []byte(`{"event_id":"x","metrics":{}}`)})
		assert.ErrorIs(t, err, ErrNoMetrics)
	})

	t.Run("category from topic", func(t *testing.T) {
		payload := []byte(`{"metrics":{"rendimiento":1.5}}`)
		require.NoError(t, h.Handle("coffee/prediction/1", fakeMessage{topic: "coffee/prediction/1", payload: payload}))
		require.NotEmpty(t, pw.points)
		last := pw.points[len(pw.points)-1]
		assert.Equal(t, "1", last.TagList()[0].Value)
	})

	assert.Len(t, pw.points, 1)
}

type fakeStore struct {
	minutes, limit int
	entries        []Entry
	err            error
}

func (s *fakeStore) Latest(_ context.Context, minutes, limit int) ([]Entry, error) {
	s.minutes, s.limit = minutes, limit
	return s.entries, s.err
}

func TestLatestHandler(t *testing.T) {
	t.Run("clamps parameters", func(t *testing.T) {
		st := &fakeStore{entries: []Entry{{Time: "2025-05-01T12:00:00Z", Category: "0"}}}
		rec := httptest.NewRecorder()
		NewLatestHandler(st, nil).ServeHTTP(rec, httptest.NewRequest("GET", "/predictions/latest?minutes=0&limit=9999", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, st.minutes)
		assert.Equal(t, 500, st.limit)
		var got []Entry
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Len(t, got, 1)
	})

	t.Run("defaults", func(t *testing.T) {
		st := &fakeStore{}
		rec := httptest.NewRecorder()
		NewLatestHandler(st, nil).ServeHTTP(rec, httptest.NewRequest("GET", "/predictions/latest", nil))
		assert.Equal(t, 1440, st.minutes)
		assert.Equal(t, 20, st.limit)
		assert.JSONEq(t, "[]", rec.Body.String())
	})

	t.Run("query error", func(t *testing.T) {
		st := &fakeStore{err: errors.New("boom")}
		rec := httptest.NewRecorder()
		NewLatestHandler(st, nil).ServeHTTP(rec, httptest.NewRequest("GET", "/predictions/latest", nil))
		assert.Equal(t, "influx-query-error", rec.Header().Get("X-Error"))
		assert.JSONEq(t, "[]", rec.Body.String())
	})
}

func TestBuildFlux(t *testing.T) {
	q := buildFlux("predictions", 60, 5)
	assert.Contains(t, q, `from(bucket: "predictions")`)
	assert.Contains(t, q, "range(start: -60m)")
	assert.Contains(t, q, `r._measurement == "coffee_prediction"`)
	assert.Contains(t, q, "limit(n: 5)")
}

func TestHealthWithoutBroker(t *testing.T) {
	w := NewWriter(&fakePointWriter{}, nil)
	mux := NewMux(NewHealth(nil, w, 2*time.Second), NewLatestHandler(&fakeStore{}, nil))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))
	assert.Contains(t, rec.Body.String(), `"status":"degraded"`)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/predictions/latest", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
