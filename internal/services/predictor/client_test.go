package predictor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeonardoBeccarini/coffee_forecast/internal/model/entities"
)

func sampleValues() entities.Values {
	var v entities.Values
	for i := range v {
		v[i] = float64(i + 1)
	}
	v[0] = 365
	return v
}

func newTestClient(url string) *Client {
	return NewClient(Config{
		URL:             url,
		Timeout:         2 * time.Second,
		BreakerFailures: 2,
		BreakerOpenFor:  time.Minute,
	}, nil)
}

func TestPredictSuccess(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"prediction": {"rendimiento_kg_ha": 812.456, "altura_planta": 12.345}}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	res, err := c.Predict(context.Background(), entities.CategorySarchimor, sampleValues())
	require.NoError(t, err)

	assert.Equal(t, entities.PredictionResult{
		{Name: "rendimiento_kg_ha", Value: 812.456},
		{Name: "altura_planta", Value: 12.345},
	}, res)

	assert.Equal(t, "1", got[CategoryKey])
	assert.Equal(t, 365.0, got[entities.AgeVariable])
	assert.Equal(t, 25.0, got["ARCILLA"])
	assert.Len(t, got, entities.NumFields+1)
}

func TestPredictServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error": "Modelo no disponible"}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	for i := 0; i < 3; i++ {
		_, err := c.Predict(context.Background(), entities.CategoryManabi01, sampleValues())
		require.ErrorIs(t, err, ErrServiceError)
		assert.Equal(t, "Modelo no disponible", UserMessage(err))
	}
	assert.Equal(t, gobreaker.StateClosed, c.BreakerState(), "service errors do not trip the breaker")
}

func TestPredictConnectionFailures(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"non 2xx": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error": "boom"}`))
		},
		"malformed body": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>`))
		},
		"empty prediction": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"prediction": {}}`))
		},
		"non numeric metric": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"prediction": {"a": "x"}}`))
		},
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(h)
			defer server.Close()

			_, err := newTestClient(server.URL).Predict(context.Background(), entities.CategoryManabi01, sampleValues())
			require.ErrorIs(t, err, ErrConnectionFailure)
			assert.Equal(t, ConnectionMessage, UserMessage(err))
		})
	}

	t.Run("missing url", func(t *testing.T) {
		_, err := newTestClient("").Predict(context.Background(), entities.CategoryManabi01, sampleValues())
		assert.ErrorIs(t, err, ErrConnectionFailure)
	})
}

func TestPredictTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newTestClient(server.URL).Predict(ctx, entities.CategoryManabi01, sampleValues())
	assert.ErrorIs(t, err, ErrConnectionFailure)
}

func TestBreakerOpens(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	for i := 0; i < 2; i++ {
		_, err := c.Predict(context.Background(), entities.CategoryManabi01, sampleValues())
		require.ErrorIs(t, err, ErrConnectionFailure)
	}
	assert.Equal(t, gobreaker.StateOpen, c.BreakerState())

	_, err := c.Predict(context.Background(), entities.CategoryManabi01, sampleValues())
	require.ErrorIs(t, err, ErrConnectionFailure)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(2), calls.Load(), "open breaker does not reach the service")
}
