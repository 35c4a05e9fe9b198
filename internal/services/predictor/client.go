package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/LeonardoBeccarini/coffee_forecast/internal/model/entities"
)

// CategoryKey is the request key carrying the coffee type.
const CategoryKey = "TIPO_DE_CAFE"

const maxResponseBytes = 1 << 20

type Config struct {
	URL     string
	Timeout time.Duration

	BreakerFailures int
	BreakerOpenFor  time.Duration
	BreakerInterval time.Duration
}

// Client posts readings to the remote prediction service through a circuit breaker.
type Client struct {
	url     string
	timeout time.Duration
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

type response struct {
	Prediction *entities.PredictionResult `json:"prediction"`
	Error      string                     `json:"error"`
}

func NewClient(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.BreakerFailures < 1 {
		cfg.BreakerFailures = 3
	}
	if cfg.BreakerOpenFor <= 0 {
		cfg.BreakerOpenFor = 30 * time.Second
	}
	fails := uint32(cfg.BreakerFailures)

	c := &Client{
		url:     strings.TrimSpace(cfg.URL),
		timeout: cfg.Timeout,
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     "prediction-service",
		Interval: cfg.BreakerInterval,
		Timeout:  cfg.BreakerOpenFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= fails
		},
		// a service-side error means the service is up
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrServiceError)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				zap.String("breaker", name), zap.Stringer("from", from), zap.Stringer("to", to))
		},
	})
	return c
}

// Timeout is the per-request limit applied to every submission.
func (c *Client) Timeout() time.Duration { return c.timeout }

func (c *Client) BreakerState() gobreaker.State { return c.breaker.State() }

// Predict submits one FieldSet's numeric readings and returns the forecast.
func (c *Client) Predict(ctx context.Context, category entities.Category, values entities.Values) (entities.PredictionResult, error) {
	if c.url == "" {
		return nil, fmt.Errorf("%w: prediction url not configured", ErrConnectionFailure)
	}
	body, err := encodeRequest(category, values)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := c.breaker.Execute(func() (any, error) {
		return c.post(ctx, body)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = fmt.Errorf("%w: %w", ErrConnectionFailure, err)
		}
		c.logger.Warn("prediction failed",
			zap.String("category", string(category)),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return nil, err
	}

	result := res.(entities.PredictionResult)
	c.logger.Debug("prediction received",
		zap.String("category", string(category)),
		zap.Int("metrics", len(result)),
		zap.Duration("elapsed", time.Since(start)))
	return result, nil
}

func (c *Client) post(ctx context.Context, body []byte) (entities.PredictionResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailure, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil, fmt.Errorf("%w: upstream status %d", ErrConnectionFailure, resp.StatusCode)
	}

	var out response
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrConnectionFailure, err)
	}
	if out.Error != "" {
		return nil, &ServiceError{Message: out.Error}
	}
	if out.Prediction == nil || len(*out.Prediction) == 0 {
		return nil, fmt.Errorf("%w: empty prediction", ErrConnectionFailure)
	}
	return *out.Prediction, nil
}

// encodeRequest builds {"TIPO_DE_CAFE": "0", "<FIELD>": <number>, ...}.
func encodeRequest(category entities.Category, values entities.Values) ([]byte, error) {
	payload := make(map[string]any, entities.NumFields+1)
	payload[CategoryKey] = string(category)
	for i, v := range entities.Variables {
		payload[v.Name] = values[i]
	}
	return json.Marshal(payload)
}
