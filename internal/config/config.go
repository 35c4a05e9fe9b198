package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/LeonardoBeccarini/coffee_forecast/internal/model/messages"
	"github.com/LeonardoBeccarini/coffee_forecast/internal/services/predictor"
	"github.com/LeonardoBeccarini/coffee_forecast/pkg/rabbitmq"
)

type Config struct {
	HTTPPort int `yaml:"http_port"`
	GRPCPort int `yaml:"grpc_port"`

	Predict PredictConfig `yaml:"predict"`

	// ExportDir is the directory granted for workbooks; empty means no grant.
	ExportDir     string `yaml:"export_dir"`
	SessionTTLMin int    `yaml:"session_ttl_min"`

	Rabbit      rabbitmq.RabbitMQConfig `yaml:"rabbitmq"`
	TopicPrefix string                  `yaml:"topic_prefix"`

	Influx      InfluxConfig `yaml:"influx"`
	HistoryPort int          `yaml:"history_port"`
}

type PredictConfig struct {
	URL               string `yaml:"url"`
	TimeoutMS         int    `yaml:"timeout_ms"`
	BreakerFailures   int    `yaml:"breaker_failures"`
	BreakerOpenMS     int    `yaml:"breaker_open_ms"`
	BreakerIntervalMS int    `yaml:"breaker_interval_ms"`
}

type InfluxConfig struct {
	URL    string `yaml:"url"`
	Token  string `yaml:"token"`
	Org    string `yaml:"org"`
	Bucket string `yaml:"bucket"`
}

func Default() Config {
	return Config{
		HTTPPort: 8080,
		GRPCPort: 50051,
		Predict: PredictConfig{
			URL:               "http://localhost:5000/predict",
			TimeoutMS:         15000,
			BreakerFailures:   3,
			BreakerOpenMS:     30000,
			BreakerIntervalMS: 60000,
		},
		SessionTTLMin: 120,
		Rabbit: rabbitmq.RabbitMQConfig{
			Port:     1883,
			User:     "guest",
			Password: "guest",
			ClientID: "coffee-forecast",
		},
		TopicPrefix: messages.DefaultTopicPrefix,
		Influx: InfluxConfig{
			URL:    "http://localhost:8086",
			Org:    "coffee",
			Bucket: "predictions",
		},
		HistoryPort: 8081,
	}
}

// Load reads defaults, then the YAML file at path (if any), then the
// environment. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}
	cfg.applyEnv()
	return cfg, cfg.Validate()
}

func envStr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func (c *Config) applyEnv() {
	c.HTTPPort = envInt("HTTP_PORT", c.HTTPPort)
	c.GRPCPort = envInt("GRPC_PORT", c.GRPCPort)

	c.Predict.URL = envStr("PREDICT_URL", c.Predict.URL)
	c.Predict.TimeoutMS = envInt("PREDICT_TIMEOUT_MS", c.Predict.TimeoutMS)
	c.Predict.BreakerFailures = envInt("BREAKER_FAILURES", c.Predict.BreakerFailures)
	c.Predict.BreakerOpenMS = envInt("BREAKER_OPEN_MS", c.Predict.BreakerOpenMS)
	c.Predict.BreakerIntervalMS = envInt("BREAKER_INTERVAL_MS", c.Predict.BreakerIntervalMS)

	c.ExportDir = envStr("EXPORT_DIR", c.ExportDir)
	c.SessionTTLMin = envInt("SESSION_TTL_MIN", c.SessionTTLMin)

	c.Rabbit.Host = envStr("RABBITMQ_HOST", c.Rabbit.Host)
	c.Rabbit.Port = envInt("RABBITMQ_PORT", c.Rabbit.Port)
	c.Rabbit.User = envStr("RABBITMQ_USER", c.Rabbit.User)
	c.Rabbit.Password = envStr("RABBITMQ_PASSWORD", c.Rabbit.Password)
	c.Rabbit.ClientID = envStr("MQTT_CLIENT_ID", c.Rabbit.ClientID)
	c.TopicPrefix = envStr("EVENT_TOPIC_PREFIX", c.TopicPrefix)

	c.Influx.URL = envStr("INFLUX_URL", c.Influx.URL)
	c.Influx.Token = envStr("INFLUX_TOKEN", c.Influx.Token)
	c.Influx.Org = envStr("INFLUX_ORG", c.Influx.Org)
	c.Influx.Bucket = envStr("INFLUX_BUCKET", c.Influx.Bucket)
	c.HistoryPort = envInt("HISTORY_HTTP_PORT", c.HistoryPort)
}

func (c Config) Validate() error {
	var errs []error
	if c.Predict.TimeoutMS <= 0 {
		errs = append(errs, fmt.Errorf("predict timeout must be positive, got %d", c.Predict.TimeoutMS))
	}
	if c.Predict.BreakerFailures < 1 {
		errs = append(errs, fmt.Errorf("breaker failures must be at least 1, got %d", c.Predict.BreakerFailures))
	}
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("invalid http port %d", c.HTTPPort))
	}
	return errors.Join(errs...)
}

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

// PredictTimeout bounds one submission.
func (c Config) PredictTimeout() time.Duration { return ms(c.Predict.TimeoutMS) }

func (c Config) SessionTTL() time.Duration { return time.Duration(c.SessionTTLMin) * time.Minute }

func (c Config) PredictorConfig() predictor.Config {
	return predictor.Config{
		URL:             c.Predict.URL,
		Timeout:         ms(c.Predict.TimeoutMS),
		BreakerFailures: c.Predict.BreakerFailures,
		BreakerOpenFor:  ms(c.Predict.BreakerOpenMS),
		BreakerInterval: ms(c.Predict.BreakerIntervalMS),
	}
}
