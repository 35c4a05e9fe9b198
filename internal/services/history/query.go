package history

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api"
	"go.uber.org/zap"
)

// Store reads back stored predictions, newest first.
type Store interface {
	Latest(ctx context.Context, minutes, limit int) ([]Entry, error)
}

// InfluxStore runs Flux queries against the prediction bucket.
type InfluxStore struct {
	query  api.QueryAPI
	bucket string
}

func NewInfluxStore(query api.QueryAPI, bucket string) *InfluxStore {
	return &InfluxStore{query: query, bucket: bucket}
}

func buildFlux(bucket string, minutes, limit int) string {
	return fmt.Sprintf(`
from(bucket: %q)
  |> range(start: -%dm)
  |> filter(fn: (r) => r._measurement == %q)
  |> pivot(rowKey: ["_time"], columnKey: ["_field"], valueColumn: "_value")
  |> group()
  |> sort(columns: ["_time"], desc: true)
  |> limit(n: %d)
`, bucket, minutes, Measurement, limit)
}

func (s *InfluxStore) Latest(ctx context.Context, minutes, limit int) ([]Entry, error) {
	res, err := s.query.Query(ctx, buildFlux(s.bucket, minutes, limit))
	if err != nil {
		return nil, fmt.Errorf("influx query: %w", err)
	}
	defer res.Close()

	out := make([]Entry, 0, limit)
	for res.Next() {
		rec := res.Record()
		out = append(out, entryFromRow(rec.Time(), rec.Values()))
	}
	if err := res.Err(); err != nil {
		return out, fmt.Errorf("influx iterate: %w", err)
	}
	return out, nil
}

type latestParams struct {
	Minutes   int
	Limit     int
	TimeoutMS int
}

func parseLatest(r *http.Request) latestParams {
	q := r.URL.Query()
	get := func(k string, def, min, max int) int {
		if v := strings.TrimSpace(q.Get(k)); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				if n < min {
					return min
				}
				if max > 0 && n > max {
					return max
				}
				return n
			}
		}
		return def
	}
	return latestParams{
		Minutes:   get("minutes", 1440, 1, 30*24*60),
		Limit:     get("limit", 20, 1, 500),
		TimeoutMS: get("timeout_ms", 2000, 200, 5000),
	}
}

// NewLatestHandler serves GET /predictions/latest?minutes=1440&limit=20.
// A failed query answers [] with an X-Error header.
func NewLatestHandler(store Store, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := parseLatest(r)
		ctx, cancel := context.WithTimeout(r.Context(), time.Duration(p.TimeoutMS)*time.Millisecond)
		defer cancel()

		entries, err := store.Latest(ctx, p.Minutes, p.Limit)
		if err != nil {
			logger.Warn("latest predictions query failed", zap.Error(err))
			w.Header().Set("X-Error", "influx-query-error")
		}
		if entries == nil {
			entries = []Entry{}
		}
		writeJSON(w, http.StatusOK, entries)
	})
}
