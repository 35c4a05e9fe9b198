package history

import (
	"sort"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/LeonardoBeccarini/coffee_forecast/internal/model/entities"
	"github.com/LeonardoBeccarini/coffee_forecast/internal/model/messages"
)

// Measurement holds one point per prediction.
const Measurement = "coffee_prediction"

// Non-metric columns of a prediction point.
const (
	tagCategory  = "category"
	fieldSession = "session_id"
	fieldEvent   = "event_id"
	fieldAge     = "age_days"
)

// PredictionToPoint maps a prediction event to an InfluxDB point: the
// category is the only tag, every metric is a float field.
func PredictionToPoint(evt messages.PredictionEvent) *write.Point {
	tags := map[string]string{tagCategory: string(evt.Category)}

	fields := make(map[string]interface{}, len(evt.Metrics)+3)
	for _, m := range evt.Metrics {
		fields[sanitizeField(m.Name)] = m.Value
	}
	if evt.SessionID != "" {
		fields[fieldSession] = evt.SessionID
	}
	if evt.EventID != "" {
		fields[fieldEvent] = evt.EventID
	}
	if age, ok := evt.Inputs.Get(entities.AgeVariable); ok && age != "" {
		fields[fieldAge] = entities.ParseLenient(age)
	}

	t := evt.Timestamp
	if t.IsZero() {
		t = time.Now()
	}
	return influxdb2.NewPoint(Measurement, tags, fields, t)
}

// sanitizeField keeps metric names usable as Flux column names.
func sanitizeField(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9',
			r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "metric"
	}
	return b.String()
}

// Entry is one stored prediction as returned by /predictions/latest.
type Entry struct {
	Time      string            `json:"time"`
	Category  entities.Category `json:"category"`
	SessionID string            `json:"session_id,omitempty"`
	AgeDays   float64           `json:"age_days,omitempty"`
	Metrics   []entities.Metric `json:"metrics"`
}

// entryFromRow rebuilds an Entry from a pivoted Flux row.
func entryFromRow(t time.Time, values map[string]interface{}) Entry {
	e := Entry{Time: t.UTC().Format(time.RFC3339)}
	for k, v := range values {
		switch {
		case k == tagCategory:
			if s, ok := v.(string); ok {
				e.Category = entities.Category(s)
			}
		case k == fieldSession:
			if s, ok := v.(string); ok {
				e.SessionID = s
			}
		case k == fieldAge:
			e.AgeDays, _ = toFloat(v)
		case k == fieldEvent, k == "result", k == "table", strings.HasPrefix(k, "_"):
		default:
			if f, ok := toFloat(v); ok {
				e.Metrics = append(e.Metrics, entities.Metric{Name: k, Value: f})
			}
		}
	}
	sort.Slice(e.Metrics, func(i, j int) bool { return e.Metrics[i].Name < e.Metrics[j].Name })
	return e
}

func toFloat(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int64:
		return float64(x), true
	case uint64:
		return float64(x), true
	}
	return 0, false
}
