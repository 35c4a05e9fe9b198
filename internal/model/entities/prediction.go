package entities

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Metric is one output of the prediction service.
type Metric struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// PredictionResult keeps the metrics in the order the service sent them.
type PredictionResult []Metric

func (p PredictionResult) Get(name string) (float64, bool) {
	for _, m := range p {
		if m.Name == name {
			return m.Value, true
		}
	}
	return 0, false
}

// Clone returns an independent copy.
func (p PredictionResult) Clone() PredictionResult {
	if p == nil {
		return nil
	}
	out := make(PredictionResult, len(p))
	copy(out, p)
	return out
}

// MarshalJSON encodes the result as {"metric": value, ...} in order.
func (p PredictionResult) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, m := range p {
		if i > 0 {
			b.WriteByte(',')
		}
		k, err := json.Marshal(m.Name)
		if err != nil {
			return nil, err
		}
		b.Write(k)
		b.WriteByte(':')
		b.WriteString(strconv.FormatFloat(m.Value, 'f', -1, 64))
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// UnmarshalJSON decodes an object of metrics preserving key order.
// Values may be numbers or numeric strings.
func (p *PredictionResult) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New("prediction: expected object")
	}

	out := PredictionResult{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)

		var raw any
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		v, err := toFloat(raw)
		if err != nil {
			return fmt.Errorf("prediction %q: %w", key, err)
		}
		out = append(out, Metric{Name: key, Value: v})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*p = out
	return nil
}

func toFloat(raw any) (float64, error) {
	var (
		f   float64
		err error
	)
	switch x := raw.(type) {
	case json.Number:
		f, err = x.Float64()
	case string:
		f, err = strconv.ParseFloat(strings.TrimSpace(x), 64)
	default:
		return 0, fmt.Errorf("not a number: %v", raw)
	}
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not a finite number: %v", raw)
	}
	return f, nil
}
