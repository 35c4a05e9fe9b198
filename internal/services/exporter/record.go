package exporter

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/LeonardoBeccarini/coffee_forecast/internal/model/entities"
)

// Fixed labels of the export layout.
const (
	CategoryLabel = "Tipo de café"
	DataHeader    = "Dato"
	ValueHeader   = "Valor"
	ResultHeader  = "Resultado de la predicción"
	lengthUnit    = " cm"
)

// Row is one (label, value) line of the workbook.
type Row [2]string

// Record is the two-column table written to a workbook.
type Record []Row

// BuildRecord lays out category, inputs and metrics:
//
//	Tipo de café | <label>
//	(blank)
//	Dato | Valor
//	<field> | <raw text>            x25
//	(blank)
//	Resultado de la predicción |
//	<metric> | <value with 2 decimals[ cm]>
func BuildRecord(category entities.Category, fields entities.FieldSet, result entities.PredictionResult) Record {
	rec := make(Record, 0, entities.NumFields+len(result)+6)
	rec = append(rec,
		Row{CategoryLabel, category.Label()},
		Row{},
		Row{DataHeader, ValueHeader},
	)
	fields.Each(func(name, value string) {
		rec = append(rec, Row{name, value})
	})
	rec = append(rec, Row{}, Row{ResultHeader, ""})
	for _, m := range result {
		rec = append(rec, Row{m.Name, FormatMetric(m.Name, m.Value)})
	}
	return rec
}

// FormatMetric renders a metric with two decimals and the length unit when
// the metric is a plant height or diameter.
func FormatMetric(name string, value float64) string {
	s := FormatValue(value)
	if HasLengthUnit(name) {
		s += lengthUnit
	}
	return s
}

// FormatValue renders value with exactly two decimals. Ties on the exact
// binary value round away from zero, so 0.125 gives "0.13" while 1.005,
// stored slightly below, gives "1.00".
func FormatValue(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return strconv.FormatFloat(value, 'f', 2, 64)
	}
	r := new(big.Rat).SetFloat64(value)
	num := new(big.Int).Abs(r.Num())
	den := r.Denom()

	// hundredths = floor((2*|num|*100 + den) / (2*den))
	n := new(big.Int).Mul(num, big.NewInt(200))
	n.Add(n, den)
	d := new(big.Int).Mul(den, big.NewInt(2))
	n.Quo(n, d)

	digits := n.String()
	for len(digits) < 3 {
		digits = "0" + digits
	}
	s := digits[:len(digits)-2] + "." + digits[len(digits)-2:]
	if value < 0 {
		s = "-" + s
	}
	return s
}

// HasLengthUnit is true when name contains "altura" or "diametro", ignoring case.
func HasLengthUnit(name string) bool {
	n := strings.ToLower(name)
	return strings.Contains(n, "altura") || strings.Contains(n, "diametro") || strings.Contains(n, "diámetro")
}

// IsBlank reports whether both cells are empty.
func (r Row) IsBlank() bool { return r[0] == "" && r[1] == "" }
