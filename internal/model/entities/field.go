package entities

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// numericText is the per-keystroke pattern: digits with at most one decimal point,
// no sign and no exponent.
var numericText = regexp.MustCompile(`^\d*\.?\d*$`)

// IsNumericText reports whether s may be stored in a FieldSet.
func IsNumericText(s string) bool {
	return s == "" || numericText.MatchString(s)
}

// FieldSet holds the raw text of every agronomic variable for one prediction request.
// Every variable is always present; a value is either empty or numeric text.
// It is a value type: copies are independent snapshots.
type FieldSet struct {
	values [NumFields]string
}

// Values are the numeric readings parsed from a FieldSet, in catalogue order.
type Values [NumFields]float64

func NewFieldSet() FieldSet { return FieldSet{} }

// Set stores value under name when name is a known variable and value passes
// the numeric-text gate. Otherwise the set is left untouched and false is returned.
func (f *FieldSet) Set(name, value string) bool {
	i, ok := IndexOf(name)
	if !ok || !IsNumericText(value) {
		return false
	}
	f.values[i] = value
	return true
}

func (f FieldSet) Get(name string) (string, bool) {
	i, ok := IndexOf(name)
	if !ok {
		return "", false
	}
	return f.values[i], true
}

// At returns the raw value at catalogue position i.
func (f FieldSet) At(i int) string { return f.values[i] }

// Complete is true iff every trimmed value is non-empty.
func (f FieldSet) Complete() bool {
	for _, v := range f.values {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}

// Missing lists the variables whose trimmed value is empty.
func (f FieldSet) Missing() []string {
	var out []string
	for i, v := range f.values {
		if strings.TrimSpace(v) == "" {
			out = append(out, Variables[i].Name)
		}
	}
	return out
}

// Values parses every field; text that is not a number becomes 0.
func (f FieldSet) Values() Values {
	var out Values
	for i, v := range f.values {
		out[i] = ParseLenient(v)
	}
	return out
}

// ParseLenient parses s as a float and falls back to 0.
func ParseLenient(s string) float64 {
	x, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return x
}

// Each calls fn for every variable in catalogue order.
func (f FieldSet) Each(fn func(name, value string)) {
	for i, v := range f.values {
		fn(Variables[i].Name, v)
	}
}

// FieldSetFromMap builds a FieldSet from name -> text. Unknown names and
// non-numeric values are collected in the returned error; the remaining
// values are still applied.
func FieldSetFromMap(m map[string]string) (FieldSet, error) {
	fs := NewFieldSet()
	var rejected []string
	for name, value := range m {
		if !fs.Set(name, strings.TrimSpace(value)) {
			rejected = append(rejected, name)
		}
	}
	if len(rejected) > 0 {
		sort.Strings(rejected)
		return fs, fmt.Errorf("rejected fields: %s", strings.Join(rejected, ", "))
	}
	return fs, nil
}

// MarshalJSON encodes the set as an object keeping catalogue order.
func (f FieldSet) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, v := range f.values {
		if i > 0 {
			b.WriteByte(',')
		}
		k, _ := json.Marshal(Variables[i].Name)
		val, _ := json.Marshal(v)
		b.Write(k)
		b.WriteByte(':')
		b.Write(val)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

func (f *FieldSet) UnmarshalJSON(b []byte) error {
	var m map[string]string
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	fs, err := FieldSetFromMap(m)
	if err != nil {
		return err
	}
	*f = fs
	return nil
}
