package entities

import (
	"fmt"
	"strings"
)

// Category is the coffee variety sent as TIPO_DE_CAFE.
type Category string

const (
	CategoryManabi01  Category = "0"
	CategorySarchimor Category = "1"
)

// DefaultCategory is selected when a form is created or reset.
const DefaultCategory = CategoryManabi01

// ParseCategory accepts the wire value ("0"/"1") or the human label.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "0", "manabi01":
		return CategoryManabi01, nil
	case "1", "sarchimor":
		return CategorySarchimor, nil
	}
	return "", fmt.Errorf("unknown coffee type %q", s)
}

// Label is the name shown to the user and written in exports.
func (c Category) Label() string {
	switch c {
	case CategoryManabi01:
		return "Manabi01"
	case CategorySarchimor:
		return "Sarchimor"
	}
	return string(c)
}

func (c Category) Valid() bool {
	return c == CategoryManabi01 || c == CategorySarchimor
}
