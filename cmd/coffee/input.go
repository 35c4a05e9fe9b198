package main

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/LeonardoBeccarini/coffee_forecast/internal/model"
	"github.com/LeonardoBeccarini/coffee_forecast/internal/model/entities"
)

// inputFile is the YAML form of one prediction request:
//
//	category: Sarchimor
//	fields:
//	  EDAD_EN_DIAS: 120
//	  PH: 5.6
type inputFile struct {
	Category string         `yaml:"category"`
	Fields   map[string]any `yaml:"fields"`
}

// loadInput reads a request file. Values go through the same gate as typed text.
func loadInput(path string) (model.Category, model.FieldSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", model.FieldSet{}, fmt.Errorf("read input: %w", err)
	}
	return parseInput(data)
}

func parseInput(data []byte) (model.Category, model.FieldSet, error) {
	var in inputFile
	if err := yaml.Unmarshal(data, &in); err != nil {
		return "", model.FieldSet{}, fmt.Errorf("parse input: %w", err)
	}

	category := entities.DefaultCategory
	if in.Category != "" {
		c, err := entities.ParseCategory(in.Category)
		if err != nil {
			return "", model.FieldSet{}, err
		}
		category = c
	}

	raw := make(map[string]string, len(in.Fields))
	for k, v := range in.Fields {
		switch x := v.(type) {
		case nil:
			raw[k] = ""
		case string:
			raw[k] = x
		case int:
			raw[k] = strconv.Itoa(x)
		case float64:
			raw[k] = strconv.FormatFloat(x, 'f', -1, 64)
		default:
			raw[k] = fmt.Sprint(x)
		}
	}
	fs, err := entities.FieldSetFromMap(raw)
	if err != nil {
		return "", model.FieldSet{}, err
	}
	return category, fs, nil
}

// encodeInput writes a request file keeping catalogue order.
func encodeInput(category model.Category, fs model.FieldSet) ([]byte, error) {
	fields := &yaml.Node{Kind: yaml.MappingNode}
	fs.Each(func(name, value string) {
		fields.Content = append(fields.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: name},
			&yaml.Node{Kind: yaml.ScalarNode, Value: value},
		)
	})
	doc := &yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{
		{Kind: yaml.ScalarNode, Value: "category"},
		{Kind: yaml.ScalarNode, Value: category.Label()},
		{Kind: yaml.ScalarNode, Value: "fields"},
		fields,
	}}
	return yaml.Marshal(doc)
}
