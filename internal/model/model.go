package model

import (
	"github.com/LeonardoBeccarini/coffee_forecast/internal/model/entities"
	"github.com/LeonardoBeccarini/coffee_forecast/internal/model/messages"
)

// Aliases for the types shared across services

type (
	FieldSet         = entities.FieldSet
	Values           = entities.Values
	Category         = entities.Category
	PredictionResult = entities.PredictionResult
	Metric           = entities.Metric
	PredictionEvent  = messages.PredictionEvent
	ExportEvent      = messages.ExportEvent
)

const (
	CategoryManabi01  = entities.CategoryManabi01
	CategorySarchimor = entities.CategorySarchimor
	NumFields         = entities.NumFields
)
