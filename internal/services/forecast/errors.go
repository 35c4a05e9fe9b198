package forecast

import (
	"errors"
	"net/http"

	"github.com/LeonardoBeccarini/coffee_forecast/internal/services/exporter"
	"github.com/LeonardoBeccarini/coffee_forecast/internal/services/predictor"
	"github.com/LeonardoBeccarini/coffee_forecast/internal/services/validator"
)

var (
	ErrBusy            = errors.New("a submission is already in progress")
	ErrSessionNotFound = errors.New("session not found")
	ErrUnknownField    = errors.New("unknown field")
)

// UserMessage maps any error of the submit or export path to the text shown
// to the user.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if m := validator.UserMessage(err); m != "" {
		return m
	}
	if m := predictor.UserMessage(err); m != "" {
		return m
	}
	if m := exporter.UserMessage(err); m != "" {
		return m
	}
	switch {
	case errors.Is(err, ErrBusy):
		return "Procesando, por favor espere."
	case errors.Is(err, ErrSessionNotFound):
		return "La sesión no existe."
	case errors.Is(err, ErrUnknownField):
		return "Campo desconocido."
	}
	return "Error inesperado."
}

// StatusCode maps an error to the HTTP status returned by the API.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, validator.ErrIncompleteInput),
		errors.Is(err, validator.ErrInvalidAge),
		errors.Is(err, validator.ErrInsufficientVariation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, predictor.ErrConnectionFailure),
		errors.Is(err, predictor.ErrServiceError):
		return http.StatusBadGateway
	case errors.Is(err, ErrBusy), errors.Is(err, exporter.ErrNoPredictionAvailable):
		return http.StatusConflict
	case errors.Is(err, exporter.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, exporter.ErrNotFound), errors.Is(err, ErrUnknownField):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
