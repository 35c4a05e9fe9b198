package predictor

import (
	"errors"
	"fmt"
)

// Submission-phase errors.
var (
	// ErrConnectionFailure covers transport errors, non-2xx statuses,
	// malformed bodies and an open circuit breaker.
	ErrConnectionFailure = errors.New("connection failure")
	ErrServiceError      = errors.New("service error")
)

// ConnectionMessage is shown when the service could not be reached.
const ConnectionMessage = "No se pudo conectar con el servidor."

// ServiceError carries the error text returned by the prediction service.
type ServiceError struct {
	Message string
}

func (e *ServiceError) Error() string { return fmt.Sprintf("prediction service: %s", e.Message) }

func (e *ServiceError) Is(target error) bool { return target == ErrServiceError }

// UserMessage returns the notification text for a submission error.
func UserMessage(err error) string {
	var se *ServiceError
	switch {
	case errors.As(err, &se):
		return se.Message
	case errors.Is(err, ErrConnectionFailure):
		return ConnectionMessage
	}
	return ""
}
