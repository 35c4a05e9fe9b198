package validator

import "errors"

// Validation-phase errors. All are recoverable: the user edits and submits again.
var (
	ErrIncompleteInput       = errors.New("incomplete input")
	ErrInvalidAge            = errors.New("invalid age")
	ErrInsufficientVariation = errors.New("insufficient variation")
)

// Messages shown to the user for each validation error.
var messages = map[error]string{
	ErrIncompleteInput:       "Por favor complete todos los campos antes de procesar.",
	ErrInvalidAge:            "La edad en días debe ser un número mayor o igual a 30.",
	ErrInsufficientVariation: "Los datos ingresados no presentan suficiente variación. Revise los valores antes de procesar.",
}

// UserMessage returns the notification text for a validation error, or "" if
// err is not one of ours.
func UserMessage(err error) string {
	for target, msg := range messages {
		if errors.Is(err, target) {
			return msg
		}
	}
	return ""
}
