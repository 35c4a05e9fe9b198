package exporter

import "errors"

// Export-phase errors.
var (
	ErrNoPredictionAvailable = errors.New("no prediction available")
	ErrPermissionDenied      = errors.New("storage permission denied")
	ErrWriteFailure          = errors.New("write failure")
	ErrNotFound              = errors.New("export not found")
)

var messages = map[error]string{
	ErrNoPredictionAvailable: "No hay predicciones para guardar.",
	ErrPermissionDenied:      "No se otorgó permiso para guardar en el directorio seleccionado.",
	ErrWriteFailure:          "No se pudo guardar el archivo.",
	ErrNotFound:              "El archivo solicitado no existe.",
}

// UserMessage returns the notification text for an export error.
func UserMessage(err error) string {
	for target, msg := range messages {
		if errors.Is(err, target) {
			return msg
		}
	}
	return ""
}
