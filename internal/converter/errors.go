package converter

import (
	"encoding/json"
	"errors"
	"net/http"

	"convertly-go/internal/models"

	"github.com/rs/zerolog/log"
)

var (
	ErrNoFiles       = errors.New("no files provided")
	ErrFileTooLarge  = errors.New("file exceeds maximum allowed size")
	ErrNotAnImage    = errors.New("file is not an image")
	ErrImageTooLarge = errors.New("image dimensions exceed the pixel limit")
)

// APIError represents a standardized error response
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Error responses
var (
	ErrNoFilesProvided = &APIError{
		Status:  http.StatusBadRequest,
		Code:    models.CodeNoFiles,
		Message: "No files provided",
	}
	ErrUnsupportedFormat = &APIError{
		Status:  http.StatusBadRequest,
		Code:    models.CodeUnsupportedFormat,
		Message: "Unsupported target format",
	}
	ErrTooManyFiles = &APIError{
		Status:  http.StatusBadRequest,
		Code:    models.CodeTooManyFiles,
		Message: "Too many files",
	}
	ErrInvalidForm = &APIError{
		Status:  http.StatusBadRequest,
		Code:    models.CodeInvalidForm,
		Message: "Invalid multipart form",
	}
	ErrRequestTooLarge = &APIError{
		Status:  http.StatusRequestEntityTooLarge,
		Code:    models.CodeRequestTooLarge,
		Message: "Request too large",
	}
	ErrProcessing = &APIError{
		Status:  http.StatusInternalServerError,
		Code:    models.CodeConversionFailed,
		Message: "Error processing files",
	}
)

// User-facing reasons for per-file failures
var failureReasons = map[string]string{
	models.CodeFileTooLarge:     "File exceeds maximum allowed size",
	models.CodeImageTooLarge:    "Image dimensions exceed maximum allowed size",
	models.CodeNotAnImage:       "File is not an image",
	models.CodeConversionFailed: "Error processing file",
	models.CodeTimeout:          "Conversion timed out",
}

// HandleError sends a standardized error response
func HandleError(w http.ResponseWriter, apiErr *APIError, failed []models.FailedFile) {
	WriteJSON(w, apiErr.Status, models.ErrorResponse{
		Error:  apiErr.Message,
		Code:   apiErr.Code,
		Failed: failed,
	})
}

// WriteJSON sends v as a JSON body with the given status
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().
			Err(err).
			Int("status", status).
			Msg("failed to encode response")
	}
}
