package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/licitia/tdranalyzer/internal/domain"
)

// SuccessResponse wraps successful API responses. Filename is set on
// document endpoints so callers can correlate uploads with results.
type SuccessResponse struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data"`
	Timestamp string `json:"timestamp"`
	Filename  string `json:"filename,omitempty"`
}

// ErrorResponse represents an error API response
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// JSON writes a JSON response with the given status code
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// Success writes a successful JSON response
func Success(w http.ResponseWriter, status int, data any) {
	JSON(w, status, SuccessResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// SuccessForFile writes a successful JSON response tagged with the
// originating filename.
func SuccessForFile(w http.ResponseWriter, status int, data any, filename string) {
	JSON(w, status, SuccessResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Filename:  filename,
	})
}

// Error writes an error JSON response
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorResponse{Success: false, Error: message})
}

// DomainErrorToHTTP maps domain errors to HTTP status codes
func DomainErrorToHTTP(err error) int {
	if err == nil {
		return http.StatusOK
	}

	domainErr, ok := err.(*domain.DomainError)
	if !ok {
		return http.StatusInternalServerError
	}

	switch domainErr.Code {
	case domain.ErrCodeConfiguration:
		return http.StatusBadRequest
	case domain.ErrCodeContent:
		return http.StatusBadRequest
	case domain.ErrCodeValidation:
		return http.StatusBadRequest
	case domain.ErrCodeProvider:
		return http.StatusBadGateway
	case domain.ErrCodeBatchDisabled:
		return http.StatusForbidden
	case domain.ErrCodePayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// HandleError writes an appropriate error response based on the error type
func HandleError(w http.ResponseWriter, err error) {
	status := DomainErrorToHTTP(err)
	Error(w, status, err.Error())
}
