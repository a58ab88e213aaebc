package common

import (
	"encoding/json"
	"net/http"
)

// ValidationError names one offending request field.
type ValidationError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ErrorBody is the canonical error payload returned by the API.
type ErrorBody struct {
	ErrorMessage     string            `json:"errorMessage"`
	ValidationErrors []ValidationError `json:"validationErrors,omitempty"`
}

// JSON writes the provided value to the response writer as JSON.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// JSONError renders an error response using the canonical error shape.
func JSONError(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorBody{ErrorMessage: message})
}

// JSONValidationFailure renders a 400 naming each offending field.
func JSONValidationFailure(w http.ResponseWriter, errs []ValidationError) {
	JSON(w, http.StatusBadRequest, ErrorBody{
		ErrorMessage:     "validation failure",
		ValidationErrors: errs,
	})
}
