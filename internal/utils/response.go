package utils

import (
	"encoding/json"
	"net/http"

	"finmatch-backend/internal/dto"
)

// WriteJSONResponse writes a JSON response to the HTTP response writer
func WriteJSONResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteErrorResponse writes an error body of the form {"error": ..., "message": ...}
func WriteErrorResponse(w http.ResponseWriter, status int, errMsg, message string) {
	WriteJSONResponse(w, status, dto.ErrorResponse{Error: errMsg, Message: message})
}

// WriteValidationResponse writes a 400 carrying per-field messages
func WriteValidationResponse(w http.ResponseWriter, errMsg string, fields map[string]string) {
	WriteJSONResponse(w, http.StatusBadRequest, dto.ErrorResponse{Error: errMsg, Fields: fields})
}
