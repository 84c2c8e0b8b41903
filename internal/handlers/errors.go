package handlers

import (
	"errors"
	"net/http"

	"finmatch-backend/internal/common"
	"finmatch-backend/internal/utils"
)

const maxBodyBytes = 1 << 20

var errNoDatabase = errors.New("database not configured")

// writeSignupError maps the pipeline's error taxonomy onto HTTP. Client
// mistakes are 400; everything else is a generic 500 so no internals leak.
func writeSignupError(w http.ResponseWriter, err error) {
	var fields common.FieldErrors
	switch {
	case errors.As(err, &fields):
		utils.WriteValidationResponse(w, "Missing or invalid fields", fields)
	case errors.Is(err, common.ErrValidation):
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Missing or invalid fields", "")
	case errors.Is(err, common.ErrConflict):
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Email already registered",
			"An account with this email already exists. Please sign in instead.")
	default:
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to process signup. Please try again.", "")
	}
}
