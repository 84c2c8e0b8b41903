package models

import "github.com/google/uuid"

// Identity is the authenticated caller, taken from a verified access token.
type Identity struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
}
