package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"finmatch-backend/internal/common"
	"finmatch-backend/internal/config"
	"finmatch-backend/internal/dto"
	"finmatch-backend/internal/logging"
	"finmatch-backend/internal/middleware"
	"finmatch-backend/internal/models"
	"finmatch-backend/internal/store"
	"finmatch-backend/internal/utils"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	store store.UserStore
	jwt   *config.JWTConfig
	log   logging.Logger
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(s store.UserStore, jwt *config.JWTConfig, log logging.Logger) *AuthHandler {
	if log == nil {
		log = logging.Discard()
	}
	return &AuthHandler{store: s, jwt: jwt, log: log.With("component", "auth")}
}

// Login handles user login
// @Summary Login user
// @Description Authenticate a subscriber with email and password. Trial profiles created without a password cannot sign in.
// @Tags authentication
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.LoginResponse "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	// Validate required fields
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Missing required fields", "Email and password are required")
		return
	}

	p, err := h.store.FindByEmail(r.Context(), req.Email)
	switch {
	case errors.Is(err, common.ErrNotFound):
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Invalid credentials", "Email or password is incorrect")
		return
	case err != nil:
		h.log.Error(r.Context(), "login lookup failed", "error", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Internal server error", "")
		return
	}

	if !p.HasPassword() || !h.store.VerifyPassword(req.Password, *p.PasswordHash) {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Invalid credentials", "Email or password is incorrect")
		return
	}

	token, exp, err := middleware.GenerateToken(models.Identity{UserID: p.ID, Email: p.Email}, h.jwt)
	if err != nil {
		h.log.Error(r.Context(), "token signing failed", "error", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Internal server error", "")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.LoginResponse{
		Token:     token,
		ExpiresAt: exp.UTC().Format(time.RFC3339),
		User:      dto.NewProfileResponse(p),
	})
}
