package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"finmatch-backend/internal/dto"
	"finmatch-backend/internal/signup"
	"finmatch-backend/internal/utils"
)

// SignupService is implemented by *signup.Service.
type SignupService interface {
	Trial(ctx context.Context, req dto.TrialSignupRequest) (*signup.Result, error)
	Subscription(ctx context.Context, req dto.SubscriptionSignupRequest) (*signup.Result, error)
}

type SignupHandler struct {
	svc SignupService
}

func NewSignupHandler(svc SignupService) *SignupHandler {
	return &SignupHandler{svc: svc}
}

// Trial godoc
// @Summary      Free trial signup
// @Description  Creates a profile (password optional), emails a confirmation and alerts the team
// @Tags         signup
// @Accept       json
// @Produce      json
// @Param        payload  body      dto.TrialSignupRequest  true  "Trial signup form"
// @Success      200      {object}  dto.SignupResponse
// @Failure      400      {object}  dto.ErrorResponse  "Missing or invalid fields, or email already registered"
// @Failure      500      {object}  dto.ErrorResponse
// @Router       /api/signup/trial [post]
func (h *SignupHandler) Trial(w http.ResponseWriter, r *http.Request) {
	var req dto.TrialSignupRequest
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := h.svc.Trial(r.Context(), req)
	if err != nil {
		writeSignupError(w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, dto.SignupResponse{Success: true, Message: res.Message})
}

// Subscription godoc
// @Summary      Early-access subscription signup
// @Description  Creates a password-protected profile with a plan, emails a confirmation and alerts the team
// @Tags         signup
// @Accept       json
// @Produce      json
// @Param        payload  body      dto.SubscriptionSignupRequest  true  "Subscription signup form"
// @Success      200      {object}  dto.SignupResponse
// @Failure      400      {object}  dto.ErrorResponse  "Missing or invalid fields, or email already registered"
// @Failure      500      {object}  dto.ErrorResponse
// @Router       /api/signup/subscription [post]
func (h *SignupHandler) Subscription(w http.ResponseWriter, r *http.Request) {
	var req dto.SubscriptionSignupRequest
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := h.svc.Subscription(r.Context(), req)
	if err != nil {
		writeSignupError(w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, dto.SignupResponse{Success: true, Message: res.Message})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", "Body must be a JSON object")
		return false
	}
	return true
}
