package handlers

import (
	"errors"
	"net/http"

	"finmatch-backend/internal/common"
	"finmatch-backend/internal/dto"
	"finmatch-backend/internal/middleware"
	"finmatch-backend/internal/store"
	"finmatch-backend/internal/utils"
)

type ProfileHandler struct {
	store store.UserStore
}

func NewProfileHandler(s store.UserStore) *ProfileHandler {
	return &ProfileHandler{store: s}
}

// Get godoc
// @Summary      Get my profile
// @Description  Returns the signed-in user's profile (requires Bearer JWT)
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.ProfileResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/profile [get]
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "missing user in context")
		return
	}

	p, err := h.store.FindByID(r.Context(), id.UserID)
	switch {
	case errors.Is(err, common.ErrNotFound):
		utils.WriteErrorResponse(w, http.StatusNotFound, "Not Found", "Profile not found")
		return
	case err != nil:
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.NewProfileResponse(p))
}
