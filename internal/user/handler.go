package user

import (
	"fitclub/internal/api"
	"fitclub/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Me godoc
// @Summary      Current user profile
// @Description  Returns the caller's profile. The profile is created on first access (201).
// @Tags         auth
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  api.SuccessResponse{data=ProfileResponse}
// @Success      201  {object}  api.SuccessResponse{data=ProfileResponse}
// @Failure      401  {object}  api.ErrorResponse
// @Router       /api/auth/me [get]
func (h *Handler) Me(c *gin.Context) {
	userID, ok := auth.MustUserID(c)
	if !ok {
		return
	}

	profile, created, err := h.service.GetOrCreate(c.Request.Context(), userID, auth.GetUserEmail(c))
	if err != nil {
		api.Fail(c, err)
		return
	}

	if created {
		api.Created(c, ProfileResponse{User: profile})
		return
	}
	api.OK(c, ProfileResponse{User: profile})
}

// UpdateProfile godoc
// @Summary      Update profile
// @Description  Partial update; omitted fields are left unchanged.
// @Tags         auth
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      UpdateProfileRequest  true  "Profile fields"
// @Success      200      {object}  api.SuccessResponse{data=ProfileResponse}
// @Failure      400      {object}  api.ErrorResponse
// @Router       /api/auth/profile [patch]
func (h *Handler) UpdateProfile(c *gin.Context) {
	userID, ok := auth.MustUserID(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := api.BindJSON(c, &req); err != nil {
		api.Fail(c, err)
		return
	}

	profile, err := h.service.UpdateProfile(c.Request.Context(), userID, auth.GetUserEmail(c), req)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, ProfileResponse{User: profile})
}

// Onboarding godoc
// @Summary      Complete onboarding
// @Tags         auth
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      OnboardingRequest  true  "Onboarding answers"
// @Success      200      {object}  api.SuccessResponse{data=ProfileResponse}
// @Failure      400      {object}  api.ErrorResponse
// @Router       /api/auth/onboarding [post]
func (h *Handler) Onboarding(c *gin.Context) {
	userID, ok := auth.MustUserID(c)
	if !ok {
		return
	}

	var req OnboardingRequest
	if err := api.BindJSON(c, &req); err != nil {
		api.Fail(c, err)
		return
	}

	profile, err := h.service.CompleteOnboarding(c.Request.Context(), userID, auth.GetUserEmail(c), req)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, ProfileResponse{User: profile, Message: "Onboarding completed successfully"})
}
