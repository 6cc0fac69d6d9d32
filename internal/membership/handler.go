package membership

import (
	"net/http"

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

// List godoc
// @Summary      List my memberships
// @Tags         memberships
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  api.SuccessResponse{data=MembershipsResponse}
// @Failure      401  {object}  api.ErrorResponse
// @Router       /api/memberships [get]
func (h *Handler) List(c *gin.Context) {
	userID, ok := auth.MustUserID(c)
	if !ok {
		return
	}

	memberships, err := h.service.List(c.Request.Context(), userID)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, MembershipsResponse{Memberships: memberships})
}

// Active godoc
// @Summary      Get active membership
// @Description  Returns the caller's active membership, or null.
// @Tags         memberships
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  api.SuccessResponse{data=MembershipResponse}
// @Failure      401  {object}  api.ErrorResponse
// @Router       /api/memberships/active [get]
func (h *Handler) Active(c *gin.Context) {
	userID, ok := auth.MustUserID(c)
	if !ok {
		return
	}

	m, err := h.service.Active(c.Request.Context(), userID)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, MembershipResponse{Membership: m})
}

// ActiveQR godoc
// @Summary      Membership QR badge
// @Description  PNG QR code scanned at the gym entrance.
// @Tags         memberships
// @Security     BearerAuth
// @Produce      png
// @Success      200  {file}    binary
// @Failure      400  {object}  api.ErrorResponse
// @Router       /api/memberships/active/qr [get]
func (h *Handler) ActiveQR(c *gin.Context) {
	userID, ok := auth.MustUserID(c)
	if !ok {
		return
	}

	png, err := h.service.QRCode(c.Request.Context(), userID)
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}

// Plans godoc
// @Summary      List membership plans
// @Tags         memberships
// @Produce      json
// @Success      200  {object}  api.SuccessResponse{data=PlansResponse}
// @Router       /api/memberships/plans [get]
func (h *Handler) Plans(c *gin.Context) {
	api.OK(c, PlansResponse{Plans: Plans()})
}

// Upgrade godoc
// @Summary      Change membership plan
// @Description  Switches the active membership to another plan and reports the prorated difference for the rest of the cycle.
// @Tags         memberships
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      UpgradeRequest  true  "Target plan"
// @Success      200   {object}  api.SuccessResponse{data=UpgradeResult}
// @Failure      400   {object}  api.ErrorResponse
// @Router       /api/memberships/upgrade [post]
func (h *Handler) Upgrade(c *gin.Context) {
	userID, ok := auth.MustUserID(c)
	if !ok {
		return
	}

	var req UpgradeRequest
	if err := api.BindJSON(c, &req); err != nil {
		api.Fail(c, err)
		return
	}

	result, err := h.service.Upgrade(c.Request.Context(), userID, req.NewPlanType)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, result)
}
