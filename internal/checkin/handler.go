package checkin

import (
	"fitclub/internal/api"
	"fitclub/internal/auth"
	"fitclub/internal/stats"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type StatsResponse struct {
	Stats stats.VisitStats `json:"stats"`
}

// CheckIn godoc
// @Summary      Check in to a gym
// @Description  Opens a visit at the given gym. A member can only be checked in once at a time.
// @Tags         check-ins
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      CheckInRequest  true  "Gym"
// @Success      201   {object}  api.SuccessResponse{data=CheckInResponse}
// @Failure      400   {object}  api.ErrorResponse
// @Failure      409   {object}  api.ErrorResponse
// @Router       /api/memberships/check-in [post]
func (h *Handler) CheckIn(c *gin.Context) {
	userID, ok := auth.MustUserID(c)
	if !ok {
		return
	}

	var req CheckInRequest
	if err := api.BindJSON(c, &req); err != nil {
		api.Fail(c, err)
		return
	}

	checkIn, err := h.service.CheckIn(c.Request.Context(), userID, req.GymID)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.Created(c, CheckInResponse{CheckIn: checkIn})
}

// CheckOut godoc
// @Summary      Check out
// @Description  Closes the caller's open visit and records its duration.
// @Tags         check-ins
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      CheckOutRequest  false  "Specific check-in to close"
// @Success      200   {object}  api.SuccessResponse{data=CheckOutResponse}
// @Failure      404   {object}  api.ErrorResponse
// @Router       /api/memberships/check-out [post]
func (h *Handler) CheckOut(c *gin.Context) {
	userID, ok := auth.MustUserID(c)
	if !ok {
		return
	}

	var req CheckOutRequest
	if c.Request.ContentLength > 0 {
		if err := api.BindJSON(c, &req); err != nil {
			api.Fail(c, err)
			return
		}
	}

	checkIn, err := h.service.CheckOut(c.Request.Context(), userID, req.CheckInID)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, CheckOutResponse{
		CheckIn:         checkIn,
		DurationMinutes: *checkIn.DurationMinutes,
		Message:         "Checked out successfully",
	})
}

// Current godoc
// @Summary      Current check-in
// @Description  Returns the caller's open visit, or null.
// @Tags         check-ins
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  api.SuccessResponse{data=CurrentCheckInResponse}
// @Router       /api/memberships/current-check-in [get]
func (h *Handler) Current(c *gin.Context) {
	userID, ok := auth.MustUserID(c)
	if !ok {
		return
	}

	checkIn, err := h.service.Current(c.Request.Context(), userID)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, CurrentCheckInResponse{CheckIn: checkIn})
}

// History godoc
// @Summary      Check-in history
// @Tags         check-ins
// @Security     BearerAuth
// @Produce      json
// @Param        limit   query     int  false  "Page size"  default(20)
// @Param        offset  query     int  false  "Offset"     default(0)
// @Success      200     {object}  api.SuccessResponse{data=HistoryResponse}
// @Failure      400     {object}  api.ErrorResponse
// @Router       /api/memberships/check-in-history [get]
func (h *Handler) History(c *gin.Context) {
	userID, ok := auth.MustUserID(c)
	if !ok {
		return
	}

	var query HistoryQuery
	if err := api.BindQuery(c, &query); err != nil {
		api.Fail(c, err)
		return
	}
	query.normalize()

	checkIns, total, err := h.service.History(c.Request.Context(), userID, query)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OKWithMeta(c, HistoryResponse{CheckIns: checkIns, Total: total}, api.PageMeta(query.Limit, query.Offset, total))
}

// Stats godoc
// @Summary      Visit statistics
// @Tags         check-ins
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  api.SuccessResponse{data=StatsResponse}
// @Router       /api/memberships/check-in-stats [get]
func (h *Handler) Stats(c *gin.Context) {
	userID, ok := auth.MustUserID(c)
	if !ok {
		return
	}

	s, err := h.service.Stats(c.Request.Context(), userID)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, StatsResponse{Stats: s})
}
