package goal

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

// List godoc
// @Summary      List goals
// @Description  Returns the caller's goals, newest first.
// @Tags         goals
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  api.SuccessResponse{data=GoalsResponse}
// @Failure      401  {object}  api.ErrorResponse
// @Router       /api/goals [get]
func (h *Handler) List(c *gin.Context) {
	userID, ok := auth.MustUserID(c)
	if !ok {
		return
	}

	goals, err := h.service.List(c.Request.Context(), userID)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, GoalsResponse{Goals: goals})
}

// Get godoc
// @Summary      Get goal
// @Tags         goals
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Goal ID"
// @Success      200  {object}  api.SuccessResponse{data=GoalResponse}
// @Failure      404  {object}  api.ErrorResponse
// @Router       /api/goals/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	userID, ok := auth.MustUserID(c)
	if !ok {
		return
	}
	id, err := api.ParamID(c, "id")
	if err != nil {
		api.Fail(c, err)
		return
	}

	g, err := h.service.Get(c.Request.Context(), userID, id)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, GoalResponse{Goal: g})
}

// Create godoc
// @Summary      Create goal
// @Description  The target date must be after the start date.
// @Tags         goals
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateGoalRequest  true  "Goal"
// @Success      201      {object}  api.SuccessResponse{data=GoalResponse}
// @Failure      400      {object}  api.ErrorResponse
// @Router       /api/goals [post]
func (h *Handler) Create(c *gin.Context) {
	userID, ok := auth.MustUserID(c)
	if !ok {
		return
	}

	var req CreateGoalRequest
	if err := api.BindJSON(c, &req); err != nil {
		api.Fail(c, err)
		return
	}

	g, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.Created(c, GoalResponse{Goal: g})
}

// Update godoc
// @Summary      Update goal
// @Tags         goals
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      int                true  "Goal ID"
// @Param        request  body      UpdateGoalRequest  true  "Fields to change"
// @Success      200      {object}  api.SuccessResponse{data=GoalResponse}
// @Failure      400      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Router       /api/goals/{id} [patch]
func (h *Handler) Update(c *gin.Context) {
	userID, ok := auth.MustUserID(c)
	if !ok {
		return
	}
	id, err := api.ParamID(c, "id")
	if err != nil {
		api.Fail(c, err)
		return
	}

	var req UpdateGoalRequest
	if err := api.BindJSON(c, &req); err != nil {
		api.Fail(c, err)
		return
	}

	g, err := h.service.Update(c.Request.Context(), userID, id, req)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, GoalResponse{Goal: g})
}

// UpdateProgress godoc
// @Summary      Update goal progress
// @Description  Completes the goal when the current value reaches the target.
// @Tags         goals
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      int              true  "Goal ID"
// @Param        request  body      ProgressRequest  true  "Current value"
// @Success      200      {object}  api.SuccessResponse{data=GoalResponse}
// @Failure      400      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Router       /api/goals/{id}/progress [patch]
func (h *Handler) UpdateProgress(c *gin.Context) {
	userID, ok := auth.MustUserID(c)
	if !ok {
		return
	}
	id, err := api.ParamID(c, "id")
	if err != nil {
		api.Fail(c, err)
		return
	}

	var req ProgressRequest
	if err := api.BindJSON(c, &req); err != nil {
		api.Fail(c, err)
		return
	}

	g, err := h.service.UpdateProgress(c.Request.Context(), userID, id, req)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, GoalResponse{Goal: g})
}

// Delete godoc
// @Summary      Delete goal
// @Tags         goals
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Goal ID"
// @Success      200  {object}  api.SuccessResponse{data=api.MessageResponse}
// @Failure      404  {object}  api.ErrorResponse
// @Router       /api/goals/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	userID, ok := auth.MustUserID(c)
	if !ok {
		return
	}
	id, err := api.ParamID(c, "id")
	if err != nil {
		api.Fail(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, id); err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, api.MessageResponse{Message: "Goal deleted successfully"})
}
