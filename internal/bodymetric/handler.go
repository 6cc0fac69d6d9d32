package bodymetric

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
// @Summary      List body metrics
// @Description  Newest first. A date-only endDate includes that whole day.
// @Tags         metrics
// @Security     BearerAuth
// @Produce      json
// @Param        startDate  query     string  false  "From (YYYY-MM-DD or RFC 3339)"
// @Param        endDate    query     string  false  "To (YYYY-MM-DD or RFC 3339)"
// @Success      200        {object}  api.SuccessResponse{data=MetricsResponse}
// @Failure      400        {object}  api.ErrorResponse
// @Router       /api/metrics [get]
func (h *Handler) List(c *gin.Context) {
	userID, ok := auth.MustUserID(c)
	if !ok {
		return
	}

	var query ListQuery
	if err := api.BindQuery(c, &query); err != nil {
		api.Fail(c, err)
		return
	}

	metrics, err := h.service.List(c.Request.Context(), userID, query)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, MetricsResponse{Metrics: metrics})
}

// Trends godoc
// @Summary      Body metric trends
// @Tags         metrics
// @Security     BearerAuth
// @Produce      json
// @Param        days  query     int  false  "Lookback window in days (default 30)"
// @Success      200   {object}  api.SuccessResponse{data=TrendsResponse}
// @Router       /api/metrics/trends [get]
func (h *Handler) Trends(c *gin.Context) {
	userID, ok := auth.MustUserID(c)
	if !ok {
		return
	}

	var query TrendsQuery
	if err := api.BindQuery(c, &query); err != nil {
		api.Fail(c, err)
		return
	}

	trends, err := h.service.Trends(c.Request.Context(), userID, query.Days)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, trends)
}

// Get godoc
// @Summary      Get body metric
// @Tags         metrics
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Metric ID"
// @Success      200  {object}  api.SuccessResponse{data=MetricResponse}
// @Failure      404  {object}  api.ErrorResponse
// @Router       /api/metrics/{id} [get]
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

	m, err := h.service.Get(c.Request.Context(), userID, id)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, MetricResponse{Metric: m})
}

// Create godoc
// @Summary      Record body metric
// @Tags         metrics
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      MetricRequest  true  "Measurement"
// @Success      201      {object}  api.SuccessResponse{data=MetricResponse}
// @Failure      400      {object}  api.ErrorResponse
// @Router       /api/metrics [post]
func (h *Handler) Create(c *gin.Context) {
	userID, ok := auth.MustUserID(c)
	if !ok {
		return
	}

	var req MetricRequest
	if err := api.BindJSON(c, &req); err != nil {
		api.Fail(c, err)
		return
	}

	m, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.Created(c, MetricResponse{Metric: m})
}

// Update godoc
// @Summary      Replace body metric
// @Tags         metrics
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      int            true  "Metric ID"
// @Param        request  body      MetricRequest  true  "Measurement"
// @Success      200      {object}  api.SuccessResponse{data=MetricResponse}
// @Failure      400      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Router       /api/metrics/{id} [patch]
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

	var req MetricRequest
	if err := api.BindJSON(c, &req); err != nil {
		api.Fail(c, err)
		return
	}

	m, err := h.service.Update(c.Request.Context(), userID, id, req)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, MetricResponse{Metric: m})
}

// Delete godoc
// @Summary      Delete body metric
// @Tags         metrics
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Metric ID"
// @Success      200  {object}  api.SuccessResponse{data=api.MessageResponse}
// @Failure      404  {object}  api.ErrorResponse
// @Router       /api/metrics/{id} [delete]
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

	api.OK(c, api.MessageResponse{Message: "Body metric deleted successfully"})
}
