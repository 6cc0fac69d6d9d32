package gym

import (
	"fitclub/internal/api"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{
		service: service,
	}
}

// @Summary      List gyms
// @Description  Active gyms ordered by name
// @Tags         gyms
// @Produce      json
// @Success      200 {object} api.SuccessResponse{data=gym.GymsResponse}
// @Failure      500 {object} api.ErrorResponse
// @Router       /api/gyms [get]
func (h *Handler) ListGyms(c *gin.Context) {
	gyms, err := h.service.GetAllGyms(c.Request.Context())
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, GymsResponse{Gyms: gyms})
}

// @Summary      Get a gym
// @Tags         gyms
// @Produce      json
// @Param        id path int true "Gym ID"
// @Success      200 {object} api.SuccessResponse{data=gym.GymResponse}
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/gyms/{id} [get]
func (h *Handler) GetGym(c *gin.Context) {
	id, err := api.ParamID(c, "id")
	if err != nil {
		api.Fail(c, err)
		return
	}

	gym, err := h.service.GetGymByID(c.Request.Context(), id)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, GymResponse{Gym: gym})
}

// @Summary      Search gyms
// @Description  Matches name, city or address
// @Tags         gyms
// @Produce      json
// @Param        q    query string true  "Search text"
// @Param        city query string false "Exact city"
// @Success      200 {object} api.SuccessResponse{data=gym.SearchResponse}
// @Failure      400 {object} api.ErrorResponse
// @Router       /api/gyms/search [get]
func (h *Handler) SearchGyms(c *gin.Context) {
	var query SearchQuery
	if err := api.BindQuery(c, &query); err != nil {
		api.Fail(c, err)
		return
	}

	gyms, err := h.service.SearchGyms(c.Request.Context(), query)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, SearchResponse{Gyms: gyms, Query: query.Q})
}

// @Summary      Nearby gyms
// @Description  Gyms within radius km of a point, closest first
// @Tags         gyms
// @Produce      json
// @Param        lat    query number true  "Latitude"
// @Param        lng    query number true  "Longitude"
// @Param        radius query number false "Radius in km" default(10)
// @Success      200 {object} api.SuccessResponse{data=gym.NearbyResponse}
// @Failure      400 {object} api.ErrorResponse
// @Router       /api/gyms/nearby [get]
func (h *Handler) NearbyGyms(c *gin.Context) {
	var query NearbyQuery
	if err := api.BindQuery(c, &query); err != nil {
		api.Fail(c, err)
		return
	}

	gyms, err := h.service.NearbyGyms(c.Request.Context(), query)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, NearbyResponse{
		Gyms:     gyms,
		Center:   Center{Lat: *query.Lat, Lng: *query.Lng},
		RadiusKm: query.radius(),
	})
}

// @Summary      List classes
// @Tags         classes
// @Produce      json
// @Param        gymId    query int    false "Gym ID"
// @Param        category query string false "Category"
// @Success      200 {object} api.SuccessResponse{data=gym.ClassesResponse}
// @Failure      400 {object} api.ErrorResponse
// @Router       /api/classes [get]
func (h *Handler) ListClasses(c *gin.Context) {
	var filter ClassFilter
	if err := api.BindQuery(c, &filter); err != nil {
		api.Fail(c, err)
		return
	}

	classes, err := h.service.GetClasses(c.Request.Context(), filter)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, ClassesResponse{Classes: classes})
}

// @Summary      List class schedules
// @Description  Upcoming, non-cancelled sessions with remaining spots
// @Tags         classes
// @Produce      json
// @Param        gymId     query int    false "Gym ID"
// @Param        classId   query int    false "Class ID"
// @Param        date      query string false "Single day (YYYY-MM-DD)"
// @Param        startDate query string false "From day (YYYY-MM-DD)"
// @Param        endDate   query string false "To day, inclusive (YYYY-MM-DD)"
// @Success      200 {object} api.SuccessResponse{data=gym.SchedulesResponse}
// @Failure      400 {object} api.ErrorResponse
// @Router       /api/classes/schedules [get]
func (h *Handler) ListSchedules(c *gin.Context) {
	var filter ScheduleFilter
	if err := api.BindQuery(c, &filter); err != nil {
		api.Fail(c, err)
		return
	}

	schedules, err := h.service.GetSchedules(c.Request.Context(), filter)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, SchedulesResponse{Schedules: schedules})
}

// @Summary      Schedule a class
// @Description  Admin-only: open a bookable session. Capacity defaults to the class maximum.
// @Tags         admin,classes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body gym.CreateScheduleRequest true "Schedule payload"
// @Success      201 {object} api.SuccessResponse{data=gym.ScheduleResponse}
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/admin/schedules [post]
func (h *Handler) CreateSchedule(c *gin.Context) {
	var req CreateScheduleRequest
	if err := api.BindJSON(c, &req); err != nil {
		api.Fail(c, err)
		return
	}

	schedule, err := h.service.CreateSchedule(c.Request.Context(), req)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.Created(c, ScheduleResponse{Schedule: schedule})
}
