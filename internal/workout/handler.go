package workout

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
	Stats stats.WorkoutStats `json:"stats"`
}

// ListExercises godoc
// @Summary      List exercises
// @Tags         workouts
// @Produce      json
// @Param        q             query     string  false  "Name contains"
// @Param        muscleGroup   query     string  false  "Muscle group"
// @Param        exerciseType  query     string  false  "Exercise type"
// @Param        difficulty    query     string  false  "beginner, intermediate or advanced"
// @Success      200           {object}  api.SuccessResponse{data=ExercisesResponse}
// @Failure      400           {object}  api.ErrorResponse
// @Router       /api/workouts/exercises [get]
func (h *Handler) ListExercises(c *gin.Context) {
	var filter ExerciseFilter
	if err := api.BindQuery(c, &filter); err != nil {
		api.Fail(c, err)
		return
	}

	exercises, err := h.service.ListExercises(c.Request.Context(), filter)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, ExercisesResponse{Exercises: exercises})
}

// ListPublic godoc
// @Summary      List public workout templates
// @Tags         workouts
// @Produce      json
// @Success      200  {object}  api.SuccessResponse{data=WorkoutsResponse}
// @Router       /api/workouts/public [get]
func (h *Handler) ListPublic(c *gin.Context) {
	workouts, err := h.service.ListPublicWorkouts(c.Request.Context())
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, WorkoutsResponse{Workouts: workouts})
}

// List godoc
// @Summary      List my workouts
// @Tags         workouts
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  api.SuccessResponse{data=WorkoutsResponse}
// @Router       /api/workouts [get]
func (h *Handler) List(c *gin.Context) {
	userID, ok := auth.MustUserID(c)
	if !ok {
		return
	}

	workouts, err := h.service.ListWorkouts(c.Request.Context(), userID)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, WorkoutsResponse{Workouts: workouts})
}

// Get godoc
// @Summary      Get a workout
// @Description  Returns a workout the caller owns or a public one.
// @Tags         workouts
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Workout ID"
// @Success      200  {object}  api.SuccessResponse{data=WorkoutResponse}
// @Failure      404  {object}  api.ErrorResponse
// @Router       /api/workouts/{id} [get]
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

	w, err := h.service.GetWorkout(c.Request.Context(), userID, id)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, WorkoutResponse{Workout: w})
}

// Create godoc
// @Summary      Create a workout
// @Tags         workouts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      CreateWorkoutRequest  true  "Workout"
// @Success      201   {object}  api.SuccessResponse{data=WorkoutResponse}
// @Failure      400   {object}  api.ErrorResponse
// @Router       /api/workouts [post]
func (h *Handler) Create(c *gin.Context) {
	userID, ok := auth.MustUserID(c)
	if !ok {
		return
	}

	var req CreateWorkoutRequest
	if err := api.BindJSON(c, &req); err != nil {
		api.Fail(c, err)
		return
	}

	w, err := h.service.CreateWorkout(c.Request.Context(), userID, req)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.Created(c, WorkoutResponse{Workout: w})
}

// StartSession godoc
// @Summary      Start a workout session
// @Description  Starts a session, optionally from a workout plan. Only one session can be in progress.
// @Tags         workout-sessions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      StartSessionRequest  false  "Session"
// @Success      201   {object}  api.SuccessResponse{data=SessionResponse}
// @Failure      404   {object}  api.ErrorResponse
// @Failure      409   {object}  api.ErrorResponse
// @Router       /api/workouts/sessions [post]
func (h *Handler) StartSession(c *gin.Context) {
	userID, ok := auth.MustUserID(c)
	if !ok {
		return
	}

	var req StartSessionRequest
	if c.Request.ContentLength > 0 {
		if err := api.BindJSON(c, &req); err != nil {
			api.Fail(c, err)
			return
		}
	}

	session, err := h.service.StartSession(c.Request.Context(), userID, req)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.Created(c, SessionResponse{Session: session})
}

// ActiveSession godoc
// @Summary      Active workout session
// @Description  Returns the in-progress session with its logged sets, or null.
// @Tags         workout-sessions
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  api.SuccessResponse{data=ActiveSessionResponse}
// @Router       /api/workouts/sessions/active [get]
func (h *Handler) ActiveSession(c *gin.Context) {
	userID, ok := auth.MustUserID(c)
	if !ok {
		return
	}

	session, err := h.service.ActiveSession(c.Request.Context(), userID)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, ActiveSessionResponse{Session: session})
}

// LogSet godoc
// @Summary      Log a set
// @Tags         workout-sessions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path      int            true  "Session ID"
// @Param        body  body      LogSetRequest  true  "Set"
// @Success      201   {object}  api.SuccessResponse{data=LogResponse}
// @Failure      400   {object}  api.ErrorResponse
// @Failure      404   {object}  api.ErrorResponse
// @Router       /api/workouts/sessions/{id}/log [post]
func (h *Handler) LogSet(c *gin.Context) {
	userID, ok := auth.MustUserID(c)
	if !ok {
		return
	}
	id, err := api.ParamID(c, "id")
	if err != nil {
		api.Fail(c, err)
		return
	}

	var req LogSetRequest
	if err := api.BindJSON(c, &req); err != nil {
		api.Fail(c, err)
		return
	}

	l, err := h.service.LogSet(c.Request.Context(), userID, id, req)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.Created(c, LogResponse{Log: l})
}

// CompleteSession godoc
// @Summary      Complete a workout session
// @Description  Finishes the session and totals its sets, reps and volume.
// @Tags         workout-sessions
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Session ID"
// @Success      200  {object}  api.SuccessResponse{data=SessionResponse}
// @Failure      404  {object}  api.ErrorResponse
// @Router       /api/workouts/sessions/{id}/complete [post]
func (h *Handler) CompleteSession(c *gin.Context) {
	userID, ok := auth.MustUserID(c)
	if !ok {
		return
	}
	id, err := api.ParamID(c, "id")
	if err != nil {
		api.Fail(c, err)
		return
	}

	session, err := h.service.CompleteSession(c.Request.Context(), userID, id)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, SessionResponse{Session: session, Message: "Workout completed"})
}

// CancelSession godoc
// @Summary      Cancel a workout session
// @Tags         workout-sessions
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Session ID"
// @Success      200  {object}  api.SuccessResponse{data=SessionResponse}
// @Failure      404  {object}  api.ErrorResponse
// @Router       /api/workouts/sessions/{id}/cancel [post]
func (h *Handler) CancelSession(c *gin.Context) {
	userID, ok := auth.MustUserID(c)
	if !ok {
		return
	}
	id, err := api.ParamID(c, "id")
	if err != nil {
		api.Fail(c, err)
		return
	}

	session, err := h.service.CancelSession(c.Request.Context(), userID, id)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, SessionResponse{Session: session, Message: "Session cancelled successfully"})
}

// History godoc
// @Summary      Workout history
// @Description  Completed sessions, newest first.
// @Tags         workout-sessions
// @Security     BearerAuth
// @Produce      json
// @Param        limit      query     int     false  "Page size"  default(20)
// @Param        offset     query     int     false  "Offset"     default(0)
// @Param        startDate  query     string  false  "YYYY-MM-DD"
// @Param        endDate    query     string  false  "YYYY-MM-DD (inclusive)"
// @Success      200        {object}  api.SuccessResponse{data=HistoryResponse}
// @Failure      400        {object}  api.ErrorResponse
// @Router       /api/workouts/history [get]
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

	sessions, total, err := h.service.History(c.Request.Context(), userID, query)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OKWithMeta(c, HistoryResponse{Sessions: sessions, Total: total}, api.PageMeta(query.Limit, query.Offset, total))
}

// Stats godoc
// @Summary      Workout statistics
// @Tags         workout-sessions
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  api.SuccessResponse{data=StatsResponse}
// @Router       /api/workouts/stats [get]
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
