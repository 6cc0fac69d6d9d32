package booking

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

// ListMyBookings godoc
// @Summary      List my bookings
// @Description  Returns the caller's class bookings, newest first.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        status    query     string  false  "Filter by status"  Enums(confirmed, waitlist, cancelled, attended)
// @Param        upcoming  query     bool    false  "Only active bookings for classes that have not started"
// @Success      200       {object}  api.SuccessResponse{data=BookingsResponse}
// @Failure      400       {object}  api.ErrorResponse
// @Failure      401       {object}  api.ErrorResponse
// @Router       /api/classes/bookings [get]
func (h *Handler) ListMyBookings(c *gin.Context) {
	userID, ok := auth.MustUserID(c)
	if !ok {
		return
	}

	var filter ListFilter
	if err := api.BindQuery(c, &filter); err != nil {
		api.Fail(c, err)
		return
	}

	bookings, err := h.service.ListMyBookings(c.Request.Context(), userID, filter)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, BookingsResponse{Bookings: bookings})
}

// CreateBooking godoc
// @Summary      Book a class
// @Description  Books a seat on a scheduled class. When the class is full the booking joins the waitlist.
// @Tags         bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      CreateBookingRequest  true  "Schedule to book"
// @Success      201   {object}  api.SuccessResponse{data=BookingResponse}
// @Failure      400   {object}  api.ErrorResponse
// @Failure      404   {object}  api.ErrorResponse
// @Failure      409   {object}  api.ErrorResponse
// @Router       /api/classes/bookings [post]
func (h *Handler) CreateBooking(c *gin.Context) {
	userID, ok := auth.MustUserID(c)
	if !ok {
		return
	}

	var req CreateBookingRequest
	if err := api.BindJSON(c, &req); err != nil {
		api.Fail(c, err)
		return
	}

	booking, err := h.service.CreateBooking(c.Request.Context(), userID, req.ScheduleID)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.Created(c, BookingResponse{Booking: booking})
}

// CancelBooking godoc
// @Summary      Cancel booking
// @Description  Cancels one of the caller's bookings. A freed seat goes to the longest-waiting waitlisted booking.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Booking ID"
// @Success      200  {object}  api.SuccessResponse{data=CancelBookingResponse}
// @Failure      400  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Failure      409  {object}  api.ErrorResponse
// @Router       /api/classes/bookings/{id}/cancel [post]
func (h *Handler) CancelBooking(c *gin.Context) {
	userID, ok := auth.MustUserID(c)
	if !ok {
		return
	}

	bookingID, err := api.ParamID(c, "id")
	if err != nil {
		api.Fail(c, err)
		return
	}

	result, err := h.service.CancelBooking(c.Request.Context(), userID, bookingID)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, CancelBookingResponse{Message: "Booking cancelled successfully", Booking: result.Booking})
}

// ListScheduleBookings godoc
// @Summary      List bookings of a schedule
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Class schedule ID"
// @Success      200  {object}  api.SuccessResponse{data=ScheduleBookingsResponse}
// @Failure      403  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /api/admin/schedules/{id}/bookings [get]
func (h *Handler) ListScheduleBookings(c *gin.Context) {
	scheduleID, err := api.ParamID(c, "id")
	if err != nil {
		api.Fail(c, err)
		return
	}

	bookings, err := h.service.ListScheduleBookings(c.Request.Context(), scheduleID)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, ScheduleBookingsResponse{Bookings: bookings})
}

// MarkAttended godoc
// @Summary      Mark booking attended
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Booking ID"
// @Success      200  {object}  api.SuccessResponse
// @Failure      400  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /api/admin/bookings/{id}/attend [post]
func (h *Handler) MarkAttended(c *gin.Context) {
	bookingID, err := api.ParamID(c, "id")
	if err != nil {
		api.Fail(c, err)
		return
	}

	booking, err := h.service.MarkAttended(c.Request.Context(), bookingID)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, gin.H{"booking": booking})
}
