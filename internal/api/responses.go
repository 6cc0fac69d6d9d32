package api

import (
	"net/http"

	"fitclub/internal/apperr"
	"fitclub/internal/logger"

	"github.com/gin-gonic/gin"
)

// Meta carries pagination hints for list responses.
type Meta struct {
	Page    int  `json:"page,omitempty"`
	Limit   int  `json:"limit,omitempty"`
	Total   int  `json:"total"`
	HasMore bool `json:"hasMore"`
}

type SuccessResponse struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data"`
	Meta    *Meta       `json:"meta,omitempty"`
}

type ErrorBody struct {
	Code    string                 `json:"code" example:"NOT_FOUND"`
	Message string                 `json:"message" example:"Booking not found"`
	Details map[string]interface{} `json:"details,omitempty"`
}

type ErrorResponse struct {
	Success bool      `json:"success" example:"false"`
	Error   ErrorBody `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message" example:"ok"`
}

type HealthResponse struct {
	Status string            `json:"status" example:"ok"`
	Checks map[string]string `json:"checks,omitempty"`
}

func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: data})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, SuccessResponse{Success: true, Data: data})
}

func OKWithMeta(c *gin.Context, data interface{}, meta *Meta) {
	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: data, Meta: meta})
}

// PageMeta builds list metadata from a limit/offset window.
func PageMeta(limit, offset, total int) *Meta {
	page := 1
	if limit > 0 {
		page = offset/limit + 1
	}
	return &Meta{Page: page, Limit: limit, Total: total, HasMore: offset+limit < total}
}

func errorResponse(err error) (int, ErrorResponse) {
	appErr := apperr.From(err)
	body := ErrorResponse{
		Success: false,
		Error: ErrorBody{
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: appErr.Details,
		},
	}
	return appErr.Status(), body
}

// Fail renders err into the error envelope. Server-side failures are logged with their cause.
func Fail(c *gin.Context, err error) {
	status, body := errorResponse(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"code", body.Error.Code,
			"error", err.Error(),
		)
	}
	c.JSON(status, body)
}

// Abort renders err and stops the handler chain.
func Abort(c *gin.Context, err error) {
	status, body := errorResponse(err)
	c.AbortWithStatusJSON(status, body)
}
