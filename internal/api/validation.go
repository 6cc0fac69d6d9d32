package api

import (
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"fitclub/internal/apperr"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const dateLayout = "2006-01-02"

var registerOnce sync.Once

// RegisterValidators wires json field names and custom tags into gin's validator.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return fld.Name
		})
		_ = v.RegisterValidation("isodate", validateISODate)
	})
}

// validateISODate accepts YYYY-MM-DD or RFC 3339 timestamps.
func validateISODate(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	_, err := ParseDate(s)
	return err == nil
}

// ParseDate parses YYYY-MM-DD (UTC midnight) or an RFC 3339 timestamp.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// BindJSON decodes and validates the request body.
func BindJSON(c *gin.Context, dst interface{}) error {
	RegisterValidators()
	if err := c.ShouldBindJSON(dst); err != nil {
		return validationError(err, "Validation failed")
	}
	return nil
}

// BindQuery decodes and validates query parameters.
func BindQuery(c *gin.Context, dst interface{}) error {
	RegisterValidators()
	if err := c.ShouldBindQuery(dst); err != nil {
		return validationError(err, "Invalid query parameters")
	}
	return nil
}

func validationError(err error, message string) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fieldErrors := make(map[string][]string)
		for _, fe := range verrs {
			fieldErrors[fe.Field()] = append(fieldErrors[fe.Field()], fieldMessage(fe))
		}
		return apperr.ValidationWithDetails(message, map[string]interface{}{
			"fieldErrors": fieldErrors,
			"formErrors":  []string{},
		})
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF), errors.As(err, &syntaxErr):
		return apperr.Validation("Invalid JSON body")
	case errors.As(err, &typeErr):
		return apperr.ValidationWithDetails(message, map[string]interface{}{
			"fieldErrors": map[string][]string{typeErr.Field: {typeErr.Field + " has the wrong type"}},
			"formErrors":  []string{},
		})
	}
	return apperr.Validation(err.Error())
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return field + " must be at least " + fe.Param() + " characters"
		}
		return field + " must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return field + " must be at most " + fe.Param() + " characters"
		}
		return field + " must be at most " + fe.Param()
	case "gt":
		return field + " must be greater than " + fe.Param()
	case "gte":
		return field + " must be greater than or equal to " + fe.Param()
	case "lte":
		return field + " must be less than or equal to " + fe.Param()
	case "oneof":
		return field + " must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "isodate":
		return field + " must be a date (YYYY-MM-DD) or an ISO 8601 timestamp"
	case "gtfield":
		return field + " must be after " + fe.Param()
	default:
		return field + " is invalid"
	}
}

// ParamID parses a positive int64 path parameter.
func ParamID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("Invalid " + name)
	}
	return id, nil
}
