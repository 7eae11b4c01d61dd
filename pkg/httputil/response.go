package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jordankom/sofhair/pkg/errors"
)

// Response wraps all API responses
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *Error      `json:"error,omitempty"`
}

// Error represents API error
type Error struct {
	Code      int      `json:"code"`
	Message   string   `json:"message"`
	HoursLeft *float64 `json:"hours_left,omitempty"`
}

// RespondWithSuccess sends a success response
func RespondWithSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Response{
		Success: true,
		Data:    data,
	})
}

// RespondWithError sends an error response mapped from the domain taxonomy.
func RespondWithError(c *gin.Context, err error) {
	appErr := errors.From(err)
	status := statusFor(appErr.Kind)

	if appErr.Kind == errors.KindInternal {
		// keep the chain visible to the error-logging middleware
		_ = c.Error(err)
	}

	c.JSON(status, Response{
		Success: false,
		Error: &Error{
			Code:      status,
			Message:   appErr.Message,
			HoursLeft: appErr.HoursLeft,
		},
	})
}

func statusFor(kind errors.Kind) int {
	switch kind {
	case errors.KindValidation:
		return http.StatusBadRequest
	case errors.KindNotFound:
		return http.StatusNotFound
	case errors.KindInactiveResource:
		return http.StatusUnprocessableEntity
	case errors.KindForbidden:
		return http.StatusForbidden
	case errors.KindConflict, errors.KindNoticeWindow:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
