package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/notification-api/pkg/errors"
)

// Response wraps all API responses
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *Error      `json:"error,omitempty"`
}

// Error represents API error
type Error struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable,omitempty"`
}

// RespondWithSuccess sends a success response
func RespondWithSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// RespondWithError sends an error response mapped from the render taxonomy
func RespondWithError(c *gin.Context, err error) {
	status := statusFor(err)

	message := "internal server error"
	if appErr, ok := err.(*errors.AppError); ok {
		message = appErr.Message
	}

	c.JSON(status, Response{
		Success: false,
		Error: &Error{
			Code:      status,
			Message:   message,
			Retryable: errors.IsRetryable(err),
		},
	})
}

func statusFor(err error) int {
	if errors.IsRetryable(err) {
		return http.StatusServiceUnavailable
	}
	switch errors.Code(err) {
	case errors.ErrTemplateNotFound, errors.ErrDraftNotFound:
		return http.StatusNotFound
	case errors.ErrTemplateRendering:
		return http.StatusUnprocessableEntity
	case errors.ErrBadRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
