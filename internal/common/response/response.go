// Package response writes the {success, message, data} envelope every
// endpoint answers with.
package response

import (
	"net/http"

	"franchise-service/internal/common/errors"

	"github.com/gin-gonic/gin"
)

// Envelope is the uniform response body.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

// ErrorBody carries the machine-readable part of a failure.
type ErrorBody struct {
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

// OK writes a 200 success envelope.
func OK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

// Error normalizes err, logs it through h and writes the failure envelope.
// Server errors never expose their details.
func Error(c *gin.Context, h *errors.ErrorHandler, operation string, err error) {
	status, stdErr := h.Handle(operation, err)

	body := &ErrorBody{Code: string(stdErr.Code)}
	message := stdErr.Message
	if status < http.StatusInternalServerError {
		body.Details = stdErr.Details
	} else {
		message = "서버 오류가 발생했습니다"
	}

	c.JSON(status, Envelope{Success: false, Message: message, Error: body})
}
