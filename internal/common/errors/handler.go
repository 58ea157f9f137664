// internal/common/errors/handler.go
package errors

import (
	"errors"
)

// ErrorHandler turns errors from services into loggable StandardErrors and
// HTTP status codes.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Handle normalizes err, logs it and returns the status and error to
// respond with. Client errors are logged at warn, everything else at error.
func (h *ErrorHandler) Handle(operation string, err error) (int, *StandardError) {
	stdErr := Normalize(err)
	status := HTTPStatus(stdErr)

	fields := map[string]interface{}{
		"operation":     operation,
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"errorCategory": GetErrorCategory(stdErr.Code),
		"status":        status,
	}
	if status < 500 {
		h.logger.Warn("Request failed", fields)
	} else {
		h.logger.Error("Request failed", fields)
	}

	return status, stdErr
}

// Normalize ensures we always have a StandardError.
func Normalize(err error) *StandardError {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}

	switch {
	case errors.Is(err, ErrFranchiseNotFound):
		e := NewInternalError(err)
		e.Code, e.Message = ErrCodeFranchiseNotFound, "프랜차이즈를 찾을 수 없습니다"
		return e
	case errors.Is(err, ErrInvalidID):
		e := NewInternalError(err)
		e.Code, e.Message = ErrCodeInvalidFranchiseID, "유효하지 않은 프랜차이즈 ID입니다"
		return e
	case errors.Is(err, ErrInvalidFilter):
		e := NewInternalError(err)
		e.Code, e.Message = ErrCodeInvalidFilter, "잘못된 요청 파라미터입니다"
		return e
	case errors.Is(err, ErrDatabase):
		return NewQueryExecutionFailedError("unknown", err)
	}
	return NewInternalError(err)
}
