// Package errors provides standardized error handling for the HTTP API and
// the crawler integration.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeFranchiseNotFound  ErrorCode = "FRANCHISE_NOT_FOUND"
	ErrCodeInvalidFranchiseID ErrorCode = "INVALID_FRANCHISE_ID"
	ErrCodeInvalidFilter      ErrorCode = "INVALID_FILTER_FORMAT"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"

	ErrCodeCrawlerRequestFailed ErrorCode = "CRAWLER_REQUEST_FAILED"
	ErrCodeCrawlerUnavailable   ErrorCode = "CRAWLER_UNAVAILABLE"

	ErrCodeWebhookValidationFailed ErrorCode = "WEBHOOK_VALIDATION_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Sentinel errors. Constructors below wrap them so callers can use errors.Is.
var (
	ErrFranchiseNotFound = errors.New("franchise not found")
	ErrInvalidID         = errors.New("invalid franchise id")
	ErrInvalidFilter     = errors.New("invalid filter")
	ErrDatabase          = errors.New("database error")
	ErrCrawler           = errors.New("crawler error")
	ErrInvalidPayload    = errors.New("invalid webhook payload")
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata attaches a key to the error metadata and returns the error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. Error Constructors
// ==========================

// NewFranchiseNotFoundError creates a non-retryable lookup error.
func NewFranchiseNotFoundError(id int64) *StandardError {
	return &StandardError{
		Code:      ErrCodeFranchiseNotFound,
		Message:   "프랜차이즈를 찾을 수 없습니다",
		Details:   fmt.Sprintf("company_id=%d", id),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     ErrFranchiseNotFound,
	}
}

// NewInvalidFranchiseIDError is returned for non-numeric path ids.
func NewInvalidFranchiseIDError(raw string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidFranchiseID,
		Message:   "유효하지 않은 프랜차이즈 ID입니다",
		Details:   fmt.Sprintf("id=%q", raw),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     ErrInvalidID,
	}
}

// NewInvalidFilterFormatError creates a non-retryable validation error.
func NewInvalidFilterFormatError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidFilter,
		Message:   "잘못된 요청 파라미터입니다",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     ErrInvalidFilter,
	}
}

// NewDatabaseConnectionFailedError creates a retryable connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Failed to connect to database",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     fmt.Errorf("%w: %w", ErrDatabase, err),
	}
}

// NewQueryExecutionFailedError creates a retryable query error.
func NewQueryExecutionFailedError(query string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   fmt.Sprintf("Query execution failed: %s", query),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     fmt.Errorf("%w: %w", ErrDatabase, err),
	}
}

// NewQueryTimeoutError is returned when a query exceeds its deadline.
func NewQueryTimeoutError(query string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryTimeout,
		Message:   fmt.Sprintf("Query timed out: %s", query),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     fmt.Errorf("%w: %w", ErrDatabase, err),
	}
}

// NewCrawlerRequestFailedError wraps a failed call to the crawling service.
func NewCrawlerRequestFailedError(endpoint string, statusCode int, err error) *StandardError {
	details := fmt.Sprintf("endpoint=%s status=%d", endpoint, statusCode)
	if err != nil {
		details += ": " + err.Error()
	}
	return &StandardError{
		Code:      ErrCodeCrawlerRequestFailed,
		Message:   "Crawler request failed",
		Details:   details,
		Retryable: statusCode == 0 || statusCode >= 500,
		Metadata:  map[string]interface{}{"endpoint": endpoint, "statusCode": statusCode},
		Timestamp: time.Now().UTC(),
		cause:     wrapCause(ErrCrawler, err),
	}
}

// NewCrawlerUnavailableError reports a failed health probe.
func NewCrawlerUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCrawlerUnavailable,
		Message:   "Crawler service unavailable",
		Details:   errDetails(err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     wrapCause(ErrCrawler, err),
	}
}

// NewWebhookValidationError lists the schema violations of a callback payload.
func NewWebhookValidationError(violations []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeWebhookValidationFailed,
		Message:   "Invalid webhook payload",
		Details:   strings.Join(violations, "; "),
		Retryable: false,
		Metadata:  map[string]interface{}{"violations": violations},
		Timestamp: time.Now().UTC(),
		cause:     ErrInvalidPayload,
	}
}

// NewInternalError wraps an unexpected error.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   errDetails(err),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func wrapCause(sentinel, err error) error {
	if err == nil {
		return sentinel
	}
	return fmt.Errorf("%w: %w", sentinel, err)
}

func errDetails(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// ==========================
// 3. Classification
// ==========================

// HTTPStatus maps any error to the status code the API responds with.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return statusForCode(stdErr.Code)
	}

	switch {
	case errors.Is(err, ErrFranchiseNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidID), errors.Is(err, ErrInvalidFilter), errors.Is(err, ErrInvalidPayload):
		return http.StatusBadRequest
	case errors.Is(err, ErrCrawler):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func statusForCode(code ErrorCode) int {
	switch code {
	case ErrCodeFranchiseNotFound:
		return http.StatusNotFound
	case ErrCodeInvalidFranchiseID, ErrCodeInvalidFilter, ErrCodeWebhookValidationFailed:
		return http.StatusBadRequest
	case ErrCodeCrawlerRequestFailed:
		return http.StatusBadGateway
	case ErrCodeCrawlerUnavailable, ErrCodeDatabaseConnectionFailed:
		return http.StatusServiceUnavailable
	case ErrCodeQueryTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// Retryable reports whether err is a transient failure.
func Retryable(err error) bool {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Retryable
	}
	return false
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY"):
		return "DATABASE"
	case strings.Contains(codeStr, "CRAWLER"):
		return "CRAWLER"
	case strings.Contains(codeStr, "WEBHOOK"):
		return "WEBHOOK"
	case strings.Contains(codeStr, "NOT_FOUND"):
		return "LOOKUP"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
