package errors

import (
	"fmt"
	"strings"
	"time"
)

type ErrorCode string

const (
	ErrCodeInvalidCriteria        ErrorCode = "INVALID_CRITERIA"
	ErrCodeInvalidFilterFormat    ErrorCode = "INVALID_FILTER_FORMAT"
	ErrCodeInputValidationFailed  ErrorCode = "INPUT_VALIDATION_FAILED"
	ErrCodeGuardNotFound          ErrorCode = "GUARD_NOT_FOUND"
	ErrCodeBookingNotFound        ErrorCode = "BOOKING_NOT_FOUND"
	ErrCodeAvailabilityNotFound   ErrorCode = "AVAILABILITY_NOT_FOUND"
	ErrCodeConcurrentModification ErrorCode = "CONCURRENT_MODIFICATION"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"

	ErrCodeSearchQueryFailed ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeSearchTimeout     ErrorCode = "SEARCH_TIMEOUT"
	ErrCodeIndexNotFound     ErrorCode = "INDEX_NOT_FOUND"

	ErrCodeCacheOperationFailed   ErrorCode = "CACHE_OPERATION_FAILED"
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeEventPublishFailed     ErrorCode = "EVENT_PUBLISH_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// WithMetadata sets a metadata key and returns the same error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

func NewInvalidCriteriaError(details string) *StandardError {
	return newError(ErrCodeInvalidCriteria, "Invalid booking criteria", details, false)
}

func NewInvalidFilterFormatError(details string) *StandardError {
	return newError(ErrCodeInvalidFilterFormat, "Invalid filter format", details, false)
}

func NewInputValidationFailedError(details string) *StandardError {
	return newError(ErrCodeInputValidationFailed, "Job variables failed schema validation", details, false)
}

func NewGuardNotFoundError(guardID string) *StandardError {
	return newError(ErrCodeGuardNotFound, "Guard not found", fmt.Sprintf("guardId: %s", guardID), false)
}

func NewBookingNotFoundError(bookingID string) *StandardError {
	return newError(ErrCodeBookingNotFound, "Booking not found", fmt.Sprintf("bookingId: %s", bookingID), false)
}

func NewAvailabilityNotFoundError(guardID, date string) *StandardError {
	return newError(ErrCodeAvailabilityNotFound, "No availability for guard on date",
		fmt.Sprintf("guardId: %s, date: %s", guardID, date), false)
}

func NewConcurrentModificationError(guardID, date string, attempts int) *StandardError {
	return newError(ErrCodeConcurrentModification, "Availability changed while booking",
		fmt.Sprintf("guardId: %s, date: %s, attempts: %d", guardID, date, attempts), true)
}

func NewDatabaseConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseConnectionFailed, "Database connection error", err.Error(), true)
}

func NewQueryExecutionFailedError(queryType string, err error) *StandardError {
	return newError(ErrCodeQueryExecutionFailed, "Database query execution error",
		fmt.Sprintf("queryType: %s, error: %s", queryType, err.Error()), true)
}

func NewQueryTimeoutError(queryType string) *StandardError {
	return newError(ErrCodeQueryTimeout, "Database query timeout", fmt.Sprintf("queryType: %s", queryType), true)
}

func NewSearchQueryFailedError(queryType string, err error) *StandardError {
	return newError(ErrCodeSearchQueryFailed, "Elasticsearch query error",
		fmt.Sprintf("queryType: %s, error: %s", queryType, err.Error()), true)
}

func NewSearchTimeoutError(queryType string) *StandardError {
	return newError(ErrCodeSearchTimeout, "Elasticsearch query timeout", fmt.Sprintf("queryType: %s", queryType), true)
}

func NewIndexNotFoundError(indexName string) *StandardError {
	return newError(ErrCodeIndexNotFound, "Elasticsearch index not found", fmt.Sprintf("indexName: %s", indexName), false)
}

func NewCacheOperationFailedError(op string, err error) *StandardError {
	return newError(ErrCodeCacheOperationFailed, "Cache operation failed",
		fmt.Sprintf("operation: %s, error: %s", op, err.Error()), true)
}

func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return newError(ErrCodeNotificationSendFailed, "Notification delivery failed",
		fmt.Sprintf("type: %s, error: %s", channel, err.Error()), true)
}

func NewEventPublishFailedError(eventType string, err error) *StandardError {
	return newError(ErrCodeEventPublishFailed, "Event publish failed",
		fmt.Sprintf("eventType: %s, error: %s", eventType, err.Error()), true)
}

func NewExternalServiceError(service string, err error) *StandardError {
	return newError("EXTERNAL_SERVICE_ERROR", fmt.Sprintf("External service '%s' error", service), err.Error(), true)
}

func NewTimeoutError(service string, err error) *StandardError {
	return newError("TIMEOUT_ERROR", fmt.Sprintf("Service '%s' timeout", service), err.Error(), true)
}

var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeInvalidCriteria:          "INVALID_CRITERIA",
	ErrCodeInvalidFilterFormat:      "INVALID_FILTER_FORMAT",
	ErrCodeInputValidationFailed:    "INPUT_VALIDATION_FAILED",
	ErrCodeGuardNotFound:            "GUARD_NOT_FOUND",
	ErrCodeBookingNotFound:          "BOOKING_NOT_FOUND",
	ErrCodeAvailabilityNotFound:     "AVAILABILITY_NOT_FOUND",
	ErrCodeConcurrentModification:   "CONCURRENT_MODIFICATION",
	ErrCodeDatabaseConnectionFailed: "DATABASE_CONNECTION_FAILED",
	ErrCodeQueryExecutionFailed:     "QUERY_EXECUTION_FAILED",
	ErrCodeQueryTimeout:             "QUERY_TIMEOUT",
	ErrCodeSearchQueryFailed:        "SEARCH_QUERY_FAILED",
	ErrCodeSearchTimeout:            "SEARCH_TIMEOUT",
	ErrCodeIndexNotFound:            "INDEX_NOT_FOUND",
	ErrCodeCacheOperationFailed:     "CACHE_OPERATION_FAILED",
	ErrCodeNotificationSendFailed:   "NOTIFICATION_SEND_FAILED",
	ErrCodeEventPublishFailed:       "EVENT_PUBLISH_FAILED",
}

func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseConnectionFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeSearchQueryFailed,
		ErrCodeNotificationSendFailed,
		ErrCodeEventPublishFailed,
		ErrCodeConcurrentModification:
		return 3

	case ErrCodeQueryTimeout,
		ErrCodeSearchTimeout,
		ErrCodeCacheOperationFailed:
		return 2

	case "TIMEOUT_ERROR", "EXTERNAL_SERVICE_ERROR":
		return 1

	default:
		return 0
	}
}

func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           bpmnCode,
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY_"):
		return "DATABASE"
	case strings.Contains(codeStr, "SEARCH") || strings.Contains(codeStr, "INDEX"):
		return "SEARCH"
	case strings.Contains(codeStr, "CACHE"):
		return "CACHE"
	case strings.Contains(codeStr, "NOTIFICATION") || strings.Contains(codeStr, "EVENT"):
		return "MESSAGING"
	case strings.Contains(codeStr, "NOT_FOUND"):
		return "NOT_FOUND"
	case strings.Contains(codeStr, "CONCURRENT"):
		return "CONCURRENCY"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
