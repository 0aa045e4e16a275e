package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// AppError is the application error type carried up to the HTTP layer
type AppError struct {
	Raw       error
	HTTPCode  int
	Code      ErrorCode
	Message   string
	Details   map[string]string
	Timestamp time.Time
}

// Error implements error interface
func (e AppError) Error() string {
	if e.Raw != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code.String(), e.Message, e.Raw)
	}
	return fmt.Sprintf("[%s] %s", e.Code.String(), e.Message)
}

// Unwrap exposes the underlying cause to errors.Is / errors.As
func (e AppError) Unwrap() error {
	return e.Raw
}

// WithDetail adds a detail to the error
func (e AppError) WithDetail(key, value string) AppError {
	details := make(map[string]string, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	e.Details = details
	return e
}

// CodeOf returns the code of the first AppError in err's chain, or
// ErrorCode_INTERNAL when there is none.
func CodeOf(err error) ErrorCode {
	var appErr AppError
	if stdErrors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrorCode_INTERNAL
}

// HasCode reports whether err carries an AppError with the given code
func HasCode(err error, code ErrorCode) bool {
	var appErr AppError
	return stdErrors.As(err, &appErr) && appErr.Code == code
}

// IsEngineError reports whether err is a transcription or summarization failure
func IsEngineError(err error) bool {
	code := CodeOf(err)
	return code == ErrorCode_TRANSCRIPTION_FAILED || code == ErrorCode_SUMMARIZATION_FAILED
}

// General Errors
func ErrInternal(err error) AppError {
	return AppError{
		Raw:       err,
		HTTPCode:  http.StatusInternalServerError,
		Code:      ErrorCode_INTERNAL,
		Message:   "Internal server error",
		Timestamp: time.Now(),
	}
}

func ErrInvalidArgument(message string) AppError {
	return AppError{
		HTTPCode:  http.StatusBadRequest,
		Code:      ErrorCode_INVALID_ARGUMENT,
		Message:   message,
		Timestamp: time.Now(),
	}
}

func ErrInvalidPayload() AppError {
	return AppError{
		HTTPCode:  http.StatusBadRequest,
		Code:      ErrorCode_INVALID_PAYLOAD,
		Message:   "Invalid payload",
		Timestamp: time.Now(),
	}
}

func ErrNotFound(resource string) AppError {
	return AppError{
		HTTPCode:  http.StatusNotFound,
		Code:      ErrorCode_NOT_FOUND,
		Message:   fmt.Sprintf("%s not found", resource),
		Timestamp: time.Now(),
	}
}

func ErrForbidden(message string) AppError {
	return AppError{
		HTTPCode:  http.StatusForbidden,
		Code:      ErrorCode_FORBIDDEN,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// Authentication Errors
func ErrUnauthenticated() AppError {
	return AppError{
		HTTPCode:  http.StatusUnauthorized,
		Code:      ErrorCode_UNAUTHENTICATED,
		Message:   "Authentication required",
		Timestamp: time.Now(),
	}
}

func ErrInvalidToken(err error) AppError {
	return AppError{
		Raw:       err,
		HTTPCode:  http.StatusUnauthorized,
		Code:      ErrorCode_AUTH_INVALID_TOKEN,
		Message:   "Invalid authentication token",
		Timestamp: time.Now(),
	}
}

func ErrTokenExpired() AppError {
	return AppError{
		HTTPCode:  http.StatusUnauthorized,
		Code:      ErrorCode_AUTH_TOKEN_EXPIRED,
		Message:   "Authentication token has expired",
		Timestamp: time.Now(),
	}
}

// Meeting pipeline errors
func ErrMeetingInvalidState(meetingID, currentState string, expectedStates ...string) AppError {
	return AppError{
		HTTPCode:  http.StatusConflict,
		Code:      ErrorCode_MEETING_INVALID_STATE,
		Message:   "Meeting is in invalid state",
		Timestamp: time.Now(),
	}.WithDetail("meeting_id", meetingID).
		WithDetail("current_state", currentState).
		WithDetail("expected_state", strings.Join(expectedStates, ","))
}

func ErrActionItemInvalidState(itemID, currentState string) AppError {
	return AppError{
		HTTPCode:  http.StatusConflict,
		Code:      ErrorCode_ACTION_ITEM_INVALID_STATE,
		Message:   "Action item has already been handled",
		Timestamp: time.Now(),
	}.WithDetail("action_item_id", itemID).
		WithDetail("current_state", currentState)
}

func ErrArtifactUnavailable(ref string, err error) AppError {
	return AppError{
		Raw:       err,
		HTTPCode:  http.StatusUnprocessableEntity,
		Code:      ErrorCode_ARTIFACT_UNAVAILABLE,
		Message:   "Recording is unavailable in storage",
		Timestamp: time.Now(),
	}.WithDetail("artifact_ref", ref)
}

func ErrPayloadTooLarge(size, limit int64) AppError {
	return AppError{
		HTTPCode: http.StatusRequestEntityTooLarge,
		Code:     ErrorCode_PAYLOAD_TOO_LARGE,
		Message: fmt.Sprintf("Recording is too large (%s, maximum %s)",
			humanize.IBytes(uint64(size)), humanize.IBytes(uint64(limit))),
		Timestamp: time.Now(),
	}.WithDetail("size_bytes", fmt.Sprintf("%d", size)).
		WithDetail("limit_bytes", fmt.Sprintf("%d", limit))
}

// ErrDurationTooLong reports a recording longer than the processing limit
func ErrDurationTooLong(duration, limit time.Duration) AppError {
	return AppError{
		HTTPCode:  http.StatusRequestEntityTooLarge,
		Code:      ErrorCode_PAYLOAD_TOO_LARGE,
		Message:   fmt.Sprintf("Recording is too long (%s, maximum %s)", duration.Round(time.Second), limit),
		Timestamp: time.Now(),
	}.WithDetail("duration_seconds", fmt.Sprintf("%.0f", duration.Seconds())).
		WithDetail("limit_seconds", fmt.Sprintf("%.0f", limit.Seconds()))
}

func ErrUnsupportedMedia(ext string, allowed []string) AppError {
	return AppError{
		HTTPCode:  http.StatusBadRequest,
		Code:      ErrorCode_UNSUPPORTED_MEDIA,
		Message:   fmt.Sprintf("Unsupported file format. Allowed: %s", strings.Join(allowed, ", ")),
		Timestamp: time.Now(),
	}.WithDetail("extension", ext)
}

// AI engine errors
func ErrTranscriptionFailed(err error) AppError {
	return AppError{
		Raw:       err,
		HTTPCode:  http.StatusBadGateway,
		Code:      ErrorCode_TRANSCRIPTION_FAILED,
		Message:   "Audio transcription failed",
		Timestamp: time.Now(),
	}
}

func ErrSummarizationFailed(err error) AppError {
	return AppError{
		Raw:       err,
		HTTPCode:  http.StatusBadGateway,
		Code:      ErrorCode_SUMMARIZATION_FAILED,
		Message:   "Failed to generate summary",
		Timestamp: time.Now(),
	}
}

// Integration Errors
func ErrStorageFailed(operation string, err error) AppError {
	return AppError{
		Raw:       err,
		HTTPCode:  http.StatusInternalServerError,
		Code:      ErrorCode_INTEGRATION_STORAGE_FAILED,
		Message:   fmt.Sprintf("Storage operation failed: %s", operation),
		Timestamp: time.Now(),
	}
}

func ErrQueueFailed(operation string, err error) AppError {
	return AppError{
		Raw:       err,
		HTTPCode:  http.StatusServiceUnavailable,
		Code:      ErrorCode_INTEGRATION_QUEUE_FAILED,
		Message:   fmt.Sprintf("Job queue operation failed: %s", operation),
		Timestamp: time.Now(),
	}
}

// Database Errors
func ErrDBQueryFailed(query string, err error) AppError {
	return AppError{
		Raw:       err,
		HTTPCode:  http.StatusInternalServerError,
		Code:      ErrorCode_DB_QUERY_FAILED,
		Message:   "Database query failed",
		Timestamp: time.Now(),
	}.WithDetail("query", query)
}

func ErrDBTransactionFailed(err error) AppError {
	return AppError{
		Raw:       err,
		HTTPCode:  http.StatusInternalServerError,
		Code:      ErrorCode_DB_TRANSACTION_FAILED,
		Message:   "Database transaction failed",
		Timestamp: time.Now(),
	}
}
