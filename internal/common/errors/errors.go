package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorCode classifies an AppError; the HTTP layer maps it to a status code.
type ErrorCode string

const (
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation   ErrorCode = "VALIDATION_ERROR"
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeBadRequest   ErrorCode = "BAD_REQUEST"

	// Raffle
	ErrCodeAlreadyParticipated ErrorCode = "ALREADY_PARTICIPATED"
	ErrCodeDeviceAlreadyUsed   ErrorCode = "DEVICE_ALREADY_USED"
	ErrCodeAlreadyRegistered   ErrorCode = "ALREADY_REGISTERED"
	ErrCodeAlreadySpun         ErrorCode = "ALREADY_SPUN"
	ErrCodeInvalidReference    ErrorCode = "INVALID_REFERENCE"
	ErrCodeNoActiveCampaign    ErrorCode = "NO_ACTIVE_CAMPAIGN"
	ErrCodeCampaignExpired     ErrorCode = "CAMPAIGN_EXPIRED"
	ErrCodeCampaignNotFound    ErrorCode = "CAMPAIGN_NOT_FOUND"
	ErrCodeNoEligiblePlayers   ErrorCode = "NO_ELIGIBLE_PLAYERS"
	ErrCodeNoParticipants      ErrorCode = "NO_PARTICIPANTS"

	// Storage
	ErrCodeDatabaseError    ErrorCode = "DATABASE_ERROR"
	ErrCodePermissionDenied ErrorCode = "PERMISSION_DENIED"
	ErrCodeCacheError       ErrorCode = "CACHE_ERROR"
)

// AppError carries a user facing message together with the underlying cause.
type AppError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	RequestID string                 `json:"request_id,omitempty"`
	Cause     error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) IsNotFound() bool {
	return e.Code == ErrCodeNotFound ||
		e.Code == ErrCodeCampaignNotFound ||
		e.Code == ErrCodeNoActiveCampaign
}

func (e *AppError) IsValidation() bool {
	return e.Code == ErrCodeValidation || e.Code == ErrCodeBadRequest
}

func (e *AppError) IsUnauthorized() bool {
	return e.Code == ErrCodeUnauthorized || e.Code == ErrCodeForbidden || e.Code == ErrCodePermissionDenied
}

func (e *AppError) IsInternal() bool {
	return e.Code == ErrCodeInternal ||
		e.Code == ErrCodeDatabaseError ||
		e.Code == ErrCodeCacheError
}

func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

func (e *AppError) WithRequestID(requestID string) *AppError {
	e.RequestID = requestID
	return e
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := New(code, message)
	appErr.Cause = err
	return appErr
}

// NewValidationError creates a validation error whose message is shown as is.
func NewValidationError(field, message string) *AppError {
	return New(ErrCodeValidation, message).WithDetail("field", field)
}

// NewUnauthorizedError creates the generic fail-closed admin error.
func NewUnauthorizedError() *AppError {
	return New(ErrCodeUnauthorized, "Não autorizado")
}

func NewDatabaseError(message string, err error) *AppError {
	return Wrap(err, ErrCodeDatabaseError, message)
}

// AsAppError unwraps err down to the first AppError in its chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err is an AppError with the given code.
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}
