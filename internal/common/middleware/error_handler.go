package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"spin-raffle-backend/internal/common/errors"
	"spin-raffle-backend/internal/common/logger"
)

const requestIDKey = "request_id"

// ErrorResponse is the body written for every failed request.
type ErrorResponse struct {
	Success   bool             `json:"success"`
	Error     string           `json:"error"`
	Code      errors.ErrorCode `json:"code"`
	Details   map[string]any   `json:"details,omitempty"`
	RequestID string           `json:"request_id"`
	Timestamp time.Time        `json:"timestamp"`
}

// Recovery turns panics into a 500 response.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Ctx(c.Request.Context()).Error().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Interface("panic", recovered).
			Str("stack", string(debug.Stack())).
			Msg("Panic recovered")

		appErr := errors.New(errors.ErrCodeInternal, "Erro interno do servidor").
			WithDetail("panic", fmt.Sprintf("%v", recovered))
		sendErrorResponse(c, appErr)
		c.Abort()
	})
}

// ErrorHandler renders the last error a handler pushed with c.Error.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		appErr, ok := errors.AsAppError(err)
		if !ok {
			appErr = errors.Wrap(err, errors.ErrCodeInternal, err.Error())
		}
		sendErrorResponse(c, appErr)
	}
}

// RequestID propagates X-Request-ID and attaches a request scoped logger.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(requestIDKey, requestID)
		c.Header("X-Request-ID", requestID)
		c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), requestID))
		c.Next()
	}
}

func sendErrorResponse(c *gin.Context, appErr *errors.AppError) {
	requestID := getRequestID(c)
	appErr.WithRequestID(requestID)

	logError(c, appErr)

	c.JSON(HTTPStatus(appErr), ErrorResponse{
		Success:   false,
		Error:     appErr.Message,
		Code:      appErr.Code,
		Details:   publicDetails(appErr),
		RequestID: requestID,
		Timestamp: time.Now(),
	})
}

// HTTPStatus maps an error code to its response status.
func HTTPStatus(appErr *errors.AppError) int {
	switch appErr.Code {
	case errors.ErrCodeValidation, errors.ErrCodeBadRequest, errors.ErrCodeInvalidReference:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeCampaignNotFound, errors.ErrCodeNoActiveCampaign, errors.ErrCodeNoParticipants:
		return http.StatusNotFound
	case errors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case errors.ErrCodeForbidden, errors.ErrCodePermissionDenied:
		return http.StatusForbidden
	case errors.ErrCodeConflict, errors.ErrCodeAlreadyParticipated, errors.ErrCodeAlreadyRegistered,
		errors.ErrCodeAlreadySpun, errors.ErrCodeDeviceAlreadyUsed:
		return http.StatusConflict
	case errors.ErrCodeCampaignExpired:
		return http.StatusGone
	case errors.ErrCodeNoEligiblePlayers:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeCacheError:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// publicDetails hides panic payloads outside debug builds.
func publicDetails(appErr *errors.AppError) map[string]any {
	if len(appErr.Details) == 0 || gin.Mode() == gin.ReleaseMode {
		return nil
	}
	return appErr.Details
}

func logError(c *gin.Context, appErr *errors.AppError) {
	level, msg := zerolog.ErrorLevel, "Application error occurred"
	switch {
	case appErr.IsInternal():
		msg = "Internal error occurred"
	case appErr.IsUnauthorized():
		level, msg = zerolog.WarnLevel, "Unauthorized access attempt"
	case appErr.IsValidation():
		level, msg = zerolog.InfoLevel, "Validation error"
	case appErr.IsNotFound():
		level, msg = zerolog.InfoLevel, "Resource not found"
	case appErr.Code != errors.ErrCodeInternal:
		level, msg = zerolog.InfoLevel, "Request rejected"
	}

	event := logger.Ctx(c.Request.Context()).WithLevel(level)
	event = event.
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Str("error_code", string(appErr.Code)).
		Str("error_message", appErr.Message)
	if appErr.Cause != nil {
		event = event.Err(appErr.Cause)
	}
	if len(appErr.Details) > 0 {
		event = event.Interface("details", appErr.Details)
	}
	event.Msg(msg)
}

func getRequestID(c *gin.Context) string {
	if requestID, exists := c.Get(requestIDKey); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return "unknown"
}
