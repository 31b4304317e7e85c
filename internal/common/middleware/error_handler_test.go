package middleware

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spin-raffle-backend/internal/common/errors"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code errors.ErrorCode
		want int
	}{
		{errors.ErrCodeValidation, http.StatusBadRequest},
		{errors.ErrCodeInvalidReference, http.StatusBadRequest},
		{errors.ErrCodeNoActiveCampaign, http.StatusNotFound},
		{errors.ErrCodeNoParticipants, http.StatusNotFound},
		{errors.ErrCodeUnauthorized, http.StatusUnauthorized},
		{errors.ErrCodePermissionDenied, http.StatusForbidden},
		{errors.ErrCodeAlreadySpun, http.StatusConflict},
		{errors.ErrCodeAlreadyParticipated, http.StatusConflict},
		{errors.ErrCodeCampaignExpired, http.StatusGone},
		{errors.ErrCodeNoEligiblePlayers, http.StatusUnprocessableEntity},
		{errors.ErrCodeDatabaseError, http.StatusInternalServerError},
		{errors.ErrCodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(errors.New(tt.code, "x")), string(tt.code))
	}
}

func newErrorRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), ErrorHandler(), Recovery())
	r.GET("/app", func(c *gin.Context) {
		_ = c.Error(errors.New(errors.ErrCodeAlreadySpun, "Você já girou a roleta nesta campanha!"))
	})
	r.GET("/plain", func(c *gin.Context) {
		_ = c.Error(stderrors.New("boom"))
	})
	r.GET("/written", func(c *gin.Context) {
		_ = c.Error(stderrors.New("ignored"))
		c.Status(http.StatusAccepted)
	})
	r.GET("/panic", func(c *gin.Context) {
		panic("kaboom")
	})
	return r
}

func TestErrorHandler(t *testing.T) {
	r := newErrorRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/app", nil)
	req.Header.Set("X-Request-ID", "req-1")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "req-1", w.Header().Get("X-Request-ID"))
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, errors.ErrCodeAlreadySpun, resp.Code)
	assert.Equal(t, "Você já girou a roleta nesta campanha!", resp.Error)
	assert.Equal(t, "req-1", resp.RequestID)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/plain", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/written", nil))
	assert.Equal(t, http.StatusAccepted, w.Code)
}

func TestRecovery(t *testing.T) {
	r := newErrorRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Erro interno do servidor", resp.Error)
	assert.Equal(t, errors.ErrCodeInternal, resp.Code)
}
