package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newContext(headers map[string]string) *gin.Context {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	for k, v := range headers {
		c.Request.Header.Set(k, v)
	}
	return c
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Bearer abc", "abc"},
		{"bearer  abc ", "abc"},
		{"Basic abc", ""},
		{"Bearer", ""},
		{"", ""},
	}
	for _, tt := range tests {
		c := newContext(map[string]string{"Authorization": tt.header})
		assert.Equal(t, tt.want, BearerToken(c), tt.header)
	}
}

func TestTokenMatches(t *testing.T) {
	assert.True(t, TokenMatches("authenticated", "authenticated"))
	assert.False(t, TokenMatches("authenticatedX", "authenticated"))
	assert.False(t, TokenMatches("", ""))
	assert.False(t, TokenMatches("x", ""))
}

func TestClientIPAndUserAgent(t *testing.T) {
	c := newContext(map[string]string{"X-Forwarded-For": " 203.0.113.7 , 10.0.0.1", "X-Real-IP": "10.0.0.2"})
	assert.Equal(t, "203.0.113.7", ClientIP(c))

	c = newContext(map[string]string{"X-Real-IP": "10.0.0.2"})
	assert.Equal(t, "10.0.0.2", ClientIP(c))

	c = newContext(nil)
	assert.Equal(t, "unknown", ClientIP(c))
	assert.Equal(t, "unknown", UserAgent(c))

	c = newContext(map[string]string{"User-Agent": "Mozilla/5.0"})
	assert.Equal(t, "Mozilla/5.0", UserAgent(c))
}

func TestRequireAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), ErrorHandler())
	r.GET("/admin", RequireAdmin("secret"), func(c *gin.Context) {
		assert.True(t, c.GetBool(adminKey))
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer secret")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"UNAUTHORIZED"`)
}
