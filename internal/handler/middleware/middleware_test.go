//go:build unit

package middleware_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"autoservice-workflow/internal/handler/httperr"
	"autoservice-workflow/internal/handler/middleware"
	"autoservice-workflow/internal/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(routes func(*gin.Engine)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(config.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000"},
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{"Content-Type"},
		MaxAge:       time.Hour,
	}))
	engine.Use(middleware.LoggingMiddleware(config.LogConfig{Level: "error", TimeZone: "UTC", TimeFormat: time.RFC3339}))
	engine.Use(middleware.ErrorHandler())
	routes(engine)
	return engine
}

func TestLoggingMiddleware_RequestID(t *testing.T) {
	var seen string
	engine := newEngine(func(e *gin.Engine) {
		e.GET("/api/appointments/:id", func(c *gin.Context) {
			seen = middleware.GetRequestID(c)
			c.Status(http.StatusNoContent)
		})
	})

	t.Run("generated when absent", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/appointments/42", nil))

		require.NotEmpty(t, seen)
		assert.Equal(t, seen, w.Header().Get(middleware.RequestIDHeader))
	})

	t.Run("upstream id is kept", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/appointments/42", nil)
		req.Header.Set(middleware.RequestIDHeader, "gw-123")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, "gw-123", seen)
		assert.Equal(t, "gw-123", w.Header().Get(middleware.RequestIDHeader))
	})
}

func TestCustomRecovery(t *testing.T) {
	engine := newEngine(func(e *gin.Engine) {
		e.GET("/boom", func(*gin.Context) { panic("mechanic table exploded") })
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-1")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
		Detail map[string]string `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Internal server error", body.Error.Message)
	assert.Equal(t, "req-1", body.Detail["request_id"])
	assert.NotContains(t, w.Body.String(), "exploded")
}

func TestErrorHandler(t *testing.T) {
	engine := newEngine(func(e *gin.Engine) {
		e.GET("/public", func(c *gin.Context) {
			resp := httperr.Response{Status: http.StatusConflict}
			resp.Error.Message = "Conflict"
			_ = c.Error(&gin.Error{Err: errors.New("already invoiced"), Type: gin.ErrorTypePublic, Meta: resp})
		})
		e.GET("/private", func(c *gin.Context) {
			_ = c.Error(errors.New("lost connection"))
		})
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/public", nil))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), `"message":"Conflict"`)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "lost connection")
}

func TestCORS_ExposesWorkflowHeaders(t *testing.T) {
	engine := newEngine(func(e *gin.Engine) {
		e.POST("/api/appointments", func(c *gin.Context) {
			c.Header("Location", "/api/appointments/1")
			c.Status(http.StatusCreated)
		})
	})

	req := httptest.NewRequest(http.MethodPost, "/api/appointments", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	exposed := strings.ToLower(w.Header().Get("Access-Control-Expose-Headers"))
	assert.Contains(t, exposed, "location")
	assert.Contains(t, exposed, "x-request-id")

	preflight := httptest.NewRequest(http.MethodOptions, "/api/appointments", nil)
	preflight.Header.Set("Origin", "http://localhost:3000")
	preflight.Header.Set("Access-Control-Request-Method", http.MethodPost)
	preflight.Header.Set("Access-Control-Request-Headers", "X-Actor-ID")
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, preflight)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, strings.ToLower(w.Header().Get("Access-Control-Allow-Headers")), "x-actor-id")
}
