package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newCORSEngine(origins []string) *gin.Engine {
	engine := gin.New()
	engine.Use(CORS(origins), SecurityHeaders())
	engine.GET("/api/links/export", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	engine.OPTIONS("/api/links/export", func(c *gin.Context) {})
	return engine
}

func corsRequest(engine *gin.Engine, method, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/api/links/export", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestCORS(t *testing.T) {
	engine := newCORSEngine([]string{"https://admin.example.com"})

	t.Run("allowed origin", func(t *testing.T) {
		w := corsRequest(engine, http.MethodGet, "https://admin.example.com")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "https://admin.example.com", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("preflight", func(t *testing.T) {
		w := corsRequest(engine, http.MethodOptions, "https://admin.example.com")
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "DELETE")
	})

	t.Run("unknown origin", func(t *testing.T) {
		w := corsRequest(engine, http.MethodGet, "https://evil.example.com")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

		w = corsRequest(engine, http.MethodOptions, "https://evil.example.com")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("same origin", func(t *testing.T) {
		w := corsRequest(engine, http.MethodGet, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "no-referrer", w.Header().Get("Referrer-Policy"))
		assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	})
}

func TestCORS_Wildcard(t *testing.T) {
	engine := newCORSEngine([]string{"*"})

	w := corsRequest(engine, http.MethodGet, "https://anywhere.example.com")
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
}
