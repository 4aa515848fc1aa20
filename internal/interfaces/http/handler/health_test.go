package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakePinger struct {
	err error
}

func (f *fakePinger) Ping() error { return f.err }

func newHealthEngine(db Pinger) *gin.Engine {
	engine := gin.New()
	NewHealthHandler(db).RegisterRoutes(engine)
	return engine
}

func TestHealthLiveness(t *testing.T) {
	engine := newHealthEngine(&fakePinger{})

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestHealthReadiness(t *testing.T) {
	t.Run("ready when database responds", func(t *testing.T) {
		engine := newHealthEngine(&fakePinger{})

		req := httptest.NewRequest("GET", "/readyz", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"ready"}`, w.Body.String())
	})

	t.Run("unavailable when database is unreachable", func(t *testing.T) {
		engine := newHealthEngine(&fakePinger{err: assert.AnError})

		req := httptest.NewRequest("GET", "/readyz", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.JSONEq(t, `{"status":"unavailable","reason":"database unreachable"}`, w.Body.String())
	})

	t.Run("nil database is tolerated", func(t *testing.T) {
		engine := newHealthEngine(nil)

		req := httptest.NewRequest("GET", "/readyz", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
