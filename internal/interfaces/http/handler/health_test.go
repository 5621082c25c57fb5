package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler(t *testing.T) {
	t.Run("all checks pass", func(t *testing.T) {
		h := NewHealthHandler("1.2.0", map[string]HealthCheck{
			"database": func(context.Context) error { return nil },
		})
		router := newRouter()
		router.GET("/health", h.Health)

		w := perform(router, http.MethodGet, "/health", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"ok"`)
		assert.Contains(t, w.Body.String(), `"version":"1.2.0"`)
		assert.Contains(t, w.Body.String(), `"database":"ok"`)
	})

	t.Run("failing check degrades", func(t *testing.T) {
		h := NewHealthHandler("1.2.0", map[string]HealthCheck{
			"database": func(context.Context) error { return nil },
			"redis":    func(context.Context) error { return errors.New("connection refused") },
		})
		router := newRouter()
		router.GET("/health", h.Health)

		w := perform(router, http.MethodGet, "/health", "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		resp := decodeResponse(t, w)
		assert.False(t, resp.Success)
		assert.Contains(t, w.Body.String(), `"redis":"connection refused"`)
	})
}
