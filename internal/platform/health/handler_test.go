package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, h *Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	h.Register(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestLiveness(t *testing.T) {
	rec := serve(t, New("test", nil), "/health/live")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"alive"}`, rec.Body.String())
}

func TestReadiness(t *testing.T) {
	t.Run("ready with no checks", func(t *testing.T) {
		rec := serve(t, New("test", nil), "/health/ready")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("reports every check and fails on any error", func(t *testing.T) {
		h := New("test", nil)
		h.RegisterCheck("catalog", func(context.Context) error { return nil })
		h.RegisterCheck("redis", func(context.Context) error { return errors.New("connection refused") })

		rec := serve(t, h, "/health/ready")

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		var resp ReadinessResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "not_ready", resp.Status)
		assert.Equal(t, "up", resp.Checks["catalog"])
		assert.Equal(t, "down: connection refused", resp.Checks["redis"])
	})

	t.Run("checks receive a deadline", func(t *testing.T) {
		h := New("test", nil)
		var hasDeadline bool
		h.RegisterCheck("redis", func(ctx context.Context) error {
			_, hasDeadline = ctx.Deadline()
			return nil
		})

		serve(t, h, "/health/ready")
		assert.True(t, hasDeadline)
	})
}

func TestStatusReportsCatalogSize(t *testing.T) {
	rec := serve(t, New("development", func() int { return 12 }), "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "development", resp.Environment)
	assert.Equal(t, 12, resp.Programs)
}
