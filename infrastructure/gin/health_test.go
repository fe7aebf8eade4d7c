package gin_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	ginpkg "github.com/gin-gonic/gin"
	infragin "github.com/jonesrussell/north-cloud/content-feed/infrastructure/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterHealthRoutes(t *testing.T) {
	t.Parallel()

	ok := func() error { return nil }
	fail := func() error { return errors.New("down") }

	tests := []struct {
		name       string
		checks     map[string]infragin.HealthChecker
		wantCode   int
		wantStatus infragin.HealthStatus
	}{
		{"no checks", nil, http.StatusOK, infragin.HealthStatusHealthy},
		{
			"all healthy",
			map[string]infragin.HealthChecker{"database": infragin.PingChecker("Database", infragin.HealthStatusUnhealthy, ok)},
			http.StatusOK, infragin.HealthStatusHealthy,
		},
		{
			"optional dependency down",
			map[string]infragin.HealthChecker{
				"database": infragin.PingChecker("Database", infragin.HealthStatusUnhealthy, ok),
				"redis":    infragin.PingChecker("Redis", infragin.HealthStatusDegraded, fail),
			},
			http.StatusOK, infragin.HealthStatusDegraded,
		},
		{
			"required dependency down",
			map[string]infragin.HealthChecker{
				"database": infragin.PingChecker("Database", infragin.HealthStatusUnhealthy, fail),
				"redis":    infragin.PingChecker("Redis", infragin.HealthStatusDegraded, fail),
			},
			http.StatusServiceUnavailable, infragin.HealthStatusUnhealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router := ginpkg.New()
			infragin.RegisterHealthRoutes(router, infragin.HealthOptions{
				ServiceName:    "content-feed",
				ServiceVersion: "test",
				Checks:         tt.checks,
			})

			w := serve(router, http.MethodGet, "/health", nil)
			require.Equal(t, tt.wantCode, w.Code)

			var resp infragin.HealthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Equal(t, "content-feed", resp.Service)
			assert.Len(t, resp.Checks, len(tt.checks))
		})
	}
}

func TestRegisterHealthRoutes_Head(t *testing.T) {
	t.Parallel()

	router := ginpkg.New()
	infragin.RegisterHealthRoutes(router, infragin.HealthOptions{ServiceName: "content-feed"})

	w := serve(router, http.MethodHead, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
