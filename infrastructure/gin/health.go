package gin

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthStatus is the aggregate or per-check state.
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  HealthStatus           `json:"status"`
	Service string                 `json:"service"`
	Version string                 `json:"version"`
	Uptime  string                 `json:"uptime"`
	Checks  map[string]CheckResult `json:"checks,omitempty"`
}

// CheckResult is one dependency's state.
type CheckResult struct {
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
	Latency string       `json:"latency,omitempty"`
}

// HealthChecker probes one dependency.
type HealthChecker func() CheckResult

// HealthOptions configures RegisterHealthRoutes.
type HealthOptions struct {
	ServiceName    string
	ServiceVersion string
	StartTime      time.Time
	Checks         map[string]HealthChecker
}

// RegisterHealthRoutes adds GET and HEAD /health. Any unhealthy check turns
// the response into a 503; a degraded one is reported but still 200.
func RegisterHealthRoutes(router gin.IRoutes, opts HealthOptions) {
	if opts.StartTime.IsZero() {
		opts.StartTime = time.Now()
	}

	router.GET("/health", func(c *gin.Context) {
		resp := HealthResponse{
			Status:  HealthStatusHealthy,
			Service: opts.ServiceName,
			Version: opts.ServiceVersion,
			Uptime:  time.Since(opts.StartTime).Truncate(time.Second).String(),
		}

		if len(opts.Checks) > 0 {
			resp.Checks = make(map[string]CheckResult, len(opts.Checks))
			for name, check := range opts.Checks {
				result := check()
				resp.Checks[name] = result
				resp.Status = worse(resp.Status, result.Status)
			}
		}

		code := http.StatusOK
		if resp.Status == HealthStatusUnhealthy {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, resp)
	})

	router.HEAD("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
}

func worse(current, next HealthStatus) HealthStatus {
	switch {
	case next == HealthStatusUnhealthy:
		return HealthStatusUnhealthy
	case next == HealthStatusDegraded && current == HealthStatusHealthy:
		return HealthStatusDegraded
	default:
		return current
	}
}

// PingChecker times pingFunc. A failure maps to failStatus so optional
// dependencies can degrade rather than fail the service.
func PingChecker(name string, failStatus HealthStatus, pingFunc func() error) HealthChecker {
	return func() CheckResult {
		start := time.Now()
		err := pingFunc()
		latency := time.Since(start).String()

		if err != nil {
			return CheckResult{Status: failStatus, Message: name + " connection failed", Latency: latency}
		}
		return CheckResult{Status: HealthStatusHealthy, Message: name + " connection OK", Latency: latency}
	}
}
