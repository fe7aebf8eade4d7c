package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	infracontext "github.com/jonesrussell/north-cloud/content-feed/infrastructure/context"
	infragin "github.com/jonesrussell/north-cloud/content-feed/infrastructure/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundedPing_AppliesPingTimeout(t *testing.T) {
	t.Parallel()

	var deadline time.Time
	var hasDeadline bool
	ping := boundedPing(func(ctx context.Context) error {
		deadline, hasDeadline = ctx.Deadline()
		return nil
	})

	require.NoError(t, ping())
	require.True(t, hasDeadline)
	assert.WithinDuration(t, time.Now().Add(infracontext.DefaultPingTimeout), deadline, time.Second)
}

func TestHealthChecks_RedisOutageDegrades(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	checks := healthChecks(ServerDeps{Redis: client})
	require.Contains(t, checks, "redis")
	assert.Equal(t, infragin.HealthStatusHealthy, checks["redis"]().Status)

	mr.Close()
	assert.Equal(t, infragin.HealthStatusDegraded, checks["redis"]().Status)
}
