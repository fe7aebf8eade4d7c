package bootstrap_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	infralogger "github.com/jonesrussell/north-cloud/content-feed/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/content-feed/internal/bootstrap"
	"github.com/jonesrussell/north-cloud/content-feed/internal/config"
	"github.com/jonesrussell/north-cloud/content-feed/internal/events"
	"github.com/jonesrussell/north-cloud/content-feed/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupEventPublisher_Disabled(t *testing.T) {
	t.Parallel()

	client, pub := bootstrap.SetupEventPublisher(&config.Config{}, infralogger.NewNop(), nil)

	assert.Nil(t, client)
	assert.Nil(t, pub)
	assert.NoError(t, bootstrap.CloseEventPublisher(client, pub, infralogger.NewNop()))
}

func TestCloseEventPublisher_DeliversPendingEvents(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	cfg := &config.Config{Redis: config.RedisConfig{Enabled: true, Address: mr.Addr()}}
	log := infralogger.NewNop()

	client, pub := bootstrap.SetupEventPublisher(cfg, log, nil)
	require.NotNil(t, client)
	require.NotNil(t, pub)

	item := &models.ContentItem{ID: 7, Type: models.ContentTypeWordPress, URL: "https://blog.example.com/a", Active: true}
	pub.PublishAsync(context.Background(), events.NewItemEvent(events.ItemActivated, item))
	pub.PublishAsync(context.Background(), events.NewItemEvent(events.ItemMetadataRefreshed, item))

	require.NoError(t, bootstrap.CloseEventPublisher(client, pub, log))

	fresh := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = fresh.Close() })
	n, err := fresh.XLen(context.Background(), events.StreamName).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
