//nolint:testpackage // exercises the unexported pool setup with sqlmock
package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	infralogger "github.com/jonesrussell/north-cloud/content-feed/infrastructure/logger"
	infraretry "github.com/jonesrussell/north-cloud/content-feed/infrastructure/retry"
	"github.com/jonesrussell/north-cloud/content-feed/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })
	return sqlx.NewDb(mockDB, "postgres"), mock
}

func testConfig(attempts int) config.DatabaseConfig {
	return config.DatabaseConfig{
		MaxOpenConns:    4,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Minute,
		ConnectAttempts: attempts,
	}
}

func TestNewDB_PingsOnce(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	mock.ExpectPing()

	d, err := newDB(context.Background(), db, testConfig(3), infralogger.NewNop())
	require.NoError(t, err)
	assert.Same(t, db, d.DB())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewDB_RetriesTransientFailure(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	mock.ExpectPing().WillReturnError(errors.New("dial tcp: connection refused"))
	mock.ExpectPing()

	_, err := newDB(context.Background(), db, testConfig(3), infralogger.NewNop())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewDB_PermanentFailureStops(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	mock.ExpectPing().WillReturnError(errors.New(`pq: password authentication failed for user "feed"`))

	_, err := newDB(context.Background(), db, testConfig(3), infralogger.NewNop())
	require.Error(t, err)
	assert.NotErrorIs(t, err, infraretry.ErrMaxAttemptsExceeded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewDB_GivesUpAfterAttempts(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	_, err := newDB(context.Background(), db, testConfig(2), infralogger.NewNop())
	require.ErrorIs(t, err, infraretry.ErrMaxAttemptsExceeded)
}

func TestClose_NilPool(t *testing.T) {
	t.Parallel()

	assert.NoError(t, (&DB{}).Close())
}
