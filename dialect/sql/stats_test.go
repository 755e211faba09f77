package sql

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rowbatch/rowbatch/dialect"
)

func TestStatsDriver(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	drv := NewStatsDriver(OpenDB(dialect.Postgres, db))

	mock.ExpectExec("UPDATE users").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	require.NoError(t, drv.Exec(context.Background(), "UPDATE users SET name = $1", []any{"x"}, nil))
	rows := &Rows{}
	require.NoError(t, drv.Query(context.Background(), "SELECT 1", []any{}, rows))
	require.NoError(t, rows.Close())

	stats := drv.QueryStats().Stats()
	assert.Equal(t, int64(1), stats.TotalExecs)
	assert.Equal(t, int64(1), stats.TotalQueries)
	assert.Equal(t, int64(0), stats.Errors)
	assert.Greater(t, stats.TotalDuration, time.Duration(0))
	assert.Greater(t, stats.AvgDuration(), time.Duration(0))
	assert.Contains(t, stats.String(), "execs=1")

	drv.QueryStats().Reset()
	assert.Equal(t, int64(0), drv.QueryStats().Stats().TotalExecs)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsDriverSlowHook(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	var slowQuery string
	drv := NewStatsDriver(OpenDB(dialect.Postgres, db),
		WithSlowThreshold(0), // every statement counts as slow
		WithSlowQueryHook(func(_ context.Context, query string, _ []any, _ time.Duration) {
			slowQuery = query
		}),
	)

	mock.ExpectExec("UPDATE users").WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, drv.Exec(context.Background(), "UPDATE users SET name = $1", []any{"x"}, nil))

	assert.Equal(t, "UPDATE users SET name = $1", slowQuery)
	assert.Equal(t, int64(1), drv.QueryStats().Stats().SlowQueries)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsDriverCountsErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	drv := NewStatsDriver(OpenDB(dialect.Postgres, db))

	mock.ExpectExec("UPDATE users").WillReturnError(assert.AnError)
	require.Error(t, drv.Exec(context.Background(), "UPDATE users SET name = $1", []any{"x"}, nil))
	assert.Equal(t, int64(1), drv.QueryStats().Stats().Errors)
	require.NoError(t, mock.ExpectationsWereMet())
}
