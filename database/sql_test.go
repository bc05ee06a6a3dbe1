package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/jonwraymond/healthkit/health"
)

func TestSQLIndicator_Check(t *testing.T) {
	tests := []struct {
		name       string
		driver     string
		setupMock  func(sqlmock.Sqlmock)
		wantStatus health.Status
		wantDetail map[string]string
	}{
		{
			name:   "postgres query succeeds",
			driver: "postgres",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("SELECT 1").WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantStatus: health.StatusUp,
		},
		{
			name:   "mysql query succeeds",
			driver: "mysql",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("/* ping */ SELECT 1").WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantStatus: health.StatusUp,
		},
		{
			name:   "query fails",
			driver: "postgres",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("SELECT 1").WillReturnError(errors.New("connection reset by peer"))
			},
			wantStatus: health.StatusDown,
			wantDetail: map[string]string{"error": "connection reset by peer"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
			require.NoError(t, err)
			defer db.Close()

			tt.setupMock(mock)

			ind := NewSQL("db", db, tt.driver)
			detail := ind.Check(context.Background())

			assert.Equal(t, "db", ind.Name())
			assert.Equal(t, tt.wantStatus, detail.Status)
			assert.Equal(t, tt.wantDetail, detail.Details)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSQLIndicator_PingWhenNoQuery(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing()
	mock.ExpectPing().WillReturnError(errors.New("bad connection"))

	ind := NewSQLIndicator("db", db, "")
	assert.Empty(t, ind.Query())

	first := ind.Check(context.Background())
	assert.True(t, first.Equal(health.Up()), "first check = %+v", first)

	second := ind.Check(context.Background())
	assert.Equal(t, health.StatusDown, second.Status)
	msg, ok := second.Get("error")
	assert.True(t, ok)
	assert.Contains(t, msg, "bad connection")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLIndicator_ClosedPool(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	detail := NewSQL("sqlite", db, "sqlite").Check(context.Background())

	assert.Equal(t, health.StatusDown, detail.Status)
	_, ok := detail.Get("error")
	assert.True(t, ok)
}

func TestSQLIndicator_SQLite(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	defer db.Close()

	h := health.NewBuilder().WithIndicator(NewSQL("sqlite", db, "sqlite")).Build()

	details := h.Details(context.Background())
	assert.Equal(t, health.StatusUp, details.Status)
	assert.True(t, details.Components["sqlite"].Equal(health.Up()), "got %+v", details.Components["sqlite"])
}

func TestSQLIndicator_CanceledContext(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	detail := NewSQL("sqlite", db, "sqlite").Check(ctx)
	assert.Equal(t, health.StatusDown, detail.Status)
}
