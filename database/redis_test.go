package database

import (
	"context"
	"errors"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"

	"github.com/jonwraymond/healthkit/health"
)

func TestRedisIndicator_Check(t *testing.T) {
	tests := []struct {
		name       string
		setupMock  func(redismock.ClientMock)
		wantStatus health.Status
	}{
		{
			name: "ping succeeds",
			setupMock: func(mock redismock.ClientMock) {
				mock.ExpectPing().SetVal("PONG")
			},
			wantStatus: health.StatusUp,
		},
		{
			name: "ping fails",
			setupMock: func(mock redismock.ClientMock) {
				mock.ExpectPing().SetErr(errors.New("dial tcp: connection refused"))
			},
			wantStatus: health.StatusDown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, mock := redismock.NewClientMock()
			defer client.Close()

			tt.setupMock(mock)

			ind := NewRedisIndicator("redis", client)
			detail := ind.Check(context.Background())

			assert.Equal(t, "redis", ind.Name())
			assert.Equal(t, tt.wantStatus, detail.Status)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRedisIndicator_InAggregate(t *testing.T) {
	client, mock := redismock.NewClientMock()
	defer client.Close()
	mock.ExpectPing().SetErr(errors.New("connection refused"))

	h := health.NewBuilder().
		WithIndicator(NewRedisIndicator("redis", client)).
		WithIndicator(health.StaticIndicator("app", health.Up())).
		Build()

	details := h.Details(context.Background())
	assert.Equal(t, health.StatusDown, details.Status)
	assert.Equal(t, "connection refused", details.Components["redis"].Details["error"])
	assert.True(t, details.Components["app"].Equal(health.Up()))
}
