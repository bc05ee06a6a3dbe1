package main

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestEffective_RedactsCredentials(t *testing.T) {
	cfg := loadConfig(t, `
auth:
  api_keys: ["ops:s3cret", "bare-key"]
  jwt_secret: "`+testJWTSecret+`"
  show_components: when_authorized
indicators:
  - name: orders
    kind: postgres
    dsn: postgres://app:hunter2@db:5432/orders
  - name: cache
    kind: redis
    addr: localhost:6379
    password: hunter2
`)

	var buf bytes.Buffer
	require.NoError(t, yaml.NewEncoder(&buf).Encode(effective(cfg)))
	out := buf.String()

	assert.NotContains(t, out, "hunter2")
	assert.NotContains(t, out, "s3cret")
	assert.NotContains(t, out, testJWTSecret)
	assert.Contains(t, out, "ops:[REDACTED]")
	assert.Contains(t, out, "bare-key:[REDACTED]")
	assert.Contains(t, out, "addr: localhost:6379")
	assert.Contains(t, out, "timeout: 5s")
}

func TestCheckOnce(t *testing.T) {
	tests := []struct {
		status  string
		wantErr bool
	}{
		{status: "Up"},
		{status: "Down", wantErr: true},
		{status: "Degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			cfg := loadConfig(t, fmt.Sprintf(baseYAML, tt.status))

			var buf bytes.Buffer
			enc := yaml.NewEncoder(&buf)
			err := checkOnce(context.Background(), cfg, enc)
			require.NoError(t, enc.Close())

			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnhealthy)
			} else {
				assert.NoError(t, err)
			}

			var got resultView
			require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
			assert.Equal(t, tt.status, got.Status)
			assert.Equal(t, "Up", got.Components["local"].Status)
			assert.Equal(t, tt.status, got.Components["flag"].Status)
		})
	}
}

func TestSubsystem(t *testing.T) {
	assert.Equal(t, "disabled", subsystem(false, "otlp"))
	assert.Equal(t, "enabled", subsystem(true, ""))
	assert.Equal(t, "prometheus", subsystem(true, "prometheus"))
}
