package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonwraymond/healthkit/cmd/healthd/config"
	"github.com/jonwraymond/healthkit/health"
	"github.com/jonwraymond/healthkit/observe"
)

func TestOpenIndicator_SQLite(t *testing.T) {
	ind, closer, err := openIndicator(context.Background(), config.IndicatorConfig{
		Name: "local",
		Kind: config.KindSQLite,
		DSN:  ":memory:",
	})
	require.NoError(t, err)
	require.NotNil(t, closer)
	t.Cleanup(func() { _ = closer() })

	assert.Equal(t, "local", ind.Name())
	d := ind.Check(context.Background())
	assert.True(t, d.Equal(health.Up()), "got %+v", d)
}

func TestOpenIndicator_SQLiteClosed(t *testing.T) {
	ind, closer, err := openIndicator(context.Background(), config.IndicatorConfig{
		Name: "local",
		Kind: config.KindSQLite,
		DSN:  ":memory:",
	})
	require.NoError(t, err)
	require.NoError(t, closer())

	d := ind.Check(context.Background())
	assert.Equal(t, health.StatusDown, d.Status)
	_, hasErr := d.Get("error")
	assert.True(t, hasErr)
}

func TestOpenIndicator_Static(t *testing.T) {
	ind, closer, err := openIndicator(context.Background(), config.IndicatorConfig{
		Name:    "maintenance",
		Kind:    config.KindStatic,
		Status:  "OutOfService",
		Details: map[string]string{"reason": "migration"},
	})
	require.NoError(t, err)
	assert.Nil(t, closer)

	want := health.OutOfService().WithDetail("reason", "migration")
	assert.True(t, want.Equal(ind.Check(context.Background())))
}

func TestOpenIndicator_StaticCustom(t *testing.T) {
	ind, _, err := openIndicator(context.Background(), config.IndicatorConfig{
		Name:   "flag",
		Kind:   config.KindStatic,
		Status: "Degraded",
	})
	require.NoError(t, err)
	assert.Equal(t, health.Custom("Degraded"), ind.Check(context.Background()).Status)
}

func TestOpenIndicator_MemoryRenamed(t *testing.T) {
	ind, closer, err := openIndicator(context.Background(), config.IndicatorConfig{
		Name: "heap",
		Kind: config.KindMemory,
	})
	require.NoError(t, err)
	assert.Nil(t, closer)
	assert.Equal(t, "heap", ind.Name())

	d := ind.Check(context.Background())
	_, ok := d.Get("alloc_bytes")
	assert.True(t, ok)
}

func TestOpenIndicator_RedisLazy(t *testing.T) {
	ind, closer, err := openIndicator(context.Background(), config.IndicatorConfig{
		Name: "cache",
		Kind: config.KindRedis,
		Addr: "127.0.0.1:1",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = closer() })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	assert.Equal(t, health.StatusDown, ind.Check(ctx).Status)
}

func TestOpenIndicator_UnknownKind(t *testing.T) {
	_, _, err := openIndicator(context.Background(), config.IndicatorConfig{Name: "q", Kind: "kafka"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown kind "kafka"`)
}

func TestBuildRegistry(t *testing.T) {
	cfgs := []config.IndicatorConfig{
		{Name: "local", Kind: config.KindSQLite, DSN: ":memory:", Timeout: time.Second},
		{Name: "flag", Kind: config.KindStatic, Status: "Up", Timeout: time.Second, MaxConcurrent: 2},
	}

	reg, err := buildRegistry(context.Background(), cfgs, observe.NewMiddleware(nil, nil, nil))
	require.NoError(t, err)
	t.Cleanup(func() { _ = reg.Close() })

	require.Len(t, reg.indicators, 2)
	assert.Len(t, reg.closers, 1)

	h, err := health.NewBuilder().WithIndicators(reg.indicators...).BuildStrict()
	require.NoError(t, err)

	details := h.Details(context.Background())
	assert.Equal(t, health.StatusUp, details.Status)
	assert.ElementsMatch(t, []string{"local", "flag"}, details.Names())
}

func TestBuildRegistry_ErrorNamesIndicator(t *testing.T) {
	cfgs := []config.IndicatorConfig{
		{Name: "local", Kind: config.KindSQLite, DSN: ":memory:", Timeout: time.Second},
		{Name: "broken", Kind: config.KindStatic, Timeout: time.Second},
	}

	_, err := buildRegistry(context.Background(), cfgs, observe.NewMiddleware(nil, nil, nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `indicator "broken"`)
}

func TestBound_Timeout(t *testing.T) {
	hung := health.NewIndicatorFunc("hung", func(ctx context.Context) health.Detail {
		<-ctx.Done()
		return health.Up()
	})

	d := bound(hung, config.IndicatorConfig{Timeout: 10 * time.Millisecond}).Check(context.Background())
	assert.Equal(t, health.StatusDown, d.Status)
}
