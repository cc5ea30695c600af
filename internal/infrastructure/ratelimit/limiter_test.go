package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_AgotaElBurst(t *testing.T) {
	m := NewMemory(1, 3)
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return fixed }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := m.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, ok, "petición %d dentro del burst", i+1)
	}
	ok, _ := m.Allow(ctx, "10.0.0.1")
	assert.False(t, ok)

	ok, _ = m.Allow(ctx, "10.0.0.2")
	assert.True(t, ok, "cada clave tiene su propio bucket")
}

func TestMemory_Recarga(t *testing.T) {
	m := NewMemory(1, 1)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	ctx := context.Background()

	ok, _ := m.Allow(ctx, "k")
	assert.True(t, ok)
	ok, _ = m.Allow(ctx, "k")
	assert.False(t, ok)

	now = now.Add(time.Second)
	ok, _ = m.Allow(ctx, "k")
	assert.True(t, ok)
}

func TestMemory_DescartaClavesInactivas(t *testing.T) {
	m := NewMemory(1, 1)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	ctx := context.Background()

	_, _ = m.Allow(ctx, "a")
	_, _ = m.Allow(ctx, "b")
	assert.Equal(t, 2, m.Len())

	now = now.Add(idleTTL + time.Minute)
	_, _ = m.Allow(ctx, "c")
	assert.Equal(t, 1, m.Len())
}

func TestRedis_Key(t *testing.T) {
	r := NewRedis(nil, "rl:auth", 10, 0)
	assert.Equal(t, "rl:auth:10.0.0.1", r.Key("10.0.0.1"))
	assert.Equal(t, time.Minute, r.window)
}

func TestRedis_SinLimitePasaSinConsultar(t *testing.T) {
	r := NewRedis(nil, "rl", 0, time.Second)
	ok, err := r.Allow(context.Background(), "x")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNewRedisClient_SinDireccion(t *testing.T) {
	_, err := NewRedisClient("", "", 0)
	assert.Error(t, err)
}
