package state

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ocx/dgo/snowflake"
	"github.com/ocx/dgo/types"
)

type memRedis struct {
	data map[string][]byte
}

func newMemRedis() *memRedis { return &memRedis{data: map[string][]byte{}} }

func (m *memRedis) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.data[key] = value
	return nil
}

func (m *memRedis) Get(_ context.Context, key string) ([]byte, error) {
	return m.data[key], nil
}

func (m *memRedis) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func TestRedisMirrorRoundTripsUser(t *testing.T) {
	client := newMemRedis()
	mirror := NewRedisMirror(client, "", 0)
	ctx := context.Background()

	u := types.User{ID: snowflake.ID(7), Username: "alice"}
	require.NoError(t, mirror.MirrorUser(ctx, u))

	got, ok, err := mirror.FetchUser(ctx, snowflake.ID(7))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "alice", got.Username)

	require.NoError(t, mirror.Forget(ctx, "user", snowflake.ID(7)))
	_, ok, err = mirror.FetchUser(ctx, snowflake.ID(7))
	require.NoError(t, err)
	assert.False(t, ok)
}
