package state

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ocx/dgo/snowflake"
	"github.com/ocx/dgo/types"
)

// RedisClient is the minimal interface a Redis driver must satisfy to back
// a RedisMirror; state never imports a concrete driver directly (grounded
// on internal/fabric/redis_store.go's RedisClient seam).
type RedisClient interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Del(ctx context.Context, keys ...string) error
}

// RedisMirror write-through mirrors entity cache puts into Redis so
// multiple gateway shard processes (each owning a disjoint Context) can
// share a read view of guild/channel/user state (spec §5: "process-wide
// caches... mutex-guarded state" generalized to a multi-process pod).
type RedisMirror struct {
	client RedisClient
	prefix string
	ttl    time.Duration
}

// NewRedisMirror constructs a mirror namespaced by prefix (default
// "dgo:state:") with entries expiring after ttl (default 1 hour).
func NewRedisMirror(client RedisClient, prefix string, ttl time.Duration) *RedisMirror {
	if prefix == "" {
		prefix = "dgo:state:"
	}
	if ttl == 0 {
		ttl = time.Hour
	}
	return &RedisMirror{client: client, prefix: prefix, ttl: ttl}
}

func (m *RedisMirror) key(kind string, id snowflake.ID) string {
	return fmt.Sprintf("%s%s:%s", m.prefix, kind, id.String())
}

// MirrorUser persists u so other shards can read it via FetchUser.
func (m *RedisMirror) MirrorUser(ctx context.Context, u types.User) error {
	return m.mirror(ctx, "user", u.ID, u)
}

// MirrorGuild persists g so other shards can read it via FetchGuild.
func (m *RedisMirror) MirrorGuild(ctx context.Context, g types.Guild) error {
	return m.mirror(ctx, "guild", g.ID, g)
}

// MirrorChannel persists c so other shards can read it via FetchChannel.
func (m *RedisMirror) MirrorChannel(ctx context.Context, c types.Channel) error {
	return m.mirror(ctx, "channel", c.ID, c)
}

func (m *RedisMirror) mirror(ctx context.Context, kind string, id snowflake.ID, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("state: marshal %s for mirror: %w", kind, err)
	}
	return m.client.Set(ctx, m.key(kind, id), data, m.ttl)
}

// FetchUser reads back a mirrored user not present in the local cache.
func (m *RedisMirror) FetchUser(ctx context.Context, id snowflake.ID) (types.User, bool, error) {
	var u types.User
	ok, err := m.fetch(ctx, "user", id, &u)
	return u, ok, err
}

// FetchGuild reads back a mirrored guild not present in the local cache.
func (m *RedisMirror) FetchGuild(ctx context.Context, id snowflake.ID) (types.Guild, bool, error) {
	var g types.Guild
	ok, err := m.fetch(ctx, "guild", id, &g)
	return g, ok, err
}

// FetchChannel reads back a mirrored channel not present in the local
// cache.
func (m *RedisMirror) FetchChannel(ctx context.Context, id snowflake.ID) (types.Channel, bool, error) {
	var c types.Channel
	ok, err := m.fetch(ctx, "channel", id, &c)
	return c, ok, err
}

func (m *RedisMirror) fetch(ctx context.Context, kind string, id snowflake.ID, out any) (bool, error) {
	data, err := m.client.Get(ctx, m.key(kind, id))
	if err != nil {
		return false, err
	}
	if data == nil {
		return false, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("state: unmarshal %s from mirror: %w", kind, err)
	}
	return true, nil
}

// Forget removes a mirrored entry, e.g. on GUILD_DELETE.
func (m *RedisMirror) Forget(ctx context.Context, kind string, id snowflake.ID) error {
	return m.client.Del(ctx, m.key(kind, id))
}
