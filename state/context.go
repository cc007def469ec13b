// Package state owns the in-memory entity caches consumed by gateway event
// handlers and read by the REST engine, and maps dispatch events onto cache
// mutations. Caches are owned by a per-Session Context object rather than
// process-wide singletons, so tests can instantiate disposable contexts
// (Design Notes §9).
package state

import (
	"github.com/ocx/dgo/cache"
	"github.com/ocx/dgo/snowflake"
	"github.com/ocx/dgo/types"
)

// messagesCacheLimit approximates a 16 MiB ceiling assuming an average
// cached Message occupies roughly 1 KiB once decoded (spec §3).
const messagesCacheLimit = 16 * 1024

// Context owns every cache shared between the gateway and REST engines for
// one session. Zero value is not usable; construct with New.
type Context struct {
	Users    *cache.Cache[snowflake.ID, types.User]
	Channels *cache.Cache[snowflake.ID, types.Channel]
	Guilds   *cache.Cache[snowflake.ID, types.Guild]
	Messages *cache.Cache[snowflake.ID, types.Message]

	GuildUsers   *cache.Cache[GuildUserKey, GuildUserEntry]
	ChannelUsers *cache.Cache[ChannelUserKey, ChannelUserEntry]
	VoiceStates  *cache.Cache[VoiceStateKey, types.VoiceState]

	// SessionID is the session_id from the most recent READY. RESUMED does
	// not change it, and nothing clears it on invalid-session.
	SessionID       string
	ProtocolVersion int
	SelfUser        types.User
	GuildIDs        []snowflake.ID
	PrivateChannels []snowflake.ID

	// Mirror, when set, write-through mirrors into Redis the guilds stored
	// by GUILD_CREATE and the users merged through upsertUser, so other
	// shard processes can read this shard's entities. Channels and later
	// guild updates are not mirrored by the handlers.
	Mirror *RedisMirror
}

// New constructs an empty Context with all caches initialized.
func New() *Context {
	return &Context{
		Users:    cache.New[snowflake.ID, types.User](userKey, setUserKey),
		Channels: cache.New[snowflake.ID, types.Channel](channelKey, setChannelKey),
		Guilds:   cache.New[snowflake.ID, types.Guild](guildKey, setGuildKey),
		Messages: cache.NewBounded[snowflake.ID, types.Message](messageKey, setMessageKey, messagesCacheLimit),

		GuildUsers:   cache.New[GuildUserKey, GuildUserEntry](guildUserKey, setGuildUserKey),
		ChannelUsers: cache.New[ChannelUserKey, ChannelUserEntry](channelUserKey, setChannelUserKey),
		VoiceStates:  cache.New[VoiceStateKey, types.VoiceState](voiceStateKey, setVoiceStateKey),
	}
}

func userKey(u types.User) snowflake.ID          { return u.ID }
func setUserKey(u *types.User, k snowflake.ID)    { u.ID = k }
func channelKey(c types.Channel) snowflake.ID       { return c.ID }
func setChannelKey(c *types.Channel, k snowflake.ID) { c.ID = k }
func guildKey(g types.Guild) snowflake.ID          { return g.ID }
func setGuildKey(g *types.Guild, k snowflake.ID)    { g.ID = k }
func messageKey(m types.Message) snowflake.ID       { return m.ID }
func setMessageKey(m *types.Message, k snowflake.ID) { m.ID = k }
