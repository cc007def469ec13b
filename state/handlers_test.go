package state

import (
	"testing"

	"github.com/ocx/dgo/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageCreateThenReactionThenDelete(t *testing.T) {
	ctx := New()

	msg := `{"id":"100","channel_id":"200","author":{"id":"300","username":"a","discriminator":"0001"},"content":"hi","timestamp":"2024-01-01T00:00:00Z"}`
	Dispatch(ctx, "MESSAGE_CREATE", []byte(msg))

	require.Equal(t, 1, ctx.Messages.Len())

	reaction := `{"user_id":"300","channel_id":"200","message_id":"100","emoji":{"name":"👍"}}`
	Dispatch(ctx, "MESSAGE_REACTION_ADD", []byte(reaction))

	m, ok := ctx.Messages.Get(100)
	require.True(t, ok)
	require.Len(t, m.Reactions, 1)
	assert.Equal(t, 1, m.Reactions[0].Count)

	del := `{"id":"100","channel_id":"200"}`
	Dispatch(ctx, "MESSAGE_DELETE", []byte(del))
	assert.False(t, ctx.Messages.Has(100))
}

func TestGuildCreatePopulatesChannelsAndMembers(t *testing.T) {
	ctx := New()
	guild := `{
		"id":"1",
		"name":"g",
		"owner_id":"2",
		"region":"us",
		"afk_timeout":0,
		"verification_level":0,
		"default_message_notifications":0,
		"explicit_content_filter":0,
		"roles":[],
		"emojis":[],
		"features":[],
		"mfa_level":0,
		"channels":[{"id":"10","type":0}],
		"members":[{"user":{"id":"20","username":"u","discriminator":"0001"},"roles":[],"joined_at":"now","deaf":false,"mute":false}]
	}`
	Dispatch(ctx, "GUILD_CREATE", []byte(guild))

	assert.True(t, ctx.Guilds.Has(1))
	c, ok := ctx.Channels.Get(10)
	require.True(t, ok)
	gid, set := c.GuildID.Get()
	require.True(t, set)
	assert.Equal(t, snowflake.ID(1), gid)

	assert.True(t, ctx.GuildUsers.Has(GuildUserKey{GuildID: 1, UserID: 20}))
	assert.True(t, ctx.Users.Has(20))
}

func TestUnhandledEventIsIgnored(t *testing.T) {
	ctx := New()
	assert.NotPanics(t, func() {
		Dispatch(ctx, "SOME_FUTURE_EVENT", []byte(`{}`))
	})
}

func TestReadySnapshotsSelfAndGuildIDs(t *testing.T) {
	ctx := New()
	payload := `{"v":6,"user":{"id":"9","username":"bot","discriminator":"0000"},"session_id":"abc","guilds":[{"id":"1"}],"private_channels":[]}`
	Dispatch(ctx, "READY", []byte(payload))

	assert.Equal(t, "abc", ctx.SessionID)
	assert.Equal(t, 6, ctx.ProtocolVersion)
	require.Len(t, ctx.GuildIDs, 1)
}
