package state

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/ocx/dgo/snowflake"
	"github.com/ocx/dgo/types"
)

var eventLog = log.New(os.Stderr, "[STATE] ", log.LstdFlags)

// Handler applies one decoded dispatch payload to ctx. Handlers never
// return an error for caller-visible propagation; malformed payloads are
// logged and ignored, matching "others: log-and-ignore" (spec §4.6) applied
// uniformly to defend against partial/garbled payloads within known events
// too.
type Handler func(ctx *Context, data []byte)

// Handlers maps a dispatch event name to its cache mutation (spec §4.6).
var Handlers = map[string]Handler{
	"READY":                       handleReady,
	"RESUMED":                     func(*Context, []byte) {},
	"CHANNEL_CREATE":              handleChannelCreate,
	"CHANNEL_UPDATE":              handleChannelUpdate,
	"CHANNEL_DELETE":              handleChannelDelete,
	"GUILD_CREATE":                handleGuildCreate,
	"GUILD_UPDATE":                handleGuildUpdate,
	"GUILD_DELETE":                handleGuildDelete,
	"GUILD_EMOJIS_UPDATE":         handleGuildEmojisUpdate,
	"GUILD_MEMBER_ADD":            handleGuildMemberAdd,
	"GUILD_MEMBER_REMOVE":         handleGuildMemberRemove,
	"GUILD_MEMBER_UPDATE":         handleGuildMemberUpdate,
	"GUILD_MEMBERS_CHUNK":         handleGuildMembersChunk,
	"GUILD_ROLE_CREATE":           handleGuildRoleCreate,
	"GUILD_ROLE_UPDATE":           handleGuildRoleUpdate,
	"GUILD_ROLE_DELETE":           handleGuildRoleDelete,
	"MESSAGE_CREATE":              handleMessageCreate,
	"MESSAGE_UPDATE":              handleMessageUpdate,
	"MESSAGE_DELETE":              handleMessageDelete,
	"MESSAGE_DELETE_BULK":         handleMessageDeleteBulk,
	"MESSAGE_REACTION_ADD":        handleReactionAdd,
	"MESSAGE_REACTION_REMOVE":     handleReactionRemove,
	"MESSAGE_REACTION_REMOVE_ALL": handleReactionRemoveAll,
	"PRESENCE_UPDATE":             handlePresenceUpdate,
	"TYPING_START":                handleTypingStart,
	"USER_UPDATE":                 handleUserUpdate,
	"VOICE_STATE_UPDATE":          handleVoiceStateUpdate,
}

// Dispatch routes a decoded event to its Handler, or logs and ignores it if
// the event name has no registered mapping.
func Dispatch(ctx *Context, event string, data []byte) {
	h, ok := Handlers[event]
	if !ok {
		eventLog.Printf("ignoring unhandled event %s", event)
		return
	}
	h(ctx, data)
}

func logMalformed(event string, err error) {
	eventLog.Printf("malformed %s payload: %v", event, err)
}

type readyPayload struct {
	V               int            `json:"v"`
	User            types.User     `json:"user"`
	SessionID       string         `json:"session_id"`
	Guilds          []types.Guild  `json:"guilds"`
	PrivateChannels []types.Channel `json:"private_channels"`
}

func handleReady(ctx *Context, data []byte) {
	var p readyPayload
	if err := json.Unmarshal(data, &p); err != nil {
		logMalformed("READY", err)
		return
	}
	ctx.SessionID = p.SessionID
	ctx.ProtocolVersion = p.V
	ctx.SelfUser = p.User
	ctx.GuildIDs = ctx.GuildIDs[:0]
	for _, g := range p.Guilds {
		ctx.GuildIDs = append(ctx.GuildIDs, g.ID)
	}
	ctx.PrivateChannels = ctx.PrivateChannels[:0]
	for _, c := range p.PrivateChannels {
		ctx.PrivateChannels = append(ctx.PrivateChannels, c.ID)
	}
}

func handleChannelCreate(ctx *Context, data []byte) {
	var c types.Channel
	if err := json.Unmarshal(data, &c); err != nil {
		logMalformed("CHANNEL_CREATE", err)
		return
	}
	if err := ctx.Channels.Put(c); err != nil {
		eventLog.Printf("CHANNEL_CREATE put %d: %v", c.ID, err)
	}
}

func handleChannelUpdate(ctx *Context, data []byte) {
	var c types.Channel
	if err := json.Unmarshal(data, &c); err != nil {
		logMalformed("CHANNEL_UPDATE", err)
		return
	}
	if err := ctx.Channels.Patch(c.ID, c, true, patchChannel); err != nil {
		eventLog.Printf("CHANNEL_UPDATE patch %d: %v", c.ID, err)
	}
}

func patchChannel(dst *types.Channel, src types.Channel) {
	if src.Name.IsSet() {
		dst.Name = src.Name
	}
	if src.Topic.IsSet() {
		dst.Topic = src.Topic
	}
	if src.Position.IsSet() {
		dst.Position = src.Position
	}
	if src.NSFW.IsSet() {
		dst.NSFW = src.NSFW
	}
	if src.LastMessageID.IsSet() {
		dst.LastMessageID = src.LastMessageID
	}
	if src.Bitrate.IsSet() {
		dst.Bitrate = src.Bitrate
	}
	if src.UserLimit.IsSet() {
		dst.UserLimit = src.UserLimit
	}
	if src.RateLimitPerUser.IsSet() {
		dst.RateLimitPerUser = src.RateLimitPerUser
	}
	if len(src.Recipients) > 0 {
		dst.Recipients = src.Recipients
	}
	if src.ParentID.IsSet() {
		dst.ParentID = src.ParentID
	}
}

func handleChannelDelete(ctx *Context, data []byte) {
	var c types.Channel
	if err := json.Unmarshal(data, &c); err != nil {
		logMalformed("CHANNEL_DELETE", err)
		return
	}
	ctx.Channels.Remove(c.ID)
}

func handleGuildCreate(ctx *Context, data []byte) {
	var g types.Guild
	if err := json.Unmarshal(data, &g); err != nil {
		logMalformed("GUILD_CREATE", err)
		return
	}
	if err := ctx.Guilds.Put(g); err != nil {
		eventLog.Printf("GUILD_CREATE put %d: %v", g.ID, err)
	}
	mirrorGuild(ctx, g)
	for _, c := range g.Channels {
		c.GuildID = types.Some(g.ID)
		if err := ctx.Channels.Put(c); err != nil {
			eventLog.Printf("GUILD_CREATE channel put %d: %v", c.ID, err)
		}
	}
	for _, m := range g.Members {
		entry := FromGuildMember(g.ID, m)
		if err := ctx.GuildUsers.Put(entry); err != nil {
			eventLog.Printf("GUILD_CREATE member put %v: %v", guildUserKey(entry), err)
		}
		if m.User != nil {
			upsertUser(ctx, *m.User)
		}
	}
}

func upsertUser(ctx *Context, u types.User) {
	err := ctx.Users.Patch(u.ID, u, true, patchUser)
	if err != nil {
		eventLog.Printf("user patch %d: %v", u.ID, err)
	}
	mirrorUser(ctx, u)
}

// mirrorGuild and mirrorUser are no-ops unless ctx.Mirror is configured
// (spec §9's process-wide-cache note, extended to an optional multi-pod
// mirror); failures are logged, never surfaced to the dispatch path.
func mirrorGuild(ctx *Context, g types.Guild) {
	if ctx.Mirror == nil {
		return
	}
	c, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := ctx.Mirror.MirrorGuild(c, g); err != nil {
		eventLog.Printf("mirror guild %d: %v", g.ID, err)
	}
}

func mirrorUser(ctx *Context, u types.User) {
	if ctx.Mirror == nil {
		return
	}
	c, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := ctx.Mirror.MirrorUser(c, u); err != nil {
		eventLog.Printf("mirror user %d: %v", u.ID, err)
	}
}

func patchUser(dst *types.User, src types.User) {
	if src.Username != "" {
		dst.Username = src.Username
	}
	if src.Discriminator != "" {
		dst.Discriminator = src.Discriminator
	}
	if src.Avatar.IsSet() {
		dst.Avatar = src.Avatar
	}
	if src.Bot.IsSet() {
		dst.Bot = src.Bot
	}
	if src.Email.IsSet() {
		dst.Email = src.Email
	}
	if src.Flags.IsSet() {
		dst.Flags = src.Flags
	}
}

func handleGuildUpdate(ctx *Context, data []byte) {
	var g types.Guild
	if err := json.Unmarshal(data, &g); err != nil {
		logMalformed("GUILD_UPDATE", err)
		return
	}
	if err := ctx.Guilds.Patch(g.ID, g, true, patchGuild); err != nil {
		eventLog.Printf("GUILD_UPDATE patch %d: %v", g.ID, err)
	}
}

func patchGuild(dst *types.Guild, src types.Guild) {
	if src.Name != "" {
		dst.Name = src.Name
	}
	if src.Icon.IsSet() {
		dst.Icon = src.Icon
	}
	if len(src.Roles) > 0 {
		dst.Roles = src.Roles
	}
	if len(src.Emojis) > 0 {
		dst.Emojis = src.Emojis
	}
	if len(src.Features) > 0 {
		dst.Features = src.Features
	}
	dst.VerificationLevel = src.VerificationLevel
	dst.AFKTimeout = src.AFKTimeout
}

func handleGuildDelete(ctx *Context, data []byte) {
	var g types.Guild
	if err := json.Unmarshal(data, &g); err != nil {
		logMalformed("GUILD_DELETE", err)
		return
	}
	err := ctx.Guilds.Update(g.ID, false, func(dst *types.Guild) {
		dst.Unavailable = types.Some(true)
	})
	if err != nil {
		eventLog.Printf("GUILD_DELETE mark unavailable %d: %v", g.ID, err)
	}
}

type guildEmojisUpdatePayload struct {
	GuildID snowflake.ID  `json:"guild_id"`
	Emojis  []types.Emoji `json:"emojis"`
}

func handleGuildEmojisUpdate(ctx *Context, data []byte) {
	var p guildEmojisUpdatePayload
	if err := json.Unmarshal(data, &p); err != nil {
		logMalformed("GUILD_EMOJIS_UPDATE", err)
		return
	}
	err := ctx.Guilds.Update(p.GuildID, false, func(dst *types.Guild) {
		dst.Emojis = p.Emojis
	})
	if err != nil {
		eventLog.Printf("GUILD_EMOJIS_UPDATE %d: %v", p.GuildID, err)
	}
}

type guildMemberAddPayload struct {
	types.GuildMember
	GuildID snowflake.ID `json:"guild_id"`
}

func handleGuildMemberAdd(ctx *Context, data []byte) {
	var p guildMemberAddPayload
	if err := json.Unmarshal(data, &p); err != nil {
		logMalformed("GUILD_MEMBER_ADD", err)
		return
	}
	entry := FromGuildMember(p.GuildID, p.GuildMember)
	if err := ctx.GuildUsers.Put(entry); err != nil {
		eventLog.Printf("GUILD_MEMBER_ADD put %v: %v", guildUserKey(entry), err)
	}
	if p.User != nil {
		upsertUser(ctx, *p.User)
	}
}

type guildMemberRemovePayload struct {
	GuildID snowflake.ID `json:"guild_id"`
	User    types.User   `json:"user"`
}

func handleGuildMemberRemove(ctx *Context, data []byte) {
	var p guildMemberRemovePayload
	if err := json.Unmarshal(data, &p); err != nil {
		logMalformed("GUILD_MEMBER_REMOVE", err)
		return
	}
	ctx.GuildUsers.Remove(GuildUserKey{GuildID: p.GuildID, UserID: p.User.ID})
}

type guildMemberUpdatePayload struct {
	GuildID snowflake.ID           `json:"guild_id"`
	User    types.User             `json:"user"`
	Nick    types.Optional[string] `json:"nick"`
	Roles   []snowflake.ID         `json:"roles"`
}

func handleGuildMemberUpdate(ctx *Context, data []byte) {
	var p guildMemberUpdatePayload
	if err := json.Unmarshal(data, &p); err != nil {
		logMalformed("GUILD_MEMBER_UPDATE", err)
		return
	}
	key := GuildUserKey{GuildID: p.GuildID, UserID: p.User.ID}
	err := ctx.GuildUsers.Update(key, false, func(dst *GuildUserEntry) {
		dst.Roles = p.Roles
		dst.Nick = p.Nick
	})
	if err != nil {
		eventLog.Printf("GUILD_MEMBER_UPDATE %v: %v", key, err)
	}
}

type guildMembersChunkPayload struct {
	GuildID snowflake.ID        `json:"guild_id"`
	Members []types.GuildMember `json:"members"`
}

func handleGuildMembersChunk(ctx *Context, data []byte) {
	var p guildMembersChunkPayload
	if err := json.Unmarshal(data, &p); err != nil {
		logMalformed("GUILD_MEMBERS_CHUNK", err)
		return
	}
	for _, m := range p.Members {
		entry := FromGuildMember(p.GuildID, m)
		if err := ctx.GuildUsers.Put(entry); err != nil {
			eventLog.Printf("GUILD_MEMBERS_CHUNK put %v: %v", guildUserKey(entry), err)
		}
		if m.User != nil {
			upsertUser(ctx, *m.User)
		}
	}
}

type guildRoleEventPayload struct {
	GuildID snowflake.ID `json:"guild_id"`
	Role    types.Role   `json:"role"`
}

func handleGuildRoleCreate(ctx *Context, data []byte) {
	var p guildRoleEventPayload
	if err := json.Unmarshal(data, &p); err != nil {
		logMalformed("GUILD_ROLE_CREATE", err)
		return
	}
	err := ctx.Guilds.Update(p.GuildID, false, func(dst *types.Guild) {
		dst.Roles = append(dst.Roles, p.Role)
	})
	if err != nil {
		eventLog.Printf("GUILD_ROLE_CREATE %d: %v", p.GuildID, err)
	}
}

func handleGuildRoleUpdate(ctx *Context, data []byte) {
	var p guildRoleEventPayload
	if err := json.Unmarshal(data, &p); err != nil {
		logMalformed("GUILD_ROLE_UPDATE", err)
		return
	}
	err := ctx.Guilds.Update(p.GuildID, false, func(dst *types.Guild) {
		for i, r := range dst.Roles {
			if r.ID == p.Role.ID {
				dst.Roles[i] = p.Role
				return
			}
		}
		dst.Roles = append(dst.Roles, p.Role)
	})
	if err != nil {
		eventLog.Printf("GUILD_ROLE_UPDATE %d: %v", p.GuildID, err)
	}
}

type guildRoleDeletePayload struct {
	GuildID snowflake.ID `json:"guild_id"`
	RoleID  snowflake.ID `json:"role_id"`
}

func handleGuildRoleDelete(ctx *Context, data []byte) {
	var p guildRoleDeletePayload
	if err := json.Unmarshal(data, &p); err != nil {
		logMalformed("GUILD_ROLE_DELETE", err)
		return
	}
	err := ctx.Guilds.Update(p.GuildID, false, func(dst *types.Guild) {
		for i, r := range dst.Roles {
			if r.ID == p.RoleID {
				dst.Roles = append(dst.Roles[:i], dst.Roles[i+1:]...)
				return
			}
		}
	})
	if err != nil {
		eventLog.Printf("GUILD_ROLE_DELETE %d: %v", p.GuildID, err)
	}
}

func handleMessageCreate(ctx *Context, data []byte) {
	var m types.Message
	if err := json.Unmarshal(data, &m); err != nil {
		logMalformed("MESSAGE_CREATE", err)
		return
	}
	if err := ctx.Messages.Put(m); err != nil {
		eventLog.Printf("MESSAGE_CREATE put %d: %v", m.ID, err)
	}
}

func handleMessageUpdate(ctx *Context, data []byte) {
	var m types.Message
	if err := json.Unmarshal(data, &m); err != nil {
		logMalformed("MESSAGE_UPDATE", err)
		return
	}
	err := ctx.Messages.Patch(m.ID, m, false, func(dst *types.Message, src types.Message) {
		if src.Content != "" {
			dst.Content = src.Content
		}
		if src.EditedTimestamp.IsSet() {
			dst.EditedTimestamp = src.EditedTimestamp
		}
		if len(src.Embeds) > 0 {
			dst.Embeds = src.Embeds
		}
		if len(src.Mentions) > 0 {
			dst.Mentions = src.Mentions
		}
	})
	if err != nil {
		eventLog.Printf("MESSAGE_UPDATE %d: %v", m.ID, err)
	}
}

type messageDeletePayload struct {
	ID        snowflake.ID `json:"id"`
	ChannelID snowflake.ID `json:"channel_id"`
}

func handleMessageDelete(ctx *Context, data []byte) {
	var p messageDeletePayload
	if err := json.Unmarshal(data, &p); err != nil {
		logMalformed("MESSAGE_DELETE", err)
		return
	}
	if !ctx.Messages.Remove(p.ID) {
		eventLog.Printf("MESSAGE_DELETE miss %d", p.ID)
	}
}

type messageDeleteBulkPayload struct {
	IDs       []snowflake.ID `json:"ids"`
	ChannelID snowflake.ID   `json:"channel_id"`
}

func handleMessageDeleteBulk(ctx *Context, data []byte) {
	var p messageDeleteBulkPayload
	if err := json.Unmarshal(data, &p); err != nil {
		logMalformed("MESSAGE_DELETE_BULK", err)
		return
	}
	missing := ctx.Messages.RemoveAll(p.IDs)
	if len(missing) > 0 {
		eventLog.Printf("MESSAGE_DELETE_BULK missing %d of %d ids", len(missing), len(p.IDs))
	}
}

type messageReactionPayload struct {
	UserID    snowflake.ID `json:"user_id"`
	ChannelID snowflake.ID `json:"channel_id"`
	MessageID snowflake.ID `json:"message_id"`
	Emoji     types.Emoji  `json:"emoji"`
}

func emojiIdentifies(a, b types.Emoji) bool {
	aID, aOK := a.ID.Get()
	bID, bOK := b.ID.Get()
	if aOK && bOK {
		return aID == bID
	}
	return a.Name == b.Name
}

func handleReactionAdd(ctx *Context, data []byte) {
	var p messageReactionPayload
	if err := json.Unmarshal(data, &p); err != nil {
		logMalformed("MESSAGE_REACTION_ADD", err)
		return
	}
	err := ctx.Messages.Update(p.MessageID, false, func(m *types.Message) {
		for i := range m.Reactions {
			if emojiIdentifies(m.Reactions[i].Emoji, p.Emoji) {
				m.Reactions[i].Count++
				if p.UserID == m.Author.ID {
					m.Reactions[i].Me = true
				}
				return
			}
		}
		m.Reactions = append(m.Reactions, types.Reaction{Count: 1, Emoji: p.Emoji, Me: p.UserID == m.Author.ID})
	})
	if err != nil {
		eventLog.Printf("MESSAGE_REACTION_ADD %d: %v", p.MessageID, err)
	}
}

func handleReactionRemove(ctx *Context, data []byte) {
	var p messageReactionPayload
	if err := json.Unmarshal(data, &p); err != nil {
		logMalformed("MESSAGE_REACTION_REMOVE", err)
		return
	}
	err := ctx.Messages.Update(p.MessageID, false, func(m *types.Message) {
		for i := range m.Reactions {
			if emojiIdentifies(m.Reactions[i].Emoji, p.Emoji) {
				m.Reactions[i].Count--
				if m.Reactions[i].Count <= 0 {
					m.Reactions = append(m.Reactions[:i], m.Reactions[i+1:]...)
					return
				}
				if p.UserID == m.Author.ID {
					m.Reactions[i].Me = false
				}
				return
			}
		}
	})
	if err != nil {
		eventLog.Printf("MESSAGE_REACTION_REMOVE %d: %v", p.MessageID, err)
	}
}

type messageReactionRemoveAllPayload struct {
	ChannelID snowflake.ID `json:"channel_id"`
	MessageID snowflake.ID `json:"message_id"`
}

func handleReactionRemoveAll(ctx *Context, data []byte) {
	var p messageReactionRemoveAllPayload
	if err := json.Unmarshal(data, &p); err != nil {
		logMalformed("MESSAGE_REACTION_REMOVE_ALL", err)
		return
	}
	err := ctx.Messages.Update(p.MessageID, false, func(m *types.Message) {
		m.Reactions = nil
	})
	if err != nil {
		eventLog.Printf("MESSAGE_REACTION_REMOVE_ALL %d: %v", p.MessageID, err)
	}
}

func handlePresenceUpdate(ctx *Context, data []byte) {
	var p types.PresenceUpdate
	if err := json.Unmarshal(data, &p); err != nil {
		logMalformed("PRESENCE_UPDATE", err)
		return
	}
	key := GuildUserKey{GuildID: p.GuildID, UserID: p.User.ID}
	err := ctx.GuildUsers.Update(key, true, func(dst *GuildUserEntry) {
		dst.Status = p.Status
		if len(p.Activities) > 0 {
			dst.Game = &p.Activities[0]
		} else {
			dst.Game = nil
		}
	})
	if err != nil {
		eventLog.Printf("PRESENCE_UPDATE %v: %v", key, err)
	}
}

type typingStartPayload struct {
	ChannelID     snowflake.ID `json:"channel_id"`
	UserID        snowflake.ID `json:"user_id"`
	TimestampUnix int64        `json:"timestamp"`
}

func handleTypingStart(ctx *Context, data []byte) {
	var p typingStartPayload
	if err := json.Unmarshal(data, &p); err != nil {
		logMalformed("TYPING_START", err)
		return
	}
	key := ChannelUserKey{ChannelID: p.ChannelID, UserID: p.UserID}
	err := ctx.ChannelUsers.Update(key, true, func(dst *ChannelUserEntry) {
		dst.LastTypingUnix = p.TimestampUnix
	})
	if err != nil {
		eventLog.Printf("TYPING_START %v: %v", key, err)
	}
}

func handleUserUpdate(ctx *Context, data []byte) {
	var u types.User
	if err := json.Unmarshal(data, &u); err != nil {
		logMalformed("USER_UPDATE", err)
		return
	}
	upsertUser(ctx, u)
}

func handleVoiceStateUpdate(ctx *Context, data []byte) {
	var v types.VoiceState
	if err := json.Unmarshal(data, &v); err != nil {
		logMalformed("VOICE_STATE_UPDATE", err)
		return
	}
	key := voiceStateKey(v)
	err := ctx.VoiceStates.Update(key, true, func(dst *types.VoiceState) {
		*dst = v
	})
	if err != nil {
		eventLog.Printf("VOICE_STATE_UPDATE %v: %v", key, err)
	}
}
