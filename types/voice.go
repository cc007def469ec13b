package types

import "github.com/ocx/dgo/snowflake"

// VoiceState tracks a user's voice-channel connection within a guild (spec
// §3). Composite-keyed by (GuildID, ChannelID, UserID) in the state cache
// rather than carrying its own ID.
type VoiceState struct {
	GuildID                Optional[snowflake.ID] `json:"guild_id,omitempty" etf:"guild_id"`
	ChannelID              Optional[snowflake.ID] `json:"channel_id,omitempty" etf:"channel_id"`
	UserID                 snowflake.ID           `json:"user_id" etf:"user_id"`
	Member                 *GuildMember           `json:"member,omitempty" etf:"member"`
	SessionID              string                 `json:"session_id" etf:"session_id"`
	Deaf                   bool                   `json:"deaf" etf:"deaf"`
	Mute                   bool                   `json:"mute" etf:"mute"`
	SelfDeaf               bool                   `json:"self_deaf" etf:"self_deaf"`
	SelfMute               bool                   `json:"self_mute" etf:"self_mute"`
	SelfStream             Optional[bool]         `json:"self_stream,omitempty" etf:"self_stream"`
	Suppress               bool                   `json:"suppress" etf:"suppress"`
}
