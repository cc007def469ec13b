package types

import "github.com/ocx/dgo/snowflake"

// ChannelType enumerates the wire channel type codes (spec §3).
type ChannelType int

const (
	ChannelTypeGuildText     ChannelType = 0
	ChannelTypeDM            ChannelType = 1
	ChannelTypeGuildVoice    ChannelType = 2
	ChannelTypeGroupDM       ChannelType = 3
	ChannelTypeGuildCategory ChannelType = 4
	ChannelTypeGuildNews     ChannelType = 5
	ChannelTypeGuildStore    ChannelType = 6
)

// Channel is a server-modeled text, voice, category, or DM channel (spec §3).
type Channel struct {
	ID                   snowflake.ID              `json:"id" etf:"id"`
	Type                 ChannelType               `json:"type" etf:"type"`
	GuildID              Optional[snowflake.ID]    `json:"guild_id,omitempty" etf:"guild_id"`
	Position             Optional[int]             `json:"position,omitempty" etf:"position"`
	Name                 Optional[string]          `json:"name,omitempty" etf:"name"`
	Topic                Optional[string]          `json:"topic,omitempty" etf:"topic"`
	NSFW                 Optional[bool]            `json:"nsfw,omitempty" etf:"nsfw"`
	LastMessageID        Optional[snowflake.ID]    `json:"last_message_id,omitempty" etf:"last_message_id"`
	Bitrate              Optional[int]             `json:"bitrate,omitempty" etf:"bitrate"`
	UserLimit            Optional[int]             `json:"user_limit,omitempty" etf:"user_limit"`
	RateLimitPerUser     Optional[int]             `json:"rate_limit_per_user,omitempty" etf:"rate_limit_per_user"`
	Recipients           []User                    `json:"recipients,omitempty" etf:"recipients"`
	Icon                 Optional[string]          `json:"icon,omitempty" etf:"icon"`
	OwnerID              Optional[snowflake.ID]    `json:"owner_id,omitempty" etf:"owner_id"`
	ParentID             Optional[snowflake.ID]    `json:"parent_id,omitempty" etf:"parent_id"`
	LastPinTimestamp     Optional[string]          `json:"last_pin_timestamp,omitempty" etf:"last_pin_timestamp"`
}

// Invite is an ephemeral guild/channel invite link (spec §3).
type Invite struct {
	Code                     string      `json:"code" etf:"code"`
	Guild                    *Guild      `json:"guild,omitempty" etf:"guild"`
	Channel                  *Channel    `json:"channel,omitempty" etf:"channel"`
	Inviter                  *User       `json:"inviter,omitempty" etf:"inviter"`
	TargetUser               *User       `json:"target_user,omitempty" etf:"target_user"`
	TargetUserType           Optional[int] `json:"target_user_type,omitempty" etf:"target_user_type"`
	ApproximatePresenceCount Optional[int] `json:"approximate_presence_count,omitempty" etf:"approximate_presence_count"`
	ApproximateMemberCount   Optional[int] `json:"approximate_member_count,omitempty" etf:"approximate_member_count"`
	MaxAge                   Optional[int] `json:"max_age,omitempty" etf:"max_age"`
	MaxUses                  Optional[int] `json:"max_uses,omitempty" etf:"max_uses"`
	Temporary                Optional[bool] `json:"temporary,omitempty" etf:"temporary"`
	Uses                     Optional[int] `json:"uses,omitempty" etf:"uses"`
}
