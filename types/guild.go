package types

import "github.com/ocx/dgo/snowflake"

// VerificationLevel enumerates guild join-verification strictness (spec §3).
type VerificationLevel int

// VoiceRegion is a server-reported voice relay region (original_source
// supplement: the distilled spec.md omitted the vip/optimal/deprecated
// flags that the source library's VoiceRegion struct carries).
type VoiceRegion struct {
	ID         string `json:"id" etf:"id"`
	Name       string `json:"name" etf:"name"`
	VIP        bool   `json:"vip" etf:"vip"`
	Optimal    bool   `json:"optimal" etf:"optimal"`
	Deprecated bool   `json:"deprecated" etf:"deprecated"`
	Custom     bool   `json:"custom" etf:"custom"`
}

// GuildEmbed is the widget/embed configuration of a guild (original_source
// supplement: present in the source library, dropped from spec.md's
// distillation).
type GuildEmbed struct {
	Enabled   bool                   `json:"enabled" etf:"enabled"`
	ChannelID Optional[snowflake.ID] `json:"channel_id,omitempty" etf:"channel_id"`
}

// Guild is a server-modeled community/workspace (spec §3).
type Guild struct {
	ID                          snowflake.ID           `json:"id" etf:"id"`
	Name                        string                 `json:"name" etf:"name"`
	Icon                        Optional[string]       `json:"icon,omitempty" etf:"icon"`
	Splash                      Optional[string]       `json:"splash,omitempty" etf:"splash"`
	Owner                       Optional[bool]         `json:"owner,omitempty" etf:"owner"`
	OwnerID                     snowflake.ID           `json:"owner_id" etf:"owner_id"`
	Region                      string                 `json:"region" etf:"region"`
	AFKChannelID                Optional[snowflake.ID] `json:"afk_channel_id,omitempty" etf:"afk_channel_id"`
	AFKTimeout                  int                    `json:"afk_timeout" etf:"afk_timeout"`
	EmbedEnabled                Optional[bool]         `json:"embed_enabled,omitempty" etf:"embed_enabled"`
	EmbedChannelID              Optional[snowflake.ID] `json:"embed_channel_id,omitempty" etf:"embed_channel_id"`
	VerificationLevel           VerificationLevel      `json:"verification_level" etf:"verification_level"`
	DefaultMessageNotifications int                    `json:"default_message_notifications" etf:"default_message_notifications"`
	ExplicitContentFilter       int                    `json:"explicit_content_filter" etf:"explicit_content_filter"`
	Roles                       []Role                 `json:"roles" etf:"roles"`
	Emojis                      []Emoji                `json:"emojis" etf:"emojis"`
	Features                    []string               `json:"features" etf:"features"`
	MFALevel                    int                    `json:"mfa_level" etf:"mfa_level"`
	ApplicationID               Optional[snowflake.ID] `json:"application_id,omitempty" etf:"application_id"`
	WidgetEnabled               Optional[bool]         `json:"widget_enabled,omitempty" etf:"widget_enabled"`
	WidgetChannelID             Optional[snowflake.ID] `json:"widget_channel_id,omitempty" etf:"widget_channel_id"`
	SystemChannelID             Optional[snowflake.ID] `json:"system_channel_id,omitempty" etf:"system_channel_id"`

	// Populated only on gateway GUILD_CREATE payloads, absent from REST
	// reads (spec §3).
	JoinedAt    Optional[string]      `json:"joined_at,omitempty" etf:"joined_at"`
	Large       Optional[bool]        `json:"large,omitempty" etf:"large"`
	Unavailable Optional[bool]        `json:"unavailable,omitempty" etf:"unavailable"`
	MemberCount Optional[int]         `json:"member_count,omitempty" etf:"member_count"`
	VoiceStates []VoiceState          `json:"voice_states,omitempty" etf:"voice_states"`
	Members     []GuildMember         `json:"members,omitempty" etf:"members"`
	Channels    []Channel             `json:"channels,omitempty" etf:"channels"`
	Presences   []PresenceUpdate      `json:"presences,omitempty" etf:"presences"`
}
