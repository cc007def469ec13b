package types

import "github.com/ocx/dgo/snowflake"

// User is a server-modeled account record (spec §3).
type User struct {
	ID            snowflake.ID    `json:"id" etf:"id"`
	Username      string          `json:"username" etf:"username"`
	Discriminator string          `json:"discriminator" etf:"discriminator"`
	Avatar        Optional[string] `json:"avatar,omitempty" etf:"avatar"`
	Bot           Optional[bool]   `json:"bot,omitempty" etf:"bot"`
	System        Optional[bool]   `json:"system,omitempty" etf:"system"`
	MFAEnabled    Optional[bool]   `json:"mfa_enabled,omitempty" etf:"mfa_enabled"`
	Locale        Optional[string] `json:"locale,omitempty" etf:"locale"`
	Verified      Optional[bool]   `json:"verified,omitempty" etf:"verified"`
	Email         Optional[string] `json:"email,omitempty" etf:"email"`
	Flags         Optional[int]    `json:"flags,omitempty" etf:"flags"`
	PremiumType   Optional[int]    `json:"premium_type,omitempty" etf:"premium_type"`
}

// GuildMember is the per-guild overlay on a User (spec §3).
type GuildMember struct {
	User     *User    `json:"user,omitempty" etf:"user"`
	Nick     Optional[string] `json:"nick,omitempty" etf:"nick"`
	Roles    []snowflake.ID   `json:"roles" etf:"roles"`
	JoinedAt string           `json:"joined_at" etf:"joined_at"`
	Deaf     bool             `json:"deaf" etf:"deaf"`
	Mute     bool             `json:"mute" etf:"mute"`
}

// Role is a guild permission role (spec §3).
type Role struct {
	ID          snowflake.ID `json:"id" etf:"id"`
	Name        string       `json:"name" etf:"name"`
	Color       int          `json:"color" etf:"color"`
	Hoist       bool         `json:"hoist" etf:"hoist"`
	Position    int          `json:"position" etf:"position"`
	Permissions int64        `json:"permissions" etf:"permissions"`
	Managed     bool         `json:"managed" etf:"managed"`
	Mentionable bool         `json:"mentionable" etf:"mentionable"`
}

// Emoji is a custom or standard emoji (spec §3).
type Emoji struct {
	ID            Optional[snowflake.ID] `json:"id,omitempty" etf:"id"`
	Name          string                 `json:"name" etf:"name"`
	Roles         []snowflake.ID         `json:"roles,omitempty" etf:"roles"`
	User          *User                  `json:"user,omitempty" etf:"user"`
	RequireColons Optional[bool]         `json:"require_colons,omitempty" etf:"require_colons"`
	Managed       Optional[bool]         `json:"managed,omitempty" etf:"managed"`
	Animated      Optional[bool]         `json:"animated,omitempty" etf:"animated"`
	Available     Optional[bool]         `json:"available,omitempty" etf:"available"`
}

// Integration is a connected third-party account integration (spec §3).
type Integration struct {
	ID      snowflake.ID `json:"id" etf:"id"`
	Name    string       `json:"name" etf:"name"`
	Type    string       `json:"type" etf:"type"`
	Enabled bool         `json:"enabled" etf:"enabled"`
	Syncing Optional[bool] `json:"syncing,omitempty" etf:"syncing"`
	RoleID  Optional[snowflake.ID] `json:"role_id,omitempty" etf:"role_id"`
	User    *User        `json:"user,omitempty" etf:"user"`
}

// Ban records a guild ban (spec §3).
type Ban struct {
	Reason Optional[string] `json:"reason,omitempty" etf:"reason"`
	User   User             `json:"user" etf:"user"`
}
