package types

import "github.com/ocx/dgo/snowflake"

// ActivityType enumerates the rich-presence activity kind (original_source
// supplement: the distilled spec.md collapsed Activity to name/type/url;
// the source library's richer Activity — assets/timestamps/party — is
// restored here since nothing in the Non-goals excludes it).
type ActivityType int

const (
	ActivityTypeGame      ActivityType = 0
	ActivityTypeStreaming ActivityType = 1
	ActivityTypeListening ActivityType = 2
	ActivityTypeCustom    ActivityType = 4
	ActivityTypeCompeting ActivityType = 5
)

// ActivityTimestamps carries the start/end unix-millis of an Activity.
type ActivityTimestamps struct {
	Start Optional[int64] `json:"start,omitempty" etf:"start"`
	End   Optional[int64] `json:"end,omitempty" etf:"end"`
}

// ActivityParty describes the party a user's Activity is grouped into.
type ActivityParty struct {
	ID   Optional[string] `json:"id,omitempty" etf:"id"`
	Size []int            `json:"size,omitempty" etf:"size"` // [current, max]
}

// ActivityAssets carries the large/small image+text pair shown alongside
// an Activity.
type ActivityAssets struct {
	LargeImage Optional[string] `json:"large_image,omitempty" etf:"large_image"`
	LargeText  Optional[string] `json:"large_text,omitempty" etf:"large_text"`
	SmallImage Optional[string] `json:"small_image,omitempty" etf:"small_image"`
	SmallText  Optional[string] `json:"small_text,omitempty" etf:"small_text"`
}

// ActivitySecrets carries join/spectate/match secrets exchanged with a
// Rich Presence-aware client.
type ActivitySecrets struct {
	Join     Optional[string] `json:"join,omitempty" etf:"join"`
	Spectate Optional[string] `json:"spectate,omitempty" etf:"spectate"`
	Match    Optional[string] `json:"match,omitempty" etf:"match"`
}

// Activity is a single rich-presence activity entry (spec §3, expanded
// per original_source).
type Activity struct {
	Name          string              `json:"name" etf:"name"`
	Type          ActivityType        `json:"type" etf:"type"`
	URL           Optional[string]    `json:"url,omitempty" etf:"url"`
	CreatedAt     Optional[int64]     `json:"created_at,omitempty" etf:"created_at"`
	Timestamps    *ActivityTimestamps `json:"timestamps,omitempty" etf:"timestamps"`
	ApplicationID Optional[snowflake.ID] `json:"application_id,omitempty" etf:"application_id"`
	Details       Optional[string]    `json:"details,omitempty" etf:"details"`
	State         Optional[string]    `json:"state,omitempty" etf:"state"`
	Party         *ActivityParty      `json:"party,omitempty" etf:"party"`
	Assets        *ActivityAssets     `json:"assets,omitempty" etf:"assets"`
	Secrets       *ActivitySecrets    `json:"secrets,omitempty" etf:"secrets"`
	Instance      Optional[bool]      `json:"instance,omitempty" etf:"instance"`
	Flags         Optional[int]       `json:"flags,omitempty" etf:"flags"`
}

// ClientStatus reports a user's per-platform online status (original_source
// supplement).
type ClientStatus struct {
	Desktop Optional[string] `json:"desktop,omitempty" etf:"desktop"`
	Mobile  Optional[string] `json:"mobile,omitempty" etf:"mobile"`
	Web     Optional[string] `json:"web,omitempty" etf:"web"`
}

// PresenceUpdate reports a user's status and activity list within a guild
// (spec §3).
type PresenceUpdate struct {
	User         User           `json:"user" etf:"user"`
	GuildID      snowflake.ID   `json:"guild_id" etf:"guild_id"`
	Status       string         `json:"status" etf:"status"`
	Activities   []Activity     `json:"activities" etf:"activities"`
	ClientStatus ClientStatus   `json:"client_status" etf:"client_status"`
}
