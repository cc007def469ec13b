package state

import (
	"github.com/ocx/dgo/snowflake"
	"github.com/ocx/dgo/types"
)

// GuildUserKey is the composite key of a GuildUserEntry (spec §3).
type GuildUserKey struct {
	GuildID snowflake.ID
	UserID  snowflake.ID
}

// GuildUserEntry tracks one user's membership state within one guild: join
// time, roles, nickname, and the presence fields mirrored from the most
// recent PRESENCE_UPDATE (spec §3).
type GuildUserEntry struct {
	GuildID  snowflake.ID
	UserID   snowflake.ID
	JoinedAt string
	Roles    []snowflake.ID
	Nick     types.Optional[string]
	Deaf     bool
	Mute     bool
	Status   string
	Game     *types.Activity
}

func guildUserKey(e GuildUserEntry) GuildUserKey {
	return GuildUserKey{GuildID: e.GuildID, UserID: e.UserID}
}

func setGuildUserKey(e *GuildUserEntry, k GuildUserKey) {
	e.GuildID = k.GuildID
	e.UserID = k.UserID
}

// FromGuildMember builds a GuildUserEntry from a gateway-delivered
// GuildMember attached to guildID.
func FromGuildMember(guildID snowflake.ID, m types.GuildMember) GuildUserEntry {
	e := GuildUserEntry{
		GuildID:  guildID,
		JoinedAt: m.JoinedAt,
		Roles:    m.Roles,
		Nick:     m.Nick,
		Deaf:     m.Deaf,
		Mute:     m.Mute,
	}
	if m.User != nil {
		e.UserID = m.User.ID
	}
	return e
}
