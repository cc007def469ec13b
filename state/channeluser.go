package state

import "github.com/ocx/dgo/snowflake"

// ChannelUserKey is the composite key of a ChannelUserEntry (spec §3).
type ChannelUserKey struct {
	ChannelID snowflake.ID
	UserID    snowflake.ID
}

// ChannelUserEntry tracks the last time a user was observed typing in a
// channel (spec §3).
type ChannelUserEntry struct {
	ChannelID      snowflake.ID
	UserID         snowflake.ID
	LastTypingUnix int64
}

func channelUserKey(e ChannelUserEntry) ChannelUserKey {
	return ChannelUserKey{ChannelID: e.ChannelID, UserID: e.UserID}
}

func setChannelUserKey(e *ChannelUserEntry, k ChannelUserKey) {
	e.ChannelID = k.ChannelID
	e.UserID = k.UserID
}
