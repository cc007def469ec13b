package state

import (
	"github.com/ocx/dgo/snowflake"
	"github.com/ocx/dgo/types"
)

// VoiceStateKey is the composite key of a cached types.VoiceState, aliased
// to its first three fields rather than the union-punned composite id the
// source library used (Design Notes §9).
type VoiceStateKey struct {
	GuildID   snowflake.ID
	ChannelID snowflake.ID
	UserID    snowflake.ID
}

func voiceStateKey(v types.VoiceState) VoiceStateKey {
	return VoiceStateKey{
		GuildID:   v.GuildID.OrZero(),
		ChannelID: v.ChannelID.OrZero(),
		UserID:    v.UserID,
	}
}

func setVoiceStateKey(v *types.VoiceState, k VoiceStateKey) {
	v.GuildID = types.Some(k.GuildID)
	v.ChannelID = types.Some(k.ChannelID)
	v.UserID = k.UserID
}
