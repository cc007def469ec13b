// Package dgo is a client library for a chat-platform real-time protocol:
// a persistent gateway connection that receives event streams and sends
// control commands, paired with a REST client issuing bucketed,
// rate-limited HTTP calls against the same service (spec §1/§2). Session
// binds both together and exposes per-resource handles.
package dgo

import (
	"context"
	"fmt"

	"github.com/ocx/dgo/api"
	"github.com/ocx/dgo/gateway"
	"github.com/ocx/dgo/metrics"
	"github.com/ocx/dgo/rest"
	"github.com/ocx/dgo/snowflake"
	"github.com/ocx/dgo/state"
)

// Session owns one bot connection: its gateway engine, REST engine, and
// shared entity Context (spec §2's "thin wrapper struct binds both
// together and exposes per-resource handles").
type Session struct {
	Token string

	REST    *rest.Engine
	Gateway *gateway.Engine
	State   *state.Context

	auth rest.RequestBuilder
}

// Options configures New.
type Options struct {
	Token          string
	RESTBaseURL    string
	UserAgent      string
	GatewayURL     func(ctx context.Context) (string, error)
	Encoding       string // "json" or "etf"
	ShardID        int
	ShardCount     int
	LargeThreshold int
	Metrics        *metrics.Metrics
}

// New constructs a Session with its own REST engine, gateway engine, and
// entity Context wired together.
func New(opts Options) (*Session, error) {
	if opts.Token == "" {
		return nil, fmt.Errorf("dgo: token is required")
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "DiscordBot (https://github.com/ocx/dgo, 1.0)"
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}

	restEngine, err := rest.New(opts.RESTBaseURL, opts.UserAgent, opts.Metrics)
	if err != nil {
		return nil, fmt.Errorf("dgo: rest engine: %w", err)
	}

	ctx := state.New()
	gw := gateway.New(gateway.Config{
		Token:          opts.Token,
		Encoding:       opts.Encoding,
		ShardID:        opts.ShardID,
		ShardCount:     opts.ShardCount,
		LargeThreshold: opts.LargeThreshold,
		GatewayURL:     opts.GatewayURL,
		Metrics:        opts.Metrics,
	}, ctx)

	return &Session{
		Token:   opts.Token,
		REST:    restEngine,
		Gateway: gw,
		State:   ctx,
		auth:    rest.BotAuth(opts.Token),
	}, nil
}

// Run drives the gateway connect/dispatch/reconnect loop until ctx is
// canceled or a fatal close code terminates the session.
func (s *Session) Run(ctx context.Context) error {
	return s.Gateway.Run(ctx)
}

// Channel returns a resource handle bound to channelID, routed through
// this Session's REST engine.
func (s *Session) Channel(channelID snowflake.ID) *api.ChannelAPI {
	return api.NewChannelAPI(s.REST, s.auth, channelID)
}

// Guild returns a resource handle bound to guildID, routed through this
// Session's REST engine.
func (s *Session) Guild(guildID snowflake.ID) *api.GuildAPI {
	return api.NewGuildAPI(s.REST, s.auth, guildID)
}
