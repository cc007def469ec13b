package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ocx/dgo/rest"
	"github.com/ocx/dgo/snowflake"
	"github.com/ocx/dgo/types"
)

// ChannelAPI binds a channel ID and an auth closure to the channel
// resource's operations (spec §4.7).
type ChannelAPI struct {
	id     snowflake.ID
	engine engine
	auth   rest.RequestBuilder
}

// NewChannelAPI constructs a ChannelAPI bound to channelID.
func NewChannelAPI(e *rest.Engine, auth rest.RequestBuilder, channelID snowflake.ID) *ChannelAPI {
	return &ChannelAPI{id: channelID, engine: e, auth: auth}
}

func (c *ChannelAPI) prefix() string { return "/channels/" + c.id.String() }

// Get fetches the channel itself.
func (c *ChannelAPI) Get(ctx context.Context) (*types.Channel, error) {
	var ch types.Channel
	if err := doJSON(ctx, c.engine, http.MethodGet, c.prefix(), c.prefix(), c.auth, nil, &ch); err != nil {
		return nil, err
	}
	return &ch, nil
}

// GetMessagesOptions constrains get_messages (spec §4.7): limit must be in
// [1,100] and at most one of Around/Before/After may be set.
type GetMessagesOptions struct {
	Limit  int
	Around *snowflake.ID
	Before *snowflake.ID
	After  *snowflake.ID
}

// GetMessages lists messages in the channel.
func (c *ChannelAPI) GetMessages(ctx context.Context, opts GetMessagesOptions) ([]types.Message, error) {
	if opts.Limit < 1 || opts.Limit > 100 {
		return nil, &BadRequest{Reason: "limit must be in [1,100]"}
	}
	anchors := 0
	for _, set := range []bool{opts.Around != nil, opts.Before != nil, opts.After != nil} {
		if set {
			anchors++
		}
	}
	if anchors > 1 {
		return nil, &BadRequest{Reason: "at most one of around/before/after may be set"}
	}

	q := url.Values{}
	q.Set("limit", strconv.Itoa(opts.Limit))
	if opts.Around != nil {
		q.Set("around", opts.Around.String())
	}
	if opts.Before != nil {
		q.Set("before", opts.Before.String())
	}
	if opts.After != nil {
		q.Set("after", opts.After.String())
	}

	route := c.prefix() + "/messages?" + q.Encode()
	bucket := c.prefix() + "/messages"
	var messages []types.Message
	if err := doJSON(ctx, c.engine, http.MethodGet, route, bucket, c.auth, nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// DeleteMessages removes 1-100 messages, routing a single id to the
// single-message endpoint and more than one to the bulk-delete endpoint
// (spec §4.7; Open Questions adopts the forgiving len==1 behavior).
func (c *ChannelAPI) DeleteMessages(ctx context.Context, ids []snowflake.ID) error {
	if len(ids) < 1 || len(ids) > 100 {
		return &BadRequest{Reason: "delete_messages requires 1 to 100 ids"}
	}
	bucket := c.prefix() + "/messages"
	if len(ids) == 1 {
		route := fmt.Sprintf("%s/messages/%s", c.prefix(), ids[0].String())
		return doJSON(ctx, c.engine, http.MethodDelete, route, bucket, c.auth, nil, nil)
	}
	body, err := json.Marshal(struct {
		Messages []snowflake.ID `json:"messages"`
	}{Messages: ids})
	if err != nil {
		return err
	}
	route := c.prefix() + "/messages/bulk-delete"
	return doJSON(ctx, c.engine, http.MethodPost, route, bucket, c.auth, body, nil)
}

// CreateInviteOptions carries only the non-default fields to include in
// the invite body (spec §4.7).
type CreateInviteOptions struct {
	MaxAge    *int
	MaxUses   *int
	Temporary *bool
	Unique    *bool
}

// CreateInvite creates an invite for the channel.
func (c *ChannelAPI) CreateInvite(ctx context.Context, opts CreateInviteOptions) (*types.Invite, error) {
	fields := map[string]any{}
	if opts.MaxAge != nil {
		fields["max_age"] = *opts.MaxAge
	}
	if opts.MaxUses != nil {
		fields["max_uses"] = *opts.MaxUses
	}
	if opts.Temporary != nil {
		fields["temporary"] = *opts.Temporary
	}
	if opts.Unique != nil {
		fields["unique"] = *opts.Unique
	}
	body, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}

	route := c.prefix() + "/invites"
	var invite types.Invite
	if err := doJSON(ctx, c.engine, http.MethodPost, route, route, c.auth, body, &invite); err != nil {
		return nil, err
	}
	return &invite, nil
}

// AddReaction reacts to a message with emoji (unencoded, e.g. "👍" or
// "name:id"; it is path-escaped here) using the dedicated reactions bucket
// (spec §4.7's Open Questions: distinct from the general messages bucket).
func (c *ChannelAPI) AddReaction(ctx context.Context, messageID snowflake.ID, emoji string) error {
	route := fmt.Sprintf("%s/messages/%s/reactions/%s/@me", c.prefix(), messageID.String(), url.PathEscape(emoji))
	bucket := c.prefix() + "/messages/reactions"
	return doJSON(ctx, c.engine, http.MethodPut, route, bucket, c.auth, nil, nil)
}
