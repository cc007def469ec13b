package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ocx/dgo/rest"
	"github.com/ocx/dgo/snowflake"
)

type fakeEngine struct {
	calls []call
	resp  *rest.Response
	err   error
}

type call struct {
	method, route, bucket string
}

func (f *fakeEngine) Do(ctx context.Context, method, route, bucket string, build rest.RequestBuilder) (*rest.Response, error) {
	f.calls = append(f.calls, call{method, route, bucket})
	return f.resp, f.err
}

func noAuth(*http.Request) error { return nil }

func TestGetMessagesRejectsOutOfRangeLimit(t *testing.T) {
	fe := &fakeEngine{}
	c := &ChannelAPI{id: snowflake.ID(1), engine: fe, auth: noAuth}
	_, err := c.GetMessages(context.Background(), GetMessagesOptions{Limit: 0})
	require.Error(t, err)
	_, err = c.GetMessages(context.Background(), GetMessagesOptions{Limit: 101})
	require.Error(t, err)
	assert.Empty(t, fe.calls)
}

func TestGetMessagesRejectsMultipleAnchors(t *testing.T) {
	fe := &fakeEngine{}
	c := &ChannelAPI{id: snowflake.ID(1), engine: fe, auth: noAuth}
	a, b := snowflake.ID(10), snowflake.ID(20)
	_, err := c.GetMessages(context.Background(), GetMessagesOptions{Limit: 10, Before: &a, After: &b})
	require.Error(t, err)
}

func TestDeleteMessagesRoutesSingleToSingleEndpoint(t *testing.T) {
	fe := &fakeEngine{resp: &rest.Response{Status: http.StatusNoContent}}
	c := &ChannelAPI{id: snowflake.ID(1), engine: fe, auth: noAuth}
	err := c.DeleteMessages(context.Background(), []snowflake.ID{snowflake.ID(42)})
	require.NoError(t, err)
	require.Len(t, fe.calls, 1)
	assert.Equal(t, "/channels/1/messages/42", fe.calls[0].route)
	assert.Equal(t, http.MethodDelete, fe.calls[0].method)
}

func TestDeleteMessagesRoutesBulkAbove100Rejected(t *testing.T) {
	fe := &fakeEngine{}
	c := &ChannelAPI{id: snowflake.ID(1), engine: fe, auth: noAuth}
	ids := make([]snowflake.ID, 101)
	err := c.DeleteMessages(context.Background(), ids)
	require.Error(t, err)
	assert.Empty(t, fe.calls)
}

func TestDeleteMessagesRoutesBulkEndpoint(t *testing.T) {
	fe := &fakeEngine{resp: &rest.Response{Status: http.StatusNoContent}}
	c := &ChannelAPI{id: snowflake.ID(1), engine: fe, auth: noAuth}
	err := c.DeleteMessages(context.Background(), []snowflake.ID{snowflake.ID(1), snowflake.ID(2)})
	require.NoError(t, err)
	assert.Equal(t, "/channels/1/messages/bulk-delete", fe.calls[0].route)
}

func TestChangeNicknameReturnsServerValue(t *testing.T) {
	body, _ := json.Marshal(map[string]string{"nick": "accepted"})
	fe := &fakeEngine{resp: &rest.Response{Status: http.StatusOK, Body: body}}
	g := &GuildAPI{id: snowflake.ID(1), engine: fe, auth: noAuth}
	nick, err := g.ChangeNickname(context.Background(), "wanted")
	require.NoError(t, err)
	assert.Equal(t, "accepted", nick)
}

func TestUnbanIsStrictDelete(t *testing.T) {
	fe := &fakeEngine{resp: &rest.Response{Status: http.StatusNoContent}}
	g := &GuildAPI{id: snowflake.ID(1), engine: fe, auth: noAuth}
	err := g.Unban(context.Background(), snowflake.ID(99))
	require.NoError(t, err)
	assert.Equal(t, "/guilds/1/bans/99", fe.calls[0].route)
	assert.Equal(t, http.MethodDelete, fe.calls[0].method)
}

func TestBanIncludesOnlyProvidedQueryParams(t *testing.T) {
	fe := &fakeEngine{resp: &rest.Response{Status: http.StatusNoContent}}
	g := &GuildAPI{id: snowflake.ID(1), engine: fe, auth: noAuth}
	reason := "spam"
	err := g.Ban(context.Background(), snowflake.ID(5), BanOptions{Reason: &reason})
	require.NoError(t, err)
	assert.Contains(t, fe.calls[0].route, "reason=spam")
	assert.NotContains(t, fe.calls[0].route, "delete-message-days")
}
