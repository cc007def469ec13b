// Package api binds ChannelAPI and GuildAPI resource handles over the REST
// engine (spec §4.7): each operation composes a path and a bucket key from
// a fixed prefix plus an operation suffix, then invokes the engine with the
// right method and body.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ocx/dgo/rest"
)

// BadRequest is returned for client-side input violations caught before a
// request is ever sent (spec §7).
type BadRequest struct {
	Reason string
}

func (e *BadRequest) Error() string { return "api: bad request: " + e.Reason }

// engine is the subset of *rest.Engine the resource APIs depend on,
// narrowed so tests can substitute a fake.
type engine interface {
	Do(ctx context.Context, method, route, bucket string, build rest.RequestBuilder) (*rest.Response, error)
}

func doJSON(ctx context.Context, e engine, method, route, bucket string, auth rest.RequestBuilder, body []byte, out any) error {
	var builder rest.RequestBuilder = auth
	if body != nil {
		builder = rest.Chain(auth, rest.JSONBody(body))
	}
	resp, err := e.Do(ctx, method, route, bucket, builder)
	if err != nil {
		return err
	}
	if out == nil || resp.Status == http.StatusNoContent || len(resp.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("api: decode response: %w", err)
	}
	return nil
}
