// Package rest implements the bucketed, rate-limited HTTP client engine
// (spec §4.4), grounded on the teacher's circuit-breaker-shaped retry
// discipline (internal/circuitbreaker/breaker.go) adapted from a trip/reset
// state machine into a bounded retry loop with a per-attempt watchdog.
package rest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ocx/dgo/metrics"
)

const maxAttempts = 5
const attemptTimeout = 12 * time.Second

// RequestBuilder customizes an outgoing *http.Request (auth header, JSON
// or ETF body) before it is sent.
type RequestBuilder func(req *http.Request) error

// Engine issues bucketed REST requests against a single base URL (spec
// §4.4/§6).
type Engine struct {
	client    *http.Client
	base      *url.URL
	userAgent string
	buckets   *buckets
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// New constructs an Engine. baseURL must be an absolute URL, e.g.
// "https://gateway.example.com/api/v6".
func New(baseURL, userAgent string, m *metrics.Metrics) (*Engine, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("rest: invalid base url: %w", err)
	}
	return &Engine{
		client:    &http.Client{},
		base:      u,
		userAgent: userAgent,
		buckets:   newBuckets(),
		metrics:   m,
		logger:    slog.Default().With("component", "rest"),
	}, nil
}

// Response is the outcome of a successful Do call.
type Response struct {
	Status int
	Body   []byte
}

// Do issues method against route, using bucket (defaulting to route when
// empty) for rate-limit accounting, applying build to customize each
// outgoing attempt (spec §4.4).
func (e *Engine) Do(ctx context.Context, method, route, bucket string, build RequestBuilder) (*Response, error) {
	route, bucket = normalize(route, bucket)
	traceID := uuid.NewString()

	currentURL := e.resolve(route)

	var lastErr error
	redirects := 0
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		e.buckets.acquire(bucket)

		attemptCtx, cancel := context.WithTimeout(ctx, attemptTimeout)
		resp, err := e.attempt(attemptCtx, method, currentURL, build)
		cancel()

		if err != nil {
			if attemptCtx.Err() != nil {
				lastErr = &RequestTimeout{Route: route}
				e.logger.Warn("rest attempt timed out", "trace", traceID, "route", route, "attempt", attempt)
				e.recordResult(bucket, "timeout")
				continue
			}
			lastErr = err
			e.recordResult(bucket, "transport_error")
			continue
		}

		if resp.StatusCode >= 300 && resp.StatusCode < 400 {
			loc := resp.Header.Get("Location")
			resp.Body.Close()
			redirects++
			if redirects > maxAttempts {
				return nil, &BadRedirect{Location: loc}
			}
			next, rerr := e.resolveRedirect(currentURL, loc)
			if rerr != nil {
				return nil, rerr
			}
			currentURL = next
			attempt-- // redirect does not consume a retry attempt nor release the bucket
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			e.recordResult(bucket, "read_error")
			continue
		}

		retry, sleepFor := e.buckets.updateFromHeaders(bucket, httpHeaderView{resp.Header}, resp.StatusCode)
		if retry {
			e.recordRateLimited(bucket, resp.Header.Get("X-RateLimit-Global") == "true")
			time.Sleep(sleepFor)
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			e.recordResult(bucket, "ok")
			if resp.StatusCode == http.StatusNoContent {
				return &Response{Status: resp.StatusCode}, nil
			}
			return &Response{Status: resp.StatusCode, Body: body}, nil
		}

		if resp.StatusCode >= 400 {
			e.recordResult(bucket, "http_error")
			return nil, &HTTPError{Status: resp.StatusCode, Body: body}
		}
	}

	e.recordResult(bucket, "exhausted")
	return nil, &RetryExhausted{Route: route, Attempts: maxAttempts, Last: lastErr}
}

func (e *Engine) attempt(ctx context.Context, method string, u *url.URL, build RequestBuilder) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", e.userAgent)
	if build != nil {
		if err := build(req); err != nil {
			return nil, err
		}
	}
	return e.client.Do(req)
}

func (e *Engine) resolve(route string) *url.URL {
	u := *e.base
	u.Path = strings.TrimRight(u.Path, "/") + route
	return &u
}

// resolveRedirect validates and resolves a 3xx Location header per spec
// §4.4: absolute URLs must share the endpoint base, server-relative URLs
// must share the API base path, document-relative URLs are always
// accepted.
func (e *Engine) resolveRedirect(current *url.URL, location string) (*url.URL, error) {
	if location == "" {
		return nil, &BadRedirect{Location: location}
	}
	loc, err := url.Parse(location)
	if err != nil {
		return nil, &BadRedirect{Location: location}
	}

	if loc.IsAbs() {
		if loc.Scheme == e.base.Scheme && loc.Host == e.base.Host {
			return loc, nil
		}
		return nil, &BadRedirect{Location: location}
	}

	if strings.HasPrefix(loc.Path, "/") {
		if strings.HasPrefix(loc.Path, e.base.Path) {
			resolved := *e.base
			resolved.Path = loc.Path
			resolved.RawQuery = loc.RawQuery
			return &resolved, nil
		}
		return nil, &BadRedirect{Location: location}
	}

	// Document-relative.
	resolved := current.ResolveReference(loc)
	return resolved, nil
}

func normalize(route, bucket string) (string, string) {
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	if bucket == "" {
		bucket = route
	} else if !strings.HasPrefix(bucket, "/") {
		bucket = "/" + bucket
	}
	return route, bucket
}

func (e *Engine) recordResult(bucket, status string) {
	if e.metrics == nil {
		return
	}
	e.metrics.RESTRequests.WithLabelValues(bucket, status).Inc()
}

func (e *Engine) recordRateLimited(bucket string, global bool) {
	if e.metrics == nil {
		return
	}
	g := "false"
	if global {
		g = "true"
	}
	e.metrics.RESTRateLimited.WithLabelValues(bucket, g).Inc()
}

// JSONBody returns a RequestBuilder that sets the request body to the
// given JSON payload along with the appropriate Content-Type.
func JSONBody(payload []byte) RequestBuilder {
	return func(req *http.Request) error {
		req.Body = io.NopCloser(bytes.NewReader(payload))
		req.ContentLength = int64(len(payload))
		req.Header.Set("Content-Type", "application/json")
		return nil
	}
}

// BotAuth returns a RequestBuilder that sets the Authorization header to
// "Bot <token>" (spec §6).
func BotAuth(token string) RequestBuilder {
	return func(req *http.Request) error {
		req.Header.Set("Authorization", "Bot "+token)
		return nil
	}
}

// Chain composes multiple RequestBuilders into one, applied in order.
func Chain(builders ...RequestBuilder) RequestBuilder {
	return func(req *http.Request) error {
		for _, b := range builders {
			if b == nil {
				continue
			}
			if err := b(req); err != nil {
				return err
			}
		}
		return nil
	}
}
