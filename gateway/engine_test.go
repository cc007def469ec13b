package gateway

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ocx/dgo/snowflake"
	"github.com/ocx/dgo/state"
)

// fakeTransport scripts inbound frames and records outbound ones, driving
// the Engine end-to-end without a real websocket (spec §8).
type fakeTransport struct {
	mu       sync.Mutex
	inbound  chan []byte
	outbound [][]byte
	closed   bool
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{inbound: make(chan []byte, 64)}
}

func (f *fakeTransport) push(op Opcode, t string, d any) {
	payload, _ := json.Marshal(d)
	frame := struct {
		Op Opcode          `json:"op"`
		D  json.RawMessage `json:"d"`
		T  *string         `json:"t,omitempty"`
	}{Op: op, D: payload}
	if t != "" {
		frame.T = &t
	}
	data, _ := json.Marshal(frame)
	f.inbound <- data
}

func (f *fakeTransport) ReadMessage() (int, []byte, error) {
	data, ok := <-f.inbound
	if !ok {
		return 0, nil, errClosed
	}
	return TextMessage, data, nil
}

func (f *fakeTransport) WriteMessage(_ int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := append([]byte(nil), data...)
	f.outbound = append(f.outbound, cp)
	return nil
}

func (f *fakeTransport) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		close(f.inbound)
	}
	return nil
}

type errSentinel struct{}

func (errSentinel) Error() string { return "fake transport closed" }

var errClosed = errSentinel{}

type fakeDialer struct {
	transport *fakeTransport
}

func (d fakeDialer) Dial(context.Context, string) (Transport, error) {
	return d.transport, nil
}

func TestEngineEndToEndMessageLifecycle(t *testing.T) {
	ft := newFakeTransport()
	ctx := state.New()

	cfg := Config{
		Token:    "tok",
		Encoding: "json",
		Dialer:   fakeDialer{transport: ft},
		GatewayURL: func(context.Context) (string, error) {
			return "wss://gateway.test", nil
		},
	}
	e := New(cfg, ctx)

	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- e.connectOnce(runCtx, false) }()

	ft.push(OpHello, "", helloPayload{HeartbeatIntervalMs: 30_000})

	require.Eventually(t, func() bool {
		ft.mu.Lock()
		defer ft.mu.Unlock()
		return len(ft.outbound) >= 1
	}, time.Second, time.Millisecond, "identify never sent")

	ft.push(OpDispatch, "READY", map[string]any{
		"v":                1,
		"user":             map[string]any{"id": "1", "username": "self"},
		"session_id":       "sess-abc",
		"guilds":           []any{},
		"private_channels": []any{},
	})

	ft.push(OpDispatch, "MESSAGE_CREATE", map[string]any{
		"id":         "100",
		"channel_id": "200",
		"author":     map[string]any{"id": "1", "username": "self"},
		"content":    "hello",
		"timestamp":  "2024-01-01T00:00:00Z",
	})

	require.Eventually(t, func() bool {
		_, ok := ctx.Messages.Get(snowflake.ID(100))
		return ok
	}, time.Second, time.Millisecond, "message never cached")

	ft.push(OpDispatch, "MESSAGE_REACTION_ADD", map[string]any{
		"user_id":    "1",
		"message_id": "100",
		"channel_id": "200",
		"emoji":      map[string]any{"id": nil, "name": "👍"},
	})

	require.Eventually(t, func() bool {
		m, ok := ctx.Messages.Get(snowflake.ID(100))
		return ok && len(m.Reactions) == 1 && m.Reactions[0].Count == 1
	}, time.Second, time.Millisecond, "reaction never applied")

	ft.push(OpDispatch, "MESSAGE_DELETE", map[string]any{
		"id":         "100",
		"channel_id": "200",
	})

	require.Eventually(t, func() bool {
		_, ok := ctx.Messages.Get(snowflake.ID(100))
		return !ok
	}, time.Second, time.Millisecond, "message never evicted")

	cancel()
	ft.Close()
	err := <-done
	assert.Error(t, err)
}

func TestSendFrameRejectsOversizedPacket(t *testing.T) {
	ft := newFakeTransport()
	e := New(Config{Dialer: fakeDialer{transport: ft}, Encoding: "json"}, state.New())
	e.transport = ft

	huge := make([]byte, maxOutboundFrameBytes+1)
	for i := range huge {
		huge[i] = 'a'
	}
	err := e.sendFrame(Frame{Op: OpStatusUpdate, D: string(huge)})
	assert.ErrorIs(t, err, ErrPacketTooLarge)
}

func TestPolicyForUnknownCodeIsResumable(t *testing.T) {
	assert.Equal(t, closeReconnectResumable, policyFor(1006))
	assert.Equal(t, closeFatal, policyFor(4004))
	assert.Equal(t, closeResetSessionReconnect, policyFor(4009))
}
