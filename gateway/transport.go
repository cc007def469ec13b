// Package gateway owns the persistent bidirectional connection state
// machine (spec §4.5), adapted from the teacher's server-side
// gorilla/websocket hub pattern (internal/fabric/websocket.go) into a
// client-side dialer with reconnect/resume.
package gateway

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
)

// Transport abstracts the websocket connection so the state machine can
// be driven by a fake in tests (Design Notes §9's injectable-clock
// philosophy applied to the network boundary too).
type Transport interface {
	ReadMessage() (messageType int, data []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Dialer opens a Transport to url.
type Dialer interface {
	Dial(ctx context.Context, url string) (Transport, error)
}

// wsDialer is the production Dialer, backed by gorilla/websocket.
type wsDialer struct{}

// NewDialer returns the production websocket Dialer.
func NewDialer() Dialer { return wsDialer{} }

func (wsDialer) Dial(ctx context.Context, url string) (Transport, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	return &wsTransport{conn: conn}, nil
}

type wsTransport struct {
	conn *websocket.Conn
}

func (t *wsTransport) ReadMessage() (int, []byte, error) {
	return t.conn.ReadMessage()
}

func (t *wsTransport) WriteMessage(messageType int, data []byte) error {
	t.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return t.conn.WriteMessage(messageType, data)
}

func (t *wsTransport) Close() error {
	return t.conn.Close()
}

// Frame types mirrored from gorilla/websocket so callers outside this
// package don't need to import it directly.
const (
	TextMessage   = websocket.TextMessage
	BinaryMessage = websocket.BinaryMessage
)
