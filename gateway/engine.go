package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/ocx/dgo/etf"
	dgometrics "github.com/ocx/dgo/metrics"
	"github.com/ocx/dgo/ratelimit"
	"github.com/ocx/dgo/state"
)

// State is the gateway connection state (spec §4.5).
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateAwaitingHello
	StateAuthenticating
	StateRunning
	StateReconnecting
	StateTerminal
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateAwaitingHello:
		return "awaiting_hello"
	case StateAuthenticating:
		return "authenticating"
	case StateRunning:
		return "running"
	case StateReconnecting:
		return "reconnecting"
	case StateTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// ErrProtocol is returned when the gateway sees an unexpected opcode or
// malformed initial frame (spec §7).
var ErrProtocol = errors.New("gateway: protocol error")

// ErrPacketTooLarge is returned when an outbound frame exceeds
// maxOutboundFrameBytes (spec §4.5).
var ErrPacketTooLarge = errors.New("gateway: outbound packet too large")

// IdentifyCap selects the identify rate-limit cap, set per Engine through
// Config.IdentifyCap (IdentifyCap1000 when left zero).
type IdentifyCap int

const (
	IdentifyCap1000 IdentifyCap = 1000
	IdentifyCap2000 IdentifyCap = 2000
)

// Config configures an Engine (spec §4.5/§6).
type Config struct {
	Token          string
	Encoding       string // "json" or "etf"
	ShardID        int
	ShardCount     int
	LargeThreshold int
	IdentifyCap    IdentifyCap

	// GatewayURL resolves the base wss:// URL, e.g. via a cached REST
	// call (spec §4.5: "fetch gateway_url if not cached"). Callers own
	// caching/invalidation; the Engine calls this once per Connect.
	GatewayURL func(ctx context.Context) (string, error)

	Dialer  Dialer
	Metrics *dgometrics.Metrics
}

// Engine owns one shard's websocket connection and state machine.
type Engine struct {
	cfg   Config
	state *state.Context

	session sessionState
	gwState State

	connectCooldown *ratelimit.Cooldown
	identifyWindow  *ratelimit.Window
	sendWindow      *ratelimit.Window
	statusWindow    *ratelimit.Window

	transport Transport

	logger   *slog.Logger
	frameLog *log.Logger

	heartbeatIntervalMs int64
}

// New constructs an Engine bound to ctx for cache mutations.
func New(cfg Config, ctx *state.Context) *Engine {
	if cfg.Dialer == nil {
		cfg.Dialer = NewDialer()
	}
	if cfg.Encoding == "" {
		cfg.Encoding = "json"
	}
	if cfg.IdentifyCap == 0 {
		cfg.IdentifyCap = IdentifyCap1000
	}

	identifyWindow := ratelimit.NewWindow(int(cfg.IdentifyCap), 24*time.Hour, 5100*time.Millisecond)

	e := &Engine{
		cfg:             cfg,
		connectCooldown: ratelimit.NewCooldown(5100 * time.Millisecond),
		identifyWindow:  identifyWindow,
		sendWindow:      ratelimit.NewWindow(12, 6*time.Second, 100*time.Millisecond),
		statusWindow:    ratelimit.NewWindow(5, 60*time.Second, time.Second),
		logger:          slog.Default().With("component", "gateway", "shard", cfg.ShardID),
		frameLog:        log.New(os.Stderr, fmt.Sprintf("[GATEWAY:%d] ", cfg.ShardID), log.LstdFlags),
	}
	if ctx == nil {
		ctx = state.New()
	}
	e.state = ctx
	e.session.encoding = cfg.Encoding
	return e
}

// Run drives the connect/identify/dispatch/reconnect loop until ctx is
// canceled or a fatal close code is observed (spec §4.5).
func (e *Engine) Run(ctx context.Context) error {
	resume := false
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		e.connectCooldown.WaitFor()
		e.setState(StateConnecting)

		if err := e.connectOnce(ctx, resume); err != nil {
			var closed *GatewayClosed
			if errors.As(err, &closed) {
				e.setState(StateTerminal)
				return closed
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}

			e.logger.Warn("connection attempt failed, retrying", "error", err)
			e.setState(StateReconnecting)
			time.Sleep(10 * time.Second)
			resume = e.session.canResume()
			continue
		}

		// connectOnce returned nil only via a reconnect signal recorded
		// on the session; inspect it to decide whether to resume.
		resume = e.session.canResume()
	}
}

// connectOnce performs one full connect → hello → authenticate → running
// cycle, returning when the connection drops or a fatal error occurs.
func (e *Engine) connectOnce(ctx context.Context, resume bool) error {
	url, err := e.resolveURL(ctx)
	if err != nil {
		return fmt.Errorf("gateway: resolve url: %w", err)
	}

	transport, err := e.cfg.Dialer.Dial(ctx, url)
	if err != nil {
		return fmt.Errorf("gateway: dial: %w", err)
	}
	e.transport = transport
	defer e.transport.Close()

	e.setState(StateAwaitingHello)
	interval, err := e.awaitHello()
	if err != nil {
		return err
	}
	e.heartbeatIntervalMs = interval

	e.setState(StateAuthenticating)
	if resume && e.session.canResume() {
		if err := e.sendResume(); err != nil {
			return err
		}
	} else {
		if err := e.sendIdentify(ctx); err != nil {
			return err
		}
	}

	e.session.setAck(true)
	stop := make(chan struct{})
	workerDone := make(chan struct{})
	go func() {
		e.heartbeatWorker(stop)
		close(workerDone)
	}()
	defer func() {
		close(stop)
		<-workerDone
	}()

	e.setState(StateRunning)
	return e.receiveLoop(ctx)
}

func (e *Engine) resolveURL(ctx context.Context) (string, error) {
	base, err := e.cfg.GatewayURL(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/?v=6&encoding=%s", base, e.cfg.Encoding), nil
}

func (e *Engine) awaitHello() (int64, error) {
	_, data, err := e.transport.ReadMessage()
	if err != nil {
		return 0, fmt.Errorf("gateway: read hello: %w", err)
	}
	var f RawFrame
	if err := e.unmarshalFrame(data, &f); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrProtocol, err)
	}
	if f.Op != OpHello {
		return 0, fmt.Errorf("%w: expected HELLO, got opcode %d", ErrProtocol, f.Op)
	}
	var hello helloPayload
	if err := json.Unmarshal(f.D, &hello); err != nil {
		return 0, fmt.Errorf("%w: bad hello payload: %v", ErrProtocol, err)
	}
	return hello.HeartbeatIntervalMs, nil
}

func (e *Engine) sendIdentify(ctx context.Context) error {
	e.identifyWindow.WaitFor()
	e.sendWindow.WaitFor()

	props := identifyProperties{
		OS:      runtime.GOOS,
		Browser: "vibe-like-transport",
		Device:  runtime.GOARCH,
	}
	payload := identifyPayload{
		Token:          e.cfg.Token,
		Properties:     props,
		LargeThreshold: e.cfg.LargeThreshold,
	}
	if e.cfg.ShardCount > 1 {
		payload.Shard = &[2]int{e.cfg.ShardID, e.cfg.ShardCount}
	}
	return e.sendFrame(Frame{Op: OpIdentify, D: payload})
}

func (e *Engine) sendResume() error {
	e.sendWindow.WaitFor()
	seq := int64(0)
	if p := e.session.sequencePtr(); p != nil {
		seq = *p
	}
	payload := resumePayload{
		Token:     e.cfg.Token,
		SessionID: e.session.getSessionID(),
		Seq:       seq,
	}
	return e.sendFrame(Frame{Op: OpResume, D: payload})
}

func (e *Engine) heartbeatWorker(stop <-chan struct{}) {
	interval := time.Duration(e.heartbeatIntervalMs) * time.Millisecond
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if !e.session.ack() {
				e.logger.Warn("heartbeat ack missing, forcing reconnect")
				e.transport.Close()
				return
			}
			if err := e.sendFrame(Frame{Op: OpHeartbeat, D: heartbeatPayload{Seq: e.session.sequencePtr()}}); err != nil {
				e.logger.Warn("heartbeat send failed", "error", err)
				return
			}
			e.session.setAck(false)
		case <-stop:
			return
		}
	}
}

// receiveLoop reads frames until the connection fails or a fatal close
// code terminates the engine (spec §4.5).
func (e *Engine) receiveLoop(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		_, data, err := e.transport.ReadMessage()
		if err != nil {
			if ce, ok := asCloseError(err); ok {
				return e.handleClose(ce)
			}
			return fmt.Errorf("gateway: read: %w", err)
		}

		var f RawFrame
		if err := e.unmarshalFrame(data, &f); err != nil {
			e.frameLog.Printf("dropping malformed frame: %v", err)
			continue
		}

		switch f.Op {
		case OpDispatch:
			if f.S != nil {
				e.session.setSequence(*f.S)
			}
			event := ""
			if f.T != nil {
				event = *f.T
			}
			go e.dispatch(event, f.D)
			if event == "READY" || event == "RESUMED" {
				e.onSessionEstablished(f.D, event)
			}
		case OpReconnect:
			return nil // caller resumes
		case OpInvalidSession:
			e.session.clearSession()
			e.connectCooldown.WaitFor()
			return nil // caller re-identifies
		case OpHeartbeat, OpHeartbeatAck:
			e.session.setAck(true)
		default:
			e.frameLog.Printf("ignoring opcode %d", f.Op)
		}
	}
}

func (e *Engine) dispatch(event string, data []byte) {
	defer func() {
		if r := recover(); r != nil {
			e.frameLog.Printf("handler panic for %s: %v", event, r)
		}
	}()
	state.Dispatch(e.state, event, data)
	if e.cfg.Metrics != nil {
		e.cfg.Metrics.DispatchedEvents.WithLabelValues(strconv.Itoa(e.cfg.ShardID), event).Inc()
	}
}

type readySessionPayload struct {
	SessionID string `json:"session_id"`
}

func (e *Engine) onSessionEstablished(data []byte, event string) {
	if event != "READY" {
		return
	}
	var p readySessionPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return
	}
	e.session.setSessionID(p.SessionID)
}

func (e *Engine) handleClose(code int) error {
	switch policyFor(code) {
	case closeFatal:
		return &GatewayClosed{Code: code, Reason: "fatal close code"}
	case closeResetSessionReconnect:
		e.session.clearSession()
		return nil
	default:
		if !e.session.canResume() {
			delay := time.Duration(1000+rand.Intn(4000)) * time.Millisecond
			time.Sleep(delay)
		}
		return nil
	}
}

func (e *Engine) sendFrame(f Frame) error {
	e.sendWindow.WaitFor()
	data, err := e.marshalFrame(f)
	if err != nil {
		return err
	}
	if len(data) > maxOutboundFrameBytes {
		return ErrPacketTooLarge
	}
	mt := TextMessage
	if e.cfg.Encoding == "etf" {
		mt = BinaryMessage
	}
	return e.transport.WriteMessage(mt, data)
}

func (e *Engine) marshalFrame(f Frame) ([]byte, error) {
	if e.cfg.Encoding == "etf" {
		return etf.Encode(map[string]any{"op": int(f.Op), "d": f.D})
	}
	return json.Marshal(f)
}

func (e *Engine) unmarshalFrame(data []byte, f *RawFrame) error {
	if e.cfg.Encoding == "etf" {
		return etf.DecodeInto(data, f)
	}
	return json.Unmarshal(data, f)
}

func (e *Engine) setState(s State) {
	e.gwState = s
	if e.cfg.Metrics != nil {
		e.cfg.Metrics.GatewayState.WithLabelValues(strconv.Itoa(e.cfg.ShardID), s.String()).Set(1)
	}
}

// CurrentState returns the engine's current connection state.
func (e *Engine) CurrentState() State { return e.gwState }
