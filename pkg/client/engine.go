// Package client implements the TeamChat client networking shared by the
// console and windowed front-ends. Both are thin adapters: they open the
// stream, optionally send /nick right after connecting, relay user lines
// verbatim, and surface received lines verbatim.
package client

import (
	"bufio"
	"fmt"
	"log/slog"
	"net"
	"sync"
)

// State represents the client's connection state.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

// Engine manages one connection to a TeamChat server and dispatches received
// lines to the front-end through callbacks.
type Engine struct {
	mu      sync.RWMutex
	state   State
	conn    net.Conn
	closing bool // user-initiated disconnect in progress

	wmu sync.Mutex // serializes line writes

	// Callbacks for front-end updates. Set before Connect; invoked from the
	// engine's goroutines.
	OnLine        func(line string)
	OnStateChange func(state State)
	OnDisconnect  func(reason string)
}

// NewEngine creates a disconnected engine.
func NewEngine() *Engine {
	return &Engine{state: StateDisconnected}
}

// State returns the current connection state.
func (e *Engine) State() State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// Connect dials the server and starts the receive loop. When nick is
// non-empty, a /nick command is sent immediately after connecting.
func (e *Engine) Connect(addr, nick string) error {
	e.mu.Lock()
	if e.state != StateDisconnected {
		e.mu.Unlock()
		return fmt.Errorf("client: already connected")
	}
	e.state = StateConnecting
	e.closing = false
	e.mu.Unlock()
	e.notifyState(StateConnecting)

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		e.setState(StateDisconnected)
		return fmt.Errorf("client: connect: %w", err)
	}

	e.mu.Lock()
	e.conn = conn
	e.state = StateConnected
	e.mu.Unlock()
	e.notifyState(StateConnected)
	slog.Debug("connected", "addr", addr)

	if nick != "" {
		if err := e.Send("/nick " + nick); err != nil {
			_ = conn.Close()
			e.setState(StateDisconnected)
			return err
		}
	}

	go e.readLoop(conn)
	return nil
}

// Send writes one line to the server. Safe for concurrent use.
func (e *Engine) Send(line string) error {
	e.mu.RLock()
	conn := e.conn
	state := e.state
	e.mu.RUnlock()
	if state != StateConnected || conn == nil {
		return fmt.Errorf("client: not connected")
	}

	e.wmu.Lock()
	defer e.wmu.Unlock()
	if _, err := conn.Write([]byte(line + "\n")); err != nil {
		return fmt.Errorf("client: send: %w", err)
	}
	return nil
}

// Disconnect closes the connection. The receive loop unwinds and reports the
// disconnect as user-initiated.
func (e *Engine) Disconnect() {
	e.mu.Lock()
	conn := e.conn
	e.closing = true
	e.mu.Unlock()
	if conn != nil {
		_ = conn.Close()
	}
}

// readLoop surfaces received lines until the stream ends, then transitions to
// disconnected exactly once.
func (e *Engine) readLoop(conn net.Conn) {
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 64*1024), 1<<20) // matches the server's line cap
	for scanner.Scan() {
		if e.OnLine != nil {
			e.OnLine(scanner.Text())
		}
	}
	_ = conn.Close()

	e.mu.Lock()
	userClosed := e.closing
	e.conn = nil
	e.state = StateDisconnected
	e.mu.Unlock()
	e.notifyState(StateDisconnected)

	reason := "connection closed"
	if userClosed {
		reason = "disconnected"
	}
	slog.Debug("read loop ended", "reason", reason)
	if e.OnDisconnect != nil {
		e.OnDisconnect(reason)
	}
}

func (e *Engine) setState(s State) {
	e.mu.Lock()
	e.state = s
	e.mu.Unlock()
	e.notifyState(s)
}

func (e *Engine) notifyState(s State) {
	if e.OnStateChange != nil {
		e.OnStateChange(s)
	}
}
