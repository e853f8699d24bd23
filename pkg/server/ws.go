package server

import (
	"bufio"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// upgrader accepts any origin; the gateway carries the same unauthenticated
// line protocol as the TCP listener.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// StartWS starts the websocket gateway when a bind address is configured.
// Each websocket client becomes an ordinary session: inbound text frames are
// fed to the command router as lines, outbound lines are sent as text frames,
// so websocket and TCP participants share rooms, nicknames and PMs. A bind
// failure is fatal, like the chat listener's.
func (s *Server) StartWS() error {
	if s.cfg.WSAddr == "" {
		return nil // gateway disabled
	}

	ln, err := net.Listen("tcp", s.cfg.WSAddr)
	if err != nil {
		return fmt.Errorf("server: listen ws: %w", err)
	}
	s.wsln = ln

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("websocket gateway listening", "addr", s.cfg.WSAddr)
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			slog.Error("websocket gateway error", "err", err)
		}
	}()

	go func() {
		<-s.ctx.Done()
		_ = srv.Close()
	}()

	return nil
}

// handleWS upgrades one HTTP request and bridges the websocket onto the line
// protocol through an in-process pipe.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}

	serverSide, bridgeSide := net.Pipe()
	sess := NewSession(serverSide)
	s.registry.Add(sess)
	s.metrics.TotalConnections.Add(1)
	s.metrics.ActiveConnections.Add(1)
	slog.Info("websocket client connected", "session", sess.ID(), "remote", r.RemoteAddr)

	go s.ServeSession(sess)

	// Outbound: every line the router writes becomes one text frame.
	go func() {
		scanner := bufio.NewScanner(bridgeSide)
		scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
		for scanner.Scan() {
			if err := ws.WriteMessage(websocket.TextMessage, scanner.Bytes()); err != nil {
				break
			}
		}
		_ = ws.Close()
	}()

	// Inbound: every text frame becomes one line for the router. Closing the
	// bridge ends the router's read loop, which runs the usual cleanup.
	go func() {
		defer func() {
			_ = bridgeSide.Close()
			_ = ws.Close()
		}()
		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				return
			}
			if _, err := bridgeSide.Write(append(data, '\n')); err != nil {
				return
			}
		}
	}()
}
