package server

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// Run starts the listeners and blocks until a shutdown signal arrives or the
// accept loop fails. A failure to bind is fatal; so is a failure of the
// accept loop itself — the server terminates rather than retrying.
func (s *Server) Run() error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("server: listen: %w", err)
	}
	s.ln = ln
	slog.Info("chat listening", "addr", s.cfg.Addr)

	acceptErr := make(chan error, 1)
	go func() {
		acceptErr <- s.acceptLoop(ln)
	}()

	if err := s.StartWS(); err != nil {
		s.Shutdown()
		return err
	}
	s.StartMetricsHTTP()
	s.metrics.StartPeriodicLog(60*time.Second, s.ctx.Done())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		slog.Info("shutting down...")
		s.Shutdown()
		return nil
	case err := <-acceptErr:
		s.Shutdown()
		return err
	}
}

// acceptLoop accepts connections until the listener closes. Each accepted
// connection gets a registered session and its own serving goroutine. An
// accept error outside shutdown aborts the whole server.
func (s *Server) acceptLoop(ln net.Listener) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-s.ctx.Done():
				return nil
			default:
				return fmt.Errorf("server: accept: %w", err)
			}
		}

		sess := NewSession(conn)
		s.registry.Add(sess)
		s.metrics.TotalConnections.Add(1)
		s.metrics.ActiveConnections.Add(1)
		slog.Info("client connected", "session", sess.ID(), "remote", sess.RemoteAddr())

		go s.ServeSession(sess)
	}
}

// Shutdown stops the server. Closing the listeners unwinds the accept loop;
// per-connection goroutines exit through their normal cleanup path when their
// reads fail.
func (s *Server) Shutdown() {
	s.cancel()
	if s.ln != nil {
		_ = s.ln.Close()
	}
	if s.wsln != nil {
		_ = s.wsln.Close()
	}
	for _, sess := range s.registry.All() {
		_ = sess.Close()
	}
}
