package client

import (
	"bufio"
	"net"
	"testing"
	"time"
)

// startFakeServer accepts one connection and hands it to the test.
func startFakeServer(t *testing.T) (string, chan net.Conn) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { _ = ln.Close() })

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		accepted <- conn
	}()
	return ln.Addr().String(), accepted
}

func recvLine(t *testing.T, ch chan string) string {
	t.Helper()
	select {
	case line := <-ch:
		return line
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for a line")
		return ""
	}
}

func TestEngineConnectSendsNick(t *testing.T) {
	addr, accepted := startFakeServer(t)

	engine := NewEngine()
	lines := make(chan string, 16)
	engine.OnLine = func(line string) { lines <- line }

	if err := engine.Connect(addr, "bob"); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if engine.State() != StateConnected {
		t.Fatalf("State: want connected got %d", engine.State())
	}

	conn := <-accepted
	defer func() { _ = conn.Close() }()
	r := bufio.NewReader(conn)
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	got, err := r.ReadString('\n')
	if err != nil {
		t.Fatalf("server read: %v", err)
	}
	if got != "/nick bob\n" {
		t.Fatalf("first line: want %q got %q", "/nick bob\n", got)
	}

	// Server lines are surfaced verbatim.
	if _, err := conn.Write([]byte("[SERVER] Welcome to TeamChat!\n")); err != nil {
		t.Fatalf("server write: %v", err)
	}
	if line := recvLine(t, lines); line != "[SERVER] Welcome to TeamChat!" {
		t.Fatalf("OnLine: got %q", line)
	}
}

func TestEngineUserDisconnect(t *testing.T) {
	addr, accepted := startFakeServer(t)

	engine := NewEngine()
	reasons := make(chan string, 1)
	engine.OnDisconnect = func(reason string) { reasons <- reason }

	if err := engine.Connect(addr, ""); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	conn := <-accepted
	defer func() { _ = conn.Close() }()

	engine.Disconnect()
	if reason := recvLine(t, reasons); reason != "disconnected" {
		t.Fatalf("OnDisconnect: want %q got %q", "disconnected", reason)
	}
	if engine.State() != StateDisconnected {
		t.Fatalf("State after disconnect: got %d", engine.State())
	}
}

func TestEngineServerClose(t *testing.T) {
	addr, accepted := startFakeServer(t)

	engine := NewEngine()
	reasons := make(chan string, 1)
	engine.OnDisconnect = func(reason string) { reasons <- reason }

	if err := engine.Connect(addr, ""); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	conn := <-accepted
	_ = conn.Close()

	if reason := recvLine(t, reasons); reason != "connection closed" {
		t.Fatalf("OnDisconnect: want %q got %q", "connection closed", reason)
	}
}

func TestEngineSendWhileDisconnected(t *testing.T) {
	engine := NewEngine()
	if err := engine.Send("hello"); err == nil {
		t.Fatalf("Send: expected error while disconnected")
	}
}

func TestEngineRejectsSecondConnect(t *testing.T) {
	addr, accepted := startFakeServer(t)

	engine := NewEngine()
	if err := engine.Connect(addr, ""); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	conn := <-accepted
	defer func() { _ = conn.Close() }()

	if err := engine.Connect(addr, ""); err == nil {
		t.Fatalf("Connect: expected error while already connected")
	}
}
