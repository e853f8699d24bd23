package client

import (
	"bufio"
	"net"
	"runtime"
	"strings"
	"testing"
	"time"
)

// TestRunConsoleQuit drives the console against a scripted server: one
// greeting line, then the connection closes once /quit arrives.
func TestRunConsoleQuit(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer func() { _ = ln.Close() }()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer func() { _ = conn.Close() }()
		_, _ = conn.Write([]byte("[SERVER] Welcome to TeamChat!\n"))
		scanner := bufio.NewScanner(conn)
		for scanner.Scan() {
			if strings.EqualFold(scanner.Text(), "/quit") {
				return
			}
		}
	}()

	in := strings.NewReader("/quit\n")
	var out strings.Builder

	errc := make(chan error, 1)
	go func() { errc <- RunConsole(ln.Addr().String(), "", in, &out) }()

	select {
	case err := <-errc:
		if err != nil {
			t.Fatalf("RunConsole: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("RunConsole did not return")
	}

	got := out.String()
	if !strings.Contains(got, "[CLIENT] Connected to ") {
		t.Fatalf("missing connect banner, output:\n%s", got)
	}
	if !strings.Contains(got, "[SERVER] Welcome to TeamChat!") {
		t.Fatalf("missing server line, output:\n%s", got)
	}
	if strings.Contains(got, "[CLIENT] Connection closed.") {
		t.Fatalf("user quit reported as server close, output:\n%s", got)
	}
}

// TestRunConsoleServerClose covers the server dropping the stream while the
// console is idle.
func TestRunConsoleServerClose(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer func() { _ = ln.Close() }()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		_, _ = conn.Write([]byte("[SERVER] goodbye\n"))
		_ = conn.Close()
	}()

	// Input that never produces a line keeps the relay waiting on the server.
	in, inw := net.Pipe()
	defer func() { _ = inw.Close() }()
	var out strings.Builder

	errc := make(chan error, 1)
	go func() { errc <- RunConsole(ln.Addr().String(), "", in, &out) }()

	select {
	case err := <-errc:
		if err != nil {
			t.Fatalf("RunConsole: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("RunConsole did not return")
	}

	if !strings.Contains(out.String(), "[CLIENT] Connection closed.") {
		t.Fatalf("missing close notice, output:\n%s", out.String())
	}
}

// TestRunConsoleServerCloseWithPendingInput covers the server dropping the
// stream while the input reader still has lines queued: the relay must return
// and its input goroutine must unwind rather than block on the dead channel.
func TestRunConsoleServerCloseWithPendingInput(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer func() { _ = ln.Close() }()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		_ = conn.Close()
	}()

	before := runtime.NumGoroutine()

	in := strings.NewReader(strings.Repeat("pending line\n", 1000))
	var out strings.Builder

	errc := make(chan error, 1)
	go func() { errc <- RunConsole(ln.Addr().String(), "", in, &out) }()

	select {
	case <-errc:
		// A send error against the closed stream is as valid an exit as nil.
	case <-time.After(5 * time.Second):
		t.Fatalf("RunConsole did not return")
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if runtime.NumGoroutine() <= before {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("input goroutine leaked: %d goroutines, started with %d",
		runtime.NumGoroutine(), before)
}
