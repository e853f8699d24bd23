package client

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
)

// RunConsole runs the line-relay console front-end: received lines are
// printed verbatim to out, lines read from in are sent verbatim to the
// server. It blocks until the user enters /quit, input reaches end-of-file,
// or the server closes the stream.
func RunConsole(addr, nick string, in io.Reader, out io.Writer) error {
	engine := NewEngine()
	done := make(chan struct{})

	// The server closes the stream in response to /quit; that close is still a
	// user-initiated exit and gets no notice.
	var userQuit atomic.Bool

	engine.OnLine = func(line string) {
		_, _ = fmt.Fprintln(out, line)
	}
	engine.OnDisconnect = func(reason string) {
		if reason == "connection closed" && !userQuit.Load() {
			_, _ = fmt.Fprintln(out, "[CLIENT] Connection closed.")
		}
		close(done)
	}

	if err := engine.Connect(addr, nick); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "[CLIENT] Connected to %s\n", addr)

	// Input runs in its own goroutine so a server-side close still ends the
	// relay promptly.
	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		close(lines)
	}()

	for {
		select {
		case <-done:
			return nil
		case line, ok := <-lines:
			if !ok {
				engine.Disconnect()
				<-done
				return nil
			}
			quit := strings.EqualFold(strings.TrimSpace(line), "/quit")
			if quit {
				userQuit.Store(true)
			}
			if err := engine.Send(line); err != nil {
				return err
			}
			if quit {
				<-done
				return nil
			}
		}
	}
}
