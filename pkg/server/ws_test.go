package server

import (
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// newTestServerWithWS also starts the websocket gateway on an ephemeral port
// and returns its dial URL.
func newTestServerWithWS(t *testing.T) (*Server, string, string) {
	t.Helper()
	srv, addr := newTestServer(t)
	srv.cfg.WSAddr = "127.0.0.1:0"
	if err := srv.StartWS(); err != nil {
		t.Fatalf("StartWS: %v", err)
	}
	return srv, addr, "ws://" + srv.wsln.Addr().String() + "/ws"
}

type wsTestClient struct {
	conn *websocket.Conn
}

func dialWS(t *testing.T, url string) *wsTestClient {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("ws dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return &wsTestClient{conn: conn}
}

func (c *wsTestClient) send(t *testing.T, line string) {
	t.Helper()
	if err := c.conn.WriteMessage(websocket.TextMessage, []byte(line)); err != nil {
		t.Fatalf("ws send %q: %v", line, err)
	}
}

func (c *wsTestClient) readLine(t *testing.T) string {
	t.Helper()
	_ = c.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		t.Fatalf("ws read: %v", err)
	}
	return string(data)
}

func (c *wsTestClient) expect(t *testing.T, want string) {
	t.Helper()
	if got := c.readLine(t); got != want {
		t.Fatalf("ws reply mismatch:\n want %q\n  got %q", want, got)
	}
}

func (c *wsTestClient) skipWelcome(t *testing.T) {
	t.Helper()
	for i := 0; i < 5; i++ {
		c.readLine(t)
	}
}

func TestWSSpeaksLineProtocol(t *testing.T) {
	_, _, wsURL := newTestServerWithWS(t)

	c := dialWS(t, wsURL)
	c.expect(t, "[SERVER] Welcome to TeamChat!")
	c.expect(t, "[SERVER] You are in room: lobby")
	for i := 0; i < 3; i++ {
		c.readLine(t)
	}

	c.send(t, "/nick webby")
	c.expect(t, "[SERVER] Nickname set to 'webby'.")

	c.send(t, "hello from the browser")
	c.expect(t, "[lobby] webby: hello from the browser")
}

func TestWSAndTCPShareRooms(t *testing.T) {
	srv, tcpAddr, wsURL := newTestServerWithWS(t)

	ws := dialWS(t, wsURL)
	ws.skipWelcome(t)
	ws.send(t, "/nick webby")
	ws.expect(t, "[SERVER] Nickname set to 'webby'.")

	tcp := dialTest(t, tcpAddr)
	tcp.skipWelcome(t)
	tcp.send(t, "/nick term")
	tcp.expect(t, "[SERVER] Nickname set to 'term'.")
	waitFor(t, "2 sessions", func() bool { return srv.registry.Count() == 2 })

	tcp.send(t, "hi everyone")
	tcp.expect(t, "[lobby] term: hi everyone")
	ws.expect(t, "[lobby] term: hi everyone")

	// Whispers cross the transports too.
	ws.send(t, "/w term psst")
	ws.expect(t, "[PM to term] psst")
	tcp.expect(t, "[PM from webby] psst")
}

func TestWSDisconnectCleansUp(t *testing.T) {
	srv, _, wsURL := newTestServerWithWS(t)

	c := dialWS(t, wsURL)
	c.skipWelcome(t)
	c.send(t, "/nick webby")
	c.expect(t, "[SERVER] Nickname set to 'webby'.")
	waitFor(t, "webby indexed", func() bool { return srv.directory.Get("webby") != nil })

	_ = c.conn.Close()
	waitFor(t, "session removed", func() bool { return srv.registry.Count() == 0 })
	if srv.directory.Get("webby") != nil {
		t.Fatalf("directory entry must be removed when the websocket drops")
	}
}
