package server

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.TotalConnections.Add(3)
	m.ActiveConnections.Add(2)
	m.Broadcasts.Add(5)
	m.PrivateMessagesMissed.Add(1)

	s := m.Snapshot()
	if s.TotalConnections != 3 || s.ActiveConnections != 2 {
		t.Fatalf("Snapshot connections: got %+v", s)
	}
	if s.Broadcasts != 5 || s.PrivateMessagesMissed != 1 {
		t.Fatalf("Snapshot routing: got %+v", s)
	}

	if !strings.Contains(m.JSON(), "\"broadcasts\": 5") {
		t.Fatalf("JSON: missing broadcasts counter: %s", m.JSON())
	}
}

func TestMetricsHTTPExposition(t *testing.T) {
	srv := New(DefaultConfig())
	srv.metrics.TotalConnections.Add(7)

	rec := httptest.NewRecorder()
	srv.handleMetrics(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	for _, want := range []string{
		"teamchat_uptime_seconds",
		"teamchat_connections_total 7",
		"teamchat_broadcasts_total 0",
		"# TYPE teamchat_sessions_active gauge",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("exposition missing %q:\n%s", want, body)
		}
	}
}
