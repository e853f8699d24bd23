package server

import (
	"encoding/json"
	"log/slog"
	"sync/atomic"
	"time"
)

// Metrics tracks server runtime statistics.
// All counters use atomic operations for lock-free concurrent access.
type Metrics struct {
	startTime time.Time

	// Connection counters
	TotalConnections  atomic.Int64 // lifetime connections accepted (TCP + websocket)
	ActiveConnections atomic.Int64 // current live sessions
	TotalDisconnects  atomic.Int64 // total session teardowns (clean + unclean)

	// Routing counters
	Broadcasts            atomic.Int64 // room broadcasts initiated
	MessagesDelivered     atomic.Int64 // individual broadcast deliveries
	PrivateMessagesSent   atomic.Int64 // whispers routed to a live target
	PrivateMessagesMissed atomic.Int64 // whispers to unknown nicknames
	DroppedDeliveries     atomic.Int64 // writes that failed and were silently dropped

	// Session-state counters
	NickChanges  atomic.Int64 // successful /nick commands
	RoomSwitches atomic.Int64 // successful /join commands
	UsageErrors  atomic.Int64 // malformed commands replied with a usage line
}

// NewMetrics creates a new Metrics instance with the start time set to now.
func NewMetrics() *Metrics {
	return &Metrics{
		startTime: time.Now(),
	}
}

// MetricsSnapshot is a point-in-time, serializable view of all counters.
type MetricsSnapshot struct {
	Uptime        string `json:"uptime"`
	UptimeSeconds int64  `json:"uptime_seconds"`

	ActiveConnections int64 `json:"active_connections"`
	TotalConnections  int64 `json:"total_connections"`
	TotalDisconnects  int64 `json:"total_disconnects"`

	Broadcasts            int64 `json:"broadcasts"`
	MessagesDelivered     int64 `json:"messages_delivered"`
	PrivateMessagesSent   int64 `json:"private_messages_sent"`
	PrivateMessagesMissed int64 `json:"private_messages_missed"`
	DroppedDeliveries     int64 `json:"dropped_deliveries"`

	NickChanges  int64 `json:"nick_changes"`
	RoomSwitches int64 `json:"room_switches"`
	UsageErrors  int64 `json:"usage_errors"`
}

// Snapshot returns a read-consistent snapshot of all metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	uptime := time.Since(m.startTime)
	return MetricsSnapshot{
		Uptime:                uptime.Truncate(time.Second).String(),
		UptimeSeconds:         int64(uptime.Seconds()),
		ActiveConnections:     m.ActiveConnections.Load(),
		TotalConnections:      m.TotalConnections.Load(),
		TotalDisconnects:      m.TotalDisconnects.Load(),
		Broadcasts:            m.Broadcasts.Load(),
		MessagesDelivered:     m.MessagesDelivered.Load(),
		PrivateMessagesSent:   m.PrivateMessagesSent.Load(),
		PrivateMessagesMissed: m.PrivateMessagesMissed.Load(),
		DroppedDeliveries:     m.DroppedDeliveries.Load(),
		NickChanges:           m.NickChanges.Load(),
		RoomSwitches:          m.RoomSwitches.Load(),
		UsageErrors:           m.UsageErrors.Load(),
	}
}

// JSON returns the metrics snapshot as a JSON string.
func (m *Metrics) JSON() string {
	data, err := json.MarshalIndent(m.Snapshot(), "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}

// LogSummary writes a periodic metrics summary to the logger.
func (m *Metrics) LogSummary() {
	s := m.Snapshot()
	slog.Info("metrics",
		"uptime", s.Uptime,
		"connections", s.ActiveConnections,
		"total_connections", s.TotalConnections,
		"broadcasts", s.Broadcasts,
		"delivered", s.MessagesDelivered,
		"pms", s.PrivateMessagesSent,
		"dropped", s.DroppedDeliveries,
	)
}

// StartPeriodicLog starts a goroutine that logs metrics every interval.
// It stops when the done channel is closed.
func (m *Metrics) StartPeriodicLog(interval time.Duration, done <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				m.LogSummary()
			}
		}
	}()
}
