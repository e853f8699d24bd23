package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// StartMetricsHTTP starts a lightweight HTTP server that exposes /metrics in
// Prometheus text exposition format plus a /healthz probe. It runs in the
// background and shuts down when the server context is cancelled.
func (s *Server) StartMetricsHTTP() {
	addr := s.cfg.MetricsAddr
	if addr == "" {
		return // metrics endpoint disabled
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", s.handleMetrics)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("metrics HTTP listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("metrics HTTP error", "err", err)
		}
	}()

	go func() {
		<-s.ctx.Done()
		_ = srv.Close()
	}()
}

// handleMetrics writes all metrics in Prometheus text exposition format.
func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	m := s.metrics
	uptime := time.Since(m.startTime).Seconds()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

	write := func(name, help, mtype string, value int64) {
		_, _ = fmt.Fprintf(w, "# HELP %s %s\n", name, help)
		_, _ = fmt.Fprintf(w, "# TYPE %s %s\n", name, mtype)
		_, _ = fmt.Fprintf(w, "%s %d\n", name, value)
	}

	_, _ = fmt.Fprintf(w, "# HELP teamchat_uptime_seconds Server uptime in seconds.\n")
	_, _ = fmt.Fprintf(w, "# TYPE teamchat_uptime_seconds gauge\n")
	_, _ = fmt.Fprintf(w, "teamchat_uptime_seconds %f\n", uptime)

	write("teamchat_sessions_active", "Current live sessions.", "gauge",
		m.ActiveConnections.Load())
	write("teamchat_connections_total", "Lifetime connections accepted.", "counter",
		m.TotalConnections.Load())
	write("teamchat_disconnects_total", "Total session teardowns.", "counter",
		m.TotalDisconnects.Load())

	write("teamchat_broadcasts_total", "Room broadcasts initiated.", "counter",
		m.Broadcasts.Load())
	write("teamchat_deliveries_total", "Individual broadcast deliveries.", "counter",
		m.MessagesDelivered.Load())
	write("teamchat_private_messages_total", "Whispers routed to a live target.", "counter",
		m.PrivateMessagesSent.Load())
	write("teamchat_private_messages_missed_total", "Whispers to unknown nicknames.", "counter",
		m.PrivateMessagesMissed.Load())
	write("teamchat_dropped_deliveries_total", "Writes that failed and were dropped.", "counter",
		m.DroppedDeliveries.Load())

	write("teamchat_nick_changes_total", "Successful nickname changes.", "counter",
		m.NickChanges.Load())
	write("teamchat_room_switches_total", "Successful room switches.", "counter",
		m.RoomSwitches.Load())
	write("teamchat_usage_errors_total", "Malformed commands answered with usage lines.", "counter",
		m.UsageErrors.Load())
}
