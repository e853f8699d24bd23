// Package server implements the TeamChat relay server: the accept loop, the
// per-connection command router, and the shared routing state (client
// registry and nickname directory).
package server

import (
	"context"
	"net"
)

// Config holds server configuration.
type Config struct {
	Addr        string `yaml:"addr"`         // TCP bind address for the chat listener (e.g. ":5000")
	WSAddr      string `yaml:"ws_addr"`      // HTTP bind address for the websocket gateway (empty = disabled)
	MetricsAddr string `yaml:"metrics_addr"` // HTTP bind address for /metrics (empty = disabled)
	LogLevel    string `yaml:"log_level"`    // debug, info, warn, error
	LogFormat   string `yaml:"log_format"`   // text or json
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Addr:        ":5000",
		MetricsAddr: ":5002",
		LogLevel:    "info",
		LogFormat:   "text",
	}
}

// Server is the TeamChat relay server.
type Server struct {
	cfg       Config
	registry  *ClientRegistry
	directory *NicknameDirectory
	metrics   *Metrics
	ln        net.Listener
	wsln      net.Listener
	ctx       context.Context
	cancel    context.CancelFunc
}

// New creates a new Server instance.
func New(cfg Config) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		cfg:       cfg,
		registry:  NewClientRegistry(),
		directory: NewNicknameDirectory(),
		metrics:   NewMetrics(),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Registry returns the client registry.
func (s *Server) Registry() *ClientRegistry {
	return s.registry
}

// Directory returns the nickname directory.
func (s *Server) Directory() *NicknameDirectory {
	return s.directory
}

// Metrics returns the server metrics.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}
