package main

import (
	"fmt"
	"log/slog"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/Miguel28347/TeamChat/pkg/logging"
	"github.com/Miguel28347/TeamChat/pkg/server"
	"github.com/Miguel28347/TeamChat/pkg/version"
)

func main() {
	cfg := server.DefaultConfig()

	fs := flag.NewFlagSet("teamchat-server", flag.ExitOnError)
	configFile := fs.StringP("config", "c", "", "YAML config file (flags override its values)")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "TCP bind address for the chat listener")
	fs.StringVar(&cfg.WSAddr, "ws", cfg.WSAddr, "HTTP bind address for the websocket gateway (empty to disable)")
	fs.StringVar(&cfg.MetricsAddr, "metrics", cfg.MetricsAddr, "HTTP bind address for /metrics (empty to disable)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: "+logging.LevelNames())
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: text or json")
	showVersion := fs.BoolP("version", "V", false, "Print version and exit")
	_ = fs.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("teamchat-server %s\n", version.Full())
		return
	}

	if *configFile != "" {
		loaded, err := server.LoadConfig(*configFile, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid config file: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
		// Re-parse so explicit flags win over file values.
		_ = fs.Parse(os.Args[1:])
	}

	if err := logging.Setup(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: os.Stdout,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "invalid logging config: %v\n", err)
		os.Exit(1)
	}

	slog.Info("TeamChat server starting", "version", version.String())

	srv := server.New(cfg)
	if err := srv.Run(); err != nil {
		slog.Error("server error", "err", err)
		os.Exit(1)
	}
}
