package main

import (
	"os"

	"github.com/Miguel28347/TeamChat/pkg/logging"
	"github.com/Miguel28347/TeamChat/ui"
)

func main() {
	// Default to "info"; override with TEAMCHAT_LOG_LEVEL env var.
	level := "info"
	if v := os.Getenv("TEAMCHAT_LOG_LEVEL"); v != "" {
		level = v
	}
	format := "text"
	if v := os.Getenv("TEAMCHAT_LOG_FORMAT"); v != "" {
		format = v
	}
	_ = logging.Setup(logging.Options{
		Level:  level,
		Format: format,
		Output: os.Stdout,
	})

	app := ui.NewApp()
	app.Run()
}
