package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/Miguel28347/TeamChat/pkg/client"
	"github.com/Miguel28347/TeamChat/pkg/logging"
)

func main() {
	fs := flag.NewFlagSet("teamchat-client", flag.ExitOnError)
	addr := fs.StringP("addr", "a", "localhost:5000", "Server address")
	nick := fs.StringP("nick", "n", "", "Nickname to set right after connecting")
	logLevel := fs.String("log-level", "warn", "Log level: "+logging.LevelNames())
	_ = fs.Parse(os.Args[1:])

	// Diagnostics go to stderr so chat output on stdout stays clean.
	if err := logging.Setup(logging.Options{
		Level:  *logLevel,
		Output: os.Stderr,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "invalid logging config: %v\n", err)
		os.Exit(1)
	}

	if err := client.RunConsole(*addr, *nick, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "[CLIENT] Error: %v\n", err)
		os.Exit(1)
	}
}
