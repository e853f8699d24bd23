// Package protocol defines the TeamChat line protocol: the client command
// grammar and the server-to-client message formats.
//
// Both directions are newline-terminated UTF-8 text lines. A client sends one
// command (or chat text) per line; the server replies with tagged lines. There
// is no binary framing and no version negotiation.
package protocol

import (
	"fmt"
	"strings"
)

// Default session state for a freshly connected client.
const (
	DefaultNickname = "Guest"
	DefaultRoom     = "lobby"
)

// Kind identifies the command a line parses to.
type Kind int

const (
	// KindBroadcast is any non-empty line that is not a recognized command;
	// it is relayed to the sender's current room.
	KindBroadcast Kind = iota
	// KindQuit ends the session.
	KindQuit
	// KindNick renames the session.
	KindNick
	// KindJoin moves the session to another room.
	KindJoin
	// KindWhisper sends a private message to a nickname.
	KindWhisper
)

// Command is the parsed form of one input line. Which fields are set depends
// on Kind: Name holds the new nickname (KindNick), the target room (KindJoin)
// or the whisper target (KindWhisper); Text holds the chat text (KindBroadcast)
// or the whisper message (KindWhisper).
type Command struct {
	Kind Kind
	Name string
	Text string
}

// UsageError reports a recognized command with a missing or blank argument.
// The router sends Reply to the offending sender and the session continues.
type UsageError struct {
	Usage string
}

func (e *UsageError) Error() string {
	return "protocol: " + e.Usage
}

// Reply returns the exact line sent back to the client.
func (e *UsageError) Reply() string {
	return ServerPrefix + e.Usage
}

// Parse turns one trimmed, non-empty input line into a Command. Keywords are
// matched case-insensitively. Malformed commands yield a *UsageError; any line
// that matches no keyword parses as KindBroadcast.
func Parse(line string) (Command, error) {
	lower := strings.ToLower(line)

	switch {
	case lower == "/quit":
		return Command{Kind: KindQuit}, nil

	case strings.HasPrefix(lower, "/nick"):
		parts := splitTokens(line, 2)
		if len(parts) < 2 || strings.TrimSpace(parts[1]) == "" {
			return Command{}, &UsageError{Usage: "Usage: /nick yourName"}
		}
		return Command{Kind: KindNick, Name: strings.TrimSpace(parts[1])}, nil

	case strings.HasPrefix(lower, "/join"):
		parts := splitTokens(line, 2)
		if len(parts) < 2 || strings.TrimSpace(parts[1]) == "" {
			return Command{}, &UsageError{Usage: "Usage: /join roomName"}
		}
		return Command{Kind: KindJoin, Name: strings.TrimSpace(parts[1])}, nil

	case strings.HasPrefix(lower, "/w ") || strings.HasPrefix(lower, "/pm "):
		parts := splitTokens(line, 3)
		if len(parts) < 3 {
			return Command{}, &UsageError{Usage: "Usage: /w user message"}
		}
		return Command{Kind: KindWhisper, Name: parts[1], Text: parts[2]}, nil
	}

	return Command{Kind: KindBroadcast, Text: line}, nil
}

// splitTokens splits a line into at most n whitespace-separated tokens. The
// final token keeps the remainder of the line intact, so message bodies retain
// their interior spacing.
func splitTokens(line string, n int) []string {
	parts := make([]string, 0, n)
	rest := line
	for len(parts) < n-1 {
		rest = strings.TrimLeft(rest, " \t")
		i := strings.IndexAny(rest, " \t")
		if i < 0 {
			break
		}
		parts = append(parts, rest[:i])
		rest = rest[i:]
	}
	rest = strings.TrimLeft(rest, " \t")
	if rest != "" {
		parts = append(parts, rest)
	}
	return parts
}

// ServerPrefix tags every server-originated informational line. Broadcast and
// private-message payloads use their own formats below.
const ServerPrefix = "[SERVER] "

// WelcomeLines is the fixed greeting sequence sent when a session starts.
// The room argument is the session's initial room.
func WelcomeLines(room string) []string {
	return []string{
		ServerPrefix + "Welcome to TeamChat!",
		ServerPrefix + "You are in room: " + room,
		ServerPrefix + "Use /nick yourName to set your nickname.",
		ServerPrefix + "Use /join roomName to switch rooms, /quit to exit.",
		ServerPrefix + "Use /w user message or /pm user message for private messages.",
	}
}

// FormatBroadcast tags room chat as "[room] nickname: text".
func FormatBroadcast(room, nickname, text string) string {
	return fmt.Sprintf("[%s] %s: %s", room, nickname, text)
}

// FormatPMFrom is the line the whisper target receives.
func FormatPMFrom(sender, message string) string {
	return fmt.Sprintf("[PM from %s] %s", sender, message)
}

// FormatPMTo is the submission echo the whisper sender receives.
func FormatPMTo(target, message string) string {
	return fmt.Sprintf("[PM to %s] %s", target, message)
}

// FormatNickConfirm confirms a successful rename to the sender.
func FormatNickConfirm(nick string) string {
	return fmt.Sprintf("%sNickname set to '%s'.", ServerPrefix, nick)
}

// FormatRoomSwitch confirms a room change to the sender. Other occupants of
// either room are not notified.
func FormatRoomSwitch(oldRoom, newRoom string) string {
	return fmt.Sprintf("%sSwitched from '%s' to '%s'.", ServerPrefix, oldRoom, newRoom)
}

// FormatUserNotFound is the sole reply for a whisper to an unknown nickname.
// A target that disconnected a moment ago is indistinguishable from one that
// never existed.
func FormatUserNotFound(target string) string {
	return fmt.Sprintf("%sUser '%s' not found.", ServerPrefix, target)
}
