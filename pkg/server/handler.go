package server

import (
	"bufio"
	"errors"
	"log/slog"
	"strings"

	"github.com/Miguel28347/TeamChat/pkg/protocol"
)

// maxLineBytes caps one inbound line; a longer line is an I/O error and ends
// the session.
const maxLineBytes = 1 << 20

// ServeSession runs the command loop for one session until /quit,
// end-of-stream, or an I/O failure. The caller must have registered the
// session already; cleanup runs unconditionally on every exit path.
func (s *Server) ServeSession(sess *Session) {
	defer s.teardown(sess)

	for _, line := range protocol.WelcomeLines(sess.Room()) {
		if err := sess.Send(line); err != nil {
			return
		}
	}

	scanner := bufio.NewScanner(sess.conn)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		cmd, err := protocol.Parse(line)
		if err != nil {
			var ue *protocol.UsageError
			if errors.As(err, &ue) {
				s.metrics.UsageErrors.Add(1)
				s.reply(sess, ue.Reply())
				continue
			}
			// Parse yields only usage errors today; treat anything
			// else as a dropped line.
			slog.Error("parse error", "session", sess.ID(), "err", err)
			continue
		}

		if cmd.Kind == protocol.KindQuit {
			return
		}
		s.dispatch(sess, cmd)
	}

	if err := scanner.Err(); err != nil {
		// Read failure is handled identically to a clean /quit.
		slog.Debug("session read error", "session", sess.ID(), "err", err)
	}
}

// dispatch routes one parsed command to the registry, the directory, or the
// session's own state.
func (s *Server) dispatch(sess *Session, cmd protocol.Command) {
	switch cmd.Kind {
	case protocol.KindNick:
		s.handleNick(sess, cmd.Name)
	case protocol.KindJoin:
		s.handleJoin(sess, cmd.Name)
	case protocol.KindWhisper:
		s.handleWhisper(sess, cmd.Name, cmd.Text)
	case protocol.KindBroadcast:
		s.handleBroadcast(sess, cmd.Text)
	}
}

func (s *Server) handleNick(sess *Session, nick string) {
	old := sess.SetNickname(nick)
	s.directory.Rename(old, nick, sess)
	s.metrics.NickChanges.Add(1)
	s.reply(sess, protocol.FormatNickConfirm(nick))
	slog.Info("client renamed", "session", sess.ID(), "old", old, "new", nick)
}

func (s *Server) handleJoin(sess *Session, room string) {
	old := sess.SetRoom(room)
	s.metrics.RoomSwitches.Add(1)
	// Occupants of either room are not notified.
	s.reply(sess, protocol.FormatRoomSwitch(old, room))
	slog.Info("client switched room", "session", sess.ID(), "old", old, "new", room)
}

func (s *Server) handleWhisper(sess *Session, target, message string) {
	recipient := s.directory.Get(target)
	if recipient == nil {
		s.metrics.PrivateMessagesMissed.Add(1)
		s.reply(sess, protocol.FormatUserNotFound(target))
		return
	}

	if err := recipient.Send(protocol.FormatPMFrom(sess.Nickname(), message)); err != nil {
		s.metrics.DroppedDeliveries.Add(1)
	}
	s.reply(sess, protocol.FormatPMTo(target, message))
	s.metrics.PrivateMessagesSent.Add(1)
}

func (s *Server) handleBroadcast(sess *Session, text string) {
	delivered, dropped := s.registry.Broadcast(text, sess)
	s.metrics.Broadcasts.Add(1)
	s.metrics.MessagesDelivered.Add(int64(delivered))
	s.metrics.DroppedDeliveries.Add(int64(dropped))
	slog.Info("broadcast", "room", sess.Room(), "nick", sess.Nickname(), "text", text)
}

// reply sends a server-originated line to one session, dropping it silently
// on write failure.
func (s *Server) reply(sess *Session, line string) {
	if err := sess.Send(line); err != nil {
		s.metrics.DroppedDeliveries.Add(1)
	}
}

// teardown removes the session from all shared state and releases the
// connection. It runs on every exit path and is safe against deliveries still
// in flight: a late write to the closed connection fails and is dropped.
func (s *Server) teardown(sess *Session) {
	s.registry.Remove(sess)
	s.directory.RemoveIfOwner(sess.Nickname(), sess)
	_ = sess.Close()
	s.metrics.ActiveConnections.Add(-1)
	s.metrics.TotalDisconnects.Add(1)
	slog.Info("client disconnected", "session", sess.ID(), "remote", sess.RemoteAddr())
}
