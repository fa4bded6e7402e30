package protocol

import (
	"hqmgo/internal/bitio"
	"hqmgo/internal/rink"
)

// MessageKind tags one entry of the global message log.
type MessageKind uint8

const (
	MessagePlayerUpdate MessageKind = iota
	MessageGoal
	MessageChat
)

// maxMessagesPerPacket bounds how many queued messages a single
// snapshot carries.
const maxMessagesPerPacket = 16

// Message is one log entry. Only the fields relevant to Kind are set.
type Message struct {
	Kind MessageKind

	// PlayerUpdate
	PlayerIndex int
	PlayerName  string
	Team        rink.Team
	InServer    bool

	// Goal
	GoalTeam      rink.Team
	ScorerIndex   int
	AssistIndex   int // -1 if none

	// Chat
	ChatSenderIndex int // -1 for a server message
	ChatText        string
}

// Log is the append-only message vector, with each client's next index
// to send tracked externally (by internal/server, keyed per player).
type Log struct {
	messages []Message
}

// Append adds msg to the end of the log and returns its index.
func (l *Log) Append(msg Message) int {
	l.messages = append(l.messages, msg)
	return len(l.messages) - 1
}

// Len returns the total number of messages ever appended.
func (l *Log) Len() int {
	return len(l.messages)
}

// Window returns up to maxMessagesPerPacket messages starting at from,
// and the index one past the last message returned.
func (l *Log) Window(from int) ([]Message, int) {
	if from >= len(l.messages) {
		return nil, from
	}
	end := from + maxMessagesPerPacket
	if end > len(l.messages) {
		end = len(l.messages)
	}
	return l.messages[from:end], end
}

// EncodeMessages writes the snapshot's message table: a count byte
// followed by that many typed records.
func EncodeMessages(w *bitio.Writer, msgs []Message) error {
	if err := w.WriteByteAligned(uint8(len(msgs))); err != nil {
		return err
	}
	for _, m := range msgs {
		if err := encodeMessage(w, m); err != nil {
			return err
		}
	}
	return nil
}

func encodeMessage(w *bitio.Writer, m Message) error {
	if err := w.WriteByteAligned(uint8(m.Kind)); err != nil {
		return err
	}
	switch m.Kind {
	case MessagePlayerUpdate:
		if err := w.WriteByteAligned(uint8(m.PlayerIndex)); err != nil {
			return err
		}
		if err := w.WriteByteAligned(uint8(m.Team)); err != nil {
			return err
		}
		inServer := uint8(0)
		if m.InServer {
			inServer = 1
		}
		if err := w.WriteByteAligned(inServer); err != nil {
			return err
		}
		return encodeString(w, m.PlayerName)
	case MessageGoal:
		if err := w.WriteByteAligned(uint8(m.GoalTeam)); err != nil {
			return err
		}
		if err := w.WriteByteAligned(uint8(m.ScorerIndex)); err != nil {
			return err
		}
		return w.WriteByteAligned(uint8(m.AssistIndex))
	case MessageChat:
		if err := w.WriteByteAligned(uint8(m.ChatSenderIndex)); err != nil {
			return err
		}
		return encodeString(w, m.ChatText)
	}
	return nil
}

// DecodeMessages reads the snapshot's message table.
func DecodeMessages(r *bitio.Reader) ([]Message, error) {
	n, err := r.ReadByteAligned()
	if err != nil {
		return nil, err
	}
	out := make([]Message, 0, n)
	for i := 0; i < int(n); i++ {
		m, err := decodeMessage(r)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func decodeMessage(r *bitio.Reader) (Message, error) {
	kindByte, err := r.ReadByteAligned()
	if err != nil {
		return Message{}, err
	}
	kind := MessageKind(kindByte)
	m := Message{Kind: kind}
	switch kind {
	case MessagePlayerUpdate:
		idx, err := r.ReadByteAligned()
		if err != nil {
			return Message{}, err
		}
		team, err := r.ReadByteAligned()
		if err != nil {
			return Message{}, err
		}
		inServer, err := r.ReadByteAligned()
		if err != nil {
			return Message{}, err
		}
		name, err := decodeString(r)
		if err != nil {
			return Message{}, err
		}
		m.PlayerIndex = int(idx)
		m.Team = rink.Team(team)
		m.InServer = inServer != 0
		m.PlayerName = name
	case MessageGoal:
		team, err := r.ReadByteAligned()
		if err != nil {
			return Message{}, err
		}
		scorer, err := r.ReadByteAligned()
		if err != nil {
			return Message{}, err
		}
		assist, err := r.ReadByteAligned()
		if err != nil {
			return Message{}, err
		}
		m.GoalTeam = rink.Team(team)
		m.ScorerIndex = int(scorer)
		m.AssistIndex = int(int8(assist))
	case MessageChat:
		sender, err := r.ReadByteAligned()
		if err != nil {
			return Message{}, err
		}
		text, err := decodeString(r)
		if err != nil {
			return Message{}, err
		}
		m.ChatSenderIndex = int(int8(sender))
		m.ChatText = text
	}
	return m, nil
}
