// Package protocol implements the UDP wire format: client input/join/
// chat/exit decoding and server snapshot encoding, using
// internal/bitio for the underlying bit-level codec.
package protocol

import (
	"errors"

	"hqmgo/internal/bitio"
	"hqmgo/internal/physics"
)

// Magic is the 4-byte header every packet in both directions starts with.
const Magic uint32 = 0xFBFBFBFB

// Client packet type tags.
const (
	ClientJoin  uint8 = 0x10
	ClientInput uint8 = 0x04
	ClientChat  uint8 = 0x07
	ClientExit  uint8 = 0x06
)

// ServerSnapshotType is the single server->client packet type tag.
const ServerSnapshotType uint8 = 0x05

// ErrBadMagic is returned when a datagram's header does not match Magic.
// Callers should drop the datagram, not tear down the session.
var ErrBadMagic = errors.New("protocol: bad magic header")

// ErrUnknownType is returned for an unrecognized client packet type byte.
var ErrUnknownType = errors.New("protocol: unknown packet type")

// ClientMessage is the decoded union of everything a client can send.
type ClientMessage struct {
	Type uint8

	// Input (ClientInput)
	ExpectedGameID    uint32
	LastReceivedStep  uint32
	Sequence          uint32
	Input             physics.Input
	AcceptedMessages  uint8

	// Join (ClientJoin)
	Name string

	// Chat (ClientChat)
	Text string
}

// DecodeClient parses one client->server datagram.
// Malformed input returns an error; callers must drop the datagram and
// continue, never tear down the session over it.
func DecodeClient(buf []byte) (ClientMessage, error) {
	r := bitio.NewReader(buf)
	magic, err := r.ReadU32Aligned()
	if err != nil {
		return ClientMessage{}, err
	}
	if magic != Magic {
		return ClientMessage{}, ErrBadMagic
	}
	typ, err := r.ReadByteAligned()
	if err != nil {
		return ClientMessage{}, err
	}

	msg := ClientMessage{Type: typ}
	switch typ {
	case ClientInput:
		if err := decodeInput(r, &msg); err != nil {
			return ClientMessage{}, err
		}
	case ClientJoin:
		name, err := decodeString(r)
		if err != nil {
			return ClientMessage{}, err
		}
		msg.Name = name
	case ClientChat:
		text, err := decodeString(r)
		if err != nil {
			return ClientMessage{}, err
		}
		msg.Text = text
	case ClientExit:
		// no payload
	default:
		return ClientMessage{}, ErrUnknownType
	}
	return msg, nil
}

func decodeInput(r *bitio.Reader, msg *ClientMessage) error {
	var err error
	if msg.ExpectedGameID, err = r.ReadU32Aligned(); err != nil {
		return err
	}
	if msg.LastReceivedStep, err = r.ReadU32Aligned(); err != nil {
		return err
	}
	if msg.Sequence, err = r.ReadU32Aligned(); err != nil {
		return err
	}
	fields := make([]float32, 6)
	for i := range fields {
		if fields[i], err = r.ReadF32Aligned(); err != nil {
			return err
		}
	}
	msg.Input.StickAngle = fields[0]
	msg.Input.Turn = fields[1]
	msg.Input.Unknown = fields[2]
	msg.Input.Fwbw = fields[3]
	msg.Input.Stick[0] = fields[4]
	msg.Input.Stick[1] = fields[5]

	if msg.Input.HeadRot, err = r.ReadF32Aligned(); err != nil {
		return err
	}
	if msg.Input.BodyRot, err = r.ReadF32Aligned(); err != nil {
		return err
	}
	if msg.Input.Keys, err = r.ReadU32Aligned(); err != nil {
		return err
	}
	accepted, err := r.ReadByteAligned()
	if err != nil {
		return err
	}
	msg.AcceptedMessages = accepted
	return nil
}

// decodeString reads a length-prefixed (u8) aligned byte string, the
// same convention used elsewhere in this protocol for player names and
// chat text.
func decodeString(r *bitio.Reader) (string, error) {
	n, err := r.ReadByteAligned()
	if err != nil {
		return "", err
	}
	b, err := r.ReadBytesAligned(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// EncodeJoin builds a join request datagram (used by test clients and
// cmd/loadtest).
func EncodeJoin(name string) []byte {
	w := bitio.NewWriter(make([]byte, 6+len(name)))
	w.WriteU32Aligned(Magic)
	w.WriteByteAligned(ClientJoin)
	encodeString(w, name)
	return w.Bytes()
}

// EncodeInput builds an input datagram.
func EncodeInput(gameID, lastStep, seq uint32, in physics.Input, accepted uint8) []byte {
	w := bitio.NewWriter(make([]byte, 64))
	w.WriteU32Aligned(Magic)
	w.WriteByteAligned(ClientInput)
	w.WriteU32Aligned(gameID)
	w.WriteU32Aligned(lastStep)
	w.WriteU32Aligned(seq)
	w.WriteF32Aligned(in.StickAngle)
	w.WriteF32Aligned(in.Turn)
	w.WriteF32Aligned(in.Unknown)
	w.WriteF32Aligned(in.Fwbw)
	w.WriteF32Aligned(in.Stick[0])
	w.WriteF32Aligned(in.Stick[1])
	w.WriteF32Aligned(in.HeadRot)
	w.WriteF32Aligned(in.BodyRot)
	w.WriteU32Aligned(in.Keys)
	w.WriteByteAligned(accepted)
	return w.Bytes()
}

func encodeString(w *bitio.Writer, s string) {
	b := []byte(s)
	if len(b) > 255 {
		b = b[:255]
	}
	w.WriteByteAligned(uint8(len(b)))
	w.WriteBytesAligned(b)
}
