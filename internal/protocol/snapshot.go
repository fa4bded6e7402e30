package protocol

import (
	"github.com/cespare/xxhash/v2"

	"hqmgo/internal/bitio"
	"hqmgo/internal/physics"
)

// Snapshot is everything the builder needs to encode one client's
// datagram for one tick.
type Snapshot struct {
	GameID       uint32
	GameStep     uint32
	PacketSeq    uint32
	State        uint8
	RedScore     uint8
	BlueScore    uint8
	RulesNum     uint32
	World        *physics.World
	QueuedMsgs   []Message
}

// EncodeSnapshot writes one full server->client datagram.
func EncodeSnapshot(buf []byte, snap Snapshot) ([]byte, error) {
	w := bitio.NewWriter(buf)
	if err := w.WriteU32Aligned(Magic); err != nil {
		return nil, err
	}
	if err := w.WriteByteAligned(ServerSnapshotType); err != nil {
		return nil, err
	}
	if err := w.WriteU32Aligned(snap.GameID); err != nil {
		return nil, err
	}
	if err := w.WriteU32Aligned(snap.GameStep); err != nil {
		return nil, err
	}
	if err := w.WriteU32Aligned(snap.PacketSeq); err != nil {
		return nil, err
	}
	if err := w.WriteByteAligned(snap.State); err != nil {
		return nil, err
	}
	if err := w.WriteByteAligned(snap.RedScore); err != nil {
		return nil, err
	}
	if err := w.WriteByteAligned(snap.BlueScore); err != nil {
		return nil, err
	}
	if err := w.WriteU32Aligned(snap.RulesNum); err != nil {
		return nil, err
	}

	for i := range snap.World.Objects {
		obj := &snap.World.Objects[i]
		var err error
		switch obj.Kind {
		case physics.KindSkater:
			err = EncodeSkater(w, obj.Skater)
		case physics.KindPuck:
			err = EncodePuck(w, obj.Puck)
		default:
			err = EncodeObjectAbsent(w)
		}
		if err != nil {
			return nil, err
		}
	}

	if err := EncodeMessages(w, snap.QueuedMsgs); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// Checksum hashes an encoded snapshot so the tick driver can skip
// resending a datagram that is byte-identical to the one it last sent a
// given client.
func Checksum(buf []byte) uint64 {
	return xxhash.Sum64(buf)
}

// DecodedSnapshot is the decoded form of Snapshot, used by tests and any
// tooling that needs to verify what was actually put on the wire.
type DecodedSnapshot struct {
	GameID, GameStep, PacketSeq uint32
	State, RedScore, BlueScore  uint8
	RulesNum                    uint32
	Objects                     [32]DecodedObject
	Messages                    []Message
}

// DecodeSnapshot reverses EncodeSnapshot.
func DecodeSnapshot(buf []byte) (DecodedSnapshot, error) {
	r := bitio.NewReader(buf)
	var snap DecodedSnapshot

	magic, err := r.ReadU32Aligned()
	if err != nil {
		return snap, err
	}
	if magic != Magic {
		return snap, ErrBadMagic
	}
	if _, err := r.ReadByteAligned(); err != nil {
		return snap, err
	}
	if snap.GameID, err = r.ReadU32Aligned(); err != nil {
		return snap, err
	}
	if snap.GameStep, err = r.ReadU32Aligned(); err != nil {
		return snap, err
	}
	if snap.PacketSeq, err = r.ReadU32Aligned(); err != nil {
		return snap, err
	}
	if snap.State, err = r.ReadByteAligned(); err != nil {
		return snap, err
	}
	if snap.RedScore, err = r.ReadByteAligned(); err != nil {
		return snap, err
	}
	if snap.BlueScore, err = r.ReadByteAligned(); err != nil {
		return snap, err
	}
	if snap.RulesNum, err = r.ReadU32Aligned(); err != nil {
		return snap, err
	}

	for i := 0; i < 32; i++ {
		obj, err := DecodeObject(r)
		if err != nil {
			return snap, err
		}
		snap.Objects[i] = obj
	}

	msgs, err := DecodeMessages(r)
	if err != nil {
		return snap, err
	}
	snap.Messages = msgs
	return snap, nil
}
