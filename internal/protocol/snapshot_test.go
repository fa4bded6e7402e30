package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hqmgo/internal/physics"
	"hqmgo/internal/rink"
	"hqmgo/internal/rotation"
)

func buildTestWorld(t *testing.T) *physics.World {
	t.Helper()
	r := rink.New(30, 61, 8.5)
	w := physics.NewWorld(r, physics.DefaultConfig())
	_, err := w.CreatePlayerObject(0, physics.Vec3{15, 0, 30}, rotation.Identity3(), physics.HandRight)
	require.NoError(t, err)
	_, err = w.CreatePuckObject(physics.Vec3{15, 0.5, 30})
	require.NoError(t, err)
	return w
}

func TestSnapshotRoundTrip(t *testing.T) {
	w := buildTestWorld(t)
	snap := Snapshot{
		GameID:    1,
		GameStep:  500,
		PacketSeq: 500,
		State:     4,
		RedScore:  2,
		BlueScore: 1,
		RulesNum:  4,
		World:     w,
		QueuedMsgs: []Message{
			{Kind: MessageChat, ChatSenderIndex: -1, ChatText: "goal!"},
		},
	}

	buf, err := EncodeSnapshot(make([]byte, 4096), snap)
	require.NoError(t, err)

	decoded, err := DecodeSnapshot(buf)
	require.NoError(t, err)

	assert.Equal(t, snap.GameID, decoded.GameID)
	assert.Equal(t, snap.GameStep, decoded.GameStep)
	assert.Equal(t, snap.State, decoded.State)
	assert.Equal(t, snap.RedScore, decoded.RedScore)
	assert.Equal(t, snap.BlueScore, decoded.BlueScore)
	require.Len(t, decoded.Messages, 1)
	assert.Equal(t, "goal!", decoded.Messages[0].ChatText)

	require.True(t, decoded.Objects[0].Present)
	assert.False(t, decoded.Objects[0].IsPuck)
	assert.InDelta(t, 15, decoded.Objects[0].Pos[0], 0.01)
	assert.InDelta(t, 30, decoded.Objects[0].Pos[2], 0.01)

	require.True(t, decoded.Objects[1].Present)
	assert.True(t, decoded.Objects[1].IsPuck)
	assert.InDelta(t, 0.5, decoded.Objects[1].Pos[1], 0.01)

	for i := 2; i < 32; i++ {
		assert.False(t, decoded.Objects[i].Present)
	}
}

// TestSnapshotDeterministic feeds the same world state through two
// independent encodes and requires byte-identical output.
func TestSnapshotDeterministic(t *testing.T) {
	w1 := buildTestWorld(t)
	w2 := buildTestWorld(t)

	snap1 := Snapshot{GameID: 9, GameStep: 10, PacketSeq: 10, State: 4, World: w1}
	snap2 := Snapshot{GameID: 9, GameStep: 10, PacketSeq: 10, State: 4, World: w2}

	buf1, err := EncodeSnapshot(make([]byte, 4096), snap1)
	require.NoError(t, err)
	buf2, err := EncodeSnapshot(make([]byte, 4096), snap2)
	require.NoError(t, err)

	assert.Equal(t, buf1, buf2)
	assert.Equal(t, Checksum(buf1), Checksum(buf2))
}
