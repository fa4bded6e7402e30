package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hqmgo/internal/physics"
)

func TestDecodeClientJoinRoundTrip(t *testing.T) {
	buf := EncodeJoin("tester")
	msg, err := DecodeClient(buf)
	require.NoError(t, err)
	assert.Equal(t, ClientJoin, msg.Type)
	assert.Equal(t, "tester", msg.Name)
}

func TestDecodeClientInputRoundTrip(t *testing.T) {
	in := physics.Input{
		StickAngle: 0.1,
		Turn:       -0.5,
		Fwbw:       1.0,
		Stick:      [2]float32{0.25, -0.25},
		HeadRot:    0.2,
		BodyRot:    -0.1,
		Keys:       physics.KeyJump | physics.KeyShift,
	}
	buf := EncodeInput(7, 100, 42, in, 3)
	msg, err := DecodeClient(buf)
	require.NoError(t, err)

	assert.Equal(t, ClientInput, msg.Type)
	assert.Equal(t, uint32(7), msg.ExpectedGameID)
	assert.Equal(t, uint32(100), msg.LastReceivedStep)
	assert.Equal(t, uint32(42), msg.Sequence)
	assert.Equal(t, uint8(3), msg.AcceptedMessages)
	assert.Equal(t, in.Turn, msg.Input.Turn)
	assert.Equal(t, in.Fwbw, msg.Input.Fwbw)
	assert.True(t, msg.Input.Jump())
	assert.True(t, msg.Input.Shift())
	assert.False(t, msg.Input.Crouch())
}

func TestDecodeClientBadMagic(t *testing.T) {
	buf := EncodeJoin("x")
	buf[0] ^= 0xFF
	_, err := DecodeClient(buf)
	assert.ErrorIs(t, err, ErrBadMagic)
}

func TestDecodeClientTruncatedIsError(t *testing.T) {
	buf := EncodeInput(1, 2, 3, physics.Input{}, 0)
	_, err := DecodeClient(buf[:6])
	assert.Error(t, err)
}
