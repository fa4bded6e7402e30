package bitio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteReadBitsRoundTrip(t *testing.T) {
	for b := uint8(1); b <= 32; b++ {
		buf := make([]byte, 8)
		w := NewWriter(buf)
		var v uint32
		if b < 32 {
			v = (uint32(1) << b) - 1
		} else {
			v = ^uint32(0)
		}
		require.NoError(t, w.WriteBits(b, v))

		r := NewReader(buf)
		got, err := r.ReadBits(b)
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestCodecRoundTripScenario(t *testing.T) {
	buf := make([]byte, 16)
	w := NewWriter(buf)
	require.NoError(t, w.WriteBits(3, 5))
	require.NoError(t, w.WriteBits(5, 17))
	require.NoError(t, w.WriteU32Aligned(0xDEADBEEF))

	r := NewReader(buf)
	v1, err := r.ReadBits(3)
	require.NoError(t, err)
	require.EqualValues(t, 5, v1)

	v2, err := r.ReadBits(5)
	require.NoError(t, err)
	require.EqualValues(t, 17, v2)

	v3, err := r.ReadU32Aligned()
	require.NoError(t, err)
	require.EqualValues(t, 0xDEADBEEF, v3)

	r.align()
	require.Equal(t, 5, r.pos)
}

func TestPositionDeltaScenario(t *testing.T) {
	buf := make([]byte, 16)
	w := NewWriter(buf)
	require.NoError(t, w.WritePos(17, 100000))
	require.NoError(t, w.WritePos(17, 100005))

	r := NewReader(buf)
	v1, err := r.ReadPos(17, nil)
	require.NoError(t, err)
	require.EqualValues(t, 100000, v1)

	old := v1
	v2, err := r.ReadPos(17, &old)
	require.NoError(t, err)
	require.EqualValues(t, 100005, v2)
}

func TestReadPosDeltaOverflow(t *testing.T) {
	buf := make([]byte, 8)
	w := NewWriter(buf)
	// header "00" (3-bit signed delta), value 3 (max positive for 3 bits signed is 3)
	require.NoError(t, w.WriteBits(2, 0))
	require.NoError(t, w.WriteBits(3, 3))

	r := NewReader(buf)
	old := uint32((1 << 17) - 1)
	_, err := r.ReadPos(17, &old)
	require.ErrorIs(t, err, ErrDeltaOverflow)
}

func TestReadPastEndIsError(t *testing.T) {
	buf := make([]byte, 1)
	r := NewReader(buf)
	_, err := r.ReadBits(16)
	require.ErrorIs(t, err, ErrOverrun)
}

func TestWritePastEndIsError(t *testing.T) {
	buf := make([]byte, 1)
	w := NewWriter(buf)
	require.NoError(t, w.WriteByteAligned(1))
	err := w.WriteByteAligned(2)
	require.ErrorIs(t, err, ErrOverrun)
}
