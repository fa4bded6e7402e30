package rotation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func vecLen(v Vec3) float64 {
	return math.Sqrt(float64(v[0]*v[0] + v[1]*v[1] + v[2]*v[2]))
}

func vecDist(a, b Vec3) float64 {
	return vecLen(sub(a, b))
}

func sampleUnitVectors() []Vec3 {
	var out []Vec3
	for _, v := range []Vec3{
		{1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}, {0, 0, 1}, {0, 0, -1},
		{1, 1, 1}, {1, -1, 1}, {-1, 1, -1}, {0.3, 0.9, 0.1}, {0.7, -0.2, 0.68},
	} {
		out = append(out, normalize(v))
	}
	return out
}

func TestEncodeDecodeColumnRoundTrip(t *testing.T) {
	for b := uint8(8); b <= 31; b++ {
		tol := math.Pow(2, -float64(b)/3)
		for _, v := range sampleUnitVectors() {
			enc := EncodeColumn(b, v)
			dec := DecodeColumn(b, enc)
			require.InDelta(t, 1.0, vecLen(dec), 1e-5)
			require.Lessf(t, vecDist(dec, v), tol, "b=%d v=%v dec=%v", b, v, dec)
		}
	}
}

func TestEncodeDecodeMatrixRoundTrip(t *testing.T) {
	m := Mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	for _, widths := range [][2]uint8{{31, 25}, {31, 31}} {
		v1, v2 := EncodeMatrix(widths[0], widths[1], m)
		dec := DecodeMatrix(widths[0], widths[1], v1, v2)

		// orthonormal to within tolerance
		require.InDelta(t, 1.0, vecLen(dec[0]), 1e-5)
		require.InDelta(t, 1.0, vecLen(dec[1]), 1e-5)
		require.InDelta(t, 1.0, vecLen(dec[2]), 1e-5)
		require.InDelta(t, 0.0, float64(dot(dec[0], dec[1])), 1e-4)
		require.InDelta(t, 0.0, float64(dot(dec[1], dec[2])), 1e-4)

		tol := math.Pow(2, -float64(widths[1])/3)
		require.Less(t, vecDist(dec[1], m[1]), tol)
		require.Less(t, vecDist(dec[2], m[2]), tol)
	}
}

func TestOrthonormalizeFixesDrift(t *testing.T) {
	drifted := Mat3{{1, 0, 0.01}, {0.02, 1, 0}, {0, 0.01, 1}}
	fixed := Orthonormalize(drifted)
	require.InDelta(t, 1.0, vecLen(fixed[1]), 1e-6)
	require.InDelta(t, 0.0, float64(dot(fixed[1], fixed[2])), 1e-6)
	require.InDelta(t, 0.0, float64(dot(fixed[0], fixed[1])), 1e-6)
}
