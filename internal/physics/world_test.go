package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hqmgo/internal/event"
	"hqmgo/internal/rink"
	"hqmgo/internal/rotation"
)

func newTestWorld() *World {
	r := rink.New(30, 61, 8.5)
	return NewWorld(r, DefaultConfig())
}

func TestCreatePlayerObjectAssignsLowestFreeSlot(t *testing.T) {
	w := newTestWorld()
	slot0, err := w.CreatePlayerObject(0, Vec3{5, 0, 5}, rotation.Identity3(), HandRight)
	require.NoError(t, err)
	assert.Equal(t, 0, slot0)

	w.RemoveObject(slot0)
	slot1, err := w.CreatePlayerObject(1, Vec3{5, 0, 5}, rotation.Identity3(), HandRight)
	require.NoError(t, err)
	assert.Equal(t, 0, slot1, "freed slot 0 must be reused before growing")
}

func TestCreatePlayerObjectNoFreeSlot(t *testing.T) {
	w := newTestWorld()
	for i := 0; i < 32; i++ {
		_, err := w.CreatePlayerObject(i, Vec3{1, 0, 1}, rotation.Identity3(), HandRight)
		require.NoError(t, err)
	}
	_, err := w.CreatePlayerObject(99, Vec3{1, 0, 1}, rotation.Identity3(), HandRight)
	assert.ErrorIs(t, err, ErrNoFreeSlot)
}

// TestSkaterStaysWithinRinkBounds exercises the no-tunnelling invariant:
// a skater given unbounded forward velocity toward a wall must never
// end up with its collision hull center beyond the wall plane plus its
// radius.
func TestSkaterStaysWithinRinkBounds(t *testing.T) {
	w := newTestWorld()
	slot, err := w.CreatePlayerObject(0, Vec3{29, 0, 30}, rotation.Identity3(), HandRight)
	require.NoError(t, err)
	sk := w.Objects[slot].Skater
	sk.Body.LinearVelocity = Vec3{5, 0, 0}

	for i := 0; i < 500; i++ {
		w.Step()
	}

	for _, b := range sk.CollisionBalls {
		assert.LessOrEqual(t, b.Pos[0], w.Rink.Width+1e-3, "ball must not tunnel through the far wall")
	}
}

// TestOrthonormalityPreservedAcrossTicks guards against orientation drift
// accumulating into a non-orthonormal matrix over many ticks, applying a small constant
// angular velocity throughout.
func TestOrthonormalityPreservedAcrossTicks(t *testing.T) {
	w := newTestWorld()
	slot, err := w.CreatePlayerObject(0, Vec3{15, 0, 30}, rotation.Identity3(), HandRight)
	require.NoError(t, err)
	sk := w.Objects[slot].Skater
	sk.Body.AngularVelocity = Vec3{0.001, 0.002, -0.0015}

	for i := 0; i < 1000; i++ {
		sk.Body.AngularVelocity = Vec3{0.001, 0.002, -0.0015}
		w.Step()
	}

	ortho := rotation.Orthonormalize(sk.Body.Rot)
	for col := 0; col < 3; col++ {
		for k := 0; k < 3; k++ {
			assert.InDelta(t, ortho[col][k], sk.Body.Rot[col][k], 0.05,
				"orientation should not have drifted far from an orthonormal basis")
		}
	}
	assert.InDelta(t, 1.0, rotation.Length(sk.Body.Rot[1]), 0.1)
}

// TestPuckEnergyNonIncreasingOnFlatIce checks that, absent any stick
// coupling, a sliding puck's mechanical energy (kinetic plus
// gravitational, both scaled by 2/mass) never increases tick over tick:
// friction and restitution only remove energy.
func TestPuckEnergyNonIncreasingOnFlatIce(t *testing.T) {
	w := newTestWorld()
	slot, err := w.CreatePuckObject(Vec3{15, PuckHeight, 30})
	require.NoError(t, err)
	p := w.Objects[slot].Puck
	p.Body.LinearVelocity = Vec3{0.05, 0, 0.03}

	prevEnergy := rotation.Dot(p.Body.LinearVelocity, p.Body.LinearVelocity) + 2*w.Config.Gravity*p.Body.Pos[1]
	for i := 0; i < 200; i++ {
		w.Step()
		energy := rotation.Dot(p.Body.LinearVelocity, p.Body.LinearVelocity) + 2*w.Config.Gravity*p.Body.Pos[1]
		assert.LessOrEqual(t, energy, prevEnergy+1e-6, "puck mechanical energy must not increase tick over tick")
		prevEnergy = energy
	}
}

// TestPuckCrossingGoalLineEntersNet drives a puck straight through a
// net's mouth and asserts the PuckEnteredNet event fires.
func TestPuckCrossingGoalLineEntersNet(t *testing.T) {
	w := newTestWorld()
	net := w.Rink.NetFor(rink.TeamBlue)
	mouth := rotation.Scale(rotation.Add(net.LeftPost, net.RightPost), 0.5)
	start := rotation.Sub(mouth, rotation.Scale(net.Normal, -1.5))

	slot, err := w.CreatePuckObject(start)
	require.NoError(t, err)
	p := w.Objects[slot].Puck
	toMouth := rotation.Sub(mouth, start)
	dir := rotation.Normalize(toMouth)
	p.Body.LinearVelocity = rotation.Scale(dir, 0.2)

	sawGoal := false
	for i := 0; i < 100 && !sawGoal; i++ {
		for _, ev := range w.Step() {
			if ev.Kind == event.KindPuckEnteredNet && ev.Team == rink.TeamBlue {
				sawGoal = true
			}
		}
	}
	assert.True(t, sawGoal, "puck driven through the net mouth should raise PuckEnteredNet")
}

func TestSkaterSkidsInStraightLineWithNoInput(t *testing.T) {
	w := newTestWorld()
	slot, err := w.CreatePlayerObject(0, Vec3{15, 0, 30}, rotation.Identity3(), HandRight)
	require.NoError(t, err)
	sk := w.Objects[slot].Skater
	sk.Body.LinearVelocity = Vec3{0.1, 0, 0}

	startZ := sk.Body.Pos[2]
	for i := 0; i < 50; i++ {
		w.Step()
	}
	assert.InDelta(t, startZ, sk.Body.Pos[2], 1e-3, "no side input should mean no lateral drift")
	assert.Greater(t, sk.Body.Pos[0], float32(15), "forward velocity should have carried the skater forward")
}
