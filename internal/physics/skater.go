package physics

import (
	"math"

	"hqmgo/internal/rotation"
)

// Hand is which hand a skater holds their stick in.
type Hand uint8

const (
	HandLeft Hand = iota
	HandRight
)

// Input is one tick's decoded client input. StickAngle and Unknown are
// read from the wire but never acted on.
type Input struct {
	StickAngle float32
	Turn       float32
	Unknown    float32
	Fwbw       float32
	Stick      [2]float32 // azimuth/inclination aim, x/y
	HeadRot    float32
	BodyRot    float32
	Keys       uint32
}

const (
	KeyJump      uint32 = 0x1
	KeyCrouch    uint32 = 0x2
	KeyJoinRed   uint32 = 0x4
	KeyJoinBlue  uint32 = 0x8
	KeyShift     uint32 = 0x10
	KeySpectate  uint32 = 0x20
)

func (in Input) Jump() bool     { return in.Keys&KeyJump != 0 }
func (in Input) Crouch() bool   { return in.Keys&KeyCrouch != 0 }
func (in Input) JoinRed() bool  { return in.Keys&KeyJoinRed != 0 }
func (in Input) JoinBlue() bool { return in.Keys&KeyJoinBlue != 0 }
func (in Input) Shift() bool    { return in.Keys&KeyShift != 0 }
func (in Input) Spectate() bool { return in.Keys&KeySpectate != 0 }

// CollisionBall is one of the six spheres approximating a skater's body
// for contact resolution.
type CollisionBall struct {
	Offset   Vec3 // constant, body-frame
	Pos      Vec3 // derived each tick: body.Pos + body.Rot * Offset
	Velocity Vec3
	Radius   float32
}

// skaterBallLayout is the fixed six-ball humanoid silhouette used for
// contact resolution.
var skaterBallLayout = [6]struct {
	offset Vec3
	radius float32
}{
	{Vec3{0, 0, 0}, 0.225},
	{Vec3{0.25, 0.3125, 0}, 0.25},
	{Vec3{-0.25, 0.3125, 0}, 0.25},
	{Vec3{-0.1875, -0.1875, 0}, 0.1875},
	{Vec3{0.1875, -0.1875, 0}, 0.1875},
	{Vec3{0, 0.5, 0}, 0.1875},
}

// skaterRotMul is the angular-damping vector for skater bodies.
var skaterRotMul = Vec3{2.75, 6.16, 2.35}

// puckRotMul is the angular-damping vector for the puck body.
var puckRotMul = Vec3{223.5, 128.0, 223.5}

// Skater is one connected player's simulated body.
type Skater struct {
	Slot               int
	PlayerSlot         int // index into the session table; -1 if unassigned
	Body               Body
	StickPos           Vec3
	StickVelocity      Vec3
	StickRot           Mat3
	HeadRot            float32
	BodyRot            float32
	Height             float32
	Hand               Hand
	JumpedLastFrame    bool
	StickPlacement     [2]float32 // azimuth, inclination
	StickPlacementRate [2]float32 // delta applied per tick
	CollisionBalls     [6]CollisionBall
	Input              Input
}

// NewSkater places a skater at pos with orientation rot.
func NewSkater(slot, playerSlot int, pos Vec3, rot Mat3, hand Hand) *Skater {
	s := &Skater{
		Slot:       slot,
		PlayerSlot: playerSlot,
		Body: Body{
			Pos:    pos,
			Rot:    rot,
			RotMul: skaterRotMul,
		},
		StickPos: pos,
		StickRot: rotation.Identity3(),
		Height:   0.75,
		Hand:     hand,
	}
	s.updateCollisionBalls()
	return s
}

// updateCollisionBalls re-derives each ball's world position from the
// body's current pose; only ball velocities are independent state.
func (s *Skater) updateCollisionBalls() {
	for i, layout := range skaterBallLayout {
		s.CollisionBalls[i].Offset = layout.offset
		s.CollisionBalls[i].Radius = layout.radius
		s.CollisionBalls[i].Pos = rotation.Add(s.Body.Pos, rotation.MulMatVec(s.Body.Rot, layout.offset))
	}
}

// Grounded reports whether any collision ball currently overlaps the
// floor plane (y = 0), the condition that gates gravity and forward
// acceleration.
func (s *Skater) Grounded() bool {
	for _, b := range s.CollisionBalls {
		if b.Pos[1]-b.Radius <= 0 {
			return true
		}
	}
	return false
}

const (
	forwardAccel       = 0.0005
	shiftBoostFactor    = 1.5
	turnAccel          = 0.00065
	jumpSpeed          = 0.025
	rotationEaseRate   = 0.125
	stickPlacementRate = 0.088
	stickPlacementMax  = math.Pi / 4
	stickPlacementDamp = 0.75
	stickReach         = 1.75
)

// ApplyInput advances a skater's controller state for one tick from its
// currently-stored Input. Physics integration (gravity,
// position update) happens separately in World.Step.
func (s *Skater) ApplyInput(limitJumpSpeed bool) {
	in := s.Input
	grounded := s.Grounded()

	forward := s.Body.Rot[2] // local +z is the skater's forward axis

	if grounded {
		accel := float32(forwardAccel)
		if in.Shift() {
			accel *= shiftBoostFactor
		}
		impulse := rotation.Scale(forward, in.Fwbw*accel)
		s.Body.LinearVelocity = rotation.Add(s.Body.LinearVelocity, impulse)
	}

	s.Body.AngularVelocity[1] += in.Turn * turnAccel

	if in.Jump() && !s.JumpedLastFrame && grounded {
		s.Body.LinearVelocity[1] += jumpSpeed
		if limitJumpSpeed && s.Body.LinearVelocity[1] > jumpSpeed {
			s.Body.LinearVelocity[1] = jumpSpeed
		}
	}
	s.JumpedLastFrame = in.Jump()

	s.HeadRot += (in.HeadRot - s.HeadRot) * rotationEaseRate
	s.BodyRot += (in.BodyRot - s.BodyRot) * rotationEaseRate

	for i := 0; i < 2; i++ {
		s.StickPlacementRate[i] += (in.Stick[i] - s.StickPlacement[i]) * stickPlacementRate
		if s.StickPlacementRate[i] > stickPlacementMax {
			s.StickPlacementRate[i] = stickPlacementMax
		} else if s.StickPlacementRate[i] < -stickPlacementMax {
			s.StickPlacementRate[i] = -stickPlacementMax
		}
		s.StickPlacement[i] += s.StickPlacementRate[i]
		s.StickPlacementRate[i] *= stickPlacementDamp
	}

	prevStickPos := s.StickPos
	s.updateStickTransform()
	s.StickVelocity = rotation.Sub(s.StickPos, prevStickPos)
	s.updateCollisionBalls()
}

// updateStickTransform positions the stick endpoint relative to the
// shoulder point, composed from body orientation and stick placement
// (azimuth/inclination).5.
func (s *Skater) updateStickTransform() {
	shoulder := rotation.Add(s.Body.Pos, rotation.MulMatVec(s.Body.Rot, Vec3{0, 0.35, 0.15}))

	azimuth, inclination := s.StickPlacement[0], s.StickPlacement[1]
	placementRot := rotation.MulMat(
		rotation.FromAxisAngle(Vec3{0, 1, 0}, azimuth),
		rotation.FromAxisAngle(Vec3{1, 0, 0}, inclination),
	)
	s.StickRot = rotation.MulMat(s.Body.Rot, placementRot)

	tip := rotation.MulMatVec(s.StickRot, Vec3{0, 0, stickReach})
	s.StickPos = rotation.Add(shoulder, tip)
}
