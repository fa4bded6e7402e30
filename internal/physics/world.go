// Package physics implements the 100 Hz rigid-body simulation: skater
// and puck kinematics, collision-ball hulls, rink/net collision,
// friction, and the puck-stick coupling, orchestrated here into a
// single per-tick sequence.
package physics

import (
	"errors"

	"hqmgo/internal/event"
	"hqmgo/internal/rink"
	"hqmgo/internal/rotation"
)

// ErrNoFreeSlot is returned when all 32 object slots are occupied.
var ErrNoFreeSlot = errors.New("physics: no free object slot")

const numSlots = 32

// Kind tags which variant of the slot union is occupied.
type Kind uint8

const (
	KindNone Kind = iota
	KindSkater
	KindPuck
)

// Object is one entry of the 32-slot world array. Only one of Skater,
// Puck is non-nil, selected by Kind.
type Object struct {
	Kind   Kind
	Skater *Skater
	Puck   *Puck
}

// Config holds the tunable physics constants a server operator can
// override; the defaults below match known-good standard rink values.
type Config struct {
	Gravity float32

	// RinkKPush/RinkKDamp/RinkFriction govern ball-vs-plane-or-corner
	// contact: the impulse is n*(d*KPush) - n*(v_along*KDamp), followed
	// by bounded tangential friction at coefficient RinkFriction.
	RinkKPush    float32
	RinkKDamp    float32
	RinkFriction float32

	// SkaterKPush is the ball-ball push coefficient (0.125 by default).
	SkaterKPush float32

	PuckRinkKPush    float32
	PuckRinkKDamp    float32
	PuckRinkFriction float32

	// StickSpringK and StickDampK are the puck-stick coupling's spring
	// stiffness and relative-velocity damping fraction (0.125 and 0.5
	// by default).
	StickSpringK float32
	StickDampK   float32

	LimitJumpSpeed bool
}

// DefaultConfig returns the stock physics tuning.
func DefaultConfig() Config {
	return Config{
		Gravity:          0.000680,
		RinkKPush:        0.25,
		RinkKDamp:        0.5,
		RinkFriction:     0.3,
		SkaterKPush:      0.125,
		PuckRinkKPush:    0.25,
		PuckRinkKDamp:    0.5,
		PuckRinkFriction: 0.05,
		StickSpringK:     0.125,
		StickDampK:       0.5,
		LimitJumpSpeed:   false,
	}
}

// World holds the fixed-size object array and its static collider set,
// and owns the per-tick stepping sequence.
type World struct {
	Rink     *rink.Rink
	Objects  [numSlots]Object
	GameStep uint32
	Config   Config
}

// NewWorld builds an empty world over r using cfg's physics tuning.
func NewWorld(r *rink.Rink, cfg Config) *World {
	return &World{Rink: r, Config: cfg}
}

// lowestFreeSlot returns the smallest unoccupied index, or -1.
func (w *World) lowestFreeSlot() int {
	for i := 0; i < numSlots; i++ {
		if w.Objects[i].Kind == KindNone {
			return i
		}
	}
	return -1
}

// CreatePlayerObject assigns a skater to the lowest free slot.
func (w *World) CreatePlayerObject(playerSlot int, pos Vec3, rot Mat3, hand Hand) (int, error) {
	slot := w.lowestFreeSlot()
	if slot < 0 {
		return -1, ErrNoFreeSlot
	}
	w.Objects[slot] = Object{Kind: KindSkater, Skater: NewSkater(slot, playerSlot, pos, rot, hand)}
	return slot, nil
}

// CreatePuckObject assigns a puck to the lowest free slot.
func (w *World) CreatePuckObject(pos Vec3) (int, error) {
	slot := w.lowestFreeSlot()
	if slot < 0 {
		return -1, ErrNoFreeSlot
	}
	p := NewPuck(slot, pos)
	p.zone = w.Rink.OffensiveZoneFor(pos[2])
	p.half = w.Rink.HalfFor(pos[2])
	w.Objects[slot] = Object{Kind: KindPuck, Puck: p}
	return slot, nil
}

// RemoveObject clears a slot, freeing it for reuse.
func (w *World) RemoveObject(slot int) {
	w.Objects[slot] = Object{}
}

// Skaters returns every occupied skater slot, in slot order.
func (w *World) Skaters() []*Skater {
	var out []*Skater
	for i := range w.Objects {
		if w.Objects[i].Kind == KindSkater {
			out = append(out, w.Objects[i].Skater)
		}
	}
	return out
}

// Pucks returns every occupied puck slot, in slot order.
func (w *World) Pucks() []*Puck {
	var out []*Puck
	for i := range w.Objects {
		if w.Objects[i].Kind == KindPuck {
			out = append(out, w.Objects[i].Puck)
		}
	}
	return out
}

// Step advances the whole world by one tick and returns the events
// raised during it, running stages in order: apply inputs, integrate,
// collide skaters, collide pucks with rink and nets (detecting goals and
// zone crossings), couple puck-to-stick.
func (w *World) Step() []event.Event {
	var events []event.Event

	skaters := w.Skaters()
	pucks := w.Pucks()

	for _, s := range skaters {
		s.ApplyInput(w.Config.LimitJumpSpeed)
		if !s.Grounded() {
			s.Body.LinearVelocity[1] -= w.Config.Gravity
		}
		s.Body.Integrate()
		s.updateCollisionBalls()
	}
	for _, p := range pucks {
		p.Body.LinearVelocity[1] -= w.Config.Gravity
		p.Body.Integrate()
	}

	for _, s := range skaters {
		w.collideSkaterRink(s)
	}
	for i := 0; i < len(skaters); i++ {
		for j := i + 1; j < len(skaters); j++ {
			w.collideSkaterPair(skaters[i], skaters[j])
		}
	}

	for _, p := range pucks {
		events = append(events, w.collidePuckRink(p)...)
		events = append(events, w.collidePuckNets(p)...)
		events = append(events, w.trackPuckZones(p)...)
	}

	for _, s := range skaters {
		for _, p := range pucks {
			if ev, touched := w.couplePuckStick(s, p); touched {
				events = append(events, ev)
			}
		}
	}

	w.GameStep++
	return events
}

// collideSkaterRink resolves every collision ball against the rink's
// planes and rounded corners.
func (w *World) collideSkaterRink(s *Skater) {
	for i := range s.CollisionBalls {
		ball := &s.CollisionBalls[i]
		for _, pl := range w.Rink.Planes {
			resolveBallPlane(ball, &s.Body.LinearVelocity, pl, w.Config.RinkKPush, w.Config.RinkKDamp, w.Config.RinkFriction)
		}
		for _, c := range w.Rink.Corners {
			resolveBallCorner(ball, &s.Body.LinearVelocity, c, w.Config.RinkKPush, w.Config.RinkKDamp, w.Config.RinkFriction)
		}
	}
}

// PushImpulse is the standard contact response: for an overlap d along
// normal n, Δv = n*(d*kPush) - n*(v_along*kDamp). Exported so a
// behavior's line-constraint hook can reuse it outside rink/net contact.
func PushImpulse(vel Vec3, n Vec3, depth, kPush, kDamp float32) Vec3 {
	vAlong := rotation.Dot(vel, n)
	return rotation.Sub(rotation.Scale(n, depth*kPush), rotation.Scale(n, vAlong*kDamp))
}

func pushImpulse(vel Vec3, n Vec3, depth, kPush, kDamp float32) Vec3 {
	return PushImpulse(vel, n, depth, kPush, kDamp)
}

// resolveBallPlane pushes ball out of plane's half-space and applies the
// push/damp impulse plus bounded tangential friction.
func resolveBallPlane(ball *CollisionBall, vel *Vec3, pl rink.Plane, kPush, kDamp, friction float32) {
	depth := ball.Radius - rotation.Dot(rotation.Sub(ball.Pos, pl.Origin), pl.Normal)
	if depth <= 0 {
		return
	}
	ball.Pos = rotation.Add(ball.Pos, rotation.Scale(pl.Normal, depth))
	*vel = rotation.Add(*vel, pushImpulse(*vel, pl.Normal, depth, kPush, kDamp))
	*vel = rotation.Add(*vel, LimitFriction(*vel, pl.Normal, friction))
}

// resolveBallCorner resolves a ball against one rounded rink corner: only
// the quadrant Normal points into is a boundary, and it curves rather
// than clipping the square corner.
func resolveBallCorner(ball *CollisionBall, vel *Vec3, c rink.Corner, kPush, kDamp, friction float32) {
	dx, dz := ball.Pos[0]-c.Center[0], ball.Pos[2]-c.Center[2]
	if sign(dx) != sign(c.Normal[0]) || sign(dz) != sign(c.Normal[2]) {
		return
	}
	horiz := Vec3{dx, 0, dz}
	dist := rotation.Length(horiz)
	if dist == 0 {
		return
	}
	outward := rotation.Scale(horiz, 1/dist)
	depth := ball.Radius - (c.Radius - dist)
	if depth <= 0 {
		return
	}
	ball.Pos = rotation.Add(ball.Pos, rotation.Scale(outward, depth))
	*vel = rotation.Add(*vel, pushImpulse(*vel, outward, depth, kPush, kDamp))
	*vel = rotation.Add(*vel, LimitFriction(*vel, outward, friction))
}

func clamp01(f float32) float32 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}

func sign(f float32) int {
	switch {
	case f > 0:
		return 1
	case f < 0:
		return -1
	default:
		return 0
	}
}

// collideSkaterPair resolves every overlapping ball pair between two
// skaters' hulls, transferring the resulting impulse to each parent
// body as linear (split evenly across the pair) and angular (offset x
// impulse).
func (w *World) collideSkaterPair(a, b *Skater) {
	kPush := w.Config.SkaterKPush
	kDamp := w.Config.RinkKDamp
	friction := w.Config.RinkFriction

	for i := range a.CollisionBalls {
		for j := range b.CollisionBalls {
			ba, bb := &a.CollisionBalls[i], &b.CollisionBalls[j]
			delta := rotation.Sub(bb.Pos, ba.Pos)
			dist := rotation.Length(delta)
			minDist := ba.Radius + bb.Radius
			if dist == 0 || dist >= minDist {
				continue
			}
			n := rotation.Scale(delta, 1/dist)
			depth := minDist - dist

			relVel := rotation.Sub(b.Body.LinearVelocity, a.Body.LinearVelocity)
			impulse := pushImpulse(relVel, n, depth, kPush, kDamp)
			impulse = rotation.Add(impulse, LimitFriction(relVel, n, friction))
			half := rotation.Scale(impulse, 0.5)

			a.Body.LinearVelocity = rotation.Sub(a.Body.LinearVelocity, half)
			b.Body.LinearVelocity = rotation.Add(b.Body.LinearVelocity, half)
			a.Body.ApplyAngularImpulse(ba.Offset, rotation.Scale(half, -1))
			b.Body.ApplyAngularImpulse(bb.Offset, half)

			push := depth / 2
			ba.Pos = rotation.Sub(ba.Pos, rotation.Scale(n, push))
			bb.Pos = rotation.Add(bb.Pos, rotation.Scale(n, push))
		}
	}
}

// collidePuckRink resolves the puck against rink planes and corners,
// emitting no events (only the nets and sticks generate events here).
func (w *World) collidePuckRink(p *Puck) []event.Event {
	for _, pl := range w.Rink.Planes {
		resolvePuckPlane(p, pl, w.Config.PuckRinkKPush, w.Config.PuckRinkKDamp, w.Config.PuckRinkFriction)
	}
	ball := CollisionBall{Pos: p.Body.Pos, Radius: PuckRadius}
	for _, c := range w.Rink.Corners {
		resolveBallCorner(&ball, &p.Body.LinearVelocity, c, w.Config.PuckRinkKPush, w.Config.PuckRinkKDamp, w.Config.PuckRinkFriction)
	}
	p.Body.Pos = ball.Pos
	return nil
}

func resolvePuckPlane(p *Puck, pl rink.Plane, kPush, kDamp, friction float32) {
	ball := CollisionBall{Pos: p.Body.Pos, Radius: PuckRadius}
	resolveBallPlane(&ball, &p.Body.LinearVelocity, pl, kPush, kDamp, friction)
	p.Body.Pos = ball.Pos
}

// collidePuckNets resolves the puck against both nets' posts and back
// surfaces, emitting PuckEnteredNet/PuckTouchedNet as appropriate. It
// raises no PuckPassedGoalLine event for a puck that crosses the goal
// line outside the net.
func (w *World) collidePuckNets(p *Puck) []event.Event {
	var events []event.Event
	for i := range w.Rink.Nets {
		net := &w.Rink.Nets[i]
		for _, post := range net.Posts {
			if resolveBallSegment(&p.Body.Pos, &p.Body.LinearVelocity, post.A, post.B, PuckRadius, post.Radius, w.Config.PuckRinkKPush, w.Config.PuckRinkKDamp) {
				events = append(events, event.PuckTouchedNet(net.Team, p.Slot))
			}
		}
		if insideNet(p.Body.Pos, net) {
			events = append(events, event.PuckEnteredNet(net.Team, p.Slot))
		}
	}
	return events
}

// resolveBallSegment resolves a sphere against a capsule (line segment
// A-B with radius segRadius) for net posts.
// Returns true if contact occurred this tick.
func resolveBallSegment(pos *Vec3, vel *Vec3, a, b Vec3, ballRadius, segRadius, kPush, kDamp float32) bool {
	ab := rotation.Sub(b, a)
	abLenSq := rotation.Dot(ab, ab)
	var t float32
	if abLenSq > 0 {
		t = rotation.Dot(rotation.Sub(*pos, a), ab) / abLenSq
		if t < 0 {
			t = 0
		} else if t > 1 {
			t = 1
		}
	}
	closest := rotation.Add(a, rotation.Scale(ab, t))
	delta := rotation.Sub(*pos, closest)
	dist := rotation.Length(delta)
	minDist := ballRadius + segRadius
	if dist >= minDist || dist == 0 {
		return false
	}
	normal := rotation.Scale(delta, 1/dist)
	depth := minDist - dist
	*pos = rotation.Add(*pos, rotation.Scale(normal, depth))
	*vel = rotation.Add(*vel, pushImpulse(*vel, normal, depth, kPush, kDamp))
	return true
}

// trackPuckZones compares the puck's current offensive zone and
// defensive half against its last recorded ones and raises
// PuckEnteredOffensiveZone/PuckLeftOffensiveZone/PuckEnteredOwnHalf for
// any crossing.
func (w *World) trackPuckZones(p *Puck) []event.Event {
	var events []event.Event

	zone := w.Rink.OffensiveZoneFor(p.Body.Pos[2])
	if zone != p.zone {
		if p.zone != rink.TeamSpec {
			events = append(events, event.PuckLeftOffensiveZone(p.zone, p.Slot))
		}
		if zone != rink.TeamSpec {
			events = append(events, event.PuckEnteredOffensiveZone(zone, p.Slot))
		}
		p.zone = zone
	}

	half := w.Rink.HalfFor(p.Body.Pos[2])
	if half != p.half {
		events = append(events, event.PuckEnteredOwnHalf(half, p.Slot))
		p.half = half
	}

	return events
}

// insideNet reports whether pos has crossed behind the net's goal
// mouth, i.e. past the line between its posts on the far side of
// Normal.
func insideNet(pos Vec3, net *rink.Net) bool {
	toPoint := rotation.Sub(pos, net.LeftPost)
	behind := rotation.Dot(toPoint, net.Normal) < -0.1
	withinWidth := rotation.Dot(rotation.Sub(pos, net.LeftPost), net.LeftPostInside) >= 0 &&
		rotation.Dot(rotation.Sub(pos, net.RightPost), net.LeftPostInside) <= 0
	return behind && withinWidth
}

// stickCoupleRange is the puck-stick attraction threshold.
const stickCoupleRange = 0.25

// shotWithdrawSpeed is the relative speed, stick moving away from the
// puck, above which attraction converts into a shot.
const shotWithdrawSpeed = 1.0

// couplePuckStick resolves contact between a skater's stick blade and
// the puck: a spring attraction while the stick approaches or holds the
// puck, converting to a shot impulse when the stick pulls away fast
// enough, and records the touch as a PuckTouch event.
func (w *World) couplePuckStick(s *Skater, p *Puck) (event.Event, bool) {
	delta := rotation.Sub(p.Body.Pos, s.StickPos)
	dist := rotation.Length(delta)
	if dist >= stickCoupleRange {
		return event.Event{}, false
	}

	normal := delta
	if dist > 0 {
		normal = rotation.Scale(delta, 1/dist)
	}

	relVel := rotation.Sub(p.Body.LinearVelocity, s.StickVelocity)
	withdrawSpeed := rotation.Dot(relVel, normal)

	if withdrawSpeed >= shotWithdrawSpeed {
		placementMag := rotation.Length(Vec3{s.StickPlacement[0], s.StickPlacement[1], 0})
		shotPower := 0.5 + 0.5*clamp01(placementMag/(float32(stickPlacementMax)))
		p.Body.LinearVelocity = rotation.Add(p.Body.LinearVelocity, rotation.Scale(relVel, shotPower))
	} else {
		penetration := stickCoupleRange - dist
		impulse := rotation.Scale(normal, -penetration*w.Config.StickSpringK)
		impulse = rotation.Add(impulse, rotation.Scale(relVel, -w.Config.StickDampK))
		p.Body.LinearVelocity = rotation.Add(p.Body.LinearVelocity, impulse)
	}

	if !p.RecordTouch(s.PlayerSlot, 0, w.GameStep) {
		return event.Event{}, false
	}
	return event.PuckTouch(p.Slot, s.PlayerSlot), true
}
