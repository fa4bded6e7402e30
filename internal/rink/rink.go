// Package rink describes the static collider set for the playing surface:
// bounding planes, rounded-corner arcs, and the two nets.
package rink

import "hqmgo/internal/rotation"

// Team tags a net/side.
type Team uint8

const (
	TeamRed Team = iota
	TeamBlue
	TeamSpec
)

// Other returns the opposing team; undefined for TeamSpec.
func (t Team) Other() Team {
	if t == TeamRed {
		return TeamBlue
	}
	return TeamRed
}

func (t Team) String() string {
	switch t {
	case TeamRed:
		return "Red"
	case TeamBlue:
		return "Blue"
	default:
		return "Spec"
	}
}

// Vec3 is rotation.Vec3, reused so colliders and bodies share one vector
// representation across package boundaries.
type Vec3 = rotation.Vec3

func add(a, b Vec3) Vec3         { return rotation.Add(a, b) }
func sub(a, b Vec3) Vec3         { return rotation.Sub(a, b) }
func scl(a Vec3, s float32) Vec3 { return rotation.Scale(a, s) }

// Plane is a half-space boundary: points p satisfy the rink interior when
// dot(p-Origin, Normal) >= 0.
type Plane struct {
	Origin Vec3
	Normal Vec3
}

// Corner is a vertical quarter-cylinder arc at (X, _, Z) with the given
// inward-facing diagonal Normal and Radius.
type Corner struct {
	Center Vec3
	Normal Vec3
	Radius float32
}

// Post is a capsule collider: a line segment between A and B with Radius.
type Post struct {
	A, B   Vec3
	Radius float32
}

// Surface is a convex quadrilateral back-surface collider, stored as four
// corners in winding order.
type Surface struct {
	A, B, C, D Vec3
}

// Net is one team's goal: posts, back surfaces, the goal mouth corners,
// the outward-facing normal, and inward normals for each post used by
// puck-stick/puck-post collision resolution.
type Net struct {
	Team             Team
	Posts            []Post
	Surfaces         []Surface
	LeftPost         Vec3
	RightPost        Vec3
	Normal           Vec3
	LeftPostInside   Vec3
	RightPostInside  Vec3
}

// newNet builds a net at the team's end of the rink: local dimensions
// 3m wide x 1m tall x 0.75m deep, placed on the center line at z=3.5
// (blue) or z=length-3.5 (red), mirrored front-to-back for red.
func newNet(team Team, width, length float32) Net {
	midX := width / 2

	var pos Vec3
	var rotX, rotZ Vec3 // local +x and +z axes in world space
	switch team {
	case TeamBlue:
		pos = Vec3{midX, 0, 3.5}
		rotX, rotZ = Vec3{1, 0, 0}, Vec3{0, 0, 1}
	case TeamRed:
		pos = Vec3{midX, 0, length - 3.5}
		rotX, rotZ = Vec3{-1, 0, 0}, Vec3{0, 0, -1}
	default:
		panic("newNet: team must be Red or Blue")
	}
	rotY := Vec3{0, 1, 0}

	local := func(x, y, z float32) Vec3 {
		return add(pos, add(scl(rotX, x), add(scl(rotY, y), scl(rotZ, z))))
	}

	frontUpperLeft := local(-1.5, 1.0, 0.5)
	frontUpperRight := local(1.5, 1.0, 0.5)
	frontLowerLeft := local(-1.5, 0.0, 0.5)
	frontLowerRight := local(1.5, 0.0, 0.5)
	backUpperLeft := local(-1.25, 1.0, -0.25)
	backUpperRight := local(1.25, 1.0, -0.25)
	backLowerLeft := local(-1.25, 0.0, -0.5)
	backLowerRight := local(1.25, 0.0, -0.5)

	return Net{
		Team: team,
		Posts: []Post{
			{frontLowerRight, frontUpperRight, 0.1875},
			{frontLowerLeft, frontUpperLeft, 0.1875},
			{frontUpperRight, frontUpperLeft, 0.1875},

			{frontLowerLeft, backLowerLeft, 0.125},
			{frontLowerRight, backLowerRight, 0.125},
			{frontUpperLeft, backUpperLeft, 0.125},
			{backUpperRight, frontUpperRight, 0.125},

			{backLowerLeft, backUpperLeft, 0.125},
			{backLowerRight, backUpperRight, 0.125},
			{backLowerLeft, backLowerRight, 0.125},
			{backUpperLeft, backUpperRight, 0.125},
		},
		Surfaces: []Surface{
			{backUpperLeft, backUpperRight, backLowerRight, backLowerLeft},
			{frontUpperLeft, backUpperLeft, backLowerLeft, frontLowerLeft},
			{frontUpperRight, frontLowerRight, backLowerRight, backUpperRight},
			{frontUpperLeft, frontUpperRight, backUpperRight, backUpperLeft},
		},
		LeftPost:        frontLowerLeft,
		RightPost:       frontLowerRight,
		Normal:          rotZ,
		LeftPostInside:  rotX,
		RightPostInside: scl(rotX, -1),
	}
}

// Rink is the static collider set for one playing surface.
type Rink struct {
	Width, Length, CornerRadius float32
	Planes                      []Plane
	Corners                     []Corner
	Nets                        []Net // [0] = Red, [1] = Blue
}

// New builds a rink from its dimensions. Defaults, 61, 8.5).
func New(width, length, cornerRadius float32) *Rink {
	zero := Vec3{0, 0, 0}
	planes := []Plane{
		{zero, Vec3{0, 1, 0}},
		{Vec3{0, 0, length}, Vec3{0, 0, -1}},
		{zero, Vec3{0, 0, 1}},
		{Vec3{width, 0, 0}, Vec3{-1, 0, 0}},
		{zero, Vec3{1, 0, 0}},
	}
	r := cornerRadius
	wr := width - cornerRadius
	lr := length - cornerRadius
	corners := []Corner{
		{Vec3{r, 0, r}, Vec3{-1, 0, -1}, cornerRadius},
		{Vec3{wr, 0, r}, Vec3{1, 0, -1}, cornerRadius},
		{Vec3{wr, 0, lr}, Vec3{1, 0, 1}, cornerRadius},
		{Vec3{r, 0, lr}, Vec3{-1, 0, 1}, cornerRadius},
	}
	return &Rink{
		Width:        width,
		Length:       length,
		CornerRadius: cornerRadius,
		Planes:       planes,
		Corners:      corners,
		Nets:         []Net{newNet(TeamRed, width, length), newNet(TeamBlue, width, length)},
	}
}

// NetFor returns the net belonging to team (Red or Blue).
func (r *Rink) NetFor(team Team) *Net {
	for i := range r.Nets {
		if r.Nets[i].Team == team {
			return &r.Nets[i]
		}
	}
	return nil
}

// DefensiveLineZ returns the z-coordinate of team's own blue line, the
// line Russian mode's line-constraint hook pushes skaters back across.
// It is the boundary between a team's defensive half and the
// neutral/offensive zone, one third of the rink length from its own net.
func (r *Rink) DefensiveLineZ(team Team) float32 {
	third := r.Length / 3
	if team == TeamRed {
		return r.Length - third
	}
	return third
}

// OffensiveZoneFor reports which team's offensive zone contains z, or
// TeamSpec for the neutral zone. A team's offensive zone is the third of
// the rink nearest the opposing net.
func (r *Rink) OffensiveZoneFor(z float32) Team {
	third := r.Length / 3
	switch {
	case z < third:
		return TeamRed // near the blue net: Red's attacking end
	case z > 2*third:
		return TeamBlue // near the red net: Blue's attacking end
	default:
		return TeamSpec
	}
}

// HalfFor reports which team's own (defensive) half contains z, split at
// the center line. Red defends the half nearest its own net at
// z=Length-3.5; Blue defends the half nearest z=3.5.
func (r *Rink) HalfFor(z float32) Team {
	if z > r.Length/2 {
		return TeamRed
	}
	return TeamBlue
}
