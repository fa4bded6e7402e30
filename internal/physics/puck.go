package physics

import (
	"hqmgo/internal/rink"
	"hqmgo/internal/rotation"
)

const (
	// PuckRadius and PuckHeight are the puck's dimensions: a flat
	// cylinder approximated, for contact resolution, as a sphere of
	// PuckRadius; PuckHeight takes no part in contact.
	PuckRadius = 0.125
	PuckHeight = 0.04125

	// puckTouchLogSize is the length of the deduplicating touch ring:
	// the most recent touches, with a touch by the same player as the
	// newest entry merged into it rather than added, used to suppress repeat
	// PuckTouch events from the same player holding the puck against
	// their stick across consecutive ticks.
	puckTouchLogSize = 4
)

// PuckTouch is one entry in a puck's touch history.
type PuckTouch struct {
	PlayerSlot int
	Team       uint8
	GameStep   uint32
}

// Puck is the simulated puck body plus its recent-touch ring.
type Puck struct {
	Slot      int
	Body      Body
	touches   [puckTouchLogSize]PuckTouch
	touchHead int
	touchLen  int

	// zone and half are the puck's most recently observed offensive
	// zone and defensive half (rink.Rink.OffensiveZoneFor/HalfFor),
	// tracked by World.Step to raise the zone-crossing events.
	zone rink.Team
	half rink.Team
}

// NewPuck places a puck at pos with zero velocity and identity orientation.
func NewPuck(slot int, pos Vec3) *Puck {
	return &Puck{
		Slot: slot,
		Body: Body{
			Pos:    pos,
			Rot:    rotation.Identity3(),
			RotMul: puckRotMul,
		},
	}
}

// LastTouchedBy returns the player slot of the most recent distinct touch,
// or -1 if the puck has never been touched.
func (p *Puck) LastTouchedBy() int {
	if p.touchLen == 0 {
		return -1
	}
	idx := (p.touchHead - 1 + puckTouchLogSize) % puckTouchLogSize
	return p.touches[idx].PlayerSlot
}

// RecordTouch pushes a new touch onto the ring, deduplicating consecutive
// touches from the same player: touching the puck every tick it's on a
// player's stick does not grow the log or re-fire PuckTouch.
func (p *Puck) RecordTouch(playerSlot int, team uint8, gameStep uint32) bool {
	if p.touchLen > 0 && p.LastTouchedBy() == playerSlot {
		idx := (p.touchHead - 1 + puckTouchLogSize) % puckTouchLogSize
		p.touches[idx].GameStep = gameStep
		return false
	}
	p.touches[p.touchHead] = PuckTouch{PlayerSlot: playerSlot, Team: team, GameStep: gameStep}
	p.touchHead = (p.touchHead + 1) % puckTouchLogSize
	if p.touchLen < puckTouchLogSize {
		p.touchLen++
	}
	return true
}

// Touches returns the recorded touch history, oldest first.
func (p *Puck) Touches() []PuckTouch {
	out := make([]PuckTouch, p.touchLen)
	start := (p.touchHead - p.touchLen + puckTouchLogSize) % puckTouchLogSize
	for i := 0; i < p.touchLen; i++ {
		out[i] = p.touches[(start+i)%puckTouchLogSize]
	}
	return out
}
