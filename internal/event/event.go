// Package event defines the per-tick simulation event union emitted by
// internal/physics and consumed by a behavior's AfterTick.
package event

import "hqmgo/internal/rink"

// Kind tags which event variant a value holds: the seven simulation
// events a tick can produce.
type Kind uint8

const (
	KindPuckTouch Kind = iota
	KindPuckEnteredNet
	KindPuckPassedGoalLine
	KindPuckEnteredOffensiveZone
	KindPuckLeftOffensiveZone
	KindPuckEnteredOwnHalf
	KindPuckTouchedNet
)

// String names a Kind for logging and metric labels.
func (k Kind) String() string {
	switch k {
	case KindPuckTouch:
		return "PuckTouch"
	case KindPuckEnteredNet:
		return "PuckEnteredNet"
	case KindPuckPassedGoalLine:
		return "PuckPassedGoalLine"
	case KindPuckEnteredOffensiveZone:
		return "PuckEnteredOffensiveZone"
	case KindPuckLeftOffensiveZone:
		return "PuckLeftOffensiveZone"
	case KindPuckEnteredOwnHalf:
		return "PuckEnteredOwnHalf"
	case KindPuckTouchedNet:
		return "PuckTouchedNet"
	default:
		return "Unknown"
	}
}

// Event is one tagged simulation event. Only the fields relevant to Kind
// are populated; PlayerSlot is -1 when not applicable.
type Event struct {
	Kind       Kind
	Team       rink.Team
	PuckSlot   int
	PlayerSlot int
}

// PuckTouch reports a skater's stick touching the puck.
func PuckTouch(puckSlot, playerSlot int) Event {
	return Event{Kind: KindPuckTouch, PuckSlot: puckSlot, PlayerSlot: playerSlot, Team: rink.TeamSpec}
}

// PuckEnteredNet reports the puck crossing fully into team's net.
func PuckEnteredNet(team rink.Team, puckSlot int) Event {
	return Event{Kind: KindPuckEnteredNet, Team: team, PuckSlot: puckSlot, PlayerSlot: -1}
}

// PuckPassedGoalLine reports the puck crossing team's goal line without
// entering the net frame (e.g. wide of the posts).
func PuckPassedGoalLine(team rink.Team, puckSlot int) Event {
	return Event{Kind: KindPuckPassedGoalLine, Team: team, PuckSlot: puckSlot, PlayerSlot: -1}
}

// PuckEnteredOffensiveZone reports the puck crossing into team's
// offensive third.
func PuckEnteredOffensiveZone(team rink.Team, puckSlot int) Event {
	return Event{Kind: KindPuckEnteredOffensiveZone, Team: team, PuckSlot: puckSlot, PlayerSlot: -1}
}

// PuckLeftOffensiveZone reports the puck leaving team's offensive third.
func PuckLeftOffensiveZone(team rink.Team, puckSlot int) Event {
	return Event{Kind: KindPuckLeftOffensiveZone, Team: team, PuckSlot: puckSlot, PlayerSlot: -1}
}

// PuckEnteredOwnHalf reports the puck crossing into team's defensive half.
func PuckEnteredOwnHalf(team rink.Team, puckSlot int) Event {
	return Event{Kind: KindPuckEnteredOwnHalf, Team: team, PuckSlot: puckSlot, PlayerSlot: -1}
}

// PuckTouchedNet reports the puck contacting a net's posts or back surface
// without satisfying the full "entered" test.
func PuckTouchedNet(team rink.Team, puckSlot int) Event {
	return Event{Kind: KindPuckTouchedNet, Team: team, PuckSlot: puckSlot, PlayerSlot: -1}
}
