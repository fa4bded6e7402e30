// Package session holds per-connected-client state that lives outside the
// physics simulation: team assignment, display name, admin rights, and
// the team-switch cooldown. Deliberately not atomics-guarded: the
// server's single-threaded tick loop is the only mutator.
package session

import "hqmgo/internal/rink"

// MaxPlayers is the fixed size of the session table, matching the
// 32-slot object world.
const MaxPlayers = 32

// TeamSwitchCooldownTicks is how many ticks must elapse after a team
// change before another is accepted.
const TeamSwitchCooldownTicks = 500

// Session is one connected player's non-physics state.
type Session struct {
	Connected      bool
	Name           string
	Team           rink.Team
	Admin          bool
	ObjectSlot     int // -1 if not currently embodied in the world
	LastTeamSwitch uint32
	Address        string // transport-level identity, e.g. "ip:port"

	// LastKeys is the most recent input packet's key bitmask, tracked
	// independently of embodiment so a spectator's join-team/spectate
	// key presses are visible to a behavior's BeforeTick even before
	// they have a world object.
	LastKeys uint32

	// LastInputStep is the tick driver's game step as of the last
	// received input, used for the 500-tick disconnect timeout.
	LastInputStep uint32
}

// Table is the fixed-size player session table.
type Table struct {
	slots [MaxPlayers]Session
}

// NewTable returns an empty table with every slot marked unoccupied.
func NewTable() *Table {
	t := &Table{}
	for i := range t.slots {
		t.slots[i].ObjectSlot = -1
		t.slots[i].Team = rink.TeamSpec
	}
	return t
}

// Get returns the session at slot, or nil if slot is out of range.
func (t *Table) Get(slot int) *Session {
	if slot < 0 || slot >= MaxPlayers {
		return nil
	}
	return &t.slots[slot]
}

// Connect occupies the lowest free slot with a new session, or returns
// -1 if the table is full.
func (t *Table) Connect(name, address string) int {
	for i := range t.slots {
		if !t.slots[i].Connected {
			t.slots[i] = Session{
				Connected:  true,
				Name:       name,
				Address:    address,
				Team:       rink.TeamSpec,
				ObjectSlot: -1,
			}
			return i
		}
	}
	return -1
}

// Disconnect frees slot for reuse.
func (t *Table) Disconnect(slot int) {
	if s := t.Get(slot); s != nil {
		*s = Session{ObjectSlot: -1, Team: rink.TeamSpec}
	}
}

// CanSwitchTeam reports whether slot's cooldown has elapsed as of
// currentStep. A session currently spectating is always free to join a
// team: the cooldown only throttles repeated Red<->Blue flips by an
// already-embodied player.
func (t *Table) CanSwitchTeam(slot int, currentStep uint32) bool {
	s := t.Get(slot)
	if s == nil {
		return false
	}
	if s.Team == rink.TeamSpec {
		return true
	}
	return currentStep-s.LastTeamSwitch >= TeamSwitchCooldownTicks
}

// SetTeam records a team change and resets the switch cooldown.
func (t *Table) SetTeam(slot int, team rink.Team, currentStep uint32) {
	if s := t.Get(slot); s != nil {
		s.Team = team
		s.LastTeamSwitch = currentStep
	}
}

// CountOnTeam reports how many connected sessions currently sit on team.
func (t *Table) CountOnTeam(team rink.Team) int {
	n := 0
	for i := range t.slots {
		if t.slots[i].Connected && t.slots[i].Team == team {
			n++
		}
	}
	return n
}

// Connected returns every occupied slot index, in slot order.
func (t *Table) Connected() []int {
	var out []int
	for i := range t.slots {
		if t.slots[i].Connected {
			out = append(out, i)
		}
	}
	return out
}
