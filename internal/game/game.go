// Package game holds the Game value a behavior owns and mutates, plus
// the Server-facing facade methods behaviors call to move players and
// post messages.
package game

import (
	"hqmgo/internal/physics"
	"hqmgo/internal/protocol"
	"hqmgo/internal/rink"
	"hqmgo/internal/rules"
	"hqmgo/internal/session"
)

// Game is the mutable per-match state every behavior reads and writes.
// Mode-specific state (Russian's Pause/Game/GameOver machine) is kept
// separately by the behavior; Game only holds what every mode shares.
type Game struct {
	ID              uint32
	Step            uint32
	Packet          uint32
	RulesState      rules.State
	Period          uint32
	Time            uint32
	RedScore        uint32
	BlueScore       uint32
	Paused          bool
	Over            bool
	IntermissionGoal bool
}

// Server is the facade a behavior uses to affect the world outside its
// own Game value: team membership, chat, and starting a new game.
type Server struct {
	World    *physics.World
	Rink     *rink.Rink
	Sessions *session.Table
	Log      *protocol.Log
	Game     *Game
}

// MoveToTeam embodies playerSlot's session as a skater on team, spawning
// it at spawnPos/spawnRot. Any previous object for that player is freed
// first. Fails silently if the world has no free slot.
func (s *Server) MoveToTeam(playerSlot int, team rink.Team, spawnPos physics.Vec3, spawnRot physics.Mat3, hand physics.Hand) bool {
	sess := s.Sessions.Get(playerSlot)
	if sess == nil {
		return false
	}
	if sess.ObjectSlot >= 0 {
		s.World.RemoveObject(sess.ObjectSlot)
		sess.ObjectSlot = -1
	}
	slot, err := s.World.CreatePlayerObject(playerSlot, spawnPos, spawnRot, hand)
	if err != nil {
		return false
	}
	sess.ObjectSlot = slot
	s.Sessions.SetTeam(playerSlot, team, s.Game.Step)
	s.Log.Append(protocol.Message{
		Kind:        protocol.MessagePlayerUpdate,
		PlayerIndex: playerSlot,
		PlayerName:  sess.Name,
		Team:        team,
		InServer:    true,
	})
	return true
}

// MoveToSpectator frees playerSlot's world object, if any, and marks it
// TeamSpec.
func (s *Server) MoveToSpectator(playerSlot int) {
	sess := s.Sessions.Get(playerSlot)
	if sess == nil {
		return
	}
	if sess.ObjectSlot >= 0 {
		s.World.RemoveObject(sess.ObjectSlot)
		sess.ObjectSlot = -1
	}
	s.Sessions.SetTeam(playerSlot, rink.TeamSpec, s.Game.Step)
	s.Log.Append(protocol.Message{
		Kind:        protocol.MessagePlayerUpdate,
		PlayerIndex: playerSlot,
		PlayerName:  sess.Name,
		Team:        rink.TeamSpec,
		InServer:    true,
	})
}

// NewGame replaces s.Game with a fresh value carrying the next game ID.
func (s *Server) NewGame() {
	nextID := s.Game.ID + 1
	*s.Game = Game{ID: nextID, RulesState: rules.StateWarmup}
}

// AddServerChatMessage appends a system chat message (no sender).
func (s *Server) AddServerChatMessage(text string) {
	s.Log.Append(protocol.Message{Kind: protocol.MessageChat, ChatSenderIndex: -1, ChatText: text})
}

// AddGoalMessage appends a goal message crediting scorer (and, if >= 0,
// an assisting player).
func (s *Server) AddGoalMessage(team rink.Team, scorer, assist int) {
	s.Log.Append(protocol.Message{
		Kind:        protocol.MessageGoal,
		GoalTeam:    team,
		ScorerIndex: scorer,
		AssistIndex: assist,
	})
}
