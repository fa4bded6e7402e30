// Package behavior defines the pluggable game-mode contract, and, in
// russian.go, the concrete Russian elimination mode.
package behavior

import (
	"hqmgo/internal/event"
	"hqmgo/internal/game"
)

// Behavior is the pluggable game-mode contract every mode implements.
type Behavior interface {
	BeforeTick(srv *game.Server)
	AfterTick(srv *game.Server, events []event.Event)
	HandleCommand(srv *game.Server, cmd, arg string, playerSlot int)
	CreateGame() *game.Game
	NumberOfPlayers() uint32
}
