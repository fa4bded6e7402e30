package behavior

import (
	"hqmgo/internal/event"
	"hqmgo/internal/game"
	"hqmgo/internal/physics"
	"hqmgo/internal/rink"
	"hqmgo/internal/rotation"
	"hqmgo/internal/rules"
)

// russianState is Russian mode's top-level state machine.
type russianState uint8

const (
	russianPause russianState = iota
	russianGame
	russianGameOver
)

const (
	// pauseTicks is the countdown before a new game starts once both
	// teams have at least one player.
	pauseTicks = 1000

	// goalBreakTicks is how long the puck sits dead after a goal before
	// the next attempt is placed.
	goalBreakTicks = 300

	// gameOverBreakTicks is how long GameOver holds before a new game
	// is started.
	gameOverBreakTicks = 500

	// attemptTicks bounds a single attempt's clock; reaching zero hands
	// the puck to the other team without a goal.
	attemptTicks = 2000

	// lineKPush and lineFriction are the line-constraint contact's
	// push coefficient and friction, distinct from (and much softer
	// than) ordinary skater-skater contact.
	lineKPush    = 0.03125
	lineFriction = 0.01
)

// RussianConfig tunes one Russian-mode match.
type RussianConfig struct {
	// Attempts is how many rounds each team gets before checkEnding
	// forces a decision; the team with the higher score when attempts
	// run out wins.
	Attempts uint32
	// TeamMax caps how many players MoveToTeam will seat per side.
	TeamMax int
}

// DefaultRussianConfig returns a 5-round, 10-a-side match.
func DefaultRussianConfig() RussianConfig {
	return RussianConfig{Attempts: 5, TeamMax: 10}
}

// Russian is the elimination shootout mode: teams alternate lone
// attempts on an empty net, and whichever team can no longer catch up
// on remaining attempts loses.
type Russian struct {
	Config RussianConfig

	state   russianState
	timer   uint32 // countdown shared by Pause/goal-break/GameOver, semantics depend on state
	inZone  rink.Team
	attempt rink.Team // team currently credited with the live attempt
	round   uint32
}

// NewRussian returns a fresh Russian-mode behavior, starting in Pause.
func NewRussian(cfg RussianConfig) *Russian {
	return &Russian{Config: cfg, inZone: rink.TeamSpec, attempt: rink.TeamRed}
}

// CreateGame returns a zeroed Game; Russian keeps its own state
// separately and resets it in resetMatch, not here.
func (r *Russian) CreateGame() *game.Game {
	return &game.Game{RulesState: rules.StateWarmup}
}

// NumberOfPlayers reports the configured per-team cap, doubled for both
// sides.
func (r *Russian) NumberOfPlayers() uint32 {
	return uint32(r.Config.TeamMax * 2)
}

// BeforeTick drives the state machine's clock and processes any pending
// team-join/spectate key presses.
func (r *Russian) BeforeTick(srv *game.Server) {
	r.processTeamRequests(srv)

	switch r.state {
	case russianPause:
		r.tickPause(srv)
	case russianGame:
		r.tickGame(srv)
	case russianGameOver:
		r.tickGameOver(srv)
	}
}

// AfterTick reacts to the events physics raised this tick: goals, and
// the puck crossing into an offensive zone.
func (r *Russian) AfterTick(srv *game.Server, events []event.Event) {
	if r.state != russianGame {
		return
	}
	for _, ev := range events {
		switch ev.Kind {
		case event.KindPuckEnteredNet:
			r.onGoal(srv, ev.Team)
		case event.KindPuckEnteredOffensiveZone:
			r.fixStatus(srv, ev.Team.Other())
		}
	}
	r.applyLineConstraints(srv)
}

// HandleCommand answers the admin-facing reset/resetgame commands; a
// non-admin issuing one gets a chat denial, and anything else is
// silently ignored.
func (r *Russian) HandleCommand(srv *game.Server, cmd, arg string, playerSlot int) {
	sess := srv.Sessions.Get(playerSlot)
	if sess == nil {
		return
	}
	switch cmd {
	case "reset", "resetgame":
		if !sess.Admin {
			srv.AddServerChatMessage("permission denied")
			return
		}
		r.resetMatch(srv)
		srv.AddServerChatMessage("game reset")
	}
}

// processTeamRequests embodies or benches players based on their most
// recent input's join/spectate key bits.
func (r *Russian) processTeamRequests(srv *game.Server) {
	for _, slot := range srv.Sessions.Connected() {
		sess := srv.Sessions.Get(slot)
		switch {
		case sess.LastKeys&physics.KeyJoinRed != 0:
			r.tryJoin(srv, slot, rink.TeamRed)
		case sess.LastKeys&physics.KeyJoinBlue != 0:
			r.tryJoin(srv, slot, rink.TeamBlue)
		case sess.LastKeys&physics.KeySpectate != 0:
			srv.MoveToSpectator(slot)
		}
	}
}

func (r *Russian) tryJoin(srv *game.Server, slot int, team rink.Team) {
	if !srv.Sessions.CanSwitchTeam(slot, srv.Game.Step) {
		return
	}
	if srv.Sessions.CountOnTeam(team) >= r.Config.TeamMax {
		return
	}
	pos, rot := r.benchSpawn(srv, team, slot)
	srv.MoveToTeam(slot, team, pos, rot, physics.HandRight)
}

// benchSpawn places a newly-joined player along their own blue line,
// facing center ice, clear of the single live attempt in the slot
// nearest their net.
func (r *Russian) benchSpawn(srv *game.Server, team rink.Team, slot int) (physics.Vec3, physics.Mat3) {
	z := srv.Rink.DefensiveLineZ(team)
	x := srv.Rink.Width/2 + float32(slot%4-2)
	pos := physics.Vec3{x, 0, z}
	if team == rink.TeamBlue {
		return pos, rotation.Identity3()
	}
	// Red faces the opposite way down the ice; rotate 180 degrees
	// about Y.
	return pos, physics.Mat3{
		physics.Vec3{-1, 0, 0},
		physics.Vec3{0, 1, 0},
		physics.Vec3{0, 0, -1},
	}
}

// tickPause waits for both teams to be non-empty, then counts down
// pauseTicks before starting the first attempt.
func (r *Russian) tickPause(srv *game.Server) {
	if srv.Sessions.CountOnTeam(rink.TeamRed) == 0 || srv.Sessions.CountOnTeam(rink.TeamBlue) == 0 {
		r.timer = 0
		return
	}
	if r.timer == 0 {
		r.timer = pauseTicks
		return
	}
	r.timer--
	if r.timer == 0 {
		r.startMatch(srv)
	}
}

// tickGame advances the live attempt's clock, or the post-goal dead
// period, and hands the puck over on expiry.
func (r *Russian) tickGame(srv *game.Server) {
	if r.timer > 0 {
		r.timer--
		if r.timer == 0 {
			r.placeAttempt(srv, r.attempt)
		}
		return
	}
	if srv.Game.Time == 0 {
		r.checkEnding(srv)
		if r.state != russianGame {
			return
		}
		r.placeAttempt(srv, r.attempt.Other())
		return
	}
	srv.Game.Time--
}

func (r *Russian) tickGameOver(srv *game.Server) {
	if r.timer == 0 {
		return
	}
	r.timer--
	if r.timer == 0 {
		srv.NewGame()
		r.resetMatch(srv)
	}
}

// startMatch begins the first attempt, Red first.
func (r *Russian) startMatch(srv *game.Server) {
	srv.Game.RulesState = rules.StatePlaying
	r.state = russianGame
	r.round = 0
	r.inZone = rink.TeamSpec
	r.placeAttempt(srv, rink.TeamRed)
}

// placeAttempt clears any live puck and drops a fresh one for team's
// attempt, at (width/2, 0.5, 55) for Red, mirrored down the ice for
// Blue.
func (r *Russian) placeAttempt(srv *game.Server, team rink.Team) {
	for _, p := range srv.World.Pucks() {
		srv.World.RemoveObject(p.Slot)
	}
	z := float32(55)
	if team == rink.TeamBlue {
		z = srv.Rink.Length - 55
	}
	srv.World.CreatePuckObject(physics.Vec3{srv.Rink.Width / 2, 0.5, z})

	r.attempt = team
	r.timer = 0
	srv.Game.Time = attemptTicks
	srv.Game.IntermissionGoal = false
}

// fixStatus records team as the next attacker. Callers pass the team on
// the receiving end of the crossing that just happened: a puck entering
// an offensive zone hands the attempt to the other side, so
// AfterTick inverts ev.Team before calling in. round advances every
// time the attempt comes back around to Red, completing a full cycle.
func (r *Russian) fixStatus(srv *game.Server, team rink.Team) {
	if team == rink.TeamRed && r.inZone != rink.TeamRed {
		r.round++
	}
	r.inZone = team
	r.attempt = team
	r.checkEnding(srv)
}

// onGoal credits the scoring team, starts the post-goal dead period,
// and checks whether the match is decided.
func (r *Russian) onGoal(srv *game.Server, team rink.Team) {
	if srv.Game.IntermissionGoal {
		return
	}
	srv.Game.IntermissionGoal = true

	scorer := -1
	for _, p := range srv.World.Pucks() {
		scorer = p.LastTouchedBy()
	}

	switch team {
	case rink.TeamRed:
		srv.Game.RedScore++
	case rink.TeamBlue:
		srv.Game.BlueScore++
	}
	srv.AddGoalMessage(team, scorer, -1)

	r.timer = goalBreakTicks
	r.checkEnding(srv)
}

// checkEnding ends the match once the trailing team cannot catch up
// even by winning every remaining round.
func (r *Russian) checkEnding(srv *game.Server) {
	if r.Config.Attempts == 0 || r.round >= r.Config.Attempts {
		r.finishMatch(srv)
		return
	}
	remaining := r.Config.Attempts - r.round
	red, blue := srv.Game.RedScore, srv.Game.BlueScore
	if blue+remaining < red || red+remaining < blue {
		r.finishMatch(srv)
	}
}

func (r *Russian) finishMatch(srv *game.Server) {
	srv.Game.Over = true
	srv.Game.RulesState = rules.StateGameOver
	r.state = russianGameOver
	r.timer = gameOverBreakTicks

	winner := "Red"
	if srv.Game.BlueScore > srv.Game.RedScore {
		winner = "Blue"
	} else if srv.Game.BlueScore == srv.Game.RedScore {
		winner = "nobody"
	}
	srv.AddServerChatMessage(winner + " wins")
}

// resetMatch returns Russian to Pause with a clean scoreboard, used both
// after GameOver's hold and on an admin reset command.
func (r *Russian) resetMatch(srv *game.Server) {
	r.state = russianPause
	r.timer = 0
	r.round = 0
	r.inZone = rink.TeamSpec
	r.attempt = rink.TeamRed
	for _, p := range srv.World.Pucks() {
		srv.World.RemoveObject(p.Slot)
	}
	srv.Game.RulesState = rules.StateWarmup
	srv.Game.RedScore = 0
	srv.Game.BlueScore = 0
	srv.Game.Over = false
	srv.Game.IntermissionGoal = false
}

// applyLineConstraints pushes any skater standing on the wrong side of
// their own blue line back across it, using the same push/damp contact
// model as rink collision but at the much softer line-constraint
// coefficients.
func (r *Russian) applyLineConstraints(srv *game.Server) {
	for _, s := range srv.World.Skaters() {
		sess := srv.Sessions.Get(s.PlayerSlot)
		if sess == nil || sess.Team == rink.TeamSpec {
			continue
		}
		lineZ := srv.Rink.DefensiveLineZ(sess.Team)
		for i := range s.CollisionBalls {
			ball := &s.CollisionBalls[i]
			var depth float32
			var normal physics.Vec3
			if sess.Team == rink.TeamRed {
				// Red's net sits at the high-z end; crossing ahead of
				// its own blue line (lower z) gets pushed back toward
				// its net.
				depth = lineZ - ball.Pos[2]
				normal = physics.Vec3{0, 0, 1}
			} else {
				// Blue's net sits at the low-z end; crossing ahead of
				// its own blue line (higher z) gets pushed back toward
				// its net.
				depth = ball.Pos[2] - lineZ
				normal = physics.Vec3{0, 0, -1}
			}
			if depth <= 0 {
				continue
			}
			ball.Pos = rotation.Add(ball.Pos, rotation.Scale(normal, depth))
			impulse := physics.PushImpulse(s.Body.LinearVelocity, normal, depth, lineKPush, lineFriction)
			s.Body.LinearVelocity = rotation.Add(s.Body.LinearVelocity, impulse)
			s.Body.LinearVelocity = rotation.Add(s.Body.LinearVelocity, physics.LimitFriction(s.Body.LinearVelocity, normal, lineFriction))
		}
	}
}

