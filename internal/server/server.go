// Package server drives the 100Hz tick loop and UDP transport: it owns
// the world, the session table, and the active game-mode behavior, and
// is responsible for turning client datagrams into input and snapshots
// back into datagrams.
package server

import (
	"context"
	"net"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"hqmgo/internal/behavior"
	"hqmgo/internal/config"
	"hqmgo/internal/game"
	"hqmgo/internal/logging"
	"hqmgo/internal/metrics"
	"hqmgo/internal/physics"
	"hqmgo/internal/protocol"
	"hqmgo/internal/rink"
	"hqmgo/internal/session"
)

const tickInterval = 10 * time.Millisecond

var log = logging.New("server")

// Server owns the single-threaded simulation and its UDP front door. No
// field here is touched by more than one goroutine: the socket reader
// only ever writes to inbound, and every read happens on the tick
// goroutine.
type Server struct {
	cfg      *config.Config
	world    *physics.World
	rink     *rink.Rink
	sessions *session.Table
	msgLog   *protocol.Log
	gameVal  *game.Game
	facade   *game.Server
	behavior behavior.Behavior
	metrics  *metrics.Registry

	transport *transport
	inbound   chan inboundPacket

	addrToSlot  map[string]int
	clientAddr  [session.MaxPlayers]*net.UDPAddr
	nextLogIdx  [session.MaxPlayers]int
	packetSeq   [session.MaxPlayers]uint32
	lastChecked [session.MaxPlayers]uint64
	limiters    [session.MaxPlayers]*rate.Limiter

	sentBytes uint64 // atomic; total bytes ever written to the socket
}

type inboundPacket struct {
	addr *net.UDPAddr
	data []byte
}

// New builds a Server bound to cfg's rink/physics/Russian tuning, ready
// for Run. The UDP socket is not opened until Run is called.
func New(cfg *config.Config, m *metrics.Registry) *Server {
	r := cfg.Rink.ToRink()
	w := physics.NewWorld(r, cfg.Physics.ToPhysicsConfig())
	sessions := session.NewTable()
	msgLog := &protocol.Log{}

	russian := behavior.NewRussian(behavior.RussianConfig{
		Attempts: uint32(cfg.Russian.Attempts),
		TeamMax:  cfg.Russian.TeamMax,
	})
	gameVal := russian.CreateGame()

	facade := &game.Server{World: w, Rink: r, Sessions: sessions, Log: msgLog, Game: gameVal}

	return &Server{
		cfg:        cfg,
		world:      w,
		rink:       r,
		sessions:   sessions,
		msgLog:     msgLog,
		gameVal:    gameVal,
		facade:     facade,
		behavior:   russian,
		metrics:    m,
		inbound:    make(chan inboundPacket, cfg.Network.SendChannelSize),
		addrToSlot: make(map[string]int),
	}
}

// Run opens the UDP socket and drives the tick loop until ctx is
// canceled or the socket fails.
func (s *Server) Run(ctx context.Context) error {
	t, err := listen(s.cfg.Server.Host, s.cfg.Server.Port, s.cfg.Network, s.inbound)
	if err != nil {
		return err
	}
	s.transport = t
	defer t.Close()

	log.Printf("listening on %s:%d", s.cfg.Server.Host, s.cfg.Server.Port)

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			start := time.Now()
			s.tick()
			s.metrics.TickDuration.Observe(time.Since(start).Seconds())
		}
	}
}

func (s *Server) tick() {
	s.drainInbound()
	s.checkDisconnects()

	s.behavior.BeforeTick(s.facade)
	events := s.world.Step()
	s.behavior.AfterTick(s.facade, events)

	for _, ev := range events {
		s.metrics.Events.WithLabelValues(ev.Kind.String()).Inc()
	}

	s.gameVal.Step++
	s.gameVal.Packet++
	s.metrics.ConnectedPlayers.Set(float64(len(s.sessions.Connected())))

	s.broadcast()
}

// drainInbound processes every packet queued by the socket reader since
// the last tick, without blocking if none arrived.
func (s *Server) drainInbound() {
	for {
		select {
		case pkt := <-s.inbound:
			s.handlePacket(pkt)
		default:
			return
		}
	}
}

func (s *Server) handlePacket(pkt inboundPacket) {
	msg, err := protocol.DecodeClient(pkt.data)
	if err != nil {
		s.metrics.DroppedPackets.Inc()
		return
	}

	key := pkt.addr.String()
	slot, known := s.addrToSlot[key]

	if known && !s.limiters[slot].Allow() {
		s.metrics.DroppedPackets.Inc()
		return
	}

	switch msg.Type {
	case protocol.ClientJoin:
		if known {
			return
		}
		slot = s.sessions.Connect(msg.Name, key)
		if slot < 0 {
			return
		}
		s.addrToSlot[key] = slot
		s.clientAddr[slot] = pkt.addr
		s.nextLogIdx[slot] = s.msgLog.Len()
		s.limiters[slot] = rate.NewLimiter(rate.Limit(s.cfg.Network.RateLimitPerSecond), s.cfg.Network.RateLimitBurst)
		sess := s.sessions.Get(slot)
		sess.LastInputStep = s.gameVal.Step
		s.facade.AddServerChatMessage(sess.Name + " joined")

	case protocol.ClientInput:
		if !known {
			return
		}
		sess := s.sessions.Get(slot)
		sess.LastKeys = msg.Input.Keys
		sess.LastInputStep = s.gameVal.Step
		if sess.ObjectSlot >= 0 {
			if obj := &s.world.Objects[sess.ObjectSlot]; obj.Skater != nil {
				obj.Skater.Input = msg.Input
			}
		}

	case protocol.ClientChat:
		if !known {
			return
		}
		s.handleChat(slot, msg.Text)

	case protocol.ClientExit:
		if !known {
			return
		}
		s.disconnect(slot)
	}
}

func (s *Server) handleChat(slot int, text string) {
	if strings.HasPrefix(text, "/admin ") {
		pass := strings.TrimPrefix(text, "/admin ")
		if s.cfg.Server.AdminPassword != "" && pass == s.cfg.Server.AdminPassword {
			if sess := s.sessions.Get(slot); sess != nil {
				sess.Admin = true
				s.facade.AddServerChatMessage(sess.Name + " is now admin")
			}
		}
		return
	}
	if strings.HasPrefix(text, "/") {
		fields := strings.SplitN(strings.TrimPrefix(text, "/"), " ", 2)
		cmd := fields[0]
		arg := ""
		if len(fields) > 1 {
			arg = fields[1]
		}
		s.behavior.HandleCommand(s.facade, cmd, arg, slot)
		return
	}
	sess := s.sessions.Get(slot)
	if sess == nil {
		return
	}
	s.msgLog.Append(protocol.Message{Kind: protocol.MessageChat, ChatSenderIndex: slot, ChatText: text})
}

func (s *Server) checkDisconnects() {
	timeout := uint32(s.cfg.Network.DisconnectTimeoutTicks)
	for _, slot := range s.sessions.Connected() {
		sess := s.sessions.Get(slot)
		if s.gameVal.Step-sess.LastInputStep > timeout {
			s.disconnect(slot)
		}
	}
}

func (s *Server) disconnect(slot int) {
	sess := s.sessions.Get(slot)
	if sess == nil {
		return
	}
	if sess.ObjectSlot >= 0 {
		s.world.RemoveObject(sess.ObjectSlot)
	}
	delete(s.addrToSlot, sess.Address)
	s.clientAddr[slot] = nil
	s.limiters[slot] = nil
	s.facade.AddServerChatMessage(sess.Name + " disconnected")
	s.sessions.Disconnect(slot)
}

// broadcast encodes and sends one snapshot per connected client,
// windowing the message log from each client's own cursor. The cursor
// advances as soon as a window is sent; client acknowledgements do not
// move it.
func (s *Server) broadcast() {
	buf := make([]byte, 2048)
	for _, slot := range s.sessions.Connected() {
		addr := s.clientAddr[slot]
		if addr == nil {
			continue
		}
		msgs, next := s.msgLog.Window(s.nextLogIdx[slot])
		s.nextLogIdx[slot] = next

		s.packetSeq[slot]++
		stateNum := s.gameVal.RulesState.UpdateNum()
		snap := protocol.Snapshot{
			GameID:     s.gameVal.ID,
			GameStep:   s.gameVal.Step,
			PacketSeq:  s.packetSeq[slot],
			State:      stateNum,
			RedScore:   uint8(s.gameVal.RedScore),
			BlueScore:  uint8(s.gameVal.BlueScore),
			RulesNum:   uint32(stateNum),
			World:      s.world,
			QueuedMsgs: msgs,
		}
		encoded, err := protocol.EncodeSnapshot(buf, snap)
		if err != nil {
			continue
		}

		sum := protocol.Checksum(encoded)
		if sum == s.lastChecked[slot] {
			continue
		}
		s.lastChecked[slot] = sum

		s.transport.Send(addr, encoded)
		s.metrics.SnapshotBytes.Add(float64(len(encoded)))
		atomic.AddUint64(&s.sentBytes, uint64(len(encoded)))
	}
}

// TotalBytesSent reports the cumulative snapshot bytes written to the
// socket since the server started.
func (s *Server) TotalBytesSent() uint64 {
	return atomic.LoadUint64(&s.sentBytes)
}
