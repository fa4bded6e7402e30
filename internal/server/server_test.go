package server

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hqmgo/internal/config"
	"hqmgo/internal/metrics"
	"hqmgo/internal/physics"
	"hqmgo/internal/protocol"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 0, Name: "test", AdminPassword: "hunter2"},
		Network: config.NetworkConfig{
			SendChannelSize:        64,
			DisconnectTimeoutTicks: 500,
			RateLimitPerSecond:     1000,
			RateLimitBurst:         1000,
		},
		Physics: config.PhysicsConfig{
			Gravity: float64(physics.DefaultConfig().Gravity), RinkKPush: 0.25, RinkKDamp: 0.5,
			RinkFriction: 0.3, SkaterKPush: 0.125, PuckRinkKPush: 0.25, PuckRinkKDamp: 0.5,
			PuckRinkFriction: 0.05, StickSpringK: 0.125, StickDampK: 0.5,
		},
		Rink:    config.RinkConfig{Width: 30, Length: 61, CornerRadius: 8.5},
		Russian: config.RussianConfig{Attempts: 5, TeamMax: 10},
	}
}

func testAddr(port int) *net.UDPAddr {
	return &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: port}
}

func TestHandlePacketJoinAssignsSlot(t *testing.T) {
	s := New(testConfig(), metrics.New())
	addr := testAddr(40001)

	s.handlePacket(inboundPacket{addr: addr, data: protocol.EncodeJoin("skater")})

	slot, known := s.addrToSlot[addr.String()]
	require.True(t, known)
	sess := s.sessions.Get(slot)
	require.NotNil(t, sess)
	assert.Equal(t, "skater", sess.Name)
	assert.NotNil(t, s.limiters[slot])
}

func TestHandlePacketJoinTwiceIgnoresSecond(t *testing.T) {
	s := New(testConfig(), metrics.New())
	addr := testAddr(40002)

	s.handlePacket(inboundPacket{addr: addr, data: protocol.EncodeJoin("a")})
	s.handlePacket(inboundPacket{addr: addr, data: protocol.EncodeJoin("b")})

	assert.Len(t, s.sessions.Connected(), 1)
}

func TestHandlePacketInputUpdatesSession(t *testing.T) {
	s := New(testConfig(), metrics.New())
	addr := testAddr(40003)
	s.handlePacket(inboundPacket{addr: addr, data: protocol.EncodeJoin("skater")})
	slot := s.addrToSlot[addr.String()]

	in := physics.Input{Keys: physics.KeyJump}
	s.handlePacket(inboundPacket{addr: addr, data: protocol.EncodeInput(0, 0, 1, in, 0)})

	sess := s.sessions.Get(slot)
	assert.Equal(t, physics.KeyJump, sess.LastKeys)
}

func TestHandlePacketUnknownAddressIgnoredForInput(t *testing.T) {
	s := New(testConfig(), metrics.New())
	addr := testAddr(40004)

	s.handlePacket(inboundPacket{addr: addr, data: protocol.EncodeInput(0, 0, 1, physics.Input{}, 0)})

	assert.Empty(t, s.sessions.Connected())
}

func TestHandleChatAdminGrantsAdminOnMatchingPassword(t *testing.T) {
	s := New(testConfig(), metrics.New())
	addr := testAddr(40005)
	s.handlePacket(inboundPacket{addr: addr, data: protocol.EncodeJoin("skater")})
	slot := s.addrToSlot[addr.String()]

	s.handleChat(slot, "/admin wrongpass")
	assert.False(t, s.sessions.Get(slot).Admin)

	s.handleChat(slot, "/admin hunter2")
	assert.True(t, s.sessions.Get(slot).Admin)
}

func TestHandleChatPlainTextAppendsLogEntry(t *testing.T) {
	s := New(testConfig(), metrics.New())
	addr := testAddr(40006)
	s.handlePacket(inboundPacket{addr: addr, data: protocol.EncodeJoin("skater")})
	slot := s.addrToSlot[addr.String()]

	before := s.msgLog.Len()
	s.handleChat(slot, "hello everyone")
	assert.Equal(t, before+1, s.msgLog.Len())
}

func TestDisconnectFreesSlotAndAddress(t *testing.T) {
	s := New(testConfig(), metrics.New())
	addr := testAddr(40007)
	s.handlePacket(inboundPacket{addr: addr, data: protocol.EncodeJoin("skater")})
	slot := s.addrToSlot[addr.String()]

	s.disconnect(slot)

	_, known := s.addrToSlot[addr.String()]
	assert.False(t, known)
	assert.False(t, s.sessions.Get(slot).Connected)
	assert.Nil(t, s.clientAddr[slot])
}

func TestCheckDisconnectsDropsStaleSession(t *testing.T) {
	s := New(testConfig(), metrics.New())
	addr := testAddr(40008)
	s.handlePacket(inboundPacket{addr: addr, data: protocol.EncodeJoin("skater")})
	slot := s.addrToSlot[addr.String()]

	s.gameVal.Step = uint32(s.cfg.Network.DisconnectTimeoutTicks) + 1
	s.checkDisconnects()

	assert.False(t, s.sessions.Get(slot).Connected)
}

func TestBroadcastSkipsClientWithoutAddress(t *testing.T) {
	s := New(testConfig(), metrics.New())
	// No joined clients; broadcast over an empty connected list must not panic.
	s.broadcast()
}

func TestTickAdvancesStepAndPacket(t *testing.T) {
	s := New(testConfig(), metrics.New())
	startStep := s.gameVal.Step
	s.tick()
	assert.Equal(t, startStep+1, s.gameVal.Step)
	assert.Equal(t, uint32(1), s.gameVal.Packet)
}
