package server

import (
	"net"

	"hqmgo/internal/config"
)

// transport owns the UDP socket: one goroutine reads datagrams into
// inbound, and Send writes datagrams back out. Nothing here touches
// simulation state directly.
type transport struct {
	conn    *net.UDPConn
	inbound chan<- inboundPacket
	done    chan struct{}
}

// listen opens a UDP socket on host:port and starts the reader
// goroutine feeding inbound. Socket buffers are sized per cfg where the
// platform supports it (see transport_linux.go).
func listen(host string, port int, cfg config.NetworkConfig, inbound chan<- inboundPacket) (*transport, error) {
	addr := &net.UDPAddr{IP: net.ParseIP(host), Port: port}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, err
	}

	tuneSocketBuffers(conn, cfg.ReadBufferBytes, cfg.WriteBufferBytes)

	t := &transport{conn: conn, inbound: inbound, done: make(chan struct{})}
	go t.readLoop()
	return t, nil
}

// readLoop copies each datagram off the socket and hands it to the tick
// goroutine via inbound. A fresh buffer backs each packet so the tick
// goroutine can hold onto msg.data past the next read.
func (t *transport) readLoop() {
	buf := make([]byte, 2048)
	for {
		n, addr, err := t.conn.ReadFromUDP(buf)
		if err != nil {
			select {
			case <-t.done:
				return
			default:
				continue
			}
		}
		data := make([]byte, n)
		copy(data, buf[:n])

		select {
		case t.inbound <- inboundPacket{addr: addr, data: data}:
		default:
			// Tick goroutine hasn't drained in time; drop rather than
			// block the reader and fall further behind.
		}
	}
}

// Send writes one datagram to addr. Errors are not fatal: a failed send
// to one client must never stop the broadcast to the rest.
func (t *transport) Send(addr *net.UDPAddr, data []byte) {
	_, _ = t.conn.WriteToUDP(data, addr)
}

// Close stops the reader goroutine and releases the socket.
func (t *transport) Close() error {
	close(t.done)
	return t.conn.Close()
}
