//go:build !linux

package server

import "net"

// tuneSocketBuffers falls back to the portable stdlib setters outside
// Linux, where SO_RCVBUF/SO_SNDBUF tuning via golang.org/x/sys/unix
// isn't available.
func tuneSocketBuffers(conn *net.UDPConn, readBytes, writeBytes int) {
	if readBytes > 0 {
		_ = conn.SetReadBuffer(readBytes)
	}
	if writeBytes > 0 {
		_ = conn.SetWriteBuffer(writeBytes)
	}
}
