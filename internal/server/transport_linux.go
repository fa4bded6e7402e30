//go:build linux

package server

import (
	"net"

	"golang.org/x/sys/unix"
)

// tuneSocketBuffers sets SO_RCVBUF/SO_SNDBUF to the configured sizes
// with a direct setsockopt on the socket; a size of zero or less leaves
// that buffer alone. The kernel still caps the values at
// net.core.rmem_max/wmem_max.
func tuneSocketBuffers(conn *net.UDPConn, readBytes, writeBytes int) {
	raw, err := conn.SyscallConn()
	if err != nil {
		log.Printf("socket buffer tuning skipped: %v", err)
		return
	}

	ctrlErr := raw.Control(func(fd uintptr) {
		if readBytes > 0 {
			if err := unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_RCVBUF, readBytes); err != nil {
				log.Printf("SO_RCVBUF: %v", err)
			}
		}
		if writeBytes > 0 {
			if err := unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_SNDBUF, writeBytes); err != nil {
				log.Printf("SO_SNDBUF: %v", err)
			}
		}
	})
	if ctrlErr != nil {
		log.Printf("socket buffer tuning: %v", ctrlErr)
	}
}
