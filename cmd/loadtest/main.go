package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"hqmgo/internal/logging"
	"hqmgo/internal/physics"
	"hqmgo/internal/protocol"
)

var log = logging.New("loadtest")

func main() {
	addr := flag.String("addr", "127.0.0.1:27585", "server UDP address")
	numClients := flag.Int("clients", 1000, "number of simulated clients")
	duration := flag.Duration("duration", 30*time.Second, "how long to run")
	flag.Parse()

	log.Printf("starting load test: %d clients for %v against %s", *numClients, *duration, *addr)

	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	var connectCount, errorCount, messageCount int64
	var wg sync.WaitGroup

	for i := 0; i < *numClients; i++ {
		wg.Add(1)
		go func(clientID int) {
			defer wg.Done()
			if err := runClient(ctx, *addr, clientID, &connectCount, &messageCount); err != nil {
				atomic.AddInt64(&errorCount, 1)
				log.Printf("client %d error: %v", clientID, err)
			}
		}(i)

		if i%50 == 0 {
			time.Sleep(10 * time.Millisecond)
		}
	}

	go func() {
		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				log.Printf("connected=%d errors=%d messages=%d",
					atomic.LoadInt64(&connectCount), atomic.LoadInt64(&errorCount), atomic.LoadInt64(&messageCount))
			}
		}
	}()

	wg.Wait()
	log.Printf("load test completed: %d connected, %d errors, %d messages",
		atomic.LoadInt64(&connectCount), atomic.LoadInt64(&errorCount), atomic.LoadInt64(&messageCount))
}

// runClient joins, then sends an input packet at 100Hz until ctx expires,
// draining whatever the server sends back so its snapshots don't pile
// up unread on the socket.
func runClient(ctx context.Context, addr string, clientID int, connectCount, messageCount *int64) error {
	raddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return err
	}
	conn, err := net.DialUDP("udp", nil, raddr)
	if err != nil {
		return fmt.Errorf("client %d dial: %w", clientID, err)
	}
	defer conn.Close()

	name := fmt.Sprintf("bot%d", clientID)
	if _, err := conn.Write(protocol.EncodeJoin(name)); err != nil {
		return fmt.Errorf("client %d join: %w", clientID, err)
	}
	atomic.AddInt64(connectCount, 1)

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	var seq uint32
	readBuf := make([]byte, 2048)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			seq++
			in := randomInput()
			if _, err := conn.Write(protocol.EncodeInput(0, 0, seq, in, 0)); err != nil {
				return fmt.Errorf("client %d write: %w", clientID, err)
			}
			conn.SetReadDeadline(time.Now().Add(5 * time.Millisecond))
			if n, err := conn.Read(readBuf); err == nil && n > 0 {
				atomic.AddInt64(messageCount, 1)
			}
		}
	}
}

// randomInput produces plausible skater input: bounded turn/forward
// values and an occasional jump or team-join key press.
func randomInput() physics.Input {
	in := physics.Input{
		Turn: rand.Float32()*2 - 1,
		Fwbw: rand.Float32()*2 - 1,
	}
	switch rand.Intn(20) {
	case 0:
		in.Keys = physics.KeyJump
	case 1:
		in.Keys = physics.KeyJoinRed
	case 2:
		in.Keys = physics.KeyJoinBlue
	}
	return in
}
