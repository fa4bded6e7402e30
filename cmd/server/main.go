package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"hqmgo/internal/config"
	"hqmgo/internal/logging"
	"hqmgo/internal/metrics"
	"hqmgo/internal/server"
)

var log = logging.New("main")

func main() {
	optimizeRuntime()

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	runID := uuid.New().String()
	log.Printf("starting hqmgo server, run=%s name=%q bind=%s:%d", runID, cfg.Server.Name, cfg.Server.Host, cfg.Server.Port)

	reg := metrics.New()
	go serveMetrics(reg)

	srv := server.New(cfg, reg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		log.Fatalf("server: %v", err)
	}
	log.Printf("shutting down, sent %s total", humanize.Bytes(srv.TotalBytesSent()))
}

func serveMetrics(reg *metrics.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", reg.Handler())
	log.Printf("metrics listening on :9090/metrics")
	if err := http.ListenAndServe(":9090", mux); err != nil {
		log.Printf("metrics server stopped: %v", err)
	}
}

func optimizeRuntime() {
	if os.Getenv("GOMAXPROCS") == "" {
		runtime.GOMAXPROCS(runtime.NumCPU())
	}
	if os.Getenv("GOGC") == "" {
		os.Setenv("GOGC", "400")
	}
	if memLimit := os.Getenv("GOMEMLIMIT"); memLimit != "" {
		if limit, err := strconv.Atoi(memLimit); err == nil {
			log.Printf("memory limit set to %d MB", limit/1024/1024)
		}
	}
	log.Printf("runtime: GOMAXPROCS=%d GOGC=%s", runtime.GOMAXPROCS(0), os.Getenv("GOGC"))
}
