package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Volubles/gridmenu/internal/config"
	"github.com/Volubles/gridmenu/internal/engine/sched"
	"github.com/Volubles/gridmenu/internal/engine/session"
	"github.com/Volubles/gridmenu/internal/host"
	"github.com/Volubles/gridmenu/internal/logging"
	"github.com/Volubles/gridmenu/internal/monitoring"
	"github.com/Volubles/gridmenu/internal/server"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	port := flag.String("port", "", "admin server port (overrides environment)")
	quantum := flag.Duration("quantum", sched.DefaultQuantum, "scheduler tick period")
	flag.Parse()

	cfg := config.LoadOrDefault()
	if *port != "" {
		cfg.Server.Port = *port
	}

	log, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
		OutputPaths: []string{"stdout"},
	})
	if err != nil {
		log = logging.NewDefault()
		log.Warn("invalid log config, using defaults", zap.Error(err))
	}
	defer func() { _ = log.Sync() }()

	promReg := prometheus.NewRegistry()
	metrics := monitoring.NewMetrics(promReg)

	scheduler := sched.NewLoop(*quantum, log)
	defer scheduler.Close()

	registry := session.NewRegistry(host.NewMemory(), scheduler, session.Config{
		DebounceWindow: cfg.Engine.DebounceWindow,
		GraceQuanta:    cfg.Engine.GraceQuanta,
		Logger:         log,
		Metrics:        metrics,
	})

	srv := server.New(cfg, registry, promReg, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("gridmenu starting",
		zap.String("port", cfg.Server.Port),
		zap.Duration("quantum", *quantum),
		zap.Duration("debounce_window", cfg.Engine.DebounceWindow),
	)

	if err := srv.Run(ctx); err != nil {
		log.Error("server exited", zap.Error(err))
		os.Exit(1)
	}

	// Tear every session down so live views get their close sweep before
	// the scheduler stops.
	registry.Range(func(s *session.Session) bool {
		registry.Remove(s.Owner())
		return true
	})
	time.Sleep(2 * *quantum)
	log.Info("gridmenu stopped")
}
