package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"squadtactics/internal/config"
	"squadtactics/internal/logging"
	"squadtactics/internal/server"
	"squadtactics/internal/session"
)

func main() {
	var addr, cfgDir, level string
	var pace time.Duration
	var maxBattles int
	flag.StringVar(&addr, "addr", ":8080", "listen address")
	flag.StringVar(&cfgDir, "config", "assets", "config dir (empty for the built-in encounter)")
	flag.StringVar(&level, "level", "info", "log level")
	flag.DurationVar(&pace, "pace", 400*time.Millisecond, "delay between enemy steps")
	flag.IntVar(&maxBattles, "max-battles", 256, "live battle cap (0 for none)")
	flag.Parse()

	log, err := logging.New(level, false)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer func() { _ = log.Sync() }()

	encounter := config.Default
	if cfgDir != "" {
		// Checked once at startup; each new battle re-reads the directory.
		if _, err := config.LoadAll(cfgDir); err != nil {
			log.Fatal("load config", zap.String("dir", cfgDir), zap.Error(err))
		}
		encounter = func() *config.Encounter {
			enc, err := config.LoadAll(cfgDir)
			if err != nil {
				log.Warn("reload config failed, using built-in encounter", zap.Error(err))
				return config.Default()
			}
			return enc
		}
	}

	srv := &server.Server{
		Store:     session.NewMemoryStore[*server.Match](maxBattles),
		Encounter: encounter,
		Pace:      pace,
		Logger:    log,
	}
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	log.Info("listening", zap.String("addr", addr))
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("serve", zap.Error(err))
	}
}
