package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jask/adminconsole/internal/config"
	"github.com/jask/adminconsole/internal/logger"
	"github.com/jask/adminconsole/internal/stubapi"
	"github.com/jask/adminconsole/internal/testdata"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	boot := logger.New("info", os.Stderr)
	cfg, err := config.Load()
	exitOnError("config", err, boot)

	addr := flag.String("addr", cfg.Stub.Addr, "listen address")
	count := flag.Int("users", 0, "serve N generated users instead of the default seed")
	seed := flag.Uint64("seed", 1, "generator seed used with -users")
	flag.Parse()

	log := logger.New(cfg.Log.Level, os.Stderr)
	records := stubapi.DefaultSeed()
	if *count > 0 {
		records = testdata.Users(*count, *seed)
	}
	srv := &http.Server{
		Addr:              *addr,
		Handler:           stubapi.New(log, records...).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("stub users api listening", "addr", *addr, "users", len(records))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		exitOnError("server stopped", err, log)
	}
}
