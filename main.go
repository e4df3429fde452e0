package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"Wheelcalc/internal/config"
	"Wheelcalc/internal/logging"
	"Wheelcalc/internal/server"

	"go.uber.org/zap"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	if err := server.Run(ctx, cfg, log); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
