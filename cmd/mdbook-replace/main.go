package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log := slog.New(slog.NewTextHandler(os.Stderr, nil))
		log.Error("mdbook-replace failed", "error", err)
		stop()
		os.Exit(1)
	}
}
