package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/limaJavier/uctp/internal/metrics"
	"github.com/limaJavier/uctp/internal/server"
)

func CommandServe(cmd *cobra.Command, args []string) {
	settings, logger := loadConfig(cmd, args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.New(settings, logger, metrics.New()).Listen(ctx, settings.ListenAddr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
