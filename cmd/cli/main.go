package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/loginkeeper/internal/cli"
	"github.com/dmitrijs2005/loginkeeper/internal/config"
)

func main() {
	cfg := config.LoadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := cli.NewApp(cfg)
	if err != nil {
		log.Fatalf("error initializing console: %v", err)
	}

	app.Run(ctx)
}
