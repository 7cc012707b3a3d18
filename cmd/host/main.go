package main

import (
	"log"

	"github.com/dmitrijs2005/loginkeeper/internal/config"
	"github.com/dmitrijs2005/loginkeeper/internal/host"
)

func main() {
	cfg := config.LoadConfig()

	app, err := host.NewApp(cfg)
	if err != nil {
		log.Fatalf("error initializing host: %v", err)
	}

	if err := app.Run(); err != nil {
		log.Fatalf("host error: %v", err)
	}
}
