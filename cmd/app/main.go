package main

import (
	"flag"
	"log"
	"os"

	"github.com/sudz7/n50-swing-algo/internal/di"
	"github.com/sudz7/n50-swing-algo/pkg/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	log.Printf("env=%s port=%d symbols=%d", cfg.Environment, cfg.Server.Port, len(cfg.Market.Symbols))

	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	if err := app.Run(); err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}
