package main

import (
	"log"

	"github.com/bravo-servizi/bravo/internal/alerts"
	"github.com/bravo-servizi/bravo/internal/config"
)

func main() {
	cfg := config.Load()
	if cfg.RedisAddr == "" {
		log.Fatal("worker requires REDIS_ADDR")
	}

	if err := alerts.ConfigureMailerFromEnv(); err != nil {
		log.Printf("mailer not configured, falling back to log delivery: %v", err)
	}

	log.Printf("notification worker starting (redis=%s)", cfg.RedisAddr)
	if err := alerts.RunWorker(cfg.RedisAddr, cfg.RedisPassword); err != nil {
		log.Fatalf("worker stopped: %v", err)
	}
}
