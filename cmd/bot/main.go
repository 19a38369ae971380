package main

import (
	"context"
	"log"

	"catalog-assistant/internal/bootstrap"
	"catalog-assistant/internal/config"
	"catalog-assistant/internal/server"
	"catalog-assistant/internal/tracer"
)

func main() {
	// 0. Initialize Tracer
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] Invalid configuration: %v", err)
	}

	// 2. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(cfg)

	// 3. Run: webhook mode when WEBHOOK_URL is set, long polling otherwise
	if cfg.App.WebhookURL != "" {
		if err := container.Bot.SetWebhook(cfg.App.WebhookURL + "/telegram/webhook"); err != nil {
			log.Fatalf("[FATAL] Failed to register webhook: %v", err)
		}
		srv := server.New(cfg, container)
		log.Fatal(srv.Run())
	}

	if err := container.Bot.DeleteWebhook(); err != nil {
		log.Printf("[WARN] Failed to clear webhook before polling: %v", err)
	}
	log.Println("✅ Long polling started")
	container.Dispatcher.Run(context.Background())
}
