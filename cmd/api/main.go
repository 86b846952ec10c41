package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"wayanadconnect/auth"
	"wayanadconnect/broadcast"
	"wayanadconnect/config"
	"wayanadconnect/db"
	"wayanadconnect/httpapi"
	"wayanadconnect/incident"
)

func main() {
	loadLocalEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("bootstrap database pool: %v", err)
	}
	defer pool.Close()

	authSvc := auth.NewService(auth.NewRepository(pool), cfg.JWTSecret, cfg.TokenTTL)
	incidentSvc := incident.NewService(incident.NewRepository(pool))
	broadcastSvc := broadcast.NewService(broadcast.NewRepository(pool))

	srv := httpapi.New(cfg, authSvc, incidentSvc, broadcastSvc)

	go func() {
		log.Printf("wayanadconnect api listening on %s", cfg.HTTPAddress())
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Printf("graceful shutdown error: %v", err)
	}
}

func loadLocalEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found; relying on existing environment")
	}
}
