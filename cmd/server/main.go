package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"zone-matrix-service/internal/adapters/artifacts"
	"zone-matrix-service/internal/adapters/sessions"
	"zone-matrix-service/internal/api"
	"zone-matrix-service/internal/config"
	"zone-matrix-service/internal/ports"
	"zone-matrix-service/internal/services"
)

// main is the serving composition root. It loads the persisted matrix
// artifact once at startup and serves read-only interactive sessions over
// it; the artifact is recomputed by cmd/matrix, never through this server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load(config.Get("CONFIG_PATH", ""))
	if err != nil {
		log.Fatal(err)
	}

	matrixPath := config.Get("MATRIX_PATH", "data/matrix.json")
	port := config.Get("PORT", "8080")

	store, err := artifacts.NewFileStore(matrixPath)
	if err != nil {
		log.Fatal(err)
	}
	art, err := store.Load(context.Background())
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("artifact loaded path=%s zones=%d profiles=%d source=%s",
		matrixPath, art.Size(), len(art.Profiles), art.Metadata.Source)

	view, err := services.NewMatrixView(services.ViewSettings{
		ThresholdsMinutes: cfg.View.ThresholdsMinutes,
		Palette:           cfg.View.Palette,
		OriginColor:       cfg.View.OriginColor,
		NoDataColor:       cfg.View.NoDataColor,
	})
	if err != nil {
		log.Fatal(err)
	}

	router := api.NewRouter(art, view, openSessionStore(cfg), cfg.View.WelcomeNotice, cfg.NoticeFor())

	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// openSessionStore keeps sessions in Redis when REDIS_ADDR is set, so
// restarts and replicas share them; otherwise in process memory.
func openSessionStore(cfg *config.AppConfig) ports.SessionStore {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		log.Printf("sessions in redis addr=%s ttl=%s", addr, cfg.SessionTTL())
		return sessions.NewRedisStore(client, cfg.SessionTTL())
	}
	log.Printf("sessions in memory ttl=%s", cfg.SessionTTL())
	return sessions.NewMemoryStore(cfg.SessionTTL())
}
