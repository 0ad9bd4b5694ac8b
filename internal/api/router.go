package api

import (
	"net/http"
	"time"

	"zone-matrix-service/internal/api/handlers"
	"zone-matrix-service/internal/domain"
	"zone-matrix-service/internal/ports"
	"zone-matrix-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(art *domain.Artifact, view *services.MatrixView, store ports.SessionStore, welcome string, noticeFor time.Duration) http.Handler {
	mux := http.NewServeMux()

	artifactHandler := &handlers.ArtifactHandler{Artifact: art}
	sessionHandler := handlers.NewSessionHandler(art, view, store, welcome, noticeFor)

	mux.HandleFunc("GET /health", handlers.Health)
	mux.HandleFunc("GET /artifact", artifactHandler.Describe)
	mux.HandleFunc("GET /zones", artifactHandler.Zones)
	mux.HandleFunc("POST /sessions", sessionHandler.Create)
	mux.HandleFunc("GET /sessions/{id}", sessionHandler.Get)
	mux.HandleFunc("POST /sessions/{id}/origin", sessionHandler.SelectOrigin)
	mux.HandleFunc("POST /sessions/{id}/profile", sessionHandler.SwitchProfile)
	mux.HandleFunc("GET /sessions/{id}/hover", sessionHandler.Hover)

	return requestIDMiddleware(loggingMiddleware(mux))
}
