package rest

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Start - runs the HTTP API. SSE streams are long-lived, so the write timeout
// only covers the regular JSON endpoints via per-handler deadlines.
func Start(logger *slog.Logger, port string, handlers Handlers) error {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", NewPingHandler().PingHandler)
	mux.HandleFunc("POST /games", handlers.CreateGame)
	mux.HandleFunc("POST /games/{id}/start", handlers.StartGame)
	mux.HandleFunc("GET /games/{id}", handlers.GetGame)
	mux.HandleFunc("GET /games/{id}/events", handlers.StreamEvents)

	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
	}

	logger.Info("HTTP server listening", "port", port)

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
