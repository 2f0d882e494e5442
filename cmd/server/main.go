package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/cors"
	"github.com/gorilla/mux"

	"github.com/virtualboard/board/internal/api"
	"github.com/virtualboard/board/internal/board"
	"github.com/virtualboard/board/internal/config"
	"github.com/virtualboard/board/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	// Every session starts from the same seeded board
	rng := rand.New(rand.NewPCG(cfg.SeedRandom, cfg.SeedRandom))
	sample := append(board.SampleItems(cfg.SeedItems, rng), board.WelcomeIdea())
	if _, err := board.NewStore(sample); err != nil {
		slog.Error("seed board", "error", err)
		os.Exit(1)
	}
	slog.Info("board seeded", "items", len(sample))

	hub := session.NewHub(func() (*board.Store, error) {
		return board.NewStore(sample)
	}, cfg.ViewportSize())
	go hub.Run()

	handler := api.NewHandler(hub, sample, cfg.Origins())

	r := mux.NewRouter()

	// Global middleware
	r.Use(api.Recovery)
	r.Use(api.Logger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Origins(),
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.HandleFunc("/health", handler.Health).Methods("GET")
	r.HandleFunc("/board/sample", handler.Sample).Methods("GET", "OPTIONS")

	// WebSocket endpoint
	r.HandleFunc("/ws/board", handler.Board)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")
		hub.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
