package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/barao1010/arenabot/internal/bot"
	"github.com/barao1010/arenabot/internal/config"
	"github.com/barao1010/arenabot/internal/duel"
	"github.com/barao1010/arenabot/internal/handlers"
	"github.com/barao1010/arenabot/internal/reset"
	"github.com/barao1010/arenabot/internal/store"
	"github.com/barao1010/arenabot/internal/transport"
)

func main() {
	log := logrus.WithField("bot", "duel")

	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	log.Infof("starting duel bot in %s mode", cfg.Environment)

	// Duel standings live in process memory and reset monthly, like the
	// classic panel bot. Restarts lose them; that is accepted.
	standings := store.NewMemoryStore(cfg.Arena.DefaultRating)
	registry := duel.NewRegistry(standings, cfg.Panel.Image, log)

	style := bot.PanelStyle{Image: cfg.Panel.Image, Color: cfg.Panel.Color}
	router := bot.NewDuelRouter(registry, style, log)

	resetService := reset.NewService(func(ctx context.Context) error {
		return standings.ResetStandings(ctx, store.ResetStandings)
	}, log)
	resetService.Start()
	defer resetService.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gateway := transport.New(cfg.Gateway.URL, cfg.Gateway.Token, router, log)
	go func() {
		if err := gateway.Run(ctx); err != nil && ctx.Err() == nil {
			logrus.Fatalf("Gateway error: %v", err)
		}
	}()

	httpRouter := mux.NewRouter()
	leaderboardHandler := handlers.NewLeaderboardHandler(standings, log)
	httpRouter.HandleFunc("/api/leaderboard", leaderboardHandler.GetLeaderboard).Methods("GET")
	httpRouter.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{cfg.HTTP.AllowedOrigin},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      corsHandler.Handler(httpRouter),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infof("HTTP server listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logrus.Fatalf("Server shutdown error: %v", err)
	}

	log.Info("stopped")
}
