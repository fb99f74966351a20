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

	"github.com/barao1010/arenabot/internal/arena"
	"github.com/barao1010/arenabot/internal/bot"
	"github.com/barao1010/arenabot/internal/config"
	"github.com/barao1010/arenabot/internal/db"
	"github.com/barao1010/arenabot/internal/elo"
	"github.com/barao1010/arenabot/internal/handlers"
	"github.com/barao1010/arenabot/internal/reset"
	"github.com/barao1010/arenabot/internal/store"
	"github.com/barao1010/arenabot/internal/transport"
)

func main() {
	log := logrus.WithField("bot", "ranked")

	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	log.Infof("starting ranked bot in %s mode", cfg.Environment)

	mongodb, err := db.NewMongoDB(cfg.MongoDB.URI, cfg.MongoDB.Database)
	if err != nil {
		logrus.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		mongodb.Close(ctx)
	}()

	log.Infof("connected to MongoDB database: %s", cfg.MongoDB.Database)

	ratings := store.NewMongoStore(mongodb, cfg.Arena.DefaultRating)
	calc := elo.NewCalculator(cfg.Arena.RatingDelta, cfg.Arena.ScaledDeltas)
	coord := arena.NewCoordinator(ratings, calc,
		cfg.Arena.TeamSize, cfg.Arena.SubmitMin, cfg.Arena.SubmitMax, log)

	style := bot.PanelStyle{Image: cfg.Panel.Image, Color: cfg.Panel.Color}
	router := bot.NewRankedRouter(coord, style, log)

	// Monthly reset is off by default for the persisted store; enable it
	// in config to clear standings at month end.
	if cfg.Reset.Mode != config.ResetOff {
		resetService := reset.NewService(func(ctx context.Context) error {
			return ratings.ResetStandings(ctx, store.ResetMode(cfg.Reset.Mode))
		}, log)
		resetService.Start()
		defer resetService.Stop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gateway := transport.New(cfg.Gateway.URL, cfg.Gateway.Token, router, log)
	go func() {
		if err := gateway.Run(ctx); err != nil && ctx.Err() == nil {
			logrus.Fatalf("Gateway error: %v", err)
		}
	}()

	// Read-only HTTP surface
	httpRouter := mux.NewRouter()
	leaderboardHandler := handlers.NewLeaderboardHandler(ratings, log)
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
