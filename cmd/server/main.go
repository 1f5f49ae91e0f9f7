// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/parlorgames/cluedo/internal/auth"
	"github.com/parlorgames/cluedo/internal/cache"
	"github.com/parlorgames/cluedo/internal/database"
	"github.com/parlorgames/cluedo/internal/game"
	"github.com/parlorgames/cluedo/internal/handlers"
	"github.com/parlorgames/cluedo/internal/middleware"
	"github.com/parlorgames/cluedo/internal/models"
	"github.com/parlorgames/cluedo/internal/store"
)

func main() {
	auth.Init()
	database.ConnectDB()

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	if err := cache.ConnectRedis(); err != nil {
		log.Fatalf("redis: %v", err)
	}
	sessions := store.NewRedisStore(cache.Rdb)

	engine := game.New(sessions)
	engine.OnFinish = func(s *models.Session, sol models.Solution) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := database.ArchiveFinishedGame(ctx, s, sol); err != nil {
			logger.Errorf("archive finished game %s: %v", s.ID, err)
		}
	}

	srv := handlers.NewGameServer(engine, logger)
	srv.PublishQueue = true

	mux := http.NewServeMux()

	mux.Handle("/games/ws/", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.GameWSHandler(logger, srv),
	)))
	mux.Handle("/games", middleware.LogMiddleware(logger)(srv))
	mux.Handle("/games/", middleware.LogMiddleware(logger)(srv))

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	logger.Infof("Running on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
