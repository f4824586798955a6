package main

import (
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"telestrations/internal/config"
	"telestrations/internal/db"
	"telestrations/internal/game"
	"telestrations/internal/logger"
	"telestrations/internal/server"
	"telestrations/internal/store"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Warn().Err(err).Msg("failed to load .env")
	}
	cfg := config.Load()
	logger.Setup(cfg.LogLevel)

	var (
		records game.Store = store.NewMemory()
		words   server.WordSuggester
	)
	if os.Getenv("DATABASE_URL") != "" {
		conn, err := db.Open(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("database connection failed")
		}
		if err := db.Migrate(conn); err != nil {
			log.Fatal().Err(err).Msg("database migration failed")
		}
		records = db.NewStore(conn)
		words = db.NewWordSource(conn)
		log.Info().Msg("using postgres store")
	} else {
		log.Info().Msg("DATABASE_URL not set, using in-memory store")
	}

	srv := server.New(records, words, cfg)
	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Info().Str("addr", httpServer.Addr).Msg("telestrations server listening")
	if err := httpServer.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
