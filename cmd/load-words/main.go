package main

import (
	"flag"

	"github.com/rs/zerolog/log"

	"telestrations/internal/config"
	"telestrations/internal/db"
	"telestrations/internal/logger"
)

func main() {
	filePath := flag.String("file", "words.csv", "path to words csv")
	flag.Parse()

	if err := config.LoadDotEnv(".env"); err != nil {
		log.Warn().Err(err).Msg("failed to load .env")
	}
	cfg := config.Load()
	logger.Setup(cfg.LogLevel)

	conn, err := db.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	if err := db.Migrate(conn); err != nil {
		log.Fatal().Err(err).Msg("database migration failed")
	}

	inserted, err := db.LoadWordLibrary(conn, *filePath)
	if err != nil {
		log.Fatal().Err(err).Str("file", *filePath).Msg("failed to load words")
	}
	log.Info().Int64("inserted", inserted).Str("file", *filePath).Msg("loaded words")
}
