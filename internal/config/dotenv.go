package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from a .env file if present.
// Existing environment variables are not overwritten.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

type Config struct {
	Port                     string
	LogLevel                 string
	MinPlayers               int
	StrictRounds             bool
	MaxWordLength            int
	MaxDrawingBytes          int
	WordSuggestionLimit      int
	CORSOrigins              []string
	RateLimitPerSecond       float64
	RateLimitBurst           int
	DBMaxOpenConns           int
	DBMaxIdleConns           int
	DBConnMaxLifetimeSeconds int
	DBConnMaxIdleTimeSeconds int
}

// WordColumnSize is the width of the word columns in the database.
// MaxWordLength never exceeds it.
const WordColumnSize = 280

func Default() Config {
	return Config{
		Port:                     "4000",
		LogLevel:                 "info",
		MinPlayers:               1,
		StrictRounds:             true,
		MaxWordLength:            60,
		MaxDrawingBytes:          5 * 1024 * 1024,
		WordSuggestionLimit:      10,
		CORSOrigins:              []string{"http://localhost:3000"},
		RateLimitPerSecond:       10,
		RateLimitBurst:           20,
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           10,
		DBConnMaxLifetimeSeconds: 300,
		DBConnMaxIdleTimeSeconds: 60,
	}
}

func Load() Config {
	cfg := Default()
	if raw := os.Getenv("PORT"); raw != "" {
		cfg.Port = raw
	}
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		cfg.LogLevel = strings.ToLower(raw)
	}
	if raw := os.Getenv("MIN_PLAYERS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.MinPlayers = value
		}
	}
	if raw := os.Getenv("STRICT_ROUNDS"); raw != "" {
		if value, err := strconv.ParseBool(raw); err == nil {
			cfg.StrictRounds = value
		}
	}
	if raw := os.Getenv("MAX_WORD_LENGTH"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.MaxWordLength = min(value, WordColumnSize)
		}
	}
	if raw := os.Getenv("MAX_DRAWING_BYTES"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.MaxDrawingBytes = value
		}
	}
	if raw := os.Getenv("WORD_SUGGESTION_LIMIT"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.WordSuggestionLimit = value
		}
	}
	if raw := os.Getenv("CORS_ORIGINS"); raw != "" {
		origins := make([]string, 0)
		for _, origin := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
		if len(origins) > 0 {
			cfg.CORSOrigins = origins
		}
	}
	if raw := os.Getenv("RATE_LIMIT_PER_SECOND"); raw != "" {
		if value, err := strconv.ParseFloat(raw, 64); err == nil && value > 0 {
			cfg.RateLimitPerSecond = value
		}
	}
	if raw := os.Getenv("RATE_LIMIT_BURST"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.RateLimitBurst = value
		}
	}
	if raw := os.Getenv("DB_MAX_OPEN_CONNS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBMaxOpenConns = value
		}
	}
	if raw := os.Getenv("DB_MAX_IDLE_CONNS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBMaxIdleConns = value
		}
	}
	if raw := os.Getenv("DB_CONN_MAX_LIFETIME_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBConnMaxLifetimeSeconds = value
		}
	}
	if raw := os.Getenv("DB_CONN_MAX_IDLE_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBConnMaxIdleTimeSeconds = value
		}
	}
	return cfg
}
