package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/gokatarajesh/trivia-api/internal/app"
	"github.com/gokatarajesh/trivia-api/internal/config"
	"github.com/gokatarajesh/trivia-api/internal/logging"
)

func main() {
	envFile := flag.String("env-file", "configs/.env", "dotenv file loaded outside production")
	flag.Parse()

	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(*envFile); err != nil {
			log.Warn().Err(err).Str("file", *envFile).Msg("dotenv file not loaded")
		}
	}

	cfg, err := config.Load(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	logger := logging.New(cfg.Name, cfg.Env)
	startup := logger.Info().
		Str("addr", cfg.HTTPAddr).
		Str("store", cfg.Store.Driver).
		Bool("category_cache", cfg.Redis.Addr != "")
	if cfg.Store.Driver == config.DriverMemory {
		if cfg.Store.SeedFile == "" {
			logger.Warn().Msg("memory store has no STORE_SEED_FILE; starting empty")
		}
		startup = startup.Str("seed_file", cfg.Store.SeedFile)
	}
	startup.Msg("configuration loaded")

	ctx := context.Background()
	instance, err := app.New(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build app")
	}

	if err := instance.Run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("runtime error")
	}
}
