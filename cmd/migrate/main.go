package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/rs/zerolog/log"
	"go.uber.org/multierr"

	"projecthub/internal/pkg/logger"
	"projecthub/internal/platform/config"
	"projecthub/internal/platform/database"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
	fmt.Println("Migration completed successfully")
}

func run(configPath string) (err error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger.Init(cfg.Logging)

	db, err := database.Open(cfg.Database)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, db.Close()) }()

	return database.Migrate(context.Background(), db)
}
