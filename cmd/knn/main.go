package main

import (
	"errors"
	"os"

	"github.com/drakos74/free-knn/infra/config"
	"github.com/drakos74/free-knn/internal/benchmark"
	"github.com/drakos74/free-knn/internal/storage"
	"github.com/drakos74/free-knn/internal/storage/file/json"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func init() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func main() {
	cfg := benchmark.DefaultConfig()
	err := config.Load(benchmark.ConfigKey, &cfg)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Fatal().Err(err).Msg("could not load config")
		}
		log.Debug().Err(err).Msg("no config file, using defaults")
	}
	zerolog.SetGlobalLevel(cfg.Level())

	b := benchmark.New(cfg, os.Stdout)
	if cfg.Store {
		b = b.WithStorage(json.BlobShard(storage.RunsDir))
	}

	if _, err := b.Run(); err != nil {
		log.Fatal().Err(err).Msg("benchmark failed")
	}
}
