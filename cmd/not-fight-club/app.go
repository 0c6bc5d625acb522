package main

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/ikclouds/not-fight-club/internal/config"
	"github.com/ikclouds/not-fight-club/internal/constants"
	"github.com/ikclouds/not-fight-club/internal/events"
	"github.com/ikclouds/not-fight-club/internal/logging"
	"github.com/ikclouds/not-fight-club/internal/storage"
)

// loadConfigOrExit reads the configuration file. An unset path falls back
// to the default file, and to the built-in values when that is missing too.
func loadConfigOrExit(path string) *config.LoadedConfig {
	explicit := path != ""
	if !explicit {
		path = constants.DefaultConfigPath
	}
	cfg, err := config.LoadConfig(path)
	if err == nil {
		return cfg
	}
	if !explicit && errors.Is(err, fs.ErrNotExist) {
		logging.Info("no configuration file, using built-in balance", logging.Fields{"config_path": path})
		return config.Defaults()
	}
	logging.Fatal("Missing or invalid configuration", err, logging.Fields{"config_path": path})
	return nil
}

func applyEnvOverrides(cfg *config.LoadedConfig) {
	if v := os.Getenv(constants.EnvDBPath); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv(constants.EnvAddr); v != "" {
		cfg.ServerAddress = v
	}
	if v := os.Getenv(constants.EnvSeed); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			logging.Fatal("Invalid seed", err, logging.Fields{"var": constants.EnvSeed})
		}
		cfg.Seed = seed
	}
}

func createRepositoryOrExit(cfg *config.LoadedConfig, bus *events.Bus) *storage.Repository {
	if cfg.DBPath == constants.MemoryDBPath {
		repo := storage.NewRepository(storage.NewMemoryStore(), cfg.Balance, bus)
		repo.Init()
		return repo
	}
	db, err := storage.OpenDB(cfg.DBPath)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, logging.Fields{constants.LogFieldPath: cfg.DBPath})
	}
	store, err := storage.NewSQLStore(db)
	if err != nil {
		logging.Fatal("Failed to open key-value store", err, nil)
	}
	repo := storage.NewRepository(store, cfg.Balance, bus)
	repo.Init()
	return repo
}
