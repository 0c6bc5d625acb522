package main

import (
	"os"

	"github.com/ikclouds/not-fight-club/internal/api"
	"github.com/ikclouds/not-fight-club/internal/battle"
	"github.com/ikclouds/not-fight-club/internal/constants"
	"github.com/ikclouds/not-fight-club/internal/engine"
	"github.com/ikclouds/not-fight-club/internal/events"
	"github.com/ikclouds/not-fight-club/internal/logging"
	"github.com/ikclouds/not-fight-club/internal/version"
)

func main() {
	defer logging.Sync()

	// NFC_CONFIG may point at a JSON or YAML file. Without it the built-in
	// balance is used when ./nfc_config.json does not exist.
	configPath := os.Getenv(constants.EnvConfigPath)
	cfg := loadConfigOrExit(configPath)
	applyEnvOverrides(cfg)

	bus := events.NewBus()
	bus.Subscribe("", events.LogSubscriber)

	if level := os.Getenv(constants.EnvLogLevel); level != "" {
		if err := logging.SetLevel(level); err != nil {
			logging.Error("ignoring invalid log level", err, logging.Fields{"level": level})
		} else {
			bus.Publish(constants.EventLogging, "log level set: "+level, nil)
		}
	}

	repo := createRepositoryOrExit(cfg, bus)

	ctrl := battle.New(repo,
		battle.WithRoller(engine.NewRoller(cfg.Seed)),
		battle.WithBus(bus),
	)
	stopWatch := watchBattle(ctrl)
	defer stopWatch()

	router := api.NewRouter(api.NewHandler(repo, ctrl))

	addr := cfg.ServerAddress
	logging.Info("Server started", logging.Fields{
		constants.LogFieldAddr: addr,
		constants.LogFieldPath: cfg.DBPath,
		"version":              version.Get().String(),
	})
	if err := router.Run(addr); err != nil {
		logging.Fatal("Failed to start server", err, nil)
	}
}
