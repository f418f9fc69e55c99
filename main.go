package main

import (
	"github.com/cardclash/gameserver/config"
	"github.com/cardclash/gameserver/content"
	"github.com/cardclash/gameserver/logger"
	"github.com/cardclash/gameserver/server"
	"github.com/cardclash/gameserver/store"
)

func main() {
	// Initialize logger
	logger.Init()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize content catalog
	source, err := content.NewGormPostgreSQL(
		cfg.Database.Postgres.Host,
		cfg.Database.Postgres.Port,
		cfg.Database.Postgres.User,
		cfg.Database.Postgres.Password,
		cfg.Database.Postgres.DBName,
	)
	if err != nil {
		logger.Log.Fatalf("Failed to connect to content catalog: %v", err)
	}
	logger.Log.Info("Content catalog connection successful.")

	// Initialize room store
	roomStore, err := store.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Log.Fatalf("Failed to connect to room store: %v", err)
	}
	logger.Log.Info("Room store connection successful.")

	// Initialize Game Server
	gameServer := server.NewGameServer(cfg, roomStore, source)

	// Start Server
	logger.Log.Infof("Starting game server on %s", cfg.Server.HTTPAddress)
	if err := gameServer.Start(); err != nil {
		logger.Log.Fatalf("Failed to start server: %v", err)
	}
}
