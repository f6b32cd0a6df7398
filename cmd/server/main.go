package main

import (
	"log"

	"go.uber.org/zap"

	"carduel/catalog"
	"carduel/internal/db"
	"carduel/internal/history"
	"carduel/internal/logger"
)

func main() {
	config := LoadConfig()

	zlog, err := logger.New(config.Environment)
	if err != nil {
		log.Fatal("Logger initialization failed:", err)
	}
	defer zlog.Sync()

	defs, err := catalog.Load(config.CatalogPath)
	if err != nil {
		zlog.Fatal("catalog load failed", zap.String("path", config.CatalogPath), zap.Error(err))
	}
	zlog.Info("catalog loaded",
		zap.String("path", config.CatalogPath),
		zap.Int("definitions", len(defs)))

	var recorder *history.Recorder
	if config.DBDSN != "" {
		database, err := db.New(db.Config{Driver: config.DBDriver, DSN: config.DBDSN})
		if err != nil {
			zlog.Fatal("database connection failed", zap.Error(err))
		}
		recorder, err = history.New(database)
		if err != nil {
			zlog.Fatal("history setup failed", zap.Error(err))
		}
		zlog.Info("match history enabled", zap.String("driver", config.DBDriver))
	} else {
		zlog.Info("match history disabled")
	}

	server := NewServer(config, zlog, defs, recorder)
	router := server.Router()

	zlog.Info("server listening", zap.String("port", config.ServerPort))
	if err := router.Run(":" + config.ServerPort); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
