package main

import (
	"context"
	"errors"

	"github.com/labstack/gommon/log"

	"github.com/miguelmmattar/batepapo-uol-api/chat"
	"github.com/miguelmmattar/batepapo-uol-api/config"
	"github.com/miguelmmattar/batepapo-uol-api/server"
	"github.com/miguelmmattar/batepapo-uol-api/storage"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}
	store, err := storage.NewRedisStorage(cfg.RedisServer)
	if err != nil {
		panic(err)
	}

	registry := chat.NewRegistry(store, cfg.ParticipantCacheTTL)
	messages := chat.NewMessageLog(store)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sweeper := chat.NewSweeper(registry, cfg.SweepInterval, cfg.StaleAfter, log.New("sweeper"))
	go func() {
		if err := sweeper.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Errorf("sweeper stopped: %s", err)
		}
	}()

	s := server.NewServer(cfg.Port, registry, messages)
	if err := s.StartServer(); err != nil {
		panic(err)
	}

	err = store.Close()
	if err != nil {
		panic(err)
	}
}
