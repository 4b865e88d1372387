package main

import (
	"context"
	"flag"
	"log"

	"cmsadmin/internal/cli"
	"cmsadmin/internal/config"
	"cmsadmin/internal/snapshot"
	"cmsadmin/internal/store"
	"cmsadmin/internal/util"
)

func main() {
	configPath := flag.String("config", config.ConfigPath, "path to config.yaml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.InitLogger(cfg.LogLevel)

	primary, err := snapshot.NewFileStore(cfg.StateDir, cfg.SessionSecret)
	if err != nil {
		log.Fatalf("failed to init state dir: %v", err)
	}
	var secondary snapshot.Store
	if cfg.RedisAddr != "" {
		rs := snapshot.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, 0)
		defer rs.Close()
		secondary = rs
	} else {
		secondary = snapshot.NewMemoryStore()
	}

	st := store.New(store.Config{
		BaseURL:        cfg.BaseURL,
		RequestTimeout: cfg.RequestTimeout(),
		Primary:        primary,
		Secondary:      secondary,
		Logger:         logger,
	})

	ctx := context.Background()
	st.Hydrate(ctx)

	logger.Info("console starting", "baseURL", cfg.BaseURL, "stateDir", cfg.StateDir)
	cli.NewApp(st).Run(ctx)
}
