package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/zulandar/bookmarky/internal/config"
	"github.com/zulandar/bookmarky/internal/db"
	"gorm.io/gorm"
)

// loadConfig reads configPath. A missing file at the default location
// falls back to the built-in SQLite config; an explicit path must exist.
func loadConfig(configPath string) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err == nil {
		return cfg, nil
	}
	if configPath == defaultConfigPath && errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return nil, fmt.Errorf("load config: %w", err)
}

func connectFromConfig(configPath string) (*config.Config, *gorm.DB, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}

	gormDB, err := db.Connect(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("connect: %w", err)
	}

	return cfg, gormDB, nil
}
