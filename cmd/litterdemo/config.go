package main

import (
	"github.com/JeremyLoy/config"
	"github.com/rotisserie/eris"
)

type Config struct {
	Entities int    `config:"LITTER_ENTITIES"`
	Depth    int    `config:"LITTER_DEPTH"`
	Ticks    int    `config:"LITTER_TICKS"`
	LogLevel string `config:"LITTER_LOG_LEVEL"`
}

func LoadConfig() (Config, error) {
	cfg := Config{
		Entities: 1000,
		Depth:    4,
		Ticks:    60,
		LogLevel: "info",
	}
	if err := config.FromEnv().To(&cfg); err != nil {
		return Config{}, eris.Wrap(err, "failed to load config from env")
	}
	if cfg.Entities < 1 || cfg.Depth < 1 || cfg.Ticks < 0 {
		return Config{}, eris.Errorf("invalid config: %+v", cfg)
	}
	return cfg, nil
}
