package config

import (
	"github.com/maxviazov/crudkit/internal/logger"
	"github.com/maxviazov/crudkit/repository/postgres"
)

type Config struct {
	Logger   logger.LoggerConfig `mapstructure:"logger"`
	Postgres postgres.PoolConfig `mapstructure:"postgres"`
	Demo     DemoConfig          `mapstructure:"demo"`
}

// DemoConfig tunes the demo binary; PageSize is the window it lists with.
type DemoConfig struct {
	PageSize int `mapstructure:"pageSize"`
}
