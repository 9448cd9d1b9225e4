package config

import (
	"fmt"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
)

// Config is read from the environment, after an optional .env file.
type Config struct {
	DataDir    string `env:"FE1_DATA" env-default:"./data"`
	DBPath     string `env:"FE1_DB" env-default:""`      // defaults to <data>/db/fe1.db
	ResultsDir string `env:"FE1_RESULTS" env-default:""` // defaults to <data>/results
	Addr       string `env:"FE1_ADDR" env-default:"0.0.0.0:8080"`
	LogLevel   string `env:"FE1_LOG_LEVEL" env-default:"info"`

	// Applied when a request leaves the flag out.
	DefaultPropagation       bool `env:"FE1_PROPAGATION" env-default:"false"`
	DefaultFilterRefFeatures bool `env:"FE1_FILTER_REF_FEATURES" env-default:"true"`
}

// Load reads .env files (if any) into the process environment and then the
// environment into a Config. foundDotenv reports whether a .env was loaded.
func Load(dotenvFiles ...string) (cfg *Config, foundDotenv bool, err error) {
	foundDotenv = godotenv.Load(dotenvFiles...) == nil

	cfg = &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, foundDotenv, fmt.Errorf("failed to read environment: %w", err)
	}

	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(cfg.DataDir, "db", "fe1.db")
	}
	if cfg.ResultsDir == "" {
		cfg.ResultsDir = filepath.Join(cfg.DataDir, "results")
	}
	return cfg, foundDotenv, nil
}

func (c *Config) Level() (zapcore.Level, error) {
	return zapcore.ParseLevel(c.LogLevel)
}
