package main

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
	"github.com/samber/lo"

	"github.com/dskvich/doc-reviewer/pkg/domain"
)

type Config struct {
	BackendURL     string        `env:"BACKEND_URL" envDefault:"http://localhost:8080"`
	APIPrefix      string        `env:"BACKEND_API_PREFIX" envDefault:"/api"`
	BackendTimeout time.Duration `env:"BACKEND_TIMEOUT" envDefault:"5m"`
	FunctionKey    string        `env:"BACKEND_FUNCTION_KEY"`
	Principal      string        `env:"CLIENT_PRINCIPAL"`
	DownloadDir    string        `env:"DOWNLOAD_DIR" envDefault:"."`
	Containers     []string      `env:"CONTAINERS" envSeparator:"," envDefault:"silver,gold"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"warn"`
}

// loadConfig reads envFile, when it exists, and then the process environment.
// Variables already set in the environment win over the file.
func loadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing env config: %w", err)
	}
	return cfg, nil
}

func (c Config) containerNames() []domain.ContainerName {
	return lo.Map(c.Containers, func(s string, _ int) domain.ContainerName {
		return domain.ContainerName(s)
	})
}
