// Package config holds runtime configuration for the admin CLI.
package config

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Config is populated from environment variables, with an optional .env
// file loaded first.
type Config struct {
	APIBaseURL        string        `env:"LMS_API_BASE_URL,default=http://localhost:3000/api"`
	CredentialsFile   string        `env:"LMS_CREDENTIALS_FILE,default=.lmsdesk/credentials.json"`
	KeyringPassphrase string        `env:"LMS_KEYRING_PASSPHRASE"`
	RequestTimeout    time.Duration `env:"LMS_REQUEST_TIMEOUT,default=30s"`
	LogLevel          string        `env:"LMS_LOG_LEVEL,default=info"`
}

// Load returns a Config populated from the environment. A missing .env
// file is not an error.
func Load(ctx context.Context) (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
