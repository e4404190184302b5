package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lmsdesk/go-admin-client/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load(t.Context())
	require.NoError(t, err)
	require.Equal(t, "http://localhost:3000/api", cfg.APIBaseURL)
	require.Equal(t, ".lmsdesk/credentials.json", cfg.CredentialsFile)
	require.Equal(t, 30*time.Second, cfg.RequestTimeout)
	require.Equal(t, "info", cfg.LogLevel)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("LMS_API_BASE_URL", "https://admin.example.com/api")
	t.Setenv("LMS_REQUEST_TIMEOUT", "5s")
	t.Setenv("LMS_LOG_LEVEL", "debug")

	cfg, err := config.Load(t.Context())
	require.NoError(t, err)
	require.Equal(t, "https://admin.example.com/api", cfg.APIBaseURL)
	require.Equal(t, 5*time.Second, cfg.RequestTimeout)
	require.Equal(t, "debug", cfg.LogLevel)
}
