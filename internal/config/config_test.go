package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/khanghh/admin-portal/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeDefaults(t *testing.T) {
	cfg := Config{Backend: BackendConfig{URL: "http://backend.local/api/"}}
	require.NoError(t, cfg.Sanitize())

	assert.Equal(t, DefaultListenAddr, cfg.ListenAddr)
	assert.Equal(t, DefaultSiteName, cfg.SiteName)
	assert.Equal(t, "http://backend.local/api", cfg.Backend.URL)
	assert.Equal(t, params.BackendTimeout, cfg.Backend.Timeout)
	assert.Equal(t, params.ResendCooldown, cfg.Flow.ResendCooldown)
	assert.Equal(t, params.SuccessRedirectDelay, cfg.Flow.SuccessRedirectDelay)
	assert.Equal(t, DefaultSuccessRedirectURL, cfg.Flow.SuccessRedirectURL)
	assert.Equal(t, DefaultSiteName, cfg.DevBackend.Issuer)
}

func TestSanitizeRequiresBackend(t *testing.T) {
	cfg := Config{}
	assert.Error(t, cfg.Sanitize())
}

func TestLoadConfig(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
siteName: Ops Console
listenAddr: ":8080"
backend:
  url: http://auth.internal
  timeout: 3s
flow:
  resendCooldown: 30s
`)
	require.NoError(t, os.WriteFile(file, content, 0o600))

	cfg, err := LoadConfig(file)
	require.NoError(t, err)
	assert.Equal(t, "Ops Console", cfg.SiteName)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, 3*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 30*time.Second, cfg.Flow.ResendCooldown)
}
