package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  host: "0.0.0.0"
  port: "8080"
  environment: "sandbox"
gateways:
  pagarme:
    base_url: "https://api.pagar.me"
    api_key: "sk_test_from_file"
    timeout: 10s
    max_retries: 3
    retry_backoff_base: 200ms
pimenta:
  message_cost: 1
jwt:
  secret: "from-file"
`), 0o600))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("PAGARME_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.False(t, cfg.Server.IsLive())
	assert.Equal(t, Duration(10*time.Second), cfg.Gateways.Pagarme.Timeout)
	assert.Equal(t, Duration(200*time.Millisecond), cfg.Gateways.Pagarme.RetryBackoffBase)
	assert.Equal(t, int64(1), cfg.Pimenta.MessageCost)
	// Environment wins over the file for secrets; an empty variable does not.
	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, "sk_test_from_file", cfg.Gateways.Pagarme.APIKey)
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "nope.yaml"))
	_, err := Load()
	assert.Error(t, err)
}

func TestIsLive(t *testing.T) {
	assert.True(t, ServerConfig{Environment: "live"}.IsLive())
	assert.False(t, ServerConfig{Environment: "sandbox"}.IsLive())
	assert.False(t, ServerConfig{}.IsLive())
}
