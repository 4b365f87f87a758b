package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoad_FillsDefaults(t *testing.T) {
	p := writeFile(t, "mode: dev\n")

	cfg, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, ModeDev, cfg.Mode)
	assert.Equal(t, DefaultAddr, cfg.Server.Addr)
	assert.Equal(t, DefaultShutdownTimeout, cfg.Server.ShutdownTimeout)
	assert.False(t, cfg.TLSEnabled())
}

func TestLoad_ReadsAllSections(t *testing.T) {
	p := writeFile(t, `
version: "1"
mode: release
server:
  addr: "127.0.0.1:9090"
  shutdown_timeout: 3s
cors:
  allow_origins: ["http://example.test"]
rate_limit:
  enabled: true
  rps: 5
  burst: 10
certificate:
  cert: server.crt
  key: server.key
`)

	cfg, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Addr)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, []string{"http://example.test"}, cfg.CORS.AllowOrigins)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 5.0, cfg.RateLimit.RPS)
	assert.Equal(t, 10, cfg.RateLimit.Burst)
	assert.True(t, cfg.TLSEnabled())
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))

	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	require.NotNil(t, cfg)
	assert.Equal(t, DefaultAddr, cfg.Server.Addr)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "bad_yaml", body: "mode: [dev"},
		{name: "bad_mode", body: "mode: staging\n"},
		{name: "rate_without_rps", body: "mode: dev\nrate_limit:\n  enabled: true\n  rps: 0\n"},
		{name: "cert_without_key", body: "mode: dev\ncertificate:\n  cert: a.crt\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Load(writeFile(t, tc.body))
			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("DVD_ADDR", ":7070")
	cfg := Default()
	cfg.ApplyEnv()
	assert.Equal(t, ":7070", cfg.Server.Addr)
}
