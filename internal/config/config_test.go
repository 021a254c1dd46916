package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("KICKIT_API_URL", "http://localhost:1986/")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:1986", cfg.APIURL)
	assert.Equal(t, "0.0.0.0:3000", cfg.Listen)
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.Equal(t, 604800, cfg.SessionMaxAge)
	require.NotNil(t, cfg.Cache)
	assert.Equal(t, CacheTypeMemory, cfg.Cache.Type)
	assert.Equal(t, 30*time.Second, cfg.Cache.CacheTTL())
	require.NotNil(t, cfg.Client)
	assert.Equal(t, "session.db", filepath.Base(cfg.Client.SessionDB))
}

func TestLoad_File(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := writeConfig(t, `
listen: "127.0.0.1:8080"
api_url: "https://api.kickit.example/ "
session_key: "0123456789abcdef0123456789abcdef"
cache:
  type: none
gravatar:
  enabled: true
  size: 64
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.Listen)
	assert.Equal(t, "https://api.kickit.example", cfg.APIURL)
	assert.Equal(t, CacheTypeNone, cfg.Cache.Type)
	assert.True(t, cfg.Gravatar.Enabled)
	assert.Equal(t, 64, cfg.Gravatar.Size)
	assert.NoError(t, cfg.ValidateServer())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := writeConfig(t, `
api_url: "http://file.example"
cache:
  type: memory
  ttl: 10
`)
	t.Setenv("KICKIT_API_URL", "http://env.example")
	t.Setenv("KICKIT_CACHE_TTL", "5")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://env.example", cfg.APIURL)
	assert.Equal(t, 5, cfg.Cache.TTL)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing api url",
			content: `listen: ":3000"`,
			wantErr: "api_url is required",
		},
		{
			name:    "api url without scheme",
			content: `api_url: "localhost:1986"`,
			wantErr: "api_url must start with http:// or https://",
		},
		{
			name: "redis without url",
			content: `
api_url: "http://localhost:1986"
cache:
  type: redis
`,
			wantErr: "Redis URL is required",
		},
		{
			name: "unknown cache type",
			content: `
api_url: "http://localhost:1986"
cache:
  type: memcached
`,
			wantErr: "unknown cache type",
		},
		{
			name: "zero timeout",
			content: `
api_url: "http://localhost:1986"
request_timeout: 0
`,
			wantErr: "request timeout must be greater than 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HOME", t.TempDir())
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateServer(t *testing.T) {
	cfg := &Config{Listen: ":3000", SessionMaxAge: 60}
	assert.EqualError(t, cfg.ValidateServer(), "session key is required")

	cfg.SessionKey = "short"
	assert.NoError(t, cfg.ValidateServer())

	cfg.SessionMaxAge = 0
	assert.EqualError(t, cfg.ValidateServer(), "session max age must be greater than 0")
}
