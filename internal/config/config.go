package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
)

type CacheType string

const (
	CacheTypeMemory CacheType = "memory"
	CacheTypeRedis  CacheType = "redis"
	CacheTypeNone   CacheType = "none"
)

// Config holds the configuration for the KickIt web client and CLI.
type Config struct {
	// Listen is the address the web front-end will listen on.
	Listen string `yaml:"listen" mapstructure:"listen"`
	// APIURL is the base URL of the remote KickIt API.
	APIURL string `yaml:"api_url" mapstructure:"api_url"`
	// RequestTimeout is the timeout for a single API request in seconds.
	RequestTimeout int `yaml:"request_timeout" mapstructure:"request_timeout"`
	// ServerURL is the public base URL of the web front-end.
	ServerURL string `yaml:"server_url" mapstructure:"server_url"`
	// SessionKey is the key used to sign the session cookie.
	SessionKey string `yaml:"session_key" mapstructure:"session_key"`
	// SessionMaxAge is the maximum age of a session cookie in seconds.
	SessionMaxAge int `yaml:"session_max_age" mapstructure:"session_max_age"`
	// SecureCookies marks the session cookie as HTTPS only.
	SecureCookies bool `yaml:"secure_cookies" mapstructure:"secure_cookies"`
	// Cache holds the kick list cache configuration.
	Cache *CacheConfig `yaml:"cache" mapstructure:"cache"`
	// Gravatar holds the avatar configuration.
	Gravatar *GravatarConfig `yaml:"gravatar" mapstructure:"gravatar"`
	// Client holds the settings used by the terminal client.
	Client *ClientConfig `yaml:"client" mapstructure:"client"`
}

// CacheConfig configures the per-user kick list cache.
type CacheConfig struct {
	// Type is the cache backend: memory, redis or none.
	Type CacheType `yaml:"type" mapstructure:"type"`
	// RedisURL is the address of the redis server (host:port).
	RedisURL string `yaml:"redis_url" mapstructure:"redis_url"`
	// TTL is how long a cached kick list is served, in seconds.
	TTL int `yaml:"ttl" mapstructure:"ttl"`
}

type GravatarConfig struct {
	// Enabled indicates whether Gravatar avatars are shown.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// DefaultImage is the fallback image style (mp, identicon, monsterid, wavatar, retro, robohash, blank).
	DefaultImage string `yaml:"default_image" mapstructure:"default_image"`
	// Rating is the maximum rating of the avatar (g, pg, r, x).
	Rating string `yaml:"rating" mapstructure:"rating"`
	// Size is the avatar size in pixels (1-2048).
	Size int `yaml:"size" mapstructure:"size"`
}

type ClientConfig struct {
	// SessionDB is the path of the sqlite database that keeps the CLI session.
	SessionDB string `yaml:"session_db" mapstructure:"session_db"`
}

// Timeout returns the API request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// CacheTTL returns the kick list cache TTL as a duration.
func (c *CacheConfig) CacheTTL() time.Duration {
	return time.Duration(c.TTL) * time.Second
}

func Load(path string) (*Config, error) {
	v := viper.New()

	bindNestedEnv(v)

	setDefaults(v)

	v.SetConfigType("yaml")
	v.SetEnvPrefix("KICKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var configFileFound bool
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.kickit")
		v.AddConfigPath("/etc/kickit")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		configFileFound = true
	}

	if configFileFound {
		log.Debug("Using config file", "file", v.ConfigFileUsed())
		log.Debug("Settings can be overridden with KICKIT_ prefixed environment variables")
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	sanitizeConfig(&c)

	if err := validateConfig(&c); err != nil {
		return nil, err
	}

	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("listen", "0.0.0.0:3000")
	v.SetDefault("api_url", "")
	v.SetDefault("request_timeout", 30)
	v.SetDefault("server_url", "http://localhost:3000")
	v.SetDefault("session_key", "")
	v.SetDefault("session_max_age", 604800) // 7 days
	v.SetDefault("secure_cookies", false)

	v.SetDefault("cache.type", CacheTypeMemory)
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", 30)

	v.SetDefault("gravatar.enabled", false)
	v.SetDefault("gravatar.default_image", "identicon")
	v.SetDefault("gravatar.rating", "g")
	v.SetDefault("gravatar.size", 40)

	v.SetDefault("client.session_db", defaultSessionDB())
}

func bindNestedEnv(v *viper.Viper) {
	v.MustBindEnv("cache.type", "KICKIT_CACHE_TYPE")
	v.MustBindEnv("cache.redis_url", "KICKIT_CACHE_REDIS_URL")
	v.MustBindEnv("cache.ttl", "KICKIT_CACHE_TTL")

	v.MustBindEnv("client.session_db", "KICKIT_CLIENT_SESSION_DB")
}

func defaultSessionDB() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".kickit", "session.db")
	}
	return filepath.Join(home, ".kickit", "session.db")
}

// validateConfig checks the settings shared by every command.
// Server-only settings are checked by ValidateServer.
func validateConfig(c *Config) error {
	if c == nil {
		return fmt.Errorf("missing kickit config")
	}

	if c.APIURL == "" {
		return fmt.Errorf("api_url is required (set KICKIT_API_URL or api_url in the config file)")
	}
	if !strings.HasPrefix(c.APIURL, "http://") && !strings.HasPrefix(c.APIURL, "https://") {
		return fmt.Errorf("api_url must start with http:// or https://")
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be greater than 0")
	}

	if c.Cache != nil {
		switch c.Cache.Type {
		case CacheTypeMemory, CacheTypeNone:
		case CacheTypeRedis:
			if c.Cache.RedisURL == "" {
				return fmt.Errorf("Redis URL is required when Redis cache is enabled") //nolint:staticcheck
			}
		case "":
			return fmt.Errorf("cache type is required when cache is configured")
		default:
			return fmt.Errorf("unknown cache type %q", c.Cache.Type)
		}
		if c.Cache.TTL < 0 {
			return fmt.Errorf("cache ttl must not be negative")
		}
	} else {
		c.Cache = &CacheConfig{
			Type: CacheTypeMemory,
			TTL:  30,
		}
	}

	if c.Client == nil || c.Client.SessionDB == "" {
		c.Client = &ClientConfig{SessionDB: defaultSessionDB()}
	}

	return nil
}

// ValidateServer checks the settings that only the web front-end needs.
func (c *Config) ValidateServer() error {
	if c.Listen == "" {
		return fmt.Errorf("listen address is required")
	}
	if c.SessionKey == "" {
		return fmt.Errorf("session key is required")
	}
	if len(c.SessionKey) < 32 {
		log.Warn("session key is shorter than 32 bytes, consider using a longer random key")
	}
	if c.SessionMaxAge <= 0 {
		return fmt.Errorf("session max age must be greater than 0")
	}
	return nil
}

func sanitizeConfig(c *Config) {
	if c == nil {
		return
	}

	c.Listen = urlSanitize(c.Listen)
	c.APIURL = urlSanitize(c.APIURL)

	if c.ServerURL != "" {
		c.ServerURL = urlSanitize(c.ServerURL)
	}

	if c.Cache != nil {
		c.Cache.RedisURL = strings.TrimSpace(c.Cache.RedisURL)
	}
}

func urlSanitize(url string) string {
	return strings.TrimSuffix(strings.TrimSpace(url), "/")
}
