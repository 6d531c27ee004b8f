package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"

	"github.com/tsksoundkits/storefront/internal/gumroad"
)

// Config holds the complete server configuration, loadable from environment
// variables (TSK_ prefix), flags, or YAML config files.
type Config struct {
	Addr        string `default:"0.0.0.0:8080" usage:"API server listen address"`
	DatabaseURL string `usage:"PostgreSQL catalog mirror URL; Gumroad is queried directly when empty" flag:"database-url"`
	Gumroad     GumroadConfig
	Catalog     CatalogConfig
	Audio       AudioConfig
	RateLimit   RateLimitConfig
	CORS        CORSConfig
	Graceful    GracefulConfig
}

// GumroadConfig controls the Gumroad API client.
type GumroadConfig struct {
	AccessToken string        `usage:"Gumroad API access token (TSK_GUMROAD_ACCESS_TOKEN or GUMROAD_ACCESS_TOKEN)" flag:"gumroad-access-token"`
	BaseURL     string        `default:"https://api.gumroad.com/v2" usage:"Gumroad API root" flag:"gumroad-base-url"`
	Timeout     time.Duration `default:"10s" usage:"Gumroad request timeout" flag:"gumroad-timeout"`
}

// CatalogConfig controls catalog caching.
type CatalogConfig struct {
	CacheTTL time.Duration `default:"5m" usage:"How long catalog responses are cached" flag:"catalog-cache-ttl"`
}

// AudioConfig controls audio preview serving.
type AudioConfig struct {
	Dir     string `default:"public/audio" usage:"Directory served under /audio/; empty disables static serving" flag:"audio-dir"`
	BaseURL string `default:"" usage:"Prefix for preview URLs in API responses (e.g. a CDN)" flag:"audio-base-url"`
}

// RateLimitConfig controls the per-client sliding window rate limiter.
type RateLimitConfig struct {
	Max    int           `default:"100" usage:"Max API requests per window"`
	Window time.Duration `default:"1m"  usage:"Rate limit window duration"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins          []string `default:"*" usage:"Allowed CORS origins"`
	AllowCredentials bool     `default:"false" usage:"Allow credentials (cookies, auth headers)" flag:"cors-credentials"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables and YAML config
// files, then applies platform defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "TSK",
		Files:     []string{"config.yaml", "/etc/tsk/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "validate config")
	}
	return &cfg, nil
}

// Validate reports configuration that cannot serve a catalog.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" && c.Gumroad.AccessToken == "" {
		return errors.New("catalog source is required: set TSK_DATABASE_URL or GUMROAD_ACCESS_TOKEN")
	}
	if c.Catalog.CacheTTL < 0 {
		return errors.Errorf("catalog cache TTL %s is negative", c.Catalog.CacheTTL)
	}
	if c.RateLimit.Max < 1 || c.RateLimit.Window <= 0 {
		return errors.Errorf("invalid rate limit %d per %s", c.RateLimit.Max, c.RateLimit.Window)
	}
	return nil
}

// applyPlatformDefaults maps the unprefixed variables set by hosting
// platforms (DATABASE_URL, PORT) and the Gumroad token name used by the
// storefront build onto the TSK_ configuration.
func (c *Config) applyPlatformDefaults() {
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if c.Gumroad.AccessToken == "" {
		c.Gumroad.AccessToken = os.Getenv("GUMROAD_ACCESS_TOKEN")
	}
	if c.Gumroad.BaseURL == "" {
		c.Gumroad.BaseURL = gumroad.DefaultBaseURL
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:8080" {
		c.Addr = "0.0.0.0:" + port
	}
}
