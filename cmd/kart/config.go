package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"

	"github.com/tsksoundkits/storefront/internal/domain/checkout"
	"github.com/tsksoundkits/storefront/internal/gumroad"
	"github.com/tsksoundkits/storefront/internal/session"
)

// Session storage backends.
const (
	backendDir    = "dir"
	backendSQLite = "sqlite"
)

type config struct {
	Session  sessionConfig
	Gumroad  gumroadConfig
	Checkout checkoutConfig
	LogLevel string `default:"warn" usage:"Log level (debug, info, warn, error)"`
}

type sessionConfig struct {
	ID      string `usage:"Session id; defaults to KART_SESSION or the parent process id"`
	Root    string `usage:"Session root directory; defaults to XDG_RUNTIME_DIR"`
	Backend string `default:"dir" usage:"Session storage backend (dir, sqlite)"`
	// SQLitePath defaults to <root>/tsk-kart/sessions.db.
	SQLitePath string `usage:"SQLite session database path"`
}

type gumroadConfig struct {
	AccessToken string        `usage:"Gumroad API access token (or GUMROAD_ACCESS_TOKEN)"`
	BaseURL     string        `default:"https://api.gumroad.com/v2" usage:"Gumroad API root"`
	Timeout     time.Duration `default:"10s" usage:"Gumroad request timeout"`
}

type checkoutConfig struct {
	BaseURL string        `default:"https://gumroad.com" usage:"Checkout host"`
	Stagger time.Duration `default:"500ms" usage:"Delay between checkout pages of a multi-item cart"`
}

// defaultConfigFile returns $XDG_CONFIG_HOME/kart/config.yaml.
func defaultConfigFile() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "kart", "config.yaml")
}

// loadConfig reads KART_ environment variables and the YAML file at path,
// or the default config file when path is empty.
func loadConfig(path string) (*config, error) {
	if path == "" {
		path = defaultConfigFile()
	}
	var files []string
	if path != "" {
		files = []string{path}
	}

	var cfg config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix:        "KART",
		// KART_SESSION is read by session.DefaultID.
		AllowUnknownEnvs: true,
		SkipFlags:        true,
		Files:            files,
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *config) applyDefaults() {
	if c.Session.ID == "" {
		c.Session.ID = session.DefaultID()
	}
	if c.Session.Root == "" {
		c.Session.Root = session.DefaultRoot()
	}
	if c.Session.SQLitePath == "" {
		c.Session.SQLitePath = filepath.Join(c.Session.Root, "tsk-kart", "sessions.db")
	}
	if c.Gumroad.AccessToken == "" {
		c.Gumroad.AccessToken = os.Getenv("GUMROAD_ACCESS_TOKEN")
	}
	if c.Gumroad.BaseURL == "" {
		c.Gumroad.BaseURL = gumroad.DefaultBaseURL
	}
	if c.Checkout.BaseURL == "" {
		c.Checkout.BaseURL = checkout.DefaultBaseURL
	}
}

func (c *config) validate() error {
	switch c.Session.Backend {
	case backendDir, backendSQLite:
	default:
		return errors.Errorf("unknown session backend %q (want %s or %s)", c.Session.Backend, backendDir, backendSQLite)
	}
	if c.Checkout.Stagger < 0 {
		return errors.Errorf("checkout stagger %s is negative", c.Checkout.Stagger)
	}
	return nil
}
