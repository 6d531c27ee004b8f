package main

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tsksoundkits/storefront/internal/analytics"
	"github.com/tsksoundkits/storefront/internal/domain/cart"
	"github.com/tsksoundkits/storefront/internal/domain/catalog"
	"github.com/tsksoundkits/storefront/internal/gumroad"
	"github.com/tsksoundkits/storefront/internal/session"
)

// commandContext carries what the commands share: configuration, the
// logger and the cart of the current session.
type commandContext struct {
	configFlag  *string
	sessionFlag *string

	configOnce sync.Once
	config     *config
	configErr  error

	// Overridable by tests.
	stdin    io.Reader
	isTTY    func() bool
	openURL  func(url string) error
	storage  cart.Storage
	products catalog.Provider
}

func newCommandContext(configFlag, sessionFlag *string) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		sessionFlag: sessionFlag,
		isTTY:       stdinIsTerminal,
		openURL:     openBrowser,
	}
}

func (c *commandContext) ensureConfig() (*config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, err := loadConfig(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.sessionFlag != nil && strings.TrimSpace(*c.sessionFlag) != "" {
			cfg.Session.ID = strings.TrimSpace(*c.sessionFlag)
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// logger returns a console logger writing to w at the configured level.
func (c *commandContext) logger(w io.Writer) *zap.Logger {
	level := zapcore.WarnLevel
	if c.config != nil {
		if l, err := zapcore.ParseLevel(c.config.LogLevel); err == nil {
			level = l
		}
	}
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), level)
	return zap.New(core)
}

// cartSession is the cart of the current terminal session, wired to the
// analytics sink.
type cartSession struct {
	id      string
	bus     *cart.Bus
	service *cart.Service
	close   func() error
}

// withSession opens the session storage, runs fn and closes the storage.
// The logger is injected into the context passed to fn.
func (c *commandContext) withSession(ctx context.Context, stderr io.Writer, fn func(ctx context.Context, s *cartSession) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	lg := c.logger(stderr)
	defer func() { _ = lg.Sync() }()
	ctx = zctx.Base(ctx, lg)

	s, err := c.openSession(ctx, cfg, lg)
	if err != nil {
		return err
	}
	defer func() {
		if err := s.close(); err != nil {
			lg.Warn("Close session storage", zap.Error(err))
		}
	}()
	return fn(ctx, s)
}

func (c *commandContext) openSession(ctx context.Context, cfg *config, lg *zap.Logger) (*cartSession, error) {
	storage, closeFn, err := c.openStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	bus := &cart.Bus{}
	sink, err := analytics.New(lg.Named("analytics"), noop.NewMeterProvider())
	if err != nil {
		_ = closeFn()
		return nil, errors.Wrap(err, "create analytics sink")
	}
	sink.Attach(bus)

	return &cartSession{
		id:      cfg.Session.ID,
		bus:     bus,
		service: cart.NewService(cart.NewStore(storage, bus)),
		close:   closeFn,
	}, nil
}

func (c *commandContext) openStorage(ctx context.Context, cfg *config) (cart.Storage, func() error, error) {
	if c.storage != nil {
		return c.storage, func() error { return nil }, nil
	}
	switch cfg.Session.Backend {
	case backendSQLite:
		db, err := session.OpenSQLite(ctx, cfg.Session.SQLitePath)
		if err != nil {
			return nil, nil, errors.Wrap(err, "open session database")
		}
		return db.Session(cfg.Session.ID), db.Close, nil
	default:
		dir, err := session.OpenDir(session.DirFor(cfg.Session.Root, cfg.Session.ID))
		if err != nil {
			return nil, nil, errors.Wrap(err, "open session dir")
		}
		return dir, func() error { return nil }, nil
	}
}

// catalog returns the product catalog. It needs a Gumroad token.
func (c *commandContext) catalog() (catalog.Provider, error) {
	if c.products != nil {
		return c.products, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Gumroad.AccessToken == "" {
		return nil, errors.New("catalog needs a Gumroad token: set KART_GUMROAD_ACCESS_TOKEN or GUMROAD_ACCESS_TOKEN")
	}
	client := gumroad.New(cfg.Gumroad.AccessToken,
		gumroad.WithBaseURL(cfg.Gumroad.BaseURL),
		gumroad.WithHTTPClient(&http.Client{Timeout: cfg.Gumroad.Timeout}),
	)
	return catalog.NewFallback(client), nil
}

// withLogger returns the command context carrying the CLI logger.
func (c *commandContext) withLogger(cmd *cobra.Command) (context.Context, error) {
	if _, err := c.ensureConfig(); err != nil {
		return nil, err
	}
	return zctx.Base(cmd.Context(), c.logger(cmd.ErrOrStderr())), nil
}
