package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/thenoetrevino/listctl/internal/codec"
	"github.com/thenoetrevino/listctl/internal/config"
	"github.com/thenoetrevino/listctl/internal/listservice"
	"github.com/thenoetrevino/listctl/internal/listservice/local"
	"github.com/thenoetrevino/listctl/internal/logging"
	"github.com/thenoetrevino/listctl/internal/resolver"
	"github.com/thenoetrevino/listctl/internal/schemacache"
	"github.com/thenoetrevino/listctl/internal/user"
)

// Backends selectable with --backend
const (
	BackendHTTP  = "http"
	BackendLocal = "local"
)

// ErrNoToken is returned when the http backend has no credential
var ErrNoToken = errors.New("no API token")

// Options selects how the CLI reaches the List Service
type Options struct {
	Backend string
	DBPath  string
}

// CLI represents the CLI application context
type CLI struct {
	Config   *config.Config
	Client   listservice.Client
	Cache    *schemacache.Store
	Resolver *resolver.Resolver
	Builder  *codec.Builder
	Logger   *slog.Logger

	closer func() error
}

// NewCLI loads configuration and wires the List Service client, schema cache,
// resolver and field builder
func NewCLI(ctx context.Context, opts Options) (*CLI, error) {
	cfg, err := config.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logging.Init(cfg.LogLevel); err != nil {
		slog.Debug("file logging unavailable", "error", err)
	}
	logger := logging.Logger.With("component", "cli")

	var (
		client listservice.Client
		closer func() error
	)
	switch opts.Backend {
	case "", BackendHTTP:
		token := cfg.Token()
		if token == "" {
			return nil, fmt.Errorf("%w: set %s", ErrNoToken, cfg.TokenEnv)
		}
		client = listservice.NewHTTPClient(cfg.APIURL, token, logging.Logger.With("component", "listservice"))
	case BackendLocal:
		path := opts.DBPath
		if path == "" {
			base, err := cfg.BaseDir()
			if err != nil {
				return nil, err
			}
			path = filepath.Join(base, cfg.Cache.AppDir, "lists.db")
		}
		svc, err := local.Open(ctx, path, logging.Logger.With("component", "local"))
		if err != nil {
			return nil, fmt.Errorf("failed to open local list service: %w", err)
		}
		client = svc
		closer = svc.Close
	default:
		return nil, fmt.Errorf("unknown backend %q (must be: %s, %s)", opts.Backend, BackendHTTP, BackendLocal)
	}

	cache, err := schemacache.New(cfg, logging.Logger.With("component", "schemacache"))
	if err != nil {
		if closer != nil {
			_ = closer()
		}
		return nil, err
	}

	c := New(cfg, client, cache, logger)
	c.closer = closer
	return c, nil
}

// New assembles a CLI from already-built parts
func New(cfg *config.Config, client listservice.Client, cache *schemacache.Store, logger *slog.Logger) *CLI {
	if logger == nil {
		logger = slog.Default()
	}
	res := resolver.New(client, cache, logger.With("component", "resolver"))
	if cfg.SampleSize > 0 {
		res.SampleSize = cfg.SampleSize
	}
	return &CLI{
		Config:   cfg,
		Client:   client,
		Cache:    cache,
		Resolver: res,
		Builder: &codec.Builder{
			Users:      client,
			UserPolicy: user.ParsePolicy(cfg.UserMatch),
			RatingMax:  cfg.RatingMax,
		},
		Logger: logger,
	}
}

// Close cleans up CLI resources
func (c *CLI) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer()
}
