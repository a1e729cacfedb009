package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/specialistvlad/equigrid/internal/config"
	"github.com/specialistvlad/equigrid/internal/ctxlog"
	"github.com/specialistvlad/equigrid/internal/metrics"
	"github.com/specialistvlad/equigrid/internal/publish"
)

// ErrIncomplete is returned by Solve when RequireComplete is set and at least
// one system did not fully resolve.
var ErrIncomplete = errors.New("not every system resolved")

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW    io.Writer
	outMu   sync.Mutex
	logger  *slog.Logger
	config  *Config
	loader  config.Loader
	metrics *metrics.Metrics

	httpServer *http.Server
}

// NewApp is the constructor for the main application. Reports are written to
// outW and logs to logW.
func NewApp(outW, logW io.Writer, cfg *Config, loader config.Loader) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	return &App{
		outW:    outW,
		logger:  logger,
		config:  cfg,
		loader:  loader,
		metrics: metrics.New(),
	}
}

// Metrics returns the application's metrics. This is primarily for testing.
func (a *App) Metrics() *metrics.Metrics {
	return a.metrics
}

func (a *App) withLogger(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}

// workspace loads the configured paths, adds the inline system and applies
// the system filter.
func (a *App) workspace(ctx context.Context) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)

	model := &config.Model{}
	if len(a.config.Paths) > 0 {
		loaded, err := a.loader.Load(ctx, a.config.Paths...)
		if err != nil {
			return nil, fmt.Errorf("failed to load workspace: %w", err)
		}
		model = loaded
	}

	if len(a.config.Inline) > 0 {
		inline := &config.System{
			Name:      InlineSystem,
			Source:    "command line",
			Equations: strings.Join(a.config.Inline, "\n"),
		}
		if err := model.Add(inline); err != nil {
			return nil, err
		}
	}

	if len(a.config.Systems) > 0 {
		selected, err := model.Select(a.config.Systems...)
		if err != nil {
			return nil, err
		}
		model = selected
	}

	if len(model.Systems) == 0 {
		logger.Warn("Workspace contains no systems.", "paths", a.config.Paths)
	}
	logger.Debug("Workspace loaded.", "systems", model.Names())
	return model, nil
}

// dialPublisher connects the configured publisher, or returns nil when
// publishing is disabled.
func (a *App) dialPublisher(ctx context.Context) (*publish.Client, error) {
	if a.config.Publish.URL == "" {
		return nil, nil
	}
	logger := ctxlog.FromContext(ctx)
	client, err := publish.Dial(ctx, a.config.Publish)
	if err != nil {
		return nil, fmt.Errorf("failed to connect publisher: %w", err)
	}
	logger.Debug("Publisher ready.", "client", client.ID())
	return client, nil
}
