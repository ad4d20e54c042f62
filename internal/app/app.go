package app

import (
	"io"
	"log/slog"

	"github.com/vk/buildgridgo/internal/config"
	"github.com/vk/buildgridgo/internal/graph"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	loader config.Loader
	lister graph.Lister
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger. Query results and
// log records both go to outW.
func NewApp(outW io.Writer, cfg *Config, loader config.Loader, lister graph.Lister) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	return &App{
		outW:   outW,
		logger: logger,
		config: cfg,
		loader: loader,
		lister: lister,
	}
}

// Logger returns the application's logger. This is primarily for testing.
func (a *App) Logger() *slog.Logger {
	return a.logger
}
