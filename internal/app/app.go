package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/tosparser/internal/assets"
	"github.com/specialistvlad/tosparser/internal/config"
	"github.com/specialistvlad/tosparser/internal/ctxlog"
	"github.com/specialistvlad/tosparser/internal/layout"
	"github.com/specialistvlad/tosparser/internal/translation"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	settings *config.Settings
}

// NewApp is the constructor for the main application. It returns an App
// with its own isolated logger writing to outW.
func NewApp(outW io.Writer, settings *config.Settings) *App {
	logger := newLogger(settings.Logging.Level, settings.Logging.Format, outW)
	logger.Debug("Logger configured successfully.")

	return &App{
		outW:     outW,
		logger:   logger,
		settings: settings,
	}
}

// Layout resolves the layout of the configured region. An output_dir
// setting takes precedence over the manifest's.
func (a *App) Layout(ctx context.Context) (*layout.Layout, error) {
	return a.layout(ctxlog.WithLogger(ctx, a.logger))
}

func (a *App) layout(ctx context.Context) (*layout.Layout, error) {
	l, err := layout.Load(ctx, a.settings.Layout, a.settings.Region)
	if err != nil {
		return nil, fmt.Errorf("failed to load layout: %w", err)
	}
	if a.settings.OutputDir != "" {
		l.OutputDir = a.settings.OutputDir
	}
	return l, nil
}

// PrintLayout writes every resolved path of the configured region to the
// app's output.
func (a *App) PrintLayout(ctx context.Context) error {
	l, err := a.Layout(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.outW, "# region %s, manifest %s\n", l.Region, l.Manifest)
	for _, e := range l.Entries() {
		fmt.Fprintf(a.outW, "%-28s %s\n", e.Name, e.Path)
	}
	return nil
}

func (a *App) translator() (*translation.Table, error) {
	if a.settings.Translations == "" {
		a.logger.Debug("No translations configured, keys are kept as is.")
		return translation.Identity(), nil
	}
	t, err := translation.Load(a.settings.Translations)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("Translations loaded.", "path", a.settings.Translations, "count", t.Count())
	return t, nil
}

func (a *App) icons() (*assets.IconTable, error) {
	if a.settings.Icons == "" {
		return assets.NewIconTable(), nil
	}
	t, err := assets.LoadIconTable(a.settings.Icons)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("Icon aliases loaded.", "path", a.settings.Icons, "count", t.Count())
	return t, nil
}
