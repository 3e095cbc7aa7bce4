package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/specialistvlad/tosparser/internal/ctxlog"
	"github.com/specialistvlad/tosparser/internal/output"
	"github.com/specialistvlad/tosparser/internal/parser"
	"github.com/specialistvlad/tosparser/internal/pipeline"
)

// Run parses the configured region and writes its documents. Nothing is
// written unless every parsing phase succeeded.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.With(ctxlog.WithLogger(ctx, a.logger), "run_id", uuid.NewString())
	logger := ctxlog.FromContext(ctx)
	logger.Debug("App.Run method started.")

	l, err := a.layout(ctx)
	if err != nil {
		return err
	}
	translator, err := a.translator()
	if err != nil {
		return err
	}
	icons, err := a.icons()
	if err != nil {
		return err
	}

	logger.Info("Parsing region...", "region", l.Region, "input_dir", l.InputDir)
	p := pipeline.New(&parser.Env{
		Paths:      l.Paths,
		Translator: translator,
		Icons:      icons,
	})
	if err := p.Run(ctx); err != nil {
		return fmt.Errorf("parsing %s failed: %w", l.Region, err)
	}

	if err := output.Write(ctx, l.OutputDir, p.Documents()...); err != nil {
		return fmt.Errorf("writing documents failed: %w", err)
	}
	logger.Info("Region parsed.", "region", l.Region, "output_dir", l.OutputDir, "icons", len(icons.Referenced()))

	logger.Debug("App.Run method finished.")
	return nil
}
