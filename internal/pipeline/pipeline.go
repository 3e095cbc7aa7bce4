// Package pipeline runs the parsers in dependency order and hands the
// finished registries to the output writer.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/specialistvlad/tosparser/internal/ctxlog"
	"github.com/specialistvlad/tosparser/internal/output"
	"github.com/specialistvlad/tosparser/internal/parser"
)

// Pipeline owns the registries of one run and the parsers that fill them.
type Pipeline struct {
	env        *parser.Env
	jobs       *parser.Jobs
	attributes *parser.Attributes
	skills     *parser.Skills
}

// New creates a pipeline over env. If env has no registries, fresh ones are created.
func New(env *parser.Env) *Pipeline {
	if env.Registries == nil {
		env.Registries = parser.NewRegistries()
	}
	return &Pipeline{
		env:        env,
		jobs:       parser.NewJobs(env),
		attributes: parser.NewAttributes(env),
		skills:     parser.NewSkills(env),
	}
}

// Registries returns the registries the pipeline populates.
func (p *Pipeline) Registries() *parser.Registries { return p.env.Registries }

type phase struct {
	name string
	run  func(context.Context) error
}

// phases is the fixed run order. Every primary pass completes before any
// link pass reads another type's registry, and pruning runs last.
func (p *Pipeline) phases() []phase {
	return []phase{
		{"jobs.primary", p.jobs.ParsePrimary},
		{"jobs.stats", p.jobs.ParseStats},
		{"attributes.primary", p.attributes.ParsePrimary},
		{"skills.primary", p.skills.ParsePrimary},
		{"jobs.links", p.jobs.ParseLinks},
		{"attributes.links", p.attributes.ParseLinks},
		{"skills.links", p.skills.ParseLinks},
		{"attributes.prune", p.attributes.PruneInactive},
	}
}

// Run executes every phase and stops at the first error, or when ctx is
// cancelled between phases. After a failed run the registries are partially
// populated and must not be written.
func (p *Pipeline) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	start := time.Now()

	for _, ph := range p.phases() {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("phase %s: %w", ph.name, err)
		}
		phaseCtx := ctxlog.With(ctx, "phase", ph.name)
		ctxlog.FromContext(phaseCtx).Debug("Phase started.")
		if err := ph.run(phaseCtx); err != nil {
			return fmt.Errorf("phase %s: %w", ph.name, err)
		}
	}

	regs := p.env.Registries
	logger.Info("Parsing finished.",
		"jobs", regs.Jobs.Len(),
		"attributes", regs.Attributes.Len(),
		"skills", regs.Skills.Len(),
		"elapsed", time.Since(start).String(),
	)
	return nil
}

// Documents returns the output documents for the current registries: one
// per entity type plus a name-to-ID index of all of them.
func (p *Pipeline) Documents() []output.Document {
	regs := p.env.Registries
	return []output.Document{
		output.FromRegistry(regs.Jobs),
		output.FromRegistry(regs.Attributes),
		output.FromRegistry(regs.Skills),
		output.Index(regs.Jobs, regs.Attributes, regs.Skills),
	}
}
