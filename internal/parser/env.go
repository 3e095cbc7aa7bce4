package parser

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/tosparser/internal/ctxlog"
	"github.com/specialistvlad/tosparser/internal/ies"
	"github.com/specialistvlad/tosparser/internal/model"
	"github.com/specialistvlad/tosparser/internal/registry"
)

// Translator returns the localized text for a string table key.
type Translator interface {
	Translate(key string) string
}

// IconResolver maps a raw icon column to an asset reference for the web front-end.
type IconResolver interface {
	ParseEntityIcon(raw string) string
}

// Parser is implemented by every per-type parser.
type Parser interface {
	Kind() string
	ParsePrimary(ctx context.Context) error
	ParseLinks(ctx context.Context) error
}

// Paths are the resolved locations of every table and script the parsers read.
type Paths struct {
	Jobs             string
	JobStats         string
	SkillTree        string
	Skills           string
	Attributes       string
	JobAttributesDir string
	AttributePrices  string
	AttributeUnlocks string
}

// JobAttributes is the attribute table of the job with the given EngName.
func (p Paths) JobAttributes(engName string) string {
	return filepath.Join(p.JobAttributesDir, "ability_"+engName+".ies")
}

// Registries holds one registry per entity type.
type Registries struct {
	Jobs       *registry.Registry[*model.Job]
	Attributes *registry.Registry[*model.Attribute]
	Skills     *registry.Registry[*model.Skill]
}

// NewRegistries creates empty registries.
func NewRegistries() *Registries {
	return &Registries{
		Jobs:       registry.New[*model.Job]("jobs"),
		Attributes: registry.New[*model.Attribute]("attributes"),
		Skills:     registry.New[*model.Skill]("skills"),
	}
}

// Env is what every parser needs: where to read, where to register, and the
// collaborators used to decorate entities.
type Env struct {
	Paths      Paths
	Registries *Registries
	Translator Translator
	Icons      IconResolver
}

// JobKey derives a job's name from a composite skill tree class name by
// keeping its first two underscore separated segments.
func JobKey(className string) string {
	parts := strings.SplitN(className, "_", 3)
	if len(parts) < 2 {
		return className
	}
	return parts[0] + "_" + parts[1]
}

// eachJobAttribute walks the job table and, for every job that ships an
// attribute table, calls fn for each row of it. Jobs still in development
// have no attribute table and are skipped.
func eachJobAttribute(ctx context.Context, env *Env, fn func(job *model.Job, rec ies.Record) error) error {
	logger := ctxlog.FromContext(ctx)

	return ies.Each(env.Paths.Jobs, func(jobRec ies.Record) error {
		className, err := jobRec.String("ClassName")
		if err != nil {
			return err
		}
		engName, err := jobRec.String("EngName")
		if err != nil {
			return err
		}
		job, err := env.Registries.Jobs.GetByName(className)
		if err != nil {
			return err
		}

		err = ies.Each(env.Paths.JobAttributes(engName), func(rec ies.Record) error {
			return fn(job, rec)
		})
		if errors.Is(err, ies.ErrSourceNotFound) {
			logger.Debug("Job has no attribute table, skipping.", "job", className, "eng_name", engName)
			return nil
		}
		if err != nil {
			return fmt.Errorf("job %s: %w", className, err)
		}
		return nil
	})
}
