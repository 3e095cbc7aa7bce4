package parser

import (
	"context"
	"fmt"

	"github.com/specialistvlad/tosparser/internal/ctxlog"
	"github.com/specialistvlad/tosparser/internal/ies"
	"github.com/specialistvlad/tosparser/internal/model"
	"github.com/specialistvlad/tosparser/internal/registry"
)

// Jobs parses job.ies and the job side of attribute and skill tree tables.
type Jobs struct {
	env *Env
}

// NewJobs creates the job parser.
func NewJobs(env *Env) *Jobs {
	return &Jobs{env: env}
}

// Kind implements Parser.
func (p *Jobs) Kind() string { return p.env.Registries.Jobs.Kind() }

// ParsePrimary registers one job per row of the job table.
func (p *Jobs) ParsePrimary(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Parsing jobs...", "path", p.env.Paths.Jobs)

	err := ies.Each(p.env.Paths.Jobs, func(rec ies.Record) error {
		job, err := p.newJob(rec)
		if err != nil {
			return err
		}
		return p.env.Registries.Jobs.Put(job)
	})
	if err != nil {
		return fmt.Errorf("parsing jobs: %w", err)
	}

	logger.Info("Jobs parsed.", "count", p.env.Registries.Jobs.Len())
	return nil
}

func (p *Jobs) newJob(rec ies.Record) (*model.Job, error) {
	sc := rec.Scan()
	job := &model.Job{
		ID:          sc.Int("ClassID"),
		IDName:      sc.String("ClassName"),
		Name:        p.env.Translator.Translate(sc.String("Name")),
		Description: p.env.Translator.Translate(sc.String("Caption1")),
		Icon:        p.env.Icons.ParseEntityIcon(sc.String("Icon")),
		EngName:     sc.String("EngName"),
		CircleMax:   sc.Int("MaxCircle"),
		IsHidden:    sc.String("HiddenJob") == "YES",
		Rank:        sc.Int("Rank"),
		StatCON:     sc.Int("CON"),
		StatDEX:     sc.Int("DEX"),
		StatINT:     sc.Int("INT"),
		StatSPR:     sc.Int("MNA"),
		StatSTR:     sc.Int("STR"),

		LinkAttributes: []registry.Link[*model.Attribute]{},
		LinkSkills:     []registry.Link[*model.Skill]{},
	}
	job.IsSecret = job.IsHidden && sc.String("PreFunction") != ""
	job.IsStarter = job.Rank == 1

	var err error
	if job.JobDifficulty, err = model.ParseDifficulty(sc.String("ControlDifficulty")); err != nil {
		sc.Fail(rec.Errorf("ControlDifficulty", "%v", err))
	}
	if job.JobTree, err = model.ParseTree(sc.String("CtrlType")); err != nil {
		sc.Fail(rec.Errorf("CtrlType", "%v", err))
	}
	if job.JobType, err = model.ParseJobTypes(sc.String("ControlType")); err != nil {
		sc.Fail(rec.Errorf("ControlType", "%v", err))
	}

	if err := sc.Err(); err != nil {
		return nil, err
	}
	return job, nil
}

// ParseStats fills the base stats of every job from the per-tree stat
// table. One row applies to every job of its tree; rows without a tree name
// are skipped.
func (p *Jobs) ParseStats(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Parsing base stats for jobs...", "path", p.env.Paths.JobStats)

	jobs := p.env.Registries.Jobs.All()
	updated := 0

	err := ies.Each(p.env.Paths.JobStats, func(rec ies.Record) error {
		className, err := rec.String("ClassName")
		if err != nil {
			return err
		}
		if className == "" {
			return nil
		}
		tree, err := model.ParseTree(className)
		if err != nil {
			return rec.Errorf("ClassName", "%v", err)
		}

		sc := rec.Scan()
		con, dex, intl, spr, str := sc.Int("CON"), sc.Int("DEX"), sc.Int("INT"), sc.Int("MNA"), sc.Int("STR")
		if err := sc.Err(); err != nil {
			return err
		}

		for _, job := range jobs {
			if job.JobTree != tree {
				continue
			}
			job.StatBaseCON = con
			job.StatBaseDEX = dex
			job.StatBaseINT = intl
			job.StatBaseSPR = spr
			job.StatBaseSTR = str
			updated++
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("parsing job base stats: %w", err)
	}

	logger.Info("Job base stats parsed.", "jobs_updated", updated)
	return nil
}

// ParseLinks links every job to its job-wide attributes and to the skills
// of its skill tree.
func (p *Jobs) ParseLinks(ctx context.Context) error {
	if err := p.parseLinksAttributes(ctx); err != nil {
		return fmt.Errorf("linking attributes to jobs: %w", err)
	}
	if err := p.parseLinksSkills(ctx); err != nil {
		return fmt.Errorf("linking skills to jobs: %w", err)
	}
	return nil
}

func (p *Jobs) parseLinksAttributes(ctx context.Context) error {
	ctxlog.FromContext(ctx).Debug("Parsing attributes for jobs...")
	attributes := p.env.Registries.Attributes

	return eachJobAttribute(ctx, p.env, func(job *model.Job, rec ies.Record) error {
		className, err := rec.String("ClassName")
		if err != nil {
			return err
		}
		attribute, err := attributes.GetByName(className)
		if err != nil {
			return err
		}
		if attribute.IsJobWide() {
			job.LinkAttributes = append(job.LinkAttributes, attributes.MakeLink(attribute.IDName))
		}
		return nil
	})
}

func (p *Jobs) parseLinksSkills(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Parsing skills for jobs...", "path", p.env.Paths.SkillTree)
	skills := p.env.Registries.Skills

	return ies.Each(p.env.Paths.SkillTree, func(rec ies.Record) error {
		sc := rec.Scan()
		skillName, className := sc.String("SkillName"), sc.String("ClassName")
		if err := sc.Err(); err != nil {
			return err
		}

		// Discarded skill variants are left out of the skill table.
		if !skills.Has(skillName) {
			logger.Debug("Skill tree references unknown skill, skipping.", "skill", skillName)
			return nil
		}

		job, err := p.env.Registries.Jobs.GetByName(JobKey(className))
		if err != nil {
			return err
		}
		job.LinkSkills = append(job.LinkSkills, skills.MakeLink(skillName))
		return nil
	})
}
