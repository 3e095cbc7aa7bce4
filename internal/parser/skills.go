package parser

import (
	"context"
	"fmt"

	"github.com/specialistvlad/tosparser/internal/ctxlog"
	"github.com/specialistvlad/tosparser/internal/ies"
	"github.com/specialistvlad/tosparser/internal/model"
	"github.com/specialistvlad/tosparser/internal/registry"
)

// Skills parses skill.ies and the skill side of the skill tree.
type Skills struct {
	env *Env
}

// NewSkills creates the skill parser.
func NewSkills(env *Env) *Skills {
	return &Skills{env: env}
}

// Kind implements Parser.
func (p *Skills) Kind() string { return p.env.Registries.Skills.Kind() }

// ParsePrimary registers one skill per row of the skill table.
func (p *Skills) ParsePrimary(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Parsing skills...", "path", p.env.Paths.Skills)

	err := ies.Each(p.env.Paths.Skills, func(rec ies.Record) error {
		sc := rec.Scan()
		skill := &model.Skill{
			ID:             sc.Int("ClassID"),
			IDName:         sc.String("ClassName"),
			Name:           p.env.Translator.Translate(sc.String("Name")),
			Description:    p.env.Translator.Translate(sc.String("Caption")),
			Icon:           p.env.Icons.ParseEntityIcon(sc.String("Icon")),
			LinkAttributes: []registry.Link[*model.Attribute]{},
		}
		if err := sc.Err(); err != nil {
			return err
		}
		return p.env.Registries.Skills.Put(skill)
	})
	if err != nil {
		return fmt.Errorf("parsing skills: %w", err)
	}

	logger.Info("Skills parsed.", "count", p.env.Registries.Skills.Len())
	return nil
}

// ParseLinks links each skill to the job whose tree teaches it and to the
// attributes that improve it.
func (p *Skills) ParseLinks(ctx context.Context) error {
	if err := p.parseLinksJobs(ctx); err != nil {
		return fmt.Errorf("linking jobs to skills: %w", err)
	}
	if err := p.parseLinksAttributes(ctx); err != nil {
		return fmt.Errorf("linking attributes to skills: %w", err)
	}
	return nil
}

func (p *Skills) parseLinksJobs(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Parsing jobs for skills...", "path", p.env.Paths.SkillTree)

	return ies.Each(p.env.Paths.SkillTree, func(rec ies.Record) error {
		sc := rec.Scan()
		className := sc.String("ClassName")
		skillName := sc.String("SkillName")
		levelMax := sc.Int("MaxLevel")
		unlockGrade := sc.Int("UnlockGrade")
		levelPerGrade := sc.Int("LevelPerGrade")
		if err := sc.Err(); err != nil {
			return err
		}

		skill, err := p.env.Registries.Skills.GetByName(skillName)
		if err != nil {
			logger.Debug("Skill tree references unknown skill, skipping.", "skill", skillName)
			return nil
		}

		jobName := JobKey(className)
		if _, err := p.env.Registries.Jobs.GetByName(jobName); err != nil {
			return err
		}
		link := p.env.Registries.Jobs.MakeLink(jobName)
		skill.LinkJob = &link
		skill.LevelMax = levelMax
		skill.UnlockGrade = unlockGrade
		skill.LevelPerGrade = levelPerGrade
		return nil
	})
}

func (p *Skills) parseLinksAttributes(ctx context.Context) error {
	ctxlog.FromContext(ctx).Debug("Parsing attributes for skills...")
	attributes := p.env.Registries.Attributes

	for _, attribute := range attributes.All() {
		if attribute.LinkSkill == nil {
			continue
		}
		skill, err := attribute.LinkSkill.Resolve()
		if err != nil {
			return fmt.Errorf("attribute %s: %w", attribute.IDName, err)
		}
		skill.LinkAttributes = append(skill.LinkAttributes, attributes.MakeLink(attribute.IDName))
	}
	return nil
}
