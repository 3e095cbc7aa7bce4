package parser

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/tosparser/internal/ctxlog"
	"github.com/specialistvlad/tosparser/internal/formula"
	"github.com/specialistvlad/tosparser/internal/ies"
	"github.com/specialistvlad/tosparser/internal/model"
	"github.com/specialistvlad/tosparser/internal/registry"
)

// Attributes parses ability.ies and the per-job attribute tables.
type Attributes struct {
	env *Env

	// unlocks memoizes rendered unlock formulas by function name.
	unlocks map[string]string
}

// NewAttributes creates the attribute parser.
func NewAttributes(env *Env) *Attributes {
	return &Attributes{env: env, unlocks: make(map[string]string)}
}

// Kind implements Parser.
func (p *Attributes) Kind() string { return p.env.Registries.Attributes.Kind() }

// ParsePrimary registers one attribute per row of the attribute table.
func (p *Attributes) ParsePrimary(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Parsing attributes...", "path", p.env.Paths.Attributes)

	err := ies.Each(p.env.Paths.Attributes, func(rec ies.Record) error {
		sc := rec.Scan()
		attribute := &model.Attribute{
			ID:            sc.Int("ClassID"),
			IDName:        sc.String("ClassName"),
			Name:          p.env.Translator.Translate(sc.String("Name")),
			Description:   strings.TrimSpace(p.env.Translator.Translate(sc.String("Desc"))) + "{nl}",
			Icon:          p.env.Icons.ParseEntityIcon(sc.String("Icon")),
			IsToggleable:  sc.String("AlwaysActive") == "NO",
			LevelMax:      model.LevelUnset,
			UnlockArgs:    map[int]model.UnlockArgs{},
			UpgradePrice:  []float64{},
			SkillCategory: sc.String("SkillCategory"),
			LinkJobs:      []registry.Link[*model.Job]{},
		}
		if err := sc.Err(); err != nil {
			return err
		}
		return p.env.Registries.Attributes.Put(attribute)
	})
	if err != nil {
		return fmt.Errorf("parsing attributes: %w", err)
	}

	logger.Info("Attributes parsed.", "count", p.env.Registries.Attributes.Len())
	return nil
}

// ParseLinks reads every job's attribute table to fill levels, prices,
// unlock conditions and job links, then links skill-specific attributes to
// their skill.
func (p *Attributes) ParseLinks(ctx context.Context) error {
	if err := p.parseLinksJobs(ctx); err != nil {
		return fmt.Errorf("linking jobs to attributes: %w", err)
	}
	if err := p.parseLinksSkills(ctx); err != nil {
		return fmt.Errorf("linking skills to attributes: %w", err)
	}
	return nil
}

func (p *Attributes) parseLinksJobs(ctx context.Context) error {
	ctxlog.FromContext(ctx).Debug("Parsing jobs for attributes...")

	prices, err := formula.LoadModule(p.env.Paths.AttributePrices, formula.AllGlobals)
	if err != nil {
		return err
	}
	defer prices.Close()

	// Unlock scripts call into the game client and are only ever rendered.
	unlocks, err := formula.LoadModule(p.env.Paths.AttributeUnlocks, formula.AllGlobals, formula.SourceOnly())
	if err != nil {
		return err
	}

	attributes := p.env.Registries.Attributes
	jobs := p.env.Registries.Jobs

	return eachJobAttribute(ctx, p.env, func(job *model.Job, rec ies.Record) error {
		sc := rec.Scan()
		className := sc.String("ClassName")
		unlockDesc := sc.String("UnlockDesc")
		levelMax := sc.Int("MaxLevel")
		priceScr := sc.String("ScrCalcPrice")
		unlockScr := sc.String("UnlockScr")
		args := model.UnlockArgs{
			UnlockArgStr: sc.String("UnlockArgStr"),
			UnlockArgNum: sc.String("UnlockArgNum"),
		}
		if err := sc.Err(); err != nil {
			return err
		}

		attribute, err := attributes.GetByName(className)
		if err != nil {
			return err
		}

		required := ""
		if attribute.DescriptionRequired != nil {
			required = *attribute.DescriptionRequired
		}
		required += "{nl}{b}" + p.env.Translator.Translate(unlockDesc) + "{b}"
		attribute.DescriptionRequired = &required
		attribute.LevelMax = levelMax

		if priceScr != "" {
			price, err := upgradePrice(prices, priceScr, attribute.IDName, levelMax)
			if err != nil {
				return err
			}
			attribute.UpgradePrice = price
		}

		if attribute.IsJobWide() {
			attribute.LinkJobs = append(attribute.LinkJobs, jobs.MakeLink(job.IDName))
		}

		if (attribute.Unlock == nil || *attribute.Unlock == "") && unlockScr != "" {
			unlock, err := p.renderUnlock(unlocks, unlockScr)
			if err != nil {
				return err
			}
			if unlock != "" {
				attribute.Unlock = &unlock
			}
		}

		attribute.UnlockArgs[job.ID] = args
		return nil
	})
}

// upgradePrice evaluates the cost formula for levels 1..levelMax. Levels
// that cost nothing are dropped.
func upgradePrice(m *formula.Module, fn, name string, levelMax int) ([]float64, error) {
	price := []float64{}
	for lv := 1; lv <= levelMax; lv++ {
		v, err := m.Invoke(fn, nil, name, lv, levelMax)
		if err != nil {
			return nil, err
		}
		if v > 0 {
			price = append(price, v)
		}
	}
	return price, nil
}

func (p *Attributes) renderUnlock(m *formula.Module, fn string) (string, error) {
	if unlock, ok := p.unlocks[fn]; ok {
		return unlock, nil
	}
	unlock, err := m.RenderSource(fn)
	if err != nil {
		return "", err
	}
	p.unlocks[fn] = unlock
	return unlock, nil
}

func (p *Attributes) parseLinksSkills(ctx context.Context) error {
	ctxlog.FromContext(ctx).Debug("Parsing skills for attributes...")
	skills := p.env.Registries.Skills

	for _, attribute := range p.env.Registries.Attributes.All() {
		if attribute.IsJobWide() {
			attribute.LinkSkill = nil
			continue
		}
		link := skills.MakeLink(attribute.SkillCategory)
		if _, err := link.Resolve(); err != nil {
			return fmt.Errorf("attribute %s: %w", attribute.IDName, err)
		}
		attribute.LinkSkill = &link
	}
	return nil
}

// PruneInactive removes attributes that ended up unreachable: those with
// neither a job nor a skill link, and skill attributes no job declared a
// level for. References to them are stripped from jobs and skills in the
// same pass.
func (p *Attributes) PruneInactive(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Pruning inactive attributes...")
	attributes := p.env.Registries.Attributes

	removed := make(map[string]struct{})
	for _, attribute := range attributes.All() {
		orphan := len(attribute.LinkJobs) == 0 && attribute.LinkSkill == nil
		undeclared := attribute.LinkSkill != nil && attribute.LevelMax == model.LevelUnset
		if !orphan && !undeclared {
			continue
		}
		if err := attributes.Remove(attribute.ID); err != nil {
			return fmt.Errorf("pruning attribute %s: %w", attribute.IDName, err)
		}
		removed[attribute.IDName] = struct{}{}
	}

	if len(removed) > 0 {
		for _, job := range p.env.Registries.Jobs.All() {
			job.LinkAttributes = registry.Without(job.LinkAttributes, removed)
		}
		for _, skill := range p.env.Registries.Skills.All() {
			skill.LinkAttributes = registry.Without(skill.LinkAttributes, removed)
		}
	}

	logger.Info("Inactive attributes pruned.", "removed", len(removed), "remaining", attributes.Len())
	return nil
}
