package model

import "github.com/specialistvlad/tosparser/internal/registry"

// LevelUnset is the LevelMax of an attribute no job has declared yet.
const LevelUnset = -1

// SkillCategoryAll marks an attribute that applies to a whole job rather
// than to a single skill.
const SkillCategoryAll = "All"

// UnlockArgs are the literal arguments one job passes to an attribute's
// unlock formula.
type UnlockArgs struct {
	UnlockArgStr string `json:"UnlockArgStr"`
	UnlockArgNum string `json:"UnlockArgNum"`
}

// Attribute is a passive upgrade bought with attribute points.
type Attribute struct {
	ID          int    `json:"$ID"`
	IDName      string `json:"$ID_NAME"`
	Name        string `json:"Name"`
	Description string `json:"Description"`
	Icon        string `json:"Icon"`

	IsToggleable        bool    `json:"IsToggleable"`
	DescriptionRequired *string `json:"DescriptionRequired"`
	LevelMax            int     `json:"LevelMax"`

	// Unlock is the rendered unlock condition, shared by every job that uses
	// the same unlock formula. UnlockArgs holds each job's arguments to it,
	// keyed by job ID.
	Unlock       *string            `json:"Unlock"`
	UnlockArgs   map[int]UnlockArgs `json:"UnlockArgs"`
	UpgradePrice []float64          `json:"UpgradePrice"`

	// SkillCategory is the raw SkillCategory column: a skill name, "All",
	// or empty.
	SkillCategory string `json:"-"`

	LinkJobs  []registry.Link[*Job]  `json:"Link_Jobs"`
	LinkSkill *registry.Link[*Skill] `json:"Link_Skill"`
}

func (a *Attribute) EntityID() int      { return a.ID }
func (a *Attribute) EntityName() string { return a.IDName }

// IsJobWide reports whether the attribute belongs to a job as a whole
// instead of improving one skill.
func (a *Attribute) IsJobWide() bool {
	return a.SkillCategory == "" || a.SkillCategory == SkillCategoryAll
}
