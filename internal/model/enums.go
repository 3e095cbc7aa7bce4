package model

import (
	"fmt"
	"strings"
)

// Difficulty is how hard a job is to play.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyNormal Difficulty = "NORMAL"
	DifficultyHard   Difficulty = "HARD"
)

var difficulties = map[string]Difficulty{
	"쉬움":  DifficultyEasy,
	"보통":  DifficultyNormal,
	"어려움": DifficultyHard,
}

// ParseDifficulty decodes the ControlDifficulty column. An empty value means
// the job has no difficulty rating and yields nil.
func ParseDifficulty(s string) (*Difficulty, error) {
	if s == "" {
		return nil, nil
	}
	d, ok := difficulties[s]
	if !ok {
		return nil, fmt.Errorf("unknown job difficulty %q", s)
	}
	return &d, nil
}

// Tree is the job family a job belongs to.
type Tree string

const (
	TreeArcher  Tree = "ARCHER"
	TreeCleric  Tree = "CLERIC"
	TreeScout   Tree = "SCOUT"
	TreeWarrior Tree = "WARRIOR"
	TreeWizard  Tree = "WIZARD"
)

// ParseTree decodes a job tree name, case-insensitively.
func ParseTree(s string) (Tree, error) {
	switch t := Tree(strings.ToUpper(strings.TrimSpace(s))); t {
	case TreeArcher, TreeCleric, TreeScout, TreeWarrior, TreeWizard:
		return t, nil
	}
	return "", fmt.Errorf("unknown job tree %q", s)
}

// JobType describes a job's role.
type JobType string

const (
	JobTypeAttack         JobType = "ATTACK"
	JobTypeAttackInstall  JobType = "ATTACK_INSTALL"
	JobTypeAttackMobility JobType = "ATTACK_MOBILITY"
	JobTypeAttackSummon   JobType = "ATTACK_SUMMON"
	JobTypeCrafting       JobType = "CRAFTING"
	JobTypeDefense        JobType = "DEFENSE"
	JobTypeDefenseProvoke JobType = "DEFENSE_PROVOKE"
	JobTypeSupport        JobType = "SUPPORT"
	JobTypeSupportControl JobType = "SUPPORT_CONTROL"
	JobTypeSupportParty   JobType = "SUPPORT_PARTY"
)

var jobTypes = map[string]JobType{
	"공격":     JobTypeAttack,
	"설치형 공격": JobTypeAttackInstall,
	"기동형 공격": JobTypeAttackMobility,
	"소환":     JobTypeAttackSummon,
	"제작":     JobTypeCrafting,
	"방어":     JobTypeDefense,
	"도발":     JobTypeDefenseProvoke,
	"지원":     JobTypeSupport,
	"보조":     JobTypeSupport,
	"조련":     JobTypeSupportControl,
	"파티":     JobTypeSupportParty,
}

// ParseJobTypes decodes the comma separated ControlType column. An empty
// column yields nil.
func ParseJobTypes(s string) ([]JobType, error) {
	if s == "" {
		return nil, nil
	}
	var out []JobType
	for _, part := range strings.Split(s, ",") {
		t, ok := jobTypes[strings.TrimSpace(part)]
		if !ok {
			return nil, fmt.Errorf("unknown job type %q", part)
		}
		out = append(out, t)
	}
	return out, nil
}
