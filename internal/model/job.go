package model

import "github.com/specialistvlad/tosparser/internal/registry"

// Job is a character class.
type Job struct {
	ID          int    `json:"$ID"`
	IDName      string `json:"$ID_NAME"`
	Name        string `json:"Name"`
	Description string `json:"Description"`
	Icon        string `json:"Icon"`

	// EngName locates the job's attribute table (ability_<EngName>.ies).
	EngName string `json:"-"`

	CircleMax     int         `json:"CircleMax"`
	JobDifficulty *Difficulty `json:"JobDifficulty"`
	JobTree       Tree        `json:"JobTree"`
	JobType       []JobType   `json:"JobType"`
	IsHidden      bool        `json:"IsHidden"`
	IsSecret      bool        `json:"IsSecret"`
	IsStarter     bool        `json:"IsStarter"`
	Rank          int         `json:"Rank"`

	StatCON int `json:"Stat_CON"`
	StatDEX int `json:"Stat_DEX"`
	StatINT int `json:"Stat_INT"`
	StatSPR int `json:"Stat_SPR"`
	StatSTR int `json:"Stat_STR"`

	StatBaseCON int `json:"StatBase_CON"`
	StatBaseDEX int `json:"StatBase_DEX"`
	StatBaseINT int `json:"StatBase_INT"`
	StatBaseSPR int `json:"StatBase_SPR"`
	StatBaseSTR int `json:"StatBase_STR"`

	LinkAttributes []registry.Link[*Attribute] `json:"Link_Attributes"`
	LinkSkills     []registry.Link[*Skill]     `json:"Link_Skills"`
}

func (j *Job) EntityID() int      { return j.ID }
func (j *Job) EntityName() string { return j.IDName }
