package model

import "github.com/specialistvlad/tosparser/internal/registry"

// Skill is an active or passive ability learned through a job's skill tree.
type Skill struct {
	ID          int    `json:"$ID"`
	IDName      string `json:"$ID_NAME"`
	Name        string `json:"Name"`
	Description string `json:"Description"`
	Icon        string `json:"Icon"`

	LevelMax      int `json:"LevelMax"`
	LevelPerGrade int `json:"LevelPerGrade"`
	UnlockGrade   int `json:"UnlockGrade"`

	LinkAttributes []registry.Link[*Attribute] `json:"Link_Attributes"`
	LinkJob        *registry.Link[*Job]        `json:"Link_Job"`
}

func (s *Skill) EntityID() int      { return s.ID }
func (s *Skill) EntityName() string { return s.IDName }
