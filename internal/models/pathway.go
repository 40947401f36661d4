package models

import (
	"slices"
	"time"

	"gorm.io/datatypes"
)

// MissionStatus is the lifecycle state of a mission.
type MissionStatus string

// MissionStatus constants.
const (
	MissionLocked     MissionStatus = "locked"
	MissionUnlocked   MissionStatus = "unlocked"
	MissionInProgress MissionStatus = "in-progress"
	MissionSubmitted  MissionStatus = "submitted"
	MissionCompleted  MissionStatus = "completed"
)

// Valid reports whether s is a known status.
func (s MissionStatus) Valid() bool {
	switch s {
	case MissionLocked, MissionUnlocked, MissionInProgress, MissionSubmitted, MissionCompleted:
		return true
	}
	return false
}

// Submittable reports whether a mission in this status accepts a submission.
func (s MissionStatus) Submittable() bool {
	return s == MissionUnlocked || s == MissionInProgress
}

// SubmissionKind is a kind of evidence a mission accepts.
type SubmissionKind string

// SubmissionKind constants.
const (
	SubmissionReflection SubmissionKind = "reflection"
	SubmissionFile       SubmissionKind = "file"
	SubmissionLink       SubmissionKind = "link"
)

// MissionType constants.
const (
	MissionTypeConnect = "connect"
	MissionTypeProject = "project"
	MissionTypeLearn   = "learn"
	MissionTypeReflect = "reflect"
)

// PathwayCategory constants.
const (
	CategoryCareer           = "Career"
	CategoryCommunication    = "Communication"
	CategoryCriticalThinking = "Critical Thinking"
	CategoryNetworking       = "Networking"
)

// MentorFeedback is a mentor comment left on a submitted mission.
type MentorFeedback struct {
	MentorName   string    `json:"mentor_name" yaml:"mentor_name" validate:"required,max=255"`
	MentorAvatar string    `json:"mentor_avatar,omitempty" yaml:"mentor_avatar"`
	Comment      string    `json:"comment" yaml:"comment" validate:"required,max=4000"`
	Timestamp    time.Time `json:"timestamp" yaml:"timestamp"`
}

// Pathway is an ordered curriculum of missions owned by one learner.
// Missions unlock strictly linearly: completing position i unlocks position i+1.
type Pathway struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	LearnerID uint      `gorm:"not null;uniqueIndex:idx_learner_pathway_key" json:"learner_id"`
	Key       string    `gorm:"column:pathway_key;not null;size:100;uniqueIndex:idx_learner_pathway_key" json:"key"`
	Title     string    `gorm:"not null;size:255" json:"title"`
	Category  string    `gorm:"size:50;index" json:"category"`
	Missions  []Mission `gorm:"foreignKey:PathwayID" json:"missions"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Pathway model.
func (Pathway) TableName() string {
	return "pathways"
}

// Successor returns the index of the mission unlocked by completing index.
func (p *Pathway) Successor(index int) (int, bool) {
	next := index + 1
	if next >= len(p.Missions) {
		return 0, false
	}
	return next, true
}

// Predecessor returns the index of the mission that gates index.
func (p *Pathway) Predecessor(index int) (int, bool) {
	if index <= 0 || index > len(p.Missions) {
		return 0, false
	}
	return index - 1, true
}

// CompletedCount returns how many missions are completed.
func (p *Pathway) CompletedCount() int {
	n := 0
	for i := range p.Missions {
		if p.Missions[i].Status == MissionCompleted {
			n++
		}
	}
	return n
}

// TotalXP returns the sum of mission rewards in the pathway.
func (p *Pathway) TotalXP() int {
	total := 0
	for i := range p.Missions {
		total += p.Missions[i].XP
	}
	return total
}

// Clone returns a deep copy of the pathway and its missions.
func (p *Pathway) Clone() Pathway {
	c := *p
	c.Missions = make([]Mission, len(p.Missions))
	for i := range p.Missions {
		c.Missions[i] = p.Missions[i].Clone()
	}
	return c
}

// Mission is a unit of work inside a pathway.
type Mission struct {
	ID                 uint                                `gorm:"primaryKey" json:"id"`
	PathwayID          uint                                `gorm:"not null;index;uniqueIndex:idx_pathway_position" json:"pathway_id"`
	Position           int                                 `gorm:"not null;uniqueIndex:idx_pathway_position" json:"position"`
	Title              string                              `gorm:"not null;size:255" json:"title"`
	Description        string                              `gorm:"type:text" json:"description"`
	Status             MissionStatus                       `gorm:"size:20;not null;default:locked" json:"status"`
	XP                 int                                 `gorm:"column:xp;not null" json:"xp"`
	Type               string                              `gorm:"size:20" json:"type"`
	Skill              string                              `gorm:"size:100" json:"skill"`
	Difficulty         string                              `gorm:"size:20" json:"difficulty"`
	Duration           string                              `gorm:"size:50" json:"duration"`
	Deadline           string                              `gorm:"size:50" json:"deadline,omitempty"`
	SubmissionTypes    datatypes.JSONSlice[SubmissionKind] `json:"submission_types"`
	SubmissionID       string                              `gorm:"size:36" json:"submission_id,omitempty"`
	SubmissionContent  string                              `gorm:"type:text" json:"submission_content,omitempty"`
	SubmissionFile     string                              `gorm:"size:255" json:"submission_file,omitempty"`
	SubmissionLink     string                              `gorm:"size:2048" json:"submission_link,omitempty"`
	SubmittedAt        *time.Time                          `json:"submitted_at,omitempty"`
	MentorFeedback     datatypes.JSONSlice[MentorFeedback] `json:"mentor_feedback,omitempty"`
	IsVerifiedByMentor bool                                `gorm:"default:false" json:"is_verified_by_mentor"`
	Badge              *Achievement                        `gorm:"serializer:json;type:text" json:"badge,omitempty"`
}

// TableName specifies the table name for Mission model.
func (Mission) TableName() string {
	return "missions"
}

// Accepts reports whether the mission declares kind as an accepted submission.
func (m *Mission) Accepts(kind SubmissionKind) bool {
	return slices.Contains(m.SubmissionTypes, kind)
}

// Clone returns a deep copy of the mission.
func (m *Mission) Clone() Mission {
	c := *m
	c.SubmissionTypes = slices.Clone(m.SubmissionTypes)
	c.MentorFeedback = slices.Clone(m.MentorFeedback)
	if m.Badge != nil {
		b := *m.Badge
		c.Badge = &b
	}
	if m.SubmittedAt != nil {
		t := *m.SubmittedAt
		c.SubmittedAt = &t
	}
	return c
}
