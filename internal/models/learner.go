// Package models defines domain models for the VNU-CONNECT X progression service.
package models

import (
	"slices"
	"time"

	"gorm.io/datatypes"
)

// Achievement is a titled reward record. Title is the identity within a learner's list.
type Achievement struct {
	Icon        string `json:"icon" yaml:"icon"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

// Learner represents a student profile and its accumulated progression.
type Learner struct {
	ID           uint                             `gorm:"primaryKey" json:"id"`
	Name         string                           `gorm:"not null;size:255" json:"name"`
	MSSV         string                           `gorm:"column:mssv;uniqueIndex;size:20" json:"mssv"`
	Avatar       string                           `gorm:"size:255" json:"avatar"`
	Gender       string                           `gorm:"size:10" json:"gender"`
	IsVerified   bool                             `gorm:"default:false" json:"is_verified"`
	Major        string                           `gorm:"size:255;index" json:"major"`
	University   string                           `gorm:"size:255" json:"university,omitempty"`
	Year         int                              `json:"year,omitempty"`
	Email        string                           `gorm:"size:255" json:"email,omitempty"`
	Bio          string                           `gorm:"type:text" json:"bio,omitempty"`
	Connections  int                              `gorm:"default:0" json:"connections"`
	XP           int                              `gorm:"column:xp;not null;default:0" json:"xp"`
	Skills       datatypes.JSONSlice[string]      `json:"skills"`
	Achievements datatypes.JSONSlice[Achievement] `json:"achievements"`
	Interests    datatypes.JSONSlice[string]      `json:"interests,omitempty"`
	CreatedAt    time.Time                        `json:"created_at"`
	UpdatedAt    time.Time                        `json:"updated_at"`
}

// TableName specifies the table name for Learner model.
func (Learner) TableName() string {
	return "learners"
}

// HasSkill reports whether the skill is already in the learner's skill set.
func (l *Learner) HasSkill(skill string) bool {
	return slices.Contains(l.Skills, skill)
}

// HasAchievement reports whether an achievement with the given title is held.
func (l *Learner) HasAchievement(title string) bool {
	return slices.ContainsFunc(l.Achievements, func(a Achievement) bool {
		return a.Title == title
	})
}

// Clone returns a deep copy; slices are not shared with the receiver.
func (l *Learner) Clone() Learner {
	c := *l
	c.Skills = slices.Clone(l.Skills)
	c.Achievements = slices.Clone(l.Achievements)
	c.Interests = slices.Clone(l.Interests)
	return c
}
