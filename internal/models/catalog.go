package models

import (
	"gorm.io/datatypes"
)

// Project status, difficulty, domain and type values used by the catalog filters.
const (
	ProjectStatusOpen       = "Open"
	ProjectStatusInProgress = "In Progress"
	ProjectStatusCompleted  = "Completed"

	DifficultyBeginner     = "Beginner"
	DifficultyIntermediate = "Intermediate"
	DifficultyAdvanced     = "Advanced"

	DomainTech      = "Tech"
	DomainMarketing = "Marketing"
	DomainDesign    = "Design"
	DomainBusiness  = "Business"

	ProjectTypeMicroGig = "Micro-Gig"
	ProjectTypeShadow   = "Shadow Project"
)

// Project is a micro-project or shadow project posted by an instructor, alumnus or company.
type Project struct {
	ID           uint                        `gorm:"primaryKey" json:"id"`
	Title        string                      `gorm:"not null;size:255" json:"title"`
	PostedBy     string                      `gorm:"size:255" json:"posted_by"`
	PosterType   string                      `gorm:"size:20" json:"poster_type"`
	PosterAvatar string                      `gorm:"size:255" json:"poster_avatar,omitempty"`
	PosterBio    string                      `gorm:"type:text" json:"poster_bio,omitempty"`
	Skills       datatypes.JSONSlice[string] `json:"skills"`
	Duration     string                      `gorm:"size:50" json:"duration"`
	Reward       string                      `gorm:"size:100" json:"reward"`
	Description  string                      `gorm:"type:text" json:"description"`
	Type         string                      `gorm:"size:30;index" json:"type"`
	Difficulty   string                      `gorm:"size:20;index" json:"difficulty"`
	Domain       string                      `gorm:"size:20;index" json:"domain"`
	Status       string                      `gorm:"size:20;index" json:"status"`
	Objectives   datatypes.JSONSlice[string] `json:"objectives,omitempty"`
	Deliverables datatypes.JSONSlice[string] `json:"deliverables,omitempty"`
	Deadline     string                      `gorm:"size:50" json:"deadline,omitempty"`
}

// TableName specifies the table name for Project model.
func (Project) TableName() string {
	return "projects"
}

// Mentor is an instructor, alumnus or professional available for sessions.
type Mentor struct {
	ID            uint                        `gorm:"primaryKey" json:"id"`
	Name          string                      `gorm:"not null;size:255" json:"name"`
	Avatar        string                      `gorm:"size:255" json:"avatar"`
	Gender        string                      `gorm:"size:10" json:"gender"`
	Title         string                      `gorm:"size:255" json:"title"`
	Company       string                      `gorm:"size:255" json:"company"`
	Field         string                      `gorm:"size:100;index" json:"field"`
	Bio           string                      `gorm:"type:text" json:"bio"`
	Skills        datatypes.JSONSlice[string] `json:"skills"`
	AverageRating float64                     `json:"average_rating"`
}

// TableName specifies the table name for Mentor model.
func (Mentor) TableName() string {
	return "mentors"
}
