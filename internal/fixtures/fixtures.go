// Package fixtures loads the embedded seed data: learners, pathway templates,
// projects and mentors.
package fixtures

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/iseven/vnu-connect-x/internal/models"
)

//go:embed data/seed.yaml
var seedYAML []byte

// ErrInvalidFixtures is returned when seed data breaks a model invariant.
var ErrInvalidFixtures = errors.New("invalid fixtures")

// Set is a parsed fixture document.
type Set struct {
	Learners []Learner `yaml:"learners"`
	Pathways []Pathway `yaml:"pathways"`
	Projects []Project `yaml:"projects"`
	Mentors  []Mentor  `yaml:"mentors"`
}

// Learner is the seed form of models.Learner.
type Learner struct {
	ID           uint                 `yaml:"id"`
	Name         string               `yaml:"name"`
	MSSV         string               `yaml:"mssv"`
	Avatar       string               `yaml:"avatar"`
	Gender       string               `yaml:"gender"`
	Verified     bool                 `yaml:"verified"`
	Major        string               `yaml:"major"`
	University   string               `yaml:"university"`
	Year         int                  `yaml:"year"`
	Email        string               `yaml:"email"`
	Bio          string               `yaml:"bio"`
	Connections  int                  `yaml:"connections"`
	XP           int                  `yaml:"xp"`
	Skills       []string             `yaml:"skills"`
	Interests    []string             `yaml:"interests"`
	Achievements []models.Achievement `yaml:"achievements"`
}

// Pathway is a pathway template with the learners enrolled at seed time.
type Pathway struct {
	Key      string    `yaml:"key"`
	Enrolled []uint    `yaml:"enrolled"`
	Title    string    `yaml:"title"`
	Category string    `yaml:"category"`
	Missions []Mission `yaml:"missions"`
}

// Mission is the seed form of models.Mission.
type Mission struct {
	Title             string                  `yaml:"title"`
	Description       string                  `yaml:"description"`
	Status            models.MissionStatus    `yaml:"status"`
	XP                int                     `yaml:"xp"`
	Type              string                  `yaml:"type"`
	Skill             string                  `yaml:"skill"`
	Difficulty        string                  `yaml:"difficulty"`
	Duration          string                  `yaml:"duration"`
	Deadline          string                  `yaml:"deadline"`
	SubmissionTypes   []models.SubmissionKind `yaml:"submission_types"`
	SubmissionContent string                  `yaml:"submission_content"`
	SubmissionFile    string                  `yaml:"submission_file"`
	SubmissionLink    string                  `yaml:"submission_link"`
	MentorFeedback    []models.MentorFeedback `yaml:"mentor_feedback"`
	VerifiedByMentor  bool                    `yaml:"verified_by_mentor"`
	Badge             *models.Achievement     `yaml:"badge"`
}

// Project is the seed form of models.Project.
type Project struct {
	ID           uint     `yaml:"id"`
	Title        string   `yaml:"title"`
	PostedBy     string   `yaml:"posted_by"`
	PosterType   string   `yaml:"poster_type"`
	PosterAvatar string   `yaml:"poster_avatar"`
	PosterBio    string   `yaml:"poster_bio"`
	Skills       []string `yaml:"skills"`
	Duration     string   `yaml:"duration"`
	Reward       string   `yaml:"reward"`
	Description  string   `yaml:"description"`
	Type         string   `yaml:"type"`
	Difficulty   string   `yaml:"difficulty"`
	Domain       string   `yaml:"domain"`
	Status       string   `yaml:"status"`
	Objectives   []string `yaml:"objectives"`
	Deliverables []string `yaml:"deliverables"`
	Deadline     string   `yaml:"deadline"`
}

// Mentor is the seed form of models.Mentor.
type Mentor struct {
	ID            uint     `yaml:"id"`
	Name          string   `yaml:"name"`
	Avatar        string   `yaml:"avatar"`
	Gender        string   `yaml:"gender"`
	Title         string   `yaml:"title"`
	Company       string   `yaml:"company"`
	Field         string   `yaml:"field"`
	Bio           string   `yaml:"bio"`
	Skills        []string `yaml:"skills"`
	AverageRating float64  `yaml:"average_rating"`
}

// Load parses and validates the embedded seed document.
func Load() (*Set, error) {
	return Parse(seedYAML)
}

// Parse decodes a fixture document and validates it.
func Parse(data []byte) (*Set, error) {
	var set Set
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	return &set, nil
}

// Validate checks references and the linear unlock ordering of every pathway.
func (s *Set) Validate() error {
	learnerIDs := make(map[uint]bool, len(s.Learners))
	for _, l := range s.Learners {
		if l.ID == 0 || learnerIDs[l.ID] {
			return fmt.Errorf("%w: learner id %d missing or duplicated", ErrInvalidFixtures, l.ID)
		}
		if l.XP < 0 {
			return fmt.Errorf("%w: learner %d has negative xp", ErrInvalidFixtures, l.ID)
		}
		learnerIDs[l.ID] = true
	}

	keys := make(map[string]bool, len(s.Pathways))
	for _, p := range s.Pathways {
		if p.Key == "" || keys[p.Key] {
			return fmt.Errorf("%w: pathway key %q missing or duplicated", ErrInvalidFixtures, p.Key)
		}
		keys[p.Key] = true

		for _, id := range p.Enrolled {
			if !learnerIDs[id] {
				return fmt.Errorf("%w: pathway %s enrolls unknown learner %d", ErrInvalidFixtures, p.Key, id)
			}
		}
		if err := validateMissions(p); err != nil {
			return err
		}
	}
	return nil
}

func validateMissions(p Pathway) error {
	if len(p.Missions) == 0 {
		return fmt.Errorf("%w: pathway %s has no missions", ErrInvalidFixtures, p.Key)
	}

	for i, m := range p.Missions {
		if !m.Status.Valid() {
			return fmt.Errorf("%w: pathway %s mission %d has status %q", ErrInvalidFixtures, p.Key, i, m.Status)
		}
		if m.XP <= 0 {
			return fmt.Errorf("%w: pathway %s mission %d has non-positive xp", ErrInvalidFixtures, p.Key, i)
		}
		for _, k := range m.SubmissionTypes {
			if !slices.Contains([]models.SubmissionKind{models.SubmissionReflection, models.SubmissionFile, models.SubmissionLink}, k) {
				return fmt.Errorf("%w: pathway %s mission %d accepts unknown kind %q", ErrInvalidFixtures, p.Key, i, k)
			}
		}

		// Only the first mission or one whose predecessor is completed may be open.
		if i == 0 {
			if m.Status == models.MissionLocked {
				return fmt.Errorf("%w: pathway %s starts locked", ErrInvalidFixtures, p.Key)
			}
			continue
		}
		if m.Status != models.MissionLocked && p.Missions[i-1].Status != models.MissionCompleted {
			return fmt.Errorf("%w: pathway %s mission %d is %s before its predecessor is completed",
				ErrInvalidFixtures, p.Key, i, m.Status)
		}
	}
	return nil
}

// LearnerModels converts the seed learners.
func (s *Set) LearnerModels() []models.Learner {
	out := make([]models.Learner, 0, len(s.Learners))
	for _, l := range s.Learners {
		out = append(out, models.Learner{
			ID:           l.ID,
			Name:         l.Name,
			MSSV:         l.MSSV,
			Avatar:       l.Avatar,
			Gender:       l.Gender,
			IsVerified:   l.Verified,
			Major:        l.Major,
			University:   l.University,
			Year:         l.Year,
			Email:        l.Email,
			Bio:          l.Bio,
			Connections:  l.Connections,
			XP:           l.XP,
			Skills:       slices.Clone(l.Skills),
			Interests:    slices.Clone(l.Interests),
			Achievements: slices.Clone(l.Achievements),
		})
	}
	return out
}

// Enrollments returns the seeded pathways for every enrolled learner, in
// document order.
func (s *Set) Enrollments() []models.Pathway {
	var out []models.Pathway
	for _, p := range s.Pathways {
		for _, learnerID := range p.Enrolled {
			out = append(out, p.model(learnerID, false))
		}
	}
	return out
}

// Template returns a fresh copy of the pathway with key for learnerID: the first
// mission unlocked, every other mission locked, and no submissions.
func (s *Set) Template(key string, learnerID uint) (models.Pathway, bool) {
	for _, p := range s.Pathways {
		if p.Key == key {
			return p.model(learnerID, true), true
		}
	}
	return models.Pathway{}, false
}

// TemplateKeys lists the pathway keys in document order.
func (s *Set) TemplateKeys() []string {
	keys := make([]string, 0, len(s.Pathways))
	for _, p := range s.Pathways {
		keys = append(keys, p.Key)
	}
	return keys
}

func (p Pathway) model(learnerID uint, fresh bool) models.Pathway {
	out := models.Pathway{
		LearnerID: learnerID,
		Key:       p.Key,
		Title:     p.Title,
		Category:  p.Category,
		Missions:  make([]models.Mission, 0, len(p.Missions)),
	}

	for i, m := range p.Missions {
		mission := models.Mission{
			Position:        i,
			Title:           m.Title,
			Description:     m.Description,
			Status:          m.Status,
			XP:              m.XP,
			Type:            m.Type,
			Skill:           m.Skill,
			Difficulty:      m.Difficulty,
			Duration:        m.Duration,
			Deadline:        m.Deadline,
			SubmissionTypes: slices.Clone(m.SubmissionTypes),
		}
		if m.Badge != nil {
			b := *m.Badge
			mission.Badge = &b
		}

		if fresh {
			mission.Status = models.MissionLocked
			if i == 0 {
				mission.Status = models.MissionUnlocked
			}
		} else {
			mission.SubmissionContent = m.SubmissionContent
			mission.SubmissionFile = m.SubmissionFile
			mission.SubmissionLink = m.SubmissionLink
			mission.MentorFeedback = slices.Clone(m.MentorFeedback)
			mission.IsVerifiedByMentor = m.VerifiedByMentor
			if m.Status == models.MissionCompleted || m.Status == models.MissionSubmitted {
				submitted := seedTime
				mission.SubmittedAt = &submitted
			}
		}
		out.Missions = append(out.Missions, mission)
	}
	return out
}

var seedTime = time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)

// ProjectModels converts the seed projects.
func (s *Set) ProjectModels() []models.Project {
	out := make([]models.Project, 0, len(s.Projects))
	for _, p := range s.Projects {
		out = append(out, models.Project{
			ID:           p.ID,
			Title:        p.Title,
			PostedBy:     p.PostedBy,
			PosterType:   p.PosterType,
			PosterAvatar: p.PosterAvatar,
			PosterBio:    p.PosterBio,
			Skills:       slices.Clone(p.Skills),
			Duration:     p.Duration,
			Reward:       p.Reward,
			Description:  p.Description,
			Type:         p.Type,
			Difficulty:   p.Difficulty,
			Domain:       p.Domain,
			Status:       p.Status,
			Objectives:   slices.Clone(p.Objectives),
			Deliverables: slices.Clone(p.Deliverables),
			Deadline:     p.Deadline,
		})
	}
	return out
}

// MentorModels converts the seed mentors.
func (s *Set) MentorModels() []models.Mentor {
	out := make([]models.Mentor, 0, len(s.Mentors))
	for _, m := range s.Mentors {
		out = append(out, models.Mentor{
			ID:            m.ID,
			Name:          m.Name,
			Avatar:        m.Avatar,
			Gender:        m.Gender,
			Title:         m.Title,
			Company:       m.Company,
			Field:         m.Field,
			Bio:           m.Bio,
			Skills:        slices.Clone(m.Skills),
			AverageRating: m.AverageRating,
		})
	}
	return out
}
