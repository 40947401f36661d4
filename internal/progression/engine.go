package progression

import (
	"fmt"
	"time"

	"github.com/iseven/vnu-connect-x/internal/models"
)

// Summary describes one completion for display: the mission as completed,
// the learner's new XP and the levels before and after.
type Summary struct {
	Mission  models.Mission `json:"mission"`
	NewXP    int            `json:"new_xp"`
	OldLevel int            `json:"old_level"`
	NewLevel int            `json:"new_level"`
}

// LeveledUp reports whether the completion crossed a level threshold.
func (s Summary) LeveledUp() bool {
	return s.NewLevel > s.OldLevel
}

// Result is the full outcome of CompleteMission. The inputs are never modified;
// Pathways and Learner are updated copies.
type Result struct {
	Pathways []models.Pathway
	Learner  models.Learner
	Summary  Summary

	PathwayIndex  int
	MissionIndex  int
	UnlockedIndex int // -1 when nothing was unlocked
	SkillAdded    bool
	BadgeAwarded  *models.Achievement
}

// Engine applies mission events against a level table.
type Engine struct {
	levels *Table
	now    func() time.Time
}

// NewEngine creates an engine using levels, or DefaultTable when levels is nil.
func NewEngine(levels *Table) *Engine {
	if levels == nil {
		levels = DefaultTable
	}
	return &Engine{levels: levels, now: time.Now}
}

// WithClock returns a copy of the engine that stamps submissions with now.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	cp := *e
	cp.now = now
	return &cp
}

// Levels returns the table the engine resolves against.
func (e *Engine) Levels() *Table {
	return e.levels
}

// CompleteMission applies a submission to the mission at missionIndex of the
// pathway identified by pathwayID. On any error nothing is returned and the
// inputs are untouched.
func (e *Engine) CompleteMission(
	pathways []models.Pathway,
	learner *models.Learner,
	pathwayID uint,
	missionIndex int,
	sub Submission,
) (*Result, error) {
	pIdx, err := locate(pathways, pathwayID, missionIndex)
	if err != nil {
		return nil, err
	}

	target := &pathways[pIdx].Missions[missionIndex]
	if !target.Status.Submittable() {
		return nil, fmt.Errorf("%w: mission %d of pathway %d is %s",
			ErrMissionNotSubmittable, missionIndex, pathwayID, target.Status)
	}

	if err := ValidateSubmission(target, sub); err != nil {
		return nil, err
	}
	sub = sub.Normalize()

	oldLevel, err := e.levels.LevelOf(learner.XP)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve current level: %w", err)
	}
	newXP := learner.XP + target.XP
	newLevel, err := e.levels.LevelOf(newXP)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve new level: %w", err)
	}

	// From here on only copies are modified.
	outPathways := make([]models.Pathway, len(pathways))
	for i := range pathways {
		if i == pIdx {
			outPathways[i] = pathways[i].Clone()
		} else {
			outPathways[i] = pathways[i]
		}
	}
	pathway := &outPathways[pIdx]
	mission := &pathway.Missions[missionIndex]

	submittedAt := e.now().UTC()
	mission.Status = models.MissionCompleted
	mission.SubmissionID = sub.ID
	mission.SubmissionContent = sub.Content
	mission.SubmissionFile = sub.FileName
	mission.SubmissionLink = sub.Link
	mission.SubmittedAt = &submittedAt

	result := &Result{
		PathwayIndex:  pIdx,
		MissionIndex:  missionIndex,
		UnlockedIndex: -1,
	}

	if next, ok := pathway.Successor(missionIndex); ok && pathway.Missions[next].Status == models.MissionLocked {
		pathway.Missions[next].Status = models.MissionUnlocked
		result.UnlockedIndex = next
	}

	out := learner.Clone()
	out.XP = newXP

	if mission.Skill != "" && !out.HasSkill(mission.Skill) {
		out.Skills = append(out.Skills, mission.Skill)
		result.SkillAdded = true
	}

	if mission.Badge != nil && !out.HasAchievement(mission.Badge.Title) {
		badge := *mission.Badge
		out.Achievements = append(out.Achievements, badge)
		result.BadgeAwarded = &badge
	}

	result.Pathways = outPathways
	result.Learner = out
	result.Summary = Summary{
		Mission:  mission.Clone(),
		NewXP:    newXP,
		OldLevel: oldLevel,
		NewLevel: newLevel,
	}
	return result, nil
}

// StartMission moves an unlocked mission to in-progress and returns the updated
// pathways. Starting an in-progress mission is a no-op.
func (e *Engine) StartMission(pathways []models.Pathway, pathwayID uint, missionIndex int) ([]models.Pathway, error) {
	pIdx, err := locate(pathways, pathwayID, missionIndex)
	if err != nil {
		return nil, err
	}

	status := pathways[pIdx].Missions[missionIndex].Status
	switch status {
	case models.MissionInProgress:
		return pathways, nil
	case models.MissionUnlocked:
	default:
		return nil, fmt.Errorf("%w: mission %d of pathway %d is %s",
			ErrMissionNotStartable, missionIndex, pathwayID, status)
	}

	out := make([]models.Pathway, len(pathways))
	copy(out, pathways)
	out[pIdx] = pathways[pIdx].Clone()
	out[pIdx].Missions[missionIndex].Status = models.MissionInProgress
	return out, nil
}

func locate(pathways []models.Pathway, pathwayID uint, missionIndex int) (int, error) {
	for i := range pathways {
		if pathways[i].ID != pathwayID {
			continue
		}
		if missionIndex < 0 || missionIndex >= len(pathways[i].Missions) {
			return 0, fmt.Errorf("%w: index %d, pathway %d has %d missions",
				ErrMissionOutOfRange, missionIndex, pathwayID, len(pathways[i].Missions))
		}
		return i, nil
	}
	return 0, fmt.Errorf("%w: id %d", ErrPathwayNotFound, pathwayID)
}

// CompleteMission runs a completion with the default table.
func CompleteMission(pathways []models.Pathway, learner *models.Learner, pathwayID uint, missionIndex int, sub Submission) (*Result, error) {
	return NewEngine(nil).CompleteMission(pathways, learner, pathwayID, missionIndex, sub)
}
