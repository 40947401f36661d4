package progression

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iseven/vnu-connect-x/internal/models"
)

var fixedNow = time.Date(2024, 10, 1, 9, 0, 0, 0, time.UTC)

func testEngine() *Engine {
	return NewEngine(nil).WithClock(func() time.Time { return fixedNow })
}

func reflectionOnly() []models.SubmissionKind {
	return []models.SubmissionKind{models.SubmissionReflection}
}

func samplePathways() []models.Pathway {
	return []models.Pathway{
		{
			ID:       1,
			Title:    "PM Fresher",
			Category: models.CategoryCareer,
			Missions: []models.Mission{
				{Position: 0, Title: "Read the brief", Status: models.MissionCompleted, XP: 20, Skill: "Research", SubmissionTypes: reflectionOnly()},
				{Position: 1, Title: "Interview a PM", Status: models.MissionUnlocked, XP: 50, Skill: "Networking", SubmissionTypes: reflectionOnly(),
					Badge: &models.Achievement{Icon: "🤝", Title: "Connector", Description: "First interview"}},
				{Position: 2, Title: "Write a PRD", Status: models.MissionLocked, XP: 150, Skill: "Product Thinking",
					SubmissionTypes: []models.SubmissionKind{models.SubmissionFile, models.SubmissionLink}},
				{Position: 3, Title: "Present", Status: models.MissionLocked, XP: 80, Skill: "Networking", SubmissionTypes: reflectionOnly()},
			},
		},
		{
			ID:       2,
			Title:    "Effective Communication",
			Category: models.CategoryCommunication,
			Missions: []models.Mission{
				{Position: 0, Title: "Pitch", Status: models.MissionUnlocked, XP: 30, Skill: "Public Speaking", SubmissionTypes: reflectionOnly()},
			},
		},
	}
}

func sampleLearner(xp int) *models.Learner {
	return &models.Learner{ID: 7, Name: "Nguyen Van A", XP: xp, Skills: []string{"Research"}}
}

func TestCompleteMission_Unlocked(t *testing.T) {
	pathways := samplePathways()
	learner := sampleLearner(0)

	res, err := testEngine().CompleteMission(pathways, learner, 1, 1, Submission{ID: "sub-1", Content: "  Talked to a PM  "})
	require.NoError(t, err)

	assert.Equal(t, 50, res.Learner.XP)
	assert.Equal(t, []string{"Research", "Networking"}, []string(res.Learner.Skills))
	require.Len(t, res.Learner.Achievements, 1)
	assert.Equal(t, "Connector", res.Learner.Achievements[0].Title)
	require.NotNil(t, res.BadgeAwarded)
	assert.True(t, res.SkillAdded)

	m := res.Pathways[0].Missions[1]
	assert.Equal(t, models.MissionCompleted, m.Status)
	assert.Equal(t, "Talked to a PM", m.SubmissionContent)
	assert.Equal(t, "sub-1", m.SubmissionID)
	require.NotNil(t, m.SubmittedAt)
	assert.Equal(t, fixedNow, *m.SubmittedAt)

	assert.Equal(t, models.MissionUnlocked, res.Pathways[0].Missions[2].Status)
	assert.Equal(t, models.MissionLocked, res.Pathways[0].Missions[3].Status)
	assert.Equal(t, 2, res.UnlockedIndex)

	assert.Equal(t, 50, res.Summary.NewXP)
	assert.Equal(t, 1, res.Summary.OldLevel)
	assert.Equal(t, 1, res.Summary.NewLevel)
	assert.False(t, res.Summary.LeveledUp())
	assert.Equal(t, "Interview a PM", res.Summary.Mission.Title)
}

func TestCompleteMission_InputsUntouched(t *testing.T) {
	pathways := samplePathways()
	learner := sampleLearner(0)

	_, err := testEngine().CompleteMission(pathways, learner, 1, 1, Submission{Content: "done"})
	require.NoError(t, err)

	assert.Equal(t, samplePathways(), pathways)
	assert.Equal(t, 0, learner.XP)
	assert.Equal(t, []string{"Research"}, []string(learner.Skills))
	assert.Empty(t, learner.Achievements)
}

func TestCompleteMission_LevelUp(t *testing.T) {
	pathways := samplePathways()
	pathways[0].Missions[2].Status = models.MissionUnlocked
	learner := sampleLearner(200)

	res, err := testEngine().CompleteMission(pathways, learner, 1, 2, Submission{Link: "https://example.com/prd"})
	require.NoError(t, err)

	assert.Equal(t, 350, res.Summary.NewXP)
	assert.Equal(t, 2, res.Summary.OldLevel)
	assert.Equal(t, 3, res.Summary.NewLevel)
	assert.True(t, res.Summary.LeveledUp())
	assert.Nil(t, res.BadgeAwarded)
	assert.Empty(t, res.Learner.Achievements)
	assert.Equal(t, models.MissionUnlocked, res.Pathways[0].Missions[3].Status)
}

func TestCompleteMission_LastMissionHasNoSuccessor(t *testing.T) {
	pathways := samplePathways()
	res, err := testEngine().CompleteMission(pathways, sampleLearner(0), 2, 0, Submission{Content: "pitched"})
	require.NoError(t, err)

	assert.Equal(t, -1, res.UnlockedIndex)
	assert.Equal(t, models.MissionCompleted, res.Pathways[1].Missions[0].Status)
	// Other pathways are left as they were.
	assert.Equal(t, pathways[0], res.Pathways[0])
}

func TestCompleteMission_InProgressIsSubmittable(t *testing.T) {
	pathways := samplePathways()
	pathways[0].Missions[1].Status = models.MissionInProgress

	_, err := testEngine().CompleteMission(pathways, sampleLearner(0), 1, 1, Submission{Content: "ok"})
	assert.NoError(t, err)
}

func TestCompleteMission_SuccessorAlreadyUnlockedStays(t *testing.T) {
	pathways := samplePathways()
	pathways[0].Missions[2].Status = models.MissionInProgress

	res, err := testEngine().CompleteMission(pathways, sampleLearner(0), 1, 1, Submission{Content: "ok"})
	require.NoError(t, err)
	assert.Equal(t, models.MissionInProgress, res.Pathways[0].Missions[2].Status)
	assert.Equal(t, -1, res.UnlockedIndex)
}

func TestCompleteMission_Preconditions(t *testing.T) {
	tests := []struct {
		name      string
		pathwayID uint
		index     int
		sub       Submission
		wantErr   error
	}{
		{name: "unknown pathway", pathwayID: 99, index: 0, sub: Submission{Content: "x"}, wantErr: ErrPathwayNotFound},
		{name: "negative index", pathwayID: 1, index: -1, sub: Submission{Content: "x"}, wantErr: ErrMissionOutOfRange},
		{name: "index past end", pathwayID: 1, index: 4, sub: Submission{Content: "x"}, wantErr: ErrMissionOutOfRange},
		{name: "locked", pathwayID: 1, index: 2, sub: Submission{FileName: "prd.pdf"}, wantErr: ErrMissionNotSubmittable},
		{name: "completed", pathwayID: 1, index: 0, sub: Submission{Content: "x"}, wantErr: ErrMissionNotSubmittable},
		{name: "empty evidence", pathwayID: 1, index: 1, sub: Submission{Content: "   "}, wantErr: ErrSubmissionRejected},
		{name: "kind not accepted", pathwayID: 1, index: 1, sub: Submission{Content: "x", Link: "https://a.b"}, wantErr: ErrSubmissionRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pathways := samplePathways()
			learner := sampleLearner(10)

			res, err := testEngine().CompleteMission(pathways, learner, tt.pathwayID, tt.index, tt.sub)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			assert.Nil(t, res)

			assert.Equal(t, samplePathways(), pathways)
			assert.Equal(t, 10, learner.XP)
		})
	}
}

func TestCompleteMission_SkillAppendedOnce(t *testing.T) {
	s := NewSession(testEngine(), sampleLearner(0), samplePathways())

	_, err := s.Complete(1, 1, Submission{Content: "interview"})
	require.NoError(t, err)
	_, err = s.Complete(1, 2, Submission{FileName: "prd.pdf"})
	require.NoError(t, err)
	res, err := s.Complete(1, 3, Submission{Content: "presented"})
	require.NoError(t, err)

	count := 0
	for _, skill := range res.Learner.Skills {
		if skill == "Networking" {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.False(t, res.SkillAdded)
	assert.Equal(t, []string{"Research", "Networking", "Product Thinking"}, []string(res.Learner.Skills))
}

func TestCompleteMission_BadgeNotDuplicated(t *testing.T) {
	learner := sampleLearner(0)
	learner.Achievements = []models.Achievement{{Icon: "⭐", Title: "Connector", Description: "older"}}

	res, err := testEngine().CompleteMission(samplePathways(), learner, 1, 1, Submission{Content: "again"})
	require.NoError(t, err)

	require.Len(t, res.Learner.Achievements, 1)
	assert.Equal(t, "older", res.Learner.Achievements[0].Description)
	assert.Nil(t, res.BadgeAwarded)
}

func TestStartMission(t *testing.T) {
	e := testEngine()
	pathways := samplePathways()

	out, err := e.StartMission(pathways, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, models.MissionInProgress, out[0].Missions[1].Status)
	assert.Equal(t, models.MissionUnlocked, pathways[0].Missions[1].Status)

	again, err := e.StartMission(out, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, models.MissionInProgress, again[0].Missions[1].Status)

	_, err = e.StartMission(pathways, 1, 2)
	assert.ErrorIs(t, err, ErrMissionNotStartable)
	_, err = e.StartMission(pathways, 1, 0)
	assert.ErrorIs(t, err, ErrMissionNotStartable)
	_, err = e.StartMission(pathways, 3, 0)
	assert.ErrorIs(t, err, ErrPathwayNotFound)
}

func TestSession_FailedCompletionKeepsState(t *testing.T) {
	s := NewSession(testEngine(), sampleLearner(40), samplePathways())

	_, err := s.Complete(1, 2, Submission{FileName: "prd.pdf"})
	require.ErrorIs(t, err, ErrMissionNotSubmittable)

	assert.Equal(t, 40, s.Learner().XP)
	p, ok := s.Pathway(1)
	require.True(t, ok)
	assert.Equal(t, models.MissionLocked, p.Missions[2].Status)

	require.NoError(t, s.Start(1, 1))
	p, _ = s.Pathway(1)
	assert.Equal(t, models.MissionInProgress, p.Missions[1].Status)

	info, err := s.Level()
	require.NoError(t, err)
	assert.Equal(t, 1, info.Level)
}
