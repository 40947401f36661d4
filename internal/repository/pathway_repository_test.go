package repository

import (
	"testing"
	"time"

	"github.com/iseven/vnu-connect-x/internal/models"
)

// createTestPathway creates a three mission pathway for the learner.
func createTestPathway(t *testing.T, db *DB, learnerID uint, key string) *models.Pathway {
	t.Helper()

	pathway := &models.Pathway{
		LearnerID: learnerID,
		Key:       key,
		Title:     "Pathway " + key,
		Category:  models.CategoryCareer,
		Missions: []models.Mission{
			{Position: 2, Title: "third", Status: models.MissionLocked, XP: 30,
				Badge: &models.Achievement{Icon: "🏆", Title: "Finisher"}},
			{Position: 0, Title: "first", Status: models.MissionUnlocked, XP: 10,
				SubmissionTypes: []models.SubmissionKind{models.SubmissionReflection}},
			{Position: 1, Title: "second", Status: models.MissionLocked, XP: 20},
		},
	}
	if err := NewPathwayRepository(db).Create(pathway); err != nil {
		t.Fatalf("Failed to create test pathway: %v", err)
	}
	return pathway
}

func TestPathwayRepository_MissionsOrderedByPosition(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPathwayRepository(db)
	learner := createTestLearner(t, db, "An", "SE", 0)

	created := createTestPathway(t, db, learner.ID, "pm")

	got, err := repo.GetByID(created.ID)
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if len(got.Missions) != 3 {
		t.Fatalf("Expected 3 missions, got %d", len(got.Missions))
	}
	for i, title := range []string{"first", "second", "third"} {
		if got.Missions[i].Title != title {
			t.Errorf("Position %d: expected %s, got %s", i, title, got.Missions[i].Title)
		}
	}
	if !got.Missions[0].Accepts(models.SubmissionReflection) {
		t.Error("Expected submission kinds to round-trip")
	}
	if got.Missions[2].Badge == nil || got.Missions[2].Badge.Title != "Finisher" {
		t.Errorf("Expected badge to round-trip, got %+v", got.Missions[2].Badge)
	}
	if got.Missions[1].Badge != nil {
		t.Errorf("Expected no badge on second mission, got %+v", got.Missions[1].Badge)
	}
}

func TestPathwayRepository_ListByLearnerAndKey(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPathwayRepository(db)
	an := createTestLearner(t, db, "An", "SE", 0)
	binh := createTestLearner(t, db, "Binh", "IS", 0)

	createTestPathway(t, db, an.ID, "pm")
	createTestPathway(t, db, an.ID, "data")
	createTestPathway(t, db, binh.ID, "pm")

	pathways, err := repo.ListByLearner(an.ID)
	if err != nil {
		t.Fatalf("ListByLearner() failed: %v", err)
	}
	if len(pathways) != 2 || pathways[0].Key != "pm" || pathways[1].Key != "data" {
		t.Errorf("Expected [pm data] for An, got %v", pathways)
	}

	p, err := repo.GetByLearnerAndKey(binh.ID, "pm")
	if err != nil {
		t.Fatalf("GetByLearnerAndKey() failed: %v", err)
	}
	if p.LearnerID != binh.ID {
		t.Errorf("Expected learner %d, got %d", binh.ID, p.LearnerID)
	}

	if _, err := repo.GetByLearnerAndKey(binh.ID, "data"); err == nil {
		t.Error("Expected error for pathway the learner is not enrolled in")
	}

	// Same key twice for one learner violates the unique index.
	dup := &models.Pathway{LearnerID: an.ID, Key: "pm", Title: "dup"}
	if err := repo.Create(dup); err == nil {
		t.Error("Expected duplicate enrollment to fail")
	}

	all, err := repo.ListAll()
	if err != nil {
		t.Fatalf("ListAll() failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("Expected 3 pathways, got %d", len(all))
	}
}

func TestPathwayRepository_SaveProgress(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPathwayRepository(db)
	learner := createTestLearner(t, db, "An", "SE", 0)
	created := createTestPathway(t, db, learner.ID, "pm")

	pathway, err := repo.GetByID(created.ID)
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	pathway.Missions[0].Status = models.MissionCompleted
	pathway.Missions[0].SubmissionContent = "done"
	pathway.Missions[0].SubmittedAt = &now
	pathway.Missions[1].Status = models.MissionUnlocked
	learner.XP = 10
	learner.Skills = []string{"Research"}

	if err := repo.SaveProgress(learner, pathway); err != nil {
		t.Fatalf("SaveProgress() failed: %v", err)
	}

	reloaded, err := repo.GetByID(created.ID)
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if reloaded.Missions[0].Status != models.MissionCompleted || reloaded.Missions[0].SubmissionContent != "done" {
		t.Errorf("Expected first mission completed, got %+v", reloaded.Missions[0])
	}
	if reloaded.Missions[1].Status != models.MissionUnlocked {
		t.Errorf("Expected second mission unlocked, got %s", reloaded.Missions[1].Status)
	}
	if reloaded.CompletedCount() != 1 {
		t.Errorf("Expected 1 completed mission, got %d", reloaded.CompletedCount())
	}

	got, err := NewLearnerRepository(db).GetByID(learner.ID)
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if got.XP != 10 {
		t.Errorf("Expected xp 10, got %d", got.XP)
	}
}

func TestPathwayRepository_SaveProgressRollsBack(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPathwayRepository(db)
	learner := createTestLearner(t, db, "An", "SE", 0)
	created := createTestPathway(t, db, learner.ID, "pm")

	pathway, err := repo.GetByID(created.ID)
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}

	learner.XP = 500
	pathway.Missions[0].Status = models.MissionCompleted
	// Moving a mission onto an occupied position breaks the unique index mid-transaction.
	pathway.Missions[2].Position = 1

	if err := repo.SaveProgress(learner, pathway); err == nil {
		t.Fatal("Expected SaveProgress() to fail")
	}

	got, err := NewLearnerRepository(db).GetByID(learner.ID)
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if got.XP != 0 {
		t.Errorf("Expected xp rollback to 0, got %d", got.XP)
	}

	reloaded, err := repo.GetByID(created.ID)
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if reloaded.Missions[0].Status != models.MissionUnlocked {
		t.Errorf("Expected first mission to stay unlocked, got %s", reloaded.Missions[0].Status)
	}
}
