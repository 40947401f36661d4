package repository

import (
	"testing"

	"github.com/iseven/vnu-connect-x/internal/models"
)

func TestLearnerRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLearnerRepository(db)

	learner := &models.Learner{
		Name:         "An Nguyen",
		MSSV:         "20520001",
		Major:        "Software Engineering",
		XP:           180,
		Skills:       []string{"React", "Go"},
		Achievements: []models.Achievement{{Icon: "🚀", Title: "First Steps"}},
	}
	if err := repo.Create(learner); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if learner.ID == 0 {
		t.Fatal("Expected learner ID to be set after creation")
	}

	got, err := repo.GetByID(learner.ID)
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if got.XP != 180 {
		t.Errorf("Expected xp 180, got %d", got.XP)
	}
	if len(got.Skills) != 2 || got.Skills[0] != "React" || got.Skills[1] != "Go" {
		t.Errorf("Expected skills to keep insertion order, got %v", got.Skills)
	}
	if !got.HasAchievement("First Steps") {
		t.Errorf("Expected achievement to round-trip, got %v", got.Achievements)
	}

	byMSSV, err := repo.GetByMSSV("20520001")
	if err != nil {
		t.Fatalf("GetByMSSV() failed: %v", err)
	}
	if byMSSV.ID != learner.ID {
		t.Errorf("Expected id %d, got %d", learner.ID, byMSSV.ID)
	}
}

func TestLearnerRepository_ListByXP(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLearnerRepository(db)

	createTestLearner(t, db, "Chi", "E-commerce", 1050)
	createTestLearner(t, db, "Binh", "Information Systems", 420)
	createTestLearner(t, db, "An", "Software Engineering", 420)
	createTestLearner(t, db, "Dung", "Software Engineering", 40)

	all, err := repo.ListByXP("", 0)
	if err != nil {
		t.Fatalf("ListByXP() failed: %v", err)
	}
	want := []string{"Chi", "An", "Binh", "Dung"}
	if len(all) != len(want) {
		t.Fatalf("Expected %d learners, got %d", len(want), len(all))
	}
	for i, name := range want {
		if all[i].Name != name {
			t.Errorf("Position %d: expected %s, got %s", i, name, all[i].Name)
		}
	}

	top, err := repo.ListByXP("", 2)
	if err != nil {
		t.Fatalf("ListByXP() with limit failed: %v", err)
	}
	if len(top) != 2 {
		t.Errorf("Expected 2 learners, got %d", len(top))
	}

	se, err := repo.ListByXP("Software Engineering", 0)
	if err != nil {
		t.Fatalf("ListByXP() with major failed: %v", err)
	}
	if len(se) != 2 || se[0].Name != "An" {
		t.Errorf("Expected An first among Software Engineering, got %v", se)
	}
}

func TestLearnerRepository_CountAhead(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLearnerRepository(db)

	createTestLearner(t, db, "Chi", "E-commerce", 1050)
	an := createTestLearner(t, db, "An", "Software Engineering", 420)
	binh := createTestLearner(t, db, "Binh", "Information Systems", 420)

	ahead, err := repo.CountAhead(an)
	if err != nil {
		t.Fatalf("CountAhead() failed: %v", err)
	}
	if ahead != 1 {
		t.Errorf("Expected 1 learner ahead of An, got %d", ahead)
	}

	ahead, err = repo.CountAhead(binh)
	if err != nil {
		t.Fatalf("CountAhead() failed: %v", err)
	}
	if ahead != 2 {
		t.Errorf("Expected 2 learners ahead of Binh, got %d", ahead)
	}
}

func TestLearnerRepository_UpdateAndMajors(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLearnerRepository(db)

	learner := createTestLearner(t, db, "An", "Software Engineering", 0)
	createTestLearner(t, db, "Binh", "Information Systems", 0)
	createTestLearner(t, db, "Chi", "", 0)

	learner.XP = 75
	learner.Skills = append(learner.Skills, "Networking")
	if err := repo.Update(learner); err != nil {
		t.Fatalf("Update() failed: %v", err)
	}

	got, err := repo.GetByID(learner.ID)
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if got.XP != 75 || !got.HasSkill("Networking") {
		t.Errorf("Expected updated xp and skill, got xp=%d skills=%v", got.XP, got.Skills)
	}

	majors, err := repo.Majors()
	if err != nil {
		t.Fatalf("Majors() failed: %v", err)
	}
	if len(majors) != 2 || majors[0] != "Information Systems" {
		t.Errorf("Expected two sorted majors, got %v", majors)
	}
}
