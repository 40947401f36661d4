package mocks

import "github.com/iseven/vnu-connect-x/internal/models"

// MockLearnerRepository is a simple mock for learner repository
type MockLearnerRepository struct {
	GetByIDFunc    func(id uint) (*models.Learner, error)
	ListByXPFunc   func(major string, limit int) ([]models.Learner, error)
	CountAheadFunc func(learner *models.Learner) (int64, error)
	MajorsFunc     func() ([]string, error)
}

func (m *MockLearnerRepository) GetByID(id uint) (*models.Learner, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(id)
	}
	return nil, models.ErrNotFound
}

func (m *MockLearnerRepository) ListByXP(major string, limit int) ([]models.Learner, error) {
	if m.ListByXPFunc != nil {
		return m.ListByXPFunc(major, limit)
	}
	return []models.Learner{}, nil
}

func (m *MockLearnerRepository) CountAhead(learner *models.Learner) (int64, error) {
	if m.CountAheadFunc != nil {
		return m.CountAheadFunc(learner)
	}
	return 0, nil
}

func (m *MockLearnerRepository) Majors() ([]string, error) {
	if m.MajorsFunc != nil {
		return m.MajorsFunc()
	}
	return []string{}, nil
}

// MockPathwayRepository is a simple mock for pathway repository
type MockPathwayRepository struct {
	CreateFunc             func(pathway *models.Pathway) error
	GetByLearnerAndKeyFunc func(learnerID uint, key string) (*models.Pathway, error)
	ListByLearnerFunc      func(learnerID uint) ([]models.Pathway, error)
	UpdateMissionFunc      func(mission *models.Mission) error
	SaveProgressFunc       func(learner *models.Learner, pathway *models.Pathway) error
	SaveMissionsFunc       func(pathway *models.Pathway) error
}

func (m *MockPathwayRepository) Create(pathway *models.Pathway) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(pathway)
	}
	return nil
}

func (m *MockPathwayRepository) GetByLearnerAndKey(learnerID uint, key string) (*models.Pathway, error) {
	if m.GetByLearnerAndKeyFunc != nil {
		return m.GetByLearnerAndKeyFunc(learnerID, key)
	}
	return nil, models.ErrNotFound
}

func (m *MockPathwayRepository) ListByLearner(learnerID uint) ([]models.Pathway, error) {
	if m.ListByLearnerFunc != nil {
		return m.ListByLearnerFunc(learnerID)
	}
	return []models.Pathway{}, nil
}

func (m *MockPathwayRepository) UpdateMission(mission *models.Mission) error {
	if m.UpdateMissionFunc != nil {
		return m.UpdateMissionFunc(mission)
	}
	return nil
}

func (m *MockPathwayRepository) SaveProgress(learner *models.Learner, pathway *models.Pathway) error {
	if m.SaveProgressFunc != nil {
		return m.SaveProgressFunc(learner, pathway)
	}
	return nil
}

func (m *MockPathwayRepository) SaveMissions(pathway *models.Pathway) error {
	if m.SaveMissionsFunc != nil {
		return m.SaveMissionsFunc(pathway)
	}
	return nil
}
