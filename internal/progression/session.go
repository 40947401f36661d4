package progression

import (
	"github.com/iseven/vnu-connect-x/internal/models"
)

// Session owns one learner's mutable state: the learner and their pathways.
// A Session is not safe for concurrent use; callers serialize access per learner.
type Session struct {
	engine   *Engine
	learner  models.Learner
	pathways []models.Pathway
}

// NewSession wraps learner and pathways. The session keeps its own copies.
func NewSession(engine *Engine, learner *models.Learner, pathways []models.Pathway) *Session {
	if engine == nil {
		engine = NewEngine(nil)
	}
	cp := make([]models.Pathway, len(pathways))
	for i := range pathways {
		cp[i] = pathways[i].Clone()
	}
	return &Session{
		engine:   engine,
		learner:  learner.Clone(),
		pathways: cp,
	}
}

// Learner returns a copy of the current learner.
func (s *Session) Learner() models.Learner {
	return s.learner.Clone()
}

// Pathways returns the current pathways. Callers must not modify them.
func (s *Session) Pathways() []models.Pathway {
	return s.pathways
}

// Pathway returns the pathway with id, if present.
func (s *Session) Pathway(id uint) (models.Pathway, bool) {
	for i := range s.pathways {
		if s.pathways[i].ID == id {
			return s.pathways[i], true
		}
	}
	return models.Pathway{}, false
}

// Level resolves the learner's current level.
func (s *Session) Level() (LevelInfo, error) {
	return s.engine.levels.Resolve(s.learner.XP)
}

// Complete applies a completion and, only on success, replaces the session state.
func (s *Session) Complete(pathwayID uint, missionIndex int, sub Submission) (*Result, error) {
	res, err := s.engine.CompleteMission(s.pathways, &s.learner, pathwayID, missionIndex, sub)
	if err != nil {
		return nil, err
	}
	s.pathways = res.Pathways
	s.learner = res.Learner
	return res, nil
}

// Start marks a mission in-progress.
func (s *Session) Start(pathwayID uint, missionIndex int) error {
	out, err := s.engine.StartMission(s.pathways, pathwayID, missionIndex)
	if err != nil {
		return err
	}
	s.pathways = out
	return nil
}
