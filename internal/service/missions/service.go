// Package missions runs mission events for learners: starting, completing,
// enrolling in pathways and recording mentor feedback.
package missions

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/iseven/vnu-connect-x/internal/cache"
	"github.com/iseven/vnu-connect-x/internal/fixtures"
	prommetrics "github.com/iseven/vnu-connect-x/internal/metrics"
	"github.com/iseven/vnu-connect-x/internal/models"
	"github.com/iseven/vnu-connect-x/internal/progression"
	"github.com/iseven/vnu-connect-x/internal/repository"
	"github.com/iseven/vnu-connect-x/pkg/logger"
)

// Service errors.
var (
	ErrDuplicateSubmission = errors.New("duplicate submission")
	ErrAlreadyEnrolled     = errors.New("learner already enrolled in pathway")
	ErrUnknownPathway      = errors.New("unknown pathway key")
	ErrMissionNotCompleted = errors.New("feedback requires a completed mission")
	ErrInvalidFeedback     = errors.New("invalid mentor feedback")
)

// submissionKeyPrefix namespaces idempotency keys in the cache.
const submissionKeyPrefix = "submission:"

// LearnerRepository interface for learner operations.
type LearnerRepository interface {
	GetByID(id uint) (*models.Learner, error)
}

// PathwayRepository interface for pathway operations.
type PathwayRepository interface {
	Create(pathway *models.Pathway) error
	GetByLearnerAndKey(learnerID uint, key string) (*models.Pathway, error)
	ListByLearner(learnerID uint) ([]models.Pathway, error)
	UpdateMission(mission *models.Mission) error
	SaveProgress(learner *models.Learner, pathway *models.Pathway) error
	SaveMissions(pathway *models.Pathway) error
}

// TemplateSource provides fresh pathway copies for enrollment.
type TemplateSource interface {
	Template(key string, learnerID uint) (models.Pathway, bool)
	TemplateKeys() []string
}

// BadgeListener is notified after a badge award has been saved.
type BadgeListener interface {
	BadgeAwarded(ctx context.Context, learnerID uint, badge models.Achievement)
}

// Completion is what a successful submission returns to the caller.
type Completion struct {
	Summary       progression.Summary   `json:"summary"`
	LeveledUp     bool                  `json:"leveled_up"`
	Level         progression.LevelInfo `json:"level"`
	Pathway       models.Pathway        `json:"pathway"`
	UnlockedIndex *int                  `json:"unlocked_index,omitempty"`
	SkillAdded    string                `json:"skill_added,omitempty"`
	BadgeAwarded  *models.Achievement   `json:"badge_awarded,omitempty"`
}

// Progress summarises one pathway for a learner.
type Progress struct {
	PathwayID uint   `json:"pathway_id"`
	Key       string `json:"key"`
	Title     string `json:"title"`
	Category  string `json:"category"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
	EarnedXP  int    `json:"earned_xp"`
	TotalXP   int    `json:"total_xp"`
	Percent   int    `json:"percent"`
}

// Service coordinates the progression engine with storage and the cache.
type Service struct {
	learnerRepo LearnerRepository
	pathwayRepo PathwayRepository
	templates   TemplateSource
	cache       cache.Cache // nil disables idempotency keys
	engine      *progression.Engine
	keyTTL      time.Duration
	badges      BadgeListener
	log         *logger.Logger

	locks    sync.Map // learner id -> *sync.Mutex
	validate *validator.Validate
	newID    func() string
	now      func() time.Time
}

// NewService creates a new missions service.
func NewService(
	learnerRepo *repository.LearnerRepository,
	pathwayRepo *repository.PathwayRepository,
	templates *fixtures.Set,
	c cache.Cache,
	keyTTL time.Duration,
	log *logger.Logger,
) *Service {
	return NewServiceWithInterfaces(learnerRepo, pathwayRepo, templates, c, keyTTL, log)
}

// NewServiceWithInterfaces creates a new missions service with interface dependencies (useful for testing).
func NewServiceWithInterfaces(
	learnerRepo LearnerRepository,
	pathwayRepo PathwayRepository,
	templates TemplateSource,
	c cache.Cache,
	keyTTL time.Duration,
	log *logger.Logger,
) *Service {
	return &Service{
		learnerRepo: learnerRepo,
		pathwayRepo: pathwayRepo,
		templates:   templates,
		cache:       c,
		engine:      progression.NewEngine(nil),
		keyTTL:      keyTTL,
		log:         log.Component("missions"),
		validate:    validator.New(),
		newID:       uuid.NewString,
		now:         time.Now,
	}
}

// WithEngine replaces the progression engine.
func (s *Service) WithEngine(engine *progression.Engine) *Service {
	s.engine = engine
	return s
}

// WithBadgeListener registers l to hear about badge awards.
func (s *Service) WithBadgeListener(l BadgeListener) *Service {
	s.badges = l
	return s
}

// lock serializes load, compute and save for one learner.
func (s *Service) lock(learnerID uint) func() {
	v, _ := s.locks.LoadOrStore(learnerID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// CompleteMission validates and applies a submission, then persists the
// learner and the pathway in one transaction. A non-empty idempotencyKey
// makes a replay of the same request fail with ErrDuplicateSubmission.
func (s *Service) CompleteMission(
	ctx context.Context,
	learnerID, pathwayID uint,
	missionIndex int,
	sub progression.Submission,
	idempotencyKey string,
) (*Completion, error) {
	start := time.Now()
	unlock := s.lock(learnerID)
	defer unlock()

	release, err := s.claimKey(ctx, learnerID, idempotencyKey)
	if err != nil {
		prommetrics.RecordSubmissionRejected("duplicate")
		return nil, err
	}

	learner, err := s.learnerRepo.GetByID(learnerID)
	if err != nil {
		release()
		return nil, fmt.Errorf("failed to get learner: %w", err)
	}
	pathways, err := s.pathwayRepo.ListByLearner(learnerID)
	if err != nil {
		release()
		return nil, fmt.Errorf("failed to get pathways: %w", err)
	}

	session := progression.NewSession(s.engine, learner, pathways)
	sub.ID = s.newID()

	res, err := session.Complete(pathwayID, missionIndex, sub)
	if err != nil {
		release()
		prommetrics.RecordSubmissionRejected(rejectionReason(err))
		s.log.Debug().Err(err).
			Uint("learner_id", learnerID).
			Uint("pathway_id", pathwayID).
			Int("mission_index", missionIndex).
			Msg("Submission rejected")
		return nil, err
	}

	updated := session.Learner()
	pathway := res.Pathways[res.PathwayIndex]
	if err := s.pathwayRepo.SaveProgress(&updated, &pathway); err != nil {
		release()
		s.log.Error().Err(err).Uint("learner_id", learnerID).Uint("pathway_id", pathwayID).Msg("Failed to save progress")
		return nil, fmt.Errorf("failed to save progress: %w", err)
	}

	level, err := s.engine.Levels().Resolve(updated.XP)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve level: %w", err)
	}

	mission := res.Summary.Mission
	prommetrics.RecordMissionCompleted(pathway.Key, mission.Type, mission.XP)
	prommetrics.SetLearnerXP(learnerID, updated.XP)
	prommetrics.ObserveMissionCompletionDuration(time.Since(start).Seconds())

	s.log.Info().
		Uint("learner_id", learnerID).
		Str("pathway", pathway.Key).
		Str("mission", mission.Title).
		Int("xp", mission.XP).
		Int("new_xp", updated.XP).
		Str("submission_id", mission.SubmissionID).
		Msg("Mission completed")

	out := &Completion{
		Summary:   res.Summary,
		LeveledUp: res.Summary.LeveledUp(),
		Level:     level,
		Pathway:   pathway,
	}
	if res.UnlockedIndex >= 0 {
		idx := res.UnlockedIndex
		out.UnlockedIndex = &idx
	}
	if res.SkillAdded {
		out.SkillAdded = mission.Skill
	}
	if out.LeveledUp {
		prommetrics.RecordLevelUp(res.Summary.NewLevel)
		s.log.Info().
			Uint("learner_id", learnerID).
			Int("old_level", res.Summary.OldLevel).
			Int("new_level", res.Summary.NewLevel).
			Str("level_name", level.Name).
			Msg("Level up")
	}
	if res.BadgeAwarded != nil {
		out.BadgeAwarded = res.BadgeAwarded
		prommetrics.RecordBadgeAwarded(res.BadgeAwarded.Title)
		s.log.Info().Uint("learner_id", learnerID).Str("badge", res.BadgeAwarded.Title).Msg("Badge awarded")
		if s.badges != nil {
			s.badges.BadgeAwarded(ctx, learnerID, *res.BadgeAwarded)
		}
	}

	return out, nil
}

// claimKey reserves the idempotency key and returns a func that releases it.
// An unreachable cache is logged and the submission proceeds unguarded.
func (s *Service) claimKey(ctx context.Context, learnerID uint, key string) (func(), error) {
	noop := func() {}
	if key == "" || s.cache == nil {
		return noop, nil
	}

	cacheKey := fmt.Sprintf("%s%d:%s", submissionKeyPrefix, learnerID, key)
	ok, err := s.cache.SetNX(ctx, cacheKey, s.now().UTC().Format(time.RFC3339), s.keyTTL)
	if err != nil {
		s.log.Warn().Err(err).Str("key", cacheKey).Msg("Failed to claim submission key, continuing without it")
		return noop, nil
	}
	if !ok {
		return nil, fmt.Errorf("%w: key %q", ErrDuplicateSubmission, key)
	}

	return func() {
		if err := s.cache.Del(ctx, cacheKey); err != nil {
			s.log.Warn().Err(err).Str("key", cacheKey).Msg("Failed to release submission key")
		}
	}, nil
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, progression.ErrPathwayNotFound):
		return "pathway_not_found"
	case errors.Is(err, progression.ErrMissionOutOfRange):
		return "out_of_range"
	case errors.Is(err, progression.ErrMissionNotSubmittable):
		return "not_submittable"
	case errors.Is(err, progression.ErrSubmissionRejected):
		return "invalid_evidence"
	default:
		return "other"
	}
}

// StartMission moves an unlocked mission to in-progress.
func (s *Service) StartMission(ctx context.Context, learnerID, pathwayID uint, missionIndex int) (*models.Pathway, error) {
	unlock := s.lock(learnerID)
	defer unlock()

	learner, err := s.learnerRepo.GetByID(learnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get learner: %w", err)
	}
	pathways, err := s.pathwayRepo.ListByLearner(learnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pathways: %w", err)
	}

	session := progression.NewSession(s.engine, learner, pathways)
	before, _ := session.Pathway(pathwayID)
	if err := session.Start(pathwayID, missionIndex); err != nil {
		return nil, err
	}

	pathway, _ := session.Pathway(pathwayID)
	if before.Missions[missionIndex].Status == pathway.Missions[missionIndex].Status {
		return &pathway, nil
	}

	if err := s.pathwayRepo.SaveMissions(&pathway); err != nil {
		return nil, fmt.Errorf("failed to save pathway: %w", err)
	}

	prommetrics.RecordMissionStarted(pathway.Key)
	s.log.Info().
		Uint("learner_id", learnerID).
		Str("pathway", pathway.Key).
		Str("mission", pathway.Missions[missionIndex].Title).
		Msg("Mission started")

	return &pathway, nil
}

// Enroll gives the learner a fresh copy of the pathway template with key.
func (s *Service) Enroll(ctx context.Context, learnerID uint, key string) (*models.Pathway, error) {
	unlock := s.lock(learnerID)
	defer unlock()

	if _, err := s.learnerRepo.GetByID(learnerID); err != nil {
		return nil, fmt.Errorf("failed to get learner: %w", err)
	}

	_, err := s.pathwayRepo.GetByLearnerAndKey(learnerID, key)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: %s", ErrAlreadyEnrolled, key)
	case !errors.Is(err, models.ErrNotFound):
		return nil, fmt.Errorf("failed to check enrollment: %w", err)
	}

	pathway, ok := s.templates.Template(key, learnerID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPathway, key)
	}
	if err := s.pathwayRepo.Create(&pathway); err != nil {
		return nil, fmt.Errorf("failed to enroll: %w", err)
	}

	s.log.Info().Uint("learner_id", learnerID).Str("pathway", key).Uint("pathway_id", pathway.ID).Msg("Learner enrolled")
	return &pathway, nil
}

// AddMentorFeedback appends feedback to a completed mission and marks it verified.
func (s *Service) AddMentorFeedback(
	ctx context.Context,
	learnerID, pathwayID uint,
	missionIndex int,
	feedback models.MentorFeedback,
) (*models.Mission, error) {
	if err := s.validate.Struct(feedback); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFeedback, err)
	}
	if feedback.Timestamp.IsZero() {
		feedback.Timestamp = s.now().UTC()
	}

	unlock := s.lock(learnerID)
	defer unlock()

	pathways, err := s.pathwayRepo.ListByLearner(learnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pathways: %w", err)
	}
	pathway, err := findPathway(pathways, pathwayID, missionIndex)
	if err != nil {
		return nil, err
	}

	mission := pathway.Missions[missionIndex].Clone()
	if mission.Status != models.MissionCompleted {
		return nil, fmt.Errorf("%w: mission is %s", ErrMissionNotCompleted, mission.Status)
	}

	mission.MentorFeedback = append(mission.MentorFeedback, feedback)
	mission.IsVerifiedByMentor = true
	if err := s.pathwayRepo.UpdateMission(&mission); err != nil {
		return nil, fmt.Errorf("failed to save feedback: %w", err)
	}

	prommetrics.RecordMentorFeedback()
	s.log.Info().
		Uint("learner_id", learnerID).
		Str("pathway", pathway.Key).
		Str("mission", mission.Title).
		Str("mentor", feedback.MentorName).
		Msg("Mentor feedback recorded")

	return &mission, nil
}

func findPathway(pathways []models.Pathway, pathwayID uint, missionIndex int) (*models.Pathway, error) {
	for i := range pathways {
		if pathways[i].ID != pathwayID {
			continue
		}
		if missionIndex < 0 || missionIndex >= len(pathways[i].Missions) {
			return nil, fmt.Errorf("%w: index %d", progression.ErrMissionOutOfRange, missionIndex)
		}
		return &pathways[i], nil
	}
	return nil, fmt.Errorf("%w: id %d", progression.ErrPathwayNotFound, pathwayID)
}

// Learner returns the learner with id.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) Learner(ctx context.Context, learnerID uint) (*models.Learner, error) {
	learner, err := s.learnerRepo.GetByID(learnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get learner: %w", err)
	}
	return learner, nil
}

// Templates returns a fresh, unowned copy of every pathway a learner can enroll in.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) Templates(ctx context.Context) []models.Pathway {
	keys := s.templates.TemplateKeys()
	out := make([]models.Pathway, 0, len(keys))
	for _, key := range keys {
		if p, ok := s.templates.Template(key, 0); ok {
			out = append(out, p)
		}
	}
	return out
}

// Pathways returns the learner's pathways with missions in order.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) Pathways(ctx context.Context, learnerID uint) ([]models.Pathway, error) {
	if _, err := s.learnerRepo.GetByID(learnerID); err != nil {
		return nil, fmt.Errorf("failed to get learner: %w", err)
	}
	return s.pathwayRepo.ListByLearner(learnerID)
}

// PathwayProgress summarises every pathway the learner is enrolled in.
func (s *Service) PathwayProgress(ctx context.Context, learnerID uint) ([]Progress, error) {
	pathways, err := s.Pathways(ctx, learnerID)
	if err != nil {
		return nil, err
	}

	out := make([]Progress, 0, len(pathways))
	for i := range pathways {
		out = append(out, Summarize(&pathways[i]))
	}
	return out, nil
}

// Summarize computes progress counters for one pathway.
func Summarize(p *models.Pathway) Progress {
	earned := 0
	for i := range p.Missions {
		if p.Missions[i].Status == models.MissionCompleted {
			earned += p.Missions[i].XP
		}
	}

	completed, total := p.CompletedCount(), len(p.Missions)
	percent := 0
	if total > 0 {
		percent = (200*completed + total) / (2 * total)
	}

	return Progress{
		PathwayID: p.ID,
		Key:       p.Key,
		Title:     p.Title,
		Category:  p.Category,
		Completed: completed,
		Total:     total,
		EarnedXP:  earned,
		TotalXP:   p.TotalXP(),
		Percent:   percent,
	}
}
