package service

import (
	"context"
	"errors"
	"sync"

	"masteryloop_backend/internal/model"
	"masteryloop_backend/internal/util"
	"masteryloop_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CareerStore persists one career profile per user.
type CareerStore interface {
	Save(userID uint, profile *model.CareerProfile) error
	Get(userID uint) (*model.CareerProfile, error)
}

// SprintStore persists sprint tasks.
type SprintStore interface {
	Create(task *model.SprintTask) error
	ListByUser(userID uint, offset, limit int) ([]model.SprintTask, error)
	CountByUser(userID uint) (int64, error)
	UpdateStatus(userID, taskID uint, status model.SprintTaskStatus) error
	Delete(userID, taskID uint) error
}

// ResumeReader extracts plain text from an uploaded resume.
type ResumeReader interface {
	ExtractText(ctx context.Context, data []byte, filename string) (string, error)
}

// CareerService serves career profiles through a write-through in-memory
// mirror. Reads hit the mirror first; the database is the durable copy and
// hydrates the mirror on miss.
type CareerService struct {
	store     CareerStore
	sprints   SprintStore
	generator Generator
	resume    ResumeReader

	mu     sync.RWMutex
	mirror map[uint]*model.CareerProfile
}

func NewCareerService(store CareerStore, sprints SprintStore, generator Generator, resume ResumeReader) *CareerService {
	return &CareerService{
		store:     store,
		sprints:   sprints,
		generator: generator,
		resume:    resume,
		mirror:    make(map[uint]*model.CareerProfile),
	}
}

// Get returns the user's profile, mirror first. A database miss surfaces
// as ErrProfileNotFound.
func (s *CareerService) Get(userID uint) (*model.CareerProfile, error) {
	s.mu.RLock()
	profile, ok := s.mirror[userID]
	s.mu.RUnlock()
	if ok {
		return profile, nil
	}

	profile, err := s.store.Get(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrProfileNotFound
		}
		return nil, err
	}

	s.hydrate(userID, profile)
	return profile, nil
}

// Save installs the profile in the mirror and upserts the durable row.
// The mirror is the source of truth for reads, so a failed database write
// degrades durability only: it is logged, never surfaced to the caller.
func (s *CareerService) Save(userID uint, profile *model.CareerProfile) error {
	profile.UserID = userID

	s.mu.Lock()
	s.mirror[userID] = profile
	s.mu.Unlock()

	if err := s.store.Save(userID, profile); err != nil {
		logger.Log.Error("persist career profile failed", zap.Uint("user", userID), zap.Error(err))
	}
	return nil
}

// hydrate installs a database-loaded profile, but never over a mirror
// entry that already exists: the mirror may hold a newer unflushed write.
func (s *CareerService) hydrate(userID uint, profile *model.CareerProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.mirror[userID]; ok {
		return
	}
	s.mirror[userID] = profile
}

// AnalyzeResume extracts text from the uploaded resume, asks the
// generator for a gap analysis against the target role, and saves the
// resulting profile. An unreadable file falls back to a placeholder so the
// analysis still runs on the stated target role alone.
func (s *CareerService) AnalyzeResume(ctx context.Context, userID uint, data []byte, filename, targetRole string) (*model.CareerProfile, error) {
	text, err := s.resume.ExtractText(ctx, data, filename)
	if err != nil {
		logger.Log.Warn("resume extraction failed, analyzing role only", zap.String("file", filename), zap.Error(err))
		text = "(resume text unavailable)"
	}

	profile, err := s.generator.GenerateCareerProfile(ctx, text, targetRole)
	if err != nil {
		return nil, err
	}

	if err := s.Save(userID, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// SprintTaskInput is the creation payload for a sprint task.
type SprintTaskInput struct {
	Title    string `json:"title" binding:"required"`
	Type     string `json:"type"`
	Time     string `json:"time"`
	Priority int    `json:"priority"`
}

func (s *CareerService) CreateSprintTask(userID uint, input SprintTaskInput) (*model.SprintTask, error) {
	task := &model.SprintTask{
		UserID:   userID,
		Title:    input.Title,
		Type:     input.Type,
		Time:     input.Time,
		Priority: input.Priority,
	}
	if err := s.sprints.Create(task); err != nil {
		return nil, err
	}
	return task, nil
}

// ListSprintTasks returns one page of the user's tasks and the total count.
func (s *CareerService) ListSprintTasks(userID uint, page, limit int) ([]model.SprintTask, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	total, err := s.sprints.CountByUser(userID)
	if err != nil {
		return nil, 0, err
	}
	tasks, err := s.sprints.ListByUser(userID, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

func (s *CareerService) UpdateSprintTaskStatus(userID, taskID uint, status model.SprintTaskStatus) error {
	switch status {
	case model.SprintTodo, model.SprintInProgress, model.SprintDone:
	default:
		return util.ErrInvalidTransition
	}
	if err := s.sprints.UpdateStatus(userID, taskID, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrSprintTaskNotFound
		}
		return err
	}
	return nil
}

func (s *CareerService) DeleteSprintTask(userID, taskID uint) error {
	if err := s.sprints.Delete(userID, taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrSprintTaskNotFound
		}
		return err
	}
	return nil
}
