package service

import (
	"masteryloop_backend/internal/catalog"
	"masteryloop_backend/internal/model"
	"masteryloop_backend/pkg/logger"

	"go.uber.org/zap"
)

type SettingsStore interface {
	Get(userID uint) (*model.Settings, error)
	Save(settings *model.Settings) error
}

type FocusStore interface {
	Current() (*model.FocusQuote, error)
	Rotate() error
}

type LearningPathStore interface {
	ListByUser(userID uint) ([]model.LearningPathEntry, error)
}

// PathEntryView is one step of the learning path with its lock state
// resolved against the catalog order.
type PathEntryView struct {
	ModuleName string `json:"moduleName"`
	Completed  bool   `json:"completed"`
	Locked     bool   `json:"locked"`
	Position   int    `json:"position"`
}

// DashboardService serves the home screen: focus quote, settings, and the
// learning path assembled from the catalog plus stored completions.
type DashboardService struct {
	settings SettingsStore
	focus    FocusStore
	path     LearningPathStore
}

func NewDashboardService(settings SettingsStore, focus FocusStore, path LearningPathStore) *DashboardService {
	return &DashboardService{settings: settings, focus: focus, path: path}
}

func (s *DashboardService) Settings(userID uint) (*model.Settings, error) {
	return s.settings.Get(userID)
}

func (s *DashboardService) SaveSettings(userID uint, theme string, notifications bool) (*model.Settings, error) {
	settings := &model.Settings{UserID: userID, Theme: theme, Notifications: notifications}
	if err := s.settings.Save(settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// FocusQuote returns today's quote and rotates for the next call. Rotation
// failures keep the current quote in place.
func (s *DashboardService) FocusQuote() (*model.FocusQuote, error) {
	quote, err := s.focus.Current()
	if err != nil {
		return nil, err
	}
	if err := s.focus.Rotate(); err != nil {
		logger.Log.Warn("focus quote rotation failed", zap.Error(err))
	}
	return quote, nil
}

// LearningPath merges the catalog's ordered concepts with stored
// completion rows. The first incomplete concept is unlocked; everything
// after it stays locked.
func (s *DashboardService) LearningPath(userID uint) ([]PathEntryView, error) {
	stored, err := s.path.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	completed := make(map[string]bool, len(stored))
	for _, e := range stored {
		if e.Completed {
			completed[e.ModuleName] = true
		}
	}

	subject := catalog.DefaultSubject()
	entries := make([]PathEntryView, 0, len(subject.SubConcepts))
	unlockNext := true
	for i, sc := range subject.SubConcepts {
		done := completed[sc.Title]
		entry := PathEntryView{
			ModuleName: sc.Title,
			Completed:  done,
			Locked:     !done && !unlockNext,
			Position:   i,
		}
		if !done {
			unlockNext = false
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
