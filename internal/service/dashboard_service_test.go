package service

import (
	"errors"
	"testing"

	"masteryloop_backend/internal/catalog"
	"masteryloop_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSettingsStore struct {
	saved *model.Settings
}

func (f *fakeSettingsStore) Get(userID uint) (*model.Settings, error) {
	if f.saved != nil {
		return f.saved, nil
	}
	return &model.Settings{UserID: userID, Theme: "light", Notifications: true}, nil
}

func (f *fakeSettingsStore) Save(settings *model.Settings) error {
	f.saved = settings
	return nil
}

type fakeFocusStore struct {
	quote     *model.FocusQuote
	rotateErr error
	rotations int
}

func (f *fakeFocusStore) Current() (*model.FocusQuote, error) {
	return f.quote, nil
}

func (f *fakeFocusStore) Rotate() error {
	f.rotations++
	return f.rotateErr
}

type fakeLearningPathStore struct {
	entries []model.LearningPathEntry
}

func (f *fakeLearningPathStore) ListByUser(userID uint) ([]model.LearningPathEntry, error) {
	return f.entries, nil
}

func TestSettingsDefaultsAndSave(t *testing.T) {
	settings := &fakeSettingsStore{}
	s := NewDashboardService(settings, &fakeFocusStore{quote: &model.FocusQuote{Content: "q"}}, &fakeLearningPathStore{})

	got, err := s.Settings(1)
	require.NoError(t, err)
	assert.Equal(t, "light", got.Theme)
	assert.True(t, got.Notifications)

	saved, err := s.SaveSettings(1, "dark", false)
	require.NoError(t, err)
	assert.Equal(t, "dark", saved.Theme)

	got, err = s.Settings(1)
	require.NoError(t, err)
	assert.Equal(t, "dark", got.Theme)
}

func TestFocusQuoteRotates(t *testing.T) {
	focus := &fakeFocusStore{quote: &model.FocusQuote{Content: "close the loop"}}
	s := NewDashboardService(&fakeSettingsStore{}, focus, &fakeLearningPathStore{})

	quote, err := s.FocusQuote()
	require.NoError(t, err)
	assert.Equal(t, "close the loop", quote.Content)
	assert.Equal(t, 1, focus.rotations)

	// A rotation failure keeps serving the current quote.
	focus.rotateErr = errors.New("db down")
	quote, err = s.FocusQuote()
	require.NoError(t, err)
	assert.Equal(t, "close the loop", quote.Content)
}

func TestLearningPathLockStates(t *testing.T) {
	subject := catalog.DefaultSubject()
	first := subject.SubConcepts[0].Title

	path := &fakeLearningPathStore{entries: []model.LearningPathEntry{
		{ModuleName: first, Completed: true},
	}}
	s := NewDashboardService(&fakeSettingsStore{}, &fakeFocusStore{quote: &model.FocusQuote{}}, path)

	entries, err := s.LearningPath(1)
	require.NoError(t, err)
	require.Len(t, entries, len(subject.SubConcepts))

	assert.True(t, entries[0].Completed)
	assert.False(t, entries[0].Locked)
	// The concept after the last completed one is unlocked, the rest locked.
	assert.False(t, entries[1].Completed)
	assert.False(t, entries[1].Locked)
	for _, e := range entries[2:] {
		assert.True(t, e.Locked)
	}
}

func TestLearningPathNothingCompleted(t *testing.T) {
	s := NewDashboardService(&fakeSettingsStore{}, &fakeFocusStore{quote: &model.FocusQuote{}}, &fakeLearningPathStore{})

	entries, err := s.LearningPath(1)
	require.NoError(t, err)
	assert.False(t, entries[0].Locked, "the first concept is always reachable")
	for _, e := range entries[1:] {
		assert.True(t, e.Locked)
	}
}
