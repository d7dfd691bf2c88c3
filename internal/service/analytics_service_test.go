package service

import (
	"testing"
	"time"

	"masteryloop_backend/internal/catalog"
	"masteryloop_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAnalyticsProgress struct {
	rows []model.ModuleProgress
}

func (f *fakeAnalyticsProgress) ListByUser(userID uint) ([]model.ModuleProgress, error) {
	return f.rows, nil
}

func (f *fakeAnalyticsProgress) OverallProgress(userID uint, totalModules int) (*model.OverallProgress, error) {
	completed := 0
	sum := 0
	for _, r := range f.rows {
		if r.Status == model.StatusCompleted {
			completed++
		}
		sum += r.Score
	}
	avg := 0.0
	if len(f.rows) > 0 {
		avg = float64(sum) / float64(len(f.rows))
	}
	return &model.OverallProgress{TotalModules: totalModules, CompletedModules: completed, AverageScore: avg}, nil
}

type fakeAnalyticsResults struct {
	records []model.QuizResultRecord
}

func (f *fakeAnalyticsResults) ListByUser(userID uint, limit int) ([]model.QuizResultRecord, error) {
	if limit > 0 && limit < len(f.records) {
		return f.records[:limit], nil
	}
	return f.records, nil
}

func TestOverallUsesCatalogSize(t *testing.T) {
	progress := &fakeAnalyticsProgress{rows: []model.ModuleProgress{
		{ModuleID: "process-basics", Status: model.StatusCompleted, Score: 90},
		{ModuleID: "time-quantum", Status: model.StatusInProgress, Score: 50},
	}}
	s := NewAnalyticsService(progress, &fakeAnalyticsResults{})

	overall, err := s.Overall(1)
	require.NoError(t, err)
	assert.Equal(t, len(catalog.DefaultSubject().SubConcepts), overall.TotalModules)
	assert.Equal(t, 1, overall.CompletedModules)
	assert.Equal(t, 70.0, overall.AverageScore)
}

func TestWeeklyBucketsRecentAttempts(t *testing.T) {
	now := time.Now()
	results := &fakeAnalyticsResults{records: []model.QuizResultRecord{
		{Score: 80, Passed: true, Date: now.Add(-time.Hour)},
		{Score: 60, Passed: false, Date: now.Add(-2 * time.Hour)},
		{Score: 90, Passed: true, Date: now.AddDate(0, 0, -8)},
		{Score: 50, Passed: false, Date: now.AddDate(0, 0, -60)}, // outside window
	}}
	s := NewAnalyticsService(&fakeAnalyticsProgress{}, results)

	weeks, err := s.Weekly(1)
	require.NoError(t, err)
	require.Len(t, weeks, 4)

	current := weeks[3]
	assert.Equal(t, 70.0, current.AverageScore)
	assert.Equal(t, 1, current.ModulesCompleted)
	assert.Equal(t, 30, current.StudyTime)

	previous := weeks[2]
	assert.Equal(t, 90.0, previous.AverageScore)
	assert.Equal(t, 1, previous.ModulesCompleted)

	// Empty buckets stay zeroed.
	assert.Equal(t, 0.0, weeks[0].AverageScore)
	assert.Equal(t, 0, weeks[0].ModulesCompleted)
}

func TestMonthlyBucketsByCalendarMonth(t *testing.T) {
	now := time.Now()
	results := &fakeAnalyticsResults{records: []model.QuizResultRecord{
		{Score: 100, Passed: true, Date: now},
		{Score: 40, Passed: false, Date: now.AddDate(-1, 0, 0)}, // outside window
	}}
	s := NewAnalyticsService(&fakeAnalyticsProgress{}, results)

	months, err := s.Monthly(1)
	require.NoError(t, err)
	require.Len(t, months, 6)

	current := months[5]
	assert.Equal(t, 100.0, current.AverageScore)
	assert.Equal(t, 1, current.ModulesCompleted)
	assert.Equal(t, now.Format("Jan"), current.Month)
}

func TestRecentActivityDefaultsLimit(t *testing.T) {
	records := make([]model.QuizResultRecord, 15)
	s := NewAnalyticsService(&fakeAnalyticsProgress{}, &fakeAnalyticsResults{records: records})

	recent, err := s.RecentActivity(1, 0)
	require.NoError(t, err)
	assert.Len(t, recent, 10)
}
