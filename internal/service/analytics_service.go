package service

import (
	"time"

	"masteryloop_backend/internal/catalog"
	"masteryloop_backend/internal/model"
)

// AnalyticsProgressStore is the read surface the analytics service needs.
type AnalyticsProgressStore interface {
	ListByUser(userID uint) ([]model.ModuleProgress, error)
	OverallProgress(userID uint, totalModules int) (*model.OverallProgress, error)
}

type AnalyticsResultStore interface {
	ListByUser(userID uint, limit int) ([]model.QuizResultRecord, error)
}

// AnalyticsService derives dashboard aggregates from progress rows and
// quiz history. Everything here is computed on read.
type AnalyticsService struct {
	progress AnalyticsProgressStore
	results  AnalyticsResultStore
}

func NewAnalyticsService(progress AnalyticsProgressStore, results AnalyticsResultStore) *AnalyticsService {
	return &AnalyticsService{progress: progress, results: results}
}

func (s *AnalyticsService) Overall(userID uint) (*model.OverallProgress, error) {
	total := len(catalog.DefaultSubject().SubConcepts)
	return s.progress.OverallProgress(userID, total)
}

// Weekly buckets the last four weeks of quiz activity, most recent last.
func (s *AnalyticsService) Weekly(userID uint) ([]model.WeekProgress, error) {
	results, err := s.results.ListByUser(userID, 0)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	weeks := make([]model.WeekProgress, 4)
	sums := make([]float64, 4)
	counts := make([]int, 4)

	for i := range weeks {
		start := now.AddDate(0, 0, -7*(3-i))
		weeks[i].Week = start.Format("Jan 2")
	}

	for _, r := range results {
		age := int(now.Sub(r.Date).Hours() / 24 / 7)
		if age < 0 || age > 3 {
			continue
		}
		bucket := 3 - age
		sums[bucket] += float64(r.Score)
		counts[bucket]++
		if r.Passed {
			weeks[bucket].ModulesCompleted++
		}
		// Rough estimate: each attempt is a short focused session.
		weeks[bucket].StudyTime += 15
	}

	for i := range weeks {
		if counts[i] > 0 {
			weeks[i].AverageScore = sums[i] / float64(counts[i])
		}
	}
	return weeks, nil
}

// Monthly buckets the last six months of completions.
func (s *AnalyticsService) Monthly(userID uint) ([]model.MonthlyData, error) {
	results, err := s.results.ListByUser(userID, 0)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	months := make([]model.MonthlyData, 6)
	sums := make([]float64, 6)
	counts := make([]int, 6)

	for i := range months {
		m := now.AddDate(0, i-5, 0)
		months[i].Month = m.Format("Jan")
	}

	for _, r := range results {
		diff := (now.Year()-r.Date.Year())*12 + int(now.Month()) - int(r.Date.Month())
		if diff < 0 || diff > 5 {
			continue
		}
		bucket := 5 - diff
		sums[bucket] += float64(r.Score)
		counts[bucket]++
		if r.Passed {
			months[bucket].ModulesCompleted++
		}
	}

	for i := range months {
		if counts[i] > 0 {
			months[i].AverageScore = sums[i] / float64(counts[i])
		}
	}
	return months, nil
}

// RecentActivity returns the latest quiz attempts for the dashboard feed.
func (s *AnalyticsService) RecentActivity(userID uint, limit int) ([]model.QuizResultRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.results.ListByUser(userID, limit)
}

// ModuleBreakdown returns per-module progress rows, most recently touched
// first.
func (s *AnalyticsService) ModuleBreakdown(userID uint) ([]model.ModuleProgress, error) {
	return s.progress.ListByUser(userID)
}
