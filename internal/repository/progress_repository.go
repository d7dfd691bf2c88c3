package repository

import (
	"errors"
	"time"

	"masteryloop_backend/internal/model"

	"gorm.io/gorm"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// Upsert writes progress for (userID, moduleID), refreshing lastAccessed on
// every call whether the row is new or existing.
func (r *ProgressRepository) Upsert(userID uint, moduleID string, status model.ProgressStatus, score int) error {
	var existing model.ModuleProgress
	err := r.DB.Where("user_id = ? AND module_id = ?", userID, moduleID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.DB.Create(&model.ModuleProgress{
			UserID:       userID,
			ModuleID:     moduleID,
			Status:       status,
			Score:        score,
			LastAccessed: time.Now(),
		}).Error
	}
	if err != nil {
		return err
	}

	return r.DB.Model(&existing).Updates(map[string]interface{}{
		"status":        status,
		"score":         score,
		"last_accessed": time.Now(),
	}).Error
}

func (r *ProgressRepository) Get(userID uint, moduleID string) (*model.ModuleProgress, error) {
	var progress model.ModuleProgress
	err := r.DB.Where("user_id = ? AND module_id = ?", userID, moduleID).First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *ProgressRepository) ListByUser(userID uint) ([]model.ModuleProgress, error) {
	var rows []model.ModuleProgress
	err := r.DB.Where("user_id = ?", userID).Order("last_accessed DESC").Find(&rows).Error
	return rows, err
}

// CompletedModuleIDs returns module ids completed by the user, oldest first,
// so the flow controller can restore its completed set in insertion order.
func (r *ProgressRepository) CompletedModuleIDs(userID uint) ([]string, error) {
	var ids []string
	err := r.DB.Model(&model.ModuleProgress{}).
		Where("user_id = ? AND status = ?", userID, model.StatusCompleted).
		Order("updated_at ASC").
		Pluck("module_id", &ids).Error
	return ids, err
}

func (r *ProgressRepository) OverallProgress(userID uint, totalModules int) (*model.OverallProgress, error) {
	var completed int64
	err := r.DB.Model(&model.ModuleProgress{}).
		Where("user_id = ? AND status = ?", userID, model.StatusCompleted).
		Count(&completed).Error
	if err != nil {
		return nil, err
	}

	var averageScore float64
	err = r.DB.Model(&model.ModuleProgress{}).
		Where("user_id = ?", userID).
		Select("COALESCE(AVG(score), 0)").
		Scan(&averageScore).Error
	if err != nil {
		return nil, err
	}

	return &model.OverallProgress{
		TotalModules:     totalModules,
		CompletedModules: int(completed),
		AverageScore:     averageScore,
	}, nil
}
