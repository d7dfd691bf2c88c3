package repository

import (
	"errors"

	"masteryloop_backend/internal/model"

	"gorm.io/gorm"
)

type LearningPathRepository struct {
	DB *gorm.DB
}

func NewLearningPathRepository(db *gorm.DB) *LearningPathRepository {
	return &LearningPathRepository{DB: db}
}

func (r *LearningPathRepository) ListByUser(userID uint) ([]model.LearningPathEntry, error) {
	var entries []model.LearningPathEntry
	err := r.DB.Where("user_id = ?", userID).Order("position ASC").Find(&entries).Error
	return entries, err
}

// SetCompleted marks the named module done and unlocks it, creating the
// entry when the path has not been materialized yet.
func (r *LearningPathRepository) SetCompleted(userID uint, moduleName string, position int) error {
	var entry model.LearningPathEntry
	err := r.DB.Where("user_id = ? AND module_name = ?", userID, moduleName).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.DB.Create(&model.LearningPathEntry{
			UserID:     userID,
			ModuleName: moduleName,
			Completed:  true,
			Locked:     false,
			Position:   position,
		}).Error
	}
	if err != nil {
		return err
	}

	return r.DB.Model(&entry).Updates(map[string]interface{}{
		"completed": true,
		"locked":    false,
	}).Error
}
