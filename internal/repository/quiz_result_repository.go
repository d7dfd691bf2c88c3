package repository

import (
	"masteryloop_backend/internal/model"

	"gorm.io/gorm"
)

type QuizResultRepository struct {
	DB *gorm.DB
}

func NewQuizResultRepository(db *gorm.DB) *QuizResultRepository {
	return &QuizResultRepository{DB: db}
}

func (r *QuizResultRepository) Create(result *model.QuizResultRecord) error {
	return r.DB.Create(result).Error
}

func (r *QuizResultRepository) ListByUser(userID uint, limit int) ([]model.QuizResultRecord, error) {
	var results []model.QuizResultRecord
	q := r.DB.Where("user_id = ?", userID).Order("date DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&results).Error
	return results, err
}

func (r *QuizResultRepository) CountAttempts(userID uint, quizID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.QuizResultRecord{}).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Count(&count).Error
	return count, err
}
