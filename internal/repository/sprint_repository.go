package repository

import (
	"masteryloop_backend/internal/model"

	"gorm.io/gorm"
)

type SprintRepository struct {
	DB *gorm.DB
}

func NewSprintRepository(db *gorm.DB) *SprintRepository {
	return &SprintRepository{DB: db}
}

func (r *SprintRepository) Create(task *model.SprintTask) error {
	if task.Status == "" {
		task.Status = model.SprintTodo
	}
	return r.DB.Create(task).Error
}

func (r *SprintRepository) ListByUser(userID uint, offset, limit int) ([]model.SprintTask, error) {
	var tasks []model.SprintTask
	err := r.DB.Where("user_id = ?", userID).
		Order("priority DESC, created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&tasks).Error
	return tasks, err
}

func (r *SprintRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.SprintTask{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *SprintRepository) UpdateStatus(userID, taskID uint, status model.SprintTaskStatus) error {
	res := r.DB.Model(&model.SprintTask{}).
		Where("id = ? AND user_id = ?", taskID, userID).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *SprintRepository) Delete(userID, taskID uint) error {
	res := r.DB.Where("id = ? AND user_id = ?", taskID, userID).
		Delete(&model.SprintTask{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
