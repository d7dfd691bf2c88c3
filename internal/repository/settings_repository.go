package repository

import (
	"errors"

	"masteryloop_backend/internal/model"

	"gorm.io/gorm"
)

type SettingsRepository struct {
	DB *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{DB: db}
}

// Get returns stored settings or the defaults when the user has none yet.
func (r *SettingsRepository) Get(userID uint) (*model.Settings, error) {
	var settings model.Settings
	err := r.DB.Where("user_id = ?", userID).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &model.Settings{UserID: userID, Theme: "light", Notifications: true}, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *SettingsRepository) Save(settings *model.Settings) error {
	var existing model.Settings
	err := r.DB.Where("user_id = ?", settings.UserID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.DB.Create(settings).Error
	}
	if err != nil {
		return err
	}

	return r.DB.Model(&existing).Updates(map[string]interface{}{
		"theme":         settings.Theme,
		"notifications": settings.Notifications,
	}).Error
}
