package repository

import (
	"masteryloop_backend/internal/model"

	"gorm.io/gorm"
)

type FocusRepository struct {
	DB *gorm.DB
}

func NewFocusRepository(db *gorm.DB) *FocusRepository {
	return &FocusRepository{DB: db}
}

func (r *FocusRepository) Current() (*model.FocusQuote, error) {
	var quote model.FocusQuote
	err := r.DB.Where("is_currently_used = ? AND is_enabled = ?", true, true).First(&quote).Error
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

// Rotate advances the current quote to the next enabled one by id order,
// wrapping around at the end.
func (r *FocusRepository) Rotate() error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var current model.FocusQuote
		if err := tx.Where("is_currently_used = ?", true).First(&current).Error; err != nil {
			return err
		}

		var next model.FocusQuote
		err := tx.Where("is_enabled = ? AND id > ?", true, current.ID).Order("id ASC").First(&next).Error
		if err == gorm.ErrRecordNotFound {
			err = tx.Where("is_enabled = ?", true).Order("id ASC").First(&next).Error
		}
		if err != nil {
			return err
		}

		if err := tx.Model(&current).Update("is_currently_used", false).Error; err != nil {
			return err
		}
		return tx.Model(&next).Update("is_currently_used", true).Error
	})
}
