package repository

import (
	"errors"

	"masteryloop_backend/internal/model"

	"gorm.io/gorm"
)

type CareerRepository struct {
	DB *gorm.DB
}

func NewCareerRepository(db *gorm.DB) *CareerRepository {
	return &CareerRepository{DB: db}
}

// Save upserts by user id, keeping at most one profile row per user.
func (r *CareerRepository) Save(userID uint, profile *model.CareerProfile) error {
	var existing model.CareerProfile
	err := r.DB.Where("user_id = ?", userID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		profile.UserID = userID
		return r.DB.Create(profile).Error
	}
	if err != nil {
		return err
	}

	return r.DB.Model(&existing).Updates(map[string]interface{}{
		"target_role":     profile.TargetRole,
		"readiness_score": profile.ReadinessScore,
		"gaps":            profile.Gaps,
		"sprint":          profile.Sprint,
		"resume_issues":   profile.ResumeIssues,
	}).Error
}

func (r *CareerRepository) Get(userID uint) (*model.CareerProfile, error) {
	var profile model.CareerProfile
	err := r.DB.Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}
