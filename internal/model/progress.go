package model

import (
	"time"

	"gorm.io/gorm"
)

type ProgressStatus string

const (
	StatusNotStarted ProgressStatus = "not_started"
	StatusInProgress ProgressStatus = "in_progress"
	StatusCompleted  ProgressStatus = "completed"
)

// ModuleProgress tracks one learner's standing on one learning module.
// (userID, moduleID) is unique; writes refresh LastAccessed.
type ModuleProgress struct {
	gorm.Model
	UserID       uint           `gorm:"index:idx_user_module,unique;type:bigint unsigned" json:"userId"`
	ModuleID     string         `gorm:"index:idx_user_module,unique;size:100" json:"moduleId"`
	Status       ProgressStatus `gorm:"size:20;default:'not_started'" json:"status"`
	Score        int            `gorm:"default:0" json:"score"`
	LastAccessed time.Time      `json:"lastAccessed"`
}

func (ModuleProgress) TableName() string {
	return "progress"
}

// LearningPathEntry mirrors the ordered syllabus shown in the path sidebar.
type LearningPathEntry struct {
	gorm.Model
	UserID     uint   `gorm:"index" json:"userId"`
	ModuleName string `gorm:"size:255;not null" json:"moduleName"`
	Completed  bool   `gorm:"default:false" json:"completed"`
	Locked     bool   `gorm:"default:true" json:"locked"`
	Position   int    `gorm:"default:0" json:"position"`
}

func (LearningPathEntry) TableName() string {
	return "learning_path"
}
