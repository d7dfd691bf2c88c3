package model

import (
	"time"
)

// Default identity used when the device has no registered user yet.
// MasteryLoop is single-user per device; every record hangs off this row
// until the learner fills in their own details.
const (
	DefaultUserName  = "Guest User"
	DefaultUserEmail = "guest@masteryloop.com"
)

// swagger:model User
type User struct {
	BaseModel
	Name          string    `gorm:"size:100;not null" json:"name"`
	Email         string    `gorm:"size:100;unique;not null" json:"email"`
	Password      string    `gorm:"size:100" json:"-"`
	Goal          string    `gorm:"size:100" json:"goal"`           // academic, competitive, career
	Subject       string    `gorm:"size:100" json:"subject"`        // e.g. operating-systems
	Level         string    `gorm:"size:50" json:"level"`           // beginner, intermediate, advanced
	DailyTime     string    `gorm:"size:50" json:"dailyTime"`       // e.g. "30min", "1hr"
	LearningStyle string    `gorm:"size:50" json:"learningStyle"`   // visual, practice, reading
	LastLogin     time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastLogin"`
}

func (User) TableName() string {
	return "users"
}
