package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

type AnswerMap map[int]int

func (a AnswerMap) Value() (driver.Value, error)  { return json.Marshal(a) }
func (a *AnswerMap) Scan(value interface{}) error { return scanJSON(value, a) }

// QuizResultRecord stores a finished attempt, both sub-concept quizzes and
// timed drills. QuizID is the sub-concept id or the drill id.
type QuizResultRecord struct {
	gorm.Model
	UserID         uint      `gorm:"index" json:"userId"`
	QuizID         string    `gorm:"index;size:100" json:"quizId"`
	Score          int       `gorm:"not null" json:"score"`
	TotalQuestions int       `gorm:"not null" json:"totalQuestions"`
	Answers        AnswerMap `gorm:"type:json" json:"answers"`
	Passed         bool      `gorm:"default:false" json:"passed"`
	Date           time.Time `json:"date"`
}

func (QuizResultRecord) TableName() string {
	return "quiz_results"
}
