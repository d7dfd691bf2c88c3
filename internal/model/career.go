package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

type GapStatus string

const (
	GapCritical GapStatus = "Critical"
	GapModerate GapStatus = "Moderate"
)

// SkillGap is one missing or weak skill relative to the target role.
type SkillGap struct {
	ID              string    `json:"id"`
	Skill           string    `json:"skill"`
	Status          GapStatus `json:"status"`
	Reason          string    `json:"reason"`
	Expectation     string    `json:"expectation"`
	MissingEvidence string    `json:"missing_evidence"`
}

// SprintItem is one action item inside the generated improvement plan.
type SprintItem struct {
	Title string `json:"title"`
	Type  string `json:"type"` // project, course, practice
	Time  string `json:"time"` // e.g. "2 weeks"
}

type SkillGaps []SkillGap
type SprintItems []SprintItem
type StringList []string

func (g SkillGaps) Value() (driver.Value, error)   { return json.Marshal(g) }
func (g *SkillGaps) Scan(value interface{}) error  { return scanJSON(value, g) }
func (s SprintItems) Value() (driver.Value, error) { return json.Marshal(s) }
func (s *SprintItems) Scan(value interface{}) error {
	return scanJSON(value, s)
}
func (l StringList) Value() (driver.Value, error)  { return json.Marshal(l) }
func (l *StringList) Scan(value interface{}) error { return scanJSON(value, l) }

func scanJSON(value, dest interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	}
	return errors.New("unsupported column type for JSON scan")
}

// CareerProfile is the AI-generated readiness report for a target role.
// At most one row per user; writes are upserts.
type CareerProfile struct {
	gorm.Model
	UserID         uint        `gorm:"uniqueIndex;type:bigint unsigned" json:"userId"`
	TargetRole     string      `gorm:"size:100" json:"targetRole"`
	ReadinessScore int         `gorm:"default:0" json:"readinessScore"` // 0-100
	Gaps           SkillGaps   `gorm:"type:json" json:"gaps"`
	Sprint         SprintItems `gorm:"type:json" json:"sprint"`
	ResumeIssues   StringList  `gorm:"type:json" json:"resumeIssues"`
}

func (CareerProfile) TableName() string {
	return "career_profile"
}

type SprintTaskStatus string

const (
	SprintTodo       SprintTaskStatus = "todo"
	SprintInProgress SprintTaskStatus = "in-progress"
	SprintDone       SprintTaskStatus = "done"
)

// SprintTask is a standalone, user-editable task on the career board.
type SprintTask struct {
	gorm.Model
	UserID    uint             `gorm:"index;type:bigint unsigned" json:"userId"`
	Title     string           `gorm:"size:255;not null" json:"title"`
	Type      string           `gorm:"size:50" json:"type"`
	Time      string           `gorm:"size:50" json:"time"`
	Status    SprintTaskStatus `gorm:"size:20;default:'todo'" json:"status"`
	Priority  int              `gorm:"default:0" json:"priority"`
	StartedAt *time.Time       `json:"startedAt,omitempty"`
}

func (SprintTask) TableName() string {
	return "sprints"
}
