package model

import "time"

// Settings is keyed strictly by user id, one row per user.
type Settings struct {
	UserID        uint      `gorm:"primaryKey;type:bigint unsigned" json:"userId"`
	Theme         string    `gorm:"size:20;default:'light'" json:"theme"`
	Notifications bool      `gorm:"default:true" json:"notifications"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (Settings) TableName() string {
	return "settings"
}

// FocusQuote is one rotating motivational line for the Today Focus screen.
type FocusQuote struct {
	BaseModel
	Content         string `gorm:"type:text;not null" json:"content"`
	IsEnabled       bool   `gorm:"default:true" json:"isEnabled"`
	IsCurrentlyUsed bool   `gorm:"default:false" json:"isCurrentlyUsed"`
}

func (FocusQuote) TableName() string {
	return "focus_quotes"
}
