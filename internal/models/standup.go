package models

import "time"

// Standup is a user's daily self-report. Append-only: never updated or
// deleted through the API.
type Standup struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	UserID    string `gorm:"size:36;index"`
	UserName  string `gorm:"size:255"`
	Yesterday string `gorm:"type:text"`
	Today     string `gorm:"type:text"`
	Blockers  string `gorm:"type:text"`
	CreatedAt time.Time
}

// NoBlockersSentinel is stored when a standup is submitted with blank blockers.
const NoBlockersSentinel = "None"
