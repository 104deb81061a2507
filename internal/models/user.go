package models

import "time"

// UserRole is the sole source of authorization facts. Rows are created
// out-of-band (the identity provider owns signup) and read on every
// authenticated request.
type UserRole struct {
	UserID    string `gorm:"primaryKey;size:36"`
	Email     string `gorm:"size:255;not null"`
	Name      string `gorm:"size:255"`
	Role      string `gorm:"size:50;not null;default:employee"`
	TeamID    *uint
	CreatedAt time.Time

	Team *Team `gorm:"foreignKey:TeamID"`
}

// Team is a simple lookup table referenced by UserRole.
type Team struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	Name      string `gorm:"size:255;not null;uniqueIndex"`
	CreatedAt time.Time
}

// Role values stored in UserRole.Role.
const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)
