package models

import "time"

type User struct {
	BaseModel

	Name            string     `gorm:"not null" json:"name"`
	Username        string     `gorm:"uniqueIndex;not null" json:"username"`
	Email           string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash    string     `gorm:"not null" json:"-"`
	EmailVerifiedAt *time.Time `json:"email_verified_at"`

	// Relationships
	Contacts []Contact `gorm:"foreignKey:CreatedByID" json:"-"`
	Visits   []Visit   `gorm:"foreignKey:CreatedByID" json:"-"`
}
