package models

import "time"

// BaseModel is gorm.Model without the soft-delete column. Rows in this schema
// are removed for real, so a DeletedAt marker would only interfere with the
// unique indexes on blocks and users.
type BaseModel struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
