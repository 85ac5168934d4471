package models

import "time"

type Visit struct {
	BaseModel

	ContactID uint `gorm:"not null;index" json:"contact_id"`
	// BlockID is denormalized from the contact at creation time and trusted as
	// supplied, not re-derived on later updates.
	BlockID        uint       `gorm:"not null;index" json:"block_id"`
	VisitDate      time.Time  `gorm:"not null;index" json:"visit_date"`
	Purpose        string     `gorm:"not null" json:"purpose"`
	Response       string     `json:"response"`
	Duration       int        `json:"duration"` // minutes
	FollowUpNeeded bool       `gorm:"not null;default:false" json:"follow_up_needed"`
	FollowUpDate   *time.Time `gorm:"index" json:"follow_up_date"`
	Notes          string     `json:"notes"`
	CreatedByID    uint       `gorm:"not null;index" json:"created_by_id"`

	// Relationships
	Contact   Contact `gorm:"foreignKey:ContactID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Block     Block   `gorm:"foreignKey:BlockID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	CreatedBy User    `gorm:"foreignKey:CreatedByID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}
