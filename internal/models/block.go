package models

type Block struct {
	BaseModel

	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Description string `json:"description"`

	// Relationships
	Contacts []Contact `gorm:"foreignKey:BlockID" json:"-"`
	Visits   []Visit   `gorm:"foreignKey:BlockID" json:"-"`
}
