package models

type Contact struct {
	BaseModel

	Name         string `gorm:"not null;index" json:"name"`
	FatherName   string `json:"father_name"`
	PhoneNumber  string `json:"phone_number"`
	HouseNumber  string `json:"house_number"`
	Address      string `json:"address"`
	Occupation   string `json:"occupation"`
	Timings      string `json:"timings"`
	Notes        string `json:"notes"`
	IsMuslim     bool   `gorm:"not null;default:false" json:"is_muslim"`
	IsInterested bool   `gorm:"not null;default:false" json:"is_interested"`
	BlockID      uint   `gorm:"not null;index" json:"block_id"`
	CreatedByID  uint   `gorm:"not null;index" json:"created_by_id"`

	// Relationships. RESTRICT keeps deletes of referenced rows from cascading;
	// the store surfaces those as constraint violations instead.
	Block     Block   `gorm:"foreignKey:BlockID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	CreatedBy User    `gorm:"foreignKey:CreatedByID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Visits    []Visit `gorm:"foreignKey:ContactID" json:"-"`
}
