package models

// Property represents a real-estate listing.
type Property struct {
	ID        uint    `json:"id" gorm:"primaryKey;autoIncrement"`
	Address   string  `json:"address" gorm:"not null"`
	Price     float64 `json:"price" gorm:"not null;index"`
	Bedrooms  int     `json:"bedrooms" gorm:"not null;index"`
	Bathrooms int     `json:"bathrooms" gorm:"not null;index"`
	Type      *string `json:"type,omitempty" gorm:"type:varchar(100);index"` // e.g. "House", "SingleFamilyResidence"
}
