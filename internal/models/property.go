package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Property statuses
const (
	PropertyAvailable = "available"
	PropertyRented    = "rented"
)

// Property types
var PropertyTypes = []string{"apartment", "house", "room", "hostel", "studio"}

// Property is a housing listing
type Property struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	OwnerID       uint            `gorm:"index;not null" json:"owner_id"`
	Owner         *User           `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Title         string          `gorm:"size:200;not null" json:"title"`
	Description   string          `gorm:"type:text" json:"description"`
	PropertyType  string          `gorm:"size:20;not null" json:"property_type"` // apartment, house, room, hostel, studio
	Address       string          `gorm:"size:300;not null" json:"address"`
	City          string          `gorm:"size:100" json:"city"`
	Neighborhood  string          `gorm:"size:100" json:"neighborhood,omitempty"`
	Latitude      float64         `json:"latitude,omitempty"`
	Longitude     float64         `json:"longitude,omitempty"`
	Rent          decimal.Decimal `gorm:"type:decimal(10,2)" json:"rent"`
	Bedrooms      int             `json:"bedrooms"`
	Bathrooms     int             `json:"bathrooms"`
	IsFurnished   bool            `gorm:"default:false" json:"is_furnished"`
	Amenities     string          `gorm:"type:text" json:"amenities,omitempty"`
	AvailableFrom *time.Time      `json:"available_from,omitempty"`
	ContactInfo   string          `gorm:"size:200" json:"contact_info"`
	ImageID       string          `gorm:"size:255" json:"image_id,omitempty"`
	Status        string          `gorm:"size:20;default:available;index" json:"status"` // available, rented
	Views         uint64          `gorm:"default:0" json:"views"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// TableName specifies the table name for Property model
func (Property) TableName() string {
	return "properties"
}

// Favorite marks a property saved by a user. One row per (user, property).
type Favorite struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_fav_user_property" json:"user_id"`
	PropertyID uint      `gorm:"not null;uniqueIndex:idx_fav_user_property" json:"property_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for Favorite model
func (Favorite) TableName() string {
	return "favorites"
}
