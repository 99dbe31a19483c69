package models

import (
	"time"
)

// LostItem statuses. "returned" is terminal.
const (
	ItemLost     = "lost"
	ItemFound    = "found"
	ItemReturned = "returned"
)

// Item types
var ItemTypes = []string{"electronics", "books", "keys", "wallet", "clothing", "accessories", "other"}

// LostItem is a lost-and-found report
type LostItem struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	ReporterID  uint       `gorm:"index;not null" json:"reporter_id"`
	Reporter    *User      `gorm:"foreignKey:ReporterID" json:"reporter,omitempty"`
	ItemType    string     `gorm:"size:20;not null" json:"item_type"` // electronics, books, keys, wallet, clothing, accessories, other
	ItemName    string     `gorm:"size:200;not null" json:"item_name"`
	Description string     `gorm:"type:text" json:"description"`
	Location    string     `gorm:"size:200" json:"location"`
	City        string     `gorm:"size:100" json:"city,omitempty"`
	Latitude    float64    `json:"latitude,omitempty"`
	Longitude   float64    `json:"longitude,omitempty"`
	DateLost    time.Time  `json:"date_lost"`
	Status      string     `gorm:"size:20;default:lost;index" json:"status"` // lost, found, returned
	ContactInfo string     `gorm:"size:200" json:"contact_info"`
	ImageID     string     `gorm:"size:255" json:"image_id,omitempty"`
	Views       uint64     `gorm:"default:0" json:"views"`
	ReturnedAt  *time.Time `json:"returned_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName specifies the table name for LostItem model
func (LostItem) TableName() string {
	return "lost_items"
}
