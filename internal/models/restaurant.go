package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Restaurant statuses
const (
	RestaurantActive = "active"
	RestaurantClosed = "closed"
)

// Cuisine choices
var Cuisines = []string{"local", "fast_food", "continental", "asian", "italian", "other"}

// Restaurant is a food directory listing
type Restaurant struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	OwnerID           uint       `gorm:"index;not null" json:"owner_id"`
	Owner             *User      `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Name              string     `gorm:"size:200;not null" json:"name"`
	Description       string     `gorm:"type:text" json:"description"`
	Cuisine           string     `gorm:"size:20;not null" json:"cuisine"` // local, fast_food, continental, asian, italian, other
	Address           string     `gorm:"size:300;not null" json:"address"`
	City              string     `gorm:"size:100" json:"city"`
	Phone             string     `gorm:"size:20" json:"phone"`
	OpeningHours      string     `gorm:"size:100" json:"opening_hours"`
	DeliveryAvailable bool       `gorm:"default:false" json:"delivery_available"`
	ImageID           string     `gorm:"size:255" json:"image_id,omitempty"`
	IsVerified        bool       `gorm:"default:false" json:"is_verified"` // set by staff only
	Status            string     `gorm:"size:20;default:active;index" json:"status"` // active, closed
	Views             uint64     `gorm:"default:0" json:"views"`
	ClosedAt          *time.Time `json:"closed_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// TableName specifies the table name for Restaurant model
func (Restaurant) TableName() string {
	return "restaurants"
}

// MenuItem belongs to a restaurant
type MenuItem struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	RestaurantID uint            `gorm:"index;not null" json:"restaurant_id"`
	Name         string          `gorm:"size:200;not null" json:"name"`
	Description  string          `gorm:"type:text" json:"description,omitempty"`
	Price        decimal.Decimal `gorm:"type:decimal(10,2)" json:"price"`
	ImageID      string          `gorm:"size:255" json:"image_id,omitempty"`
	IsAvailable  bool            `gorm:"default:true" json:"is_available"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// TableName specifies the table name for MenuItem model
func (MenuItem) TableName() string {
	return "menu_items"
}

// Review is a user's rating of a restaurant. One row per (user, restaurant).
type Review struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_review_user_restaurant" json:"user_id"`
	User         *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	RestaurantID uint      `gorm:"not null;uniqueIndex:idx_review_user_restaurant" json:"restaurant_id"`
	Rating       int       `gorm:"not null" json:"rating"` // 1..5
	Comment      string    `gorm:"type:text" json:"comment,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for Review model
func (Review) TableName() string {
	return "reviews"
}
