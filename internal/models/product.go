package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product statuses
const (
	ProductActive = "active"
	ProductSold   = "sold"
)

// Product conditions
var ProductConditions = []string{"new", "like_new", "good", "fair", "poor"}

// Product is a marketplace listing
type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	SellerID    uint            `gorm:"index;not null" json:"seller_id"`
	Seller      *User           `gorm:"foreignKey:SellerID" json:"seller,omitempty"`
	Title       string          `gorm:"size:200;not null" json:"title"`
	Description string          `gorm:"type:text" json:"description"`
	CategoryID  uint            `gorm:"index" json:"category_id"`
	Category    *Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2)" json:"price"`
	Condition   string          `gorm:"size:20;not null" json:"condition"` // new, like_new, good, fair, poor
	Negotiable  bool            `gorm:"default:false" json:"negotiable"`
	ImageID     string          `gorm:"size:255" json:"image_id,omitempty"`
	Status      string          `gorm:"size:20;default:active;index" json:"status"` // active, sold
	Views       uint64          `gorm:"default:0" json:"views"`
	SoldAt      *time.Time      `json:"sold_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TableName specifies the table name for Product model
func (Product) TableName() string {
	return "products"
}

// Offer statuses
const (
	OfferPending   = "pending"
	OfferAccepted  = "accepted"
	OfferRejected  = "rejected"
	OfferCountered = "countered"
)

// Offer is a buyer's bid on a negotiable product. Offers are kept when the
// product is deleted so the negotiation history survives for moderation.
type Offer struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	BuyerID   uint            `gorm:"index;not null" json:"buyer_id"`
	Buyer     *User           `gorm:"foreignKey:BuyerID" json:"buyer,omitempty"`
	ProductID uint            `gorm:"index;not null" json:"product_id"`
	Amount    decimal.Decimal `gorm:"type:decimal(10,2)" json:"amount"`
	Message   string          `gorm:"type:text" json:"message,omitempty"`
	Status    string          `gorm:"size:20;default:pending;index" json:"status"` // pending, accepted, rejected, countered
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TableName specifies the table name for Offer model
func (Offer) TableName() string {
	return "offers"
}
