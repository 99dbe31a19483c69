package models

// Category groups marketplace products
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;uniqueIndex;not null" json:"name"`
}

// TableName specifies the table name for Category model
func (Category) TableName() string {
	return "categories"
}

// DefaultCategories are seeded once at deployment time
var DefaultCategories = []string{
	"Electronics & Gadgets",
	"Books & Textbooks",
	"Clothing & Fashion",
	"Furniture & Home",
	"Sports & Fitness",
	"Beauty & Cosmetics",
	"Jewelry & Accessories",
	"Stationery & Supplies",
	"Kitchen & Appliances",
	"ID Cards & Documents",
	"Wallets & Bags",
	"Lab Equipment",
	"Musical Instruments",
	"Art & Craft Supplies",
	"Other",
}
