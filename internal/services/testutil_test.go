package services

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"campus-classifieds/internal/auth"
	"campus-classifieds/internal/media"
	"campus-classifieds/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	// A named in-memory database so every test gets its own isolated schema
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Offer{},
		&models.Property{},
		&models.Favorite{},
		&models.Restaurant{},
		&models.MenuItem{},
		&models.Review{},
		&models.LostItem{},
		&models.Report{},
	)
	if err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	return db
}

func newTestMedia() (*media.Service, *media.MemoryStore) {
	store := media.NewMemoryStore()
	return media.NewService(store), store
}

func createUser(t *testing.T, db *gorm.DB, username, role string) *models.User {
	user := &models.User{
		Username:     username,
		Email:        username + "@campus.test",
		PasswordHash: "x",
		Role:         role,
		IsActive:     true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}

func actorFor(user *models.User) auth.Actor {
	return auth.Actor{ID: user.ID, IsStaff: user.IsStaff(), IsSuperuser: user.IsSuperuser}
}

func createCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	category := &models.Category{Name: name}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create category %s: %v", name, err)
	}
	return category
}

func createProduct(t *testing.T, db *gorm.DB, sellerID, categoryID uint, title, price string) *models.Product {
	amount, err := decimal.NewFromString(price)
	if err != nil {
		t.Fatalf("bad price %q: %v", price, err)
	}
	product := &models.Product{
		SellerID:    sellerID,
		Title:       title,
		Description: "test listing",
		CategoryID:  categoryID,
		Price:       amount,
		Condition:   "good",
		Negotiable:  true,
		Status:      models.ProductActive,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("failed to create product %s: %v", title, err)
	}
	return product
}

func createProperty(t *testing.T, db *gorm.DB, ownerID uint, title, rent string) *models.Property {
	amount, err := decimal.NewFromString(rent)
	if err != nil {
		t.Fatalf("bad rent %q: %v", rent, err)
	}
	property := &models.Property{
		OwnerID:      ownerID,
		Title:        title,
		Description:  "test property",
		PropertyType: "apartment",
		Address:      "1 Campus Drive",
		City:         "Legon",
		Rent:         amount,
		Bedrooms:     2,
		Bathrooms:    1,
		ContactInfo:  "call me",
		Status:       models.PropertyAvailable,
	}
	if err := db.Create(property).Error; err != nil {
		t.Fatalf("failed to create property %s: %v", title, err)
	}
	return property
}

func createRestaurant(t *testing.T, db *gorm.DB, ownerID uint, name string) *models.Restaurant {
	restaurant := &models.Restaurant{
		OwnerID:     ownerID,
		Name:        name,
		Description: "test restaurant",
		Cuisine:     "local",
		Address:     "2 Campus Drive",
		City:        "Legon",
		Phone:       "0200000000",
		Status:      models.RestaurantActive,
	}
	if err := db.Create(restaurant).Error; err != nil {
		t.Fatalf("failed to create restaurant %s: %v", name, err)
	}
	return restaurant
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func assertValidationField(t *testing.T, err error, field string) {
	t.Helper()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, f := range verr.Fields {
		if f.Field == field {
			return
		}
	}
	t.Errorf("expected a %q field error, got %v", field, verr.Fields)
}
