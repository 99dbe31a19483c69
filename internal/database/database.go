package database

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"campus-classifieds/internal/models"
)

var DB *gorm.DB

// Connect establishes a connection to the PostgreSQL database
func Connect(dsn string) error {
	var err error

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Error),
		DisableForeignKeyConstraintWhenMigrating: true,
	})

	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("Database connection established successfully")
	return nil
}

// AutoMigrate runs automatic migrations for all models
func AutoMigrate() error {
	return Migrate(DB)
}

// Migrate runs automatic migrations on the given connection
func Migrate(db *gorm.DB) error {
	// Accounts and moderation
	accountModels := []interface{}{
		&models.User{},
		&models.Report{},
	}

	for _, model := range accountModels {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("migration failed for %T: %w", model, err)
		}
	}

	// Marketplace
	marketplaceModels := []interface{}{
		&models.Category{},
		&models.Product{},
		&models.Offer{},
	}

	for _, model := range marketplaceModels {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("migration failed for %T: %w", model, err)
		}
	}

	// Housing
	housingModels := []interface{}{
		&models.Property{},
		&models.Favorite{},
	}

	for _, model := range housingModels {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("migration failed for %T: %w", model, err)
		}
	}

	// Food directory
	foodModels := []interface{}{
		&models.Restaurant{},
		&models.MenuItem{},
		&models.Review{},
	}

	for _, model := range foodModels {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("migration failed for %T: %w", model, err)
		}
	}

	// Lost and found
	if err := db.AutoMigrate(&models.LostItem{}); err != nil {
		return fmt.Errorf("migration failed for %T: %w", &models.LostItem{}, err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// Seed creates the default marketplace categories. Idempotent; meant to be
// invoked once at deployment time rather than as an import side effect.
func Seed(db *gorm.DB) error {
	for _, name := range models.DefaultCategories {
		var category models.Category
		err := db.Where("name = ?", name).FirstOrCreate(&category, models.Category{Name: name}).Error
		if err != nil {
			return fmt.Errorf("failed to seed category %q: %w", name, err)
		}
	}
	log.Printf("Seeded %d default categories", len(models.DefaultCategories))
	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
