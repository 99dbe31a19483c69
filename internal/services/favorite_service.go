package services

import (
	"errors"

	"gorm.io/gorm"

	"campus-classifieds/internal/auth"
	"campus-classifieds/internal/models"
)

// FavoriteService handles saved housing listings
type FavoriteService struct {
	db *gorm.DB
}

// NewFavoriteService creates a new FavoriteService
func NewFavoriteService(db *gorm.DB) *FavoriteService {
	return &FavoriteService{db: db}
}

// Toggle favorites a property, or unfavorites it if already saved. Returns
// the resulting state: true when the property is now favorited.
func (s *FavoriteService) Toggle(actor auth.Actor, propertyID uint) (bool, error) {
	var property models.Property
	if err := s.db.First(&property, propertyID).Error; err != nil {
		return false, wrapNotFound(err, "property", propertyID)
	}

	var existing models.Favorite
	err := s.db.Where("user_id = ? AND property_id = ?", actor.ID, propertyID).First(&existing).Error
	switch {
	case err == nil:
		if err := s.db.Delete(&existing).Error; err != nil {
			return false, err
		}
		return false, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		favorite := models.Favorite{UserID: actor.ID, PropertyID: propertyID}
		if err := s.db.Create(&favorite).Error; err != nil {
			return false, err
		}
		return true, nil
	default:
		return false, err
	}
}

// IsFavorited reports whether the actor has saved the property
func (s *FavoriteService) IsFavorited(actor auth.Actor, propertyID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.Favorite{}).
		Where("user_id = ? AND property_id = ?", actor.ID, propertyID).Count(&count).Error
	return count > 0, err
}

// ListProperties returns the properties the actor has saved
func (s *FavoriteService) ListProperties(actor auth.Actor) ([]models.Property, error) {
	var properties []models.Property
	err := s.db.
		Joins("JOIN favorites ON favorites.property_id = properties.id").
		Where("favorites.user_id = ?", actor.ID).
		Order("favorites.created_at DESC").
		Find(&properties).Error
	return properties, err
}
