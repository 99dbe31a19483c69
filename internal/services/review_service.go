package services

import (
	"errors"

	"gorm.io/gorm"

	"campus-classifieds/internal/auth"
	"campus-classifieds/internal/models"
)

// ReviewService handles restaurant reviews
type ReviewService struct {
	db *gorm.DB
}

// NewReviewService creates a new ReviewService
func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

func (s *ReviewService) loadRestaurant(restaurantID uint) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := s.db.First(&restaurant, restaurantID).Error; err != nil {
		return nil, wrapNotFound(err, "restaurant", restaurantID)
	}
	return &restaurant, nil
}

func (s *ReviewService) validate(actor auth.Actor, restaurant *models.Restaurant, rating int) error {
	v := &validator{}
	if actor.ID == restaurant.OwnerID {
		v.add("restaurant", "cannot review your own restaurant")
	}
	if rating < 1 || rating > 5 {
		v.add("rating", "must be between 1 and 5")
	}
	return v.err()
}

// Upsert creates the actor's review of a restaurant, or updates it in place
// if one already exists. At most one review per (user, restaurant).
func (s *ReviewService) Upsert(actor auth.Actor, restaurantID uint, rating int, comment string) (*models.Review, error) {
	restaurant, err := s.loadRestaurant(restaurantID)
	if err != nil {
		return nil, err
	}
	if err := s.validate(actor, restaurant, rating); err != nil {
		return nil, err
	}

	var review models.Review
	err = s.db.Where("user_id = ? AND restaurant_id = ?", actor.ID, restaurantID).First(&review).Error
	switch {
	case err == nil:
		review.Rating = rating
		review.Comment = comment
		if err := s.db.Save(&review).Error; err != nil {
			return nil, err
		}
		return &review, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		review = models.Review{
			UserID:       actor.ID,
			RestaurantID: restaurantID,
			Rating:       rating,
			Comment:      comment,
		}
		if err := s.db.Create(&review).Error; err != nil {
			return nil, err
		}
		return &review, nil
	default:
		return nil, err
	}
}

// Create is the direct-create entry point. Unlike Upsert it refuses a
// second review by the same user with a ConflictError.
func (s *ReviewService) Create(actor auth.Actor, restaurantID uint, rating int, comment string) (*models.Review, error) {
	restaurant, err := s.loadRestaurant(restaurantID)
	if err != nil {
		return nil, err
	}
	if err := s.validate(actor, restaurant, rating); err != nil {
		return nil, err
	}

	var count int64
	err = s.db.Model(&models.Review{}).
		Where("user_id = ? AND restaurant_id = ?", actor.ID, restaurantID).Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, &ConflictError{Message: "you have already reviewed this restaurant"}
	}

	review := &models.Review{
		UserID:       actor.ID,
		RestaurantID: restaurantID,
		Rating:       rating,
		Comment:      comment,
	}
	if err := s.db.Create(review).Error; err != nil {
		return nil, err
	}
	return review, nil
}

// Delete removes a review. Only its author or staff may delete it.
func (s *ReviewService) Delete(actor auth.Actor, reviewID uint) error {
	var review models.Review
	if err := s.db.First(&review, reviewID).Error; err != nil {
		return wrapNotFound(err, "review", reviewID)
	}
	if !actor.CanMutate(review.UserID) {
		return &PermissionError{Op: "delete review"}
	}
	return s.db.Delete(&review).Error
}

// ListForRestaurant returns a restaurant's reviews, newest first
func (s *ReviewService) ListForRestaurant(restaurantID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := s.db.Where("restaurant_id = ?", restaurantID).
		Preload("User").Order("created_at DESC").Find(&reviews).Error
	return reviews, err
}

// AverageRating returns the mean rating, or 0 when there are no reviews
func (s *ReviewService) AverageRating(restaurantID uint) (float64, error) {
	var avg *float64
	err := s.db.Model(&models.Review{}).
		Where("restaurant_id = ?", restaurantID).
		Select("AVG(rating)").Scan(&avg).Error
	if err != nil {
		return 0, err
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}
