package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"campus-classifieds/internal/auth"
	"campus-classifieds/internal/media"
	"campus-classifieds/internal/models"
)

// FoodService handles the restaurant directory and menus
type FoodService struct {
	db    *gorm.DB
	media *media.Service
}

// NewFoodService creates a new FoodService
func NewFoodService(db *gorm.DB, mediaService *media.Service) *FoodService {
	return &FoodService{db: db, media: mediaService}
}

// RestaurantInput carries the submitted restaurant fields
type RestaurantInput struct {
	Name              string
	Description       string
	Cuisine           string
	Address           string
	City              string
	Phone             string
	OpeningHours      string
	DeliveryAvailable bool
	ImageID           string
}

func (s *FoodService) validate(in RestaurantInput) error {
	v := &validator{}

	name := v.require("name", in.Name)
	v.maxLen("name", name, 200)
	v.require("description", in.Description)
	v.oneOf("cuisine", in.Cuisine, models.Cuisines)
	address := v.require("address", in.Address)
	v.maxLen("address", address, 300)
	v.require("phone", in.Phone)
	v.maxLen("opening_hours", in.OpeningHours, 100)

	return v.err()
}

// Create validates the submission and publishes a new restaurant owned by
// the actor. New entries start unverified; only staff can verify.
func (s *FoodService) Create(actor auth.Actor, in RestaurantInput) (*models.Restaurant, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}

	restaurant := &models.Restaurant{
		OwnerID:           actor.ID,
		Name:              in.Name,
		Description:       in.Description,
		Cuisine:           in.Cuisine,
		Address:           in.Address,
		City:              in.City,
		Phone:             in.Phone,
		OpeningHours:      in.OpeningHours,
		DeliveryAvailable: in.DeliveryAvailable,
		ImageID:           in.ImageID,
		Status:            models.RestaurantActive,
	}
	if err := s.db.Create(restaurant).Error; err != nil {
		return nil, err
	}
	return restaurant, nil
}

// Update re-validates and persists changed fields under the ownership guard
func (s *FoodService) Update(actor auth.Actor, id uint, in RestaurantInput) (*models.Restaurant, error) {
	restaurant, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !actor.CanMutate(restaurant.OwnerID) {
		return nil, &PermissionError{Op: "update restaurant"}
	}
	if err := s.validate(in); err != nil {
		return nil, err
	}

	oldImage := restaurant.ImageID
	restaurant.Name = in.Name
	restaurant.Description = in.Description
	restaurant.Cuisine = in.Cuisine
	restaurant.Address = in.Address
	restaurant.City = in.City
	restaurant.Phone = in.Phone
	restaurant.OpeningHours = in.OpeningHours
	restaurant.DeliveryAvailable = in.DeliveryAvailable
	if in.ImageID != "" {
		restaurant.ImageID = in.ImageID
	}

	if err := s.db.Save(restaurant).Error; err != nil {
		return nil, err
	}
	if in.ImageID != "" && in.ImageID != oldImage {
		s.media.Replace(oldImage, in.ImageID)
	}
	return restaurant, nil
}

// Close retires a restaurant entry. Closing an already-closed restaurant is
// a no-op.
func (s *FoodService) Close(actor auth.Actor, id uint) (*models.Restaurant, error) {
	restaurant, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !actor.CanMutate(restaurant.OwnerID) {
		return nil, &PermissionError{Op: "close restaurant"}
	}
	if restaurant.Status == models.RestaurantClosed {
		return restaurant, nil
	}

	now := time.Now()
	restaurant.Status = models.RestaurantClosed
	restaurant.ClosedAt = &now
	if err := s.db.Save(restaurant).Error; err != nil {
		return nil, err
	}
	return restaurant, nil
}

// SetVerified marks a restaurant as checked by campus staff
func (s *FoodService) SetVerified(actor auth.Actor, id uint, verified bool) (*models.Restaurant, error) {
	if !actor.CanReviewReports() {
		return nil, &PermissionError{Op: "verify restaurant"}
	}

	restaurant, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	restaurant.IsVerified = verified
	if err := s.db.Save(restaurant).Error; err != nil {
		return nil, err
	}
	return restaurant, nil
}

// Get retrieves a restaurant with its owner
func (s *FoodService) Get(id uint) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := s.db.Preload("Owner").First(&restaurant, id).Error; err != nil {
		return nil, wrapNotFound(err, "restaurant", id)
	}
	return &restaurant, nil
}

// IncrementView bumps the view counter unless the viewer is the owner
func (s *FoodService) IncrementView(restaurant *models.Restaurant, actor auth.Actor) error {
	if actor.ID == restaurant.OwnerID {
		return nil
	}
	return s.db.Model(restaurant).UpdateColumn("views", gorm.Expr("views + 1")).Error
}

// Delete removes a restaurant with its menu items and reviews in one
// transaction, then removes the stored image best effort.
func (s *FoodService) Delete(ctx context.Context, actor auth.Actor, id uint) error {
	restaurant, err := s.Get(id)
	if err != nil {
		return err
	}
	if !actor.CanMutate(restaurant.OwnerID) {
		return &PermissionError{Op: "delete restaurant"}
	}

	var menuImages []string
	err = s.db.Model(&models.MenuItem{}).Where("restaurant_id = ? AND image_id <> ''", id).
		Pluck("image_id", &menuImages).Error
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("restaurant_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Where("restaurant_id = ?", id).Delete(&models.MenuItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Restaurant{}, id).Error
	})
	if err != nil {
		return err
	}

	s.media.Remove(ctx, restaurant.ImageID)
	for _, img := range menuImages {
		s.media.Remove(ctx, img)
	}
	return nil
}

// MenuItemInput carries the submitted menu item fields
type MenuItemInput struct {
	Name        string
	Description string
	Price       string
	IsAvailable bool
	ImageID     string
}

func validateMenuItem(in MenuItemInput) (decimal.Decimal, error) {
	v := &validator{}
	name := v.require("name", in.Name)
	v.maxLen("name", name, 200)
	price := v.positiveDecimal("price", in.Price)
	return price, v.err()
}

// AddMenuItem adds an item to the restaurant's menu under the ownership
// guard.
func (s *FoodService) AddMenuItem(actor auth.Actor, restaurantID uint, in MenuItemInput) (*models.MenuItem, error) {
	restaurant, err := s.Get(restaurantID)
	if err != nil {
		return nil, err
	}
	if !actor.CanMutate(restaurant.OwnerID) {
		return nil, &PermissionError{Op: "add menu item"}
	}

	price, err := validateMenuItem(in)
	if err != nil {
		return nil, err
	}

	item := &models.MenuItem{
		RestaurantID: restaurantID,
		Name:         in.Name,
		Description:  in.Description,
		Price:        price,
		ImageID:      in.ImageID,
		IsAvailable:  in.IsAvailable,
	}
	if err := s.db.Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateMenuItem edits a menu item under the restaurant ownership guard
func (s *FoodService) UpdateMenuItem(actor auth.Actor, itemID uint, in MenuItemInput) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := s.db.First(&item, itemID).Error; err != nil {
		return nil, wrapNotFound(err, "menu item", itemID)
	}

	restaurant, err := s.Get(item.RestaurantID)
	if err != nil {
		return nil, err
	}
	if !actor.CanMutate(restaurant.OwnerID) {
		return nil, &PermissionError{Op: "update menu item"}
	}

	price, err := validateMenuItem(in)
	if err != nil {
		return nil, err
	}

	oldImage := item.ImageID
	item.Name = in.Name
	item.Description = in.Description
	item.Price = price
	item.IsAvailable = in.IsAvailable
	if in.ImageID != "" {
		item.ImageID = in.ImageID
	}

	if err := s.db.Save(&item).Error; err != nil {
		return nil, err
	}
	if in.ImageID != "" && in.ImageID != oldImage {
		s.media.Replace(oldImage, in.ImageID)
	}
	return &item, nil
}

// DeleteMenuItem removes a menu item under the restaurant ownership guard
func (s *FoodService) DeleteMenuItem(ctx context.Context, actor auth.Actor, itemID uint) error {
	var item models.MenuItem
	if err := s.db.First(&item, itemID).Error; err != nil {
		return wrapNotFound(err, "menu item", itemID)
	}

	restaurant, err := s.Get(item.RestaurantID)
	if err != nil {
		return err
	}
	if !actor.CanMutate(restaurant.OwnerID) {
		return &PermissionError{Op: "delete menu item"}
	}

	if err := s.db.Delete(&item).Error; err != nil {
		return err
	}
	s.media.Remove(ctx, item.ImageID)
	return nil
}

// ListMenu returns the restaurant's menu items
func (s *FoodService) ListMenu(restaurantID uint) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := s.db.Where("restaurant_id = ?", restaurantID).Order("name ASC").Find(&items).Error
	return items, err
}

// RestaurantSearchParams is the raw filter-criteria bag for restaurant
// search
type RestaurantSearchParams struct {
	Query       string
	Cuisine     string
	City        string
	Delivery    string // any, yes, no
	Verified    string // any, yes, no
	Sort        string
	Page        int
	AllStatuses bool
}

func (s *FoodService) filtered(actor auth.Actor, p RestaurantSearchParams) *gorm.DB {
	q := s.db.Model(&models.Restaurant{})
	if !(p.AllStatuses && actor.CanReviewReports()) {
		q = q.Where("status = ?", models.RestaurantActive)
	}
	if p.Cuisine != "" {
		q = q.Where("cuisine = ?", p.Cuisine)
	}
	if p.City != "" {
		q = q.Where("LOWER(city) = ?", lower(p.City))
	}
	q = triState(q, "delivery_available", p.Delivery)
	q = triState(q, "is_verified", p.Verified)
	return textSearch(q, p.Query, "name", "description", "address")
}

// Search returns one page of matching restaurants plus the total match
// count and the effective page number. SortTopRated orders by the average
// review rating; restaurants without reviews sort last.
func (s *FoodService) Search(actor auth.Actor, p RestaurantSearchParams) ([]models.Restaurant, int64, int, error) {
	listQ := s.filtered(actor, p)
	if p.Sort == SortTopRated {
		listQ = listQ.
			Select("restaurants.*, AVG(reviews.rating) AS avg_rating").
			Joins("LEFT JOIN reviews ON reviews.restaurant_id = restaurants.id").
			Group("restaurants.id").
			Order("avg_rating IS NULL, avg_rating DESC")
	} else {
		listQ = applySort(listQ, p.Sort, "")
	}
	listQ = listQ.Preload("Owner")

	var restaurants []models.Restaurant
	total, page, err := paginate(s.filtered(actor, p), listQ, p.Page, &restaurants)
	if err != nil {
		return nil, 0, 0, err
	}
	return restaurants, total, page, nil
}

// Featured returns a small most-viewed subset, independent of any filter
func (s *FoodService) Featured(limit int) ([]models.Restaurant, error) {
	var restaurants []models.Restaurant
	err := s.db.Where("status = ?", models.RestaurantActive).
		Order("views DESC").Limit(limit).Find(&restaurants).Error
	return restaurants, err
}
