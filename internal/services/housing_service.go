package services

import (
	"context"
	"log"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"campus-classifieds/internal/auth"
	"campus-classifieds/internal/geo"
	"campus-classifieds/internal/media"
	"campus-classifieds/internal/models"
)

// HousingService handles property listing lifecycle and search
type HousingService struct {
	db       *gorm.DB
	media    *media.Service
	geocoder geo.Geocoder
}

// NewHousingService creates a new HousingService. geocoder may be nil to
// disable address geocoding.
func NewHousingService(db *gorm.DB, mediaService *media.Service, geocoder geo.Geocoder) *HousingService {
	return &HousingService{db: db, media: mediaService, geocoder: geocoder}
}

// PropertyInput carries the submitted property fields
type PropertyInput struct {
	Title         string
	Description   string
	PropertyType  string
	Address       string
	City          string
	Neighborhood  string
	Latitude      string
	Longitude     string
	Rent          string
	Bedrooms      string
	Bathrooms     string
	IsFurnished   bool
	Amenities     string
	AvailableFrom string
	ContactInfo   string
	ImageID       string
}

func (s *HousingService) validate(in PropertyInput) (*models.Property, error) {
	v := &validator{}

	title := v.require("title", in.Title)
	v.maxLen("title", title, 200)
	v.require("description", in.Description)
	v.oneOf("property_type", in.PropertyType, models.PropertyTypes)
	address := v.require("address", in.Address)
	v.maxLen("address", address, 300)
	rent := v.positiveDecimal("rent", in.Rent)
	bedrooms := v.intInRange("bedrooms", in.Bedrooms, 0, 20)
	bathrooms := v.intInRange("bathrooms", in.Bathrooms, 0, 20)
	lat, hasLat := v.coordinate("latitude", in.Latitude, 90)
	lng, hasLng := v.coordinate("longitude", in.Longitude, 180)
	if hasLat != hasLng {
		v.add("latitude", "latitude and longitude must be supplied together")
	}
	availableFrom := v.optionalDate("available_from", in.AvailableFrom)
	v.require("contact_info", in.ContactInfo)

	if err := v.err(); err != nil {
		return nil, err
	}

	return &models.Property{
		Title:         in.Title,
		Description:   in.Description,
		PropertyType:  in.PropertyType,
		Address:       in.Address,
		City:          in.City,
		Neighborhood:  in.Neighborhood,
		Latitude:      lat,
		Longitude:     lng,
		Rent:          rent,
		Bedrooms:      bedrooms,
		Bathrooms:     bathrooms,
		IsFurnished:   in.IsFurnished,
		Amenities:     in.Amenities,
		AvailableFrom: availableFrom,
		ContactInfo:   in.ContactInfo,
	}, nil
}

// geocode fills missing coordinates from the address, best effort
func (s *HousingService) geocode(ctx context.Context, p *models.Property) {
	if s.geocoder == nil || p.Latitude != 0 || p.Longitude != 0 {
		return
	}
	point, err := s.geocoder.Geocode(ctx, p.Address, p.City)
	if err != nil {
		log.Printf("housing: geocoding %q failed: %v", p.Address, err)
		return
	}
	if point != nil {
		p.Latitude = point.Latitude
		p.Longitude = point.Longitude
	}
}

// Create validates the submission and publishes a new property owned by the
// actor.
func (s *HousingService) Create(ctx context.Context, actor auth.Actor, in PropertyInput) (*models.Property, error) {
	property, err := s.validate(in)
	if err != nil {
		return nil, err
	}

	property.OwnerID = actor.ID
	property.ImageID = in.ImageID
	property.Status = models.PropertyAvailable
	s.geocode(ctx, property)

	if err := s.db.Create(property).Error; err != nil {
		return nil, err
	}
	return property, nil
}

// Update re-validates and persists changed fields under the ownership guard
func (s *HousingService) Update(ctx context.Context, actor auth.Actor, id uint, in PropertyInput) (*models.Property, error) {
	existing, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !actor.CanMutate(existing.OwnerID) {
		return nil, &PermissionError{Op: "update property"}
	}

	updated, err := s.validate(in)
	if err != nil {
		return nil, err
	}

	oldImage := existing.ImageID
	updated.ID = existing.ID
	updated.OwnerID = existing.OwnerID
	updated.Status = existing.Status
	updated.Views = existing.Views
	updated.CreatedAt = existing.CreatedAt
	updated.ImageID = oldImage
	if in.ImageID != "" {
		updated.ImageID = in.ImageID
	}
	s.geocode(ctx, updated)

	if err := s.db.Save(updated).Error; err != nil {
		return nil, err
	}
	if in.ImageID != "" && in.ImageID != oldImage {
		s.media.Replace(oldImage, in.ImageID)
	}
	return updated, nil
}

// SetAvailability toggles a property between available and rented. Housing
// allows reactivation, so both directions are valid; setting the current
// state is a no-op.
func (s *HousingService) SetAvailability(actor auth.Actor, id uint, available bool) (*models.Property, error) {
	property, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !actor.CanMutate(property.OwnerID) {
		return nil, &PermissionError{Op: "update property availability"}
	}

	status := models.PropertyRented
	if available {
		status = models.PropertyAvailable
	}
	if property.Status == status {
		return property, nil
	}

	property.Status = status
	if err := s.db.Save(property).Error; err != nil {
		return nil, err
	}
	return property, nil
}

// Get retrieves a property with its owner
func (s *HousingService) Get(id uint) (*models.Property, error) {
	var property models.Property
	if err := s.db.Preload("Owner").First(&property, id).Error; err != nil {
		return nil, wrapNotFound(err, "property", id)
	}
	return &property, nil
}

// IncrementView bumps the view counter unless the viewer is the owner
func (s *HousingService) IncrementView(property *models.Property, actor auth.Actor) error {
	if actor.ID == property.OwnerID {
		return nil
	}
	return s.db.Model(property).UpdateColumn("views", gorm.Expr("views + 1")).Error
}

// Delete removes a property and its favorites in one transaction, then
// removes the stored image best effort.
func (s *HousingService) Delete(ctx context.Context, actor auth.Actor, id uint) error {
	property, err := s.Get(id)
	if err != nil {
		return err
	}
	if !actor.CanMutate(property.OwnerID) {
		return &PermissionError{Op: "delete property"}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("property_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Property{}, id).Error
	})
	if err != nil {
		return err
	}

	s.media.Remove(ctx, property.ImageID)
	return nil
}

// PropertySearchParams is the raw filter-criteria bag for property search
type PropertySearchParams struct {
	Query        string
	PropertyType string
	City         string
	MinRent      string
	MaxRent      string
	MinBedrooms  string
	MaxBedrooms  string
	Furnished    string // any, yes, no
	Sort         string
	Page         int
	AllStatuses  bool
}

func (s *HousingService) filtered(actor auth.Actor, p PropertySearchParams) *gorm.DB {
	q := s.db.Model(&models.Property{})
	if !(p.AllStatuses && actor.CanReviewReports()) {
		q = q.Where("status = ?", models.PropertyAvailable)
	}
	if p.PropertyType != "" {
		q = q.Where("property_type = ?", p.PropertyType)
	}
	if p.City != "" {
		q = q.Where("LOWER(city) = ?", lower(p.City))
	}
	if min, err := decimal.NewFromString(p.MinRent); err == nil {
		q = q.Where("rent >= ?", min)
	}
	if max, err := decimal.NewFromString(p.MaxRent); err == nil {
		q = q.Where("rent <= ?", max)
	}
	if n, ok := atoi(p.MinBedrooms); ok {
		q = q.Where("bedrooms >= ?", n)
	}
	if n, ok := atoi(p.MaxBedrooms); ok {
		q = q.Where("bedrooms <= ?", n)
	}
	q = triState(q, "is_furnished", p.Furnished)
	return textSearch(q, p.Query, "title", "description", "address", "neighborhood")
}

// Search returns one page of matching properties plus the total match count
// and the effective page number.
func (s *HousingService) Search(actor auth.Actor, p PropertySearchParams) ([]models.Property, int64, int, error) {
	listQ := applySort(s.filtered(actor, p), p.Sort, "rent").Preload("Owner")

	var properties []models.Property
	total, page, err := paginate(s.filtered(actor, p), listQ, p.Page, &properties)
	if err != nil {
		return nil, 0, 0, err
	}
	return properties, total, page, nil
}

// Featured returns a small most-viewed subset, independent of any filter
func (s *HousingService) Featured(limit int) ([]models.Property, error) {
	var properties []models.Property
	err := s.db.Where("status = ?", models.PropertyAvailable).
		Order("views DESC").Limit(limit).Find(&properties).Error
	return properties, err
}

// ListByOwner returns the owner's own properties
func (s *HousingService) ListByOwner(ownerID uint) ([]models.Property, error) {
	var properties []models.Property
	err := s.db.Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&properties).Error
	return properties, err
}
