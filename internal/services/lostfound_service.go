package services

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"

	"campus-classifieds/internal/auth"
	"campus-classifieds/internal/geo"
	"campus-classifieds/internal/media"
	"campus-classifieds/internal/models"
)

// LostFoundService handles lost-and-found reports
type LostFoundService struct {
	db       *gorm.DB
	media    *media.Service
	geocoder geo.Geocoder
}

// NewLostFoundService creates a new LostFoundService. geocoder may be nil
// to disable location geocoding.
func NewLostFoundService(db *gorm.DB, mediaService *media.Service, geocoder geo.Geocoder) *LostFoundService {
	return &LostFoundService{db: db, media: mediaService, geocoder: geocoder}
}

// LostItemInput carries the submitted report fields
type LostItemInput struct {
	ItemType    string
	ItemName    string
	Description string
	Location    string
	City        string
	Latitude    string
	Longitude   string
	DateLost    string
	Status      string // lost or found; how the item is being reported
	ContactInfo string
	ImageID     string
}

func (s *LostFoundService) validate(in LostItemInput) (*models.LostItem, error) {
	v := &validator{}

	v.oneOf("item_type", in.ItemType, models.ItemTypes)
	name := v.require("item_name", in.ItemName)
	v.maxLen("item_name", name, 200)
	v.require("description", in.Description)
	v.require("location", in.Location)
	dateLost := v.date("date_lost", in.DateLost)
	if !dateLost.IsZero() && dateLost.After(time.Now()) {
		v.add("date_lost", "cannot be in the future")
	}
	v.oneOf("status", in.Status, []string{models.ItemLost, models.ItemFound})
	lat, hasLat := v.coordinate("latitude", in.Latitude, 90)
	lng, hasLng := v.coordinate("longitude", in.Longitude, 180)
	if hasLat != hasLng {
		v.add("latitude", "latitude and longitude must be supplied together")
	}
	v.require("contact_info", in.ContactInfo)

	if err := v.err(); err != nil {
		return nil, err
	}

	return &models.LostItem{
		ItemType:    in.ItemType,
		ItemName:    in.ItemName,
		Description: in.Description,
		Location:    in.Location,
		City:        in.City,
		Latitude:    lat,
		Longitude:   lng,
		DateLost:    dateLost,
		Status:      in.Status,
		ContactInfo: in.ContactInfo,
	}, nil
}

func (s *LostFoundService) geocode(ctx context.Context, item *models.LostItem) {
	if s.geocoder == nil || item.Latitude != 0 || item.Longitude != 0 {
		return
	}
	point, err := s.geocoder.Geocode(ctx, item.Location, item.City)
	if err != nil {
		log.Printf("lostfound: geocoding %q failed: %v", item.Location, err)
		return
	}
	if point != nil {
		item.Latitude = point.Latitude
		item.Longitude = point.Longitude
	}
}

// Create validates the submission and files a new report owned by the actor
func (s *LostFoundService) Create(ctx context.Context, actor auth.Actor, in LostItemInput) (*models.LostItem, error) {
	item, err := s.validate(in)
	if err != nil {
		return nil, err
	}

	item.ReporterID = actor.ID
	item.ImageID = in.ImageID
	s.geocode(ctx, item)

	if err := s.db.Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// Update re-validates and persists changed fields under the ownership
// guard. A returned item stays returned.
func (s *LostFoundService) Update(ctx context.Context, actor auth.Actor, id uint, in LostItemInput) (*models.LostItem, error) {
	existing, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !actor.CanMutate(existing.ReporterID) {
		return nil, &PermissionError{Op: "update lost item"}
	}

	updated, err := s.validate(in)
	if err != nil {
		return nil, err
	}

	oldImage := existing.ImageID
	updated.ID = existing.ID
	updated.ReporterID = existing.ReporterID
	updated.Views = existing.Views
	updated.CreatedAt = existing.CreatedAt
	updated.ImageID = oldImage
	if existing.Status == models.ItemReturned {
		updated.Status = models.ItemReturned
		updated.ReturnedAt = existing.ReturnedAt
	}
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

// MarkReturned retires a report. Marking an already-returned item is a
// no-op.
func (s *LostFoundService) MarkReturned(actor auth.Actor, id uint) (*models.LostItem, error) {
	item, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !actor.CanMutate(item.ReporterID) {
		return nil, &PermissionError{Op: "mark item returned"}
	}
	if item.Status == models.ItemReturned {
		return item, nil
	}

	now := time.Now()
	item.Status = models.ItemReturned
	item.ReturnedAt = &now
	if err := s.db.Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// Get retrieves a report with its reporter
func (s *LostFoundService) Get(id uint) (*models.LostItem, error) {
	var item models.LostItem
	if err := s.db.Preload("Reporter").First(&item, id).Error; err != nil {
		return nil, wrapNotFound(err, "lost item", id)
	}
	return &item, nil
}

// IncrementView bumps the view counter unless the viewer is the reporter
func (s *LostFoundService) IncrementView(item *models.LostItem, actor auth.Actor) error {
	if actor.ID == item.ReporterID {
		return nil
	}
	return s.db.Model(item).UpdateColumn("views", gorm.Expr("views + 1")).Error
}

// Delete removes a report and its stored image best effort
func (s *LostFoundService) Delete(ctx context.Context, actor auth.Actor, id uint) error {
	item, err := s.Get(id)
	if err != nil {
		return err
	}
	if !actor.CanMutate(item.ReporterID) {
		return &PermissionError{Op: "delete lost item"}
	}

	if err := s.db.Delete(&models.LostItem{}, id).Error; err != nil {
		return err
	}
	s.media.Remove(ctx, item.ImageID)
	return nil
}

// LostItemSearchParams is the raw filter-criteria bag for lost-and-found
// search
type LostItemSearchParams struct {
	Query    string
	ItemType string
	Status   string // lost or found; returned items are excluded unless asked for
	City     string
	Sort     string
	Page     int
	// IncludeReturned adds returned items; honored for any caller since
	// returned reports stay publicly visible in the archive.
	IncludeReturned bool
}

func (s *LostFoundService) filtered(p LostItemSearchParams) *gorm.DB {
	q := s.db.Model(&models.LostItem{})
	switch {
	case p.Status == models.ItemLost || p.Status == models.ItemFound:
		q = q.Where("status = ?", p.Status)
	case !p.IncludeReturned:
		q = q.Where("status <> ?", models.ItemReturned)
	}
	if p.ItemType != "" {
		q = q.Where("item_type = ?", p.ItemType)
	}
	if p.City != "" {
		q = q.Where("LOWER(city) = ?", lower(p.City))
	}
	return textSearch(q, p.Query, "item_name", "description", "location")
}

// Search returns one page of matching reports plus the total match count
// and the effective page number.
func (s *LostFoundService) Search(p LostItemSearchParams) ([]models.LostItem, int64, int, error) {
	listQ := applySort(s.filtered(p), p.Sort, "").Preload("Reporter")

	var items []models.LostItem
	total, page, err := paginate(s.filtered(p), listQ, p.Page, &items)
	if err != nil {
		return nil, 0, 0, err
	}
	return items, total, page, nil
}
