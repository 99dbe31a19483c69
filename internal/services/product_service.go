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

// ProductService handles marketplace listing lifecycle and search
type ProductService struct {
	db    *gorm.DB
	media *media.Service
}

// NewProductService creates a new ProductService
func NewProductService(db *gorm.DB, mediaService *media.Service) *ProductService {
	return &ProductService{db: db, media: mediaService}
}

// ProductInput carries a validated-field bag for create/update. Numeric
// fields arrive as strings straight from the form and are parsed during
// validation so every bad field is reported together.
type ProductInput struct {
	Title       string
	Description string
	CategoryID  uint
	Price       string
	Condition   string
	Negotiable  bool
	ImageID     string // set by the handler after a successful media upload
}

func (s *ProductService) validate(in ProductInput) (decimal.Decimal, error) {
	v := &validator{}

	title := v.require("title", in.Title)
	v.maxLen("title", title, 200)
	v.require("description", in.Description)
	price := v.positiveDecimal("price", in.Price)
	v.oneOf("condition", in.Condition, models.ProductConditions)

	if in.CategoryID == 0 {
		v.add("category", "is required")
	} else {
		var count int64
		if err := s.db.Model(&models.Category{}).Where("id = ?", in.CategoryID).Count(&count).Error; err != nil {
			return decimal.Zero, err
		}
		if count == 0 {
			v.add("category", "does not exist")
		}
	}

	return price, v.err()
}

// Create validates the submission and publishes a new product owned by the
// actor.
func (s *ProductService) Create(actor auth.Actor, in ProductInput) (*models.Product, error) {
	price, err := s.validate(in)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		SellerID:    actor.ID,
		Title:       in.Title,
		Description: in.Description,
		CategoryID:  in.CategoryID,
		Price:       price,
		Condition:   in.Condition,
		Negotiable:  in.Negotiable,
		ImageID:     in.ImageID,
		Status:      models.ProductActive,
	}
	if err := s.db.Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Update re-validates and persists changed fields. Only the seller or staff
// may update. A replaced image is scheduled for deletion from the store.
func (s *ProductService) Update(actor auth.Actor, id uint, in ProductInput) (*models.Product, error) {
	product, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !actor.CanMutate(product.SellerID) {
		return nil, &PermissionError{Op: "update product"}
	}

	price, err := s.validate(in)
	if err != nil {
		return nil, err
	}

	oldImage := product.ImageID
	product.Title = in.Title
	product.Description = in.Description
	product.CategoryID = in.CategoryID
	product.Price = price
	product.Condition = in.Condition
	product.Negotiable = in.Negotiable
	if in.ImageID != "" {
		product.ImageID = in.ImageID
	}

	if err := s.db.Save(product).Error; err != nil {
		return nil, err
	}
	if in.ImageID != "" && in.ImageID != oldImage {
		s.media.Replace(oldImage, in.ImageID)
	}
	return product, nil
}

// MarkSold retires a product. Retiring an already-sold product is a no-op.
func (s *ProductService) MarkSold(actor auth.Actor, id uint) (*models.Product, error) {
	product, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !actor.CanMutate(product.SellerID) {
		return nil, &PermissionError{Op: "mark product sold"}
	}
	if product.Status == models.ProductSold {
		return product, nil
	}

	now := time.Now()
	product.Status = models.ProductSold
	product.SoldAt = &now
	if err := s.db.Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Get retrieves a product with its seller and category
func (s *ProductService) Get(id uint) (*models.Product, error) {
	var product models.Product
	if err := s.db.Preload("Seller").Preload("Category").First(&product, id).Error; err != nil {
		return nil, wrapNotFound(err, "product", id)
	}
	return &product, nil
}

// IncrementView bumps the view counter unless the viewer is the seller, so
// owners cannot inflate their own counts.
func (s *ProductService) IncrementView(product *models.Product, actor auth.Actor) error {
	if actor.ID == product.SellerID {
		return nil
	}
	return s.db.Model(product).UpdateColumn("views", gorm.Expr("views + 1")).Error
}

// Delete removes a product. Offer rows are kept for the negotiation audit
// trail; the stored image is removed best effort.
func (s *ProductService) Delete(ctx context.Context, actor auth.Actor, id uint) error {
	product, err := s.Get(id)
	if err != nil {
		return err
	}
	if !actor.CanMutate(product.SellerID) {
		return &PermissionError{Op: "delete product"}
	}

	if err := s.db.Delete(&models.Product{}, id).Error; err != nil {
		return err
	}
	s.media.Remove(ctx, product.ImageID)
	return nil
}

// ProductSearchParams is the raw filter-criteria bag for product search
type ProductSearchParams struct {
	Query      string
	CategoryID uint
	Condition  string
	MinPrice   string
	MaxPrice   string
	Negotiable string // any, yes, no
	Sort       string
	Page       int
	// AllStatuses lifts the active-only restriction; honored for staff only
	AllStatuses bool
}

func (s *ProductService) filtered(actor auth.Actor, p ProductSearchParams) *gorm.DB {
	q := s.db.Model(&models.Product{})
	if !(p.AllStatuses && actor.CanReviewReports()) {
		q = q.Where("status = ?", models.ProductActive)
	}
	if p.CategoryID != 0 {
		q = q.Where("category_id = ?", p.CategoryID)
	}
	if p.Condition != "" {
		q = q.Where("condition = ?", p.Condition)
	}
	if min, err := decimal.NewFromString(p.MinPrice); err == nil {
		q = q.Where("price >= ?", min)
	}
	if max, err := decimal.NewFromString(p.MaxPrice); err == nil {
		q = q.Where("price <= ?", max)
	}
	q = triState(q, "negotiable", p.Negotiable)
	return textSearch(q, p.Query, "title", "description")
}

// Search returns one page of matching products plus the total match count
// and the effective (clamped) page number.
func (s *ProductService) Search(actor auth.Actor, p ProductSearchParams) ([]models.Product, int64, int, error) {
	listQ := applySort(s.filtered(actor, p), p.Sort, "price").
		Preload("Seller").Preload("Category")

	var products []models.Product
	total, page, err := paginate(s.filtered(actor, p), listQ, p.Page, &products)
	if err != nil {
		return nil, 0, 0, err
	}
	return products, total, page, nil
}

// Featured returns a small most-viewed subset, independent of any filter
func (s *ProductService) Featured(limit int) ([]models.Product, error) {
	var products []models.Product
	err := s.db.Where("status = ?", models.ProductActive).
		Order("views DESC").Limit(limit).Find(&products).Error
	return products, err
}

// ListBySeller returns the seller's own products, optionally narrowed to
// sold or unsold.
func (s *ProductService) ListBySeller(sellerID uint, statusFilter string) ([]models.Product, error) {
	q := s.db.Where("seller_id = ?", sellerID).Order("created_at DESC")
	switch statusFilter {
	case "sold":
		q = q.Where("status = ?", models.ProductSold)
	case "unsold":
		q = q.Where("status = ?", models.ProductActive)
	}

	var products []models.Product
	if err := q.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}
