package services

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"campus-classifieds/internal/auth"
	"campus-classifieds/internal/models"
)

// Offer amount bounds relative to the asking price. Below half the asking
// price is rejected as lowballing; above double is rejected as abuse.
var (
	offerFloorRatio   = decimal.NewFromFloat(0.5)
	offerCeilingRatio = decimal.NewFromInt(2)
)

// OfferService handles buyer offers on marketplace products
type OfferService struct {
	db *gorm.DB
}

// NewOfferService creates a new OfferService
func NewOfferService(db *gorm.DB) *OfferService {
	return &OfferService{db: db}
}

// Create places an offer on a negotiable product. The seller cannot bid on
// their own listing.
func (s *OfferService) Create(actor auth.Actor, productID uint, amount decimal.Decimal, message string) (*models.Offer, error) {
	var product models.Product
	if err := s.db.First(&product, productID).Error; err != nil {
		return nil, wrapNotFound(err, "product", productID)
	}

	v := &validator{}
	if actor.ID == product.SellerID {
		v.add("product", "cannot make an offer on your own product")
	}
	if product.Status != models.ProductActive {
		v.add("product", "is no longer available")
	}
	if !product.Negotiable {
		v.add("product", "does not accept offers")
	}
	if !amount.IsPositive() {
		v.add("amount", "must be greater than zero")
	} else {
		if amount.LessThan(product.Price.Mul(offerFloorRatio)) {
			v.add("amount", "is below half the asking price")
		}
		if amount.GreaterThan(product.Price.Mul(offerCeilingRatio)) {
			v.add("amount", "is more than double the asking price")
		}
	}
	if err := v.err(); err != nil {
		return nil, err
	}

	offer := &models.Offer{
		BuyerID:   actor.ID,
		ProductID: productID,
		Amount:    amount,
		Message:   message,
		Status:    models.OfferPending,
	}
	if err := s.db.Create(offer).Error; err != nil {
		return nil, err
	}
	return offer, nil
}

// SetStatus moves a pending offer to accepted, rejected or countered. Only
// the product's seller may decide.
func (s *OfferService) SetStatus(actor auth.Actor, offerID uint, status string) (*models.Offer, error) {
	v := &validator{}
	v.oneOf("status", status, []string{models.OfferAccepted, models.OfferRejected, models.OfferCountered})
	if err := v.err(); err != nil {
		return nil, err
	}

	var offer models.Offer
	if err := s.db.First(&offer, offerID).Error; err != nil {
		return nil, wrapNotFound(err, "offer", offerID)
	}

	var product models.Product
	if err := s.db.First(&product, offer.ProductID).Error; err != nil {
		return nil, wrapNotFound(err, "product", offer.ProductID)
	}
	if !actor.CanMutate(product.SellerID) {
		return nil, &PermissionError{Op: "decide offer"}
	}
	if offer.Status != models.OfferPending {
		return nil, &ConflictError{Message: "offer has already been " + offer.Status}
	}

	offer.Status = status
	if err := s.db.Save(&offer).Error; err != nil {
		return nil, err
	}
	return &offer, nil
}

// ListForProduct returns all offers on a product, visible to the seller and
// staff only.
func (s *OfferService) ListForProduct(actor auth.Actor, productID uint) ([]models.Offer, error) {
	var product models.Product
	if err := s.db.First(&product, productID).Error; err != nil {
		return nil, wrapNotFound(err, "product", productID)
	}
	if !actor.CanMutate(product.SellerID) {
		return nil, &PermissionError{Op: "list offers"}
	}

	var offers []models.Offer
	err := s.db.Where("product_id = ?", productID).
		Preload("Buyer").Order("created_at DESC").Find(&offers).Error
	return offers, err
}

// ListByBuyer returns the actor's own offers
func (s *OfferService) ListByBuyer(actor auth.Actor) ([]models.Offer, error) {
	var offers []models.Offer
	err := s.db.Where("buyer_id = ?", actor.ID).Order("created_at DESC").Find(&offers).Error
	return offers, err
}
