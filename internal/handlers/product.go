package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"campus-classifieds/internal/auth"
	"campus-classifieds/internal/media"
	"campus-classifieds/internal/models"
	"campus-classifieds/internal/services"
)

const productImageFolder = "campus/products"

// ProductHandler handles marketplace endpoints
type ProductHandler struct {
	db             *gorm.DB
	productService *services.ProductService
	offerService   *services.OfferService
	mediaService   *media.Service
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(db *gorm.DB, productService *services.ProductService, offerService *services.OfferService, mediaService *media.Service) *ProductHandler {
	return &ProductHandler{
		db:             db,
		productService: productService,
		offerService:   offerService,
		mediaService:   mediaService,
	}
}

// List returns a filtered, sorted page of products
func (h *ProductHandler) List(c *gin.Context) {
	actor, _ := auth.GetActor(c)

	products, total, page, err := h.productService.Search(actor, services.ProductSearchParams{
		Query:       c.Query("search"),
		CategoryID:  uintQuery(c, "category"),
		Condition:   c.Query("condition"),
		MinPrice:    c.Query("min_price"),
		MaxPrice:    c.Query("max_price"),
		Negotiable:  c.Query("negotiable"),
		Sort:        c.Query("sort"),
		Page:        pageParam(c),
		AllStatuses: c.Query("all") == "true",
	})
	if err != nil {
		respondError(c, err)
		return
	}

	featured, err := h.productService.Featured(4)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"total":    total,
		"page":     page,
		"featured": featured,
	})
}

// Categories returns the marketplace categories
func (h *ProductHandler) Categories(c *gin.Context) {
	var categories []models.Category
	if err := h.db.Order("name ASC").Find(&categories).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
	})
}

// Get returns one product and counts the view
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}

	actor, _ := auth.GetActor(c)
	if err := h.productService.IncrementView(product, actor); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product":   product,
		"image_url": h.mediaService.URL(product.ImageID),
	})
}

func productInput(c *gin.Context, imageID string) services.ProductInput {
	return services.ProductInput{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		CategoryID:  formUint(c, "category_id"),
		Price:       c.PostForm("price"),
		Condition:   c.PostForm("condition"),
		Negotiable:  formBool(c, "negotiable"),
		ImageID:     imageID,
	}
}

// Create publishes a new product
func (h *ProductHandler) Create(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	imageID, ok := uploadImage(c, h.mediaService, productImageFolder)
	if !ok {
		return
	}

	product, err := h.productService.Create(actor, productInput(c, imageID))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Product listed successfully",
		"product": product,
	})
}

// Update edits a product
func (h *ProductHandler) Update(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	imageID, ok := uploadImage(c, h.mediaService, productImageFolder)
	if !ok {
		return
	}

	product, err := h.productService.Update(actor, id, productInput(c, imageID))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product updated successfully",
		"product": product,
	})
}

// MarkSold retires a product
func (h *ProductHandler) MarkSold(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.MarkSold(actor, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product marked as sold",
		"product": product,
	})
}

// Delete removes a product
func (h *ProductHandler) Delete(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.productService.Delete(c.Request.Context(), actor, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product deleted successfully",
	})
}

// MyProducts returns the current user's products
func (h *ProductHandler) MyProducts(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	products, err := h.productService.ListBySeller(actor.ID, c.Query("filter"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
	})
}

// CreateOffer places an offer on a product
func (h *ProductHandler) CreateOffer(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Amount  decimal.Decimal `json:"amount"`
		Message string          `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	offer, err := h.offerService.Create(actor, id, req.Amount, req.Message)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Offer sent",
		"offer":   offer,
	})
}

// ListOffers returns the offers on a product, for the seller
func (h *ProductHandler) ListOffers(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	offers, err := h.offerService.ListForProduct(actor, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"offers": offers,
	})
}

// DecideOffer accepts, rejects or counters a pending offer
func (h *ProductHandler) DecideOffer(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	offer, err := h.offerService.SetStatus(actor, id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Offer " + offer.Status,
		"offer":   offer,
	})
}

// MyOffers returns the current user's offers
func (h *ProductHandler) MyOffers(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	offers, err := h.offerService.ListByBuyer(actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"offers": offers,
	})
}
