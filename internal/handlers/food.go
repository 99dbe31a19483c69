package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campus-classifieds/internal/auth"
	"campus-classifieds/internal/media"
	"campus-classifieds/internal/services"
)

const (
	restaurantImageFolder = "campus/restaurants"
	menuImageFolder       = "campus/menu"
)

// FoodHandler handles the restaurant directory endpoints
type FoodHandler struct {
	foodService   *services.FoodService
	reviewService *services.ReviewService
	mediaService  *media.Service
}

// NewFoodHandler creates a new FoodHandler
func NewFoodHandler(foodService *services.FoodService, reviewService *services.ReviewService, mediaService *media.Service) *FoodHandler {
	return &FoodHandler{
		foodService:   foodService,
		reviewService: reviewService,
		mediaService:  mediaService,
	}
}

// List returns a filtered, sorted page of restaurants
func (h *FoodHandler) List(c *gin.Context) {
	actor, _ := auth.GetActor(c)

	restaurants, total, page, err := h.foodService.Search(actor, services.RestaurantSearchParams{
		Query:       c.Query("search"),
		Cuisine:     c.Query("cuisine"),
		City:        c.Query("city"),
		Delivery:    c.Query("delivery"),
		Verified:    c.Query("verified"),
		Sort:        c.Query("sort"),
		Page:        pageParam(c),
		AllStatuses: c.Query("all") == "true",
	})
	if err != nil {
		respondError(c, err)
		return
	}

	featured, err := h.foodService.Featured(4)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"restaurants": restaurants,
		"total":       total,
		"page":        page,
		"featured":    featured,
	})
}

// Get returns one restaurant with its average rating and counts the view
func (h *FoodHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	restaurant, err := h.foodService.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}

	actor, _ := auth.GetActor(c)
	if err := h.foodService.IncrementView(restaurant, actor); err != nil {
		respondError(c, err)
		return
	}

	rating, err := h.reviewService.AverageRating(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"restaurant":     restaurant,
		"image_url":      h.mediaService.URL(restaurant.ImageID),
		"average_rating": rating,
	})
}

func restaurantInput(c *gin.Context, imageID string) services.RestaurantInput {
	return services.RestaurantInput{
		Name:              c.PostForm("name"),
		Description:       c.PostForm("description"),
		Cuisine:           c.PostForm("cuisine"),
		Address:           c.PostForm("address"),
		City:              c.PostForm("city"),
		Phone:             c.PostForm("phone"),
		OpeningHours:      c.PostForm("opening_hours"),
		DeliveryAvailable: formBool(c, "delivery_available"),
		ImageID:           imageID,
	}
}

// Create publishes a new restaurant entry
func (h *FoodHandler) Create(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	imageID, ok := uploadImage(c, h.mediaService, restaurantImageFolder)
	if !ok {
		return
	}

	restaurant, err := h.foodService.Create(actor, restaurantInput(c, imageID))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Restaurant added successfully",
		"restaurant": restaurant,
	})
}

// Update edits a restaurant entry
func (h *FoodHandler) Update(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	imageID, ok := uploadImage(c, h.mediaService, restaurantImageFolder)
	if !ok {
		return
	}

	restaurant, err := h.foodService.Update(actor, id, restaurantInput(c, imageID))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Restaurant updated successfully",
		"restaurant": restaurant,
	})
}

// Close retires a restaurant entry
func (h *FoodHandler) Close(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	restaurant, err := h.foodService.Close(actor, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Restaurant closed",
		"restaurant": restaurant,
	})
}

// Verify marks a restaurant as staff-verified
func (h *FoodHandler) Verify(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Verified *bool `json:"verified" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	restaurant, err := h.foodService.SetVerified(actor, id, *req.Verified)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Verification updated",
		"restaurant": restaurant,
	})
}

// Delete removes a restaurant with its menu and reviews
func (h *FoodHandler) Delete(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.foodService.Delete(c.Request.Context(), actor, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Restaurant deleted successfully",
	})
}

// ListMenu returns a restaurant's menu
func (h *FoodHandler) ListMenu(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	items, err := h.foodService.ListMenu(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"menu_items": items,
	})
}

func menuItemInput(c *gin.Context, imageID string) services.MenuItemInput {
	return services.MenuItemInput{
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
		Price:       c.PostForm("price"),
		IsAvailable: formBool(c, "is_available"),
		ImageID:     imageID,
	}
}

// AddMenuItem adds an item to a restaurant's menu
func (h *FoodHandler) AddMenuItem(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	imageID, ok := uploadImage(c, h.mediaService, menuImageFolder)
	if !ok {
		return
	}

	item, err := h.foodService.AddMenuItem(actor, id, menuItemInput(c, imageID))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Menu item added",
		"menu_item": item,
	})
}

// UpdateMenuItem edits a menu item
func (h *FoodHandler) UpdateMenuItem(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	imageID, ok := uploadImage(c, h.mediaService, menuImageFolder)
	if !ok {
		return
	}

	item, err := h.foodService.UpdateMenuItem(actor, id, menuItemInput(c, imageID))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Menu item updated",
		"menu_item": item,
	})
}

// DeleteMenuItem removes a menu item
func (h *FoodHandler) DeleteMenuItem(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.foodService.DeleteMenuItem(c.Request.Context(), actor, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Menu item deleted",
	})
}

// ListReviews returns a restaurant's reviews
func (h *FoodHandler) ListReviews(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	reviews, err := h.reviewService.ListForRestaurant(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
	})
}

// UpsertReview creates or updates the current user's review
func (h *FoodHandler) UpsertReview(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	review, err := h.reviewService.Upsert(actor, id, req.Rating, req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Review saved",
		"review":  review,
	})
}

// DeleteReview removes a review
func (h *FoodHandler) DeleteReview(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.reviewService.Delete(actor, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Review deleted",
	})
}
