package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campus-classifieds/internal/auth"
	"campus-classifieds/internal/media"
	"campus-classifieds/internal/services"
)

const propertyImageFolder = "campus/properties"

// HousingHandler handles housing endpoints
type HousingHandler struct {
	housingService  *services.HousingService
	favoriteService *services.FavoriteService
	mediaService    *media.Service
}

// NewHousingHandler creates a new HousingHandler
func NewHousingHandler(housingService *services.HousingService, favoriteService *services.FavoriteService, mediaService *media.Service) *HousingHandler {
	return &HousingHandler{
		housingService:  housingService,
		favoriteService: favoriteService,
		mediaService:    mediaService,
	}
}

// List returns a filtered, sorted page of properties
func (h *HousingHandler) List(c *gin.Context) {
	actor, _ := auth.GetActor(c)

	properties, total, page, err := h.housingService.Search(actor, services.PropertySearchParams{
		Query:        c.Query("search"),
		PropertyType: c.Query("property_type"),
		City:         c.Query("city"),
		MinRent:      c.Query("min_rent"),
		MaxRent:      c.Query("max_rent"),
		MinBedrooms:  c.Query("min_bedrooms"),
		MaxBedrooms:  c.Query("max_bedrooms"),
		Furnished:    c.Query("furnished"),
		Sort:         c.Query("sort"),
		Page:         pageParam(c),
		AllStatuses:  c.Query("all") == "true",
	})
	if err != nil {
		respondError(c, err)
		return
	}

	featured, err := h.housingService.Featured(4)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"properties": properties,
		"total":      total,
		"page":       page,
		"featured":   featured,
	})
}

// Get returns one property and counts the view
func (h *HousingHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	property, err := h.housingService.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}

	actor, _ := auth.GetActor(c)
	if err := h.housingService.IncrementView(property, actor); err != nil {
		respondError(c, err)
		return
	}

	favorited := false
	if actor.ID != 0 {
		favorited, err = h.favoriteService.IsFavorited(actor, id)
		if err != nil {
			respondError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"property":     property,
		"image_url":    h.mediaService.URL(property.ImageID),
		"is_favorited": favorited,
	})
}

func propertyInput(c *gin.Context, imageID string) services.PropertyInput {
	return services.PropertyInput{
		Title:         c.PostForm("title"),
		Description:   c.PostForm("description"),
		PropertyType:  c.PostForm("property_type"),
		Address:       c.PostForm("address"),
		City:          c.PostForm("city"),
		Neighborhood:  c.PostForm("neighborhood"),
		Latitude:      c.PostForm("latitude"),
		Longitude:     c.PostForm("longitude"),
		Rent:          c.PostForm("rent"),
		Bedrooms:      c.PostForm("bedrooms"),
		Bathrooms:     c.PostForm("bathrooms"),
		IsFurnished:   formBool(c, "is_furnished"),
		Amenities:     c.PostForm("amenities"),
		AvailableFrom: c.PostForm("available_from"),
		ContactInfo:   c.PostForm("contact_info"),
		ImageID:       imageID,
	}
}

// Create publishes a new property
func (h *HousingHandler) Create(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	imageID, ok := uploadImage(c, h.mediaService, propertyImageFolder)
	if !ok {
		return
	}

	property, err := h.housingService.Create(c.Request.Context(), actor, propertyInput(c, imageID))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Property listed successfully",
		"property": property,
	})
}

// Update edits a property
func (h *HousingHandler) Update(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	imageID, ok := uploadImage(c, h.mediaService, propertyImageFolder)
	if !ok {
		return
	}

	property, err := h.housingService.Update(c.Request.Context(), actor, id, propertyInput(c, imageID))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Property updated successfully",
		"property": property,
	})
}

// SetAvailability toggles between available and rented
func (h *HousingHandler) SetAvailability(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Available *bool `json:"available" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	property, err := h.housingService.SetAvailability(actor, id, *req.Available)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Availability updated",
		"property": property,
	})
}

// Delete removes a property and its favorites
func (h *HousingHandler) Delete(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.housingService.Delete(c.Request.Context(), actor, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Property deleted successfully",
	})
}

// MyProperties returns the current user's properties
func (h *HousingHandler) MyProperties(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	properties, err := h.housingService.ListByOwner(actor.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"properties": properties,
	})
}

// ToggleFavorite saves or unsaves a property
func (h *HousingHandler) ToggleFavorite(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	favorited, err := h.favoriteService.Toggle(actor, id)
	if err != nil {
		respondError(c, err)
		return
	}

	message := "Property removed from favorites"
	if favorited {
		message = "Property added to favorites"
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      message,
		"is_favorited": favorited,
	})
}

// MyFavorites returns the current user's saved properties
func (h *HousingHandler) MyFavorites(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	properties, err := h.favoriteService.ListProperties(actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"properties": properties,
	})
}
