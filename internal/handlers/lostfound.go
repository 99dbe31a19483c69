package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campus-classifieds/internal/auth"
	"campus-classifieds/internal/media"
	"campus-classifieds/internal/services"
)

const lostItemImageFolder = "campus/lostfound"

// LostFoundHandler handles lost-and-found endpoints
type LostFoundHandler struct {
	lostFoundService *services.LostFoundService
	mediaService     *media.Service
}

// NewLostFoundHandler creates a new LostFoundHandler
func NewLostFoundHandler(lostFoundService *services.LostFoundService, mediaService *media.Service) *LostFoundHandler {
	return &LostFoundHandler{lostFoundService: lostFoundService, mediaService: mediaService}
}

// List returns a filtered, sorted page of reports
func (h *LostFoundHandler) List(c *gin.Context) {
	items, total, page, err := h.lostFoundService.Search(services.LostItemSearchParams{
		Query:           c.Query("search"),
		ItemType:        c.Query("item_type"),
		Status:          c.Query("status"),
		City:            c.Query("city"),
		Sort:            c.Query("sort"),
		Page:            pageParam(c),
		IncludeReturned: c.Query("include_returned") == "true",
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"total": total,
		"page":  page,
	})
}

// Get returns one report and counts the view
func (h *LostFoundHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	item, err := h.lostFoundService.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}

	actor, _ := auth.GetActor(c)
	if err := h.lostFoundService.IncrementView(item, actor); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"item":      item,
		"image_url": h.mediaService.URL(item.ImageID),
	})
}

func lostItemInput(c *gin.Context, imageID string) services.LostItemInput {
	return services.LostItemInput{
		ItemType:    c.PostForm("item_type"),
		ItemName:    c.PostForm("item_name"),
		Description: c.PostForm("description"),
		Location:    c.PostForm("location"),
		City:        c.PostForm("city"),
		Latitude:    c.PostForm("latitude"),
		Longitude:   c.PostForm("longitude"),
		DateLost:    c.PostForm("date_lost"),
		Status:      c.PostForm("status"),
		ContactInfo: c.PostForm("contact_info"),
		ImageID:     imageID,
	}
}

// Create files a new report
func (h *LostFoundHandler) Create(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	imageID, ok := uploadImage(c, h.mediaService, lostItemImageFolder)
	if !ok {
		return
	}

	item, err := h.lostFoundService.Create(c.Request.Context(), actor, lostItemInput(c, imageID))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Report filed successfully",
		"item":    item,
	})
}

// Update edits a report
func (h *LostFoundHandler) Update(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	imageID, ok := uploadImage(c, h.mediaService, lostItemImageFolder)
	if !ok {
		return
	}

	item, err := h.lostFoundService.Update(c.Request.Context(), actor, id, lostItemInput(c, imageID))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Report updated successfully",
		"item":    item,
	})
}

// MarkReturned retires a report
func (h *LostFoundHandler) MarkReturned(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	item, err := h.lostFoundService.MarkReturned(actor, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item marked as returned",
		"item":    item,
	})
}

// Delete removes a report
func (h *LostFoundHandler) Delete(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.lostFoundService.Delete(c.Request.Context(), actor, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Report deleted successfully",
	})
}
