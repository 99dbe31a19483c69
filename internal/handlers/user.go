package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campus-classifieds/internal/media"
	"campus-classifieds/internal/services"
)

// UserHandler handles profiles and account management
type UserHandler struct {
	userService  *services.UserService
	mediaService *media.Service
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *services.UserService, mediaService *media.Service) *UserHandler {
	return &UserHandler{userService: userService, mediaService: mediaService}
}

// GetProfile returns a user's public profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":       user,
		"avatar_url": h.mediaService.URL(user.AvatarID),
	})
}

// UpdateProfile edits the current user's profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req struct {
		StudentID string `json:"student_id"`
		Phone     string `json:"phone"`
		Bio       string `json:"bio"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	user, err := h.userService.UpdateProfile(actor, actor.ID, services.ProfileInput{
		StudentID: req.StudentID,
		Phone:     req.Phone,
		Bio:       req.Bio,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user":    user,
	})
}

// UploadAvatar replaces the current user's profile picture
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	avatarID, ok := uploadImage(c, h.mediaService, "campus/avatars")
	if !ok {
		return
	}
	if avatarID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "No image file attached",
		})
		return
	}

	user, err := h.userService.SetAvatar(actor, actor.ID, avatarID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Avatar updated successfully",
		"avatar_url": h.mediaService.URL(user.AvatarID),
	})
}

// Deactivate disables the current user's account
func (h *UserHandler) Deactivate(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	if err := h.userService.Deactivate(actor, actor.ID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Account deactivated",
	})
}

// ListUsers returns every account for the moderation backend
func (h *UserHandler) ListUsers(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	users, err := h.userService.List(actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
	})
}
