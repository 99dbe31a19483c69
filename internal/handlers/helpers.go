package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"campus-classifieds/internal/auth"
	"campus-classifieds/internal/media"
	"campus-classifieds/internal/services"
)

// respondError maps domain errors onto HTTP status codes. Unexpected
// failures are logged and surfaced as a generic message so internal detail
// never leaks.
func respondError(c *gin.Context, err error) {
	var (
		validationErr *services.ValidationError
		permissionErr *services.PermissionError
		notFoundErr   *services.NotFoundError
		conflictErr   *services.ConflictError
		uploadErr     *media.UploadError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "Please correct the errors below",
			"fields": validationErr.Fields,
		})
	case errors.As(err, &permissionErr):
		c.JSON(http.StatusForbidden, gin.H{
			"error": "You do not have permission to perform this action",
		})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{
			"error": notFoundErr.Resource + " not found",
		})
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusConflict, gin.H{
			"error": conflictErr.Message,
		})
	case errors.As(err, &uploadErr):
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Image upload failed: " + uploadErr.Reason,
		})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Invalid username or password",
		})
	default:
		log.Printf("handler error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Something went wrong",
		})
	}
}

// requireActor fetches the authenticated actor or writes a 401
func requireActor(c *gin.Context) (auth.Actor, bool) {
	actor, ok := auth.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
	}
	return actor, ok
}

// idParam parses a numeric path parameter
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid " + name,
		})
		return 0, false
	}
	return uint(id), true
}

// pageParam reads the 1-indexed page query parameter
func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// uintQuery reads an optional numeric query parameter
func uintQuery(c *gin.Context, name string) uint {
	n, err := strconv.ParseUint(c.Query(name), 10, 32)
	if err != nil {
		return 0
	}
	return uint(n)
}

// formUint reads a numeric form field
func formUint(c *gin.Context, name string) uint {
	n, err := strconv.ParseUint(c.PostForm(name), 10, 32)
	if err != nil {
		return 0
	}
	return uint(n)
}

// formBool interprets a checkbox-style form value
func formBool(c *gin.Context, name string) bool {
	switch c.PostForm(name) {
	case "true", "1", "on", "yes":
		return true
	}
	return false
}

// uploadImage stores an optional multipart "image" file and returns its
// public ID. Returns ("", true) when no file was attached; writes the error
// response and returns false when the upload fails, since a failed upload
// must abort the enclosing mutation.
func uploadImage(c *gin.Context, mediaService *media.Service, folder string) (string, bool) {
	header, err := c.FormFile("image")
	if err != nil {
		return "", true
	}

	file, err := header.Open()
	if err != nil {
		respondError(c, &media.UploadError{Reason: "could not read the uploaded file", Err: err})
		return "", false
	}
	defer file.Close()

	publicID, err := mediaService.Upload(c.Request.Context(), header.Filename, header.Size, file, folder)
	if err != nil {
		respondError(c, err)
		return "", false
	}
	return publicID, true
}
