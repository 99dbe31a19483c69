package media

import (
	"context"
	"fmt"
	"io"
	"log"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store is the external media backend boundary: upload bytes, destroy by
// public ID, and build a display URL for a stored asset.
type Store interface {
	Upload(ctx context.Context, r io.Reader, folder, publicID string) (string, error)
	Destroy(ctx context.Context, publicID string) error
	URL(publicID string, t Transform) string
}

// Transform describes URL-based image transformation
type Transform struct {
	Width   int
	Height  int
	Crop    string
	Quality string
}

// DefaultTransform matches the display size used across listing pages
var DefaultTransform = Transform{Width: 800, Height: 600, Crop: "fill", Quality: "auto:good"}

// PlaceholderID is the well-known default image reference. It is shared by
// every listing without an image and must never be destroyed.
const PlaceholderID = "campus/placeholder"

// MaxUploadSize caps uploads at 10 MB
const MaxUploadSize = 10 << 20

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// UploadError means the store rejected or failed to process an upload. It
// aborts the enclosing mutation.
type UploadError struct {
	Reason string
	Err    error
}

func (e *UploadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("media upload failed: %s: %v", e.Reason, e.Err)
	}
	return "media upload failed: " + e.Reason
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// Service validates uploads and manages best-effort cleanup of replaced
// assets. Destroy failures are logged and absorbed; a listing's correctness
// does not depend on cleaning up a stale file.
type Service struct {
	store Store
	wg    sync.WaitGroup
}

// NewService creates a media Service over a Store
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Upload validates the file name and size, then stores the bytes under a
// fresh public ID in the given folder. The returned ID is what callers
// persist on the entity.
func (s *Service) Upload(ctx context.Context, fileName string, size int64, r io.Reader, folder string) (string, error) {
	if size > MaxUploadSize {
		return "", &UploadError{Reason: "file exceeds the 10 MB limit"}
	}

	ext := strings.ToLower(path.Ext(fileName))
	if !allowedExtensions[ext] {
		return "", &UploadError{Reason: fmt.Sprintf("file type %q is not allowed", ext)}
	}

	publicID, err := s.store.Upload(ctx, r, folder, uuid.NewString())
	if err != nil {
		return "", &UploadError{Reason: "store rejected the upload", Err: err}
	}
	return publicID, nil
}

// Replace schedules deletion of a replaced asset. It runs off the request
// path; failures are logged, never surfaced. The placeholder reference is
// never deleted.
func (s *Service) Replace(oldID, newID string) {
	if oldID == "" || oldID == newID || oldID == PlaceholderID {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.store.Destroy(ctx, oldID); err != nil {
			log.Printf("media: failed to delete replaced asset %s: %v", oldID, err)
		}
	}()
}

// Remove destroys an asset synchronously, best effort. Used when the owning
// entity is deleted.
func (s *Service) Remove(ctx context.Context, publicID string) {
	if publicID == "" || publicID == PlaceholderID {
		return
	}
	if err := s.store.Destroy(ctx, publicID); err != nil {
		log.Printf("media: failed to delete asset %s: %v", publicID, err)
	}
}

// URL builds the display URL for a stored reference, falling back to the
// placeholder for entities without an image.
func (s *Service) URL(publicID string) string {
	if publicID == "" {
		publicID = PlaceholderID
	}
	return s.store.URL(publicID, DefaultTransform)
}
