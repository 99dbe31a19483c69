package media

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryStore implements Store against Cloudinary
type CloudinaryStore struct {
	cld       *cloudinary.Cloudinary
	cloudName string
}

// NewCloudinaryStore creates a store from a CLOUDINARY_URL-style connection
// string.
func NewCloudinaryStore(cloudinaryURL string) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to configure cloudinary: %w", err)
	}
	return &CloudinaryStore{
		cld:       cld,
		cloudName: cld.Config.Cloud.CloudName,
	}, nil
}

// Upload stores the bytes and returns the assigned public ID
func (s *CloudinaryStore) Upload(ctx context.Context, r io.Reader, folder, publicID string) (string, error) {
	resp, err := s.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:     folder,
		PublicID:   publicID,
		Overwrite:  api.Bool(false),
		Invalidate: api.Bool(true),
	})
	if err != nil {
		return "", err
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload: %s", resp.Error.Message)
	}
	return resp.PublicID, nil
}

// Destroy removes a stored asset
func (s *CloudinaryStore) Destroy(ctx context.Context, publicID string) error {
	resp, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return err
	}
	if resp.Result != "ok" && resp.Result != "not found" {
		return fmt.Errorf("cloudinary destroy %s: %s", publicID, resp.Result)
	}
	return nil
}

// URL builds a transformation URL without a network call. When the SDK
// cannot build the asset it falls back to the direct delivery URL.
func (s *CloudinaryStore) URL(publicID string, t Transform) string {
	img, err := s.cld.Image(publicID)
	if err != nil {
		return s.directURL(publicID)
	}
	img.Transformation = fmt.Sprintf("c_%s,w_%d,h_%d,q_%s,f_auto", t.Crop, t.Width, t.Height, t.Quality)

	u, err := img.String()
	if err != nil {
		return s.directURL(publicID)
	}
	return u
}

func (s *CloudinaryStore) directURL(publicID string) string {
	return fmt.Sprintf("https://res.cloudinary.com/%s/image/upload/%s", s.cloudName, publicID)
}
