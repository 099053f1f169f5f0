package utils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/phillip/pet-adoption-go/config"
)

// ErrForeignImage is returned when asked to delete an image Cloudinary does
// not host.
var ErrForeignImage = errors.New("image is not hosted on cloudinary")

// ImageStore hosts pet and campaign pictures.
type ImageStore interface {
	Upload(ctx context.Context, file io.Reader) (string, error)
	Delete(ctx context.Context, imageURL string) error
}

type CloudinaryImages struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryImages(cfg config.CloudinaryConfig) (*CloudinaryImages, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary config error: %w", err)
	}
	return &CloudinaryImages{cld: cld, folder: cfg.Folder}, nil
}

// ✅ Upload into the configured folder, returns the https URL
func (c *CloudinaryImages) Upload(ctx context.Context, file io.Reader) (string, error) {
	resp, err := c.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:         c.folder,
		UniqueFilename: boolPtr(true),
	})
	if err != nil {
		return "", fmt.Errorf("upload error: %w", err)
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("upload error: %s", resp.Error.Message)
	}
	return resp.SecureURL, nil
}

// ✅ Delete by full URL
func (c *CloudinaryImages) Delete(ctx context.Context, imageURL string) error {
	publicID, err := extractPublicID(imageURL)
	if err != nil {
		return err
	}
	if _, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID}); err != nil {
		return fmt.Errorf("delete error: %w", err)
	}
	return nil
}

var versionSegment = regexp.MustCompile(`^v\d+$`)

// 🔹 https://res.cloudinary.com/demo/image/upload/v1234567890/pets/abc123.jpg -> pets/abc123
func extractPublicID(imageURL string) (string, error) {
	u, err := url.Parse(imageURL)
	if err != nil {
		return "", fmt.Errorf("could not parse image url: %w", err)
	}
	if !strings.HasSuffix(u.Hostname(), "cloudinary.com") {
		return "", ErrForeignImage
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	idx := -1
	for i, p := range parts {
		if p == "upload" {
			idx = i
			break
		}
	}
	if idx < 0 || idx == len(parts)-1 {
		return "", fmt.Errorf("invalid cloudinary URL format")
	}
	rest := parts[idx+1:]
	if versionSegment.MatchString(rest[0]) {
		rest = rest[1:]
	}
	if len(rest) == 0 {
		return "", fmt.Errorf("invalid cloudinary URL format")
	}
	last := rest[len(rest)-1]
	rest[len(rest)-1] = strings.TrimSuffix(last, path.Ext(last))
	return path.Join(rest...), nil
}

func boolPtr(b bool) *bool { return &b }
