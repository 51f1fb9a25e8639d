// internal/services/image_service.go
package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yahiawalid23/HEPTA/internal/assets"
	"github.com/yahiawalid23/HEPTA/internal/cache"
	"github.com/yahiawalid23/HEPTA/internal/models"
	"github.com/yahiawalid23/HEPTA/internal/objectstore"
)

var (
	ErrNoImages              = errors.New("no images provided")
	ErrInvalidImage          = errors.New("invalid image file")
	ErrInvalidImageName      = errors.New("invalid image name")
	ErrInvalidThumbnailIndex = errors.New("thumbnail index out of range")
)

type ImageService struct {
	store    objectstore.Store
	bucket   string
	resolver *assets.Resolver
	cache    cache.Cache
	cacheTTL time.Duration
	logger   *logrus.Logger
}

// UploadFile is one multipart image.
type UploadFile struct {
	Filename string
	Data     []byte
}

type ProductImages struct {
	Images    []models.ProductImage `json:"images"`
	Thumbnail string                `json:"thumbnail,omitempty"`
}

func NewImageService(store objectstore.Store, bucket string, resolver *assets.Resolver, c cache.Cache, cacheTTL time.Duration, logger *logrus.Logger) *ImageService {
	if c == nil {
		c = cache.NewMemoryCache()
	}
	return &ImageService{
		store:    store,
		bucket:   bucket,
		resolver: resolver,
		cache:    c,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

func imagesCacheKey(productID string) string {
	return "images:" + productID
}

// ListImages resolves a product's images, served from the cache when fresh.
func (s *ImageService) ListImages(ctx context.Context, productID string) (*ProductImages, error) {
	if err := validateProductID(productID); err != nil {
		return nil, err
	}

	var cached ProductImages
	if s.cacheTTL > 0 && s.cache.Get(ctx, imagesCacheKey(productID), &cached) {
		return &cached, nil
	}

	resolved, err := s.resolver.ListImages(ctx, productID)
	if err != nil {
		return nil, err
	}

	out := &ProductImages{Images: make([]models.ProductImage, 0, len(resolved))}
	for _, a := range resolved {
		out.Images = append(out.Images, a.Image())
	}
	if url, ok := assets.ThumbnailOf(resolved); ok {
		out.Thumbnail = url
	}

	if s.cacheTTL > 0 {
		if err := s.cache.Set(ctx, imagesCacheKey(productID), out, s.cacheTTL); err != nil {
			s.logger.WithError(err).Warn("Failed to cache product images")
		}
	}
	return out, nil
}

// UploadImages stores files under productID. File i is named
// thumbnail<ext> when i equals thumbnailIndex and image_<i+1><ext>
// otherwise; existing objects are overwritten.
func (s *ImageService) UploadImages(ctx context.Context, productID string, files []UploadFile, thumbnailIndex *int) ([]models.ProductImage, error) {
	if err := validateProductID(productID); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoImages
	}
	if thumbnailIndex != nil && (*thumbnailIndex < 0 || *thumbnailIndex >= len(files)) {
		return nil, ErrInvalidThumbnailIndex
	}

	// Reject the whole batch before anything is written.
	exts := make([]string, len(files))
	for i, f := range files {
		detected := detectImageType(f.Data)
		if detected == "" {
			return nil, fmt.Errorf("%w: %s", ErrInvalidImage, f.Filename)
		}
		exts[i] = imageExtension(f.Filename, detected)
	}

	uploaded := make([]models.ProductImage, 0, len(files))
	for i, f := range files {
		name := fmt.Sprintf("image_%d%s", i+1, exts[i])
		kind := models.ImageKindIndexed
		if thumbnailIndex != nil && *thumbnailIndex == i {
			name = "thumbnail" + exts[i]
			kind = models.ImageKindThumbnail
		}

		key := productID + "/" + name
		if err := s.store.Upload(ctx, s.bucket, key, f.Data, contentTypeFor(exts[i]), true); err != nil {
			s.invalidate(ctx, productID)
			return nil, err
		}
		uploaded = append(uploaded, models.ProductImage{
			Name: name,
			URL:  s.store.PublicURL(s.bucket, key),
			Kind: kind,
		})
	}

	s.invalidate(ctx, productID)
	s.logger.WithFields(logrus.Fields{
		"product_id": productID,
		"count":      len(uploaded),
	}).Info("Product images uploaded")
	return uploaded, nil
}

func (s *ImageService) DeleteImage(ctx context.Context, productID, name string) error {
	if err := validateProductID(productID); err != nil {
		return err
	}
	if name == "" || strings.ContainsAny(name, "/\\") || name == "." || name == ".." {
		return ErrInvalidImageName
	}

	if err := s.store.Remove(ctx, s.bucket, productID+"/"+name); err != nil {
		return err
	}
	s.invalidate(ctx, productID)
	return nil
}

func (s *ImageService) invalidate(ctx context.Context, productID string) {
	if err := s.cache.Del(ctx, imagesCacheKey(productID)); err != nil {
		s.logger.WithError(err).Warn("Failed to invalidate image cache")
	}
}

func validateProductID(id string) error {
	if strings.TrimSpace(id) == "" || strings.ContainsAny(id, "/\\") || id == "." || id == ".." {
		return fmt.Errorf("%w: product id", ErrInvalidImageName)
	}
	return nil
}

// detectImageType sniffs the magic bytes and returns the canonical
// extension, or "" for anything that is not a supported image.
func detectImageType(buffer []byte) string {
	switch {
	case len(buffer) >= 3 && buffer[0] == 0xFF && buffer[1] == 0xD8 && buffer[2] == 0xFF:
		return ".jpg"
	case len(buffer) >= 8 && bytes.Equal(buffer[:8], []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}):
		return ".png"
	case len(buffer) >= 6 && (string(buffer[:6]) == "GIF87a" || string(buffer[:6]) == "GIF89a"):
		return ".gif"
	case len(buffer) >= 12 && string(buffer[:4]) == "RIFF" && string(buffer[8:12]) == "WEBP":
		return ".webp"
	case len(buffer) >= 2 && buffer[0] == 'B' && buffer[1] == 'M':
		return ".bmp"
	}
	return ""
}

// imageExtension keeps the client's extension when it is a known image
// extension and falls back to the sniffed one.
func imageExtension(filename, detected string) string {
	ext := path.Ext(filename)
	if ext != "" && assets.IsImageName(filename) {
		return ext
	}
	if detected != "" {
		return detected
	}
	return ".jpg"
}

func contentTypeFor(ext string) string {
	switch strings.ToLower(ext) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".bmp":
		return "image/bmp"
	default:
		return "image/jpeg"
	}
}
