// internal/assets/asset.go

// Package assets resolves a product's images from the naming convention of
// the image bucket: thumbnail.<ext>, image_<n>.<ext>, anything else.
package assets

import (
	"path"
	"strconv"
	"strings"

	"github.com/yahiawalid23/HEPTA/internal/models"
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
}

// IsImageName reports whether name carries a recognized image extension.
func IsImageName(name string) bool {
	return imageExtensions[strings.ToLower(path.Ext(name))]
}

// Asset is one image of a product. Kind selects the variant; Index is
// meaningful for Indexed assets only.
type Asset struct {
	Kind  models.ImageKind
	Index int
	Name  string
	URL   string
}

// Classify tags name by the naming convention. ok is false for names that
// are not images.
func Classify(name string) (Asset, bool) {
	if !IsImageName(name) {
		return Asset{}, false
	}
	stem := strings.TrimSuffix(name, path.Ext(name))
	lower := strings.ToLower(stem)

	if lower == "thumbnail" {
		return Asset{Kind: models.ImageKindThumbnail, Name: name}, true
	}
	if rest, found := strings.CutPrefix(lower, "image_"); found {
		if n, err := strconv.Atoi(rest); err == nil && n >= 0 {
			return Asset{Kind: models.ImageKindIndexed, Index: n, Name: name}, true
		}
	}
	return Asset{Kind: models.ImageKindOther, Name: name}, true
}

func (a Asset) rank() int {
	switch a.Kind {
	case models.ImageKindThumbnail:
		return 0
	case models.ImageKindIndexed:
		return 1
	default:
		return 2
	}
}

// Less orders thumbnails first, then indexed images by number, then the
// rest by name. Ties fall back to the name.
func (a Asset) Less(b Asset) bool {
	if ra, rb := a.rank(), b.rank(); ra != rb {
		return ra < rb
	}
	if a.Kind == models.ImageKindIndexed && a.Index != b.Index {
		return a.Index < b.Index
	}
	return a.Name < b.Name
}

// Image converts the asset to its JSON shape.
func (a Asset) Image() models.ProductImage {
	return models.ProductImage{Name: a.Name, URL: a.URL, Kind: a.Kind}
}
