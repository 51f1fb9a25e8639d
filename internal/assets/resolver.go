// internal/assets/resolver.go
package assets

import (
	"context"
	"fmt"
	"sort"

	"github.com/yahiawalid23/HEPTA/internal/models"
	"github.com/yahiawalid23/HEPTA/internal/objectstore"
)

const DefaultListLimit = 100

// Resolver lists product images. It performs one List call per request
// and builds URLs locally; it keeps no state between calls.
type Resolver struct {
	store  objectstore.Store
	bucket string
	limit  int
}

func NewResolver(store objectstore.Store, bucket string, limit int) *Resolver {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	return &Resolver{store: store, bucket: bucket, limit: limit}
}

// ListImages returns the product's images in display order. Only the first
// thumbnail keeps the thumbnail tag; any further ones sort as other names.
func (r *Resolver) ListImages(ctx context.Context, productID string) ([]Asset, error) {
	if productID == "" {
		return nil, fmt.Errorf("assets: empty product id")
	}

	objects, err := r.store.List(ctx, r.bucket, productID, r.limit)
	if err != nil {
		return nil, err
	}

	out := make([]Asset, 0, len(objects))
	for _, obj := range objects {
		asset, ok := Classify(obj.Name)
		if !ok {
			continue
		}
		asset.URL = r.store.PublicURL(r.bucket, productID+"/"+obj.Name)
		out = append(out, asset)
	}

	demoteExtraThumbnails(out)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out, nil
}

// Thumbnail returns the URL of the product's thumbnail; ok is false when
// there is none.
func (r *Resolver) Thumbnail(ctx context.Context, productID string) (url string, ok bool, err error) {
	images, err := r.ListImages(ctx, productID)
	if err != nil {
		return "", false, err
	}
	url, ok = ThumbnailOf(images)
	return url, ok, nil
}

// ThumbnailOf picks the thumbnail out of an already resolved list.
func ThumbnailOf(images []Asset) (string, bool) {
	for _, a := range images {
		if a.Kind == models.ImageKindThumbnail {
			return a.URL, true
		}
	}
	return "", false
}

// demoteExtraThumbnails keeps the lexicographically first thumbnail.
func demoteExtraThumbnails(assets []Asset) {
	first := -1
	for i, a := range assets {
		if a.Kind != models.ImageKindThumbnail {
			continue
		}
		if first == -1 || a.Name < assets[first].Name {
			if first != -1 {
				assets[first].Kind = models.ImageKindOther
			}
			first = i
			continue
		}
		assets[i].Kind = models.ImageKindOther
	}
}
