package objectstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDisk(t *testing.T) *DiskStore {
	t.Helper()
	d, err := NewDiskStore(t.TempDir(), "http://localhost:8080/storage")
	require.NoError(t, err)
	return d
}

func TestDiskUploadDownload(t *testing.T) {
	ctx := context.Background()
	d := newTestDisk(t)

	require.NoError(t, d.Upload(ctx, "files", "products.xlsx", []byte("v1"), "", true))
	data, err := d.Download(ctx, "files", "products.xlsx")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), data)

	require.NoError(t, d.Upload(ctx, "files", "products.xlsx", []byte("v2"), "", true))
	data, err = d.Download(ctx, "files", "/products.xlsx")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), data)
}

func TestDiskUploadWithoutUpsert(t *testing.T) {
	ctx := context.Background()
	d := newTestDisk(t)

	require.NoError(t, d.Upload(ctx, "files", "a.txt", []byte("x"), "", false))
	err := d.Upload(ctx, "files", "a.txt", []byte("y"), "", false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAlreadyExists)

	data, err := d.Download(ctx, "files", "a.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), data)
}

func TestDiskDownloadNotFound(t *testing.T) {
	d := newTestDisk(t)

	_, err := d.Download(context.Background(), "files", "orders.xlsx")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	var storeErr *Error
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "download", storeErr.Op)
	assert.Equal(t, "files", storeErr.Bucket)
}

func TestDiskRejectsEscapingPaths(t *testing.T) {
	d := newTestDisk(t)

	err := d.Upload(context.Background(), "files", "../outside.txt", []byte("x"), "", true)
	require.Error(t, err)
	assert.False(t, IsNotFound(err))
}

func TestDiskListAndRemove(t *testing.T) {
	ctx := context.Background()
	d := newTestDisk(t)

	for _, name := range []string{"P1/image_2.jpg", "P1/thumbnail.png", "P1/image_1.jpg", "P1/nested/x.jpg", "P2/a.jpg"} {
		require.NoError(t, d.Upload(ctx, "product-images", name, []byte(name), "image/jpeg", true))
	}

	objects, err := d.List(ctx, "product-images", "P1", 100)
	require.NoError(t, err)
	names := make([]string, len(objects))
	for i, o := range objects {
		names[i] = o.Name
	}
	assert.Equal(t, []string{"image_1.jpg", "image_2.jpg", "thumbnail.png"}, names)

	limited, err := d.List(ctx, "product-images", "P1/", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	missing, err := d.List(ctx, "product-images", "P9", 100)
	require.NoError(t, err)
	assert.Empty(t, missing)

	require.NoError(t, d.Remove(ctx, "product-images", "P1/thumbnail.png", "P1/absent.png"))
	objects, err = d.List(ctx, "product-images", "P1", 100)
	require.NoError(t, err)
	assert.Len(t, objects, 2)
}

func TestDiskPublicURL(t *testing.T) {
	d := newTestDisk(t)
	assert.Equal(t,
		"http://localhost:8080/storage/product-images/P%201/thumbnail.png",
		d.PublicURL("product-images", "P 1/thumbnail.png"))
}
