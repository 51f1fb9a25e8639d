// internal/objectstore/disk.go
package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// DiskStore keeps each bucket as a directory under root.
type DiskStore struct {
	root    string
	baseURL string
}

func NewDiskStore(root, baseURL string) (*DiskStore, error) {
	if !filepath.IsAbs(root) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("objectstore/disk: %w", err)
		}
		root = filepath.Join(cwd, root)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("objectstore/disk: mkdir %s: %w", root, err)
	}
	return &DiskStore{root: root, baseURL: baseURL}, nil
}

// Root returns the absolute directory holding the buckets.
func (d *DiskStore) Root() string { return d.root }

func (d *DiskStore) abs(bucket, key string) string {
	return filepath.Join(d.root, bucket, filepath.FromSlash(key))
}

func (d *DiskStore) Upload(_ context.Context, bucket, p string, data []byte, _ string, upsert bool) error {
	key, err := cleanKey(p)
	if err != nil {
		return &Error{Op: "upload", Bucket: bucket, Path: p, Err: err}
	}
	full := d.abs(bucket, key)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return &Error{Op: "upload", Bucket: bucket, Path: key, Err: err}
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !upsert {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}
	f, err := os.OpenFile(full, flags, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return &Error{Op: "upload", Bucket: bucket, Path: key, Err: ErrAlreadyExists}
		}
		return &Error{Op: "upload", Bucket: bucket, Path: key, Err: err}
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return &Error{Op: "upload", Bucket: bucket, Path: key, Err: err}
	}
	if err := f.Close(); err != nil {
		return &Error{Op: "upload", Bucket: bucket, Path: key, Err: err}
	}
	return nil
}

func (d *DiskStore) Download(_ context.Context, bucket, p string) ([]byte, error) {
	key, err := cleanKey(p)
	if err != nil {
		return nil, &Error{Op: "download", Bucket: bucket, Path: p, Err: err}
	}
	data, err := os.ReadFile(d.abs(bucket, key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &Error{Op: "download", Bucket: bucket, Path: key, Err: ErrNotFound}
		}
		return nil, &Error{Op: "download", Bucket: bucket, Path: key, Err: err}
	}
	return data, nil
}

func (d *DiskStore) List(_ context.Context, bucket, prefix string, limit int) ([]Object, error) {
	pfx := listPrefix(prefix)
	dir := filepath.Join(d.root, bucket)
	if pfx != "" {
		key, err := cleanKey(pfx)
		if err != nil {
			return nil, &Error{Op: "list", Bucket: bucket, Path: prefix, Err: err}
		}
		dir = d.abs(bucket, key)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Object{}, nil
		}
		return nil, &Error{Op: "list", Bucket: bucket, Path: pfx, Err: err}
	}

	objects := make([]Object, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		objects = append(objects, Object{
			Name:         e.Name(),
			Size:         info.Size(),
			LastModified: info.ModTime(),
		})
	}
	sort.Slice(objects, func(i, j int) bool { return objects[i].Name < objects[j].Name })
	if limit > 0 && len(objects) > limit {
		objects = objects[:limit]
	}
	return objects, nil
}

func (d *DiskStore) Remove(_ context.Context, bucket string, paths ...string) error {
	for _, p := range paths {
		key, err := cleanKey(p)
		if err != nil {
			return &Error{Op: "remove", Bucket: bucket, Path: p, Err: err}
		}
		if err := os.Remove(d.abs(bucket, key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return &Error{Op: "remove", Bucket: bucket, Path: key, Err: err}
		}
	}
	return nil
}

func (d *DiskStore) PublicURL(bucket, p string) string {
	return joinURL(d.baseURL, bucket, p)
}
