// internal/objectstore/store.go

// Package objectstore uploads, downloads and lists named blobs in buckets.
//
// Drivers:
//   - S3Store: any S3-compatible service (AWS S3, MinIO, Supabase storage)
//   - DiskStore: a directory per bucket on the local filesystem
//   - MemoryStore: process memory, for tests
package objectstore

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned by Download when the object does not exist.
	ErrNotFound = errors.New("object not found")
	// ErrAlreadyExists is returned by Upload with upsert=false when the object exists.
	ErrAlreadyExists = errors.New("object already exists")
)

// Error wraps every failure returned by a Store.
type Error struct {
	Op     string
	Bucket string
	Path   string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("objectstore: %s %s/%s: %v", e.Op, e.Bucket, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// IsNotFound reports whether err signals a missing object.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Object describes one listed blob. Name is relative to the listed prefix.
type Object struct {
	Name         string    `json:"name"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// Store is the blob storage contract used by the record store and the
// image resolver.
type Store interface {
	// Upload writes data to bucket/path. With upsert=false an existing
	// object yields ErrAlreadyExists.
	Upload(ctx context.Context, bucket, path string, data []byte, contentType string, upsert bool) error

	// Download returns the object's bytes, or ErrNotFound.
	Download(ctx context.Context, bucket, path string) ([]byte, error)

	// List returns at most limit files directly under prefix, sorted by name.
	List(ctx context.Context, bucket, prefix string, limit int) ([]Object, error)

	// Remove deletes the given objects. Missing objects are not an error.
	Remove(ctx context.Context, bucket string, paths ...string) error

	// PublicURL builds the object's public URL without a network call.
	PublicURL(bucket, path string) string
}

// cleanKey normalizes an object path: forward slashes, no leading slash,
// no "." or ".." segments.
func cleanKey(p string) (string, error) {
	p = strings.ReplaceAll(p, "\\", "/")
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return "", fmt.Errorf("invalid path %q", p)
		}
	}
	cleaned := strings.TrimPrefix(path.Clean("/"+p), "/")
	if cleaned == "" {
		return "", fmt.Errorf("empty path")
	}
	return cleaned, nil
}

// listPrefix turns a folder name into a key prefix ending in "/".
func listPrefix(prefix string) string {
	prefix = strings.Trim(strings.ReplaceAll(prefix, "\\", "/"), "/")
	if prefix == "" {
		return ""
	}
	return prefix + "/"
}

// joinURL appends bucket and escaped path segments to base.
func joinURL(base, bucket, key string) string {
	segments := strings.Split(strings.TrimLeft(key, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	out := strings.TrimRight(base, "/")
	if bucket != "" {
		out += "/" + url.PathEscape(bucket)
	}
	return out + "/" + strings.Join(segments, "/")
}
