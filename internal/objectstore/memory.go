// internal/objectstore/memory.go
package objectstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore keeps blobs in process memory. It backs tests and
// throwaway runs where neither S3 nor a writable disk is wanted.
type MemoryStore struct {
	baseURL string

	mu      sync.RWMutex
	objects map[string]memoryObject
}

type memoryObject struct {
	data     []byte
	modified time.Time
}

func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{
		baseURL: baseURL,
		objects: make(map[string]memoryObject),
	}
}

func (m *MemoryStore) Upload(_ context.Context, bucket, p string, data []byte, _ string, upsert bool) error {
	key, err := cleanKey(p)
	if err != nil {
		return &Error{Op: "upload", Bucket: bucket, Path: p, Err: err}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id := bucket + "/" + key
	if _, exists := m.objects[id]; exists && !upsert {
		return &Error{Op: "upload", Bucket: bucket, Path: key, Err: ErrAlreadyExists}
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	m.objects[id] = memoryObject{data: buf, modified: time.Now()}
	return nil
}

func (m *MemoryStore) Download(_ context.Context, bucket, p string) ([]byte, error) {
	key, err := cleanKey(p)
	if err != nil {
		return nil, &Error{Op: "download", Bucket: bucket, Path: p, Err: err}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	obj, ok := m.objects[bucket+"/"+key]
	if !ok {
		return nil, &Error{Op: "download", Bucket: bucket, Path: key, Err: ErrNotFound}
	}
	out := make([]byte, len(obj.data))
	copy(out, obj.data)
	return out, nil
}

func (m *MemoryStore) List(_ context.Context, bucket, prefix string, limit int) ([]Object, error) {
	pfx := bucket + "/" + listPrefix(prefix)

	m.mu.RLock()
	defer m.mu.RUnlock()

	objects := []Object{}
	for id, obj := range m.objects {
		if !strings.HasPrefix(id, pfx) {
			continue
		}
		name := strings.TrimPrefix(id, pfx)
		if strings.Contains(name, "/") {
			continue
		}
		objects = append(objects, Object{
			Name:         name,
			Size:         int64(len(obj.data)),
			LastModified: obj.modified,
		})
	}
	sort.Slice(objects, func(i, j int) bool { return objects[i].Name < objects[j].Name })
	if limit > 0 && len(objects) > limit {
		objects = objects[:limit]
	}
	return objects, nil
}

func (m *MemoryStore) Remove(_ context.Context, bucket string, paths ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range paths {
		key, err := cleanKey(p)
		if err != nil {
			return &Error{Op: "remove", Bucket: bucket, Path: p, Err: err}
		}
		delete(m.objects, bucket+"/"+key)
	}
	return nil
}

func (m *MemoryStore) PublicURL(bucket, p string) string {
	return joinURL(m.baseURL, bucket, p)
}
