// internal/records/store.go

// Package records keeps typed collections in a spreadsheet blob. The blob
// in the remote object store is authoritative; a copy in the local data
// directory is consulted first on reads and refreshed on every write.
package records

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/yahiawalid23/HEPTA/internal/metrics"
	"github.com/yahiawalid23/HEPTA/internal/objectstore"
	"github.com/yahiawalid23/HEPTA/internal/spreadsheet"
)

// ErrNotFound is returned by PatchOne when no record carries the id.
var ErrNotFound = errors.New("record not found")

// Mapper converts one record type to and from spreadsheet rows.
type Mapper[T any] interface {
	// Columns lists the header written for recs, in order.
	Columns(recs []T) []string
	ToRow(rec T) spreadsheet.Row
	FromRow(row spreadsheet.Row) T
	ID(rec T) string
	SheetName() string
}

type Options struct {
	// Collection names the store in logs and metrics, e.g. "orders".
	Collection string
	// Bucket and Object locate the authoritative blob.
	Bucket string
	Object string
	// LocalDir holds the local copy; empty disables it.
	LocalDir string
}

// Store reads and writes one collection. Remote may be nil, in which case
// the local copy is the only copy.
type Store[T any] struct {
	mapper    Mapper[T]
	remote    objectstore.Store
	bucket    string
	object    string
	localPath string
	name      string
	logger    *logrus.Entry

	// mu serializes read-modify-write cycles within this process. Writers
	// in other processes are not coordinated.
	mu sync.Mutex
}

func NewStore[T any](mapper Mapper[T], remote objectstore.Store, opts Options, logger *logrus.Logger) *Store[T] {
	s := &Store[T]{
		mapper: mapper,
		remote: remote,
		bucket: opts.Bucket,
		object: opts.Object,
		name:   opts.Collection,
		logger: logger.WithField("collection", opts.Collection),
	}
	if opts.LocalDir != "" {
		s.localPath = filepath.Join(opts.LocalDir, opts.Object)
	}
	return s
}

// ReadAll returns every record. It never fails: the local copy is tried
// first, then the remote blob, and an empty slice is returned when neither
// yields a decodable spreadsheet.
func (s *Store[T]) ReadAll(ctx context.Context) []T {
	if recs, ok := s.readLocal(); ok {
		metrics.StoreReads.WithLabelValues(s.name, "local").Inc()
		return recs
	}
	if recs, ok := s.readRemote(ctx); ok {
		metrics.StoreReads.WithLabelValues(s.name, "remote").Inc()
		return recs
	}
	metrics.StoreReads.WithLabelValues(s.name, "empty").Inc()
	return []T{}
}

// WriteAll replaces the collection. The local write is best effort; the
// remote upload's error is returned.
func (s *Store[T]) WriteAll(ctx context.Context, recs []T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeAll(ctx, recs)
}

// Append adds rec at the end of the collection. It fails without writing
// when the remote cannot be reached and there is no local copy.
func (s *Store[T]) Append(ctx context.Context, rec T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.load(ctx)
	if err != nil {
		return err
	}
	recs = append(recs, rec)
	return s.writeAll(ctx, recs)
}

// PatchOne applies mutate to the first record whose id matches and writes
// the collection back. Nothing is written when the id is absent or the
// current collection cannot be read.
func (s *Store[T]) PatchOne(ctx context.Context, id string, mutate func(*T)) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	recs, err := s.load(ctx)
	if err != nil {
		return zero, err
	}
	for i := range recs {
		if s.mapper.ID(recs[i]) != id {
			continue
		}
		mutate(&recs[i])
		if err := s.writeAll(ctx, recs); err != nil {
			return zero, err
		}
		return recs[i], nil
	}
	return zero, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Reset empties the collection.
func (s *Store[T]) Reset(ctx context.Context) error {
	return s.WriteAll(ctx, nil)
}

// Blob returns the authoritative spreadsheet bytes: the remote object when
// a remote is configured, the local file otherwise.
func (s *Store[T]) Blob(ctx context.Context) ([]byte, error) {
	if s.remote != nil {
		return s.remote.Download(ctx, s.bucket, s.object)
	}
	if s.localPath == "" {
		return nil, fmt.Errorf("%s: %w", s.object, objectstore.ErrNotFound)
	}
	data, err := os.ReadFile(s.localPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", s.localPath, objectstore.ErrNotFound)
	}
	return data, err
}

// Decode maps spreadsheet bytes to records without touching storage.
func (s *Store[T]) Decode(data []byte) ([]T, error) {
	table, err := spreadsheet.Decode(data)
	if err != nil {
		return nil, err
	}
	recs := make([]T, 0, len(table.Rows))
	for _, row := range table.Rows {
		recs = append(recs, s.mapper.FromRow(row))
	}
	return recs, nil
}

// Encode maps records to spreadsheet bytes.
func (s *Store[T]) Encode(recs []T) ([]byte, error) {
	table := &spreadsheet.Table{
		Columns: s.mapper.Columns(recs),
		Rows:    make([]spreadsheet.Row, 0, len(recs)),
	}
	for _, rec := range recs {
		table.Rows = append(table.Rows, s.mapper.ToRow(rec))
	}
	return spreadsheet.Encode(table, s.mapper.SheetName())
}

func (s *Store[T]) writeAll(ctx context.Context, recs []T) error {
	data, err := s.Encode(recs)
	if err != nil {
		return err
	}

	localErr := s.writeLocal(data)
	if localErr != nil {
		metrics.StoreWriteFailures.WithLabelValues(s.name, "local").Inc()
		s.logger.WithError(localErr).Warn("Failed to write local copy")
	}

	if s.remote == nil {
		return localErr
	}

	if err := s.remote.Upload(ctx, s.bucket, s.object, data, spreadsheet.ContentType, true); err != nil {
		metrics.StoreWriteFailures.WithLabelValues(s.name, "remote").Inc()
		s.logger.WithError(err).Error("Failed to upload collection")
		return err
	}

	s.logger.WithField("records", len(recs)).Debug("Collection written")
	return nil
}

func (s *Store[T]) readLocal() ([]T, bool) {
	if s.localPath == "" {
		return nil, false
	}
	data, err := os.ReadFile(s.localPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.WithError(err).Warn("Failed to read local copy")
		}
		return nil, false
	}
	recs, err := s.Decode(data)
	if err != nil {
		s.logger.WithError(err).Warn("Local copy is not a readable spreadsheet")
		return nil, false
	}
	return recs, true
}

// load is ReadAll for read-modify-write cycles. A remote failure other than
// a missing object is returned instead of being read as an empty collection,
// so a transient outage cannot overwrite the authoritative blob.
func (s *Store[T]) load(ctx context.Context) ([]T, error) {
	if recs, ok := s.readLocal(); ok {
		metrics.StoreReads.WithLabelValues(s.name, "local").Inc()
		return recs, nil
	}
	if s.remote != nil {
		data, err := s.remote.Download(ctx, s.bucket, s.object)
		switch {
		case err == nil:
			if recs, err := s.Decode(data); err == nil {
				metrics.StoreReads.WithLabelValues(s.name, "remote").Inc()
				return recs, nil
			}
			s.logger.Warn("Remote collection is not a readable spreadsheet")
		case !objectstore.IsNotFound(err):
			s.logger.WithError(err).Error("Failed to download collection before write")
			return nil, fmt.Errorf("read %s: %w", s.name, err)
		}
	}
	metrics.StoreReads.WithLabelValues(s.name, "empty").Inc()
	return []T{}, nil
}

func (s *Store[T]) readRemote(ctx context.Context) ([]T, bool) {
	if s.remote == nil {
		return nil, false
	}
	data, err := s.remote.Download(ctx, s.bucket, s.object)
	if err != nil {
		if objectstore.IsNotFound(err) {
			s.logger.Debug("No remote collection yet")
		} else {
			s.logger.WithError(err).Warn("Failed to download collection")
		}
		return nil, false
	}
	recs, err := s.Decode(data)
	if err != nil {
		s.logger.WithError(err).Warn("Remote collection is not a readable spreadsheet")
		return nil, false
	}
	return recs, true
}

func (s *Store[T]) writeLocal(data []byte) error {
	if s.localPath == "" {
		return nil
	}
	dir := filepath.Dir(s.localPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.localPath)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.localPath); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace local copy: %w", err)
	}
	return nil
}
