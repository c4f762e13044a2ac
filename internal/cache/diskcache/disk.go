// Copyright (c) 2026 Canonical Ltd
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package diskcache implements the disk-backed content-addressed store: one
// payload file per entry inside a cache directory, plus a sidecar index
// file that persists the eviction policy's order across restarts.
package diskcache

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/oysteinmyrmo/myrmo/internal/atomicfile"
	"github.com/oysteinmyrmo/myrmo/internal/cache/hashfunc"
	"github.com/oysteinmyrmo/myrmo/internal/cache/policy"
)

const (
	Kilobyte = 1024
	Megabyte = 1024 * Kilobyte

	// indexFileURI is hashed like any other URI to produce the index
	// file's name; it can only collide with a real entry if a caller
	// writes this exact string as a URI.
	indexFileURI = "myrmo_disk_cache_index"

	maxEvictAttempts  = 5
	evictRetryBackoff = time.Millisecond
)

var (
	ErrFileDoesNotExist                = errors.New("diskcache: file does not exist")
	ErrFileExists                      = errors.New("diskcache: file already exists")
	ErrFileSizeGreaterThanMaxCacheSize = errors.New("diskcache: payload is larger than the maximum cache size")
	ErrCouldNotDeleteFile              = errors.New("diskcache: could not delete file")
	ErrCouldNotClearSpaceForFile       = errors.New("diskcache: could not clear enough space for file")
	ErrCouldNotWriteFile               = errors.New("diskcache: could not write file")
	ErrCouldNotWriteIndexFile          = errors.New("diskcache: could not write index file")
	ErrWriteInProgress                 = errors.New("diskcache: a write for this key is already in progress")
)

// Store is a single-threaded, byte-budgeted, one-file-per-entry disk cache.
// Callers sharing a Store across goroutines must supply their own mutual
// exclusion (see WithWriteGuard for a narrow, opt-in exception).
type Store struct {
	fs      afero.Fs
	dir     string
	hash    hashfunc.HashFunc
	policy  policy.Policy
	maxSize int64
	size    int64

	indexName policy.Fingerprint

	writeGuard bool
	mu         sync.Mutex
	inProgress map[policy.Fingerprint]struct{}
}

// Option configures a Store at construction time.
type Option func(*Store)

// WithFS overrides the filesystem collaborator. Defaults to afero.NewOsFs().
func WithFS(fs afero.Fs) Option {
	return func(s *Store) { s.fs = fs }
}

// WithWriteGuard rejects a concurrent Write for a key that already has one
// in flight with ErrWriteInProgress, instead of racing. It does not provide
// any broader concurrency guarantee: a Store is still not safe for
// concurrent use beyond this one narrow case.
func WithWriteGuard() Option {
	return func(s *Store) {
		s.writeGuard = true
		s.inProgress = make(map[policy.Fingerprint]struct{})
	}
}

// WithMeter registers OpenTelemetry observable gauges reporting live cache
// size and entry count.
func WithMeter(meter metric.Meter) Option {
	return func(s *Store) {
		currentAttr := attribute.String("type", "current")
		maxAttr := attribute.String("type", "max")

		must(meter.Int64ObservableGauge("myrmo_disk_cache_size_bytes",
			metric.WithUnit("By"),
			metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
				o.Observe(s.size, metric.WithAttributes(currentAttr))
				o.Observe(s.maxSize, metric.WithAttributes(maxAttr))

				return nil
			})))

		must(meter.Int64ObservableGauge("myrmo_disk_cache_entries",
			metric.WithUnit("{count}"),
			metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
				o.Observe(int64(s.policy.Count()))

				return nil
			})))
	}
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}

	return v
}

// New opens (or creates) a disk cache rooted at dir. maxSizeMiB is the byte
// budget expressed in mebibytes. The policy is informed of the fingerprint
// length and, if dir already contains an index file, the on-disk state is
// reconciled into it before New returns.
func New(dir string, hash hashfunc.HashFunc, pol policy.Policy, maxSizeMiB int64, opts ...Option) (*Store, error) {
	s := &Store{
		fs:      afero.NewOsFs(),
		dir:     dir,
		hash:    hash,
		policy:  pol,
		maxSize: maxSizeMiB * Megabyte,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.indexName = s.hash(indexFileURI)
	s.policy.SetHashSize(len(s.indexName))

	if err := s.fs.MkdirAll(s.dir, 0o750); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	if err := s.load(); err != nil {
		return nil, err
	}

	s.reconcile()

	return s, nil
}

func (s *Store) path(fp policy.Fingerprint) string {
	return filepath.Join(s.dir, fp)
}

// load reads the index file (if any) into the policy. A missing or
// unparseable index file is treated as a fresh, empty cache rather than a
// hard failure, so a corrupted index never blocks the store from opening.
func (s *Store) load() error {
	data, err := afero.ReadFile(s.fs, s.path(s.indexName))
	if err != nil {
		data = nil
	}

	if err := s.policy.SetIndexData(data); err != nil {
		log.Warn().Err(err).Str("dir", s.dir).Msg("disk cache index is corrupted, starting empty")
		s.policy.Clear()
		s.policy.SetHashSize(len(s.indexName))
	}

	return nil
}

// reconcile walks the policy's fingerprints, stat-ing each payload file to
// recompute the live byte total. Fingerprints whose files are missing
// contribute zero; files on disk not present in the policy are untouched
// orphans.
func (s *Store) reconcile() {
	var total int64

	s.policy.ForEach(func(fp policy.Fingerprint) {
		info, err := s.fs.Stat(s.path(fp))
		if err != nil {
			return
		}

		total += info.Size()
	})

	s.size = total
}

// Read returns the payload stored under uri. A hit promotes the entry under
// LRU (Exists is a mutating probe).
func (s *Store) Read(uri string) ([]byte, error) {
	fp := s.hash(uri)

	ok, err := s.policy.Exists(fp)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, ErrFileDoesNotExist
	}

	data, err := afero.ReadFile(s.fs, s.path(fp))
	if err != nil {
		return nil, ErrFileDoesNotExist
	}

	return data, nil
}

// Write stores data under uri, evicting entries (oldest-first, per the
// configured policy) until there is room. It returns ErrFileExists if an
// entry already exists under uri, and ErrFileSizeGreaterThanMaxCacheSize if
// data cannot fit even in an empty cache.
func (s *Store) Write(uri string, data []byte) error {
	fp := s.hash(uri)

	if s.writeGuard {
		if !s.beginWrite(fp) {
			return ErrWriteInProgress
		}
		defer s.endWrite(fp)
	}

	if exists, err := s.policy.Exists(fp); err != nil {
		return err
	} else if exists {
		return ErrFileExists
	}

	path := s.path(fp)

	if found, err := afero.Exists(s.fs, path); err != nil {
		return fmt.Errorf("stat payload file: %w", err)
	} else if found {
		return ErrFileExists
	}

	size := int64(len(data))

	if err := s.evictUntilFits(size); err != nil {
		return err
	}

	if err := afero.WriteFile(s.fs, path, data, 0o640); err != nil {
		return fmt.Errorf("%w: %s", ErrCouldNotWriteFile, err)
	}

	s.size += size

	if err := s.policy.Add(fp); err != nil {
		return fmt.Errorf("add fingerprint to policy: %w", err)
	}

	if err := s.writeIndex(); err != nil {
		return err
	}

	return nil
}

func (s *Store) beginWrite(fp policy.Fingerprint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, busy := s.inProgress[fp]; busy {
		return false
	}

	s.inProgress[fp] = struct{}{}

	return true
}

func (s *Store) endWrite(fp policy.Fingerprint) {
	s.mu.Lock()
	delete(s.inProgress, fp)
	s.mu.Unlock()
}

// Remove deletes the entry stored under uri.
func (s *Store) Remove(uri string) error {
	fp := s.hash(uri)

	if err := s.removeFile(fp); err != nil {
		return err
	}

	// A failed index rewrite here does not surface as an error from Remove
	// itself; the next mutation or Close retries it.
	if err := s.writeIndex(); err != nil {
		log.Warn().Err(err).Str("dir", s.dir).Msg("failed to rewrite index file after remove")
	}

	return nil
}

// Clear removes every entry. It stops at the first removal failure,
// leaving the store exactly as consistent as that failure left it.
func (s *Store) Clear() error {
	for s.policy.Count() > 0 {
		victim := s.policy.Back()
		if err := s.removeFile(victim); err != nil {
			return err
		}
	}

	s.size = 0

	if err := s.fs.Remove(s.path(s.indexName)); err != nil {
		log.Warn().Err(err).Str("dir", s.dir).Msg("failed to remove index file on clear")
	}

	return nil
}

// Close rewrites the index file, standing in for a destructor-driven
// "rewrite the index on shutdown" rule in a language with no destructors.
func (s *Store) Close() error {
	return s.writeIndex()
}

// Size returns the live payload byte total, excluding the index file.
func (s *Store) Size() int64 { return s.size }

// Count returns the number of live entries.
func (s *Store) Count() int { return s.policy.Count() }

// IndexData returns the current index file contents, for tests verifying
// the on-disk index round-trip.
func (s *Store) IndexData() []byte { return s.policy.IndexData() }

// removeFile deletes the payload file for fp and updates the size counter
// and policy. It returns ErrFileDoesNotExist if the file is absent — used
// both by Remove (where that's an outright failure) and evictUntilFits
// (where it counts as one of the five tolerated failures).
func (s *Store) removeFile(fp policy.Fingerprint) error {
	path := s.path(fp)

	info, err := s.fs.Stat(path)
	if err != nil {
		return ErrFileDoesNotExist
	}

	if err := s.fs.Remove(path); err != nil {
		return ErrCouldNotDeleteFile
	}

	s.size -= info.Size()

	// Tolerated rather than propagated: reconcile can leave size and the
	// policy's own bookkeeping out of step with the payload files it found
	// on disk, and a removal should still succeed in that case.
	_ = s.policy.Remove(fp)

	return nil
}

// evictUntilFits removes back-of-policy entries until need more bytes fit
// within the budget.
func (s *Store) evictUntilFits(need int64) error {
	if need > s.maxSize && s.policy.Count() == 0 {
		return ErrFileSizeGreaterThanMaxCacheSize
	}

	for s.size+need > s.maxSize {
		if s.policy.Count() == 0 {
			return ErrFileSizeGreaterThanMaxCacheSize
		}

		victim := s.policy.Back()

		retry := backoff.WithMaxRetries(backoff.NewConstantBackOff(evictRetryBackoff), maxEvictAttempts-1)

		err := backoff.Retry(func() error {
			return s.removeFile(victim)
		}, retry)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrCouldNotClearSpaceForFile, err)
		}

		log.Debug().Str("dir", s.dir).Str("fingerprint", victim).Msg("evicted cache entry")
	}

	return nil
}

func (s *Store) writeIndex() error {
	if err := atomicfile.WriteFileWithFs(s.fs, s.path(s.indexName), s.policy.IndexData(), 0o640); err != nil {
		return fmt.Errorf("%w: %s", ErrCouldNotWriteIndexFile, err)
	}

	return nil
}
