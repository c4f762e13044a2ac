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

// Package memcache implements the in-process, single-buffer memory store:
// all payloads live in one growable byte slice, addressed by a
// fingerprint -> {position, length} descriptor map.
package memcache

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/oysteinmyrmo/myrmo/internal/cache/hashfunc"
	"github.com/oysteinmyrmo/myrmo/internal/cache/policy"
)

var (
	ErrFileDoesNotExist                = errors.New("memcache: entry does not exist")
	ErrFileExists                      = errors.New("memcache: entry already exists")
	ErrFileSizeGreaterThanMaxCacheSize = errors.New("memcache: payload is larger than the maximum cache size")
	ErrCouldNotClearSpaceForFile       = errors.New("memcache: could not clear enough space for entry")
)

// descriptor locates one entry's bytes within the shared buffer.
type descriptor struct {
	position int
	length   int
}

// Store is a single growable buffer holding every entry's payload
// contiguously, with deletions compacted in place so the buffer never
// carries holes.
type Store struct {
	hash    hashfunc.HashFunc
	policy  policy.Policy
	maxSize int64

	buf   []byte
	index map[policy.Fingerprint]descriptor
}

// Option configures a Store at construction time.
type Option func(*Store)

// WithMeter registers OpenTelemetry observable gauges reporting live cache
// size and entry count, for parity with diskcache.WithMeter.
func WithMeter(meter metric.Meter) Option {
	return func(s *Store) {
		currentAttr := attribute.String("type", "current")
		maxAttr := attribute.String("type", "max")

		must(meter.Int64ObservableGauge("myrmo_mem_cache_size_bytes",
			metric.WithUnit("By"),
			metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
				o.Observe(int64(len(s.buf)), metric.WithAttributes(currentAttr))
				o.Observe(s.maxSize, metric.WithAttributes(maxAttr))

				return nil
			})))

		must(meter.Int64ObservableGauge("myrmo_mem_cache_entries",
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

// New creates an empty memory store. maxSizeMiB is the byte budget
// expressed in mebibytes.
func New(hash hashfunc.HashFunc, pol policy.Policy, maxSizeMiB int64, opts ...Option) *Store {
	s := &Store{
		hash:    hash,
		policy:  pol,
		maxSize: maxSizeMiB * 1024 * 1024,
		index:   make(map[policy.Fingerprint]descriptor),
	}

	// A zero-length probe fixes the policy's fingerprint width; every
	// HashFunc is required to be fixed-width, so any real key works.
	s.policy.SetHashSize(len(hash("")))

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Read returns the payload stored under uri. A hit promotes the entry
// under LRU (Exists is a mutating probe).
func (s *Store) Read(uri string) ([]byte, error) {
	fp := s.hash(uri)

	ok, err := s.policy.Exists(fp)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, ErrFileDoesNotExist
	}

	d, ok := s.index[fp]
	if !ok {
		return nil, ErrFileDoesNotExist
	}

	out := make([]byte, d.length)
	copy(out, s.buf[d.position:d.position+d.length])

	return out, nil
}

// Write stores data under uri, evicting entries (oldest-first, per the
// configured policy) until there is room.
func (s *Store) Write(uri string, data []byte) error {
	fp := s.hash(uri)

	if exists, err := s.policy.Exists(fp); err != nil {
		return err
	} else if exists {
		return ErrFileExists
	}

	size := int64(len(data))

	if err := s.evictUntilFits(size); err != nil {
		return err
	}

	pos := len(s.buf)
	s.buf = append(s.buf, data...)
	s.index[fp] = descriptor{position: pos, length: len(data)}

	if err := s.policy.Add(fp); err != nil {
		return fmt.Errorf("add fingerprint to policy: %w", err)
	}

	return nil
}

// Remove deletes the entry stored under uri, compacting the buffer so the
// bytes that followed it shift left to fill the gap.
func (s *Store) Remove(uri string) error {
	fp := s.hash(uri)

	d, ok := s.index[fp]
	if !ok {
		return ErrFileDoesNotExist
	}

	s.compact(d)
	delete(s.index, fp)

	if err := s.policy.Remove(fp); err != nil {
		return fmt.Errorf("remove fingerprint from policy: %w", err)
	}

	return nil
}

// compact removes the bytes described by gap from the buffer and shifts
// every descriptor whose bytes follow it back by gap's length.
func (s *Store) compact(gap descriptor) {
	s.buf = append(s.buf[:gap.position], s.buf[gap.position+gap.length:]...)

	for fp, d := range s.index {
		if d.position > gap.position {
			d.position -= gap.length
			s.index[fp] = d
		}
	}
}

// Clear removes every entry.
func (s *Store) Clear() {
	s.buf = s.buf[:0]
	s.index = make(map[policy.Fingerprint]descriptor)
	s.policy.Clear()
}

// Size returns the live payload byte total.
func (s *Store) Size() int64 { return int64(len(s.buf)) }

// Count returns the number of live entries.
func (s *Store) Count() int { return s.policy.Count() }

func (s *Store) evictUntilFits(need int64) error {
	if need > s.maxSize {
		return ErrFileSizeGreaterThanMaxCacheSize
	}

	for s.Size()+need > s.maxSize {
		if s.policy.Count() == 0 {
			return ErrFileSizeGreaterThanMaxCacheSize
		}

		victim := s.policy.Back()

		d, ok := s.index[victim]
		if !ok {
			// The policy and the descriptor map have drifted apart;
			// drop the stale entry and keep evicting.
			if err := s.policy.Remove(victim); err != nil {
				return fmt.Errorf("%w: %s", ErrCouldNotClearSpaceForFile, err)
			}

			continue
		}

		s.compact(d)
		delete(s.index, victim)

		if err := s.policy.Remove(victim); err != nil {
			return fmt.Errorf("%w: %s", ErrCouldNotClearSpaceForFile, err)
		}
	}

	return nil
}
