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

// Package policy defines the eviction-ordering abstraction shared by the
// disk and memory caches. A Policy owns the order of fingerprints only; it
// never touches storage. Callers drive storage changes themselves and tell
// the policy about them via Add/Remove/Exists.
package policy

import "errors"

var (
	// ErrAlreadyExists is returned by Add when the fingerprint is already
	// present in the policy.
	ErrAlreadyExists = errors.New("policy: fingerprint already exists")
	// ErrDoesNotExist is returned by Remove when the fingerprint is absent.
	ErrDoesNotExist = errors.New("policy: fingerprint does not exist")
	// ErrDataCorrupted is returned by SetIndexData when the blob length is
	// not a multiple of the configured hash size.
	ErrDataCorrupted = errors.New("policy: index data is corrupted")
	// ErrErroneousHashSize is returned by Exists when the supplied
	// fingerprint's length does not match the configured hash size.
	ErrErroneousHashSize = errors.New("policy: fingerprint has the wrong length")
)

// Fingerprint is a fixed-width, filesystem-safe identifier produced by a
// HashFunc. All fingerprints handled by a single Policy instance must share
// the same length.
type Fingerprint = string

// Policy is the narrow capability set an eviction strategy must implement.
// LRU is mandatory (see LRU in lru.go); FIFO demonstrates that a cache built
// against this interface never needs to change to support a different
// ordering strategy.
type Policy interface {
	// SetHashSize records the fixed fingerprint length used by this policy
	// instance. It must be called once, before any mutation.
	SetHashSize(n int)

	// SetIndexData replaces the policy's internal order with the order
	// encoded in data, a flat concatenation of fixed-width fingerprints.
	// It returns ErrDataCorrupted if len(data) is not a multiple of the
	// configured hash size.
	SetIndexData(data []byte) error

	// IndexData returns the current order as a flat concatenation of
	// fixed-width fingerprints, front (most recently used) first.
	IndexData() []byte

	// Exists reports whether fp is present. Implementations are free to
	// treat this as a mutating probe (LRU promotes fp to the front on a
	// hit); callers rely on this to drive access-based promotion.
	Exists(fp Fingerprint) (bool, error)

	// Add inserts fp as the new front (most recently used) entry. Callers
	// are expected to have already checked Exists returns false; Add
	// returns ErrAlreadyExists otherwise.
	Add(fp Fingerprint) error

	// Remove deletes fp from the policy. It returns ErrDoesNotExist if fp
	// is absent.
	Remove(fp Fingerprint) error

	// Front returns the most recently used fingerprint, or "" if empty.
	Front() Fingerprint

	// Back returns the least recently used fingerprint — the eviction
	// victim — or "" if empty.
	Back() Fingerprint

	// ForEach invokes cb once per fingerprint, front to back.
	ForEach(cb func(Fingerprint))

	// Clear empties the policy.
	Clear()

	// Count returns the number of fingerprints currently tracked.
	Count() int
}
