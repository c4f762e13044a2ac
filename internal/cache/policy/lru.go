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

package policy

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// initialLRUCapacity is the starting capacity of the backing LRU cache. It
// exists only to give golang-lru a positive size; LRU grows it on demand so
// a full cache never auto-evicts on Add behind the store's back.
const initialLRUCapacity = 64

// LRU is the mandatory eviction policy. Least-recently-used/probed is the
// back (eviction victim); most-recently-used/probed is the front.
//
// It is backed by hashicorp/golang-lru/v2. That library evicts its own
// oldest entry once full, which LRU does not want — the disk/memory store
// decides when to evict, not the index. So capacity is doubled whenever Add
// would otherwise exceed it, instead of ever letting the library auto-evict.
type LRU struct {
	hashSize int
	capacity int
	cache    *lru.Cache[Fingerprint, struct{}]
}

// NewLRU returns an empty LRU policy.
func NewLRU() *LRU {
	c, _ := lru.New[Fingerprint, struct{}](initialLRUCapacity)

	return &LRU{capacity: initialLRUCapacity, cache: c}
}

func (l *LRU) SetHashSize(n int) {
	l.hashSize = n
}

func (l *LRU) growIfFull() {
	if l.cache.Len()+1 > l.capacity {
		l.capacity *= 2
		l.cache.Resize(l.capacity)
	}
}

// Exists is a mutating probe: a hit promotes fp to the front via the
// underlying library's own Get, which is how read paths signal access.
func (l *LRU) Exists(fp Fingerprint) (bool, error) {
	if l.hashSize != 0 && len(fp) != l.hashSize {
		return false, ErrErroneousHashSize
	}

	_, ok := l.cache.Get(fp)

	return ok, nil
}

func (l *LRU) Add(fp Fingerprint) error {
	if l.cache.Contains(fp) {
		return ErrAlreadyExists
	}

	l.growIfFull()
	l.cache.Add(fp, struct{}{})

	return nil
}

func (l *LRU) Remove(fp Fingerprint) error {
	if !l.cache.Remove(fp) {
		return ErrDoesNotExist
	}

	return nil
}

// Front returns the most recently used fingerprint. golang-lru's Keys
// returns oldest to newest, so front is the last key.
func (l *LRU) Front() Fingerprint {
	keys := l.cache.Keys()
	if len(keys) == 0 {
		return ""
	}

	return keys[len(keys)-1]
}

// Back returns the least recently used fingerprint — the eviction victim.
func (l *LRU) Back() Fingerprint {
	fp, _, ok := l.cache.GetOldest()
	if !ok {
		return ""
	}

	return fp
}

// ForEach visits fingerprints front (MRU) to back (LRU).
func (l *LRU) ForEach(cb func(Fingerprint)) {
	keys := l.cache.Keys()
	for i := len(keys) - 1; i >= 0; i-- {
		cb(keys[i])
	}
}

func (l *LRU) Clear() {
	l.cache.Purge()
}

func (l *LRU) Count() int {
	return l.cache.Len()
}

// IndexData returns fingerprints front (MRU) first, so a reload through
// SetIndexData reconstructs the same front/back order.
func (l *LRU) IndexData() []byte {
	keys := l.cache.Keys()

	out := make([]byte, 0, len(keys)*l.hashSize)
	for i := len(keys) - 1; i >= 0; i-- {
		out = append(out, keys[i]...)
	}

	return out
}

// SetIndexData rebuilds the policy from a flat, front-first concatenation
// of fixed-width fingerprints. Fingerprints are re-Added back to front so
// the resulting front/back of the rebuilt LRU matches the serialized order
// exactly, without a bespoke linked-list to track it directly.
func (l *LRU) SetIndexData(data []byte) error {
	if l.hashSize == 0 {
		if len(data) != 0 {
			return ErrDataCorrupted
		}

		l.cache.Purge()

		return nil
	}

	if len(data)%l.hashSize != 0 {
		return ErrDataCorrupted
	}

	n := len(data) / l.hashSize
	fps := make([]Fingerprint, n)

	for i := 0; i < n; i++ {
		fps[i] = string(data[i*l.hashSize : (i+1)*l.hashSize])
	}

	l.capacity = initialLRUCapacity
	for l.capacity < n {
		l.capacity *= 2
	}

	c, err := lru.New[Fingerprint, struct{}](l.capacity)
	if err != nil {
		return err
	}

	l.cache = c

	for i := n - 1; i >= 0; i-- {
		l.cache.Add(fps[i], struct{}{})
	}

	return nil
}
