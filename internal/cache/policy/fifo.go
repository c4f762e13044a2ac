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

import "container/list"

// FIFO is a second Policy implementation, proving that the disk and memory
// stores never need to change to support an ordering strategy other than
// LRU. Unlike LRU, Exists never reorders — insertion order is the only
// order, and the oldest insertion is always the eviction victim.
//
// No example repo's dependency set ships a bare insertion-ordered set, so
// this one is built on stdlib container/list.
type FIFO struct {
	hashSize int
	order    *list.List
	index    map[Fingerprint]*list.Element
}

// NewFIFO returns an empty FIFO policy.
func NewFIFO() *FIFO {
	return &FIFO{
		order: list.New(),
		index: make(map[Fingerprint]*list.Element),
	}
}

func (f *FIFO) SetHashSize(n int) {
	f.hashSize = n
}

func (f *FIFO) Exists(fp Fingerprint) (bool, error) {
	if f.hashSize != 0 && len(fp) != f.hashSize {
		return false, ErrErroneousHashSize
	}

	_, ok := f.index[fp]

	return ok, nil
}

func (f *FIFO) Add(fp Fingerprint) error {
	if _, ok := f.index[fp]; ok {
		return ErrAlreadyExists
	}

	f.index[fp] = f.order.PushFront(fp)

	return nil
}

func (f *FIFO) Remove(fp Fingerprint) error {
	el, ok := f.index[fp]
	if !ok {
		return ErrDoesNotExist
	}

	f.order.Remove(el)
	delete(f.index, fp)

	return nil
}

func (f *FIFO) Front() Fingerprint {
	if f.order.Len() == 0 {
		return ""
	}

	return f.order.Front().Value.(Fingerprint) //nolint:forcetypeassert // only Fingerprints are ever stored
}

func (f *FIFO) Back() Fingerprint {
	if f.order.Len() == 0 {
		return ""
	}

	return f.order.Back().Value.(Fingerprint) //nolint:forcetypeassert // only Fingerprints are ever stored
}

func (f *FIFO) ForEach(cb func(Fingerprint)) {
	for el := f.order.Front(); el != nil; el = el.Next() {
		cb(el.Value.(Fingerprint)) //nolint:forcetypeassert // only Fingerprints are ever stored
	}
}

func (f *FIFO) Clear() {
	f.order.Init()
	f.index = make(map[Fingerprint]*list.Element)
}

func (f *FIFO) Count() int {
	return len(f.index)
}

func (f *FIFO) IndexData() []byte {
	out := make([]byte, 0, len(f.index)*f.hashSize)
	f.ForEach(func(fp Fingerprint) {
		out = append(out, fp...)
	})

	return out
}

func (f *FIFO) SetIndexData(data []byte) error {
	if f.hashSize == 0 {
		if len(data) != 0 {
			return ErrDataCorrupted
		}

		f.Clear()

		return nil
	}

	if len(data)%f.hashSize != 0 {
		return ErrDataCorrupted
	}

	f.Clear()

	for i := 0; i < len(data); i += f.hashSize {
		fp := string(data[i : i+f.hashSize])
		f.index[fp] = f.order.PushBack(fp)
	}

	return nil
}
