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

package diskcache_test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oysteinmyrmo/myrmo/internal/cache/diskcache"
	"github.com/oysteinmyrmo/myrmo/internal/cache/hashfunc"
	"github.com/oysteinmyrmo/myrmo/internal/cache/policy"
)

func newStore(t *testing.T, maxSizeMiB int64, opts ...diskcache.Option) (*diskcache.Store, afero.Fs) {
	t.Helper()

	fs := afero.NewMemMapFs()
	opts = append([]diskcache.Option{diskcache.WithFS(fs)}, opts...)

	s, err := diskcache.New("/cache", hashfunc.CRC32, policy.NewLRU(), maxSizeMiB, opts...)
	require.NoError(t, err)

	return s, fs
}

func TestStore_WriteReadRemove(t *testing.T) {
	s, _ := newStore(t, 1)

	require.NoError(t, s.Write("a", []byte("hello")))

	data, err := s.Read("a")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)

	assert.Equal(t, int64(5), s.Size())
	assert.Equal(t, 1, s.Count())

	require.NoError(t, s.Remove("a"))

	_, err = s.Read("a")
	assert.ErrorIs(t, err, diskcache.ErrFileDoesNotExist)
	assert.Equal(t, int64(0), s.Size())
	assert.Equal(t, 0, s.Count())
}

func TestStore_WriteAlreadyExists(t *testing.T) {
	s, _ := newStore(t, 1)

	require.NoError(t, s.Write("a", []byte("hello")))
	assert.ErrorIs(t, s.Write("a", []byte("world")), diskcache.ErrFileExists)
}

func TestStore_ReadMissing(t *testing.T) {
	s, _ := newStore(t, 1)

	_, err := s.Read("missing")
	assert.ErrorIs(t, err, diskcache.ErrFileDoesNotExist)
}

func TestStore_RemoveMissing(t *testing.T) {
	s, _ := newStore(t, 1)

	assert.ErrorIs(t, s.Remove("missing"), diskcache.ErrFileDoesNotExist)
}

func TestStore_EvictsOldestToFit(t *testing.T) {
	// Budget of 1 MiB; each write is ~700 KiB, so the second write must
	// evict the first to make room for itself.
	s, _ := newStore(t, 1)

	payload := func(n int) []byte {
		b := make([]byte, n)
		for i := range b {
			b[i] = byte(i)
		}

		return b
	}

	require.NoError(t, s.Write("a", payload(700*diskcache.Kilobyte)))
	require.NoError(t, s.Write("b", payload(700*diskcache.Kilobyte)))

	_, err := s.Read("a")
	assert.ErrorIs(t, err, diskcache.ErrFileDoesNotExist, "a should have been evicted to make room for b")

	_, err = s.Read("b")
	require.NoError(t, err)

	assert.Equal(t, 1, s.Count())
}

func TestStore_WriteTooLargeForEmptyCache(t *testing.T) {
	s, _ := newStore(t, 1)

	err := s.Write("a", make([]byte, 2*diskcache.Megabyte))
	assert.ErrorIs(t, err, diskcache.ErrFileSizeGreaterThanMaxCacheSize)
}

func TestStore_Clear(t *testing.T) {
	s, _ := newStore(t, 1)

	require.NoError(t, s.Write("a", []byte("1")))
	require.NoError(t, s.Write("b", []byte("2")))

	require.NoError(t, s.Clear())

	assert.Equal(t, 0, s.Count())
	assert.Equal(t, int64(0), s.Size())
}

func TestStore_IndexPersistsAcrossReopen(t *testing.T) {
	s, fs := newStore(t, 1)

	require.NoError(t, s.Write("a", []byte("1")))
	require.NoError(t, s.Write("b", []byte("22")))
	require.NoError(t, s.Close())

	reopened, err := diskcache.New("/cache", hashfunc.CRC32, policy.NewLRU(), 1, diskcache.WithFS(fs))
	require.NoError(t, err)

	assert.Equal(t, 2, reopened.Count())
	assert.Equal(t, int64(3), reopened.Size())

	data, err := reopened.Read("b")
	require.NoError(t, err)
	assert.Equal(t, []byte("22"), data)
}

func TestStore_ReconcileToleratesMissingFile(t *testing.T) {
	s, fs := newStore(t, 1)

	require.NoError(t, s.Write("a", []byte("1")))
	require.NoError(t, s.Close())

	// Simulate an external deletion of the payload file behind the
	// store's back; the index still references it.
	require.NoError(t, fs.Remove("/cache/"+hashfunc.CRC32("a")))

	reopened, err := diskcache.New("/cache", hashfunc.CRC32, policy.NewLRU(), 1, diskcache.WithFS(fs))
	require.NoError(t, err)

	assert.Equal(t, int64(0), reopened.Size(), "missing file should contribute zero bytes")
}

func TestStore_CorruptIndexStartsEmpty(t *testing.T) {
	fs := afero.NewMemMapFs()

	_, err := diskcache.New("/cache", hashfunc.CRC32, policy.NewLRU(), 1, diskcache.WithFS(fs))
	require.NoError(t, err)

	indexPath := "/cache/" + hashfunc.CRC32("myrmo_disk_cache_index")
	require.NoError(t, afero.WriteFile(fs, indexPath, []byte("not a multiple of the hash size"), 0o640))

	reopened, err := diskcache.New("/cache", hashfunc.CRC32, policy.NewLRU(), 1, diskcache.WithFS(fs))
	require.NoError(t, err)

	assert.Equal(t, 0, reopened.Count())
}

func TestStore_WriteGuardAllowsSequentialWrites(t *testing.T) {
	s, _ := newStore(t, 1, diskcache.WithWriteGuard())

	require.NoError(t, s.Write("a", []byte("1")))
	require.NoError(t, s.Write("b", []byte("2")))

	assert.Equal(t, 2, s.Count())
}
