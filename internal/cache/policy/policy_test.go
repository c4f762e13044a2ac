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

package policy_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oysteinmyrmo/myrmo/internal/cache/policy"
)

const hashSize = 8

func fp(s string) policy.Fingerprint {
	for len(s) < hashSize {
		s += "0"
	}

	return s[:hashSize]
}

// newPolicies returns one instance of every Policy implementation, keyed by
// name, so the shared contract tests below run against each of them.
func newPolicies() map[string]policy.Policy {
	lru := policy.NewLRU()
	lru.SetHashSize(hashSize)

	fifo := policy.NewFIFO()
	fifo.SetHashSize(hashSize)

	return map[string]policy.Policy{
		"lru":  lru,
		"fifo": fifo,
	}
}

func TestPolicy_AddExistsRemove(t *testing.T) {
	for name, p := range newPolicies() {
		t.Run(name, func(t *testing.T) {
			a, b := fp("a"), fp("b")

			ok, err := p.Exists(a)
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, p.Add(a))

			ok, err = p.Exists(a)
			require.NoError(t, err)
			assert.True(t, ok)

			assert.ErrorIs(t, p.Add(a), policy.ErrAlreadyExists)

			require.NoError(t, p.Add(b))
			assert.Equal(t, 2, p.Count())

			require.NoError(t, p.Remove(a))
			assert.ErrorIs(t, p.Remove(a), policy.ErrDoesNotExist)
			assert.Equal(t, 1, p.Count())
		})
	}
}

func TestPolicy_ErroneousHashSize(t *testing.T) {
	for name, p := range newPolicies() {
		t.Run(name, func(t *testing.T) {
			_, err := p.Exists("short")
			assert.ErrorIs(t, err, policy.ErrErroneousHashSize)
		})
	}
}

func TestPolicy_FrontBackForEach(t *testing.T) {
	for name, p := range newPolicies() {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, "", p.Front())
			assert.Equal(t, "", p.Back())

			a, b, c := fp("a"), fp("b"), fp("c")
			require.NoError(t, p.Add(a))
			require.NoError(t, p.Add(b))
			require.NoError(t, p.Add(c))

			assert.Equal(t, c, p.Front())
			assert.Equal(t, a, p.Back())

			var seen []policy.Fingerprint
			p.ForEach(func(f policy.Fingerprint) { seen = append(seen, f) })
			assert.Equal(t, []policy.Fingerprint{c, b, a}, seen)
		})
	}
}

func TestPolicy_IndexDataRoundTrip(t *testing.T) {
	for name, p := range newPolicies() {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, p.Add(fp("a")))
			require.NoError(t, p.Add(fp("b")))
			require.NoError(t, p.Add(fp("c")))

			before := p.IndexData()

			require.NoError(t, p.SetIndexData(before))

			assert.Equal(t, before, p.IndexData())
			assert.Equal(t, 3, p.Count())
			assert.Equal(t, fp("c"), p.Front())
			assert.Equal(t, fp("a"), p.Back())
		})
	}
}

func TestPolicy_SetIndexData_Corrupted(t *testing.T) {
	for name, p := range newPolicies() {
		t.Run(name, func(t *testing.T) {
			err := p.SetIndexData(make([]byte, hashSize+1))
			assert.ErrorIs(t, err, policy.ErrDataCorrupted)
		})
	}
}

func TestPolicy_Clear(t *testing.T) {
	for name, p := range newPolicies() {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, p.Add(fp("a")))
			p.Clear()
			assert.Equal(t, 0, p.Count())
			p.Clear()
			assert.Equal(t, 0, p.Count())
		})
	}
}

func TestLRU_ExistsPromotes(t *testing.T) {
	p := policy.NewLRU()
	p.SetHashSize(hashSize)

	a, b, c := fp("a"), fp("b"), fp("c")
	require.NoError(t, p.Add(a))
	require.NoError(t, p.Add(b))
	require.NoError(t, p.Add(c))

	// Back is a, the least recently used. Probing it promotes it to front.
	require.Equal(t, a, p.Back())

	ok, err := p.Exists(a)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, a, p.Front())
	assert.Equal(t, b, p.Back())
}

func TestFIFO_ExistsDoesNotPromote(t *testing.T) {
	p := policy.NewFIFO()
	p.SetHashSize(hashSize)

	a, b, c := fp("a"), fp("b"), fp("c")
	require.NoError(t, p.Add(a))
	require.NoError(t, p.Add(b))
	require.NoError(t, p.Add(c))

	ok, err := p.Exists(a)
	require.NoError(t, err)
	assert.True(t, ok)

	// FIFO order is insertion order regardless of probing.
	assert.Equal(t, c, p.Front())
	assert.Equal(t, a, p.Back())
}

func TestLRU_GrowsCapacityInsteadOfAutoEvicting(t *testing.T) {
	p := policy.NewLRU()
	p.SetHashSize(hashSize)

	for i := 0; i < 200; i++ {
		require.NoError(t, p.Add(fmt.Sprintf("%08d", i)))
	}

	assert.Equal(t, 200, p.Count())
}
