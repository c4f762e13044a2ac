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

package hashfunc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oysteinmyrmo/myrmo/internal/cache/hashfunc"
)

func TestSHA1(t *testing.T) {
	assert.Equal(t, "da39a3ee5e6b4b0d3255bfef95601890afd80709", hashfunc.SHA1(""))
	assert.Equal(t,
		"2fd4e1c67a2d28fced849ee1bb76e7391b93eb12",
		hashfunc.SHA1("The quick brown fox jumps over the lazy dog"))
	assert.Len(t, hashfunc.SHA1("anything"), 40)
}

func TestCRC32(t *testing.T) {
	assert.Equal(t, "00000000", hashfunc.CRC32(""))
	assert.Equal(t, "414fa339", hashfunc.CRC32("The quick brown fox jumps over the lazy dog"))
	assert.Len(t, hashfunc.CRC32("anything"), 8)
}
