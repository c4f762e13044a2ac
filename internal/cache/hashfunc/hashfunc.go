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

// Package hashfunc provides reference implementations of the hash
// collaborator the cache stores take at construction. The cache treats the
// function as an opaque pure URI->fingerprint mapping; these two
// implementations exist to exercise that contract with fingerprints of two
// different (but each internally fixed) lengths.
package hashfunc

import (
	"crypto/sha1" //nolint:gosec // fingerprinting, not a security boundary
	"encoding/hex"
	"hash/crc32"

	"github.com/oysteinmyrmo/myrmo/internal/cache/policy"
)

// HashFunc maps a caller-supplied URI to a fixed-width, filesystem-safe
// fingerprint. Every invocation of a given HashFunc must return a
// fingerprint of the same length.
type HashFunc func(uri string) policy.Fingerprint

// SHA1 hashes a URI to a 40-character hexadecimal SHA-1 digest. This is the
// reference deployment's hash function.
func SHA1(uri string) policy.Fingerprint {
	sum := sha1.Sum([]byte(uri)) //nolint:gosec // fingerprinting, not a security boundary
	return hex.EncodeToString(sum[:])
}

// CRC32 hashes a URI to an 8-character hexadecimal CRC-32 (IEEE) checksum.
// It is a second, shorter fixed-width hash used to prove the cache core is
// indifferent to which HashFunc it is given, as long as it is consistent.
func CRC32(uri string) policy.Fingerprint {
	sum := crc32.ChecksumIEEE([]byte(uri))
	return hex.EncodeToString([]byte{
		byte(sum >> 24),
		byte(sum >> 16),
		byte(sum >> 8),
		byte(sum),
	})
}
