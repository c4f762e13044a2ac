// Copyright (c) 2023-2026 Canonical Ltd
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

// Package pathutil resolves myrmo-cache's on-disk locations, honoring a
// snap confinement environment when present and falling back to the
// standard FHS-style paths otherwise.
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	defaultConfigDir = "/etc/myrmo"
	defaultCacheDir  = "/var/cache/myrmo"
	defaultRunDir    = "/run/myrmo"
)

// ConfigPath returns the myrmo-cache config path (snap or deb) with the
// given relative path appended.
func ConfigPath(path string) string {
	path = filepath.Clean(path)

	base := defaultConfigDir
	if common := os.Getenv("SNAP_COMMON"); common != "" {
		base = filepath.Join(filepath.Clean(common), defaultConfigDir)
	}

	return filepath.Join(base, path)
}

// ConfigDir returns the root myrmo-cache config directory (snap or deb).
func ConfigDir() string {
	return ConfigPath("")
}

// CachePath returns the myrmo-cache data path (snap or deb) with the given
// relative path appended.
func CachePath(path string) string {
	path = filepath.Clean(path)

	base := defaultCacheDir
	if common := os.Getenv("SNAP_COMMON"); common != "" {
		base = filepath.Join(filepath.Clean(common), defaultCacheDir)
	}

	return filepath.Join(base, path)
}

// CacheDir returns the root myrmo-cache directory (snap or deb).
func CacheDir() string {
	return CachePath("")
}

// RunDir returns the myrmo-cache runtime directory (snap or deb).
func RunDir() string {
	if name := os.Getenv("SNAP_INSTANCE_NAME"); name != "" {
		return fmt.Sprintf("/run/snap.%s", name)
	}

	return defaultRunDir
}
