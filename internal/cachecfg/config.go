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

// Package cachecfg loads the YAML configuration that selects a cache's
// backend, eviction policy, hash function, and byte budget.
package cachecfg

import (
	"fmt"
	"math"
	"strings"

	humanize "github.com/dustin/go-humanize"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/oysteinmyrmo/myrmo/internal/atomicfile"
)

// Backend selects which Store implementation a cache instance uses.
type Backend string

const (
	BackendDisk   Backend = "disk"
	BackendMemory Backend = "memory"
)

// Policy selects which eviction policy.Policy a cache instance uses.
type Policy string

const (
	PolicyLRU  Policy = "lru"
	PolicyFIFO Policy = "fifo"
)

// HashFunc selects which hashfunc.HashFunc a cache instance uses.
type HashFunc string

const (
	HashSHA1  HashFunc = "sha1"
	HashCRC32 HashFunc = "crc32"
)

// LogLevel names a zerolog severity. It is stored in the config file only;
// the myrmo-cache command takes its log level from the LOG_LEVEL
// environment variable and does not read this setting.
type LogLevel string

const (
	DebugLevel LogLevel = "debug"
	InfoLevel  LogLevel = "info"
	WarnLevel  LogLevel = "warn"
	ErrorLevel LogLevel = "error"
)

// Integeric bounds the numeric kinds ByteSize may wrap.
type Integeric interface {
	~uint16 | ~int64 | ~uint64
}

// ByteSize is a size in bytes with human-readable YAML parsing, e.g. "64MB"
// or "1GiB" in config, Bytes as an integer in code. It is written back to
// YAML as its exact byte count so that a round trip never loses precision.
type ByteSize[T Integeric] struct {
	Bytes T
	Raw   string
}

// String formats the size as a human-readable string with no spaces, e.g.
// "64MB".
func (x ByteSize[T]) String() string {
	return strings.ReplaceAll(humanize.Bytes(uint64(x.Bytes)), " ", "")
}

// MarshalYAML renders the size as its exact byte count, e.g. "67108864",
// which UnmarshalYAML parses back to the same value.
func (x ByteSize[T]) MarshalYAML() (any, error) {
	return fmt.Sprintf("%d", x.Bytes), nil
}

// UnmarshalYAML parses a human-readable byte size string such as "64MB" or
// "1GiB".
func (x *ByteSize[T]) UnmarshalYAML(value *yaml.Node) error {
	x.Raw = value.Value

	parsed, err := humanize.ParseBytes(value.Value)
	if err != nil {
		return fmt.Errorf("parse byte size %q: %w", value.Value, err)
	}

	switch any(x.Bytes).(type) {
	case uint16:
		if parsed > math.MaxUint16 {
			return fmt.Errorf("value %d exceeds uint16 capacity", parsed)
		}
	case int64:
		if parsed > math.MaxInt64 {
			return fmt.Errorf("value %d exceeds int64 capacity", parsed)
		}
	}

	x.Bytes = T(parsed)

	return nil
}

// Config is the on-disk shape of a single cache instance's configuration.
type Config struct {
	Backend Backend  `yaml:"backend"`
	Policy  Policy   `yaml:"policy"`
	Hash    HashFunc `yaml:"hash"`

	// Dir is only meaningful for Backend == BackendDisk.
	Dir string `yaml:"dir"`

	Size ByteSize[int64] `yaml:"size"`

	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig holds the configuration for cache logging.
type LoggingConfig struct {
	Level LogLevel `yaml:"level"`
}

// MetricsConfig enables or disables OpenTelemetry metrics collection.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

// Default returns a ready-to-use configuration: a 64MiB LRU disk cache at
// dir, SHA-1 fingerprints, info logging, metrics disabled.
func Default(dir string) Config {
	return Config{
		Backend: BackendDisk,
		Policy:  PolicyLRU,
		Hash:    HashSHA1,
		Dir:     dir,
		Size:    ByteSize[int64]{Bytes: 64 * 1024 * 1024, Raw: "64MB"},
		Logging: LoggingConfig{Level: InfoLevel},
		Metrics: MetricsConfig{Enabled: false, Listen: "127.0.0.1:9090"},
	}
}

// Generate renders cfg to YAML and writes it atomically to file.
func Generate(fs afero.Fs, file string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("render config: %w", err)
	}

	if err := atomicfile.WriteFileWithFs(fs, file, data, 0o640); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Load reads and parses the configuration at file.
func Load(fs afero.Fs, file string) (Config, error) {
	data, err := afero.ReadFile(fs, file)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}
