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

package cli

import (
	"fmt"

	"github.com/spf13/afero"
	"go.opentelemetry.io/otel/metric"

	"github.com/oysteinmyrmo/myrmo/internal/cache/diskcache"
	"github.com/oysteinmyrmo/myrmo/internal/cache/hashfunc"
	"github.com/oysteinmyrmo/myrmo/internal/cache/memcache"
	"github.com/oysteinmyrmo/myrmo/internal/cache/policy"
	"github.com/oysteinmyrmo/myrmo/internal/cachecfg"
)

// cacheHandle is the subset of diskcache.Store and memcache.Store every CLI
// command needs, regardless of which backend the configuration selects.
type cacheHandle interface {
	Read(uri string) ([]byte, error)
	Write(uri string, data []byte) error
	Remove(uri string) error
	Size() int64
	Count() int
}

func newPolicy(p cachecfg.Policy) (policy.Policy, error) {
	switch p {
	case cachecfg.PolicyLRU:
		return policy.NewLRU(), nil
	case cachecfg.PolicyFIFO:
		return policy.NewFIFO(), nil
	default:
		return nil, fmt.Errorf("unknown policy %q", p)
	}
}

func newHashFunc(h cachecfg.HashFunc) (hashfunc.HashFunc, error) {
	switch h {
	case cachecfg.HashSHA1:
		return hashfunc.SHA1, nil
	case cachecfg.HashCRC32:
		return hashfunc.CRC32, nil
	default:
		return nil, fmt.Errorf("unknown hash function %q", h)
	}
}

// openStore builds the cacheHandle described by cfg, backed by fs for a
// disk-backed cache (memory caches ignore fs).
func openStore(fs afero.Fs, cfg cachecfg.Config) (cacheHandle, error) {
	return openStoreWithMeter(fs, cfg, nil)
}

// openInstrumentedStore is openStore with its size/entry gauges registered
// against meter, for the serve-metrics command.
func openInstrumentedStore(fs afero.Fs, cfg cachecfg.Config, meter metric.Meter) (cacheHandle, error) {
	return openStoreWithMeter(fs, cfg, meter)
}

func openStoreWithMeter(fs afero.Fs, cfg cachecfg.Config, meter metric.Meter) (cacheHandle, error) {
	pol, err := newPolicy(cfg.Policy)
	if err != nil {
		return nil, err
	}

	hash, err := newHashFunc(cfg.Hash)
	if err != nil {
		return nil, err
	}

	maxSizeMiB := cfg.Size.Bytes / (1024 * 1024)
	if maxSizeMiB == 0 {
		maxSizeMiB = 1
	}

	switch cfg.Backend {
	case cachecfg.BackendDisk:
		if cfg.Dir == "" {
			return nil, fmt.Errorf("disk backend requires a dir")
		}

		opts := []diskcache.Option{diskcache.WithFS(fs)}
		if meter != nil {
			opts = append(opts, diskcache.WithMeter(meter))
		}

		store, err := diskcache.New(cfg.Dir, hash, pol, maxSizeMiB, opts...)
		if err != nil {
			return nil, fmt.Errorf("open disk cache: %w", err)
		}

		return store, nil
	case cachecfg.BackendMemory:
		opts := []memcache.Option{}
		if meter != nil {
			opts = append(opts, memcache.WithMeter(meter))
		}

		return memcache.New(hash, pol, maxSizeMiB, opts...), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

func loadConfig(configFile string) (cachecfg.Config, afero.Fs, error) {
	fs := afero.NewOsFs()

	cfg, err := cachecfg.Load(fs, configFile)
	if err != nil {
		return cachecfg.Config{}, nil, fmt.Errorf("load config %s: %w", configFile, err)
	}

	return cfg, fs, nil
}
