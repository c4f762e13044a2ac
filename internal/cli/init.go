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
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/oysteinmyrmo/myrmo/internal/cachecfg"
	"github.com/oysteinmyrmo/myrmo/internal/pathutil"
)

func initCmd(ctx context.Context, configFile *string) *cobra.Command {
	var (
		dir     string
		size    string
		backend string
		policy  string
		hash    string
	)

	cmd := &cobra.Command{
		Use:          "init",
		Short:        "Generate a new cache configuration file.",
		Example:      "myrmo-cache init --dir /var/cache/myrmo --size 64MB",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := cachecfg.Default(dir)
			cfg.Backend = cachecfg.Backend(backend)
			cfg.Policy = cachecfg.Policy(policy)
			cfg.Hash = cachecfg.HashFunc(hash)

			bs := cachecfg.ByteSize[int64]{}
			if err := bs.UnmarshalYAML(&yaml.Node{Value: size}); err != nil {
				return fmt.Errorf("parse --size: %w", err)
			}

			cfg.Size = bs

			if err := cachecfg.Generate(afero.NewOsFs(), *configFile, cfg); err != nil {
				return fmt.Errorf("generate config: %w", err)
			}

			log.Info().Str("file", *configFile).Msg("wrote cache configuration")

			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", pathutil.CacheDir(), "Cache directory (disk backend only)")
	cmd.Flags().StringVar(&size, "size", "64MB", "Cache byte budget, human-readable (e.g. 64MB, 1GiB)")
	cmd.Flags().StringVar(&backend, "backend", string(cachecfg.BackendDisk), "Cache backend: disk or memory")
	cmd.Flags().StringVar(&policy, "policy", string(cachecfg.PolicyLRU), "Eviction policy: lru or fifo")
	cmd.Flags().StringVar(&hash, "hash", string(cachecfg.HashSHA1), "Hash function: sha1 or crc32")

	return cmd
}
