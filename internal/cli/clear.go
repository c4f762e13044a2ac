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
	"github.com/spf13/cobra"

	"github.com/oysteinmyrmo/myrmo/internal/cache/diskcache"
	"github.com/oysteinmyrmo/myrmo/internal/cache/memcache"
)

func clearCmd(ctx context.Context, configFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "clear",
		Short:        "Remove every entry from the cache.",
		Example:      "myrmo-cache clear",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, fs, err := loadConfig(*configFile)
			if err != nil {
				return err
			}

			store, err := openStore(fs, cfg)
			if err != nil {
				return err
			}

			switch s := store.(type) {
			case *diskcache.Store:
				if err := s.Clear(); err != nil {
					return fmt.Errorf("clear cache: %w", err)
				}
			case *memcache.Store:
				s.Clear()
			default:
				return fmt.Errorf("clear: unsupported store type %T", store)
			}

			log.Info().Msg("cleared cache")

			return nil
		},
	}

	return cmd
}
