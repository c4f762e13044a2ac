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
)

func removeCmd(ctx context.Context, configFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "remove <uri>",
		Short:        "Evict the entry stored under a URI.",
		Example:      "myrmo-cache remove https://example.com/pkg.deb",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			uri := args[0]

			cfg, fs, err := loadConfig(*configFile)
			if err != nil {
				return err
			}

			store, err := openStore(fs, cfg)
			if err != nil {
				return err
			}

			if err := store.Remove(uri); err != nil {
				return fmt.Errorf("remove %s: %w", uri, err)
			}

			log.Info().Str("uri", uri).Msg("removed cache entry")

			return nil
		},
	}

	return cmd
}
