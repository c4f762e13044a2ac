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

	"github.com/spf13/cobra"
)

func statsCmd(ctx context.Context, configFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "stats",
		Short:        "Print the current entry count and byte size.",
		Example:      "myrmo-cache stats",
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

			fmt.Fprintf(cmd.OutOrStdout(), "entries: %d\nbytes: %d\nbackend: %s\npolicy: %s\n",
				store.Count(), store.Size(), cfg.Backend, cfg.Policy)

			return nil
		},
	}

	return cmd
}
