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
	"os"

	"github.com/spf13/cobra"
)

func readCmd(ctx context.Context, configFile *string) *cobra.Command {
	var toFile string

	cmd := &cobra.Command{
		Use:          "read <uri>",
		Short:        "Retrieve the payload stored under a URI.",
		Example:      "myrmo-cache read https://example.com/pkg.deb --file pkg.deb",
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

			data, err := store.Read(uri)
			if err != nil {
				return fmt.Errorf("read %s: %w", uri, err)
			}

			if toFile != "" {
				return os.WriteFile(toFile, data, 0o640)
			}

			_, err = cmd.OutOrStdout().Write(data)

			return err
		},
	}

	cmd.Flags().StringVar(&toFile, "file", "", "Write the payload to this file instead of stdout")

	return cmd
}
