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
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func writeCmd(ctx context.Context, configFile *string) *cobra.Command {
	var fromFile string

	cmd := &cobra.Command{
		Use:          "write <uri>",
		Short:        "Store a payload under a URI, reading from --file or stdin.",
		Example:      "myrmo-cache write https://example.com/pkg.deb --file pkg.deb",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			uri := args[0]

			var (
				data []byte
				err  error
			)

			if fromFile != "" {
				data, err = os.ReadFile(fromFile)
			} else {
				data, err = io.ReadAll(cmd.InOrStdin())
			}

			if err != nil {
				return fmt.Errorf("read payload: %w", err)
			}

			cfg, fs, err := loadConfig(*configFile)
			if err != nil {
				return err
			}

			store, err := openStore(fs, cfg)
			if err != nil {
				return err
			}

			if err := store.Write(uri, data); err != nil {
				return fmt.Errorf("write %s: %w", uri, err)
			}

			log.Info().Str("uri", uri).Int("bytes", len(data)).Msg("wrote cache entry")

			return nil
		},
	}

	cmd.Flags().StringVar(&fromFile, "file", "", "Read the payload from this file instead of stdin")

	return cmd
}
