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

// Package cli assembles the myrmo-cache command tree.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/oysteinmyrmo/myrmo/internal/pathutil"
)

// RootCmd builds the myrmo-cache command tree.
func RootCmd(ctx context.Context) *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "myrmo-cache",
		Short: "myrmo-cache - a content-addressed cache engine.",
		// Silence because we want to use our logger instead.
		SilenceErrors:     true,
		SilenceUsage:      true,
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVarP(&configFile, "config", "c",
		pathutil.ConfigPath("config.yaml"), "Path to the cache configuration file")
	cmd.PersistentFlags().BoolP("help", "h", false, "Help information about a command")

	cmd.AddCommand(initCmd(ctx, &configFile))
	cmd.AddCommand(writeCmd(ctx, &configFile))
	cmd.AddCommand(readCmd(ctx, &configFile))
	cmd.AddCommand(removeCmd(ctx, &configFile))
	cmd.AddCommand(clearCmd(ctx, &configFile))
	cmd.AddCommand(statsCmd(ctx, &configFile))
	cmd.AddCommand(importCmd(ctx, &configFile))
	cmd.AddCommand(serveMetricsCmd(ctx, &configFile))

	cmd.InitDefaultHelpCmd()

	return cmd
}
