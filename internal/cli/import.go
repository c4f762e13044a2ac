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
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// importEntry is one "<uri>\t<file>" line from a batch-import manifest.
type importEntry struct {
	uri  string
	file string
}

// importCmd bulk-loads a manifest of uri/file pairs into one or more
// independently-directoried shard caches, each described by its own config
// file, in parallel.
func importCmd(ctx context.Context, configFile *string) *cobra.Command {
	var (
		manifest   string
		shardFiles []string
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "import <manifest>",
		Short: "Bulk-load a manifest of uri/file pairs, sharded across one or more caches.",
		Example: "myrmo-cache import manifest.txt " +
			"--shard-config shard-a.yaml --shard-config shard-b.yaml",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			manifest = args[0]

			entries, err := parseManifest(manifest)
			if err != nil {
				return err
			}

			shards := shardFiles
			if len(shards) == 0 {
				shards = []string{*configFile}
			}

			jobID := uuid.New().String()

			log.Info().
				Str("job_id", jobID).
				Int("entries", len(entries)).
				Int("shards", len(shards)).
				Msg("starting batch import")

			return runImport(ctx, jobID, shards, entries, limit)
		},
	}

	cmd.Flags().StringArrayVar(&shardFiles, "shard-config", nil,
		"Config file for a cache shard; repeat for multiple shards (round-robin assignment)")
	cmd.Flags().IntVar(&limit, "concurrency", 4, "Maximum concurrent payload reads per shard (writes to a shard are serialized)")

	return cmd
}

func parseManifest(path string) ([]importEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only descriptor, nothing to recover

	var entries []importEntry

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.SplitN(line, "\t", 2)
		if len(fields) != 2 {
			return nil, fmt.Errorf("malformed manifest line %q: want \"<uri>\\t<file>\"", line)
		}

		entries = append(entries, importEntry{uri: fields[0], file: fields[1]})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	return entries, nil
}

// runImport assigns entries to shards round-robin and imports the shards
// concurrently; within a shard, at most limit payloads are read at once and
// writes are serialized.
func runImport(ctx context.Context, jobID string, shardConfigs []string, entries []importEntry, limit int) error {
	perShard := make([][]importEntry, len(shardConfigs))
	for i, e := range entries {
		shard := i % len(shardConfigs)
		perShard[shard] = append(perShard[shard], e)
	}

	g, gctx := errgroup.WithContext(ctx)

	for shard, shardEntries := range perShard {
		shard, shardEntries := shard, shardEntries

		g.Go(func() error {
			return importShard(gctx, jobID, shardConfigs[shard], shardEntries, limit)
		})
	}

	return g.Wait()
}

func importShard(ctx context.Context, jobID, configFile string, entries []importEntry, limit int) error {
	cfg, fs, err := loadConfig(configFile)
	if err != nil {
		return err
	}

	store, err := openStore(fs, cfg)
	if err != nil {
		return err
	}

	// Reads fan out across limit goroutines, but the store itself is not
	// safe for concurrent mutation, so the Write call for each entry is
	// serialized through writeMu.
	var writeMu sync.Mutex

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for _, e := range entries {
		e := e

		g.Go(func() error {
			data, err := os.ReadFile(e.file)
			if err != nil {
				return fmt.Errorf("read %s: %w", e.file, err)
			}

			writeMu.Lock()
			err = store.Write(e.uri, data)
			writeMu.Unlock()

			if err != nil {
				return fmt.Errorf("write %s: %w", e.uri, err)
			}

			log.Debug().
				Str("job_id", jobID).
				Str("shard_config", configFile).
				Str("uri", e.uri).
				Msg("imported entry")

			return nil
		})
	}

	return g.Wait()
}
