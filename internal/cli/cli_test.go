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

package cli_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oysteinmyrmo/myrmo/internal/cli"
)

// run executes the myrmo-cache command tree with args and returns stdout.
func run(t *testing.T, configFile string, args ...string) (string, error) {
	t.Helper()

	cmd := cli.RootCmd(context.Background())

	var stdout bytes.Buffer

	cmd.SetOut(&stdout)
	cmd.SetArgs(append([]string{"--config", configFile}, args...))

	err := cmd.ExecuteContext(context.Background())

	return stdout.String(), err
}

func TestCLI_InitWriteReadRemoveStats(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	cacheDir := filepath.Join(dir, "cache")

	_, err := run(t, configFile, "init", "--dir", cacheDir, "--size", "1MB")
	require.NoError(t, err)

	payloadFile := filepath.Join(dir, "payload.bin")
	require.NoError(t, os.WriteFile(payloadFile, []byte("hello, myrmo"), 0o640))

	_, err = run(t, configFile, "write", "https://example.com/a", "--file", payloadFile)
	require.NoError(t, err)

	out, err := run(t, configFile, "read", "https://example.com/a")
	require.NoError(t, err)
	assert.Equal(t, "hello, myrmo", out)

	out, err = run(t, configFile, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "entries: 1")

	_, err = run(t, configFile, "remove", "https://example.com/a")
	require.NoError(t, err)

	_, err = run(t, configFile, "read", "https://example.com/a")
	assert.Error(t, err)
}

func TestCLI_Clear(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	cacheDir := filepath.Join(dir, "cache")

	_, err := run(t, configFile, "init", "--dir", cacheDir, "--size", "1MB")
	require.NoError(t, err)

	payloadFile := filepath.Join(dir, "payload.bin")
	require.NoError(t, os.WriteFile(payloadFile, []byte("x"), 0o640))

	_, err = run(t, configFile, "write", "https://example.com/a", "--file", payloadFile)
	require.NoError(t, err)

	_, err = run(t, configFile, "clear")
	require.NoError(t, err)

	out, err := run(t, configFile, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "entries: 0")
}
