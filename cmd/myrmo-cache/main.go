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

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/oysteinmyrmo/myrmo/internal/cli"
)

// setupLogger configures the global zerolog logger from the LOG_LEVEL
// environment variable, defaulting to info.
func setupLogger() {
	consoleWriter := zerolog.ConsoleWriter{Out: os.Stderr}
	log.Logger = zerolog.New(consoleWriter).With().Timestamp().Logger()

	level := zerolog.InfoLevel

	if raw, ok := os.LookupEnv("LOG_LEVEL"); ok {
		parsed, err := zerolog.ParseLevel(raw)
		if err != nil {
			log.Warn().Str("LOG_LEVEL", raw).Msg("unknown log level, defaulting to info")
		} else {
			level = parsed
		}
	}

	zerolog.SetGlobalLevel(level)
}

func main() {
	setupLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 2)
	signal.Notify(sigs, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		<-sigs
		cancel()
	}()

	if err := cli.RootCmd(ctx).ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("myrmo-cache failed")
		os.Exit(1)
	}
}
