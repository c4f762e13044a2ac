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
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

const metricsReadHeaderTimeout = 5 * time.Second

// serveMetricsCmd opens the configured cache, registers its size/entry
// gauges with an OpenTelemetry meter bridged to Prometheus, and serves
// /metrics until interrupted.
func serveMetricsCmd(ctx context.Context, configFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "serve-metrics",
		Short:        "Serve Prometheus metrics for the configured cache.",
		Example:      "myrmo-cache serve-metrics",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, fs, err := loadConfig(*configFile)
			if err != nil {
				return err
			}

			if !cfg.Metrics.Enabled {
				return fmt.Errorf("metrics.enabled is false in %s", *configFile)
			}

			exporter, err := prometheus.New()
			if err != nil {
				return fmt.Errorf("create prometheus exporter: %w", err)
			}

			meterProvider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
			meter := meterProvider.Meter("myrmo-cache")

			if _, err := openInstrumentedStore(fs, cfg, meter); err != nil {
				return err
			}

			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())

			log.Info().Str("listen", cfg.Metrics.Listen).Msg("serving cache metrics")

			server := &http.Server{
				Addr:              cfg.Metrics.Listen,
				Handler:           mux,
				ReadHeaderTimeout: metricsReadHeaderTimeout,
				BaseContext:       func(_ net.Listener) context.Context { return ctx },
			}

			return server.ListenAndServe()
		},
	}

	return cmd
}
