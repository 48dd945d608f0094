package main

import (
	"fmt"
	"net"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/iota-uz/hradmin/internal/mockapi"
)

func newMockServerCmd(opts *rootOptions) *cobra.Command {
	var port int
	var seed bool
	cmd := &cobra.Command{
		Use:   "mock-server",
		Short: "Serve an in-memory reference-data API for local development",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if port == 0 {
				port = opts.conf.MockAPI.Port
			}
			if port < 1 || port > 65535 {
				return withCode(exitUsage, fmt.Errorf("--port must be between 1 and 65535, got %d", port))
			}
			api := mockapi.New(mockapi.Options{
				MetricsPath:     opts.conf.Prometheus.Path,
				RequestIDHeader: opts.conf.API.RequestIDHeader,
				AllowedOrigins:  opts.conf.MockAPI.AllowedOrigins,
				Logger:          opts.conf.Logger(),
				Seed:            seed,
			})
			addr := net.JoinHostPort("", strconv.Itoa(port))
			fmt.Fprintf(opts.stderr, "mock API listening on http://localhost%s/api\n", addr)
			return api.Serve(cmd.Context(), addr)
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "Listen port (defaults to MOCK_API_PORT)")
	cmd.Flags().BoolVar(&seed, "seed", true, "Start with fixture rows")
	return cmd
}
