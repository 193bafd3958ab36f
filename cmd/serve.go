package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/itsrayland/pwx/pkg/server"
	"github.com/itsrayland/pwx/pkg/signal"
	"github.com/itsrayland/pwx/pkg/style"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the workstation API over HTTP",
	Long: `Start the HTTP API. The server shuts down gracefully on SIGINT or
SIGTERM, finishing in-flight requests first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		w, cfg, err := newWorkstation()
		if err != nil {
			return err
		}
		addr := serveAddr
		if addr == "" {
			addr = cfg.ServerAddr
		}

		ctx, stop := signal.NotifyContext()
		defer stop()

		fmt.Printf("%s%s\n", style.Success("Listening"), addr)
		return server.New(w).Run(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config server_addr)")
	rootCmd.AddCommand(serveCmd)
}
