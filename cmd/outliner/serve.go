package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/tsawler/outliner/server"
)

func newServeCmd(a *app) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:     "serve",
		Short:   "Serve outline extraction over HTTP",
		Example: "  outliner serve --listen :8080\n  curl --data-binary @report.pdf localhost:8080/v1/outline",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			if cmd.Flags().Changed("listen") {
				cfg.Server.Listen = listen
			}

			srvCfg := server.Config{
				MaxUploadBytes: cfg.Server.MaxUploadBytes,
				MaxItems:       cfg.Core.MaxItems,
				MaxPages:       cfg.Core.MaxPages,
				Heading:        cfg.Core.Heading(),
				Version:        FullVersion,
				Logger:         slog.Default(),
			}
			if cfg.Cache.Enabled {
				c, err := a.openCache(cmd.Context())
				if err != nil {
					return err
				}
				defer c.Close()
				srvCfg.Cache = c
			}

			return server.New(srvCfg).ListenAndServe(cmd.Context(), cfg.Server.Listen,
				cfg.Server.ReadTimeout, cfg.Server.WriteTimeout)
		},
	}

	cmd.Flags().StringVarP(&listen, "listen", "l", ":8080", "Address to listen on")
	return cmd
}
