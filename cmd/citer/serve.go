package main

import (
	"github.com/mohammad-safakhou/citer/internal/runtime"
	srv "github.com/mohammad-safakhou/citer/internal/server"
	"github.com/spf13/cobra"
)

func serveCMD(cfgPath *string) *cobra.Command {
	var serveAddr string
	var serve = &cobra.Command{
		Use:   "serve",
		Short: "Run HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), *cfgPath)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := runtime.SignalContext(cmd.Context(), a.logger)
			defer cancel()
			return srv.Run(ctx, serveAddr, srv.Deps{
				Config:  a.cfg,
				Fetcher: a.fetcher,
				Index:   a.index,
				Logger:  a.logger,
			})
		},
	}
	serve.Flags().StringVar(&serveAddr, "addr", "", "listen address (default server.address)")
	return serve
}
