package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/joeycatai/folio"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var addr string
	var watch bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Build the site and run the preview server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ctx.openApp()
			if err != nil {
				return err
			}
			defer a.Close()
			if strings.TrimSpace(addr) != "" {
				a.Config.Server.Addr = addr
			}

			// Cards are rendered on request.
			opts := folio.BuildOptions{SkipOG: true}
			if _, err := a.Build(cmd.Context(), opts); err != nil {
				return err
			}
			if watch {
				go func() {
					if err := a.Watch(cmd.Context(), opts); err != nil {
						a.Logger().Errorf("watch: %v", err)
					}
				}()
			}
			a.Logger().Infof("serving %s on %s", a.Config.Build.OutputDir, a.Config.Server.Addr)
			return a.Serve(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, :4321)")
	cmd.Flags().BoolVar(&watch, "watch", false, "Rebuild when content or public files change")
	return cmd
}
