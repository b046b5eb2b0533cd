package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var logLevel string

	ctx := newCommandContext(&configFlag, &logLevel)

	rootCmd := &cobra.Command{
		Use:           "folio",
		Short:         "Static blog and portfolio generator with Open Graph cards",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path (default folio.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(newBuildCommand(ctx))
	rootCmd.AddCommand(newServeCommand(ctx))
	rootCmd.AddCommand(newOGCommand(ctx))
	rootCmd.AddCommand(newPostCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newNewCommand())
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the folio version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "folio %s\n", version)
		},
	})

	return rootCmd
}
