package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/joeycatai/folio"
)

func newBuildCommand(ctx *commandContext) *cobra.Command {
	var opts folio.BuildOptions

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render the site into the output directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ctx.openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.Build(cmd.Context(), opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderReport(report, a.Config.Build.OutputDir))
			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.SkipOG, "no-og", false, "Skip Open Graph card rendering")
	cmd.Flags().BoolVar(&opts.NoCache, "no-cache", false, "Re-render every card instead of reusing stored ones")
	return cmd
}

func renderReport(r folio.BuildReport, out string) string {
	rows := [][]string{
		{"Output", out},
		{"Pages", strconv.Itoa(r.Pages)},
		{"OG cards", strconv.Itoa(r.Images)},
		{"  from cache", strconv.Itoa(r.Cached)},
		{"  placeholder", strconv.Itoa(r.Degraded)},
		{"Hero images", strconv.Itoa(r.Heroes)},
		{"Size", humanize.Bytes(uint64(r.Bytes))},
		{"Duration", r.Duration.Round(time.Millisecond).String()},
	}
	return renderTable([]string{"Build " + r.ID, ""}, rows, []columnAlignment{alignLeft, alignRight})
}
