package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent builds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ctx.openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			builds, err := a.Store.ListBuilds(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(builds) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No builds recorded.")
				return nil
			}
			rows := make([][]string, 0, len(builds))
			for _, b := range builds {
				rows = append(rows, []string{
					shortID(b.ID),
					humanize.Time(b.StartedAt),
					strconv.Itoa(b.Pages),
					fmt.Sprintf("%d/%d/%d", b.Images, b.Cached, b.Degraded),
					humanize.Bytes(uint64(b.Bytes)),
					b.Duration.Round(time.Millisecond).String(),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Started", "Pages", "Cards (all/cached/placeholder)", "Size", "Duration"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of builds to show")
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
