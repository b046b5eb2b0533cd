package main

import (
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/spf13/cobra"
)

func newOGCommand(ctx *commandContext) *cobra.Command {
	var output string
	var svg bool

	cmd := &cobra.Command{
		Use:   "og <route>",
		Short: "Render one Open Graph card, failing instead of using the placeholder",
		Long: `Render the card for one route, such as "default", "blog/hello-world"
or "tags/go". Unlike a build, font or rendering errors are reported
instead of replaced with the placeholder image.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ctx.openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			site, err := a.Sites.Get(cmd.Context())
			if err != nil {
				return err
			}
			route, ok := site.Routes.Lookup(args[0])
			if !ok {
				return fmt.Errorf("unknown route %q", args[0])
			}

			ext := ".png"
			if svg {
				ext = ".svg"
			}
			if output == "" {
				output = path.Base(route.Path) + ext
			}

			var data []byte
			if svg {
				data, err = a.Generator.SVG(cmd.Context(), route.Request)
			} else {
				data, err = a.Generator.Render(cmd.Context(), route.Request)
			}
			if err != nil {
				return fmt.Errorf("render %s: %w", route.Path, err)
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s card %q written to %s\n", route.Kind, strings.TrimSpace(route.Request.Title), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default <route>.png)")
	cmd.Flags().BoolVar(&svg, "svg", false, "Write the vector scene as SVG instead of PNG")
	return cmd
}
