package main

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/spf13/cobra"

	"github.com/joeycatai/folio/scaffold"
)

// scaffoldData holds the template variables passed to every scaffold template.
type scaffoldData struct {
	ProjectName string
	SiteName    string
	Date        string
}

// dotfiles are scaffold files renamed on output, since embed skips
// names starting with a dot unless told otherwise.
var dotfiles = map[string]string{
	"gitignore": ".gitignore",
	"gitkeep":   ".gitkeep",
}

func newNewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "new <name>",
		Short: "Create a new folio site",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNew(args[0], cmd.OutOrStdout())
		},
	}
}

func runNew(name string, out io.Writer) error {
	dirName := filepath.Base(filepath.Clean(name))
	target := filepath.Clean(name)

	if _, err := os.Stat(target); err == nil {
		return fmt.Errorf("directory %q already exists", target)
	}

	data := scaffoldData{
		ProjectName: dirName,
		SiteName:    toTitle(dirName),
		Date:        time.Now().Format("2006-01-02"),
	}

	fmt.Fprintf(out, "Creating new folio site: %s\n\n", target)

	root := "templates"
	err := fs.WalkDir(scaffold.Templates, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		outPath := strings.TrimSuffix(filepath.Join(target, relPath), ".tmpl")
		if dot, ok := dotfiles[filepath.Base(outPath)]; ok {
			outPath = filepath.Join(filepath.Dir(outPath), dot)
		}

		if d.IsDir() {
			return os.MkdirAll(outPath, 0o755)
		}

		content, err := scaffold.Templates.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		tmpl, err := template.New(filepath.Base(path)).Parse(string(content))
		if err != nil {
			return fmt.Errorf("parse template %s: %w", path, err)
		}
		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			return err
		}

		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create %s: %w", outPath, err)
		}
		defer f.Close()

		if err := tmpl.Execute(f, data); err != nil {
			return fmt.Errorf("execute template %s: %w", path, err)
		}

		fmt.Fprintf(out, "  created %s\n", outPath)
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Done! Next steps:")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  cd %s\n", target)
	fmt.Fprintln(out, "  folio serve --watch")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Edit folio.toml for the site name and URL, and content/ for posts and projects.")
	return nil
}

// toTitle converts a hyphenated or lowercase name to a title-case string.
// e.g. "my-blog" -> "My Blog", "myblog" -> "Myblog"
func toTitle(s string) string {
	parts := strings.Split(s, "-")
	for i, p := range parts {
		if len(p) > 0 {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}
