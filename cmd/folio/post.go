package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/spf13/cobra"

	"github.com/joeycatai/folio"
	"github.com/joeycatai/folio/content"
)

var postTemplate = template.Must(template.New("post").Parse(`---
title: {{printf "%q" .Title}}
description: {{printf "%q" .Title}}
pubDate: {{.Date}}
tags: [{{range $i, $t := .Tags}}{{if $i}}, {{end}}{{printf "%q" $t}}{{end}}]
draft: true
---

`))

func newPostCommand(ctx *commandContext) *cobra.Command {
	var tags []string
	var slug string

	cmd := &cobra.Command{
		Use:   "post <title>",
		Short: "Create a draft article",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			title := strings.Join(args, " ")
			if slug == "" {
				slug = folio.Slugify(title)
			}
			if slug == "" {
				return fmt.Errorf("cannot derive a slug from %q; pass --slug", title)
			}

			name := filepath.Join(cfg.Build.ContentDir, content.BlogDir, slug+".md")
			if _, err := os.Stat(name); err == nil {
				return fmt.Errorf("%s already exists", name)
			} else if !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
				return err
			}
			f, err := os.Create(name)
			if err != nil {
				return err
			}
			defer f.Close()

			data := struct {
				Title string
				Date  string
				Tags  []string
			}{title, time.Now().Format("2006-01-02"), tags}
			if err := postTemplate.Execute(f, data); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", name)
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&tags, "tags", "t", nil, "Comma-separated tags")
	cmd.Flags().StringVar(&slug, "slug", "", "Slug (default derived from the title)")
	return cmd
}
