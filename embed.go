package folio

import "embed"

// EmbeddedAssets contains static assets shipped with folio and copied into
// every build: style.css and favicon.svg. Files in the public directory
// with the same name replace them.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
