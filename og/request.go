// Package og renders Open Graph cards: a 1200x630 PNG summarizing a page
// with its title, description and tags.
package og

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Card dimensions in pixels.
const (
	Width  = 1200
	Height = 630
)

// Revision changes whenever the card design changes, which invalidates
// persisted renders.
const Revision = "1"

// baseline is always included in the font subset so punctuation and
// plain ASCII render even when the page text lacks them.
const baseline = " ·#.,!?-()…ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Request is the text content of one card.
type Request struct {
	Title       string
	Description string
	Tags        []string
}

// Charset returns the runes needed to draw req under siteName. The
// result is sorted and de-duplicated, so font cache keys do not depend
// on the order characters appear in.
func Charset(req Request, siteName string) string {
	seen := make(map[rune]bool)
	var runes []rune
	add := func(s string) {
		for _, r := range s {
			if !seen[r] {
				seen[r] = true
				runes = append(runes, r)
			}
		}
	}
	add(req.Title)
	add(req.Description)
	add(strings.Join(req.Tags, ""))
	add(siteName)
	add(baseline)
	sort.Slice(runes, func(i, j int) bool { return runes[i] < runes[j] })
	return string(runes)
}

// Key identifies the rendered bytes of req: same key, same PNG.
func Key(req Request, siteName, family string) string {
	h := sha256.New()
	for _, s := range []string{Revision, family, siteName, req.Title, req.Description} {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}
	for _, t := range req.Tags {
		h.Write([]byte(t))
		h.Write([]byte{1})
	}
	return hex.EncodeToString(h.Sum(nil))
}
