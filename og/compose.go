package og

import (
	"image/color"
	"unicode/utf8"

	"github.com/joeycatai/folio/og/layout"
)

const (
	maxTags             = 5
	descriptionLimit    = 75
	titleMaxWidth       = 1040
	descriptionMaxWidth = 900
)

var (
	colorBackground  = rgb(0x0f172a)
	colorAccentFrom  = rgb(0x1d4ed8)
	colorAccent      = rgb(0x60a5fa)
	colorTitle       = rgb(0xf1f5f9)
	colorDescription = rgb(0x94a3b8)
	colorChipText    = rgb(0x93c5fd)
	colorChipFill    = color.NRGBA{37, 99, 235, 64}  // rgba(37,99,235,0.25)
	colorChipBorder  = color.NRGBA{96, 165, 250, 89} // rgba(96,165,250,0.35)
)

func rgb(v uint32) color.NRGBA {
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}

// TitleFontSize picks the title size from its length in characters.
func TitleFontSize(title string) float64 {
	switch n := utf8.RuneCountInString(title); {
	case n > 35:
		return 48
	case n > 20:
		return 60
	default:
		return 72
	}
}

// TruncateDescription cuts s to 75 characters and appends an ellipsis.
// Shorter strings are returned unchanged.
func TruncateDescription(s string) string {
	if utf8.RuneCountInString(s) <= descriptionLimit {
		return s
	}
	return string([]rune(s)[:descriptionLimit]) + "…"
}

// Compose builds the card's layout tree.
func Compose(req Request, siteName string) *layout.Node {
	middle := []*layout.Node{
		layout.Text("title", layout.Style{
			FontSize:   TitleFontSize(req.Title),
			FontWeight: 700,
			Color:      colorTitle,
			LineHeight: 1.3,
			MaxWidth:   titleMaxWidth,
		}, req.Title),
	}
	if req.Description != "" {
		middle = append(middle, layout.Text("description", layout.Style{
			FontSize:   26,
			Color:      colorDescription,
			LineHeight: 1.5,
			MaxWidth:   descriptionMaxWidth,
		}, TruncateDescription(req.Description)))
	}

	tags := req.Tags
	if len(tags) > maxTags {
		tags = tags[:maxTags]
	}
	chips := make([]*layout.Node, 0, len(tags))
	for _, t := range tags {
		chips = append(chips, layout.Text("tag", layout.Style{
			Background:   colorChipFill,
			Color:        colorChipText,
			Padding:      layout.Symmetric(6, 18),
			BorderRadius: 999,
			BorderWidth:  1,
			BorderColor:  colorChipBorder,
			FontSize:     19,
			FontWeight:   500,
		}, "#"+t))
	}

	return layout.Box("card", layout.Style{
		Width:      Width,
		Height:     Height,
		Padding:    layout.Uniform(64),
		Direction:  layout.Column,
		Justify:    layout.JustifySpaceBetween,
		Background: colorBackground,
	},
		layout.Box("accent", layout.Style{
			Absolute: true,
			Height:   4,
			Gradient: &layout.Gradient{From: colorAccentFrom, To: colorAccent},
		}),
		layout.Box("header", layout.Style{Direction: layout.Row, Align: layout.AlignCenter},
			layout.Text("site", layout.Style{
				FontSize:      20,
				FontWeight:    600,
				Color:         colorAccent,
				LetterSpacing: 0.03,
			}, siteName),
		),
		layout.Box("body", layout.Style{
			Direction: layout.Column,
			Justify:   layout.JustifyCenter,
			Gap:       20,
			Grow:      1,
		}, middle...),
		layout.Box("tags", layout.Style{Direction: layout.Row, Wrap: true, Gap: 12}, chips...),
	)
}
