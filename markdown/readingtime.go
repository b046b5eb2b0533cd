package markdown

import (
	"math"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

const (
	cjkPerMinute   = 300
	wordsPerMinute = 200
)

var (
	reFencedCode  = regexp.MustCompile("(?ms)^[ \t]*(?:```|~~~).*?^[ \t]*(?:```|~~~)[ \t]*$")
	reInlineCode  = regexp.MustCompile("`[^`\n]*`")
	reLink        = regexp.MustCompile(`!?\[([^\]]*)\]\([^)]*\)`)
	reRule        = regexp.MustCompile(`(?m)^[ \t]*(?:[-*_][ \t]*){3,}$`)
	reListMarker  = regexp.MustCompile(`(?m)^[ \t]*(?:[-+*]|\d+\.)[ \t]+`)
	reFormatting  = regexp.MustCompile(`[#*_~>|\[\]]+`)
	reMarkupStart = regexp.MustCompile(`<[A-Za-z!/]`)
)

// Strip reduces a raw document to its prose: front matter, code, MDX
// module lines, markup and formatting punctuation are removed and link
// syntax is collapsed to the link text.
func Strip(src string) string {
	_, s, _ := SplitFrontMatter(src)
	s = reFencedCode.ReplaceAllString(s, " ")
	s = reInlineCode.ReplaceAllString(s, " ")
	s = reImportExport.ReplaceAllString(s, "")
	s = reLink.ReplaceAllString(s, "$1")
	s = stripMarkup(s)
	s = reRule.ReplaceAllString(s, " ")
	s = reListMarker.ReplaceAllString(s, "")
	s = reFormatting.ReplaceAllString(s, " ")
	return s
}

// stripMarkup keeps only the text nodes of any embedded HTML/JSX.
func stripMarkup(s string) string {
	if !reMarkupStart.MatchString(s) {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	doc.Find("script, style").Remove()
	var parts []string
	doc.Find("*").Contents().Each(func(_ int, sel *goquery.Selection) {
		if goquery.NodeName(sel) == "#text" {
			parts = append(parts, sel.Text())
		}
	})
	return strings.Join(parts, " ")
}

// Count returns the number of Han ideographs in text and the number of
// whitespace-delimited words in the rest. A token only counts as a word
// if it contains a letter or digit.
func Count(text string) (cjk, words int) {
	var rest strings.Builder
	rest.Grow(len(text))
	for _, r := range text {
		if unicode.Is(unicode.Han, r) {
			cjk++
			rest.WriteByte(' ')
			continue
		}
		rest.WriteRune(r)
	}
	for _, field := range strings.Fields(rest.String()) {
		if strings.IndexFunc(field, isWordRune) >= 0 {
			words++
		}
	}
	return cjk, words
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// ReadingTime estimates minutes needed to read body, never less than one.
func ReadingTime(body string) int {
	cjk, words := Count(Strip(body))
	minutes := int(math.Round(float64(cjk)/cjkPerMinute + float64(words)/wordsPerMinute))
	if minutes < 1 {
		return 1
	}
	return minutes
}
