package content

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// ErrInvalidDocument marks a document that failed schema validation.
var ErrInvalidDocument = errors.New("invalid document")

const (
	maxTitleLen       = 100
	maxDescriptionLen = 300
)

// Issue is one schema violation in a document.
type Issue struct {
	Field   string
	Message string
}

// ValidationError lists every schema violation found in one source file.
type ValidationError struct {
	Collection string
	Source     string
	Issues     []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, is := range e.Issues {
		if is.Field == "" {
			parts[i] = is.Message
		} else {
			parts[i] = is.Field + ": " + is.Message
		}
	}
	return fmt.Sprintf("%s %s: %s", e.Collection, e.Source, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidDocument }

// Date is a front matter date that accepts the same loose formats a coercing
// schema would: a bare date, RFC 3339, or date with time.
type Date struct {
	time.Time
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
}

// ParseDate parses s with the first matching layout. Dates without a zone are UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

func (d *Date) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: date must be a scalar", value.Line)
	}
	t, err := ParseDate(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	d.Time = t
	return nil
}

type articleFrontMatter struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	PubDate     *Date    `yaml:"pubDate"`
	UpdatedDate *Date    `yaml:"updatedDate"`
	HeroImage   string   `yaml:"heroImage"`
	Tags        []string `yaml:"tags"`
	Draft       bool     `yaml:"draft"`
	Lang        string   `yaml:"lang"`
	Slug        string   `yaml:"slug"`
}

type projectFrontMatter struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	PubDate     *Date    `yaml:"pubDate"`
	HeroImage   string   `yaml:"heroImage"`
	Tags        []string `yaml:"tags"`
	GitHub      string   `yaml:"github"`
	Demo        string   `yaml:"demo"`
	Featured    bool     `yaml:"featured"`
	Status      string   `yaml:"status"`
	Slug        string   `yaml:"slug"`
}

type pageFrontMatter struct {
	Title string `yaml:"title"`
}

// decodeFrontMatter strictly decodes front into v; unknown keys are errors.
func decodeFrontMatter(front string, v interface{}) error {
	dec := yaml.NewDecoder(strings.NewReader(front))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (fm *articleFrontMatter) validate() []Issue {
	var issues []Issue
	issues = append(issues, checkText("title", fm.Title, maxTitleLen)...)
	issues = append(issues, checkText("description", fm.Description, maxDescriptionLen)...)
	if fm.PubDate == nil {
		issues = append(issues, Issue{"pubDate", "required"})
	}
	issues = append(issues, checkTags(fm.Tags)...)
	switch Language(fm.Lang) {
	case "", LangZhTW, LangEn:
	default:
		issues = append(issues, Issue{"lang", fmt.Sprintf("must be one of %q, %q", LangZhTW, LangEn)})
	}
	return issues
}

func (fm *projectFrontMatter) validate() []Issue {
	var issues []Issue
	issues = append(issues, checkText("title", fm.Title, maxTitleLen)...)
	issues = append(issues, checkText("description", fm.Description, maxDescriptionLen)...)
	if fm.PubDate == nil {
		issues = append(issues, Issue{"pubDate", "required"})
	}
	issues = append(issues, checkTags(fm.Tags)...)
	issues = append(issues, checkURL("github", fm.GitHub)...)
	issues = append(issues, checkURL("demo", fm.Demo)...)
	switch Status(fm.Status) {
	case "", StatusActive, StatusCompleted, StatusArchived:
	default:
		issues = append(issues, Issue{"status", fmt.Sprintf("must be one of %q, %q, %q", StatusActive, StatusCompleted, StatusArchived)})
	}
	return issues
}

func checkText(field, s string, max int) []Issue {
	n := utf8.RuneCountInString(s)
	if n == 0 {
		return []Issue{{field, "required"}}
	}
	if n > max {
		return []Issue{{field, fmt.Sprintf("must be at most %d characters, got %d", max, n)}}
	}
	return nil
}

func checkTags(tags []string) []Issue {
	var issues []Issue
	for i, t := range tags {
		field := fmt.Sprintf("tags[%d]", i)
		switch t := strings.TrimSpace(t); {
		case t == "":
			issues = append(issues, Issue{field, "must not be empty"})
		case strings.ContainsAny(t, `/\`) || strings.Contains(t, ".."):
			issues = append(issues, Issue{field, fmt.Sprintf("%q must not contain '/', '\\' or '..'", t)})
		}
	}
	return issues
}

// checkSlug rejects slugs that would leave their collection directory
// once joined into an output path.
func checkSlug(slug string) []Issue {
	if slug == "" {
		return []Issue{{"slug", "must not be empty"}}
	}
	if strings.Contains(slug, `\`) {
		return []Issue{{"slug", fmt.Sprintf("%q must not contain '\\'", slug)}}
	}
	for _, seg := range strings.Split(slug, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return []Issue{{"slug", fmt.Sprintf("%q is not a valid path", slug)}}
		}
	}
	return nil
}

func checkURL(field, raw string) []Issue {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return []Issue{{field, fmt.Sprintf("invalid url %q", raw)}}
	}
	return nil
}

func (fm *articleFrontMatter) article(slug, body string) Article {
	a := Article{
		Slug:        slug,
		Title:       fm.Title,
		Description: fm.Description,
		PubDate:     fm.PubDate.Time,
		HeroImage:   fm.HeroImage,
		Tags:        fm.Tags,
		Draft:       fm.Draft,
		Lang:        Language(fm.Lang),
		Body:        body,
	}
	if fm.UpdatedDate != nil {
		t := fm.UpdatedDate.Time
		a.UpdatedDate = &t
	}
	if a.Lang == "" {
		a.Lang = LangZhTW
	}
	if a.Tags == nil {
		a.Tags = []string{}
	}
	return a
}

func (fm *projectFrontMatter) project(slug, body string) Project {
	p := Project{
		Slug:        slug,
		Title:       fm.Title,
		Description: fm.Description,
		PubDate:     fm.PubDate.Time,
		HeroImage:   fm.HeroImage,
		Tags:        fm.Tags,
		GitHub:      fm.GitHub,
		Demo:        fm.Demo,
		Featured:    fm.Featured,
		Status:      Status(fm.Status),
		Body:        body,
	}
	if p.Status == "" {
		p.Status = StatusCompleted
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return p
}
