package folio

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/joeycatai/folio/og"
	"github.com/joeycatai/folio/routes"
)

// DefaultConfigFile is looked up in the working directory when no
// config path is given.
const DefaultConfigFile = "folio.toml"

// SiteConfig holds the site identity used in pages, feeds and cards.
type SiteConfig struct {
	Name          string `toml:"name"`           // default "joeycatai"
	URL           string `toml:"url"`            // canonical origin, no trailing slash
	Description   string `toml:"description"`    // RSS, meta tags and the default card
	Author        string `toml:"author"`         // JSON-LD author
	TwitterHandle string `toml:"twitter_handle"` // twitter:site, with "@"
	OGImage       string `toml:"og_image"`       // fallback share image path
	GAID          string `toml:"ga_id"`          // Google Analytics measurement ID; empty disables
	Language      string `toml:"language"`       // RSS <language> and <html lang>
}

// BuildConfig controls where content is read from and output written to.
type BuildConfig struct {
	ContentDir string `toml:"content_dir"`
	PublicDir  string `toml:"public_dir"`
	OutputDir  string `toml:"output_dir"`
	CachePath  string `toml:"cache_path"` // SQLite file for rendered cards and build history
	OGWorkers  int    `toml:"og_workers"`
}

// OGConfig configures card rendering and font fetching.
type OGConfig struct {
	FontFamily string   `toml:"font_family"`
	FontCSSURL string   `toml:"font_css_url"`
	UserAgent  string   `toml:"user_agent"`
	Timeout    Duration `toml:"timeout"`
}

// ServerConfig configures the preview server.
type ServerConfig struct {
	Addr string `toml:"addr"`
	// OGRenderLimit caps on-demand card renders per client per minute.
	// Negative disables the limit.
	OGRenderLimit int `toml:"og_render_limit"`
}

// SectionConfig is a top-level listing page with its own card.
type SectionConfig struct {
	Route       string `toml:"route"`
	Title       string `toml:"title"`
	Description string `toml:"description"`
}

// Config is the whole folio.toml.
type Config struct {
	Site     SiteConfig      `toml:"site"`
	Build    BuildConfig     `toml:"build"`
	OG       OGConfig        `toml:"og"`
	Server   ServerConfig    `toml:"server"`
	Sections []SectionConfig `toml:"sections"`
}

// Duration decodes TOML strings such as "30s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// DefaultSections are the listing pages of the site.
func DefaultSections() []SectionConfig {
	return []SectionConfig{
		{Route: "blog", Title: "文章", Description: "技術筆記、開發心得與隨筆紀錄"},
		{Route: "projects", Title: "專案", Description: "開源專案與個人作品集"},
		{Route: "about", Title: "關於我"},
		{Route: "contact", Title: "聯絡我", Description: "歡迎透過各種管道與我聯繫"},
		{Route: "tags", Title: "標籤", Description: "依標籤瀏覽所有文章與專案"},
	}
}

func (c *Config) setDefaults() {
	s := &c.Site
	if s.Name == "" {
		s.Name = "joeycatai"
	}
	if s.URL == "" {
		s.URL = "http://localhost:4321"
	}
	if s.Description == "" {
		s.Description = "軟體工程師 · 開源愛好者 · 分享技術、專案與思考"
	}
	if s.Author == "" {
		s.Author = s.Name
	}
	if s.OGImage == "" {
		s.OGImage = "/og/" + routes.DefaultRoute + ".png"
	}
	if s.Language == "" {
		s.Language = "zh-TW"
	}

	b := &c.Build
	if b.ContentDir == "" {
		b.ContentDir = "content"
	}
	if b.PublicDir == "" {
		b.PublicDir = "public"
	}
	if b.OutputDir == "" {
		b.OutputDir = "dist"
	}
	if b.CachePath == "" {
		b.CachePath = "data/folio.db"
	}
	if b.OGWorkers <= 0 {
		b.OGWorkers = 4
	}

	o := &c.OG
	if o.FontFamily == "" {
		o.FontFamily = og.DefaultFontFamily
	}
	if o.FontCSSURL == "" {
		o.FontCSSURL = og.DefaultCSSURL
	}
	if o.UserAgent == "" {
		o.UserAgent = og.DefaultUserAgent
	}
	if o.Timeout.Duration == 0 {
		o.Timeout.Duration = og.DefaultTimeout
	}

	if c.Server.Addr == "" {
		c.Server.Addr = ":4321"
	}
	if c.Server.OGRenderLimit == 0 {
		c.Server.OGRenderLimit = 60
	}
	if c.Sections == nil {
		c.Sections = DefaultSections()
	}
}

// normalize applies environment overrides and trims values.
func (c *Config) normalize() {
	c.Site.URL = strings.TrimRight(EnvOr("FOLIO_SITE_URL", c.Site.URL), "/")
	c.Site.GAID = strings.TrimSpace(EnvOr("FOLIO_GA_ID", c.Site.GAID))
	for i := range c.Sections {
		c.Sections[i].Route = strings.Trim(c.Sections[i].Route, "/ ")
	}
}

// Validate reports configuration that cannot produce a site.
func (c *Config) Validate() error {
	var errs []error
	u, err := url.Parse(c.Site.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("site.url %q must be an absolute http(s) URL", c.Site.URL))
	}
	seen := make(map[string]bool)
	for i, s := range c.Sections {
		switch {
		case s.Route == "":
			errs = append(errs, fmt.Errorf("sections[%d].route is required", i))
		case s.Route == routes.DefaultRoute || strings.Contains(s.Route, "/"):
			errs = append(errs, fmt.Errorf("sections[%d].route %q is reserved or nested", i, s.Route))
		case seen[s.Route]:
			errs = append(errs, fmt.Errorf("sections[%d].route %q is duplicated", i, s.Route))
		}
		seen[s.Route] = true
		if s.Title == "" {
			errs = append(errs, fmt.Errorf("sections[%d].title is required", i))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("folio: invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	var c Config
	c.setDefaults()
	c.normalize()
	return c
}

// LoadConfig reads path (or folio.toml when empty), fills defaults and
// validates. A missing file yields the defaults.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigFile
	}
	var c Config
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("folio: read config: %w", err)
	default:
		if err := toml.Unmarshal(data, &c); err != nil {
			return Config{}, fmt.Errorf("folio: parse config %s: %w", path, err)
		}
	}
	c.setDefaults()
	c.normalize()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// RouteSite converts the config into what the route generator needs.
func (c Config) RouteSite() routes.Site {
	site := routes.Site{Name: c.Site.Name, Description: c.Site.Description}
	for _, s := range c.Sections {
		site.Sections = append(site.Sections, routes.Section{
			Route:       s.Route,
			Title:       s.Title,
			Description: s.Description,
		})
	}
	return site
}

// Option configures additional App behavior.
type Option func(*App)

// WithLogger sets the application logger.
func WithLogger(l Logger) Option {
	return func(a *App) {
		a.logger = l
	}
}

// WithFontSource replaces the Google Fonts client, e.g. for offline builds.
func WithFontSource(src og.FontSource) Option {
	return func(a *App) {
		a.fontSource = src
	}
}

// WithWatchDebounce sets how long Watch waits after the last change
// before rebuilding. The default is 500ms.
func WithWatchDebounce(d time.Duration) Option {
	return func(a *App) {
		a.watchDebounce = d
	}
}

// WithCustomRoutes registers additional routes on the preview server.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
