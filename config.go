package pagesmith

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// SiteConfig holds all configuration for a pagesmith site.
type SiteConfig struct {
	Name        string `mapstructure:"name"`        // site name (default "Blog")
	URL         string `mapstructure:"url"`         // canonical URL (default "http://localhost:3000")
	Description string `mapstructure:"description"` // site description for RSS and meta tags
	Author      string `mapstructure:"author"`      // author name for JSON-LD

	ContentDir string `mapstructure:"content_dir"` // markdown sources (default "content")
	LayoutsDir string `mapstructure:"layouts_dir"` // html/template layouts (default "layouts")
	StaticDir  string `mapstructure:"static_dir"`  // static assets (default "static")
	OutputDir  string `mapstructure:"output_dir"`  // build output (default "public")

	Addr string `mapstructure:"addr"` // preview listen address (default ":3000")

	MaxImageWidth int `mapstructure:"max_image_width"` // resize threshold (default 800)
	JPEGQuality   int `mapstructure:"jpeg_quality"`    // re-encode quality (default 80)

	SiteCacheTTL time.Duration `mapstructure:"site_cache_ttl"` // preview cache TTL (default 5min)
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.LayoutsDir == "" {
		c.LayoutsDir = "layouts"
	}
	if c.StaticDir == "" {
		c.StaticDir = "static"
	}
	if c.OutputDir == "" {
		c.OutputDir = "public"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.MaxImageWidth == 0 {
		c.MaxImageWidth = 800
	}
	if c.JPEGQuality == 0 {
		c.JPEGQuality = 80
	}
	if c.SiteCacheTTL == 0 {
		c.SiteCacheTTL = 5 * time.Minute
	}
	c.URL = strings.TrimSuffix(c.URL, "/")
}

// LoadConfig reads site.yaml from dir and applies PAGESMITH_* environment
// overrides (e.g. PAGESMITH_URL, PAGESMITH_OUTPUT_DIR). A missing config
// file is not an error; defaults apply.
func LoadConfig(dir string) (SiteConfig, error) {
	v := viper.New()
	v.SetConfigName("site")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	v.SetEnvPrefix("PAGESMITH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return SiteConfig{}, fmt.Errorf("read site config: %w", err)
		}
	}

	var cfg SiteConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return SiteConfig{}, fmt.Errorf("unmarshal site config: %w", err)
	}
	cfg.setDefaults()
	return cfg, nil
}
