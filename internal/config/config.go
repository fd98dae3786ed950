// Package config reads runtime settings from the environment (optionally
// seeded from .env files) and page layouts from YAML.
package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"

	"github.com/zalepa/roadpenalties/dashboard"
	"github.com/zalepa/roadpenalties/dataset"
)

//go:embed pages.yaml
var defaultPages []byte

// Config is the process configuration.
type Config struct {
	DataDir string
	DataURL string
	S3      dataset.S3Config

	Port           string
	PagesFile      string
	AllowedOrigins []string
	// RateLimit is the sustained requests per second allowed per client;
	// zero disables limiting.
	RateLimit float64
	Sessions  int
}

// LoadEnv seeds the environment from .env.local and .env when present.
// Variables already set win.
func LoadEnv() {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load()
}

// FromEnv reads the configuration from the process environment.
func FromEnv() (Config, error) {
	c := Config{
		DataDir:   getenv("ROADPENALTIES_DATA_DIR", "data"),
		DataURL:   os.Getenv("ROADPENALTIES_DATA_URL"),
		Port:      getenv("PORT", "8080"),
		PagesFile: os.Getenv("ROADPENALTIES_PAGES"),
		Sessions:  1024,
		S3: dataset.S3Config{
			Bucket:    os.Getenv("ROADPENALTIES_S3_BUCKET"),
			Prefix:    os.Getenv("ROADPENALTIES_S3_PREFIX"),
			Region:    os.Getenv("ROADPENALTIES_S3_REGION"),
			Endpoint:  os.Getenv("ROADPENALTIES_S3_ENDPOINT"),
			PathStyle: strings.EqualFold(os.Getenv("ROADPENALTIES_S3_PATH_STYLE"), "true"),
		},
	}
	if v := os.Getenv("ROADPENALTIES_ALLOWED_ORIGINS"); v != "" {
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				c.AllowedOrigins = append(c.AllowedOrigins, o)
			}
		}
	}
	if v := os.Getenv("ROADPENALTIES_RATE_LIMIT"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil || r < 0 {
			return Config{}, fmt.Errorf("invalid ROADPENALTIES_RATE_LIMIT %q", v)
		}
		c.RateLimit = r
	}
	if v := os.Getenv("ROADPENALTIES_SESSIONS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("invalid ROADPENALTIES_SESSIONS %q", v)
		}
		c.Sessions = n
	}
	return c, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Source picks the dataset source: S3 when a bucket is set, then an HTTP
// base URL, then the local directory.
func (c Config) Source(ctx context.Context) (dataset.Source, error) {
	switch {
	case c.S3.Bucket != "":
		return dataset.NewS3(ctx, c.S3)
	case c.DataURL != "":
		return dataset.HTTP{Base: c.DataURL}, nil
	}
	return dataset.Dir(c.DataDir), nil
}

// Pages reads the page layouts from PagesFile, or the built-in layout when
// no file is configured.
func (c Config) Pages() ([]dashboard.Page, error) {
	data := defaultPages
	if c.PagesFile != "" {
		b, err := os.ReadFile(c.PagesFile)
		if err != nil {
			return nil, fmt.Errorf("reading pages: %w", err)
		}
		data = b
	}
	return ParsePages(data)
}

// ParsePages decodes a YAML page layout.
func ParsePages(data []byte) ([]dashboard.Page, error) {
	var doc struct {
		Pages []dashboard.Page `yaml:"pages"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing pages: %w", err)
	}
	if len(doc.Pages) == 0 {
		return nil, fmt.Errorf("parsing pages: no pages defined")
	}
	return doc.Pages, nil
}
