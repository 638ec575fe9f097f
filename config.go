// Copyright 2025 Agentic World, LLC (Sherin Thomas)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package linkaudit

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gobwas/glob"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes the environment variables read by ApplyEnv.
const EnvPrefix = "LINKAUDIT_"

// ConfigPathEnv names the variable holding an optional YAML config file.
const ConfigPathEnv = EnvPrefix + "CONFIG"

// BlogSelectors locate the parts of a blog listing page.
type BlogSelectors struct {
	// Post matches the links to individual posts.
	Post string `yaml:"post"`
	// NextPage matches the "next page" control.
	NextPage string `yaml:"next_page"`
	// Pagination matches the numbered page links, excluding next and previous.
	Pagination string `yaml:"pagination"`
}

// Config is the crawl configuration. DefaultConfig holds the compiled-in values.
type Config struct {
	BaseURL string      `yaml:"base_url"`
	Browser BrowserKind `yaml:"browser"`

	SettleDelayMs       int    `yaml:"settle_delay_ms"`       // Pause after navigation for scripts to update the DOM
	ContentWaitMs       int    `yaml:"content_wait_ms"`       // Element wait when first locating content
	NavigationTimeoutMs int    `yaml:"navigation_timeout_ms"` // 0 = wait for the browser indefinitely
	RequestTimeoutMs    int    `yaml:"request_timeout_ms"`    // Static backend only
	UserAgent           string `yaml:"user_agent"`
	ChromePath          string `yaml:"chrome_path"`

	SkipPatterns    []string      `yaml:"skip_patterns"`
	SocialDomains   []string      `yaml:"social_domains"`
	BlogMarkers     []string      `yaml:"blog_markers"`
	ExcludePatterns []string      `yaml:"exclude_patterns"` // Globs, e.g. "*/author/*"
	SameSiteMode    SameSiteMode  `yaml:"same_site_mode"`
	Blog            BlogSelectors `yaml:"blog"`

	MaxPages    int    `yaml:"max_pages"` // 0 = unlimited
	SeedSitemap bool   `yaml:"seed_sitemap"`
	SitemapURL  string `yaml:"sitemap_url"` // Defaults to <base>/sitemap.xml

	OutputDir string `yaml:"output_dir"`
	HistoryDB string `yaml:"history_db"` // Empty disables the sqlite history
	LogLevel  string `yaml:"log_level"`
}

// DefaultConfig returns the compiled-in configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:             "https://www.securemation.com",
		Browser:             BrowserChrome,
		SettleDelayMs:       1000,
		ContentWaitMs:       10000,
		NavigationTimeoutMs: 0,
		RequestTimeoutMs:    10000,
		UserAgent:           "",
		SkipPatterns:        append([]string(nil), DefaultSkipPatterns...),
		SocialDomains:       append([]string(nil), DefaultSocialDomains...),
		BlogMarkers:         append([]string(nil), DefaultBlogMarkers...),
		ExcludePatterns:     nil,
		SameSiteMode:        SameSitePrefix,
		Blog: BlogSelectors{
			Post:       `div[data-elementor-type="loop-item"] a.elementor-element`,
			NextPage:   `nav.elementor-pagination a.page-numbers.next`,
			Pagination: `nav.elementor-pagination a.page-numbers:not(.next):not(.prev)`,
		},
		MaxPages:  0,
		OutputDir: ".",
		LogLevel:  "info",
	}
}

// LoadConfig returns the defaults overlaid with the YAML file at path.
func LoadConfig(path string) (*Config, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer fh.Close()
	return LoadConfigFromReader(fh)
}

// LoadConfigFromReader returns the defaults overlaid with YAML read from r.
func LoadConfigFromReader(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

var envMap = map[string]func(*Config, string) error{
	"BASE_URL": func(c *Config, val string) error {
		c.BaseURL = val
		return nil
	},
	"BROWSER": func(c *Config, val string) error {
		c.Browser = BrowserKind(val)
		return nil
	},
	"SETTLE_DELAY_MS": func(c *Config, val string) error {
		return setInt(&c.SettleDelayMs, val)
	},
	"NAVIGATION_TIMEOUT_MS": func(c *Config, val string) error {
		return setInt(&c.NavigationTimeoutMs, val)
	},
	"MAX_PAGES": func(c *Config, val string) error {
		return setInt(&c.MaxPages, val)
	},
	"SAME_SITE_MODE": func(c *Config, val string) error {
		c.SameSiteMode = SameSiteMode(val)
		return nil
	},
	"EXCLUDE_PATTERNS": func(c *Config, val string) error {
		c.ExcludePatterns = splitList(val)
		return nil
	},
	"SEED_SITEMAP": func(c *Config, val string) error {
		c.SeedSitemap = isYesString(val)
		return nil
	},
	"OUTPUT_DIR": func(c *Config, val string) error {
		c.OutputDir = val
		return nil
	},
	"HISTORY_DB": func(c *Config, val string) error {
		c.HistoryDB = val
		return nil
	},
	"LOG_LEVEL": func(c *Config, val string) error {
		c.LogLevel = val
		return nil
	},
	"CHROME_PATH": func(c *Config, val string) error {
		c.ChromePath = val
		return nil
	},
	"USER_AGENT": func(c *Config, val string) error {
		c.UserAgent = val
		return nil
	},
}

// ApplyEnv overrides fields from LINKAUDIT_* entries of environ, which has
// the form returned by os.Environ. Unknown variables are logged and ignored.
func (c *Config) ApplyEnv(environ []string, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	for _, e := range environ {
		if !strings.HasPrefix(e, EnvPrefix) {
			continue
		}
		pair := strings.SplitN(e[len(EnvPrefix):], "=", 2)
		if len(pair) != 2 || pair[0] == "CONFIG" {
			continue
		}
		f, ok := envMap[pair[0]]
		if !ok {
			logger.Warn("unknown environment variable", zap.String("name", EnvPrefix+pair[0]))
			continue
		}
		if err := f(c, pair[1]); err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, pair[0], err)
		}
	}
	return nil
}

// Validate checks the configuration before a crawl starts.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("base URL is required")
	}
	if !IsAbsoluteHTTP(c.BaseURL) {
		return fmt.Errorf("base URL %q must be an absolute http(s) URL", c.BaseURL)
	}
	if _, err := urlParser.Parse(c.BaseURL); err != nil {
		return fmt.Errorf("invalid base URL %q: %w", c.BaseURL, err)
	}
	switch c.Browser {
	case BrowserChrome, BrowserChromeHeadful, BrowserStatic:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBrowser, c.Browser)
	}
	switch c.SameSiteMode {
	case "", SameSitePrefix, SameSiteOrigin:
	default:
		return fmt.Errorf("unknown same-site mode %q", c.SameSiteMode)
	}
	if c.SettleDelayMs < 0 || c.ContentWaitMs < 0 || c.NavigationTimeoutMs < 0 || c.RequestTimeoutMs < 0 {
		return errors.New("delays and timeouts must not be negative")
	}
	if c.MaxPages < 0 {
		return fmt.Errorf("max pages must not be negative, got %d", c.MaxPages)
	}
	for _, pattern := range c.ExcludePatterns {
		if _, err := glob.Compile(pattern); err != nil {
			return fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
	}
	if c.Blog.Post == "" {
		return errors.New("blog post selector is required")
	}
	return nil
}

// SettleDelay returns SettleDelayMs as a duration.
func (c *Config) SettleDelay() time.Duration {
	return time.Duration(c.SettleDelayMs) * time.Millisecond
}

// ContentWait returns ContentWaitMs as a duration.
func (c *Config) ContentWait() time.Duration {
	return time.Duration(c.ContentWaitMs) * time.Millisecond
}

// FetcherOptions derives the backend options from the configuration.
func (c *Config) FetcherOptions(logger *zap.Logger) FetcherOptions {
	return FetcherOptions{
		UserAgent:         c.UserAgent,
		RequestTimeout:    time.Duration(c.RequestTimeoutMs) * time.Millisecond,
		NavigationTimeout: time.Duration(c.NavigationTimeoutMs) * time.Millisecond,
		ExecPath:          c.ChromePath,
		Logger:            logger,
	}
}

func setInt(dst *int, val string) error {
	n, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil {
		return err
	}
	*dst = n
	return nil
}

func splitList(val string) []string {
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func isYesString(s string) bool {
	switch strings.ToLower(s) {
	case "1", "yes", "true", "y":
		return true
	}
	return false
}
