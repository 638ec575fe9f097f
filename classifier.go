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
	"fmt"
	"strings"

	"github.com/gobwas/glob"
	whatwgUrl "github.com/nlnwa/whatwg-url/url"
)

var urlParser = whatwgUrl.NewParser(whatwgUrl.WithPercentEncodeSinglePercentSign())

// DefaultSkipPatterns mark popup actions, pagination artifacts, encoded
// path separators and fragments. A URL containing any of them is never crawled.
var DefaultSkipPatterns = []string{
	"/?pageid=",
	"#elementor-action",
	"popup%",
	"%3D",
	"%2F",
	"%3A",
	"%3F",
	"#",
}

// DefaultSocialDomains are the hosts whose links are reported as social links.
var DefaultSocialDomains = []string{
	"facebook.com",
	"twitter.com",
	"x.com",
	"linkedin.com",
	"instagram.com",
	"youtube.com",
}

// DefaultBlogMarkers identify paginated blog listing URLs.
var DefaultBlogMarkers = []string{"/blog", "/blogs/"}

// SameSiteMode selects how IsSameSite decides that a URL is internal.
type SameSiteMode string

const (
	// SameSitePrefix treats any URL starting with the base URL string as internal.
	// https://example.com.evil.com matches https://example.com in this mode.
	SameSitePrefix SameSiteMode = "prefix"
	// SameSiteOrigin compares scheme, host and port.
	SameSiteOrigin SameSiteMode = "origin"
)

// Classifier decides how discovered URLs are routed.
type Classifier struct {
	baseURL       string
	mode          SameSiteMode
	skipPatterns  []string
	socialDomains []string
	blogMarkers   []string
	excludes      []glob.Glob
}

// NewClassifier builds a Classifier from the crawl configuration.
func NewClassifier(cfg *Config) (*Classifier, error) {
	c := &Classifier{
		baseURL:       Normalize(cfg.BaseURL),
		mode:          cfg.SameSiteMode,
		skipPatterns:  cfg.SkipPatterns,
		socialDomains: cfg.SocialDomains,
		blogMarkers:   cfg.BlogMarkers,
	}
	if c.mode == "" {
		c.mode = SameSitePrefix
	}
	for _, pattern := range cfg.ExcludePatterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		c.excludes = append(c.excludes, g)
	}
	return c, nil
}

// BaseURL returns the normalized base URL.
func (c *Classifier) BaseURL() string {
	return c.baseURL
}

// ShouldSkip reports whether u must not be crawled, either because it
// matches a skip pattern or because an exclude pattern matches it.
func (c *Classifier) ShouldSkip(u string) bool {
	return matchesSkipPattern(u, c.skipPatterns) || c.IsExcluded(u)
}

// MatchesSkipPattern reports whether u is empty or contains a skip pattern.
func (c *Classifier) MatchesSkipPattern(u string) bool {
	return matchesSkipPattern(u, c.skipPatterns)
}

// IsExcluded reports whether u matches one of the exclude globs.
func (c *Classifier) IsExcluded(u string) bool {
	for _, g := range c.excludes {
		if g.Match(u) {
			return true
		}
	}
	return false
}

// IsSocial reports whether u points at a social platform.
func (c *Classifier) IsSocial(u string) bool {
	return isSocialURL(u, c.socialDomains)
}

// IsSameSite reports whether u belongs to the crawled site.
func (c *Classifier) IsSameSite(u string) bool {
	if c.mode == SameSiteOrigin {
		return sameOrigin(u, c.baseURL)
	}
	return IsSameSite(u, c.baseURL)
}

// IsBlogURL reports whether u is a blog listing page.
func (c *Classifier) IsBlogURL(u string) bool {
	return containsAny(u, c.blogMarkers)
}

// ShouldSkip reports whether u is empty or matches DefaultSkipPatterns.
func ShouldSkip(u string) bool {
	return matchesSkipPattern(u, DefaultSkipPatterns)
}

// IsSocial reports whether the host of u is one of DefaultSocialDomains or a
// subdomain of one.
func IsSocial(u string) bool {
	return isSocialURL(u, DefaultSocialDomains)
}

// IsSameSite reports whether u starts with baseURL.
func IsSameSite(u, baseURL string) bool {
	if baseURL == "" {
		return false
	}
	return strings.HasPrefix(u, baseURL)
}

// IsBlogURL reports whether u contains one of DefaultBlogMarkers.
func IsBlogURL(u string) bool {
	return containsAny(u, DefaultBlogMarkers)
}

// Normalize removes every trailing slash of u, so normalizing twice changes nothing.
func Normalize(u string) string {
	return strings.TrimRight(u, "/")
}

// IsAbsoluteHTTP reports whether u carries an http or https scheme.
func IsAbsoluteHTTP(u string) bool {
	return strings.HasPrefix(strings.ToLower(u), "http")
}

// ResolveReference resolves ref against base the way a browser resolves an
// href. The input is returned unchanged when it cannot be parsed.
func ResolveReference(base, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if base == "" {
		return ref
	}
	u, err := urlParser.ParseRef(base, ref)
	if err != nil {
		return ref
	}
	return u.Href(false)
}

func matchesSkipPattern(u string, patterns []string) bool {
	if u == "" {
		return true
	}
	return containsAny(u, patterns)
}

func containsAny(u string, patterns []string) bool {
	for _, pattern := range patterns {
		if strings.Contains(u, pattern) {
			return true
		}
	}
	return false
}

func isSocialURL(u string, domains []string) bool {
	parsed, err := urlParser.Parse(u)
	if err != nil || parsed.Hostname() == "" {
		return containsAny(u, domains)
	}
	host := strings.ToLower(parsed.Hostname())
	for _, domain := range domains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

func sameOrigin(u, baseURL string) bool {
	target, err := urlParser.Parse(u)
	if err != nil {
		return false
	}
	base, err := urlParser.Parse(baseURL)
	if err != nil {
		return false
	}
	return target.Protocol() == base.Protocol() &&
		strings.EqualFold(target.Hostname(), base.Hostname()) &&
		target.Port() == base.Port()
}
