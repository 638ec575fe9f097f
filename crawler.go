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
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// PageKind tells which handler processed a page.
type PageKind string

const (
	// PageRegular is a page scanned for all of its anchors.
	PageRegular PageKind = "regular"
	// PageBlogListing is a paginated blog index.
	PageBlogListing PageKind = "blog-listing"
)

// OnPageVisitedFunc is called after a page has been handled.
type OnPageVisitedFunc func(pageURL string, kind PageKind)

// Crawler drives a single-session crawl of one site.
type Crawler struct {
	cfg        *Config
	classifier *Classifier
	fetcher    Fetcher
	client     *http.Client
	writers    []ReportWriter
	logger     *zap.Logger
	now        func() time.Time

	onPageVisited     OnPageVisitedFunc
	onExtractionError func(*ExtractionError)
}

// CrawlerOption customizes a Crawler.
type CrawlerOption func(*Crawler)

// WithFetcher replaces the default browser fetcher.
func WithFetcher(f Fetcher) CrawlerOption {
	return func(c *Crawler) { c.fetcher = f }
}

// WithHTTPClient sets the client used for sitemaps and by the static backend.
func WithHTTPClient(client *http.Client) CrawlerOption {
	return func(c *Crawler) { c.client = client }
}

// WithReportWriters sets where the finished report is persisted.
func WithReportWriters(writers ...ReportWriter) CrawlerOption {
	return func(c *Crawler) { c.writers = append(c.writers, writers...) }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) CrawlerOption {
	return func(c *Crawler) { c.logger = logger }
}

// WithClock sets the clock used to stamp reports.
func WithClock(now func() time.Time) CrawlerOption {
	return func(c *Crawler) { c.now = now }
}

// OnPageVisited registers a callback run after each handled page.
func OnPageVisited(f OnPageVisitedFunc) CrawlerOption {
	return func(c *Crawler) { c.onPageVisited = f }
}

// OnExtractionError registers a callback for every recovered extraction failure.
func OnExtractionError(f func(*ExtractionError)) CrawlerOption {
	return func(c *Crawler) { c.onExtractionError = f }
}

// NewCrawler validates cfg and returns a Crawler.
func NewCrawler(cfg *Config, opts ...CrawlerOption) (*Crawler, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	classifier, err := NewClassifier(cfg)
	if err != nil {
		return nil, err
	}

	c := &Crawler{
		cfg:        cfg,
		classifier: classifier,
		logger:     zap.NewNop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.fetcher == nil {
		fetcherOpts := cfg.FetcherOptions(c.logger)
		fetcherOpts.Client = c.client
		c.fetcher = NewFetcher(fetcherOpts)
	}
	return c, nil
}

// Classifier returns the URL classifier built from the configuration.
func (c *Crawler) Classifier() *Classifier {
	return c.classifier
}

// Run opens a session, crawls until the frontier is empty and hands the
// report to the writers. The session is closed on every return path.
//
// When ctx is cancelled the pages crawled so far are still reported: Run
// writes a truncated report and returns it along with ctx's error.
func (c *Crawler) Run(ctx context.Context) (report *Report, err error) {
	session, err := c.fetcher.Open(ctx, c.cfg.Browser)
	if err != nil {
		return nil, fmt.Errorf("open %s session: %w", c.cfg.Browser, err)
	}
	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close session: %w", closeErr))
		}
	}()

	state := NewCrawlState()
	c.Seed(ctx, state)
	crawlErr := c.Crawl(ctx, session, state)
	if crawlErr != nil {
		if ctx.Err() == nil {
			return nil, crawlErr
		}
		state.MarkTruncated()
		c.logger.Warn("crawl interrupted, saving partial report",
			zap.Int("pages_visited", state.VisitedCount()),
			zap.Error(crawlErr),
		)
	}

	report = BuildReport(state, c.now())
	report.BaseURL = c.classifier.BaseURL()
	c.logger.Info("link verification report",
		zap.Int("pages_visited", report.Summary.TotalPagesVisited),
		zap.Int("external_links", report.Summary.TotalExternalLinks),
		zap.Int("blog_posts", report.Summary.TotalBlogPosts),
		zap.Int("social_links", report.Summary.TotalSocialLinks),
		zap.Bool("truncated", report.Truncated),
	)
	c.persist(context.WithoutCancel(ctx), report)
	return report, crawlErr
}

// Seed queues the base URL, and the sitemap URLs when sitemap seeding is on.
func (c *Crawler) Seed(ctx context.Context, state *CrawlState) {
	state.Enqueue(c.classifier.BaseURL())
	if !c.cfg.SeedSitemap {
		return
	}

	sitemapURL := c.cfg.SitemapURL
	if sitemapURL == "" {
		sitemapURL = c.classifier.BaseURL() + "/sitemap.xml"
	}
	urls, err := FetchSitemapURLs(ctx, c.client, sitemapURL)
	if err != nil {
		c.logger.Warn("sitemap seeding failed", zap.String("url", sitemapURL), zap.Error(err))
	}
	for _, u := range urls {
		next := Normalize(u)
		if !c.classifier.IsSameSite(next) || c.classifier.ShouldSkip(next) || state.IsQueued(next) {
			continue
		}
		state.Enqueue(next)
	}
}

// Crawl runs the crawl loop on session until the frontier of state drains,
// the page limit is hit or ctx is done. An error means the session failed.
func (c *Crawler) Crawl(ctx context.Context, session Session, state *CrawlState) error {
	base := handlerBase{
		state:      state,
		classifier: c.classifier,
		settle:     c.cfg.SettleDelay(),
		logger:     c.logger,
		onError:    c.onExtractionError,
	}
	regular := &RegularPageHandler{handlerBase: base}
	blog := &BlogListingHandler{
		handlerBase: base,
		post:        ParseSelector(c.cfg.Blog.Post),
		nextPage:    ParseSelector(c.cfg.Blog.NextPage),
		pagination:  ParseSelector(c.cfg.Blog.Pagination),
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		pageURL, err := state.Dequeue()
		if errors.Is(err, ErrFrontierEmpty) {
			return nil
		}
		if c.classifier.ShouldSkip(pageURL) || state.IsVisited(pageURL) {
			continue
		}
		if c.cfg.MaxPages > 0 && state.VisitedCount() >= c.cfg.MaxPages {
			state.MarkTruncated()
			c.logger.Warn("page limit reached, stopping crawl",
				zap.Int("max_pages", c.cfg.MaxPages),
				zap.Int("queued", state.FrontierLen()+1),
			)
			return nil
		}
		state.MarkVisited(pageURL)

		var handler PageHandler = regular
		kind := PageRegular
		if c.classifier.IsBlogURL(pageURL) {
			handler = blog
			kind = PageBlogListing
		}
		if err := handler.Handle(ctx, session, pageURL); err != nil {
			return fmt.Errorf("crawl %s: %w", pageURL, err)
		}
		if c.onPageVisited != nil {
			c.onPageVisited(pageURL, kind)
		}
	}
}

// persist hands report to every writer. A failed write is logged together
// with the report data so nothing is lost.
func (c *Crawler) persist(ctx context.Context, report *Report) {
	dumped := false
	for _, w := range c.writers {
		err := w.WriteReport(ctx, report)
		if err == nil {
			continue
		}
		c.logger.Error("error saving report", zap.Error(err))
		if dumped {
			continue
		}
		dumped = true
		data, jsonErr := json.MarshalIndent(report, "", "  ")
		if jsonErr != nil {
			c.logger.Error("encode report", zap.Error(jsonErr))
			continue
		}
		c.logger.Info("report data (file save failed)", zap.String("report", string(data)))
	}
}
