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
	"fmt"
	"strings"
	"time"
)

// timestampLayout matches the ISO 8601 form with millisecond precision in UTC.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// ReportWriter persists a finished report.
type ReportWriter interface {
	WriteReport(ctx context.Context, report *Report) error
}

// Summary holds the report totals.
type Summary struct {
	TotalPagesVisited  int `json:"totalPagesVisited"`
	TotalExternalLinks int `json:"totalExternalLinks"`
	TotalBlogPosts     int `json:"totalBlogPosts"`
	TotalSocialLinks   int `json:"totalSocialLinks"`
}

// Report is the immutable result of a crawl.
type Report struct {
	Timestamp     string         `json:"timestamp"`
	Summary       Summary        `json:"summary"`
	BlogPosts     []BlogPost     `json:"blogPosts"`
	ExternalLinks []ExternalLink `json:"externalLinks"`
	SocialLinks   []string       `json:"socialLinks"`
	// Truncated is set when the crawl stopped early: at the page limit with
	// URLs still queued, or because it was cancelled.
	Truncated bool `json:"truncated,omitempty"`

	BaseURL      string    `json:"-"`
	GeneratedAt  time.Time `json:"-"`
	VisitedPages []string  `json:"-"`
}

// BuildReport snapshots state. It does not modify state.
func BuildReport(state *CrawlState, now time.Time) *Report {
	blogPosts := state.BlogPosts()
	external := state.ExternalLinks()
	social := state.SocialLinks()
	if blogPosts == nil {
		blogPosts = []BlogPost{}
	}
	if external == nil {
		external = []ExternalLink{}
	}
	if social == nil {
		social = []string{}
	}

	return &Report{
		Timestamp: now.UTC().Format(timestampLayout),
		Summary: Summary{
			TotalPagesVisited:  state.VisitedCount(),
			TotalExternalLinks: len(external),
			TotalBlogPosts:     len(blogPosts),
			TotalSocialLinks:   len(social),
		},
		BlogPosts:     blogPosts,
		ExternalLinks: external,
		SocialLinks:   social,
		Truncated:     state.Truncated(),
		GeneratedAt:   now,
		VisitedPages:  state.Visited(),
	}
}

// FileStamp returns the report timestamp with ':' and '.' replaced by '-',
// suitable for file names.
func (r *Report) FileStamp() string {
	return strings.NewReplacer(":", "-", ".", "-").Replace(r.Timestamp)
}

// FileNames returns the names of the JSON report and the text summary.
func (r *Report) FileNames() (jsonName, textName string) {
	stamp := r.FileStamp()
	return fmt.Sprintf("link-verification-report-%s.json", stamp),
		fmt.Sprintf("link-verification-summary-%s.txt", stamp)
}

// Text renders the human-readable summary.
func (r *Report) Text() string {
	var b strings.Builder
	b.WriteString("=== Link Verification Summary ===\n")
	fmt.Fprintf(&b, "Time: %s\n", r.GeneratedAt.Local().Format("1/2/2006, 3:04:05 PM"))
	fmt.Fprintf(&b, "Total Pages Visited: %d\n", r.Summary.TotalPagesVisited)
	fmt.Fprintf(&b, "Total External Links: %d\n", r.Summary.TotalExternalLinks)
	fmt.Fprintf(&b, "Total Blog Posts: %d\n", r.Summary.TotalBlogPosts)
	fmt.Fprintf(&b, "Total Social Links: %d\n", r.Summary.TotalSocialLinks)
	if r.Truncated {
		b.WriteString("Crawl stopped at the page limit.\n")
	}

	b.WriteString("\nBlog Posts:\n")
	for _, post := range r.BlogPosts {
		fmt.Fprintf(&b, "- %s\n", post.URL)
	}
	b.WriteString("\nBlog Posts Content:\n")
	for _, post := range r.BlogPosts {
		fmt.Fprintf(&b, "- %s\n", post.Title)
	}
	b.WriteString("\nExternal Links:\n")
	for _, link := range r.ExternalLinks {
		text := link.Text
		if text == "" {
			text = "No Text"
		}
		fmt.Fprintf(&b, "- %s -> %s\n", text, link.URL)
	}
	return strings.TrimSuffix(b.String(), "\n")
}
