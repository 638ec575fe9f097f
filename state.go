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

import "sort"

// ExternalLink is an outbound link to another site.
type ExternalLink struct {
	URL       string `json:"url"`
	Text      string `json:"text"`
	SourceURL string `json:"sourceUrl,omitempty"`
	PageTitle string `json:"pageTitle,omitempty"`
	Location  *Point `json:"location,omitempty"`
	Position  string `json:"position,omitempty"`
}

// BlogPost is a post discovered on a blog listing page.
type BlogPost struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

type externalKey struct {
	url  string
	text string
}

// CrawlState is the mutable state of one crawl run: the visited set, the
// frontier and the link accumulators. It is not safe for concurrent use.
type CrawlState struct {
	visited  map[string]struct{}
	frontier []string
	// queued counts frontier entries per normalized URL.
	queued map[string]int

	externalIndex map[externalKey]struct{}
	external      []ExternalLink

	blogIndex map[string]int
	blogPosts []BlogPost

	socialIndex map[string]struct{}
	social      []string

	truncated bool
}

// NewCrawlState returns an empty state.
func NewCrawlState() *CrawlState {
	return &CrawlState{
		visited:       make(map[string]struct{}),
		queued:        make(map[string]int),
		externalIndex: make(map[externalKey]struct{}),
		blogIndex:     make(map[string]int),
		socialIndex:   make(map[string]struct{}),
	}
}

// MarkVisited records u as visited. It returns false if the normalized URL
// was already visited.
func (s *CrawlState) MarkVisited(u string) bool {
	key := Normalize(u)
	if _, ok := s.visited[key]; ok {
		return false
	}
	s.visited[key] = struct{}{}
	return true
}

// IsVisited reports whether the normalized u has been visited.
func (s *CrawlState) IsVisited(u string) bool {
	_, ok := s.visited[Normalize(u)]
	return ok
}

// VisitedCount returns the number of visited URLs.
func (s *CrawlState) VisitedCount() int {
	return len(s.visited)
}

// Visited returns the visited URLs in lexical order.
func (s *CrawlState) Visited() []string {
	out := make([]string, 0, len(s.visited))
	for u := range s.visited {
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}

// Enqueue appends u to the frontier. Duplicates are allowed and are
// dropped when dequeued.
func (s *CrawlState) Enqueue(u string) {
	s.frontier = append(s.frontier, u)
	s.queued[Normalize(u)]++
}

// IsQueued reports whether the normalized u is waiting in the frontier.
func (s *CrawlState) IsQueued(u string) bool {
	return s.queued[Normalize(u)] > 0
}

// Dequeue pops the head of the frontier, or returns ErrFrontierEmpty.
func (s *CrawlState) Dequeue() (string, error) {
	if len(s.frontier) == 0 {
		return "", ErrFrontierEmpty
	}
	u := s.frontier[0]
	s.frontier[0] = ""
	s.frontier = s.frontier[1:]

	key := Normalize(u)
	if s.queued[key] <= 1 {
		delete(s.queued, key)
	} else {
		s.queued[key]--
	}
	return u, nil
}

// FrontierLen returns the number of queued URLs, duplicates included.
func (s *CrawlState) FrontierLen() int {
	return len(s.frontier)
}

// Frontier returns a copy of the queued URLs in FIFO order.
func (s *CrawlState) Frontier() []string {
	return append([]string(nil), s.frontier...)
}

// RecordExternal stores link unless a link with the same URL and text is
// already stored. It returns true when the link was added.
func (s *CrawlState) RecordExternal(link ExternalLink) bool {
	key := externalKey{url: link.URL, text: link.Text}
	if _, ok := s.externalIndex[key]; ok {
		return false
	}
	s.externalIndex[key] = struct{}{}
	s.external = append(s.external, link)
	return true
}

// HasBlogPost reports whether u is a known blog post.
func (s *CrawlState) HasBlogPost(u string) bool {
	_, ok := s.blogIndex[u]
	return ok
}

// RecordBlogPost stores the title of the post at u. The first title seen wins.
func (s *CrawlState) RecordBlogPost(u, title string) bool {
	if _, ok := s.blogIndex[u]; ok {
		return false
	}
	s.blogIndex[u] = len(s.blogPosts)
	s.blogPosts = append(s.blogPosts, BlogPost{URL: u, Title: title})
	return true
}

// BlogPostTitle returns the stored title for u.
func (s *CrawlState) BlogPostTitle(u string) (string, bool) {
	i, ok := s.blogIndex[u]
	if !ok {
		return "", false
	}
	return s.blogPosts[i].Title, true
}

// RecordSocial stores a social link.
func (s *CrawlState) RecordSocial(u string) bool {
	if _, ok := s.socialIndex[u]; ok {
		return false
	}
	s.socialIndex[u] = struct{}{}
	s.social = append(s.social, u)
	return true
}

// ExternalLinks returns the external links in discovery order.
func (s *CrawlState) ExternalLinks() []ExternalLink {
	return append([]ExternalLink(nil), s.external...)
}

// BlogPosts returns the blog posts in discovery order.
func (s *CrawlState) BlogPosts() []BlogPost {
	return append([]BlogPost(nil), s.blogPosts...)
}

// SocialLinks returns the social links in discovery order.
func (s *CrawlState) SocialLinks() []string {
	return append([]string(nil), s.social...)
}

// MarkTruncated records that the crawl stopped before the frontier drained.
func (s *CrawlState) MarkTruncated() {
	s.truncated = true
}

// Truncated reports whether the crawl stopped before the frontier drained.
func (s *CrawlState) Truncated() bool {
	return s.truncated
}
