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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkVisitedOnce(t *testing.T) {
	s := NewCrawlState()
	assert.True(t, s.MarkVisited("https://example.com/about/"))
	assert.False(t, s.MarkVisited("https://example.com/about"))
	assert.True(t, s.IsVisited("https://example.com/about//"))
	assert.Equal(t, 1, s.VisitedCount())
	assert.Equal(t, []string{"https://example.com/about"}, s.Visited())
}

func TestFrontierFIFO(t *testing.T) {
	s := NewCrawlState()
	s.Enqueue("https://example.com/a")
	s.Enqueue("https://example.com/b")
	s.Enqueue("https://example.com/a/")

	assert.Equal(t, 3, s.FrontierLen())
	assert.True(t, s.IsQueued("https://example.com/a"))

	for _, want := range []string{"https://example.com/a", "https://example.com/b", "https://example.com/a/"} {
		got, err := s.Dequeue()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	assert.False(t, s.IsQueued("https://example.com/a"))

	_, err := s.Dequeue()
	assert.ErrorIs(t, err, ErrFrontierEmpty)
}

func TestIsQueuedCountsDuplicates(t *testing.T) {
	s := NewCrawlState()
	s.Enqueue("https://example.com/a")
	s.Enqueue("https://example.com/a")

	_, err := s.Dequeue()
	require.NoError(t, err)
	assert.True(t, s.IsQueued("https://example.com/a"), "one copy is still waiting")

	_, err = s.Dequeue()
	require.NoError(t, err)
	assert.False(t, s.IsQueued("https://example.com/a"))
}

func TestFrontierReturnsCopy(t *testing.T) {
	s := NewCrawlState()
	s.Enqueue("https://example.com/a")
	f := s.Frontier()
	f[0] = "changed"
	assert.Equal(t, []string{"https://example.com/a"}, s.Frontier())
}

func TestRecordExternalDedup(t *testing.T) {
	s := NewCrawlState()
	assert.True(t, s.RecordExternal(ExternalLink{URL: "https://other.com/y", Text: "Other"}))
	assert.False(t, s.RecordExternal(ExternalLink{URL: "https://other.com/y", Text: "Other", SourceURL: "https://example.com/b"}))
	assert.Len(t, s.ExternalLinks(), 1)

	assert.True(t, s.RecordExternal(ExternalLink{URL: "https://other.com/y", Text: "Different"}))
	assert.Len(t, s.ExternalLinks(), 2)
	assert.Empty(t, s.ExternalLinks()[0].SourceURL, "the first record is kept")
}

func TestRecordBlogPostFirstTitleWins(t *testing.T) {
	s := NewCrawlState()
	assert.True(t, s.RecordBlogPost("https://example.com/blog/p", "First"))
	assert.False(t, s.RecordBlogPost("https://example.com/blog/p", "Second"))
	assert.True(t, s.HasBlogPost("https://example.com/blog/p"))

	title, ok := s.BlogPostTitle("https://example.com/blog/p")
	require.True(t, ok)
	assert.Equal(t, "First", title)

	_, ok = s.BlogPostTitle("https://example.com/blog/missing")
	assert.False(t, ok)
}

func TestRecordSocialIsASet(t *testing.T) {
	s := NewCrawlState()
	assert.True(t, s.RecordSocial("https://facebook.com/x"))
	assert.False(t, s.RecordSocial("https://facebook.com/x"))
	assert.True(t, s.RecordSocial("https://twitter.com/x"))
	assert.Equal(t, []string{"https://facebook.com/x", "https://twitter.com/x"}, s.SocialLinks())
}

func TestTruncated(t *testing.T) {
	s := NewCrawlState()
	assert.False(t, s.Truncated())
	s.MarkTruncated()
	assert.True(t, s.Truncated())
}
