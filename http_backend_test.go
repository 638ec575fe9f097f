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
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStatic(t *testing.T, mock *MockTransport) Session {
	t.Helper()
	session, err := NewFetcher(FetcherOptions{Client: mock.Client(), UserAgent: "linkaudit-test"}).Open(context.Background(), BrowserStatic)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func TestStaticSessionQueries(t *testing.T) {
	mock := NewMockTransport()
	mock.RegisterHTML("https://example.com/page", `<html><head><title>  Page Title </title></head><body>
<main id="content"><p class="lead intro">Hello <b>big</b>
   world</p><a href="sub/child" data-kind="rel">Child</a></main>
</body></html>`)

	ctx := context.Background()
	session := openStatic(t, mock)
	require.NoError(t, session.Navigate(ctx, "https://example.com/page"))
	assert.Equal(t, "https://example.com/page", session.URL())

	title, err := session.Title(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Page Title", title)

	paragraphs, err := session.QueryAll(ctx, CSS("p"))
	require.NoError(t, err)
	require.Len(t, paragraphs, 1)
	text, err := paragraphs[0].Text(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Hello big world", text)

	links, err := session.QueryAll(ctx, XPath("//main//a"))
	require.NoError(t, err)
	require.Len(t, links, 1)

	href, ok, err := links[0].Attribute(ctx, "href")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "https://example.com/sub/child", href)

	kind, ok, err := links[0].Attribute(ctx, "data-kind")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "rel", kind)

	_, ok, err = links[0].Attribute(ctx, "title")
	require.NoError(t, err)
	assert.False(t, ok)

	path, err := links[0].Path(ctx)
	require.NoError(t, err)
	assert.Equal(t, "body > main#content > a", path)

	_, err = links[0].BoundingBox(ctx)
	assert.ErrorIs(t, err, ErrNoLayout)

	none, err := session.QueryAll(ctx, CSS("table"))
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStaticSessionBaseTag(t *testing.T) {
	mock := NewMockTransport()
	mock.RegisterHTML("https://example.com/base", `<html><head><base href="http://xy.com/" /></head><body><a href="z">link</a></body></html>`)
	mock.RegisterHTML("https://example.com/base_relative", `<html><head><base href="/foobar/" /></head><body><a href="z">link</a></body></html>`)

	ctx := context.Background()
	session := openStatic(t, mock)
	for page, want := range map[string]string{
		"https://example.com/base":          "http://xy.com/z",
		"https://example.com/base_relative": "https://example.com/foobar/z",
	} {
		require.NoError(t, session.Navigate(ctx, page))
		links, err := session.QueryAll(ctx, CSS("a"))
		require.NoError(t, err)
		require.Len(t, links, 1)
		href, _, err := links[0].Attribute(ctx, "href")
		require.NoError(t, err)
		assert.Equal(t, want, href, page)
	}
}

func TestStaticSessionFollowsRedirects(t *testing.T) {
	mock := NewMockTransport()
	mock.RegisterResponse("https://example.com/old", &MockResponse{
		StatusCode: http.StatusMovedPermanently,
		Headers:    http.Header{"Location": []string{"https://example.com/new"}},
	})
	mock.RegisterHTML("https://example.com/new", `<html><body><a href="next">n</a></body></html>`)

	ctx := context.Background()
	session := openStatic(t, mock)
	require.NoError(t, session.Navigate(ctx, "https://example.com/old"))
	assert.Equal(t, "https://example.com/new", session.URL())
}

func TestStaticSessionStaleElement(t *testing.T) {
	mock := NewMockTransport()
	mock.RegisterHTML("https://example.com/a", `<html><body><a href="/b">b</a></body></html>`)
	mock.RegisterHTML("https://example.com/b", `<html><body><p>b</p></body></html>`)

	ctx := context.Background()
	session := openStatic(t, mock)
	require.NoError(t, session.Navigate(ctx, "https://example.com/a"))
	links, err := session.QueryAll(ctx, CSS("a"))
	require.NoError(t, err)
	require.Len(t, links, 1)

	require.NoError(t, session.Navigate(ctx, "https://example.com/b"))
	_, _, err = links[0].Attribute(ctx, "href")
	assert.ErrorIs(t, err, ErrStaleElement)
	_, err = links[0].Text(ctx)
	assert.ErrorIs(t, err, ErrStaleElement)

	require.NoError(t, session.Close())
	require.NoError(t, session.Close())
	_, err = session.QueryAll(ctx, CSS("p"))
	assert.ErrorIs(t, err, ErrSessionClosed)
	assert.ErrorIs(t, session.Navigate(ctx, "https://example.com/a"), ErrSessionClosed)
}

func TestStaticSessionBeforeNavigate(t *testing.T) {
	session := openStatic(t, NewMockTransport())
	_, err := session.QueryAll(context.Background(), CSS("a"))
	assert.ErrorIs(t, err, ErrNoDocument)
	_, err = session.Title(context.Background())
	assert.ErrorIs(t, err, ErrNoDocument)
}

func TestStaticSessionWaitForSelector(t *testing.T) {
	mock := NewMockTransport()
	mock.RegisterHTML("https://example.com/", `<html><body><p>one</p></body></html>`)

	ctx := context.Background()
	session := openStatic(t, mock)
	require.NoError(t, session.Navigate(ctx, "https://example.com/"))
	assert.NoError(t, session.WaitForSelector(ctx, CSS("p"), time.Second))
	assert.ErrorIs(t, session.WaitForSelector(ctx, CSS("table"), time.Second), ErrSelectorTimeout)
}

func TestStaticSessionErrorStatusStillParses(t *testing.T) {
	mock := NewMockTransport()
	ctx := context.Background()
	session := openStatic(t, mock)
	require.NoError(t, session.Navigate(ctx, "https://example.com/nowhere"))
	title, err := session.Title(ctx)
	require.NoError(t, err)
	assert.Empty(t, title)
}

func TestStaticSessionNetworkError(t *testing.T) {
	mock := NewMockTransport()
	mock.RegisterError("https://example.com/", assert.AnError)
	session := openStatic(t, mock)
	assert.ErrorIs(t, session.Navigate(context.Background(), "https://example.com/"), assert.AnError)
}

func TestStaticSessionDecodesCharset(t *testing.T) {
	mock := NewMockTransport()
	mock.RegisterResponse("https://example.com/latin1", &MockResponse{
		Body:    "<html><body><p>caf\xe9</p></body></html>",
		Headers: http.Header{"Content-Type": []string{"text/html; charset=iso-8859-1"}},
	})

	ctx := context.Background()
	session := openStatic(t, mock)
	require.NoError(t, session.Navigate(ctx, "https://example.com/latin1"))
	ps, err := session.QueryAll(ctx, CSS("p"))
	require.NoError(t, err)
	require.Len(t, ps, 1)
	text, err := ps[0].Text(ctx)
	require.NoError(t, err)
	assert.Equal(t, "café", text)
}

func TestStaticSessionSendsUserAgent(t *testing.T) {
	mock := NewMockTransport()
	var got string
	mock.RegisterResponse("https://example.com/", &MockResponse{Body: "<html></html>"})
	client := &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		got = req.Header.Get("User-Agent")
		return mock.RoundTrip(req)
	})}

	session, err := NewFetcher(FetcherOptions{Client: client, UserAgent: "linkaudit-test"}).Open(context.Background(), BrowserStatic)
	require.NoError(t, err)
	defer session.Close()
	require.NoError(t, session.Navigate(context.Background(), "https://example.com/"))
	assert.Equal(t, "linkaudit-test", got)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }
