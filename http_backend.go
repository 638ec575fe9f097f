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
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"github.com/saintfish/chardet"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

const (
	defaultMaxBodySize    = 10 * 1024 * 1024
	defaultRequestTimeout = 10 * time.Second
)

// staticSession is a Session over plain HTTP. Scripts are not run, so only
// the markup served by the site is visible.
type staticSession struct {
	client    *http.Client
	userAgent string
	logger    *zap.Logger

	doc     *goquery.Document
	url     string
	baseURL string
	// generation changes on every navigation so older elements can detect
	// that their document is gone.
	generation int
	closed     bool
}

func newStaticSession(opts FetcherOptions) *staticSession {
	client := opts.Client
	if client == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = defaultRequestTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &staticSession{
		client:    client,
		userAgent: opts.UserAgent,
		logger:    logger,
	}
}

func (s *staticSession) Navigate(ctx context.Context, u string) error {
	if s.closed {
		return ErrSessionClosed
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request for %s: %w", u, err)
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	trace := &pageTrace{}
	res, err := s.client.Do(trace.withTrace(req))
	if err != nil {
		return fmt.Errorf("navigate to %s: %w", u, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, defaultMaxBodySize))
	if err != nil {
		return fmt.Errorf("read %s: %w", u, err)
	}
	s.logger.Debug("fetched page", append(trace.fields(), zap.String("url", u), zap.Int("status", res.StatusCode))...)
	if res.StatusCode >= 400 {
		// A browser renders error pages too; keep going with whatever markup came back.
		s.logger.Debug("page returned error status", zap.String("url", u), zap.Int("status", res.StatusCode))
	}

	root, err := html.Parse(decodeBody(body, res.Header.Get("Content-Type")))
	if err != nil {
		return fmt.Errorf("parse %s: %w", u, err)
	}

	s.generation++
	s.doc = goquery.NewDocumentFromNode(root)
	s.url = u
	if res.Request != nil && res.Request.URL != nil {
		s.url = res.Request.URL.String()
	}
	s.baseURL = s.url
	if href, found := s.doc.Find("base[href]").Attr("href"); found {
		s.baseURL = ResolveReference(s.url, href)
	}
	return nil
}

// decodeBody converts body to UTF-8. The Content-Type charset wins; without
// one the encoding is detected from the bytes.
func decodeBody(body []byte, contentType string) io.Reader {
	if strings.Contains(strings.ToLower(contentType), "charset=") {
		if r, err := charset.NewReader(bytes.NewReader(body), contentType); err == nil {
			return r
		}
	}
	result, err := chardet.NewTextDetector().DetectBest(body)
	if err != nil || result == nil || strings.EqualFold(result.Charset, "UTF-8") {
		return bytes.NewReader(body)
	}
	if r, err := charset.NewReaderLabel(result.Charset, bytes.NewReader(body)); err == nil {
		return r
	}
	return bytes.NewReader(body)
}

func (s *staticSession) WaitForSelector(ctx context.Context, sel Selector, timeout time.Duration) error {
	// The document never changes after it is parsed, so one look is enough.
	elems, err := s.QueryAll(ctx, sel)
	if err != nil {
		return err
	}
	if len(elems) == 0 {
		return fmt.Errorf("%w: %s after %s", ErrSelectorTimeout, sel, timeout)
	}
	return nil
}

func (s *staticSession) QueryAll(ctx context.Context, sel Selector) ([]Element, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	if s.doc == nil {
		return nil, ErrNoDocument
	}

	var nodes []*html.Node
	switch sel.Kind {
	case ByXPath:
		found, err := htmlquery.QueryAll(s.doc.Nodes[0], sel.Query)
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", sel, err)
		}
		nodes = found
	default:
		nodes = s.doc.Find(sel.Query).Nodes
	}

	elems := make([]Element, 0, len(nodes))
	for _, n := range nodes {
		elems = append(elems, &staticElement{session: s, node: n, generation: s.generation})
	}
	return elems, nil
}

func (s *staticSession) Title(ctx context.Context) (string, error) {
	if s.closed {
		return "", ErrSessionClosed
	}
	if s.doc == nil {
		return "", ErrNoDocument
	}
	return strings.TrimSpace(s.doc.Find("title").First().Text()), nil
}

func (s *staticSession) URL() string {
	return s.url
}

func (s *staticSession) Close() error {
	s.closed = true
	s.doc = nil
	return nil
}

type staticElement struct {
	session    *staticSession
	node       *html.Node
	generation int
}

func (e *staticElement) check() error {
	if e.session.closed {
		return ErrSessionClosed
	}
	if e.generation != e.session.generation {
		return ErrStaleElement
	}
	return nil
}

func (e *staticElement) Attribute(ctx context.Context, name string) (string, bool, error) {
	if err := e.check(); err != nil {
		return "", false, err
	}
	for _, attr := range e.node.Attr {
		if !strings.EqualFold(attr.Key, name) {
			continue
		}
		if isURLAttribute(name) {
			return ResolveReference(e.session.baseURL, attr.Val), true, nil
		}
		return attr.Val, true, nil
	}
	return "", false, nil
}

func (e *staticElement) Text(ctx context.Context) (string, error) {
	if err := e.check(); err != nil {
		return "", err
	}
	return collapseWhitespace(htmlquery.InnerText(e.node)), nil
}

func (e *staticElement) BoundingBox(ctx context.Context) (Point, error) {
	if err := e.check(); err != nil {
		return Point{}, err
	}
	return Point{}, ErrNoLayout
}

func (e *staticElement) Path(ctx context.Context) (string, error) {
	if err := e.check(); err != nil {
		return "", err
	}
	return buildDOMPath(e.node), nil
}

func isURLAttribute(name string) bool {
	switch strings.ToLower(name) {
	case "href", "src", "action":
		return true
	}
	return false
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
