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
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// BrowserKind names the backend a Fetcher opens sessions on.
type BrowserKind string

const (
	// BrowserChrome drives headless Chrome through chromedp.
	BrowserChrome BrowserKind = "chrome"
	// BrowserChromeHeadful drives a visible Chrome window.
	BrowserChromeHeadful BrowserKind = "chrome-headful"
	// BrowserStatic fetches pages over plain HTTP and parses them without running scripts.
	BrowserStatic BrowserKind = "static"
)

// SelectorKind tells a session how to interpret a Selector query.
type SelectorKind int

const (
	// ByCSS interprets the query as a CSS selector.
	ByCSS SelectorKind = iota
	// ByXPath interprets the query as an XPath expression.
	ByXPath
)

// Selector is a CSS or XPath element query.
type Selector struct {
	Query string
	Kind  SelectorKind
}

// CSS returns a CSS selector.
func CSS(query string) Selector { return Selector{Query: query, Kind: ByCSS} }

// XPath returns an XPath selector.
func XPath(query string) Selector { return Selector{Query: query, Kind: ByXPath} }

// ParseSelector reads a selector from configuration. A leading "xpath:"
// marks an XPath expression, anything else is CSS.
func ParseSelector(s string) Selector {
	if q, ok := strings.CutPrefix(s, "xpath:"); ok {
		return XPath(q)
	}
	return CSS(s)
}

func (s Selector) String() string {
	if s.Kind == ByXPath {
		return "xpath:" + s.Query
	}
	return s.Query
}

// Point is the top-left corner of an element's content box in CSS pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Fetcher opens browser sessions.
type Fetcher interface {
	Open(ctx context.Context, kind BrowserKind) (Session, error)
}

// Session is a single browser tab. It holds one document at a time, so
// callers must not use it from more than one goroutine.
type Session interface {
	// Navigate loads url and waits until the document is ready.
	Navigate(ctx context.Context, url string) error
	// WaitForSelector blocks until sel matches at least one element or timeout elapses.
	WaitForSelector(ctx context.Context, sel Selector, timeout time.Duration) error
	// QueryAll returns every element matching sel. No match is not an error.
	QueryAll(ctx context.Context, sel Selector) ([]Element, error)
	// Title returns the document title.
	Title(ctx context.Context) (string, error)
	// URL returns the address of the current document.
	URL() string
	// Close releases the session. It is safe to call more than once.
	Close() error
}

// Element is a handle to a node of the current document. Handles become
// stale once the session navigates elsewhere.
type Element interface {
	// Attribute returns the named attribute. href and src are resolved
	// against the document URL the way the DOM property is.
	Attribute(ctx context.Context, name string) (string, bool, error)
	// Text returns the rendered text with whitespace collapsed.
	Text(ctx context.Context) (string, error)
	// BoundingBox returns the element position, or ErrNoLayout.
	BoundingBox(ctx context.Context) (Point, error)
	// Path returns a descriptor path from body down to the element,
	// e.g. "body > nav.menu > ul > li > a".
	Path(ctx context.Context) (string, error)
}

// FetcherOptions configures the backends returned by NewFetcher.
type FetcherOptions struct {
	// Client is used by the static backend. Nil means a client with RequestTimeout.
	Client *http.Client
	// UserAgent is sent by the static backend and set on Chrome.
	UserAgent string
	// RequestTimeout bounds static fetches.
	RequestTimeout time.Duration
	// NavigationTimeout bounds a Chrome navigation. Zero means no bound.
	NavigationTimeout time.Duration
	// ExecPath overrides the Chrome binary location.
	ExecPath string
	// Logger receives backend diagnostics.
	Logger *zap.Logger
}

type fetcher struct {
	opts FetcherOptions
}

// NewFetcher returns a Fetcher able to open every BrowserKind.
func NewFetcher(opts FetcherOptions) Fetcher {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &fetcher{opts: opts}
}

func (f *fetcher) Open(ctx context.Context, kind BrowserKind) (Session, error) {
	switch kind {
	case BrowserChrome, BrowserChromeHeadful:
		return openChromeSession(ctx, kind == BrowserChrome, f.opts)
	case BrowserStatic:
		return newStaticSession(f.opts), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBrowser, kind)
	}
}
