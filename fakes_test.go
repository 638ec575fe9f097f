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
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// fakePage is one document served by fakeSession. Elements are keyed by
// Selector.String().
type fakePage struct {
	title     string
	titleErr  error
	elements  map[string][]Element
	queryErrs map[string]error
}

// fakeSession is an in-memory Session for handler and crawler tests.
type fakeSession struct {
	pages    map[string]*fakePage
	navErrs  map[string]error
	current  *fakePage
	url      string
	visits   []string
	closed   int
	closeErr error
}

func newFakeSession() *fakeSession {
	return &fakeSession{pages: map[string]*fakePage{}, navErrs: map[string]error{}}
}

// page registers a page at u whose anchors are links.
func (s *fakeSession) page(u, title string, links ...Element) *fakePage {
	p := &fakePage{
		title:     title,
		elements:  map[string][]Element{anchorSelector.String(): links},
		queryErrs: map[string]error{},
	}
	s.pages[u] = p
	return p
}

func (s *fakeSession) Navigate(ctx context.Context, u string) error {
	if s.closed > 0 {
		return ErrSessionClosed
	}
	s.visits = append(s.visits, u)
	if err := s.navErrs[u]; err != nil {
		return err
	}
	p, ok := s.pages[u]
	if !ok {
		p = &fakePage{title: "Not Found"}
	}
	s.current, s.url = p, u
	return nil
}

func (s *fakeSession) WaitForSelector(ctx context.Context, sel Selector, timeout time.Duration) error {
	elems, err := s.QueryAll(ctx, sel)
	if err != nil {
		return err
	}
	if len(elems) == 0 {
		return ErrSelectorTimeout
	}
	return nil
}

func (s *fakeSession) QueryAll(ctx context.Context, sel Selector) ([]Element, error) {
	if s.current == nil {
		return nil, ErrNoDocument
	}
	if err := s.current.queryErrs[sel.String()]; err != nil {
		return nil, err
	}
	return s.current.elements[sel.String()], nil
}

func (s *fakeSession) Title(ctx context.Context) (string, error) {
	if s.current == nil {
		return "", ErrNoDocument
	}
	return s.current.title, s.current.titleErr
}

func (s *fakeSession) URL() string { return s.url }

func (s *fakeSession) Close() error {
	s.closed++
	return s.closeErr
}

// fakeElement is an Element with canned answers.
type fakeElement struct {
	attrs   map[string]string
	text    string
	attrErr error
	textErr error
	box     *Point
	path    string
}

func link(href, text string) *fakeElement {
	return &fakeElement{attrs: map[string]string{"href": href}, text: text}
}

func (e *fakeElement) Attribute(ctx context.Context, name string) (string, bool, error) {
	if e.attrErr != nil {
		return "", false, e.attrErr
	}
	v, ok := e.attrs[name]
	return v, ok, nil
}

func (e *fakeElement) Text(ctx context.Context) (string, error) {
	return e.text, e.textErr
}

func (e *fakeElement) BoundingBox(ctx context.Context) (Point, error) {
	if e.box == nil {
		return Point{}, ErrNoLayout
	}
	return *e.box, nil
}

func (e *fakeElement) Path(ctx context.Context) (string, error) {
	if e.path == "" {
		return "", errors.New("no path")
	}
	return e.path, nil
}

// fakeFetcher hands out a prepared session.
type fakeFetcher struct {
	session Session
	err     error
	kinds   []BrowserKind
}

func (f *fakeFetcher) Open(ctx context.Context, kind BrowserKind) (Session, error) {
	f.kinds = append(f.kinds, kind)
	if f.err != nil {
		return nil, f.err
	}
	return f.session, nil
}

// recordingWriter keeps every report it is given.
type recordingWriter struct {
	reports []*Report
	err     error
}

func (w *recordingWriter) WriteReport(ctx context.Context, r *Report) error {
	w.reports = append(w.reports, r)
	return w.err
}

func newObservedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return zap.New(core), logs
}

// testConfig returns a configuration for base with no settle delay.
func testConfig(base string) *Config {
	cfg := DefaultConfig()
	cfg.BaseURL = base
	cfg.SettleDelayMs = 0
	return cfg
}

func newTestBase(t *testing.T, cfg *Config, logger *zap.Logger) (handlerBase, *CrawlState) {
	t.Helper()
	classifier, err := NewClassifier(cfg)
	if err != nil {
		t.Fatalf("NewClassifier: %v", err)
	}
	state := NewCrawlState()
	return handlerBase{
		state:      state,
		classifier: classifier,
		settle:     cfg.SettleDelay(),
		logger:     logger,
	}, state
}
