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
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// domPathJS builds the same descriptor path as buildDOMPath, in the page.
const domPathJS = `function() {
	const parts = [];
	for (let el = this; el && el.nodeType === 1 && el.localName !== 'html'; el = el.parentElement) {
		let d = el.localName;
		const role = el.getAttribute('role');
		if (role) d += '[role="' + role + '"]';
		if (el.id) d += '#' + el.id;
		const cls = (el.getAttribute('class') || '').trim().split(/\s+/)[0];
		if (cls) d += '.' + cls;
		parts.unshift(d);
	}
	return parts.join(' > ');
}`

const innerTextJS = `function() { return this.innerText || this.textContent || ''; }`

const getAttributeJS = `function(name) { return this.getAttribute(name); }`

// propertyJS reads the DOM property, which holds the resolved URL for href
// and src, like a WebDriver getAttribute call.
const propertyJS = `function(name) { const v = this[name]; return (typeof v === 'string') ? v : this.getAttribute(name); }`

// chromeSession is a Session backed by one Chrome tab.
type chromeSession struct {
	allocCancel context.CancelFunc
	ctx         context.Context
	cancel      context.CancelFunc
	navTimeout  time.Duration
	logger      *zap.Logger

	url    string
	closed bool
}

// openChromeSession starts a browser and a tab. The browser is killed when
// the session is closed.
func openChromeSession(ctx context.Context, headless bool, opts FetcherOptions) (*chromeSession, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(1920, 1080),
	)
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}

	// The browser lives as long as the session, not as long as ctx.
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.WithoutCancel(ctx), allocOpts...)
	tabCtx, cancel := chromedp.NewContext(allocCtx)

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &chromeSession{
		allocCancel: allocCancel,
		ctx:         tabCtx,
		cancel:      cancel,
		navTimeout:  opts.NavigationTimeout,
		logger:      logger,
	}

	// An empty Run starts the browser so launch failures surface here. It must
	// run on the tab context itself: the first Run allocates the browser and a
	// shorter-lived context would take the browser down with it.
	if err := chromedp.Run(tabCtx); err != nil {
		s.Close()
		return nil, fmt.Errorf("start chrome: %w", err)
	}
	return s, nil
}

// run executes actions on the tab, aborting when ctx is done.
func (s *chromeSession) run(ctx context.Context, actions ...chromedp.Action) error {
	if s.closed {
		return ErrSessionClosed
	}
	runCtx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	return chromedp.Run(runCtx, actions...)
}

func (s *chromeSession) Navigate(ctx context.Context, u string) error {
	if s.navTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.navTimeout)
		defer cancel()
	}
	var location string
	err := s.run(ctx,
		chromedp.Navigate(u),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Location(&location),
	)
	if err != nil {
		return fmt.Errorf("navigate to %s: %w", u, err)
	}
	s.url = location
	return nil
}

func (s *chromeSession) WaitForSelector(ctx context.Context, sel Selector, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	err := s.run(ctx, chromedp.WaitReady(sel.Query, queryOption(sel)))
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s after %s", ErrSelectorTimeout, sel, timeout)
	}
	return err
}

func (s *chromeSession) QueryAll(ctx context.Context, sel Selector) ([]Element, error) {
	var nodes []*cdp.Node
	err := s.run(ctx, chromedp.Nodes(sel.Query, &nodes, queryOption(sel), chromedp.AtLeast(0)))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", sel, err)
	}
	elems := make([]Element, 0, len(nodes))
	for _, n := range nodes {
		elems = append(elems, &chromeElement{session: s, node: n})
	}
	return elems, nil
}

func (s *chromeSession) Title(ctx context.Context) (string, error) {
	var title string
	if err := s.run(ctx, chromedp.Title(&title)); err != nil {
		return "", fmt.Errorf("read title: %w", err)
	}
	return title, nil
}

func (s *chromeSession) URL() string {
	return s.url
}

func (s *chromeSession) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	// Cancelling the tab context closes the tab, cancelling the allocator kills Chrome.
	s.cancel()
	s.allocCancel()
	s.logger.Debug("chrome session closed")
	return nil
}

func queryOption(sel Selector) chromedp.QueryOption {
	if sel.Kind == ByXPath {
		return chromedp.BySearch
	}
	return chromedp.ByQueryAll
}

type chromeElement struct {
	session *chromeSession
	node    *cdp.Node
}

// call runs fn with the element bound to this and decodes the returned value into res.
func (e *chromeElement) call(ctx context.Context, fn string, res any, args ...any) error {
	return e.session.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		obj, err := dom.ResolveNode().WithBackendNodeID(e.node.BackendNodeID).Do(ctx)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrStaleElement, err)
		}
		defer runtime.ReleaseObject(obj.ObjectID).Do(ctx)

		callArgs := make([]*runtime.CallArgument, 0, len(args))
		for _, arg := range args {
			raw, err := json.Marshal(arg)
			if err != nil {
				return err
			}
			callArgs = append(callArgs, &runtime.CallArgument{Value: raw})
		}

		value, exception, err := runtime.CallFunctionOn(fn).
			WithObjectID(obj.ObjectID).
			WithArguments(callArgs).
			WithReturnByValue(true).
			Do(ctx)
		if err != nil {
			return err
		}
		if exception != nil {
			return fmt.Errorf("evaluate on element: %s", exception.Text)
		}
		if len(value.Value) == 0 {
			return nil
		}
		return json.Unmarshal(value.Value, res)
	}))
}

func (e *chromeElement) Attribute(ctx context.Context, name string) (string, bool, error) {
	fn := getAttributeJS
	if isURLAttribute(name) {
		fn = propertyJS
	}
	var v *string
	if err := e.call(ctx, fn, &v, name); err != nil {
		return "", false, err
	}
	if v == nil {
		return "", false, nil
	}
	return *v, true, nil
}

func (e *chromeElement) Text(ctx context.Context) (string, error) {
	var text string
	if err := e.call(ctx, innerTextJS, &text); err != nil {
		return "", err
	}
	return collapseWhitespace(text), nil
}

func (e *chromeElement) BoundingBox(ctx context.Context) (Point, error) {
	var box *dom.BoxModel
	err := e.session.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		box, err = dom.GetBoxModel().WithBackendNodeID(e.node.BackendNodeID).Do(ctx)
		return err
	}))
	if err != nil {
		return Point{}, err
	}
	if box == nil || len(box.Content) < 2 {
		return Point{}, ErrNoLayout
	}
	return Point{X: box.Content[0], Y: box.Content[1]}, nil
}

func (e *chromeElement) Path(ctx context.Context) (string, error) {
	var p string
	if err := e.call(ctx, domPathJS, &p); err != nil {
		return "", err
	}
	return p, nil
}
