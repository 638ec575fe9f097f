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
	"strings"

	"go.uber.org/zap"
)

var anchorSelector = CSS("a")

// RegularPageHandler scans every anchor of a page. Social and external links
// are recorded, same-site links go to the frontier.
type RegularPageHandler struct {
	handlerBase
}

// Handle implements PageHandler.
func (h *RegularPageHandler) Handle(ctx context.Context, session Session, pageURL string) error {
	h.logger.Info("checking regular page", zap.String("url", pageURL))
	if err := h.load(ctx, session, pageURL); err != nil {
		return err
	}

	title, err := session.Title(ctx)
	if err != nil {
		h.recovered(pageURL, "title", StageTitle, err)
	}

	anchors, err := session.QueryAll(ctx, anchorSelector)
	if err != nil {
		h.recovered(pageURL, anchorSelector.String(), StageQuery, err)
		return nil
	}
	for _, anchor := range anchors {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		h.handleAnchor(ctx, pageURL, title, anchor)
	}
	return nil
}

func (h *RegularPageHandler) handleAnchor(ctx context.Context, pageURL, title string, anchor Element) {
	href, ok, err := anchor.Attribute(ctx, "href")
	if err != nil {
		h.recovered(pageURL, anchorSelector.String(), StageAnchor, err)
		return
	}
	if !ok || href == "" || strings.HasPrefix(href, "#") || h.classifier.MatchesSkipPattern(href) {
		return
	}

	switch {
	case IsAbsoluteHTTP(href) && !h.classifier.IsSameSite(href):
		if h.classifier.IsSocial(href) {
			h.state.RecordSocial(href)
			return
		}
		text, err := anchor.Text(ctx)
		if err != nil {
			h.recovered(pageURL, anchorSelector.String(), StageAnchor, err)
			return
		}
		link := ExternalLink{URL: href, Text: text, SourceURL: pageURL, PageTitle: title}
		h.locate(ctx, anchor, &link)
		h.state.RecordExternal(link)

	case h.classifier.IsSameSite(href):
		next := Normalize(href)
		if h.state.IsVisited(next) || h.state.IsQueued(next) || h.classifier.ShouldSkip(next) {
			return
		}
		h.state.Enqueue(next)
	}
}

// locate fills the optional position fields of link. Failures only cost
// the position, never the link.
func (h *RegularPageHandler) locate(ctx context.Context, anchor Element, link *ExternalLink) {
	if pt, err := anchor.BoundingBox(ctx); err == nil {
		link.Location = &pt
	} else if !errors.Is(err, ErrNoLayout) {
		h.logger.Debug("no bounding box for link", zap.String("url", link.URL), zap.Error(err))
	}
	if domPath, err := anchor.Path(ctx); err == nil {
		link.Position = classifyLinkPosition(domPath)
	}
}
