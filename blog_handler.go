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

	"go.uber.org/zap"
)

// BlogListingHandler reads a paginated blog index: it records the posts
// listed on the page and queues the other listing pages.
type BlogListingHandler struct {
	handlerBase
	post       Selector
	nextPage   Selector
	pagination Selector
}

// Handle implements PageHandler.
func (h *BlogListingHandler) Handle(ctx context.Context, session Session, pageURL string) error {
	h.logger.Info("checking blog page", zap.String("url", pageURL))
	if err := h.load(ctx, session, pageURL); err != nil {
		return err
	}

	h.collectPosts(ctx, session, pageURL)
	h.queueNextPage(ctx, session, pageURL)
	h.queuePagination(ctx, session, pageURL)
	return ctx.Err()
}

func (h *BlogListingHandler) collectPosts(ctx context.Context, session Session, pageURL string) {
	posts, err := session.QueryAll(ctx, h.post)
	if err != nil {
		h.recovered(pageURL, h.post.String(), StageQuery, err)
		return
	}
	for _, post := range posts {
		href, ok, err := post.Attribute(ctx, "href")
		if err != nil {
			h.recovered(pageURL, h.post.String(), StageBlogPost, err)
			continue
		}
		if !ok || href == "" {
			continue
		}
		title, err := post.Text(ctx)
		if err != nil {
			h.recovered(pageURL, h.post.String(), StageBlogPost, err)
			continue
		}
		if h.state.RecordBlogPost(href, title) {
			h.logger.Info("found blog post", zap.String("url", href), zap.String("title", title))
		}
	}
}

func (h *BlogListingHandler) queueNextPage(ctx context.Context, session Session, pageURL string) {
	links, err := session.QueryAll(ctx, h.nextPage)
	if err != nil {
		h.recovered(pageURL, h.nextPage.String(), StageNextPage, err)
		return
	}
	if len(links) == 0 {
		return
	}
	href, ok, err := links[0].Attribute(ctx, "href")
	if err != nil {
		h.recovered(pageURL, h.nextPage.String(), StageNextPage, err)
		return
	}
	if ok && href != "" && h.classifier.IsSameSite(href) && !h.state.IsVisited(href) {
		h.state.Enqueue(href)
		h.logger.Debug("found next page", zap.String("url", href))
	}
}

// queuePagination queues every numbered page. The next page is usually
// among them; the duplicate is dropped when it is dequeued.
func (h *BlogListingHandler) queuePagination(ctx context.Context, session Session, pageURL string) {
	links, err := session.QueryAll(ctx, h.pagination)
	if err != nil {
		h.recovered(pageURL, h.pagination.String(), StagePagination, err)
		return
	}
	for _, link := range links {
		href, ok, err := link.Attribute(ctx, "href")
		if err != nil {
			h.recovered(pageURL, h.pagination.String(), StagePagination, err)
			continue
		}
		if ok && href != "" && h.classifier.IsSameSite(href) && !h.state.IsVisited(href) {
			h.state.Enqueue(href)
			h.logger.Debug("added page to queue", zap.String("url", href))
		}
	}
}
