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
	"time"

	"go.uber.org/zap"
)

// PageHandler processes one page that the crawler has already marked as
// visited. A returned error means the session is unusable and the crawl
// must stop; anything smaller is recovered inside the handler.
type PageHandler interface {
	Handle(ctx context.Context, session Session, pageURL string) error
}

// handlerBase holds what both page strategies share.
type handlerBase struct {
	state      *CrawlState
	classifier *Classifier
	settle     time.Duration
	logger     *zap.Logger
	onError    func(*ExtractionError)
}

// load navigates to pageURL and gives client-side scripts settle time to
// update the DOM.
func (h *handlerBase) load(ctx context.Context, session Session, pageURL string) error {
	if err := session.Navigate(ctx, pageURL); err != nil {
		return err
	}
	if h.settle <= 0 {
		return nil
	}
	timer := time.NewTimer(h.settle)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// recovered logs a failure the handler has chosen to continue past.
func (h *handlerBase) recovered(pageURL, selector, stage string, err error) {
	extractionErr := &ExtractionError{URL: pageURL, Selector: selector, Stage: stage, Err: err}
	h.logger.Warn("extraction failed",
		zap.String("url", pageURL),
		zap.String("selector", selector),
		zap.String("stage", stage),
		zap.Error(err),
	)
	if h.onError != nil {
		h.onError(extractionErr)
	}
}
