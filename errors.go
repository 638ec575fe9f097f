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
	"errors"
	"fmt"
)

var (
	// ErrFrontierEmpty is returned by CrawlState.Dequeue when no URL is waiting.
	ErrFrontierEmpty = errors.New("frontier is empty")
	// ErrNoLayout is returned by Element.BoundingBox for backends that do not lay out pages.
	ErrNoLayout = errors.New("backend has no layout information")
	// ErrUnknownBrowser is returned when a session is requested for an unsupported browser kind.
	ErrUnknownBrowser = errors.New("unknown browser kind")
	// ErrSessionClosed is returned by session operations after Close.
	ErrSessionClosed = errors.New("session is closed")
	// ErrNoDocument is returned by session queries before the first successful navigation.
	ErrNoDocument = errors.New("no document loaded")
	// ErrStaleElement is returned by element reads after the session left the element's document.
	ErrStaleElement = errors.New("element is no longer attached to the current document")
	// ErrSelectorTimeout is returned by WaitForSelector when nothing matched in time.
	ErrSelectorTimeout = errors.New("timed out waiting for selector")
)

// Extraction stages reported in ExtractionError.
const (
	StageAnchor     = "anchor"
	StageBlogPost   = "blog-post"
	StageNextPage   = "next-page"
	StagePagination = "pagination"
	StageParagraph  = "paragraph"
	StageQuery      = "query"
	StageTitle      = "title"
)

// ExtractionError describes an element-level or page-level failure that was
// recovered from. The crawl keeps going after one of these.
type ExtractionError struct {
	URL      string
	Selector string
	Stage    string
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s extraction failed on %s (selector %q): %v", e.Stage, e.URL, e.Selector, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
