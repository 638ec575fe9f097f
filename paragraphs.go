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
	"strings"
	"time"
)

// DefaultParagraphTimeout is how long ScrapeParagraphs waits for the first
// paragraph to appear.
const DefaultParagraphTimeout = 10 * time.Second

var paragraphSelector = CSS("p")

// ScrapeParagraphs loads pageURL and returns the text of every non-blank
// paragraph in document order.
func ScrapeParagraphs(ctx context.Context, session Session, pageURL string, timeout time.Duration) ([]string, error) {
	if timeout <= 0 {
		timeout = DefaultParagraphTimeout
	}
	if err := session.Navigate(ctx, pageURL); err != nil {
		return nil, fmt.Errorf("navigate to %s: %w", pageURL, err)
	}
	if err := session.WaitForSelector(ctx, paragraphSelector, timeout); err != nil {
		return nil, &ExtractionError{URL: pageURL, Selector: paragraphSelector.String(), Stage: StageQuery, Err: err}
	}

	elements, err := session.QueryAll(ctx, paragraphSelector)
	if err != nil {
		return nil, &ExtractionError{URL: pageURL, Selector: paragraphSelector.String(), Stage: StageQuery, Err: err}
	}

	var paragraphs []string
	for _, el := range elements {
		text, err := el.Text(ctx)
		if err != nil {
			return nil, &ExtractionError{URL: pageURL, Selector: paragraphSelector.String(), Stage: StageParagraph, Err: err}
		}
		if text = strings.TrimSpace(text); text != "" {
			paragraphs = append(paragraphs, text)
		}
	}
	return paragraphs, nil
}

// JoinParagraphs joins paragraphs with a blank line between each.
func JoinParagraphs(paragraphs []string) string {
	return strings.Join(paragraphs, "\n\n")
}
