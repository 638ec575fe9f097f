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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentberlin/linkaudit/testutil"
)

func TestScrapeParagraphs(t *testing.T) {
	srv := testutil.NewSiteServer()
	defer srv.Close()

	session, err := NewFetcher(FetcherOptions{}).Open(context.Background(), BrowserStatic)
	require.NoError(t, err)
	defer session.Close()

	paragraphs, err := ScrapeParagraphs(context.Background(), session, srv.URL+"/about", time.Second)
	require.NoError(t, err)
	assert.Equal(t, []string{"First paragraph.", "Second paragraph."}, paragraphs)
	assert.Equal(t, "First paragraph.\n\nSecond paragraph.", JoinParagraphs(paragraphs))
}

func TestScrapeParagraphsNoParagraphs(t *testing.T) {
	mock := NewMockTransport()
	mock.RegisterHTML("https://example.com/empty", `<html><body><div>no paragraphs</div></body></html>`)
	session := openStatic(t, mock)

	_, err := ScrapeParagraphs(context.Background(), session, "https://example.com/empty", 0)
	var extractionErr *ExtractionError
	require.True(t, errors.As(err, &extractionErr))
	assert.Equal(t, "p", extractionErr.Selector)
	assert.ErrorIs(t, err, ErrSelectorTimeout)
}

func TestScrapeParagraphsNavigationFailure(t *testing.T) {
	session := newFakeSession()
	session.navErrs["https://example.com/"] = assert.AnError

	_, err := ScrapeParagraphs(context.Background(), session, "https://example.com/", time.Second)
	assert.ErrorIs(t, err, assert.AnError)
}
