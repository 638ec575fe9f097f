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

	"github.com/antchfx/xmlquery"
)

// maxSitemapDepth bounds how far sitemap indexes are followed.
const maxSitemapDepth = 3

// FetchSitemapURLs returns the page URLs listed by the sitemap at
// sitemapURL, following sitemap indexes.
func FetchSitemapURLs(ctx context.Context, client *http.Client, sitemapURL string) ([]string, error) {
	if client == nil {
		client = &http.Client{Timeout: defaultRequestTimeout}
	}
	var out []string
	seen := map[string]bool{}
	if err := fetchSitemap(ctx, client, sitemapURL, 0, seen, &out); err != nil {
		return out, err
	}
	return out, nil
}

func fetchSitemap(ctx context.Context, client *http.Client, sitemapURL string, depth int, seen map[string]bool, out *[]string) error {
	if seen[sitemapURL] || depth > maxSitemapDepth {
		return nil
	}
	seen[sitemapURL] = true

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sitemapURL, nil)
	if err != nil {
		return fmt.Errorf("build sitemap request: %w", err)
	}
	res, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch sitemap %s: %w", sitemapURL, err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch sitemap %s: status %d", sitemapURL, res.StatusCode)
	}

	doc, err := xmlquery.Parse(res.Body)
	if err != nil {
		return fmt.Errorf("parse sitemap %s: %w", sitemapURL, err)
	}

	// local-name() keeps the queries independent of the sitemap namespace.
	if xmlquery.FindOne(doc, "/*[local-name()='sitemapindex']") != nil {
		for _, loc := range xmlquery.Find(doc, "//*[local-name()='sitemap']/*[local-name()='loc']") {
			child := strings.TrimSpace(loc.InnerText())
			if child == "" {
				continue
			}
			if err := fetchSitemap(ctx, client, child, depth+1, seen, out); err != nil {
				return err
			}
		}
		return nil
	}

	for _, loc := range xmlquery.Find(doc, "//*[local-name()='url']/*[local-name()='loc']") {
		if u := strings.TrimSpace(loc.InnerText()); u != "" {
			*out = append(*out, u)
		}
	}
	return nil
}
