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
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Link positions reported on external links.
const (
	PositionContent     = "content"
	PositionBreadcrumbs = "breadcrumbs"
	PositionPagination  = "pagination"
	PositionNavigation  = "navigation"
	PositionHeader      = "header"
	PositionFooter      = "footer"
	PositionSidebar     = "sidebar"
	PositionUnknown     = "unknown"
)

// buildDOMPath constructs a simplified DOM path from the node up to the body.
// Returns a path like `body > main > article > p > a`. Each step carries the
// role, id and first class of the element when present.
func buildDOMPath(n *html.Node) string {
	var pathParts []string

	current := goquery.NewDocumentFromNode(n).Selection
	for current.Length() > 0 {
		nodeName := goquery.NodeName(current)
		if nodeName == "html" || nodeName == "#document" {
			break
		}

		descriptor := nodeName
		if role, exists := current.Attr("role"); exists && role != "" {
			descriptor += `[role="` + role + `"]`
		}
		if id, exists := current.Attr("id"); exists && id != "" {
			descriptor += "#" + id
		}
		if class, exists := current.Attr("class"); exists && class != "" {
			if classes := strings.Fields(class); len(classes) > 0 {
				descriptor += "." + classes[0]
			}
		}

		pathParts = append([]string{descriptor}, pathParts...)
		current = current.Parent()
	}

	return strings.Join(pathParts, " > ")
}

// classifyLinkPosition classifies a link from its DOM path. Ancestors are
// inspected from the closest one outwards; the first one that looks like a
// semantic container decides. When none does, the whole path, including
// the link itself, is searched for the same markers.
func classifyLinkPosition(domPath string) string {
	if domPath == "" {
		return PositionUnknown
	}
	steps := strings.Split(domPath, " > ")

	// The last step is the link itself.
	for i := len(steps) - 2; i >= 0; i-- {
		step := strings.ToLower(strings.TrimSpace(steps[i]))
		nodeName := stepNodeName(step)

		if nodeName == "main" || nodeName == "article" ||
			strings.Contains(step, `[role="main"]`) || strings.Contains(step, `[role="article"]`) {
			return PositionContent
		}
		if strings.Contains(step, "breadcrumb") {
			return PositionBreadcrumbs
		}
		if strings.Contains(step, "pagination") || strings.Contains(step, "pager") ||
			strings.Contains(step, "page-number") {
			return PositionPagination
		}
		if nodeName == "nav" || strings.Contains(step, `[role="navigation"]`) ||
			strings.Contains(step, "nav") || strings.Contains(step, "menu") {
			return PositionNavigation
		}
		if nodeName == "header" || strings.Contains(step, `[role="banner"]`) ||
			strings.Contains(step, "header") || strings.Contains(step, "masthead") ||
			strings.Contains(step, "topbar") {
			return PositionHeader
		}
		if nodeName == "footer" || strings.Contains(step, `[role="contentinfo"]`) ||
			strings.Contains(step, "footer") {
			return PositionFooter
		}
		if nodeName == "aside" || strings.Contains(step, `[role="complementary"]`) ||
			strings.Contains(step, "sidebar") {
			return PositionSidebar
		}
	}

	// No ancestor decided; the link's own classes may still hint at a region.
	path := strings.ToLower(domPath)
	switch {
	case strings.Contains(path, "breadcrumb"):
		return PositionBreadcrumbs
	case strings.Contains(path, "pagination") || strings.Contains(path, "pager") ||
		strings.Contains(path, "page-number"):
		return PositionPagination
	case strings.Contains(path, "nav") || strings.Contains(path, "menu"):
		return PositionNavigation
	case strings.Contains(path, "header") || strings.Contains(path, "masthead") ||
		strings.Contains(path, "topbar"):
		return PositionHeader
	case strings.Contains(path, "footer"):
		return PositionFooter
	case strings.Contains(path, "sidebar") || strings.Contains(path, "aside"):
		return PositionSidebar
	case strings.Contains(path, "main") || strings.Contains(path, "article"):
		return PositionContent
	}
	return PositionUnknown
}

// stepNodeName returns the tag name of a path step such as `nav#main.menu`.
func stepNodeName(step string) string {
	end := strings.IndexAny(step, "[#.")
	if end < 0 {
		return step
	}
	return step[:end]
}
