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
)

// NavCheck is one expected menu entry. A check with a Parent looks for the
// entry inside the menu item labelled Parent. An empty ExpectedPath accepts
// any href.
type NavCheck struct {
	Text         string `yaml:"text" json:"text"`
	ExpectedPath string `yaml:"expected_path" json:"expected_path,omitempty"`
	Parent       string `yaml:"parent,omitempty" json:"parent,omitempty"`
}

// NavResult is the outcome of a NavCheck. Err holds a failed lookup, which
// is reported separately from an entry that is simply missing.
type NavResult struct {
	NavCheck
	Found bool             `json:"found"`
	Href  string           `json:"href,omitempty"`
	OK    bool             `json:"ok"`
	Err   *ExtractionError `json:"-"`
}

// DefaultNavChecks is the main menu of the default site.
var DefaultNavChecks = []NavCheck{
	{Text: "Home", ExpectedPath: "/"},
	{Text: "About", ExpectedPath: "/about"},
	{Text: "Services", ExpectedPath: "/services"},
	{Text: "Blogs", ExpectedPath: "/blogs"},
	{Text: "Clients", ExpectedPath: "/clients"},
	{Text: "Privacy Policy", ExpectedPath: "/privacy-policy"},
	{Text: "Contact Us", ExpectedPath: "/contact"},
}

// DefaultSubmenuChecks are the About and Services dropdowns of the default
// site. Service entries must link below /services/ using their slug.
var DefaultSubmenuChecks = append(
	SubmenuChecks("About", "", "Sustainability Commitment", "Equal Opportunity Employer"),
	SubmenuChecks("Services", "/services",
		"Penetration Testing",
		"Zero Trust Assessment",
		"Solution Architecture",
		"Enterprise Architecture",
		"Virtual CISO",
		"Security Strategy",
		"Security Awareness And Training",
		"ISMS Design & Implementation",
		"Vulnerability Management",
		"Secure By Design",
		"Compliance Audits And Assessments",
		"Threat And Risk Assessment",
		"Security Operations Center",
	)...,
)

// SubmenuChecks builds checks for the entries of the parent menu item. With
// a non-empty pathPrefix each entry must link to MenuPath(pathPrefix, item).
func SubmenuChecks(parent, pathPrefix string, items ...string) []NavCheck {
	checks := make([]NavCheck, 0, len(items))
	for _, item := range items {
		check := NavCheck{Text: item, Parent: parent}
		if pathPrefix != "" {
			check.ExpectedPath = MenuPath(pathPrefix, item)
		}
		checks = append(checks, check)
	}
	return checks
}

// MenuPath returns the path a menu label is published under: the label
// lowercased with spaces turned into dashes, below prefix.
//
//	MenuPath("/services", "Virtual CISO") == "/services/virtual-ciso"
func MenuPath(prefix, label string) string {
	slug := strings.ReplaceAll(strings.ToLower(label), " ", "-")
	return strings.TrimRight(prefix, "/") + "/" + slug
}

// VerifyNavigation loads pageURL and checks that each menu entry exists
// inside a <nav> and links to a URL containing its expected path. Only
// navigation failures are returned as errors; failed lookups land in
// NavResult.Err.
//
// Presence in the markup is checked, not visibility, so dropdown entries
// are found without hovering their parent.
func VerifyNavigation(ctx context.Context, session Session, pageURL string, checks []NavCheck) ([]NavResult, error) {
	if err := session.Navigate(ctx, pageURL); err != nil {
		return nil, fmt.Errorf("navigate to %s: %w", pageURL, err)
	}

	results := make([]NavResult, 0, len(checks))
	for _, check := range checks {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		result := NavResult{NavCheck: check}

		sel := navSelector(check)
		elements, err := session.QueryAll(ctx, sel)
		if err != nil {
			result.Err = &ExtractionError{URL: pageURL, Selector: sel.Query, Stage: StageQuery, Err: err}
			results = append(results, result)
			continue
		}
		if len(elements) == 0 {
			results = append(results, result)
			continue
		}
		result.Found = true

		href, ok, err := elements[0].Attribute(ctx, "href")
		switch {
		case err != nil:
			result.Err = &ExtractionError{URL: pageURL, Selector: sel.Query, Stage: StageAnchor, Err: err}
		case ok:
			result.Href = href
			result.OK = strings.Contains(href, check.ExpectedPath)
		}
		results = append(results, result)
	}
	return results, nil
}

func navSelector(check NavCheck) Selector {
	label := xpathLiteral(check.Text)
	if check.Parent == "" {
		return XPath(fmt.Sprintf("//nav//a[normalize-space(text())=%s]", label))
	}
	return XPath(fmt.Sprintf("//nav//li[a[normalize-space(text())=%s]]//a[normalize-space(text())=%s]",
		xpathLiteral(check.Parent), label))
}

// xpathLiteral quotes s as an XPath 1.0 string literal.
func xpathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, "'")
	quoted := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			quoted = append(quoted, `"'"`)
		}
		quoted = append(quoted, "'"+p+"'")
	}
	return "concat(" + strings.Join(quoted, ", ") + ")"
}
