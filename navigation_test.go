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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentberlin/linkaudit/testutil"
)

func TestVerifyNavigationFixtureMenu(t *testing.T) {
	srv := testutil.NewSiteServer()
	defer srv.Close()

	session, err := NewFetcher(FetcherOptions{}).Open(context.Background(), BrowserStatic)
	require.NoError(t, err)
	defer session.Close()

	results, err := VerifyNavigation(context.Background(), session, srv.URL, DefaultNavChecks)
	require.NoError(t, err)
	require.Len(t, results, len(DefaultNavChecks))
	for _, r := range results {
		assert.True(t, r.Found, r.Text)
		assert.True(t, r.OK, "%s -> %s", r.Text, r.Href)
	}
	assert.Equal(t, srv.URL+"/privacy-policy", results[5].Href)
}

func TestVerifyNavigationFixtureSubmenus(t *testing.T) {
	srv := testutil.NewSiteServer()
	defer srv.Close()

	session, err := NewFetcher(FetcherOptions{}).Open(context.Background(), BrowserStatic)
	require.NoError(t, err)
	defer session.Close()

	results, err := VerifyNavigation(context.Background(), session, srv.URL, DefaultSubmenuChecks)
	require.NoError(t, err)
	require.Len(t, results, len(testutil.AboutSubmenu)+len(testutil.ServicesSubmenu))
	for _, r := range results {
		assert.Nil(t, r.Err, r.Text)
		assert.True(t, r.Found, r.Text)
		assert.True(t, r.OK, "%s -> %s", r.Text, r.Href)
	}

	isms := results[len(testutil.AboutSubmenu)+7]
	assert.Equal(t, "ISMS Design & Implementation", isms.Text)
	assert.Equal(t, "/services/isms-design-&-implementation", isms.ExpectedPath)
	assert.Equal(t, srv.URL+"/services/isms-design-&-implementation", isms.Href)
}

func TestVerifyNavigationSubmenuParent(t *testing.T) {
	mock := NewMockTransport()
	mock.RegisterHTML("https://example.com/", `<html><body>
<nav><ul>
<li><a href="/about">About</a><ul><li><a href="/about/team">Team</a></li></ul></li>
<li><a href="/services">Services</a><ul><li><a href="/careers">Careers</a></li></ul></li>
</ul></nav>
</body></html>`)
	session := openStatic(t, mock)

	results, err := VerifyNavigation(context.Background(), session, "https://example.com/", []NavCheck{
		{Text: "Team", Parent: "About"},
		{Text: "Careers", Parent: "About"},
		{Text: "Careers", Parent: "Services", ExpectedPath: "/services/careers"},
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.True(t, results[0].OK, "empty expected path accepts any href")
	assert.False(t, results[1].Found, "entry under another parent does not count")
	assert.True(t, results[2].Found)
	assert.False(t, results[2].OK)
	assert.Equal(t, "https://example.com/careers", results[2].Href)
}

func TestVerifyNavigationQueryError(t *testing.T) {
	session := newFakeSession()
	page := session.page("https://example.com/", "Home")
	check := NavCheck{Text: "About", ExpectedPath: "/about"}
	page.queryErrs[navSelector(check).String()] = assert.AnError

	results, err := VerifyNavigation(context.Background(), session, "https://example.com/", []NavCheck{check})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].Found)
	require.NotNil(t, results[0].Err)
	assert.Equal(t, StageQuery, results[0].Err.Stage)
	assert.Equal(t, "https://example.com/", results[0].Err.URL)
	assert.ErrorIs(t, results[0].Err, assert.AnError)
}

func TestSubmenuChecks(t *testing.T) {
	assert.Equal(t, []NavCheck{
		{Text: "Virtual CISO", Parent: "Services", ExpectedPath: "/services/virtual-ciso"},
		{Text: "Secure By Design", Parent: "Services", ExpectedPath: "/services/secure-by-design"},
	}, SubmenuChecks("Services", "/services/", "Virtual CISO", "Secure By Design"))

	assert.Equal(t, []NavCheck{{Text: "Equal Opportunity Employer", Parent: "About"}},
		SubmenuChecks("About", "", "Equal Opportunity Employer"))

	assert.Len(t, DefaultSubmenuChecks, 15)
}

func TestMenuPath(t *testing.T) {
	assert.Equal(t, "/services/security-awareness-and-training", MenuPath("/services", "Security Awareness And Training"))
	assert.Equal(t, "/services/isms-design-&-implementation", MenuPath("/services", "ISMS Design & Implementation"))
	assert.Equal(t, "/about/team", MenuPath("/about/", "Team"))
}

func TestVerifyNavigationFailures(t *testing.T) {
	mock := NewMockTransport()
	mock.RegisterHTML("https://example.com/", `<html><body>
<nav><ul>
<li><a href="/about-us">  About  </a></li>
<li><a href="/team">Team</a></li>
</ul></nav>
<a href="/contact">Contact Us</a>
</body></html>`)
	session := openStatic(t, mock)

	results, err := VerifyNavigation(context.Background(), session, "https://example.com/", []NavCheck{
		{Text: "About", ExpectedPath: "/about"},
		{Text: "Team", ExpectedPath: "/people"},
		{Text: "Contact Us", ExpectedPath: "/contact"},
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.True(t, results[0].Found)
	assert.True(t, results[0].OK, "whitespace around the label is ignored")

	assert.True(t, results[1].Found)
	assert.False(t, results[1].OK)
	assert.Equal(t, "https://example.com/team", results[1].Href)

	assert.False(t, results[2].Found, "links outside <nav> do not count")
	assert.False(t, results[2].OK)
}

func TestVerifyNavigationNavigateError(t *testing.T) {
	session := newFakeSession()
	session.navErrs["https://example.com/"] = assert.AnError
	_, err := VerifyNavigation(context.Background(), session, "https://example.com/", DefaultNavChecks)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestXPathLiteral(t *testing.T) {
	assert.Equal(t, "'Home'", xpathLiteral("Home"))
	assert.Equal(t, `"Don't"`, xpathLiteral("Don't"))
	assert.Equal(t, `concat('a', "'", 'b"c')`, xpathLiteral(`a'b"c`))
}
