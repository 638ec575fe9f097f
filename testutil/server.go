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

// Package testutil provides a small fixture website for crawler tests.
package testutil

import (
	"fmt"
	"html"
	"net/http"
	"net/http/httptest"
	"strings"
)

// External and social URLs linked from the fixture site.
const (
	PartnerURL  = "https://partner.example.org/"
	DocsURL     = "https://docs.example.org/guide"
	TwitterURL  = "https://twitter.com/example"
	LinkedInURL = "https://www.linkedin.com/company/example"
)

// Blog posts listed on the fixture blog index, in listing order.
var BlogPosts = []struct{ Path, Title string }{
	{"/blog/first-post", "First Post"},
	{"/blog/second-post", "Second Post"},
	{"/blog/third-post", "Third Post"},
}

// Dropdown entries of the About and Services menu items. Each path serves a
// plain page.
var (
	AboutSubmenu = []struct{ Path, Title string }{
		{"/about/sustainability-commitment", "Sustainability Commitment"},
		{"/about/equal-opportunity-employer", "Equal Opportunity Employer"},
	}
	ServicesSubmenu = []struct{ Path, Title string }{
		{"/services/penetration-testing", "Penetration Testing"},
		{"/services/zero-trust-assessment", "Zero Trust Assessment"},
		{"/services/solution-architecture", "Solution Architecture"},
		{"/services/enterprise-architecture", "Enterprise Architecture"},
		{"/services/virtual-ciso", "Virtual CISO"},
		{"/services/security-strategy", "Security Strategy"},
		{"/services/security-awareness-and-training", "Security Awareness And Training"},
		{"/services/isms-design-&-implementation", "ISMS Design & Implementation"},
		{"/services/vulnerability-management", "Vulnerability Management"},
		{"/services/secure-by-design", "Secure By Design"},
		{"/services/compliance-audits-and-assessments", "Compliance Audits And Assessments"},
		{"/services/threat-and-risk-assessment", "Threat And Risk Assessment"},
		{"/services/security-operations-center", "Security Operations Center"},
	}
)

var navMenu = `<header><nav class="main-menu"><ul>
<li><a href="/">Home</a></li>
<li><a href="/about">About</a>` + submenu(AboutSubmenu) + `</li>
<li><a href="/services">Services</a>` + submenu(ServicesSubmenu) + `</li>
<li><a href="/blogs">Blogs</a></li>
<li><a href="/clients">Clients</a></li>
<li><a href="/privacy-policy">Privacy Policy</a></li>
<li><a href="/contact">Contact Us</a></li>
</ul></nav></header>`

func submenu(items []struct{ Path, Title string }) string {
	var b strings.Builder
	b.WriteString(`<ul class="sub-menu">`)
	for _, item := range items {
		fmt.Fprintf(&b, `<li><a href="%s">%s</a></li>`, html.EscapeString(item.Path), html.EscapeString(item.Title))
	}
	b.WriteString(`</ul>`)
	return b.String()
}

const footer = `<footer>
<a href="` + TwitterURL + `">Twitter</a>
<a href="` + LinkedInURL + `">LinkedIn</a>
<a href="` + PartnerURL + `">Partner</a>
</footer>`

func page(title, body string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><title>%s</title></head>
<body>
%s
<main>
%s
</main>
%s
</body>
</html>`, title, navMenu, body, footer)
}

// Pages maps each fixture path to its HTML.
var Pages = map[string]string{
	"/": page("Home", `<h1>Welcome</h1>
<p>We build things.</p>
<a href="#top">Back to top</a>
<a href="/?pageid=2">Legacy page</a>
<a href="/about/">About us</a>
<a href="`+DocsURL+`">Read the docs</a>`),
	"/about": page("About", `<h1>About</h1>
<p>First paragraph.</p>
<p>   </p>
<p>Second   paragraph.</p>
<a href="`+DocsURL+`">Documentation</a>`),
	"/services":       page("Services", `<p>Services.</p>`),
	"/clients":        page("Clients", `<p>Clients.</p>`),
	"/privacy-policy": page("Privacy Policy", `<p>Privacy.</p>`),
	"/contact":        page("Contact", `<p>Contact.</p>`),
	"/hidden":         page("Hidden", `<p>Only reachable through the sitemap.</p>`),

	"/blogs":         page("Blogs", blogListing(BlogPosts[:2], "/blogs/page/2/", []string{"/blogs/page/2/"})),
	"/blogs/page/2/": page("Blogs - Page 2", blogListing(BlogPosts[2:], "", []string{"/blogs"})),
}

func init() {
	for _, items := range [][]struct{ Path, Title string }{AboutSubmenu, ServicesSubmenu} {
		for _, item := range items {
			Pages[item.Path] = page(item.Title, "<p>"+html.EscapeString(item.Title)+".</p>")
		}
	}
}

func blogListing(posts []struct{ Path, Title string }, next string, pages []string) string {
	var b strings.Builder
	for _, p := range posts {
		fmt.Fprintf(&b, `<div data-elementor-type="loop-item"><a class="elementor-element" href="%s">%s</a></div>
`, p.Path, p.Title)
	}
	b.WriteString(`<nav class="elementor-pagination">`)
	for _, p := range pages {
		fmt.Fprintf(&b, `<a class="page-numbers" href="%s">%s</a>`, p, p)
	}
	if next != "" {
		fmt.Fprintf(&b, `<a class="page-numbers next" href="%s">Next</a>`, next)
	}
	b.WriteString(`</nav>`)
	return b.String()
}

// NewSiteServer starts the fixture site. Blog post pages render as plain
// pages; the sitemap lists "/", "/about" and "/hidden".
func NewSiteServer() *httptest.Server {
	mux := http.NewServeMux()
	var srv *httptest.Server

	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
<url><loc>%[1]s/</loc></url>
<url><loc>%[1]s/about</loc></url>
<url><loc>%[1]s/hidden</loc></url>
</urlset>`, srv.URL)
	})

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if body, ok := Pages[r.URL.Path]; ok {
			w.Write([]byte(body))
			return
		}
		for _, p := range BlogPosts {
			if p.Path == r.URL.Path {
				w.Write([]byte(page(p.Title, "<p>"+p.Title+" body.</p>")))
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(page("Not Found", "<p>Not found.</p>")))
	})

	srv = httptest.NewServer(mux)
	return srv
}
