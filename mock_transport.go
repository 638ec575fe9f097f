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
	"bytes"
	"io"
	"net/http"
	"regexp"
	"sync"
)

// MockResponse is a canned response served by MockTransport.
type MockResponse struct {
	// StatusCode defaults to 200.
	StatusCode int
	Body       string
	Headers    http.Header
	// Err makes the round trip fail as if the network broke.
	Err error
}

type mockPattern struct {
	pattern  *regexp.Regexp
	response *MockResponse
}

// MockTransport is an http.RoundTripper serving registered pages, so the
// static backend and the sitemap reader can run without a network. Unknown
// URLs get a 404 page.
type MockTransport struct {
	mu        sync.Mutex
	responses map[string]*MockResponse
	patterns  []mockPattern
	requests  []string
}

// NewMockTransport creates an empty MockTransport.
func NewMockTransport() *MockTransport {
	return &MockTransport{responses: make(map[string]*MockResponse)}
}

// Client returns an http.Client that uses m.
func (m *MockTransport) Client() *http.Client {
	return &http.Client{Transport: m}
}

// RegisterResponse serves response for an exact URL.
func (m *MockTransport) RegisterResponse(url string, response *MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[url] = withDefaults(response)
}

// RegisterHTML serves an HTML page for url.
func (m *MockTransport) RegisterHTML(url, body string) {
	m.RegisterResponse(url, &MockResponse{Body: body, Headers: contentType("text/html; charset=utf-8")})
}

// RegisterXML serves an XML document, such as a sitemap, for url.
func (m *MockTransport) RegisterXML(url, body string) {
	m.RegisterResponse(url, &MockResponse{Body: body, Headers: contentType("application/xml")})
}

// RegisterError makes requests for url fail with err.
func (m *MockTransport) RegisterError(url string, err error) {
	m.RegisterResponse(url, &MockResponse{Err: err})
}

// RegisterPattern serves response for every URL matching the regular
// expression pattern that has no exact registration.
func (m *MockTransport) RegisterPattern(pattern string, response *MockResponse) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.patterns = append(m.patterns, mockPattern{pattern: re, response: withDefaults(response)})
	return nil
}

// Requests returns every URL requested so far, in order.
func (m *MockTransport) Requests() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.requests...)
}

// RoundTrip implements http.RoundTripper.
func (m *MockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	url := req.URL.String()

	m.mu.Lock()
	m.requests = append(m.requests, url)
	resp, found := m.responses[url]
	if !found {
		for _, p := range m.patterns {
			if p.pattern.MatchString(url) {
				resp, found = p.response, true
				break
			}
		}
	}
	m.mu.Unlock()

	if !found {
		resp = &MockResponse{StatusCode: http.StatusNotFound, Body: "<html><body>Not Found</body></html>", Headers: contentType("text/html")}
	}
	if resp.Err != nil {
		return nil, resp.Err
	}

	header := make(http.Header, len(resp.Headers))
	for k, v := range resp.Headers {
		header[k] = append([]string(nil), v...)
	}
	return &http.Response{
		StatusCode:    resp.StatusCode,
		Status:        http.StatusText(resp.StatusCode),
		Body:          io.NopCloser(bytes.NewBufferString(resp.Body)),
		Header:        header,
		ContentLength: int64(len(resp.Body)),
		Request:       req,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
	}, nil
}

func withDefaults(r *MockResponse) *MockResponse {
	if r.StatusCode == 0 {
		r.StatusCode = http.StatusOK
	}
	if r.Headers == nil {
		r.Headers = make(http.Header)
	}
	return r
}

func contentType(v string) http.Header {
	h := make(http.Header)
	h.Set("Content-Type", v)
	return h
}
