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
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockTransport(t *testing.T) {
	mock := NewMockTransport()
	mock.RegisterHTML("https://example.com/", "<p>home</p>")
	require.NoError(t, mock.RegisterPattern(`^https://example\.com/blog/`, &MockResponse{Body: "post"}))
	mock.RegisterError("https://example.com/down", assert.AnError)

	client := mock.Client()

	res, err := client.Get("https://example.com/")
	require.NoError(t, err)
	body, _ := io.ReadAll(res.Body)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "<p>home</p>", string(body))
	assert.Equal(t, "text/html; charset=utf-8", res.Header.Get("Content-Type"))

	res, err = client.Get("https://example.com/blog/any")
	require.NoError(t, err)
	body, _ = io.ReadAll(res.Body)
	res.Body.Close()
	assert.Equal(t, "post", string(body))

	res, err = client.Get("https://example.com/unknown")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	_, err = client.Get("https://example.com/down")
	assert.ErrorIs(t, err, assert.AnError)

	assert.Equal(t, []string{
		"https://example.com/",
		"https://example.com/blog/any",
		"https://example.com/unknown",
		"https://example.com/down",
	}, mock.Requests())
}

func TestMockTransportInvalidPattern(t *testing.T) {
	assert.Error(t, NewMockTransport().RegisterPattern("[", &MockResponse{}))
}
