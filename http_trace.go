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
	"net/http"
	"net/http/httptrace"
	"time"

	"go.uber.org/zap"
)

// pageTrace records connection timings of a static page fetch.
type pageTrace struct {
	start, connect    time.Time
	ConnectDuration   time.Duration
	FirstByteDuration time.Duration
	Reused            bool
}

func (pt *pageTrace) clientTrace() *httptrace.ClientTrace {
	return &httptrace.ClientTrace{
		GetConn: func(hostPort string) { pt.start = time.Now() },
		GotConn: func(info httptrace.GotConnInfo) { pt.Reused = info.Reused },
		ConnectStart: func(network, addr string) { pt.connect = time.Now() },
		ConnectDone: func(network, addr string, err error) {
			pt.ConnectDuration = time.Since(pt.connect)
		},
		GotFirstResponseByte: func() {
			pt.FirstByteDuration = time.Since(pt.start)
		},
	}
}

// withTrace returns req with pt attached to its context.
func (pt *pageTrace) withTrace(req *http.Request) *http.Request {
	return req.WithContext(httptrace.WithClientTrace(req.Context(), pt.clientTrace()))
}

func (pt *pageTrace) fields() []zap.Field {
	return []zap.Field{
		zap.Duration("connect", pt.ConnectDuration),
		zap.Duration("first_byte", pt.FirstByteDuration),
		zap.Bool("reused_conn", pt.Reused),
	}
}
