// Copyright (c) 2016-2019 Uber Technologies, Inc.
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

// Package middleware instruments chi-routed HTTP handlers with per-endpoint
// latency and status metrics.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi"
	"github.com/uber-go/tally"
)

// scopeFor tags stats with the request's routed pattern and method. Path
// variables are dropped, so "/foo/{id}/bar" yields endpoint "foo.bar".
//
// Must be called after next.ServeHTTP: chi only fills in the route
// pattern once the request has been matched.
func scopeFor(stats tally.Scope, r *http.Request) tally.Scope {
	pattern := chi.RouteContext(r.Context()).RoutePattern()
	var static []string
	for _, seg := range strings.Split(pattern, "/") {
		if seg == "" || strings.HasPrefix(seg, "{") {
			continue
		}
		static = append(static, seg)
	}
	return stats.Tagged(map[string]string{
		"endpoint": strings.Join(static, "."),
		"method":   r.Method,
	})
}

// LatencyTimer records a per-endpoint "latency" timer around each request.
func LatencyTimer(stats tally.Scope) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			scopeFor(stats, r).Timer("latency").Record(time.Since(start))
		})
	}
}

// statusWriter remembers the first status code written to a response and
// swallows any later WriteHeader calls, matching net/http's own behavior
// of honoring only the first.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	if w.status != 0 {
		return
	}
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	w.WriteHeader(http.StatusOK)
	return w.ResponseWriter.Write(b)
}

// StatusCounter counts responses per endpoint, method, and status code. A
// handler that never writes anything counts as a 200.
func StatusCounter(stats tally.Scope) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := &statusWriter{ResponseWriter: w}
			next.ServeHTTP(sw, r)
			status := sw.status
			if status == 0 {
				status = http.StatusOK
			}
			scopeFor(stats, r).Counter(strconv.Itoa(status)).Inc(1)
		})
	}
}
