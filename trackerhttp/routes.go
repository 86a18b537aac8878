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

// Package trackerhttp implements the BitTorrent tracker HTTP protocol:
// announce and scrape.
package trackerhttp

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/uber-go/tally"

	"github.com/arkadia-labs/trackerd/lib/middleware"
	"github.com/arkadia-labs/trackerd/policy"
	"github.com/arkadia-labs/trackerd/store"
	"github.com/arkadia-labs/trackerd/swarm"
)

// New builds the tracker's HTTP handler. st owns durable torrent records; s
// owns ephemeral, TTL'd peer state.
func New(config Config, st store.Storage, s swarm.Store, stats tally.Scope) (http.Handler, error) {
	config.applyDefaults()

	p, err := policy.NewPriorityPolicy(stats, config.PriorityPolicy)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.LatencyTimer(stats))
	r.Use(middleware.StatusCounter(stats))

	r.Get("/announce", newAnnounceHandler(config, st, s, p).ServeHTTP)
	r.Get("/scrape", newScrapeHandler(st, s).ServeHTTP)
	r.Get("/health", healthHandler)

	return r, nil
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
