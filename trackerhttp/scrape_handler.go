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
package trackerhttp

import (
	"net/http"

	"github.com/arkadia-labs/trackerd/bencode"
	"github.com/arkadia-labs/trackerd/core"
	"github.com/arkadia-labs/trackerd/log"
	"github.com/arkadia-labs/trackerd/store"
	"github.com/arkadia-labs/trackerd/swarm"
)

// scrapeFile is the per-torrent status reported by scrape.
type scrapeFile struct {
	Complete   int64 `bencode:"complete"`
	Downloaded int64 `bencode:"downloaded"`
	Incomplete int64 `bencode:"incomplete"`
}

type scrapeResponse struct {
	Files map[string]scrapeFile `bencode:"files"`
}

type scrapeHandler struct {
	storage store.Storage
	swarm   swarm.Store
}

func newScrapeHandler(st store.Storage, s swarm.Store) *scrapeHandler {
	return &scrapeHandler{st, s}
}

func (h *scrapeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("info_hash")
	if raw == "" {
		writeFailure(w, invalidParams("info_hash").Error())
		return
	}

	infoHash, err := core.NewInfoHashFromRawBytes([]byte(raw))
	if err != nil {
		writeFailure(w, invalidLength("info_hash").Error())
		return
	}

	has, err := h.storage.HasTorrent(infoHash.Hex())
	if err != nil {
		log.Warnf("Error checking torrent existence for scrape %s: %s", infoHash, err)
		writeFailure(w, "Failed to scrape because of internal server error.")
		return
	}
	if !has {
		writeFailure(w, "Unregistered torrent.")
		return
	}

	complete, incomplete, err := h.swarm.GetPeerStats(infoHash)
	if err != nil {
		log.Warnf("Error fetching peer stats for scrape %s: %s", infoHash, err)
		writeFailure(w, "Failed to scrape because of internal server error.")
		return
	}
	downloaded, err := h.swarm.GetDownloads(infoHash)
	if err != nil {
		log.Warnf("Error fetching downloads for scrape %s: %s", infoHash, err)
		writeFailure(w, "Failed to scrape because of internal server error.")
		return
	}

	resp := scrapeResponse{
		Files: map[string]scrapeFile{
			string(infoHash.Bytes()): {
				Complete:   complete,
				Incomplete: incomplete,
				Downloaded: downloaded,
			},
		},
	}

	b, err := bencode.Marshal(resp)
	if err != nil {
		log.Warnf("Error bencoding scrape response: %s", err)
		writeFailure(w, "Failed to scrape because of internal server error.")
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	w.Write(b)
}
