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
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/arkadia-labs/trackerd/bencode"
	"github.com/arkadia-labs/trackerd/core"
	"github.com/arkadia-labs/trackerd/store"
	"github.com/arkadia-labs/trackerd/swarm"
	"github.com/stretchr/testify/require"
)

func TestScrapeSuccess(t *testing.T) {
	st := store.NewTestStorage()
	ih, err := core.NewInfoHashFromRawBytes([]byte(_testInfoHashRaw))
	require.NoError(t, err)
	require.NoError(t, st.SaveTorrent(&store.TorrentInfo{InfoHash: ih.Hex(), Status: store.StatusActive}))

	sw := swarm.NewTestStore()
	require.NoError(t, sw.UpdatePeer(ih, core.SeederPeerInfoFixture(), time.Hour))

	h := newScrapeHandler(st, sw)

	q := url.Values{}
	q.Set("info_hash", _testInfoHashRaw)
	req := httptest.NewRequest(http.MethodGet, "/scrape?"+q.Encode(), nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp scrapeResponse
	require.NoError(t, bencode.Unmarshal(w.Body.Bytes(), &resp))
	f, ok := resp.Files[string(ih.Bytes())]
	require.True(t, ok)
	require.EqualValues(t, 1, f.Complete)
}

func TestScrapeMissingInfoHash(t *testing.T) {
	h := newScrapeHandler(store.NewTestStorage(), swarm.NewTestStore())

	req := httptest.NewRequest(http.MethodGet, "/scrape", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, bencode.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "Invalid get parameters; Missing: info_hash", resp["failure reason"])
}

func TestScrapeUnregisteredTorrent(t *testing.T) {
	h := newScrapeHandler(store.NewTestStorage(), swarm.NewTestStore())

	q := url.Values{}
	q.Set("info_hash", _testInfoHashRaw)
	req := httptest.NewRequest(http.MethodGet, "/scrape?"+q.Encode(), nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, bencode.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "Unregistered torrent.", resp["failure reason"])
}
