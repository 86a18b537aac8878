// Copyright (c) 2016-2020 Uber Technologies, Inc.
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
package swarm

import (
	"sync"
	"testing"
	"time"

	"github.com/andres-erbsen/clock"
	"github.com/arkadia-labs/trackerd/core"
	"github.com/stretchr/testify/require"
)

const _ttl = 10 * time.Minute

func TestLocalStoreExpiration(t *testing.T) {
	now := time.Date(2019, time.November, 1, 1, 0, 0, 0, time.UTC)
	clk := clock.NewMock()
	clk.Set(now)

	s := NewLocalStore(LocalConfig{TTL: _ttl}, clk)
	defer s.Close()

	h1 := core.InfoHashFixture()

	// No peers initially.

	peers, err := s.GetPeers(h1, core.PeerIDFixture(), 0)
	require.NoError(t, err)
	require.Empty(t, peers)

	peers, err = s.GetPeers(h1, core.PeerIDFixture(), 1)
	require.NoError(t, err)
	require.Empty(t, peers)

	p1 := core.PeerInfoFixture()
	require.NoError(t, s.UpdatePeer(h1, p1, _ttl))

	p2 := core.PeerInfoFixture()
	require.NoError(t, s.UpdatePeer(h1, p2, _ttl))

	// Two peers with some different n values.

	peers, err = s.GetPeers(h1, core.PeerIDFixture(), 2)
	require.NoError(t, err)
	require.ElementsMatch(t, []*core.PeerInfo{p1, p2}, peers)

	peers, err = s.GetPeers(h1, core.PeerIDFixture(), 50)
	require.ElementsMatch(t, []*core.PeerInfo{p1, p2}, peers)

	peers, err = s.GetPeers(h1, core.PeerIDFixture(), 1)
	require.NoError(t, err)
	require.Len(t, peers, 1)

	// The announcing peer is excluded from its own response.
	peers, err = s.GetPeers(h1, p1.PeerID, 50)
	require.NoError(t, err)
	require.ElementsMatch(t, []*core.PeerInfo{p2}, peers)

	clk.Add(5 * time.Minute)

	p3 := core.PeerInfoFixture()
	require.NoError(t, s.UpdatePeer(h1, p3, _ttl))

	// Manually triggered for testing purposes. Nothing has expired, so
	// should be a noop.
	s.cleanupExpiredPeerEntries()
	s.cleanupExpiredPeerGroups()

	peers, err = s.GetPeers(h1, core.PeerIDFixture(), 3)
	require.NoError(t, err)
	require.ElementsMatch(t, []*core.PeerInfo{p1, p2, p3}, peers)

	// Update existing peer.
	p3.Left = 0
	require.NoError(t, s.UpdatePeer(h1, p3, _ttl))

	peers, err = s.GetPeers(h1, core.PeerIDFixture(), 3)
	require.NoError(t, err)
	require.ElementsMatch(t, []*core.PeerInfo{p1, p2, p3}, peers)

	clk.Add(5*time.Minute + 1)

	// Manually triggered for testing purposes.
	s.cleanupExpiredPeerEntries()

	// p1 and p2 are now expired.
	peers, err = s.GetPeers(h1, core.PeerIDFixture(), 3)
	require.NoError(t, err)
	require.ElementsMatch(t, []*core.PeerInfo{p3}, peers)

	clk.Add(5*time.Minute + 1)

	// Manually triggered for testing purposes.
	s.cleanupExpiredPeerEntries()

	// p3 is now expired.
	peers, err = s.GetPeers(h1, core.PeerIDFixture(), 1)
	require.NoError(t, err)
	require.Empty(t, peers)

	// Unfortunately we must reach into the LocalStore's private state
	// to determine whether cleanup actually occurred.
	require.Contains(t, s.peerGroups, h1)
	s.cleanupExpiredPeerGroups()
	require.NotContains(t, s.peerGroups, h1)
}

func TestLocalStoreStoppedEventEvictsImmediately(t *testing.T) {
	clk := clock.NewMock()
	clk.Set(time.Now())

	s := NewLocalStore(LocalConfig{TTL: _ttl}, clk)
	defer s.Close()

	h := core.InfoHashFixture()
	p := core.PeerInfoFixture()
	require.NoError(t, s.UpdatePeer(h, p, 0))

	peers, err := s.GetPeers(h, core.PeerIDFixture(), 10)
	require.NoError(t, err)
	require.Empty(t, peers)

	complete, incomplete, err := s.GetPeerStats(h)
	require.NoError(t, err)
	require.Zero(t, complete)
	require.Zero(t, incomplete)
}

func TestLocalStoreDownloadsSurviveExpiry(t *testing.T) {
	clk := clock.NewMock()
	clk.Set(time.Now())

	s := NewLocalStore(LocalConfig{TTL: _ttl}, clk)
	defer s.Close()

	h := core.InfoHashFixture()
	p := core.PeerInfoFixture()
	p.Completed = true
	require.NoError(t, s.UpdatePeer(h, p, _ttl))

	clk.Add(_ttl + time.Minute)
	s.cleanupExpiredPeerEntries()

	peers, err := s.GetPeers(h, core.PeerIDFixture(), 10)
	require.NoError(t, err)
	require.Empty(t, peers)

	downloads, err := s.GetDownloads(h)
	require.NoError(t, err)
	require.EqualValues(t, 1, downloads)
}

func TestLocalStoreConcurrency(t *testing.T) {
	s := NewLocalStore(LocalConfig{TTL: time.Millisecond}, clock.New())
	defer s.Close()

	hashes := []core.InfoHash{
		core.InfoHashFixture(),
		core.InfoHashFixture(),
		core.InfoHashFixture(),
	}

	// We don't care what the results are, we just want to trigger any race
	// conditions.
	var wg sync.WaitGroup
	for n := 0; n < 1000; n++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for _, h := range hashes {
				require.NoError(t, s.UpdatePeer(h, core.PeerInfoFixture(), _ttl))
			}
		}()
		go func() {
			defer wg.Done()
			for _, h := range hashes {
				peers, err := s.GetPeers(h, core.PeerIDFixture(), 10)
				require.NoError(t, err)
				require.True(t, len(peers) <= 10)
			}
		}()
	}
	wg.Wait()
}
