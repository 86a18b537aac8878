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
package swarm

import (
	"sync"
	"time"

	"github.com/arkadia-labs/trackerd/core"
)

type testStore struct {
	sync.Mutex
	torrents map[core.InfoHash][]core.PeerInfo
	expires  map[core.InfoHash]map[core.PeerID]time.Time
	complete map[core.InfoHash]map[core.PeerID]struct{}
	now      func() time.Time
}

// NewTestStore returns a thread-safe, in-memory peer store for testing
// purposes. Each entry expires ttl after its most recent UpdatePeer.
func NewTestStore() Store {
	return &testStore{
		torrents: make(map[core.InfoHash][]core.PeerInfo),
		expires:  make(map[core.InfoHash]map[core.PeerID]time.Time),
		complete: make(map[core.InfoHash]map[core.PeerID]struct{}),
		now:      time.Now,
	}
}

func (s *testStore) Close() {}

func (s *testStore) UpdatePeer(h core.InfoHash, p *core.PeerInfo, ttl time.Duration) error {
	s.Lock()
	defer s.Unlock()

	if _, ok := s.expires[h]; !ok {
		s.expires[h] = make(map[core.PeerID]time.Time)
	}
	if _, ok := s.complete[h]; !ok {
		s.complete[h] = make(map[core.PeerID]struct{})
	}
	s.expires[h][p.PeerID] = s.now().Add(ttl)

	if p.Completed {
		s.complete[h][p.PeerID] = struct{}{}
	}
	if _, ok := s.complete[h][p.PeerID]; ok {
		p.Completed = true
	}

	peers, ok := s.torrents[h]
	if !ok {
		s.torrents[h] = []core.PeerInfo{*p}
		return nil
	}
	for i := range peers {
		if p.PeerID == peers[i].PeerID {
			peers[i] = *p
			return nil
		}
	}
	s.torrents[h] = append(peers, *p)
	return nil
}

func (s *testStore) live(h core.InfoHash, id core.PeerID) bool {
	t, ok := s.expires[h][id]
	return ok && s.now().Before(t)
}

func (s *testStore) GetPeers(h core.InfoHash, excluded core.PeerID, n int) ([]*core.PeerInfo, error) {
	s.Lock()
	defer s.Unlock()

	peers := s.torrents[h]
	var result []*core.PeerInfo
	for _, p := range peers {
		if p.PeerID == excluded || !s.live(h, p.PeerID) {
			continue
		}
		cp := p
		result = append(result, &cp)
		if len(result) == n {
			break
		}
	}
	return result, nil
}

func (s *testStore) GetPeerStats(h core.InfoHash) (complete, incomplete int64, err error) {
	s.Lock()
	defer s.Unlock()

	for _, p := range s.torrents[h] {
		if !s.live(h, p.PeerID) {
			continue
		}
		if p.Complete() {
			complete++
		} else {
			incomplete++
		}
	}
	return complete, incomplete, nil
}

func (s *testStore) GetDownloads(h core.InfoHash) (int64, error) {
	s.Lock()
	defer s.Unlock()
	return int64(len(s.complete[h])), nil
}
