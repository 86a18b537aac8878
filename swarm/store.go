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
	"fmt"
	"time"

	"github.com/andres-erbsen/clock"
	"github.com/arkadia-labs/trackerd/core"
	"github.com/arkadia-labs/trackerd/log"
)

// Store provides storage for announcing peers: liveness with TTL,
// seeder/leecher counts, and peer-list filtering. It is the swarm half of
// the persistence port; durable torrent records live behind store.Storage
// instead.
type Store interface {
	// Close cleans up any Store resources.
	Close()

	// GetPeers returns at most n live peers announcing for h, excluding
	// excluded (the caller's own peer ID).
	GetPeers(h core.InfoHash, excluded core.PeerID, n int) ([]*core.PeerInfo, error)

	// UpdatePeer upserts peer, keyed by (h, peer.PeerID). peer.Completed is
	// coalesced against the existing value: a false here never regresses a
	// peer that was already marked complete. The entry expires after ttl;
	// ttl == 0 evicts it immediately.
	UpdatePeer(h core.InfoHash, peer *core.PeerInfo, ttl time.Duration) error

	// GetPeerStats returns the number of live peers with Left == 0 or
	// marked completed (complete), and of all other live peers (incomplete).
	GetPeerStats(h core.InfoHash) (complete, incomplete int64, err error)

	// GetDownloads returns the lifetime count of peers ever marked
	// complete for h. Unlike GetPeers and GetPeerStats, this is not
	// filtered by TTL expiry.
	GetDownloads(h core.InfoHash) (int64, error)
}

// New creates a new Store implementation based on config.
func New(config Config) (Store, error) {
	if config.Redis.Enabled {
		log.Info("Redis peer store enabled")
		s, err := NewRedisStore(config.Redis, clock.New())
		if err != nil {
			return nil, fmt.Errorf("new redis store: %s", err)
		}
		return s, nil
	}
	log.Info("Defaulting to local peer store")
	return NewLocalStore(config.Local, clock.New()), nil
}
