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

// Package policy orders the candidate peers handed out in announce
// responses, so that when the handler truncates the list to numwant the
// most useful peers survive the cut.
package policy

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/uber-go/tally"

	"github.com/arkadia-labs/trackerd/core"
)

// rankFunc buckets a peer for handout ordering. Lower ranks are handed out
// first; the label tags per-bucket metrics.
type rankFunc func(p *core.PeerInfo) (rank int, label string)

var _rankFuncs = map[string]rankFunc{
	"default":      rankDefault,
	"completeness": rankCompleteness,
}

// PriorityPolicy orders candidate peers by a named ranking policy.
type PriorityPolicy struct {
	stats tally.Scope
	rank  rankFunc
}

// NewPriorityPolicy creates a PriorityPolicy running the named ranking
// policy. Unknown names fail.
func NewPriorityPolicy(stats tally.Scope, name string) (*PriorityPolicy, error) {
	rank, ok := _rankFuncs[name]
	if !ok {
		return nil, fmt.Errorf("unknown priority policy %q", name)
	}
	return &PriorityPolicy{
		stats: stats.Tagged(map[string]string{"policy": name}),
		rank:  rank,
	}, nil
}

type rankedPeer struct {
	peer *core.PeerInfo
	rank int
}

// SortPeers returns peers ordered for handout. Candidates are shuffled
// before the (stable) rank sort, so peers of equal rank rotate across
// announces instead of the same subset always surviving truncation. The
// announcing peer is dropped if the store returned it.
func (p *PriorityPolicy) SortPeers(source *core.PeerInfo, peers []*core.PeerInfo) []*core.PeerInfo {
	ranked := make([]rankedPeer, 0, len(peers))
	labelCounts := make(map[string]int)
	for _, peer := range peers {
		if peer.PeerID == source.PeerID {
			continue
		}
		r, label := p.rank(peer)
		ranked = append(ranked, rankedPeer{peer, r})
		labelCounts[label]++
	}

	rand.Shuffle(len(ranked), func(i, j int) {
		ranked[i], ranked[j] = ranked[j], ranked[i]
	})
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].rank < ranked[j].rank
	})

	result := make([]*core.PeerInfo, len(ranked))
	for i, rp := range ranked {
		result[i] = rp.peer
	}

	for label, count := range labelCounts {
		p.stats.Tagged(map[string]string{"label": label}).Counter("handouts").Inc(int64(count))
	}
	return result
}
