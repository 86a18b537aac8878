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
package policy

import (
	"testing"

	"github.com/arkadia-labs/trackerd/core"

	"github.com/stretchr/testify/require"
	"github.com/uber-go/tally"
)

func leecherPeerInfoFixture() *core.PeerInfo {
	p := core.PeerInfoFixture()
	p.Event = core.EventNone
	p.Downloaded = 1024
	p.Left = 4096
	return p
}

func TestCompletenessPolicyOrdering(t *testing.T) {
	require := require.New(t)

	policy, err := NewPriorityPolicy(tally.NoopScope, "completeness")
	require.NoError(err)

	newcomer := core.PeerInfoFixture() // event=started, no progress yet
	leecher := leecherPeerInfoFixture()
	seeder := core.SeederPeerInfoFixture()
	origin := core.OriginPeerInfoFixture()

	sorted := policy.SortPeers(core.PeerInfoFixture(),
		[]*core.PeerInfo{newcomer, leecher, origin, seeder})

	require.Len(sorted, 4)
	require.Equal(seeder.PeerID, sorted[0].PeerID)
	require.Equal(origin.PeerID, sorted[1].PeerID)
	require.Equal(leecher.PeerID, sorted[2].PeerID)
	require.Equal(newcomer.PeerID, sorted[3].PeerID)
}

func TestCompletenessPolicySeedersSurviveTruncation(t *testing.T) {
	require := require.New(t)

	policy, err := NewPriorityPolicy(tally.NoopScope, "completeness")
	require.NoError(err)

	var peers []*core.PeerInfo
	for i := 0; i < 20; i++ {
		peers = append(peers, core.PeerInfoFixture())
	}
	seeder := core.SeederPeerInfoFixture()
	peers = append(peers, seeder)

	sorted := policy.SortPeers(core.PeerInfoFixture(), peers)

	// However the handler truncates, the lone seeder is always first.
	require.Equal(seeder.PeerID, sorted[0].PeerID)
}
