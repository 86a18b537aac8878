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
package core

import "github.com/arkadia-labs/trackerd/utils/randutil"

// PeerIDFixture returns a randomly generated PeerID.
func PeerIDFixture() PeerID {
	p, err := NewPeerIDFromRawBytes(randutil.Text(20))
	if err != nil {
		panic(err)
	}
	return p
}

// InfoHashFixture returns a randomly generated InfoHash.
func InfoHashFixture() InfoHash {
	return NewInfoHashFromBytes(randutil.Text(20))
}

// PeerInfoFixture returns a randomly generated PeerInfo announcing for a
// randomly generated torrent.
func PeerInfoFixture() *PeerInfo {
	return NewPeerInfo(
		InfoHashFixture(),
		PeerIDFixture(),
		randutil.IP(),
		randutil.Port(),
		0, 0, int64(randutil.Port()),
		EventStarted)
}

// SeederPeerInfoFixture returns a randomly generated PeerInfo with nothing
// left to download.
func SeederPeerInfoFixture() *PeerInfo {
	p := PeerInfoFixture()
	p.Left = 0
	p.Event = EventCompleted
	return p
}

// OriginPeerInfoFixture returns a randomly generated PeerInfo marked as an
// operator-injected origin seeder.
func OriginPeerInfoFixture() *PeerInfo {
	p := SeederPeerInfoFixture()
	p.Origin = true
	return p
}
