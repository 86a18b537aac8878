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

import "sort"

// Event describes the lifecycle stage a peer reports on announce.
type Event string

// Events recognized on the announce endpoint. An empty event is a regular,
// periodic re-announce.
const (
	EventNone      Event = ""
	EventStarted   Event = "started"
	EventStopped   Event = "stopped"
	EventCompleted Event = "completed"
)

// PeerInfo defines peer metadata scoped to a torrent, as reported by the
// peer's most recent announce.
type PeerInfo struct {
	InfoHash   InfoHash `json:"info_hash"`
	PeerID     PeerID   `json:"peer_id"`
	IP         string   `json:"ip"`
	Port       int      `json:"port"`
	Uploaded   int64    `json:"uploaded"`
	Downloaded int64    `json:"downloaded"`
	Left       int64    `json:"left"`
	Event      Event    `json:"event"`

	// Origin marks a peer as a well-known seeder injected by the operator,
	// rather than a peer that announced organically.
	Origin bool `json:"origin"`

	// Completed is sticky: once an announce sets it via event=completed, a
	// later announce without an explicit completion never clears it.
	Completed bool `json:"completed"`
}

// Complete reports whether the peer is seeding: either it has no bytes left
// to download, or it was once announced with event=completed and has not
// been reset since.
func (p *PeerInfo) Complete() bool {
	return p.Left == 0 || p.Completed
}

// NewPeerInfo creates a new PeerInfo.
func NewPeerInfo(
	h InfoHash,
	id PeerID,
	ip string,
	port int,
	uploaded, downloaded, left int64,
	event Event) *PeerInfo {

	return &PeerInfo{
		InfoHash:   h,
		PeerID:     id,
		IP:         ip,
		Port:       port,
		Uploaded:   uploaded,
		Downloaded: downloaded,
		Left:       left,
		Event:      event,
	}
}

// PeerInfos groups PeerInfo structs for sorting.
type PeerInfos []*PeerInfo

// Len for sorting.
func (s PeerInfos) Len() int { return len(s) }

// Swap for sorting.
func (s PeerInfos) Swap(i, j int) { s[i], s[j] = s[j], s[i] }

// PeersByPeerID sorts PeerInfos by peer id.
type PeersByPeerID struct{ PeerInfos }

// Less for sorting.
func (s PeersByPeerID) Less(i, j int) bool {
	return s.PeerInfos[i].PeerID.LessThan(s.PeerInfos[j].PeerID)
}

// SortedByPeerID returns a copy of peers which has been sorted by peer id.
func SortedByPeerID(peers []*PeerInfo) []*PeerInfo {
	c := make([]*PeerInfo, len(peers))
	copy(c, peers)
	sort.Sort(PeersByPeerID{PeerInfos(c)})
	return c
}
