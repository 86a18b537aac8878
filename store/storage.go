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

// Package store is the narrow persistence port the core depends on for
// durable torrent records. Ephemeral, TTL'd peer state lives behind
// swarm.Store instead -- it is a distinct concern with its own consistency
// model, and splitting it out mirrors how every tracker of any size we've
// studied actually deploys (peer churn dwarfs torrent churn by orders of
// magnitude and wants a different storage engine).
package store

import "encoding/json"

// TorrentStatus is the lifecycle state of a torrent record. Inactive
// torrents are excluded from HasTorrent and ListTorrents.
type TorrentStatus string

// Recognized TorrentStatus values.
const (
	StatusActive   TorrentStatus = "active"
	StatusInactive TorrentStatus = "inactive"
)

// TorrentInfo is a durable record of a torrent registered with the tracker.
// AnnounceList, Nodes and URLList are stored as opaque serialized blobs, as
// the reference persistence schema specifies.
type TorrentInfo struct {
	InfoHash     string
	Length       int64
	PieceLength  int64
	Pieces       []byte
	Name         string
	Path         string
	Private      bool
	AnnounceList [][]string
	Nodes        [][2]string
	URLList      []string
	CreatedBy    string
	Status       TorrentStatus
}

// TorrentSummary is the (info_hash, length) pair returned by ListTorrents.
type TorrentSummary struct {
	InfoHash string
	Length   int64
}

// Storage is the persistence port for torrent records.
type Storage interface {
	// SaveTorrent inserts or upserts t, keyed by t.InfoHash.
	SaveTorrent(t *TorrentInfo) error

	// GetTorrent returns the torrent registered under infoHash, or nil if
	// none exists.
	GetTorrent(infoHash string) (*TorrentInfo, error)

	// HasTorrent reports whether infoHash identifies a known, active
	// torrent.
	HasTorrent(infoHash string) (bool, error)

	// ListTorrents returns every active torrent's (info_hash, length).
	ListTorrents() ([]TorrentSummary, error)
}

// ForkResetter is implemented by Storage backends that hold a per-process
// connection handle. Deployments using pre-fork workers must call
// ResetAfterFork in the child before its first query; runtimes without fork
// never need to call it.
type ForkResetter interface {
	ResetAfterFork() error
}

func marshalBlob(v interface{}) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

func unmarshalBlob(data []byte, v interface{}) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}
