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
package store

import "sync"

// LocalStorage is an in-memory Storage implementation. Torrent records do
// not survive a restart, which is fine for single-node deployments where
// torrents are re-registered on boot.
type LocalStorage struct {
	sync.Mutex
	torrents map[string]*TorrentInfo
}

// NewLocalStorage creates an empty LocalStorage.
func NewLocalStorage() *LocalStorage {
	return &LocalStorage{torrents: make(map[string]*TorrentInfo)}
}

// SaveTorrent implements Storage.
func (s *LocalStorage) SaveTorrent(t *TorrentInfo) error {
	s.Lock()
	defer s.Unlock()
	cp := *t
	if cp.Status == "" {
		cp.Status = StatusActive
	}
	s.torrents[t.InfoHash] = &cp
	return nil
}

// GetTorrent implements Storage.
func (s *LocalStorage) GetTorrent(infoHash string) (*TorrentInfo, error) {
	s.Lock()
	defer s.Unlock()
	t, ok := s.torrents[infoHash]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

// HasTorrent implements Storage.
func (s *LocalStorage) HasTorrent(infoHash string) (bool, error) {
	s.Lock()
	defer s.Unlock()
	t, ok := s.torrents[infoHash]
	return ok && t.Status == StatusActive, nil
}

// ListTorrents implements Storage.
func (s *LocalStorage) ListTorrents() ([]TorrentSummary, error) {
	s.Lock()
	defer s.Unlock()
	var summaries []TorrentSummary
	for _, t := range s.torrents {
		if t.Status != StatusActive {
			continue
		}
		summaries = append(summaries, TorrentSummary{InfoHash: t.InfoHash, Length: t.Length})
	}
	return summaries, nil
}
