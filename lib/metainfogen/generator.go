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
package metainfogen

import (
	"fmt"

	"github.com/arkadia-labs/trackerd/store"
	"github.com/arkadia-labs/trackerd/torrent"
)

// Generator wraps static piece length configuration in order to
// deterministically generate metainfo for files registered with the
// tracker.
type Generator struct {
	ladder   *sizeLadder
	announce torrent.AnnounceList
	storage  store.Storage
}

// New creates a new Generator. announce is the tracker's own announce list,
// merged into every generated .torrent's announce-list.
func New(config Config, announce torrent.AnnounceList, storage store.Storage) (*Generator, error) {
	ladder, err := newSizeLadder(config.PieceLengths)
	if err != nil {
		return nil, fmt.Errorf("piece length config: %s", err)
	}
	return &Generator{ladder, announce, storage}, nil
}

// Generate slices the file at path, picks a piece length from the
// configured size ranges, builds its metainfo, and registers it with
// storage as an active torrent.
func (g *Generator) Generate(path string) (*torrent.MetaInfo, error) {
	slicer, err := torrent.NewFileSlicer(path)
	if err != nil {
		return nil, fmt.Errorf("slice file: %s", err)
	}

	pieceLength := g.ladder.pieceLength(slicer.Size())
	b, err := torrent.NewBuilder(slicer, pieceLength)
	if err != nil {
		return nil, fmt.Errorf("create builder: %s", err)
	}

	mi, err := b.Build(g.announce)
	if err != nil {
		return nil, fmt.Errorf("build metainfo: %s", err)
	}

	if err := g.storage.SaveTorrent(&store.TorrentInfo{
		InfoHash:     mi.InfoHash.Hex(),
		Length:       mi.Info.Length,
		PieceLength:  mi.Info.PieceLength,
		Pieces:       mi.Info.Pieces,
		Name:         mi.Info.Name,
		Path:         path,
		Private:      mi.Info.Private,
		AnnounceList: [][]string(mi.AnnounceList),
		Nodes:        mi.Nodes,
		URLList:      mi.URLList,
		CreatedBy:    mi.CreatedBy,
		Status:       store.StatusActive,
	}); err != nil {
		return nil, fmt.Errorf("save torrent: %s", err)
	}

	return mi, nil
}
