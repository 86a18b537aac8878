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
	"errors"
	"sort"

	"github.com/c2h5oh/datasize"
)

// Config defines Generator configuration.
type Config struct {
	// PieceLengths maps a minimum file size to the piece length used for
	// files at least that large. A zero key sets the base piece length,
	// e.g. {0: 1MB, 2GB: 4MB, 4GB: 8MB} gives 1MB pieces to files under
	// 2GB, 4MB pieces up to 4GB, and 8MB pieces beyond.
	PieceLengths map[datasize.ByteSize]datasize.ByteSize `yaml:"piece_lengths"`
}

// sizeLadder resolves a file size to a piece length by walking sorted
// (file size threshold, piece length) rungs.
type sizeLadder struct {
	thresholds   []int64
	pieceLengths []int64
}

func newSizeLadder(
	pieceLengthByFileSize map[datasize.ByteSize]datasize.ByteSize) (*sizeLadder, error) {

	if len(pieceLengthByFileSize) == 0 {
		return nil, errors.New("no piece lengths configured")
	}
	l := &sizeLadder{}
	for fileSize := range pieceLengthByFileSize {
		l.thresholds = append(l.thresholds, int64(fileSize))
	}
	sort.Slice(l.thresholds, func(i, j int) bool {
		return l.thresholds[i] < l.thresholds[j]
	})
	for _, t := range l.thresholds {
		l.pieceLengths = append(l.pieceLengths,
			int64(pieceLengthByFileSize[datasize.ByteSize(t)]))
	}
	return l, nil
}

// pieceLength returns the piece length of the highest rung whose threshold
// fileSize meets. Files below the lowest threshold use the lowest rung.
func (l *sizeLadder) pieceLength(fileSize int64) int64 {
	i := sort.Search(len(l.thresholds), func(i int) bool {
		return l.thresholds[i] > fileSize
	})
	if i == 0 {
		return l.pieceLengths[0]
	}
	return l.pieceLengths[i-1]
}
