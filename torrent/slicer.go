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
package torrent

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FileSlicer exposes a single on-disk file as indexed fixed-size pieces,
// without reading the whole file into memory.
type FileSlicer struct {
	path string
	name string
	size int64
}

// NewFileSlicer stats path and returns a FileSlicer over it.
func NewFileSlicer(path string) (*FileSlicer, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %s", err)
	}
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat file: %s", err)
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("stat file: %s is a directory", path)
	}
	return &FileSlicer{
		path: path,
		name: filepath.Base(path),
		size: fi.Size(),
	}, nil
}

// Size returns the file's length in bytes.
func (s *FileSlicer) Size() int64 { return s.size }

// Basename returns the file's base name.
func (s *FileSlicer) Basename() string { return s.name }

// Path returns the absolute path backing s.
func (s *FileSlicer) Path() string { return s.path }

// ReadBlock returns exactly length bytes starting at offset. It fails if
// offset+length exceeds the file's size.
func (s *FileSlicer) ReadBlock(offset, length int64) ([]byte, error) {
	if length < 0 || offset < 0 || offset+length > s.size {
		return nil, fmt.Errorf(
			"BlockRead: range [%d, %d) out of bounds for file of size %d", offset, offset+length, s.size)
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("BlockRead: open file: %s", err)
	}
	defer f.Close()

	buf := make([]byte, length)
	if _, err := f.ReadAt(buf, offset); err != nil && err != io.EOF {
		return nil, fmt.Errorf("BlockRead: read at %d: %s", offset, err)
	}
	return buf, nil
}

// HashPieces returns the concatenation of SHA-1 digests, one per
// pieceSize-byte piece of the file. The final piece may be shorter than
// pieceSize; its hash covers only the bytes that remain.
func (s *FileSlicer) HashPieces(pieceSize int64) (Pieces, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open file: %s", err)
	}
	defer f.Close()

	_, pieces, err := generatePieces(f, pieceSize)
	if err != nil {
		return nil, fmt.Errorf("hash pieces: %s", err)
	}
	return pieces, nil
}
